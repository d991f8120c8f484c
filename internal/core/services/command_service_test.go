package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CommandServiceTestSuite struct {
	suite.Suite
	mockIdempotencyRepo *MockIdempotencyRepository
	mockAuditRepo       *MockAuditRepository
	mockAuthorizer      *MockAuthorizer
	service             portssvc.CommandSvcFacade
	actor               domain.ActorContext
}

func (suite *CommandServiceTestSuite) SetupTest() {
	suite.mockIdempotencyRepo = new(MockIdempotencyRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewCommandService(suite.mockIdempotencyRepo, suite.mockAuditRepo, suite.mockAuthorizer)
	suite.actor = domain.ActorContext{UserID: uuid.NewString(), CompanyID: uuid.NewString()}
}

func (suite *CommandServiceTestSuite) registerEcho() {
	suite.service.Register("echo", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		var payload map[string]any
		if err := json.Unmarshal(params, &payload); err != nil {
			return nil, fmt.Errorf("%w: bad params", apperrors.ErrValidation)
		}
		return payload, nil
	})
}

func (suite *CommandServiceTestSuite) TestExecute_UnknownAction() {
	result, status := suite.service.Execute(context.Background(), suite.actor, "nope", json.RawMessage(`{}`), "")

	suite.Equal(http.StatusNotFound, status)
	suite.False(result.OK)
}

func (suite *CommandServiceTestSuite) TestExecute_SuccessWritesAuditAndRecord() {
	suite.registerEcho()
	params := json.RawMessage(`{"hello":"world"}`)

	suite.mockIdempotencyRepo.On("FindRecord", mock.Anything, suite.actor.UserID, suite.actor.CompanyID, "echo", "key-1").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAuditRepo.On("SaveAuditLogEntry", mock.Anything, mock.MatchedBy(func(e domain.AuditLogEntry) bool {
		return e.Action == "echo" && e.UserID == suite.actor.UserID && e.IdempotencyKey == "key-1"
	})).Return(nil).Once()
	suite.mockIdempotencyRepo.On("SaveRecord", mock.Anything, mock.MatchedBy(func(r domain.IdempotencyRecord) bool {
		return r.Action == "echo" && r.IdempotencyKey == "key-1" && r.StatusCode == http.StatusOK
	})).Return(nil).Once()

	result, status := suite.service.Execute(context.Background(), suite.actor, "echo", params, "key-1")

	suite.Equal(http.StatusOK, status)
	suite.True(result.OK)
	suite.mockIdempotencyRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *CommandServiceTestSuite) TestExecute_ReplayReturnsConflict() {
	suite.registerEcho()
	existing := &domain.IdempotencyRecord{
		RecordID:       uuid.NewString(),
		Action:         "echo",
		IdempotencyKey: "key-1",
		StatusCode:     http.StatusOK,
	}
	suite.mockIdempotencyRepo.On("FindRecord", mock.Anything, suite.actor.UserID, suite.actor.CompanyID, "echo", "key-1").
		Return(existing, nil).Once()

	result, status := suite.service.Execute(context.Background(), suite.actor, "echo", json.RawMessage(`{}`), "key-1")

	suite.Equal(http.StatusConflict, status)
	suite.False(result.OK)
	// Handler never ran, so no audit entry and no new record.
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "SaveAuditLogEntry", mock.Anything, mock.Anything)
	suite.mockIdempotencyRepo.AssertNotCalled(suite.T(), "SaveRecord", mock.Anything, mock.Anything)
}

func (suite *CommandServiceTestSuite) TestExecute_EmptyKeySkipsDeduplication() {
	suite.registerEcho()
	suite.mockAuditRepo.On("SaveAuditLogEntry", mock.Anything, mock.Anything).Return(nil).Once()

	result, status := suite.service.Execute(context.Background(), suite.actor, "echo", json.RawMessage(`{}`), "")

	suite.Equal(http.StatusOK, status)
	suite.True(result.OK)
	suite.mockIdempotencyRepo.AssertNotCalled(suite.T(), "FindRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockIdempotencyRepo.AssertNotCalled(suite.T(), "SaveRecord", mock.Anything, mock.Anything)
}

func (suite *CommandServiceTestSuite) TestExecute_StorageFailureStillExecutes() {
	suite.registerEcho()
	suite.mockIdempotencyRepo.On("FindRecord", mock.Anything, suite.actor.UserID, suite.actor.CompanyID, "echo", "key-1").
		Return(nil, errors.New("connection refused")).Once()
	suite.mockAuditRepo.On("SaveAuditLogEntry", mock.Anything, mock.Anything).Return(nil).Once()

	result, status := suite.service.Execute(context.Background(), suite.actor, "echo", json.RawMessage(`{}`), "key-1")

	suite.Equal(http.StatusOK, status)
	suite.True(result.OK)
	// Dedup was disabled for this call, so no record save either.
	suite.mockIdempotencyRepo.AssertNotCalled(suite.T(), "SaveRecord", mock.Anything, mock.Anything)
}

func (suite *CommandServiceTestSuite) TestExecute_HandlerErrorLeavesNoRecord() {
	suite.service.Register("fail", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		return nil, fmt.Errorf("%w: totals differ", apperrors.ErrUnbalancedEntry)
	})
	suite.mockIdempotencyRepo.On("FindRecord", mock.Anything, suite.actor.UserID, suite.actor.CompanyID, "fail", "key-1").
		Return(nil, apperrors.ErrNotFound).Once()

	result, status := suite.service.Execute(context.Background(), suite.actor, "fail", json.RawMessage(`{}`), "key-1")

	suite.Equal(http.StatusUnprocessableEntity, status)
	suite.False(result.OK)
	suite.NotEmpty(result.Errors)
	// Failures are retryable: nothing is recorded against the key.
	suite.mockIdempotencyRepo.AssertNotCalled(suite.T(), "SaveRecord", mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "SaveAuditLogEntry", mock.Anything, mock.Anything)
}

func (suite *CommandServiceTestSuite) TestExecute_InternalErrorHidesCause() {
	cause := errors.New(`duplicate key value violates unique constraint "idx_internal" (host=10.0.0.5)`)
	suite.service.Register("boom", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		return nil, apperrors.NewAppError(500, "failed to insert journal entry", cause)
	})

	result, status := suite.service.Execute(context.Background(), suite.actor, "boom", json.RawMessage(`{}`), "")

	suite.Equal(http.StatusInternalServerError, status)
	suite.False(result.OK)
	suite.Equal("failed to insert journal entry", result.Message)
	suite.NotContains(result.Message, "10.0.0.5")
}

func (suite *CommandServiceTestSuite) TestExecute_UnexpectedErrorGenericMessage() {
	suite.service.Register("boom", func(ctx context.Context, actor domain.ActorContext, params json.RawMessage) (any, error) {
		return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
	})

	result, status := suite.service.Execute(context.Background(), suite.actor, "boom", json.RawMessage(`{}`), "")

	suite.Equal(http.StatusInternalServerError, status)
	suite.False(result.OK)
	suite.Equal("Internal server error", result.Message)
}

func (suite *CommandServiceTestSuite) TestExecute_AuditFailureSwallowed() {
	suite.registerEcho()
	suite.mockIdempotencyRepo.On("FindRecord", mock.Anything, suite.actor.UserID, suite.actor.CompanyID, "echo", "key-1").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAuditRepo.On("SaveAuditLogEntry", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	suite.mockIdempotencyRepo.On("SaveRecord", mock.Anything, mock.Anything).Return(nil).Once()

	result, status := suite.service.Execute(context.Background(), suite.actor, "echo", json.RawMessage(`{}`), "key-1")

	suite.Equal(http.StatusOK, status)
	suite.True(result.OK)
}

func (suite *CommandServiceTestSuite) TestExecute_RecordSaveRaceDoesNotFailCommand() {
	suite.registerEcho()
	suite.mockIdempotencyRepo.On("FindRecord", mock.Anything, suite.actor.UserID, suite.actor.CompanyID, "echo", "key-1").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAuditRepo.On("SaveAuditLogEntry", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockIdempotencyRepo.On("SaveRecord", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	result, status := suite.service.Execute(context.Background(), suite.actor, "echo", json.RawMessage(`{}`), "key-1")

	suite.Equal(http.StatusOK, status)
	suite.True(result.OK)
}

func TestCommandServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommandServiceTestSuite))
}
