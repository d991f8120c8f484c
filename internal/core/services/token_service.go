package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
)

type tokenSvc struct {
	secret []byte
	expiry time.Duration
	issuer string
}

var _ portssvc.TokenSvcFacade = (*tokenSvc)(nil)

// NewTokenService creates a token service signing HS256 tokens.
func NewTokenService(secret string, expiry time.Duration, issuer string) *tokenSvc {
	return &tokenSvc{secret: []byte(secret), expiry: expiry, issuer: issuer}
}

func (s *tokenSvc) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
