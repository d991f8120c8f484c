package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rakibulmuhajir/haasib/internal/apperrors"
	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/dto"
	"github.com/shopspring/decimal"
)

// staticFallbackRates holds approximate USD-based rates used only when no
// stored rate exists in either direction. Pairs not involving USD resolve
// through USD as the pivot.
var staticFallbackRates = map[string]decimal.Decimal{
	"EUR": decimal.NewFromFloat(0.92),
	"GBP": decimal.NewFromFloat(0.79),
	"JPY": decimal.NewFromFloat(151.0),
	"PKR": decimal.NewFromFloat(278.0),
	"INR": decimal.NewFromFloat(83.0),
	"AED": decimal.NewFromFloat(3.67),
	"SAR": decimal.NewFromFloat(3.75),
	"CAD": decimal.NewFromFloat(1.36),
	"AUD": decimal.NewFromFloat(1.52),
}

type exchangeRateSvc struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	rateSource   portssvc.RateSource
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateSvc)(nil)

// NewExchangeRateService creates a new exchange rate service instance.
// rateSource may be nil when no external feed is configured.
func NewExchangeRateService(
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	rateSource portssvc.RateSource,
) *exchangeRateSvc {
	return &exchangeRateSvc{
		rateRepo:     rateRepo,
		currencyRepo: currencyRepo,
		rateSource:   rateSource,
	}
}

// GetExchangeRate resolves from->to in order: identity, stored direct rate,
// inverted stored reverse rate, static fallback table. A pair that resolves
// nowhere is an error, never a silent 1.0.
func (s *exchangeRateSvc) GetExchangeRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (decimal.Decimal, error) {
	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}

	direct, err := s.rateRepo.FindLatestRate(ctx, fromCode, toCode, asOf)
	if err == nil {
		return direct.Rate, nil
	}

	reverse, err := s.rateRepo.FindLatestRate(ctx, toCode, fromCode, asOf)
	if err == nil && !reverse.Rate.IsZero() {
		return decimal.NewFromInt(1).Div(reverse.Rate), nil
	}

	if rate, ok := s.fallbackRate(fromCode, toCode); ok {
		s.LogWarn(ctx, "Using static fallback exchange rate",
			slog.String("from", fromCode), slog.String("to", toCode))
		return rate, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %s to %s as of %s",
		apperrors.ErrUnknownExchangeRate, fromCode, toCode, asOf.Format("2006-01-02"))
}

// fallbackRate derives a rate from the static USD table, pivoting through USD
// for non-USD pairs.
func (s *exchangeRateSvc) fallbackRate(fromCode, toCode string) (decimal.Decimal, bool) {
	usdTo := func(code string) (decimal.Decimal, bool) {
		if code == "USD" {
			return decimal.NewFromInt(1), true
		}
		r, ok := staticFallbackRates[code]
		return r, ok
	}

	fromRate, okFrom := usdTo(fromCode)
	toRate, okTo := usdTo(toCode)
	if !okFrom || !okTo || fromRate.IsZero() {
		return decimal.Zero, false
	}
	return toRate.Div(fromRate), true
}

func (s *exchangeRateSvc) ConvertCurrency(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf time.Time, customRate *decimal.Decimal) (decimal.Decimal, error) {
	if fromCode == toCode {
		return amount, nil
	}

	var rate decimal.Decimal
	if customRate != nil {
		if customRate.Sign() <= 0 {
			return decimal.Zero, fmt.Errorf("%w: custom rate must be positive", apperrors.ErrValidation)
		}
		rate = *customRate
	} else {
		var err error
		rate, err = s.GetExchangeRate(ctx, fromCode, toCode, asOf)
		if err != nil {
			return decimal.Zero, err
		}
	}

	converted := amount.Mul(rate)
	places := int32(2)
	if currency, err := s.currencyRepo.FindCurrencyByCode(ctx, toCode); err == nil {
		places = currency.DecimalPlaces
	}
	return converted.Round(places), nil
}

func (s *exchangeRateSvc) UpsertExchangeRate(ctx context.Context, req dto.UpsertExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	if req.Rate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency must differ", apperrors.ErrValidation)
	}
	for _, code := range []string{req.FromCurrencyCode, req.ToCurrencyCode} {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
			return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, code)
		}
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		Source:           source,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.rateRepo.UpsertExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to upsert exchange rate",
			slog.String("from", req.FromCurrencyCode), slog.String("to", req.ToCurrencyCode))
		return nil, err
	}
	return &rate, nil
}

// ImportRates pulls the external feed and stores one rate row per quote.
// Individual bad quotes are skipped, not fatal.
func (s *exchangeRateSvc) ImportRates(ctx context.Context, baseCurrency string, userID string) (int, error) {
	if s.rateSource == nil {
		return 0, fmt.Errorf("%w: no rate source configured", apperrors.ErrInternal)
	}

	quotes, err := s.rateSource.FetchRates(ctx, baseCurrency)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch rates from feed", slog.String("base", baseCurrency))
		return 0, err
	}

	now := time.Now()
	imported := 0
	for _, quote := range quotes {
		if quote.CurrencyCode == baseCurrency || quote.Rate.Sign() <= 0 {
			continue
		}
		rate := domain.ExchangeRate{
			ExchangeRateID:   uuid.NewString(),
			FromCurrencyCode: baseCurrency,
			ToCurrencyCode:   quote.CurrencyCode,
			Rate:             quote.Rate,
			DateEffective:    quote.Date,
			Source:           "import",
			IsActive:         true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.rateRepo.UpsertExchangeRate(ctx, rate); err != nil {
			s.LogWarn(ctx, "Skipping rate that failed to persist",
				slog.String("to", quote.CurrencyCode), slog.String("error", err.Error()))
			continue
		}
		imported++
	}

	s.LogInfo(ctx, "Exchange rate import finished",
		slog.String("base", baseCurrency), slog.Int("imported", imported))
	return imported, nil
}
