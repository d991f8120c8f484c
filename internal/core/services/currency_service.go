package services

import (
	"context"

	"github.com/rakibulmuhajir/haasib/internal/core/domain"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
)

type currencySvc struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.CurrencySvcFacade = (*currencySvc)(nil)

// NewCurrencyService creates a new currency service instance.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) *currencySvc {
	return &currencySvc{currencyRepo: currencyRepo}
}

func (s *currencySvc) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
}

func (s *currencySvc) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}
