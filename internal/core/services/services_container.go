package services

import (
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
	portssvc "github.com/rakibulmuhajir/haasib/internal/core/ports/services"
	"github.com/rakibulmuhajir/haasib/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rateSource portssvc.RateSource) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company service comes first since everything else authorizes through it.
	container.Company = NewCompanyService(repos.CompanyRepo, repos.CurrencyRepo)
	authorizer := portssvc.CompanyAuthorizerSvc(container.Company)

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo, authorizer)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, repos.CurrencyRepo, rateSource)
	container.Tax = NewTaxService(repos.TaxRepo, repos.CompanyRepo, authorizer)
	container.Ledger = NewLedgerService(repos.JournalRepo, repos.AccountRepo, repos.CurrencyRepo, authorizer)
	container.PostingTemplate = NewPostingTemplateService(repos.TemplateRepo, repos.AccountRepo, authorizer)
	container.Posting = NewPostingService(
		container.PostingTemplate,
		container.Tax,
		container.Ledger,
		container.ExchangeRate,
		repos.CompanyRepo,
		repos.CurrencyRepo,
		authorizer,
	)
	container.Command = NewCommandService(repos.IdempotencyRepo, repos.AuditRepo, authorizer)
	RegisterCommandHandlers(container)

	return container
}
