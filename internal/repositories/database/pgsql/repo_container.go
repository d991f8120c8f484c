package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/rakibulmuhajir/haasib/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)
	taxRepo := newPgxTaxRepository(dbPool)
	templateRepo := newPgxPostingTemplateRepository(dbPool)
	idempotencyRepo := newPgxIdempotencyRepository(dbPool)
	auditRepo := newPgxAuditLogRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		JournalRepo:      journalRepo,
		ExchangeRateRepo: exchangeRateRepo,
		CurrencyRepo:     currencyRepo,
		TaxRepo:          taxRepo,
		TemplateRepo:     templateRepo,
		IdempotencyRepo:  idempotencyRepo,
		AuditRepo:        auditRepo,
		CompanyRepo:      companyRepo,
		UserRepo:         userRepo,
	}
}
