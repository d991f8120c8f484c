package repositories

// RepositoryProvider bundles every repository facade the service layer needs.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	CurrencyRepo     CurrencyRepositoryFacade
	TaxRepo          TaxRepositoryFacade
	TemplateRepo     PostingTemplateRepositoryFacade
	IdempotencyRepo  IdempotencyRepositoryFacade
	AuditRepo        AuditLogRepositoryFacade
	CompanyRepo      CompanyRepositoryFacade
	UserRepo         UserRepositoryFacade
}
