package services

// ServiceContainer holds every service facade for handler wiring.
type ServiceContainer struct {
	Account         AccountSvcFacade
	Currency        CurrencySvcFacade
	ExchangeRate    ExchangeRateSvcFacade
	Tax             TaxSvcFacade
	Ledger          LedgerSvcFacade
	PostingTemplate PostingTemplateSvcFacade
	Posting         PostingSvcFacade
	Command         CommandSvcFacade
	Company         CompanySvcFacade
	User            UserSvcFacade
	Token           TokenSvcFacade
}
