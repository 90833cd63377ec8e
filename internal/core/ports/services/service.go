package services

// ServiceContainer holds instances of all the application services. This is
// the main entry point for accessing service functionality from handlers.
type ServiceContainer struct {
	Ledger     LedgerSvcFacade
	Document   DocumentSvcFacade
	Approval   ApprovalSvcFacade
	Payment    PaymentSvcFacade
	User       UserSvcFacade
	Auth       AuthSvcFacade
	PeriodLock PeriodLockSvc
	Events     EventPublisher
}
