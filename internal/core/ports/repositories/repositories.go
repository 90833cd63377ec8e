package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	OrganizationRepo OrganizationRepositoryFacade
	LedgerRepo       LedgerRepositoryFacade
	DocumentRepo     DocumentRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	UserRepo         UserRepositoryFacade
}
