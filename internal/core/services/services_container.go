package services

import (
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gateway portssvc.CardGateway, events portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{Events: events}

	// Period lock is initialized first since document creation depends on it.
	container.PeriodLock = NewPeriodLockService(repos.OrganizationRepo)

	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo)
	container.Document = NewDocumentService(repos.DocumentRepo, repos.AccountRepo, repos.OrganizationRepo, repos.UserRepo, container.PeriodLock, events)
	container.Approval = NewApprovalService(repos.DocumentRepo, repos.UserRepo, repos.OrganizationRepo, events)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.DocumentRepo, repos.AccountRepo, repos.OrganizationRepo, gateway, events)

	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, repos.UserRepo)

	return container
}
