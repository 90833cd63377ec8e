package repositories

import (
	"context"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
)

// OrganizationRepositoryFacade defines operations for accounting
// organizations and tax rates.
type OrganizationRepositoryFacade interface {
	// FindOrganizationByID retrieves an organization with its location links.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.AccountingOrganization, error)

	// FindOrganizationByLocation retrieves the active organization serving a
	// location.
	FindOrganizationByLocation(ctx context.Context, locationID string) (*domain.AccountingOrganization, error)

	// FindTaxRateByID retrieves a tax rate.
	FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error)

	// FindTaxRatesByIDs retrieves multiple tax rates keyed by ID.
	FindTaxRatesByIDs(ctx context.Context, taxRateIDs []string) (map[string]domain.TaxRate, error)
}
