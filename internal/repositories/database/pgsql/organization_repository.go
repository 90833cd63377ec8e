package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	"github.com/jobfin/finance_approval_app/internal/models"
	"github.com/jobfin/finance_approval_app/internal/utils/mapping"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for accounting
// organizations and tax rates.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationColumns = `
	organization_id, name, lock_day_of_month, is_active,
	tax_payable_account_id, accounts_receivable_account_id, payment_details_account_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanOrganization(row pgx.Row) (*models.AccountingOrganization, error) {
	var m models.AccountingOrganization
	err := row.Scan(
		&m.OrganizationID,
		&m.Name,
		&m.LockDayOfMonth,
		&m.IsActive,
		&m.TaxPayableAccountID,
		&m.AccountsReceivableAccountID,
		&m.PaymentDetailsAccountID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxOrganizationRepository) findLocationIDs(ctx context.Context, organizationID string) ([]string, error) {
	query := `SELECT location_id FROM organization_locations WHERE organization_id = $1 ORDER BY location_id;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organization locations", err)
	}
	defer rows.Close()

	var locationIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan organization location row", err)
		}
		locationIDs = append(locationIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading organization location rows", err)
	}
	return locationIDs, nil
}

// FindOrganizationByID retrieves an organization with its location links.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.AccountingOrganization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM accounting_organizations
		WHERE organization_id = $1;
	`
	m, err := scanOrganization(r.Pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organization "+organizationID, err)
	}

	locationIDs, err := r.findLocationIDs(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	org := mapping.ToDomainOrganization(*m, locationIDs)
	return &org, nil
}

// FindOrganizationByLocation retrieves the active organization serving a
// location.
func (r *PgxOrganizationRepository) FindOrganizationByLocation(ctx context.Context, locationID string) (*domain.AccountingOrganization, error) {
	query := `
		SELECT ao.organization_id, ao.name, ao.lock_day_of_month, ao.is_active,
		       ao.tax_payable_account_id, ao.accounts_receivable_account_id, ao.payment_details_account_id,
		       ao.created_at, ao.created_by, ao.last_updated_at, ao.last_updated_by
		FROM accounting_organizations ao
		JOIN organization_locations ol ON ol.organization_id = ao.organization_id
		WHERE ol.location_id = $1 AND ao.is_active;
	`
	m, err := scanOrganization(r.Pool.QueryRow(ctx, query, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organization for location "+locationID, err)
	}

	locationIDs, err := r.findLocationIDs(ctx, m.OrganizationID)
	if err != nil {
		return nil, err
	}
	org := mapping.ToDomainOrganization(*m, locationIDs)
	return &org, nil
}

// FindTaxRateByID retrieves a tax rate.
func (r *PgxOrganizationRepository) FindTaxRateByID(ctx context.Context, taxRateID string) (*domain.TaxRate, error) {
	query := `
		SELECT tax_rate_id, name, rate, created_at, created_by, last_updated_at, last_updated_by
		FROM tax_rates
		WHERE tax_rate_id = $1;
	`
	var m models.TaxRate
	err := r.Pool.QueryRow(ctx, query, taxRateID).Scan(
		&m.TaxRateID,
		&m.Name,
		&m.Rate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tax rate "+taxRateID, err)
	}
	rate := mapping.ToDomainTaxRate(m)
	return &rate, nil
}

// FindTaxRatesByIDs retrieves multiple tax rates keyed by ID. Fails with
// ErrNotFound if any requested rate is missing.
func (r *PgxOrganizationRepository) FindTaxRatesByIDs(ctx context.Context, taxRateIDs []string) (map[string]domain.TaxRate, error) {
	if len(taxRateIDs) == 0 {
		return map[string]domain.TaxRate{}, nil
	}

	query := `
		SELECT tax_rate_id, name, rate, created_at, created_by, last_updated_at, last_updated_by
		FROM tax_rates
		WHERE tax_rate_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, taxRateIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax rates", err)
	}
	defer rows.Close()

	rates := make(map[string]domain.TaxRate, len(taxRateIDs))
	for rows.Next() {
		var m models.TaxRate
		err := rows.Scan(
			&m.TaxRateID,
			&m.Name,
			&m.Rate,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax rate row", err)
		}
		rates[m.TaxRateID] = mapping.ToDomainTaxRate(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading tax rate rows", err)
	}

	for _, id := range taxRateIDs {
		if _, ok := rates[id]; !ok {
			return nil, apperrors.ErrNotFound
		}
	}
	return rates, nil
}
