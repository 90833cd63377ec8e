package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
)

// NewRepositoryProvider creates all pgsql-backed repositories sharing one
// connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
		LedgerRepo:       newPgxLedgerRepository(dbPool),
		DocumentRepo:     newPgxDocumentRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
