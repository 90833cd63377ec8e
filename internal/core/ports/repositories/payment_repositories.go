package repositories

import (
	"context"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
)

// PaymentRepositoryFacade defines persistence for payments and transfers.
// Both save operations are atomic: payment rows, allocation rows and the
// balanced ledger posting commit or roll back together.
type PaymentRepositoryFacade interface {
	// SavePayment inserts the payment, its invoice allocations and the ledger
	// transaction in one database transaction. Invoice rows are locked and
	// each allocation is re-checked against the amount still due; a violation
	// fails the whole operation with ErrNotAllowed. A duplicate payment
	// reference within the organization fails with ErrDuplicate.
	SavePayment(ctx context.Context, payment domain.Payment, txn domain.Transaction) error

	// SaveForwardedPayment inserts the forwarded payment, its invoice links
	// and the ledger transaction in one database transaction. The source GL
	// account row is locked and its derived balance re-checked against the
	// transfer amount inside the same transaction; insufficient funds fail
	// with ErrNotAllowed and nothing is written.
	SaveForwardedPayment(ctx context.Context, fp domain.ForwardedPayment, txn domain.Transaction) error

	// FindPaymentByID retrieves a payment with its allocations.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentByReference retrieves a payment by its idempotency reference
	// within the organization. Used to reject duplicates before any external
	// side effect (e.g. a card charge) happens.
	FindPaymentByReference(ctx context.Context, organizationID, reference string) (*domain.Payment, error)
}
