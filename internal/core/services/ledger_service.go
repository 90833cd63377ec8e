package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/middleware"
	"github.com/jobfin/finance_approval_app/internal/utils/accounting"
)

// ledgerService provides balanced transaction posting and derived balance
// queries.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetAccountBalance derives the account balance from its posted transaction
// records. A fresh account yields zero.
func (s *ledgerService) GetAccountBalance(ctx context.Context, glAccountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindGLAccountByID(ctx, glAccountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find account %s: %w", glAccountID, err)
	}

	balance, err := s.ledgerRepo.SumAccountBalance(ctx, account.GLAccountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to derive balance for account %s: %w", glAccountID, err)
	}
	return balance, nil
}

// PostTransaction validates the double-entry invariant and persists one
// balanced transaction with its records atomically.
func (s *ledgerService) PostTransaction(ctx context.Context, organizationID string, records []domain.TransactionRecord, notes string, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := accounting.ValidateTransactionBalance(records); err != nil {
		logger.Warn("Rejected unbalanced transaction", slog.String("organization_id", organizationID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalancedTransaction, err.Error())
	}

	// Every referenced account must exist, be active and belong to the
	// posting organization.
	accountIDs := make([]string, 0, len(records))
	for _, rec := range records {
		accountIDs = append(accountIDs, rec.GLAccountID)
	}
	accounts, err := s.accountRepo.FindGLAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts for posting: %w", err)
	}
	for _, rec := range records {
		account, ok := accounts[rec.GLAccountID]
		if !ok {
			return nil, fmt.Errorf("%w: gl account %s", apperrors.ErrNotFound, rec.GLAccountID)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: gl account %s is inactive", apperrors.ErrValidation, rec.GLAccountID)
		}
		if account.OrganizationID != organizationID {
			return nil, fmt.Errorf("%w: gl account %s belongs to a different organization", apperrors.ErrValidation, rec.GLAccountID)
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		OrganizationID:  organizationID,
		TransactionDate: now,
		Notes:           notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
		Records: make([]domain.TransactionRecord, len(records)),
	}
	for i, rec := range records {
		rec.RecordID = uuid.NewString()
		rec.TransactionID = txn.TransactionID
		rec.CreatedAt = now
		rec.CreatedBy = actorID
		rec.LastUpdatedAt = now
		rec.LastUpdatedBy = actorID
		txn.Records[i] = rec
	}

	if err := s.ledgerRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("organization_id", organizationID),
		slog.Int("record_count", len(txn.Records)),
	)
	return &txn, nil
}
