package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/middleware"
)

// periodLockService gates financial document dates against the owning
// organization's monthly close boundary.
type periodLockService struct {
	organizationRepo portsrepo.OrganizationRepositoryFacade
	// now is injected for tests; defaults to time.Now.
	now func() time.Time
}

// NewPeriodLockService creates a new PeriodLockService.
func NewPeriodLockService(organizationRepo portsrepo.OrganizationRepositoryFacade) portssvc.PeriodLockSvc {
	return &periodLockService{
		organizationRepo: organizationRepo,
		now:              time.Now,
	}
}

var _ portssvc.PeriodLockSvc = (*periodLockService)(nil)

// CheckDateAllowed fails with ErrNotAllowed when date falls strictly before
// the organization's current lock boundary. A date exactly on the boundary is
// accepted.
func (s *periodLockService) CheckDateAllowed(ctx context.Context, organizationID string, date time.Time) error {
	org, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}

	boundary := org.LockBoundary(s.now())
	candidate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, boundary.Location())
	if candidate.Before(boundary) {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Warn("Date rejected by period lock",
			slog.String("organization_id", organizationID),
			slog.Time("date", date),
			slog.Time("boundary", boundary),
		)
		return fmt.Errorf("%w: date %s falls in a locked period (boundary %s)",
			apperrors.ErrNotAllowed, candidate.Format("2006-01-02"), boundary.Format("2006-01-02"))
	}
	return nil
}
