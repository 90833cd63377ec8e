package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
	"github.com/jobfin/finance_approval_app/internal/utils"
)

// userService manages finance actors.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user with their location links.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return user, nil
}

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actorID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if existing, err := s.userRepo.FindUserByEmail(ctx, req.Email); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing email: %w", err)
		}
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicate, req.Email)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:                    uuid.NewString(),
		Name:                      req.Name,
		Email:                     req.Email,
		PasswordHash:              hash,
		IsActive:                  true,
		InvoiceApproveLimit:       req.InvoiceApproveLimit,
		CreditNoteApproveLimit:    req.CreditNoteApproveLimit,
		PurchaseOrderApproveLimit: req.PurchaseOrderApproveLimit,
		CanManageLocked:           req.CanManageLocked,
		LocationIDs:               req.LocationIDs,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User created", slog.String("user_id", user.UserID))
	return &user, nil
}
