package services

import (
	"context"
	"time"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/jobfin/finance_approval_app/internal/dto"
)

// UserSvcFacade exposes user management for the finance core.
type UserSvcFacade interface {
	// GetUserByID retrieves a user with their location links.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// CreateUser registers a new user with a bcrypt-hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, actorID string) (*domain.User, error)
}

// AuthSvcFacade authenticates users and issues JWTs for the HTTP boundary.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed token with the user.
	Login(ctx context.Context, email string, password string) (string, *domain.User, error)
}

// PeriodLockSvc gates financial document dates against the owning
// organization's period-close boundary.
type PeriodLockSvc interface {
	// CheckDateAllowed fails with ErrNotAllowed when date falls before the
	// organization's current lock boundary.
	CheckDateAllowed(ctx context.Context, organizationID string, date time.Time) error
}
