package repositories

import (
	"context"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
)

// UserRepositoryFacade defines persistence for finance actors.
type UserRepositoryFacade interface {
	// FindUserByID retrieves a user with their location links.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email for authentication.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsersByLocation retrieves all active users attached to the
	// location.
	FindUsersByLocation(ctx context.Context, locationID string) ([]domain.User, error)

	// SaveUser inserts a new user and their location links.
	SaveUser(ctx context.Context, user domain.User) error
}
