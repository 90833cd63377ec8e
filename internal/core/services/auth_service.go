package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/middleware"
	"github.com/jobfin/finance_approval_app/internal/platform/config"
	"github.com/jobfin/finance_approval_app/internal/utils"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)

// authService authenticates users and issues JWTs for the HTTP boundary.
type authService struct {
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, userRepo: userRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies credentials and returns a signed token with the user.
func (s *authService) Login(ctx context.Context, email string, password string) (string, *domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user for login: %w", err)
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Login rejected", slog.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}
