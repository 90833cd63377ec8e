package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
	"github.com/jobfin/finance_approval_app/internal/platform/config"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// authHandler handles authentication requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	userService portssvc.UserSvcFacade
}

func newAuthHandler(authService portssvc.AuthSvcFacade, userService portssvc.UserSvcFacade) *authHandler {
	return &authHandler{
		authService: authService,
		userService: userService,
	}
}

// registerAuthRoutes sets up the public authentication routes. Login is rate
// limited per IP to slow credential stuffing.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade, userService portssvc.UserSvcFacade) {
	h := newAuthHandler(authService, userService)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
		auth.POST("/register", h.register)
	}
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("Login failed", slog.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("Login error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)})
}

// register godoc
// @Summary Register a new user
// @Description Creates a new user account with a bcrypt-hashed password.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User to register"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// Self-registration: the new user is their own creator in the audit trail.
	user, err := h.userService.CreateUser(c.Request.Context(), req, "self-registration")
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Registration rejected, email taken", slog.String("email", req.Email))
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Error("Registration error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}
