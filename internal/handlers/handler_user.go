package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
)

// userHandler handles HTTP requests for users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(userService portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: userService,
	}
}

func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.GET("/:userID", h.getUser)
	}
}

// getMe godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// getUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{userID} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
