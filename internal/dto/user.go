package dto

import (
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateUserRequest registers a new finance actor.
type CreateUserRequest struct {
	Name                      string           `json:"name" binding:"required"`
	Email                     string           `json:"email" binding:"required,email"`
	Password                  string           `json:"password" binding:"required,min=8"`
	InvoiceApproveLimit       *decimal.Decimal `json:"invoiceApproveLimit"`
	CreditNoteApproveLimit    *decimal.Decimal `json:"creditNoteApproveLimit"`
	PurchaseOrderApproveLimit *decimal.Decimal `json:"purchaseOrderApproveLimit"`
	CanManageLocked           bool             `json:"canManageLocked"`
	LocationIDs               []string         `json:"locationIDs"`
}

// LoginRequest authenticates a user by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the API shape of a user.
type UserResponse struct {
	UserID          string   `json:"userID"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	CanManageLocked bool     `json:"canManageLocked"`
	LocationIDs     []string `json:"locationIDs,omitempty"`
}

// ToUserResponse converts a domain user to its API shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:          u.UserID,
		Name:            u.Name,
		Email:           u.Email,
		CanManageLocked: u.CanManageLocked,
		LocationIDs:     u.LocationIDs,
	}
}
