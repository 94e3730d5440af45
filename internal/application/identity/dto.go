package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/identity"
)

// RegisterRequest is the request to create an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
}

// RegisterResult carries the new account and its verification token.
// The token is handed to the mail delivery pipeline, never to the client.
type RegisterResult struct {
	User              *UserResponse
	VerificationToken string
}

// LoginRequest is the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"tokenType"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}

// UpdateProfileRequest is the request to update the profile
type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	BusinessName *string `json:"businessName" binding:"omitempty,max=200"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Currency     *string `json:"currency" binding:"omitempty,oneof=IDR USD EUR SGD MYR"`
}

// ChangePasswordRequest is the request to change the password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// UserResponse is the account data returned to callers
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	BusinessName    string     `json:"businessName,omitempty"`
	Address         string     `json:"address,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		BusinessName:    u.BusinessName,
		Address:         u.Address,
		Phone:           u.Phone,
		Currency:        string(u.Currency),
		Status:          string(u.Status),
		EmailVerifiedAt: u.EmailVerifiedAt,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}
