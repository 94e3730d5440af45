package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
)

// UserRegisteredEvent is raised when a new account is registered
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	RegisteredUserID uuid.UUID `json:"registered_user_id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
}

// EventType returns the event type name
func (e *UserRegisteredEvent) EventType() string {
	return "UserRegistered"
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("UserRegistered", "User", u.ID, u.ID),
		RegisteredUserID: u.ID,
		Email:            u.Email,
		Name:             u.Name,
	}
}

// UserEmailVerifiedEvent is raised when an account's email is verified
type UserEmailVerifiedEvent struct {
	shared.BaseDomainEvent
	VerifiedUserID uuid.UUID `json:"verified_user_id"`
	Email          string    `json:"email"`
	VerifiedAt     time.Time `json:"verified_at"`
}

// EventType returns the event type name
func (e *UserEmailVerifiedEvent) EventType() string {
	return "UserEmailVerified"
}

// NewUserEmailVerifiedEvent creates a new UserEmailVerifiedEvent
func NewUserEmailVerifiedEvent(u *User) *UserEmailVerifiedEvent {
	verifiedAt := time.Now()
	if u.EmailVerifiedAt != nil {
		verifiedAt = *u.EmailVerifiedAt
	}
	return &UserEmailVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserEmailVerified", "User", u.ID, u.ID),
		VerifiedUserID:  u.ID,
		Email:           u.Email,
		VerifiedAt:      verifiedAt,
	}
}
