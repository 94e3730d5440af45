package partner

import (
	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
)

// ClientCreatedEvent is raised when a new client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
}

// EventType returns the event type name
func (e *ClientCreatedEvent) EventType() string {
	return "ClientCreated"
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ClientCreated", "Client", c.ID, c.UserID),
		ClientID:        c.ID,
		Name:            c.Name,
		Email:           c.Email,
	}
}

// ClientUpdatedEvent is raised when a client's contact details change
type ClientUpdatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
}

// EventType returns the event type name
func (e *ClientUpdatedEvent) EventType() string {
	return "ClientUpdated"
}

// NewClientUpdatedEvent creates a new ClientUpdatedEvent
func NewClientUpdatedEvent(c *Client) *ClientUpdatedEvent {
	return &ClientUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ClientUpdated", "Client", c.ID, c.UserID),
		ClientID:        c.ID,
		Name:            c.Name,
	}
}
