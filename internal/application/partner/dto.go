package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/partner"
)

// CreateClientRequest is the request to create a client
type CreateClientRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=200"`
	Email             string `json:"email" binding:"omitempty,email"`
	Phone             string `json:"phone" binding:"omitempty,max=50"`
	Address           string `json:"address" binding:"omitempty,max=500"`
	PaymentPreference string `json:"paymentPreference" binding:"omitempty,oneof=TRANSFER CASH EWALLET OTHER"`
	Notes             string `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateClientRequest is the request to update a client
type UpdateClientRequest struct {
	Name              *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Phone             *string `json:"phone" binding:"omitempty,max=50"`
	Address           *string `json:"address" binding:"omitempty,max=500"`
	PaymentPreference *string `json:"paymentPreference" binding:"omitempty,oneof=TRANSFER CASH EWALLET OTHER"`
	Notes             *string `json:"notes" binding:"omitempty,max=1000"`
}

// ClientResponse is the client data returned to callers
type ClientResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Address           string     `json:"address,omitempty"`
	PaymentPreference string     `json:"paymentPreference"`
	Notes             string     `json:"notes,omitempty"`
	DeletedAt         *time.Time `json:"deletedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ClientListFilter is the filter for listing clients
type ClientListFilter struct {
	Page           int    `form:"page"`
	PageSize       int    `form:"pageSize"`
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
	SortBy         string `form:"sortBy"`
	SortOrder      string `form:"sortOrder"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *partner.Client) *ClientResponse {
	return &ClientResponse{
		ID:                c.ID,
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		Address:           c.Address,
		PaymentPreference: string(c.PaymentPreference),
		Notes:             c.Notes,
		DeletedAt:         c.DeletedAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToClientResponses converts a list of domain clients to responses
func ToClientResponses(clients []partner.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = *ToClientResponse(&clients[i])
	}
	return responses
}
