package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
)

// ClientFilter defines filtering options for client queries
type ClientFilter struct {
	shared.Filter
	IncludeDeleted bool // Show soft-deleted clients alongside active ones
}

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByIDForUser finds a client by ID for a specific user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Client, error)

	// FindAllForUser finds all clients for a user with filtering
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter ClientFilter) ([]Client, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// CountForUser counts clients for a user
	CountForUser(ctx context.Context, userID uuid.UUID, filter ClientFilter) (int64, error)

	// ExistsByEmail checks if an active client with the email exists for a user
	ExistsByEmail(ctx context.Context, userID uuid.UUID, email string) (bool, error)
}
