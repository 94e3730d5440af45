package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// PaymentPreference is the client's preferred way to settle invoices
type PaymentPreference string

const (
	PaymentPreferenceTransfer PaymentPreference = "TRANSFER"
	PaymentPreferenceCash     PaymentPreference = "CASH"
	PaymentPreferenceEwallet  PaymentPreference = "EWALLET"
	PaymentPreferenceOther    PaymentPreference = "OTHER"
)

// IsValid checks if the payment preference is valid
func (p PaymentPreference) IsValid() bool {
	switch p {
	case PaymentPreferenceTransfer, PaymentPreferenceCash, PaymentPreferenceEwallet, PaymentPreferenceOther:
		return true
	}
	return false
}

// Client represents a billable contact in the partner context.
// Many invoices reference one client. Clients are soft-deleted so that
// historic invoices keep resolving their counterparty.
type Client struct {
	shared.OwnedAggregateRoot
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Address           string            `json:"address"`
	PaymentPreference PaymentPreference `json:"payment_preference"`
	Notes             string            `json:"notes"`
	DeletedAt         *time.Time        `json:"deleted_at"`
}

// NewClient creates a new client with required fields
func NewClient(userID uuid.UUID, name, email, phone, address string, preference PaymentPreference, notes string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if email != "" && !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	if preference == "" {
		preference = PaymentPreferenceTransfer
	}
	if !preference.IsValid() {
		return nil, shared.NewDomainError("INVALID_PREFERENCE", "Payment preference is not valid")
	}

	client := &Client{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               strings.TrimSpace(name),
		Email:              strings.ToLower(strings.TrimSpace(email)),
		Phone:              strings.TrimSpace(phone),
		Address:            address,
		PaymentPreference:  preference,
		Notes:              notes,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update updates the client's contact information
func (c *Client) Update(name, email, phone, address string, preference PaymentPreference, notes string) error {
	if c.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a deleted client")
	}
	if err := validateClientName(name); err != nil {
		return err
	}
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	if preference != "" && !preference.IsValid() {
		return shared.NewDomainError("INVALID_PREFERENCE", "Payment preference is not valid")
	}
	if preference == "" {
		preference = c.PaymentPreference
	}

	c.Name = strings.TrimSpace(name)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = strings.TrimSpace(phone)
	c.Address = address
	c.PaymentPreference = preference
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewClientUpdatedEvent(c))

	return nil
}

// MarkDeleted soft-deletes the client
func (c *Client) MarkDeleted() error {
	if c.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Client is already deleted")
	}
	now := time.Now()
	c.DeletedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Restore clears the soft-delete marker
func (c *Client) Restore() error {
	if !c.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Client is not deleted")
	}
	c.DeletedAt = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsDeleted returns true if the client has been soft-deleted
func (c *Client) IsDeleted() bool {
	return c.DeletedAt != nil
}

func validateClientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}
