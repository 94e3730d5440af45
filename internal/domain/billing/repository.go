package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	ClientID *uuid.UUID     // Filter by client
	Status   *InvoiceStatus // Filter by status
	IssuedTo *time.Time     // Filter by issue date range end
	DueFrom  *time.Time     // Filter by due date range start
	DueTo    *time.Time     // Filter by due date range end
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForUser finds an invoice by ID for a specific user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)

	// FindByInvoiceNumber finds by invoice number for a user
	FindByInvoiceNumber(ctx context.Context, userID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForUser finds all invoices for a user with filtering
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindByClient finds invoices for a client
	FindByClient(ctx context.Context, userID, clientID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// FindRecent finds the most recently created invoices for a user
	FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Invoice, error)

	// FindDueInWindow finds open invoices with a due date inside [from, to],
	// ordered by due date ascending
	FindDueInWindow(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// CountForUser counts invoices for a user with optional filters
	CountForUser(ctx context.Context, userID uuid.UUID, filter InvoiceFilter) (int64, error)

	// CountByStatus counts invoices by status for a user
	CountByStatus(ctx context.Context, userID uuid.UUID, status InvoiceStatus) (int64, error)

	// CountOverdue counts open invoices due before the given day start
	CountOverdue(ctx context.Context, userID uuid.UUID, dayStart time.Time) (int64, error)

	// CountCreatedBetween counts invoices created in [from, to)
	CountCreatedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)

	// SumOutstandingForUser calculates the total unpaid balance across open invoices
	SumOutstandingForUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// ExistsByInvoiceNumber checks if an invoice number exists for a user
	ExistsByInvoiceNumber(ctx context.Context, userID uuid.UUID, invoiceNumber string) (bool, error)

	// ExistsOpenByClient checks if a client has invoices outside terminal states
	ExistsOpenByClient(ctx context.Context, userID, clientID uuid.UUID) (bool, error)

	// GenerateInvoiceNumber generates a unique invoice number for a user
	GenerateInvoiceNumber(ctx context.Context, userID uuid.UUID) (string, error)
}

// TxRepositories bundles the billing repositories bound to one unit of
// work. Handed to the TransactionManager callback so multi-aggregate
// writes commit or roll back together.
type TxRepositories struct {
	Invoices InvoiceRepository
	Payments PaymentRepository
	Rules    RecurringRuleRepository
}

// TransactionManager runs a function with billing repositories bound to a
// single database transaction.
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(repos TxRepositories) error) error
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	InvoiceID *uuid.UUID     // Filter by invoice
	Method    *PaymentMethod // Filter by payment method
	PaidFrom  *time.Time     // Filter by payment date range start
	PaidTo    *time.Time     // Filter by payment date range end
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForUser finds a payment by ID for a specific user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Payment, error)

	// FindAllForUser finds all payments for a user with filtering
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter PaymentFilter) ([]Payment, error)

	// FindByInvoice finds all payments applied to an invoice, newest first
	FindByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]Payment, error)

	// FindRecent finds the most recent payments for a user
	FindRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// Delete removes a payment
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForUser removes a payment owned by the user
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error

	// CountForUser counts payments for a user with optional filters
	CountForUser(ctx context.Context, userID uuid.UUID, filter PaymentFilter) (int64, error)

	// SumByInvoice calculates the total amount paid against an invoice
	SumByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (decimal.Decimal, error)

	// SumPaidBetween calculates the total paid in [from, to)
	SumPaidBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// RecurringRuleFilter defines filtering options for recurring rule queries
type RecurringRuleFilter struct {
	shared.Filter
	ClientID *uuid.UUID // Filter by client
	IsActive *bool      // Filter by active flag
}

// RecurringRuleRepository defines the interface for recurring rule persistence
type RecurringRuleRepository interface {
	// FindByID finds a recurring rule by ID
	FindByID(ctx context.Context, id uuid.UUID) (*RecurringRule, error)

	// FindByIDForUser finds a recurring rule by ID for a specific user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*RecurringRule, error)

	// FindAllForUser finds all recurring rules for a user with filtering
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter RecurringRuleFilter) ([]RecurringRule, error)

	// FindDue finds active rules whose next run is at or before now
	FindDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]RecurringRule, error)

	// Save creates or updates a recurring rule
	Save(ctx context.Context, rule *RecurringRule) error

	// Delete removes a recurring rule
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForUser counts recurring rules for a user
	CountForUser(ctx context.Context, userID uuid.UUID, filter RecurringRuleFilter) (int64, error)
}
