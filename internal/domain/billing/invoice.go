package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"     // Editable, not yet delivered to the client
	InvoiceStatusSent      InvoiceStatus = "SENT"      // Delivered, awaiting payment
	InvoiceStatusPending   InvoiceStatus = "PENDING"   // Assigned by the scheduler, awaiting confirmation
	InvoiceStatusPaid      InvoiceStatus = "PAID"      // Fully paid, terminal
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"   // Past due date, assigned by the scheduler
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED" // Voided before payment, terminal
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPending,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state.
// Terminal invoices accept no further mutation: no edit, no send,
// no cancel, no payment.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanEdit returns true if the invoice header and items may be modified
func (s InvoiceStatus) CanEdit() bool {
	return !s.IsTerminal()
}

// CanSend returns true if the invoice can be sent to the client
func (s InvoiceStatus) CanSend() bool {
	return s == InvoiceStatusDraft
}

// CanCancel returns true if the invoice can be voided
func (s InvoiceStatus) CanCancel() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusSent || s == InvoiceStatusPending
}

// CanAcceptPayment returns true if payments can be recorded in this status
func (s InvoiceStatus) CanAcceptPayment() bool {
	return !s.IsTerminal()
}

// InvoiceItem represents a single line on an invoice
// This is a value object within the Invoice aggregate, stored as JSONB
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"` // Weak reference, prefill only
}

// LineTotal returns quantity * unit price for this line
func (it *InvoiceItem) LineTotal() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

// Validate checks the line item invariants
func (it *InvoiceItem) Validate() error {
	if it.ItemName == "" {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if !it.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if it.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_PRICE", "Item unit price cannot be negative")
	}
	return nil
}

// InvoiceItems is a slice of InvoiceItem that implements GORM Scanner/Valuer for JSONB storage
type InvoiceItems []InvoiceItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (items InvoiceItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (items *InvoiceItems) Scan(value interface{}) error {
	if value == nil {
		*items = InvoiceItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan InvoiceItems: unsupported type")
	}

	if len(bytes) == 0 {
		*items = InvoiceItems{}
		return nil
	}

	return json.Unmarshal(bytes, items)
}

// Subtotal returns the sum of all line totals
func (items InvoiceItems) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(items[i].LineTotal())
	}
	return sum
}

// NewInvoiceItem creates a new invoice line item
func NewInvoiceItem(itemName, description string, quantity, unitPrice decimal.Decimal, productID *uuid.UUID) (*InvoiceItem, error) {
	item := &InvoiceItem{
		ID:          uuid.New(),
		ItemName:    itemName,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		ProductID:   productID,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Invoice represents an invoice aggregate root.
// Totals are derived from the line items plus tax and discount; the paid
// amount mirrors the sum of this invoice's payments and is always
// reconciled from the full payment list, never adjusted in place.
type Invoice struct {
	shared.OwnedAggregateRoot
	InvoiceNumber  string               `json:"invoice_number"`
	ClientID       uuid.UUID            `json:"client_id"`
	ClientName     string               `json:"client_name"`
	Status         InvoiceStatus        `json:"status"`
	IssueDate      time.Time            `json:"issue_date"`
	DueDate        time.Time            `json:"due_date"`
	Items          InvoiceItems         `json:"items"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	TaxAmount      decimal.Decimal      `json:"tax_amount"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	Total          decimal.Decimal      `json:"total"`
	PaidAmount     decimal.Decimal      `json:"paid_amount"`
	Currency       valueobject.Currency `json:"currency"`
	Notes          string               `json:"notes"`
	PaymentTerms   string               `json:"payment_terms"`
	SentAt         *time.Time           `json:"sent_at"`
	PaidAt         *time.Time           `json:"paid_at"`
	CancelledAt    *time.Time           `json:"cancelled_at"`
	CancelReason   string               `json:"cancel_reason"`
}

// NewInvoice creates a new draft invoice
func NewInvoice(
	userID uuid.UUID,
	invoiceNumber string,
	clientID uuid.UUID,
	clientName string,
	issueDate time.Time,
	dueDate time.Time,
	items []InvoiceItem,
	taxAmount decimal.Decimal,
	discountAmount decimal.Decimal,
	currency valueobject.Currency,
	notes string,
	paymentTerms string,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice must have at least one item")
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}
	if taxAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax amount cannot be negative")
	}
	if discountAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	subtotal := InvoiceItems(items).Subtotal()
	total := subtotal.Add(taxAmount).Sub(discountAmount)
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Invoice total cannot be negative")
	}

	inv := &Invoice{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		InvoiceNumber:      invoiceNumber,
		ClientID:           clientID,
		ClientName:         clientName,
		Status:             InvoiceStatusDraft,
		IssueDate:          issueDate,
		DueDate:            dueDate,
		Items:              items,
		Subtotal:           subtotal,
		TaxAmount:          taxAmount,
		DiscountAmount:     discountAmount,
		Total:              total,
		PaidAmount:         decimal.Zero,
		Currency:           currency,
		Notes:              notes,
		PaymentTerms:       paymentTerms,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// UpdateDetails replaces the invoice header fields and line items.
// Rejected once the invoice has reached a terminal state.
func (inv *Invoice) UpdateDetails(
	clientID uuid.UUID,
	clientName string,
	issueDate time.Time,
	dueDate time.Time,
	items []InvoiceItem,
	taxAmount decimal.Decimal,
	discountAmount decimal.Decimal,
	notes string,
	paymentTerms string,
) error {
	if !inv.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit invoice in %s status", inv.Status))
	}
	if clientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Invoice must have at least one item")
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return err
		}
	}
	if dueDate.Before(issueDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}
	if taxAmount.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax amount cannot be negative")
	}
	if discountAmount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}

	subtotal := InvoiceItems(items).Subtotal()
	total := subtotal.Add(taxAmount).Sub(discountAmount)
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_TOTAL", "Invoice total cannot be negative")
	}
	if total.LessThan(inv.PaidAmount) {
		return shared.NewDomainError("TOTAL_BELOW_PAID", fmt.Sprintf("Invoice total %.2f cannot drop below the amount already paid %.2f", total.InexactFloat64(), inv.PaidAmount.InexactFloat64()))
	}

	inv.ClientID = clientID
	inv.ClientName = clientName
	inv.IssueDate = issueDate
	inv.DueDate = dueDate
	inv.Items = items
	inv.Subtotal = subtotal
	inv.TaxAmount = taxAmount
	inv.DiscountAmount = discountAmount
	inv.Total = total
	inv.Notes = notes
	inv.PaymentTerms = paymentTerms
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// Send marks the invoice as delivered to the client
func (inv *Invoice) Send() error {
	if !inv.Status.CanSend() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send invoice in %s status", inv.Status))
	}

	now := time.Now()
	inv.Status = InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceSentEvent(inv))

	return nil
}

// Cancel voids the invoice. Not permitted once payments exist or the
// invoice has reached a terminal or overdue state.
func (inv *Invoice) Cancel(reason string) error {
	if !inv.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}
	if inv.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("HAS_PAYMENTS", "Cannot cancel invoice with existing payments")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// RecordPayment validates a payment against the remaining balance and
// applies it to the invoice. When the remaining balance reaches zero the
// invoice transitions to PAID.
func (inv *Invoice) RecordPayment(amount valueobject.Money) error {
	if !inv.Status.CanAcceptPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment for invoice in %s status", inv.Status))
	}
	if amount.Currency() != inv.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", fmt.Sprintf("Payment currency %s does not match invoice currency %s", amount.Currency(), inv.Currency))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	remaining := inv.Remaining()
	if amount.Amount().GreaterThan(remaining.Amount()) {
		return shared.NewDomainError("EXCEEDS_REMAINING", fmt.Sprintf("Payment amount %.2f exceeds remaining balance; maximum allowed is %.2f", amount.Amount().InexactFloat64(), remaining.Amount().InexactFloat64()))
	}

	inv.PaidAmount = inv.PaidAmount.Add(amount.Amount())
	inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, amount))

	if inv.Total.Sub(inv.PaidAmount).LessThanOrEqual(decimal.Zero) {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// ReconcilePayments replaces the paid amount with the sum recomputed from
// the refreshed payment list. Called after a payment is deleted; local
// subtraction would drift when a delete partially fails or a concurrent
// payment lands in between. A fully paid invoice whose balance reopens
// moves back to SENT.
func (inv *Invoice) ReconcilePayments(totalPaid valueobject.Money) error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot reconcile payments for a cancelled invoice")
	}
	if totalPaid.Currency() != inv.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", fmt.Sprintf("Payment currency %s does not match invoice currency %s", totalPaid.Currency(), inv.Currency))
	}
	if totalPaid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total paid cannot be negative")
	}

	inv.PaidAmount = totalPaid.Amount()

	if inv.Total.Sub(inv.PaidAmount).LessThanOrEqual(decimal.Zero) && inv.Total.IsPositive() {
		if inv.Status != InvoiceStatusPaid {
			now := time.Now()
			inv.Status = InvoiceStatusPaid
			inv.PaidAt = &now
			inv.AddDomainEvent(NewInvoicePaidEvent(inv))
		}
	} else if inv.Status == InvoiceStatusPaid {
		inv.Status = InvoiceStatusSent
		inv.PaidAt = nil
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// MarkPending flags a sent invoice as awaiting confirmation.
// Assigned by the scheduler or a trusted caller, never a direct client action.
func (inv *Invoice) MarkPending() error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice in %s status as pending", inv.Status))
	}
	inv.Status = InvoiceStatusPending
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// MarkOverdue flags an invoice whose due date has passed.
// Assigned by the overdue sweep, never a direct client action.
func (inv *Invoice) MarkOverdue(now time.Time) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice in %s status as overdue", inv.Status))
	}
	if !inv.IsOverdueAt(now) {
		return shared.NewDomainError("NOT_OVERDUE", "Invoice due date has not passed")
	}
	inv.Status = InvoiceStatusOverdue
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// Helper methods

// GetTotalMoney returns the invoice total as Money
func (inv *Invoice) GetTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.Total, inv.Currency)
	return m
}

// GetPaidMoney returns the paid amount as Money
func (inv *Invoice) GetPaidMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.PaidAmount, inv.Currency)
	return m
}

// Remaining returns the unpaid balance, floored at zero. Overpayment
// (possible through historic data) clamps for display instead of going
// negative.
func (inv *Invoice) Remaining() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.Total.Sub(inv.PaidAmount), inv.Currency)
	return m.ClampZero()
}

// IsDraft returns true if the invoice is still a draft
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsCancelled returns true if the invoice was voided
func (inv *Invoice) IsCancelled() bool {
	return inv.Status == InvoiceStatusCancelled
}

// IsOverdueAt returns true if the invoice is unpaid and its due date falls
// before the start of the given day
func (inv *Invoice) IsOverdueAt(now time.Time) bool {
	if inv.Status.IsTerminal() {
		return false
	}
	return inv.DueDate.Before(valueobject.StartOfDay(now))
}

// DaysOverdueAt returns the number of days past due (0 if not overdue)
func (inv *Invoice) DaysOverdueAt(now time.Time) int {
	if !inv.IsOverdueAt(now) {
		return 0
	}
	return int(valueobject.StartOfDay(now).Sub(valueobject.StartOfDay(inv.DueDate)).Hours() / 24)
}

// PaidPercentage returns the percentage of total that has been paid (0-100)
func (inv *Invoice) PaidPercentage() decimal.Decimal {
	if inv.Total.IsZero() {
		return decimal.NewFromInt(100)
	}
	return inv.PaidAmount.Div(inv.Total).Mul(decimal.NewFromInt(100)).Round(2)
}
