package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodEwallet  PaymentMethod = "EWALLET"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodCash, PaymentMethodEwallet, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment represents a single payment against an invoice.
// Payments are independently addressable and deletable; the owning
// invoice's paid amount is always reconciled from the full payment list.
type Payment struct {
	shared.OwnedAggregateRoot
	InvoiceID     uuid.UUID            `json:"invoice_id"`
	InvoiceNumber string               `json:"invoice_number"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      valueobject.Currency `json:"currency"`
	PaidAt        time.Time            `json:"paid_at"`
	Method        PaymentMethod        `json:"method"`
	Notes         string               `json:"notes"`
}

// NewPayment creates a new payment record
func NewPayment(
	userID uuid.UUID,
	invoiceID uuid.UUID,
	invoiceNumber string,
	amount valueobject.Money,
	paidAt time.Time,
	method PaymentMethod,
	notes string,
) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	p := &Payment{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		InvoiceID:          invoiceID,
		InvoiceNumber:      invoiceNumber,
		Amount:             amount.Amount(),
		Currency:           amount.Currency(),
		PaidAt:             paidAt,
		Method:             method,
		Notes:              notes,
	}

	p.AddDomainEvent(NewPaymentCreatedEvent(p))

	return p, nil
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.Amount, p.Currency)
	return m
}
