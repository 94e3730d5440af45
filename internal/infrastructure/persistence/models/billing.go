package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Line items are embedded as JSONB; they have no identity outside the invoice.
type InvoiceModel struct {
	OwnedAggregateModel
	InvoiceNumber  string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_user_number,priority:2"`
	ClientID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	ClientName     string                `gorm:"type:varchar(200);not null"`
	Status         billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	IssueDate      time.Time             `gorm:"type:timestamptz;not null"`
	DueDate        time.Time             `gorm:"type:timestamptz;not null;index"`
	Items          billing.InvoiceItems  `gorm:"type:jsonb;not null"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Total          decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Currency       valueobject.Currency  `gorm:"type:varchar(3);not null;default:'IDR'"`
	Notes          string                `gorm:"type:text"`
	PaymentTerms   string                `gorm:"type:varchar(200)"`
	SentAt         *time.Time
	PaidAt         *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		InvoiceNumber:      m.InvoiceNumber,
		ClientID:           m.ClientID,
		ClientName:         m.ClientName,
		Status:             m.Status,
		IssueDate:          m.IssueDate,
		DueDate:            m.DueDate,
		Items:              m.Items,
		Subtotal:           m.Subtotal,
		TaxAmount:          m.TaxAmount,
		DiscountAmount:     m.DiscountAmount,
		Total:              m.Total,
		PaidAmount:         m.PaidAmount,
		Currency:           m.Currency,
		Notes:              m.Notes,
		PaymentTerms:       m.PaymentTerms,
		SentAt:             m.SentAt,
		PaidAt:             m.PaidAt,
		CancelledAt:        m.CancelledAt,
		CancelReason:       m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Invoice aggregate.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainOwnedAggregateRoot(inv.OwnedAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.ClientID = inv.ClientID
	m.ClientName = inv.ClientName
	m.Status = inv.Status
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Items = inv.Items
	m.Subtotal = inv.Subtotal
	m.TaxAmount = inv.TaxAmount
	m.DiscountAmount = inv.DiscountAmount
	m.Total = inv.Total
	m.PaidAmount = inv.PaidAmount
	m.Currency = inv.Currency
	m.Notes = inv.Notes
	m.PaymentTerms = inv.PaymentTerms
	m.SentAt = inv.SentAt
	m.PaidAt = inv.PaidAt
	m.CancelledAt = inv.CancelledAt
	m.CancelReason = inv.CancelReason
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice aggregate.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate.
type PaymentModel struct {
	OwnedAggregateModel
	InvoiceID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	InvoiceNumber string                `gorm:"type:varchar(50);not null"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Currency      valueobject.Currency  `gorm:"type:varchar(3);not null;default:'IDR'"`
	PaidAt        time.Time             `gorm:"type:timestamptz;not null;index"`
	Method        billing.PaymentMethod `gorm:"type:varchar(20);not null;default:'TRANSFER'"`
	Notes         string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment aggregate.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		InvoiceID:          m.InvoiceID,
		InvoiceNumber:      m.InvoiceNumber,
		Amount:             m.Amount,
		Currency:           m.Currency,
		PaidAt:             m.PaidAt,
		Method:             m.Method,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payment aggregate.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainOwnedAggregateRoot(p.OwnedAggregateRoot)
	m.InvoiceID = p.InvoiceID
	m.InvoiceNumber = p.InvoiceNumber
	m.Amount = p.Amount
	m.Currency = p.Currency
	m.PaidAt = p.PaidAt
	m.Method = p.Method
	m.Notes = p.Notes
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment aggregate.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// RecurringRuleModel is the persistence model for the RecurringRule aggregate.
type RecurringRuleModel struct {
	OwnedAggregateModel
	ClientID          uuid.UUID                  `gorm:"type:uuid;not null;index"`
	TemplateInvoiceID uuid.UUID                  `gorm:"type:uuid;not null"`
	Frequency         billing.RecurringFrequency `gorm:"type:varchar(10);not null"`
	Interval          int                        `gorm:"not null;default:1"`
	StartAt           time.Time                  `gorm:"type:timestamptz;not null"`
	EndAt             *time.Time                 `gorm:"type:timestamptz"`
	NextRunAt         time.Time                  `gorm:"type:timestamptz;not null;index"`
	LastRunAt         *time.Time                 `gorm:"type:timestamptz"`
	IsActive          bool                       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (RecurringRuleModel) TableName() string {
	return "recurring_rules"
}

// ToDomain converts the persistence model to a domain RecurringRule aggregate.
func (m *RecurringRuleModel) ToDomain() *billing.RecurringRule {
	return &billing.RecurringRule{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		ClientID:           m.ClientID,
		TemplateInvoiceID:  m.TemplateInvoiceID,
		Frequency:          m.Frequency,
		Interval:           m.Interval,
		StartAt:            m.StartAt,
		EndAt:              m.EndAt,
		NextRunAt:          m.NextRunAt,
		LastRunAt:          m.LastRunAt,
		IsActive:           m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain RecurringRule aggregate.
func (m *RecurringRuleModel) FromDomain(r *billing.RecurringRule) {
	m.FromDomainOwnedAggregateRoot(r.OwnedAggregateRoot)
	m.ClientID = r.ClientID
	m.TemplateInvoiceID = r.TemplateInvoiceID
	m.Frequency = r.Frequency
	m.Interval = r.Interval
	m.StartAt = r.StartAt
	m.EndAt = r.EndAt
	m.NextRunAt = r.NextRunAt
	m.LastRunAt = r.LastRunAt
	m.IsActive = r.IsActive
}

// RecurringRuleModelFromDomain creates a new persistence model from a domain RecurringRule aggregate.
func RecurringRuleModelFromDomain(r *billing.RecurringRule) *RecurringRuleModel {
	m := &RecurringRuleModel{}
	m.FromDomain(r)
	return m
}
