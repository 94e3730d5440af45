package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is a single line item in a create or update request
type InvoiceItemRequest struct {
	ItemName    string          `json:"itemName" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"omitempty,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ProductID   *uuid.UUID      `json:"productId"`
}

// CreateInvoiceRequest is the request to create an invoice
type CreateInvoiceRequest struct {
	ClientID       uuid.UUID            `json:"clientId" binding:"required"`
	InvoiceNumber  string               `json:"invoiceNumber" binding:"omitempty,max=50"`
	IssueDate      string               `json:"issueDate" binding:"required"`
	DueDate        string               `json:"dueDate" binding:"required"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxAmount      decimal.Decimal      `json:"taxAmount"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	Currency       string               `json:"currency" binding:"omitempty,oneof=IDR USD EUR SGD MYR"`
	Notes          string               `json:"notes" binding:"omitempty,max=2000"`
	PaymentTerms   string               `json:"paymentTerms" binding:"omitempty,max=500"`
}

// UpdateInvoiceRequest is the request to update a draft or open invoice
type UpdateInvoiceRequest struct {
	ClientID       *uuid.UUID           `json:"clientId"`
	IssueDate      *string              `json:"issueDate"`
	DueDate        *string              `json:"dueDate"`
	Items          []InvoiceItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	TaxAmount      *decimal.Decimal     `json:"taxAmount"`
	DiscountAmount *decimal.Decimal     `json:"discountAmount"`
	Notes          *string              `json:"notes" binding:"omitempty,max=2000"`
	PaymentTerms   *string              `json:"paymentTerms" binding:"omitempty,max=500"`
}

// CancelInvoiceRequest is the request to cancel an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// InvoiceItemResponse is a line item in an invoice response
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemName    string          `json:"itemName"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	ProductID   *uuid.UUID      `json:"productId,omitempty"`
}

// InvoiceResponse is the invoice data returned to callers
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoiceNumber"`
	ClientID       uuid.UUID             `json:"clientId"`
	ClientName     string                `json:"clientName"`
	Status         string                `json:"status"`
	IssueDate      time.Time             `json:"issueDate"`
	DueDate        time.Time             `json:"dueDate"`
	Items          []InvoiceItemResponse `json:"items"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"taxAmount"`
	DiscountAmount decimal.Decimal       `json:"discountAmount"`
	Total          decimal.Decimal       `json:"total"`
	PaidAmount     decimal.Decimal       `json:"paidAmount"`
	Remaining      decimal.Decimal       `json:"remaining"`
	Currency       string                `json:"currency"`
	Notes          string                `json:"notes,omitempty"`
	PaymentTerms   string                `json:"paymentTerms,omitempty"`
	SentAt         *time.Time            `json:"sentAt,omitempty"`
	PaidAt         *time.Time            `json:"paidAt,omitempty"`
	CancelledAt    *time.Time            `json:"cancelledAt,omitempty"`
	CancelReason   string                `json:"cancelReason,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// InvoiceListFilter is the filter for listing invoices
type InvoiceListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT SENT PENDING PAID OVERDUE CANCELLED"`
	ClientID  string `form:"clientId" binding:"omitempty,uuid"`
	DueFrom   string `form:"dueFrom"`
	DueTo     string `form:"dueTo"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// CreatePaymentRequest is the request to record a payment against an invoice
type CreatePaymentRequest struct {
	InvoiceID uuid.UUID       `json:"invoiceId" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	PaidAt    string          `json:"paidAt"`
	Method    string          `json:"method" binding:"omitempty,oneof=TRANSFER CASH EWALLET OTHER"`
	Notes     string          `json:"notes" binding:"omitempty,max=1000"`
}

// PaymentResponse is the payment data returned to callers
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceID     uuid.UUID       `json:"invoiceId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaidAt        time.Time       `json:"paidAt"`
	Method        string          `json:"method"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PaymentListFilter is the filter for listing payments
type PaymentListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	InvoiceID string `form:"invoiceId" binding:"omitempty,uuid"`
	Method    string `form:"method" binding:"omitempty,oneof=TRANSFER CASH EWALLET OTHER"`
	PaidFrom  string `form:"paidFrom"`
	PaidTo    string `form:"paidTo"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// CreateRecurringRuleRequest is the request to create a recurring rule
type CreateRecurringRuleRequest struct {
	ClientID          uuid.UUID `json:"clientId" binding:"required"`
	TemplateInvoiceID uuid.UUID `json:"templateInvoiceId" binding:"required"`
	Frequency         string    `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Interval          int       `json:"interval" binding:"required,min=1"`
	StartAt           string    `json:"startAt" binding:"required"`
	EndAt             *string   `json:"endAt"`
}

// UpdateRecurringRuleRequest is the request to update a recurring rule
type UpdateRecurringRuleRequest struct {
	Frequency *string `json:"frequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Interval  *int    `json:"interval" binding:"omitempty,min=1"`
	EndAt     *string `json:"endAt"`
	IsActive  *bool   `json:"isActive"`
}

// RecurringRuleResponse is the recurring rule data returned to callers
type RecurringRuleResponse struct {
	ID                uuid.UUID  `json:"id"`
	ClientID          uuid.UUID  `json:"clientId"`
	TemplateInvoiceID uuid.UUID  `json:"templateInvoiceId"`
	Frequency         string     `json:"frequency"`
	Interval          int        `json:"interval"`
	StartAt           time.Time  `json:"startAt"`
	EndAt             *time.Time `json:"endAt,omitempty"`
	NextRunAt         time.Time  `json:"nextRunAt"`
	LastRunAt         *time.Time `json:"lastRunAt,omitempty"`
	IsActive          bool       `json:"isActive"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// RecurringRuleListFilter is the filter for listing recurring rules
type RecurringRuleListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	ClientID string `form:"clientId" binding:"omitempty,uuid"`
	IsActive *bool  `form:"isActive"`
}

// RunRecurringResult reports the outcome of a recurring run trigger
type RunRecurringResult struct {
	RulesDue        int         `json:"rulesDue"`
	InvoicesCreated int         `json:"invoicesCreated"`
	CreatedIDs      []uuid.UUID `json:"createdIds"`
	Failed          int         `json:"failed"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *billing.Invoice) *InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		it := inv.Items[i]
		items[i] = InvoiceItemResponse{
			ID:          it.ID,
			ItemName:    it.ItemName,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
			ProductID:   it.ProductID,
		}
	}
	return &InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		ClientID:       inv.ClientID,
		ClientName:     inv.ClientName,
		Status:         string(inv.Status),
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		Items:          items,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		Total:          inv.Total,
		PaidAmount:     inv.PaidAmount,
		Remaining:      inv.Remaining().Amount(),
		Currency:       string(inv.Currency),
		Notes:          inv.Notes,
		PaymentTerms:   inv.PaymentTerms,
		SentAt:         inv.SentAt,
		PaidAt:         inv.PaidAt,
		CancelledAt:    inv.CancelledAt,
		CancelReason:   inv.CancelReason,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a list of domain invoices to responses
func ToInvoiceResponses(invoices []billing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *ToInvoiceResponse(&invoices[i])
	}
	return responses
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(p *billing.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		InvoiceNumber: p.InvoiceNumber,
		Amount:        p.Amount,
		Currency:      string(p.Currency),
		PaidAt:        p.PaidAt,
		Method:        string(p.Method),
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

// ToPaymentResponses converts a list of domain payments to responses
func ToPaymentResponses(payments []billing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = *ToPaymentResponse(&payments[i])
	}
	return responses
}

// ToRecurringRuleResponse converts a domain recurring rule to a response
func ToRecurringRuleResponse(r *billing.RecurringRule) *RecurringRuleResponse {
	return &RecurringRuleResponse{
		ID:                r.ID,
		ClientID:          r.ClientID,
		TemplateInvoiceID: r.TemplateInvoiceID,
		Frequency:         string(r.Frequency),
		Interval:          r.Interval,
		StartAt:           r.StartAt,
		EndAt:             r.EndAt,
		NextRunAt:         r.NextRunAt,
		LastRunAt:         r.LastRunAt,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ToRecurringRuleResponses converts a list of domain rules to responses
func ToRecurringRuleResponses(rules []billing.RecurringRule) []RecurringRuleResponse {
	responses := make([]RecurringRuleResponse, len(rules))
	for i := range rules {
		responses[i] = *ToRecurringRuleResponse(&rules[i])
	}
	return responses
}
