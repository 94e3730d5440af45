package billing

import (
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Reconciliation is the derived payment position of a single invoice
type Reconciliation struct {
	Total       decimal.Decimal `json:"total"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Remaining   decimal.Decimal `json:"remaining"`
	Overpaid    bool            `json:"overpaid"`
	PaymentsLen int             `json:"payments_len"`
}

// Reconcile aggregates a payment list against an invoice total.
// remaining = max(total - sum(amounts), 0): overpayment clamps to zero for
// the displayed balance but stays visible through the Overpaid flag rather
// than being hidden. Always computed from the complete payment list so a
// caller can refresh after add or delete without drift.
func Reconcile(total valueobject.Money, payments []Payment) Reconciliation {
	totalPaid := decimal.Zero
	for i := range payments {
		totalPaid = totalPaid.Add(payments[i].Amount)
	}

	remaining := total.Amount().Sub(totalPaid)
	overpaid := remaining.IsNegative()
	if overpaid {
		remaining = decimal.Zero
	}

	return Reconciliation{
		Total:       total.Amount(),
		TotalPaid:   totalPaid,
		Remaining:   remaining,
		Overpaid:    overpaid,
		PaymentsLen: len(payments),
	}
}

// IsSettled returns true when nothing remains to be paid
func (r Reconciliation) IsSettled() bool {
	return r.Remaining.IsZero() && r.TotalPaid.GreaterThanOrEqual(r.Total)
}

// RemainingMoney returns the remaining balance as Money in the given currency
func (r Reconciliation) RemainingMoney(currency valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(r.Remaining, currency)
	return m
}
