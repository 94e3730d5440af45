package report

import (
	applicationbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/shopspring/decimal"
)

// DashboardSummaryResponse is the aggregated dashboard payload
type DashboardSummaryResponse struct {
	TotalOutstanding   decimal.Decimal                      `json:"totalOutstanding"`
	TotalPaidThisMonth decimal.Decimal                      `json:"totalPaidThisMonth"`
	InvoicesThisMonth  int64                                `json:"invoicesThisMonth"`
	OverdueCount       int64                                `json:"overdueCount"`
	RecentInvoices     []applicationbilling.InvoiceResponse `json:"recentInvoices"`
	RecentPayments     []applicationbilling.PaymentResponse `json:"recentPayments"`
	DueSoonInvoices    []applicationbilling.InvoiceResponse `json:"dueSoonInvoices"`
}
