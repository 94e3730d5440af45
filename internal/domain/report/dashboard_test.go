package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceDueIn(t *testing.T, status billing.InvoiceStatus, daysFromNow int) billing.Invoice {
	issue := time.Now().AddDate(0, 0, -30)
	items := []billing.InvoiceItem{
		{ID: uuid.New(), ItemName: "Service", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10000)},
	}
	inv, err := billing.NewInvoice(
		uuid.New(), "INV-TEST", uuid.New(), "Client",
		issue, issue.AddDate(0, 1, 0),
		items, decimal.Zero, decimal.Zero, valueobject.IDR, "", "",
	)
	require.NoError(t, err)
	inv.Status = status
	inv.DueDate = valueobject.StartOfDay(time.Now()).AddDate(0, 0, daysFromNow)
	return *inv
}

func TestCountOverdue(t *testing.T) {
	now := time.Now()

	t.Run("sent invoice due yesterday counts as overdue", func(t *testing.T) {
		invoices := []billing.Invoice{invoiceDueIn(t, billing.InvoiceStatusSent, -1)}
		assert.Equal(t, 1, CountOverdue(invoices, now))
	})

	t.Run("invoice due today does not count", func(t *testing.T) {
		invoices := []billing.Invoice{invoiceDueIn(t, billing.InvoiceStatusSent, 0)}
		assert.Equal(t, 0, CountOverdue(invoices, now))
	})

	t.Run("paid and cancelled invoices never count", func(t *testing.T) {
		invoices := []billing.Invoice{
			invoiceDueIn(t, billing.InvoiceStatusPaid, -10),
			invoiceDueIn(t, billing.InvoiceStatusCancelled, -10),
		}
		assert.Equal(t, 0, CountOverdue(invoices, now))
	})

	t.Run("mixed list counts only open past-due invoices", func(t *testing.T) {
		invoices := []billing.Invoice{
			invoiceDueIn(t, billing.InvoiceStatusSent, -2),
			invoiceDueIn(t, billing.InvoiceStatusOverdue, -5),
			invoiceDueIn(t, billing.InvoiceStatusPending, -1),
			invoiceDueIn(t, billing.InvoiceStatusSent, 3),
			invoiceDueIn(t, billing.InvoiceStatusPaid, -3),
		}
		assert.Equal(t, 3, CountOverdue(invoices, now))
	})
}

func TestMergeOverdueCount(t *testing.T) {
	t.Run("derived count overrides a stale stored zero", func(t *testing.T) {
		invoices := []billing.Invoice{invoiceDueIn(t, billing.InvoiceStatusSent, -1)}
		derived := CountOverdue(invoices, time.Now())
		assert.Equal(t, int64(1), MergeOverdueCount(0, derived))
	})

	t.Run("stored count wins when larger", func(t *testing.T) {
		assert.Equal(t, int64(5), MergeOverdueCount(5, 2))
	})

	t.Run("equal counts pass through", func(t *testing.T) {
		assert.Equal(t, int64(3), MergeOverdueCount(3, 3))
	})
}

func TestDueSoon(t *testing.T) {
	now := time.Now()

	t.Run("includes invoices inside the window sorted ascending", func(t *testing.T) {
		in5 := invoiceDueIn(t, billing.InvoiceStatusSent, 5)
		in3 := invoiceDueIn(t, billing.InvoiceStatusSent, 3)
		in10 := invoiceDueIn(t, billing.InvoiceStatusSent, 10)

		result := DueSoon([]billing.Invoice{in5, in10, in3}, now, 7)
		require.Len(t, result, 2)
		assert.Equal(t, in3.ID, result[0].ID)
		assert.Equal(t, in5.ID, result[1].ID)
	})

	t.Run("excludes invoices due beyond the window", func(t *testing.T) {
		result := DueSoon([]billing.Invoice{invoiceDueIn(t, billing.InvoiceStatusSent, 10)}, now, 7)
		assert.Empty(t, result)
	})

	t.Run("excludes past-due invoices", func(t *testing.T) {
		result := DueSoon([]billing.Invoice{invoiceDueIn(t, billing.InvoiceStatusSent, -1)}, now, 7)
		assert.Empty(t, result)
	})

	t.Run("excludes terminal invoices", func(t *testing.T) {
		result := DueSoon([]billing.Invoice{
			invoiceDueIn(t, billing.InvoiceStatusPaid, 2),
			invoiceDueIn(t, billing.InvoiceStatusCancelled, 2),
		}, now, 7)
		assert.Empty(t, result)
	})

	t.Run("includes invoices due today", func(t *testing.T) {
		result := DueSoon([]billing.Invoice{invoiceDueIn(t, billing.InvoiceStatusSent, 0)}, now, 7)
		assert.Len(t, result, 1)
	})

	t.Run("non-positive window falls back to the default", func(t *testing.T) {
		result := DueSoon([]billing.Invoice{invoiceDueIn(t, billing.InvoiceStatusSent, 5)}, now, 0)
		assert.Len(t, result, 1)
	})
}
