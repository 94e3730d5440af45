package report

import (
	"sort"
	"time"

	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
)

// DefaultDueSoonDays is the forward-looking window for due-soon detection
const DefaultDueSoonDays = 7

// CountOverdue counts invoices in the list that are open and due strictly
// before the start of the current local day. PAID and CANCELLED invoices
// never count.
func CountOverdue(invoices []billing.Invoice, now time.Time) int {
	todayStart := valueobject.StartOfDay(now)
	count := 0
	for i := range invoices {
		if invoices[i].Status.IsTerminal() {
			continue
		}
		if invoices[i].DueDate.Before(todayStart) {
			count++
		}
	}
	return count
}

// MergeOverdueCount reconciles a stored overdue count against one derived
// from the invoice list, preferring whichever is not an undercount. The
// OVERDUE status is assigned by the scheduler and can lag the calendar
// between runs, so the derived count is the floor.
func MergeOverdueCount(stored int64, derived int) int64 {
	if int64(derived) > stored {
		return int64(derived)
	}
	return stored
}

// DueSoon returns the invoices from the list that are open and due inside
// [todayStart, todayStart + days], sorted ascending by due date.
func DueSoon(invoices []billing.Invoice, now time.Time, days int) []billing.Invoice {
	if days <= 0 {
		days = DefaultDueSoonDays
	}
	todayStart := valueobject.StartOfDay(now)
	windowEnd := todayStart.AddDate(0, 0, days)

	result := make([]billing.Invoice, 0)
	for i := range invoices {
		if invoices[i].Status.IsTerminal() {
			continue
		}
		due := invoices[i].DueDate
		if due.Before(todayStart) || due.After(windowEnd) {
			continue
		}
		result = append(result, invoices[i])
	}

	sort.SliceStable(result, func(a, b int) bool {
		return result[a].DueDate.Before(result[b].DueDate)
	})

	return result
}
