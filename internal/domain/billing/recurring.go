package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/shared"
)

// RecurringFrequency represents how often a recurring rule fires
type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "DAILY"
	FrequencyWeekly  RecurringFrequency = "WEEKLY"
	FrequencyMonthly RecurringFrequency = "MONTHLY"
	FrequencyYearly  RecurringFrequency = "YEARLY"
)

// IsValid checks if the frequency is valid
func (f RecurringFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// String returns the string representation of RecurringFrequency
func (f RecurringFrequency) String() string {
	return string(f)
}

// NextAfter advances t by one frequency step multiplied by interval
func (f RecurringFrequency) NextAfter(t time.Time, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, interval)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7*interval)
	case FrequencyMonthly:
		return t.AddDate(0, interval, 0)
	case FrequencyYearly:
		return t.AddDate(interval, 0, 0)
	default:
		return t
	}
}

// RecurringRule schedules repeated generation of invoices from an existing
// invoice used as a template. The rule only tracks schedule state; invoice
// generation happens in the application layer at run time.
type RecurringRule struct {
	shared.OwnedAggregateRoot
	ClientID          uuid.UUID          `json:"client_id"`
	TemplateInvoiceID uuid.UUID          `json:"template_invoice_id"`
	Frequency         RecurringFrequency `json:"frequency"`
	Interval          int                `json:"interval"`
	StartAt           time.Time          `json:"start_at"`
	EndAt             *time.Time         `json:"end_at"`
	NextRunAt         time.Time          `json:"next_run_at"`
	LastRunAt         *time.Time         `json:"last_run_at"`
	IsActive          bool               `json:"is_active"`
}

// NewRecurringRule creates a new recurring rule; the first run is scheduled
// at startAt
func NewRecurringRule(
	userID uuid.UUID,
	clientID uuid.UUID,
	templateInvoiceID uuid.UUID,
	frequency RecurringFrequency,
	interval int,
	startAt time.Time,
	endAt *time.Time,
) (*RecurringRule, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if templateInvoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Template invoice ID cannot be empty")
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Frequency is not valid")
	}
	if interval < 1 {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Interval must be a positive integer")
	}
	if startAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_START", "Start date cannot be empty")
	}
	if endAt != nil && endAt.Before(startAt) {
		return nil, shared.NewDomainError("INVALID_END", "End date cannot be before start date")
	}

	return &RecurringRule{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		ClientID:           clientID,
		TemplateInvoiceID:  templateInvoiceID,
		Frequency:          frequency,
		Interval:           interval,
		StartAt:            startAt,
		EndAt:              endAt,
		NextRunAt:          startAt,
		IsActive:           true,
	}, nil
}

// UpdateSchedule changes the cadence of the rule. The next run is
// rescheduled from its current anchor under the new cadence only when the
// frequency or interval actually changed.
func (r *RecurringRule) UpdateSchedule(frequency RecurringFrequency, interval int, endAt *time.Time) error {
	if !frequency.IsValid() {
		return shared.NewDomainError("INVALID_FREQUENCY", "Frequency is not valid")
	}
	if interval < 1 {
		return shared.NewDomainError("INVALID_INTERVAL", "Interval must be a positive integer")
	}
	if endAt != nil && endAt.Before(r.StartAt) {
		return shared.NewDomainError("INVALID_END", "End date cannot be before start date")
	}

	r.Frequency = frequency
	r.Interval = interval
	r.EndAt = endAt
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetActive toggles the rule on or off
func (r *RecurringRule) SetActive(active bool) {
	r.IsActive = active
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// IsDue returns true when the rule should fire at the given instant
func (r *RecurringRule) IsDue(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.NextRunAt.After(now) {
		return false
	}
	if r.EndAt != nil && r.NextRunAt.After(*r.EndAt) {
		return false
	}
	return true
}

// MarkRun records a completed run and advances the schedule past now.
// Catch-up runs collapse into one: a rule that slept through several
// periods fires once and resumes on its cadence. Rules whose next slot
// falls beyond the end date deactivate.
func (r *RecurringRule) MarkRun(now time.Time) error {
	if !r.IsDue(now) {
		return shared.NewDomainError("NOT_DUE", fmt.Sprintf("Rule is not due before %s", r.NextRunAt.Format(time.RFC3339)))
	}

	r.LastRunAt = &now
	next := r.NextRunAt
	for !next.After(now) {
		next = r.Frequency.NextAfter(next, r.Interval)
	}
	r.NextRunAt = next

	if r.EndAt != nil && next.After(*r.EndAt) {
		r.IsActive = false
	}

	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}
