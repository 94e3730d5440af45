package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	applicationbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/report"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

const recentLimit = 5

// OverdueSweeper moves invoices past their due date into overdue status.
// Implemented by the invoice service; the dashboard runs it before
// reading the stored counters so they reflect the current calendar.
type OverdueSweeper interface {
	MarkOverdueBatch(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
}

// DashboardService aggregates the landing page figures. The overdue count
// and the due-soon list are derived from the invoices themselves in
// addition to the stored counters, so a stale sweep can only undercount,
// never hide, overdue work.
type DashboardService struct {
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
	sweeper     OverdueSweeper
	dueSoonDays int
	logger      *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	sweeper OverdueSweeper,
	dueSoonDays int,
	logger *zap.Logger,
) *DashboardService {
	if dueSoonDays <= 0 {
		dueSoonDays = report.DefaultDueSoonDays
	}
	return &DashboardService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		sweeper:     sweeper,
		dueSoonDays: dueSoonDays,
		logger:      logger,
	}
}

// GetSummary builds the dashboard summary for the user
func (s *DashboardService) GetSummary(ctx context.Context, userID uuid.UUID, now time.Time) (*DashboardSummaryResponse, error) {
	if now.IsZero() {
		now = time.Now()
	}
	dayStart := valueobject.StartOfDay(now)
	monthStart := valueobject.StartOfMonth(now)
	nextMonth := monthStart.AddDate(0, 1, 0)

	// Best effort: a failed sweep degrades to the stored counters plus
	// the derived merge below, it never blocks the dashboard.
	if s.sweeper != nil {
		if swept, err := s.sweeper.MarkOverdueBatch(ctx, userID, now); err != nil {
			s.logger.Warn("overdue sweep failed", zap.Error(err))
		} else if swept > 0 {
			s.logger.Info("overdue sweep transitioned invoices", zap.Int("count", swept))
		}
	}

	totalOutstanding, err := s.invoiceRepo.SumOutstandingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalPaidThisMonth, err := s.paymentRepo.SumPaidBetween(ctx, userID, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	invoicesThisMonth, err := s.invoiceRepo.CountCreatedBetween(ctx, userID, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	storedOverdue, err := s.invoiceRepo.CountOverdue(ctx, userID, dayStart)
	if err != nil {
		return nil, err
	}

	recentInvoices, err := s.invoiceRepo.FindRecent(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}

	recentPayments, err := s.paymentRepo.FindRecent(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}

	// The stored count only reflects what the status sweep has already
	// marked; re-derive from due dates and keep whichever is larger.
	derivedOverdue := report.CountOverdue(recentInvoices, now)
	overdueCount := report.MergeOverdueCount(storedOverdue, derivedOverdue)

	dueSoon, err := s.dueSoonInvoices(ctx, userID, now, recentInvoices)
	if err != nil {
		return nil, err
	}

	return &DashboardSummaryResponse{
		TotalOutstanding:   totalOutstanding,
		TotalPaidThisMonth: totalPaidThisMonth,
		InvoicesThisMonth:  invoicesThisMonth,
		OverdueCount:       overdueCount,
		RecentInvoices:     applicationbilling.ToInvoiceResponses(recentInvoices),
		RecentPayments:     applicationbilling.ToPaymentResponses(recentPayments),
		DueSoonInvoices:    applicationbilling.ToInvoiceResponses(dueSoon),
	}, nil
}

// dueSoonInvoices prefers the dedicated window query; if the query fails
// the list falls back to derivation from the recent invoices rather than
// dropping the panel entirely.
func (s *DashboardService) dueSoonInvoices(ctx context.Context, userID uuid.UUID, now time.Time, recent []billing.Invoice) ([]billing.Invoice, error) {
	from := valueobject.StartOfDay(now)
	to := from.AddDate(0, 0, s.dueSoonDays)

	dueSoon, err := s.invoiceRepo.FindDueInWindow(ctx, userID, from, to)
	if err != nil {
		s.logger.Warn("due-soon window query failed, deriving from recent invoices", zap.Error(err))
		return report.DueSoon(recent, now, s.dueSoonDays), nil
	}
	return dueSoon, nil
}
