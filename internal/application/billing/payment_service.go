package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
)

// PaymentService handles payment application logic. Every mutation keeps
// the owning invoice's paid amount in sync with the full payment list;
// the payment row and the invoice update commit in one transaction so a
// lock conflict cannot strand a payment against a stale paid amount.
type PaymentService struct {
	paymentRepo billing.PaymentRepository
	invoiceRepo billing.InvoiceRepository
	txManager   billing.TransactionManager
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	invoiceRepo billing.InvoiceRepository,
	txManager billing.TransactionManager,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
	}
}

// Create records a payment against an invoice. The invoice enforces the
// state and overpayment guards before anything is persisted.
func (s *PaymentService) Create(ctx context.Context, userID uuid.UUID, req *CreatePaymentRequest) (*PaymentResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, invoice.Currency)
	if err != nil {
		return nil, err
	}

	if err := invoice.RecordPayment(amount); err != nil {
		return nil, err
	}

	var paidAt time.Time
	if req.PaidAt != "" {
		paidAt, err = valueobject.ParseDateSafe(req.PaidAt)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Paid date is not a valid date")
		}
	}

	method := billing.PaymentMethod(req.Method)
	if method == "" {
		method = billing.PaymentMethodTransfer
	}

	payment, err := billing.NewPayment(userID, invoice.ID, invoice.InvoiceNumber, amount, paidAt, method, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.txManager.InTransaction(ctx, func(repos billing.TxRepositories) error {
		if err := repos.Payments.Save(ctx, payment); err != nil {
			return err
		}
		return repos.Invoices.SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return ToPaymentResponse(payment), nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, userID, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(payment), nil
}

// List retrieves payments with pagination and filtering
func (s *PaymentService) List(ctx context.Context, userID uuid.UUID, filter *PaymentListFilter) (*shared.Paginated[PaymentResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repoFilter := billing.PaymentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.SortBy,
			OrderDir: filter.SortOrder,
		},
	}
	if filter.InvoiceID != "" {
		invoiceID, err := uuid.Parse(filter.InvoiceID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID is not a valid UUID")
		}
		repoFilter.InvoiceID = &invoiceID
	}
	if filter.Method != "" {
		method := billing.PaymentMethod(filter.Method)
		repoFilter.Method = &method
	}
	if filter.PaidFrom != "" {
		from, err := valueobject.ParseDateSafe(filter.PaidFrom)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "paidFrom is not a valid date")
		}
		repoFilter.PaidFrom = &from
	}
	if filter.PaidTo != "" {
		to, err := valueobject.ParseDateSafe(filter.PaidTo)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "paidTo is not a valid date")
		}
		repoFilter.PaidTo = &to
	}

	payments, err := s.paymentRepo.FindAllForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.paymentRepo.CountForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToPaymentResponses(payments), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByInvoice returns all payments applied to an invoice together with
// the reconciliation computed from the full list.
func (s *PaymentService) ListByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]PaymentResponse, *billing.Reconciliation, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, invoiceID)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.paymentRepo.FindByInvoice(ctx, userID, invoiceID)
	if err != nil {
		return nil, nil, err
	}

	reconciliation := billing.Reconcile(invoice.GetTotalMoney(), payments)
	return ToPaymentResponses(payments), &reconciliation, nil
}

// Delete removes a payment and recomputes the owning invoice's paid amount
// from the payments that remain. A fully paid invoice whose balance
// reopens moves back to sent.
func (s *PaymentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	payment, err := s.paymentRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, payment.InvoiceID)
	if err != nil {
		return err
	}

	// The sum runs inside the transaction so it sees the delete, and the
	// invoice update rolls the delete back if the lock is lost.
	return s.txManager.InTransaction(ctx, func(repos billing.TxRepositories) error {
		if err := repos.Payments.DeleteForUser(ctx, userID, id); err != nil {
			return err
		}

		remaining, err := repos.Payments.SumByInvoice(ctx, userID, payment.InvoiceID)
		if err != nil {
			return err
		}

		totalPaid, err := valueobject.NewMoney(remaining, invoice.Currency)
		if err != nil {
			return err
		}
		if err := invoice.ReconcilePayments(totalPaid); err != nil {
			return err
		}

		return repos.Invoices.SaveWithLock(ctx, invoice)
	})
}
