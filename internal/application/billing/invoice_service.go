package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/partner"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice application logic
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	clientRepo  partner.ClientRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, clientRepo partner.ClientRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// Create creates a new invoice in draft status
func (s *InvoiceService) Create(ctx context.Context, userID uuid.UUID, req *CreateInvoiceRequest) (*InvoiceResponse, error) {
	client, err := s.clientRepo.FindByIDForUser(ctx, userID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client.IsDeleted() {
		return nil, shared.NewDomainError("CLIENT_DELETED", "Cannot create an invoice for a deleted client")
	}

	invoiceNumber := req.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber, err = s.invoiceRepo.GenerateInvoiceNumber(ctx, userID)
		if err != nil {
			return nil, err
		}
	} else {
		exists, err := s.invoiceRepo.ExistsByInvoiceNumber(ctx, userID, invoiceNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An invoice with this number already exists")
		}
	}

	issueDate, err := valueobject.ParseDateSafe(req.IssueDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Issue date is not a valid date")
	}
	dueDate, err := valueobject.ParseDateSafe(req.DueDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Due date is not a valid date")
	}

	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	invoice, err := billing.NewInvoice(
		userID,
		invoiceNumber,
		client.ID,
		client.Name,
		issueDate,
		dueDate,
		items,
		req.TaxAmount,
		req.DiscountAmount,
		currency,
		req.Notes,
		req.PaymentTerms,
	)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice), nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, userID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(invoice), nil
}

// List retrieves invoices with pagination and filtering
func (s *InvoiceService) List(ctx context.Context, userID uuid.UUID, filter *InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repoFilter := billing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  filter.SortBy,
			OrderDir: filter.SortOrder,
		},
	}
	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		repoFilter.Status = &status
	}
	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID is not a valid UUID")
		}
		repoFilter.ClientID = &clientID
	}
	if filter.DueFrom != "" {
		from, err := valueobject.ParseDateSafe(filter.DueFrom)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "dueFrom is not a valid date")
		}
		repoFilter.DueFrom = &from
	}
	if filter.DueTo != "" {
		to, err := valueobject.ParseDateSafe(filter.DueTo)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "dueTo is not a valid date")
		}
		repoFilter.DueTo = &to
	}

	invoices, err := s.invoiceRepo.FindAllForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.invoiceRepo.CountForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToInvoiceResponses(invoices), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update applies a partial update to an editable invoice
func (s *InvoiceService) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	clientID := invoice.ClientID
	clientName := invoice.ClientName
	if req.ClientID != nil && *req.ClientID != invoice.ClientID {
		client, err := s.clientRepo.FindByIDForUser(ctx, userID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if client.IsDeleted() {
			return nil, shared.NewDomainError("CLIENT_DELETED", "Cannot assign an invoice to a deleted client")
		}
		clientID = client.ID
		clientName = client.Name
	}

	issueDate := invoice.IssueDate
	if req.IssueDate != nil {
		issueDate, err = valueobject.ParseDateSafe(*req.IssueDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Issue date is not a valid date")
		}
	}
	dueDate := invoice.DueDate
	if req.DueDate != nil {
		dueDate, err = valueobject.ParseDateSafe(*req.DueDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Due date is not a valid date")
		}
	}

	items := []billing.InvoiceItem(invoice.Items)
	if req.Items != nil {
		items, err = buildItems(req.Items)
		if err != nil {
			return nil, err
		}
	}

	taxAmount := invoice.TaxAmount
	if req.TaxAmount != nil {
		taxAmount = *req.TaxAmount
	}
	discountAmount := invoice.DiscountAmount
	if req.DiscountAmount != nil {
		discountAmount = *req.DiscountAmount
	}
	notes := invoice.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	paymentTerms := invoice.PaymentTerms
	if req.PaymentTerms != nil {
		paymentTerms = *req.PaymentTerms
	}

	if err := invoice.UpdateDetails(clientID, clientName, issueDate, dueDate, items, taxAmount, discountAmount, notes, paymentTerms); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice), nil
}

// Send marks a draft invoice as sent
func (s *InvoiceService) Send(ctx context.Context, userID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.Send(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice), nil
}

// Cancel voids an invoice that has not been paid
func (s *InvoiceService) Cancel(ctx context.Context, userID, id uuid.UUID, req *CancelInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	return ToInvoiceResponse(invoice), nil
}

// MarkOverdueBatch sweeps open invoices past their due date into overdue
// status. Both sent and pending invoices age into overdue. Returns the
// number of invoices transitioned.
func (s *InvoiceService) MarkOverdueBatch(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	dayStart := valueobject.StartOfDay(now)

	transitioned := 0
	for _, status := range []billing.InvoiceStatus{billing.InvoiceStatusSent, billing.InvoiceStatusPending} {
		status := status
		filter := billing.InvoiceFilter{
			Filter: shared.Filter{Page: 1, PageSize: 500},
			Status: &status,
			DueTo:  &dayStart,
		}

		invoices, err := s.invoiceRepo.FindAllForUser(ctx, userID, filter)
		if err != nil {
			return transitioned, err
		}

		for i := range invoices {
			inv := &invoices[i]
			if !inv.IsOverdueAt(now) {
				continue
			}
			if err := inv.MarkOverdue(now); err != nil {
				continue
			}
			if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
				return transitioned, err
			}
			transitioned++
		}
	}
	return transitioned, nil
}

func buildItems(reqs []InvoiceItemRequest) ([]billing.InvoiceItem, error) {
	items := make([]billing.InvoiceItem, 0, len(reqs))
	for i := range reqs {
		r := reqs[i]
		quantity := r.Quantity
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}
		item, err := billing.NewInvoiceItem(r.ItemName, r.Description, quantity, r.UnitPrice, r.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}
