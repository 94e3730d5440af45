package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/partner"
	"github.com/invoicing/backend/internal/domain/shared"
)

// ClientService handles client application logic
type ClientService struct {
	clientRepo  partner.ClientRepository
	invoiceRepo billing.InvoiceRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo partner.ClientRepository, invoiceRepo billing.InvoiceRepository) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, userID uuid.UUID, req *CreateClientRequest) (*ClientResponse, error) {
	if req.Email != "" {
		exists, err := s.clientRepo.ExistsByEmail(ctx, userID, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A client with this email already exists")
		}
	}

	client, err := partner.NewClient(
		userID,
		req.Name,
		req.Email,
		req.Phone,
		req.Address,
		partner.PaymentPreference(req.PaymentPreference),
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	return ToClientResponse(client), nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, userID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToClientResponse(client), nil
}

// List retrieves clients with pagination
func (s *ClientService) List(ctx context.Context, userID uuid.UUID, filter *ClientListFilter) (*shared.Paginated[ClientResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repoFilter := partner.ClientFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  filter.SortBy,
			OrderDir: filter.SortOrder,
		},
		IncludeDeleted: filter.IncludeDeleted,
	}

	clients, err := s.clientRepo.FindAllForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.clientRepo.CountForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToClientResponses(clients), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates an existing client
func (s *ClientService) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name := client.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := client.Email
	if req.Email != nil {
		email = *req.Email
	}
	phone := client.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	address := client.Address
	if req.Address != nil {
		address = *req.Address
	}
	preference := client.PaymentPreference
	if req.PaymentPreference != nil {
		preference = partner.PaymentPreference(*req.PaymentPreference)
	}
	notes := client.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	if req.Email != nil && email != "" && email != client.Email {
		exists, err := s.clientRepo.ExistsByEmail(ctx, userID, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A client with this email already exists")
		}
	}

	if err := client.Update(name, email, phone, address, preference, notes); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	return ToClientResponse(client), nil
}

// Delete soft-deletes a client. A client with open invoices cannot be deleted.
func (s *ClientService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	client, err := s.clientRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	hasOpen, err := s.invoiceRepo.ExistsOpenByClient(ctx, userID, id)
	if err != nil {
		return err
	}
	if hasOpen {
		return shared.NewDomainError("HAS_OPEN_INVOICES", "Client has invoices that are not paid or cancelled")
	}

	if err := client.MarkDeleted(); err != nil {
		return err
	}

	return s.clientRepo.Save(ctx, client)
}

// Restore restores a soft-deleted client
func (s *ClientService) Restore(ctx context.Context, userID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := client.Restore(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	return ToClientResponse(client), nil
}
