package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/partner"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// RecurringService handles recurring invoice rules and the run trigger
// that materializes due rules into fresh draft invoices.
type RecurringService struct {
	ruleRepo    billing.RecurringRuleRepository
	invoiceRepo billing.InvoiceRepository
	clientRepo  partner.ClientRepository
	txManager   billing.TransactionManager
	logger      *zap.Logger
}

// NewRecurringService creates a new recurring service
func NewRecurringService(
	ruleRepo billing.RecurringRuleRepository,
	invoiceRepo billing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	txManager billing.TransactionManager,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		ruleRepo:    ruleRepo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create creates a new recurring rule
func (s *RecurringService) Create(ctx context.Context, userID uuid.UUID, req *CreateRecurringRuleRequest) (*RecurringRuleResponse, error) {
	client, err := s.clientRepo.FindByIDForUser(ctx, userID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client.IsDeleted() {
		return nil, shared.NewDomainError("CLIENT_DELETED", "Cannot schedule invoices for a deleted client")
	}

	template, err := s.invoiceRepo.FindByIDForUser(ctx, userID, req.TemplateInvoiceID)
	if err != nil {
		return nil, err
	}
	if template.ClientID != client.ID {
		return nil, shared.NewDomainError("TEMPLATE_MISMATCH", "Template invoice belongs to a different client")
	}

	startAt, err := valueobject.ParseDateSafe(req.StartAt)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Start date is not a valid date")
	}
	var endAt *time.Time
	if req.EndAt != nil && *req.EndAt != "" {
		parsed, err := valueobject.ParseDateSafe(*req.EndAt)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "End date is not a valid date")
		}
		endAt = &parsed
	}

	rule, err := billing.NewRecurringRule(
		userID,
		client.ID,
		template.ID,
		billing.RecurringFrequency(req.Frequency),
		req.Interval,
		startAt,
		endAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	return ToRecurringRuleResponse(rule), nil
}

// GetByID retrieves a recurring rule by ID
func (s *RecurringService) GetByID(ctx context.Context, userID, id uuid.UUID) (*RecurringRuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToRecurringRuleResponse(rule), nil
}

// List retrieves recurring rules with pagination
func (s *RecurringService) List(ctx context.Context, userID uuid.UUID, filter *RecurringRuleListFilter) (*shared.Paginated[RecurringRuleResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repoFilter := billing.RecurringRuleFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
		IsActive: filter.IsActive,
	}
	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID is not a valid UUID")
		}
		repoFilter.ClientID = &clientID
	}

	rules, err := s.ruleRepo.FindAllForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.ruleRepo.CountForUser(ctx, userID, repoFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToRecurringRuleResponses(rules), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates a recurring rule's schedule or active flag
func (s *RecurringService) Update(ctx context.Context, userID, id uuid.UUID, req *UpdateRecurringRuleRequest) (*RecurringRuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Frequency != nil || req.Interval != nil || req.EndAt != nil {
		frequency := rule.Frequency
		if req.Frequency != nil {
			frequency = billing.RecurringFrequency(*req.Frequency)
		}
		interval := rule.Interval
		if req.Interval != nil {
			interval = *req.Interval
		}
		endAt := rule.EndAt
		if req.EndAt != nil {
			if *req.EndAt == "" {
				endAt = nil
			} else {
				parsed, err := valueobject.ParseDateSafe(*req.EndAt)
				if err != nil {
					return nil, shared.NewDomainError("INVALID_DATE", "End date is not a valid date")
				}
				endAt = &parsed
			}
		}
		if err := rule.UpdateSchedule(frequency, interval, endAt); err != nil {
			return nil, err
		}
	}

	if req.IsActive != nil {
		rule.SetActive(*req.IsActive)
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	return ToRecurringRuleResponse(rule), nil
}

// Run materializes every due rule for the user into a fresh draft invoice
// cloned from the rule's template. A rule that fails is skipped and
// counted; the remaining rules still run.
func (s *RecurringService) Run(ctx context.Context, userID uuid.UUID, now time.Time) (*RunRecurringResult, error) {
	if now.IsZero() {
		now = time.Now()
	}

	rules, err := s.ruleRepo.FindDue(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	result := &RunRecurringResult{
		RulesDue:   len(rules),
		CreatedIDs: make([]uuid.UUID, 0, len(rules)),
	}

	for i := range rules {
		rule := &rules[i]
		invoice, err := s.runRule(ctx, userID, rule, now)
		if err != nil {
			s.logger.Warn("recurring rule run failed",
				zap.String("rule_id", rule.ID.String()),
				zap.Error(err))
			result.Failed++
			continue
		}
		result.InvoicesCreated++
		result.CreatedIDs = append(result.CreatedIDs, invoice.ID)
	}

	return result, nil
}

// runRule clones the template invoice into a new draft dated at the run
// time, with the due date shifted by the template's own issue-to-due span.
func (s *RecurringService) runRule(ctx context.Context, userID uuid.UUID, rule *billing.RecurringRule, now time.Time) (*billing.Invoice, error) {
	template, err := s.invoiceRepo.FindByIDForUser(ctx, userID, rule.TemplateInvoiceID)
	if err != nil {
		return nil, err
	}

	invoiceNumber, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, userID)
	if err != nil {
		return nil, err
	}

	issueDate := valueobject.StartOfDay(now)
	dueDate := issueDate.Add(template.DueDate.Sub(template.IssueDate))

	items := make([]billing.InvoiceItem, len(template.Items))
	for j := range template.Items {
		item, err := billing.NewInvoiceItem(
			template.Items[j].ItemName,
			template.Items[j].Description,
			template.Items[j].Quantity,
			template.Items[j].UnitPrice,
			template.Items[j].ProductID,
		)
		if err != nil {
			return nil, err
		}
		items[j] = *item
	}

	invoice, err := billing.NewInvoice(
		userID,
		invoiceNumber,
		template.ClientID,
		template.ClientName,
		issueDate,
		dueDate,
		items,
		template.TaxAmount,
		template.DiscountAmount,
		template.Currency,
		template.Notes,
		template.PaymentTerms,
	)
	if err != nil {
		return nil, err
	}

	if err := rule.MarkRun(now); err != nil {
		return nil, err
	}

	// Invoice and rule advance commit together: a failed rule save must
	// not leave a created invoice behind, or the next run would clone it
	// again.
	err = s.txManager.InTransaction(ctx, func(repos billing.TxRepositories) error {
		if err := repos.Invoices.Save(ctx, invoice); err != nil {
			return err
		}
		return repos.Rules.Save(ctx, rule)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}
