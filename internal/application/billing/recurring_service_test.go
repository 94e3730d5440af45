package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func createTestRule(userID uuid.UUID, templateID uuid.UUID, startAt time.Time) *billing.RecurringRule {
	rule, _ := billing.NewRecurringRule(userID, newTestClientID(), templateID, billing.FrequencyMonthly, 1, startAt, nil)
	return rule
}

func newTestRecurringService(rules *MockRecurringRuleRepository, invoices *MockInvoiceRepository, clients *MockClientRepository) *RecurringService {
	tx := &stubTxManager{repos: billing.TxRepositories{Invoices: invoices, Rules: rules}}
	return NewRecurringService(rules, invoices, clients, tx, zap.NewNop())
}

func TestRecurringService_Create_Success(t *testing.T) {
	mockRules := new(MockRecurringRuleRepository)
	mockInvoices := new(MockInvoiceRepository)
	mockClients := new(MockClientRepository)
	service := newTestRecurringService(mockRules, mockInvoices, mockClients)

	ctx := context.Background()
	userID := newTestUserID()
	client := createTestClient(userID)
	template := createTestInvoice(userID, 500000)

	req := &CreateRecurringRuleRequest{
		ClientID:          client.ID,
		TemplateInvoiceID: template.ID,
		Frequency:         "MONTHLY",
		Interval:          1,
		StartAt:           "2026-04-01",
	}

	mockClients.On("FindByIDForUser", ctx, userID, client.ID).Return(client, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, template.ID).Return(template, nil)
	mockRules.On("Save", ctx, mock.AnythingOfType("*billing.RecurringRule")).Return(nil)

	result, err := service.Create(ctx, userID, req)

	assert.NoError(t, err)
	assert.Equal(t, "MONTHLY", result.Frequency)
	assert.Equal(t, 1, result.Interval)
	assert.True(t, result.IsActive)
	assert.Equal(t, result.StartAt, result.NextRunAt)
	mockRules.AssertExpectations(t)
}

func TestRecurringService_Create_TemplateClientMismatch(t *testing.T) {
	mockRules := new(MockRecurringRuleRepository)
	mockInvoices := new(MockInvoiceRepository)
	mockClients := new(MockClientRepository)
	service := newTestRecurringService(mockRules, mockInvoices, mockClients)

	ctx := context.Background()
	userID := newTestUserID()
	client := createTestClient(userID)
	template := createTestInvoice(userID, 500000)
	template.ClientID = uuid.New()

	req := &CreateRecurringRuleRequest{
		ClientID:          client.ID,
		TemplateInvoiceID: template.ID,
		Frequency:         "WEEKLY",
		Interval:          2,
		StartAt:           "2026-04-01",
	}

	mockClients.On("FindByIDForUser", ctx, userID, client.ID).Return(client, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, template.ID).Return(template, nil)

	result, err := service.Create(ctx, userID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TEMPLATE_MISMATCH", domainErr.Code)
	mockRules.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRecurringService_Run_CreatesInvoiceFromTemplate(t *testing.T) {
	mockRules := new(MockRecurringRuleRepository)
	mockInvoices := new(MockInvoiceRepository)
	mockClients := new(MockClientRepository)
	service := newTestRecurringService(mockRules, mockInvoices, mockClients)

	ctx := context.Background()
	userID := newTestUserID()
	template := createTestInvoice(userID, 500000)
	now := time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)
	rule := createTestRule(userID, template.ID, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	var created *billing.Invoice
	mockRules.On("FindDue", ctx, userID, now).Return([]billing.RecurringRule{*rule}, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, template.ID).Return(template, nil)
	mockInvoices.On("GenerateInvoiceNumber", ctx, userID).Return("INV-20260410-00002", nil)
	mockInvoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*billing.Invoice)
	}).Return(nil)
	mockRules.On("Save", ctx, mock.AnythingOfType("*billing.RecurringRule")).Return(nil)

	result, err := service.Run(ctx, userID, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.RulesDue)
	assert.Equal(t, 1, result.InvoicesCreated)
	assert.Equal(t, 0, result.Failed)

	assert.NotNil(t, created)
	assert.Equal(t, "INV-20260410-00002", created.InvoiceNumber)
	assert.Equal(t, billing.InvoiceStatusDraft, created.Status)
	assert.Equal(t, template.ClientID, created.ClientID)
	assert.True(t, created.Total.Equal(template.Total))
	// the template spans 14 days, so the clone keeps that span from the run day
	assert.Equal(t, 14*24*time.Hour, created.DueDate.Sub(created.IssueDate))
	mockRules.AssertExpectations(t)
	mockInvoices.AssertExpectations(t)
}

func TestRecurringService_Run_AdvancesNextRunPastNow(t *testing.T) {
	mockRules := new(MockRecurringRuleRepository)
	mockInvoices := new(MockInvoiceRepository)
	mockClients := new(MockClientRepository)
	service := newTestRecurringService(mockRules, mockInvoices, mockClients)

	ctx := context.Background()
	userID := newTestUserID()
	template := createTestInvoice(userID, 500000)
	// rule missed three monthly runs; a single trigger collapses them
	now := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	rule := createTestRule(userID, template.ID, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	var savedRule *billing.RecurringRule
	mockRules.On("FindDue", ctx, userID, now).Return([]billing.RecurringRule{*rule}, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, template.ID).Return(template, nil)
	mockInvoices.On("GenerateInvoiceNumber", ctx, userID).Return("INV-20260715-00001", nil)
	mockInvoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
	mockRules.On("Save", ctx, mock.AnythingOfType("*billing.RecurringRule")).Run(func(args mock.Arguments) {
		savedRule = args.Get(1).(*billing.RecurringRule)
	}).Return(nil)

	result, err := service.Run(ctx, userID, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.InvoicesCreated)
	assert.NotNil(t, savedRule)
	assert.True(t, savedRule.NextRunAt.After(now))
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), savedRule.NextRunAt)
	assert.NotNil(t, savedRule.LastRunAt)
}

func TestRecurringService_Run_FailedRuleDoesNotStopOthers(t *testing.T) {
	mockRules := new(MockRecurringRuleRepository)
	mockInvoices := new(MockInvoiceRepository)
	mockClients := new(MockClientRepository)
	service := newTestRecurringService(mockRules, mockInvoices, mockClients)

	ctx := context.Background()
	userID := newTestUserID()
	template := createTestInvoice(userID, 500000)
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	brokenTemplateID := uuid.New()
	broken := createTestRule(userID, brokenTemplateID, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	healthy := createTestRule(userID, template.ID, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	mockRules.On("FindDue", ctx, userID, now).Return([]billing.RecurringRule{*broken, *healthy}, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, brokenTemplateID).Return(nil, shared.ErrNotFound)
	mockInvoices.On("FindByIDForUser", ctx, userID, template.ID).Return(template, nil)
	mockInvoices.On("GenerateInvoiceNumber", ctx, userID).Return("INV-20260410-00003", nil)
	mockInvoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
	mockRules.On("Save", ctx, mock.AnythingOfType("*billing.RecurringRule")).Return(nil)

	result, err := service.Run(ctx, userID, now)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.RulesDue)
	assert.Equal(t, 1, result.InvoicesCreated)
	assert.Equal(t, 1, result.Failed)
}

func TestRecurringService_Run_RuleAdvanceFailureCountsRuleAsFailed(t *testing.T) {
	mockRules := new(MockRecurringRuleRepository)
	mockInvoices := new(MockInvoiceRepository)
	mockClients := new(MockClientRepository)
	service := newTestRecurringService(mockRules, mockInvoices, mockClients)

	ctx := context.Background()
	userID := newTestUserID()
	template := createTestInvoice(userID, 500000)
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	rule := createTestRule(userID, template.ID, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	mockRules.On("FindDue", ctx, userID, now).Return([]billing.RecurringRule{*rule}, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, template.ID).Return(template, nil)
	mockInvoices.On("GenerateInvoiceNumber", ctx, userID).Return("INV-20260410-00004", nil)
	mockInvoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)
	mockRules.On("Save", ctx, mock.AnythingOfType("*billing.RecurringRule")).Return(shared.ErrConcurrencyConflict)

	result, err := service.Run(ctx, userID, now)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.RulesDue)
	assert.Equal(t, 0, result.InvoicesCreated)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, result.CreatedIDs)
}

func TestRecurringService_Update_DeactivateRule(t *testing.T) {
	mockRules := new(MockRecurringRuleRepository)
	mockInvoices := new(MockInvoiceRepository)
	mockClients := new(MockClientRepository)
	service := newTestRecurringService(mockRules, mockInvoices, mockClients)

	ctx := context.Background()
	userID := newTestUserID()
	rule := createTestRule(userID, uuid.New(), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	inactive := false
	mockRules.On("FindByIDForUser", ctx, userID, rule.ID).Return(rule, nil)
	mockRules.On("Save", ctx, rule).Return(nil)

	result, err := service.Update(ctx, userID, rule.ID, &UpdateRecurringRuleRequest{IsActive: &inactive})

	assert.NoError(t, err)
	assert.False(t, result.IsActive)
}
