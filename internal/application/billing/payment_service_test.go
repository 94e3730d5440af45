package billing

import (
	"context"
	"testing"

	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// newTestPaymentService wires the service so transactional writes land on
// the same mocks as direct reads.
func newTestPaymentService(payments *MockPaymentRepository, invoices *MockInvoiceRepository) *PaymentService {
	tx := &stubTxManager{repos: billing.TxRepositories{Invoices: invoices, Payments: payments}}
	return NewPaymentService(payments, invoices, tx)
}

func TestPaymentService_Create_Success(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Send()

	req := &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(30000),
		Method:    "TRANSFER",
	}

	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)
	mockPayments.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
	mockInvoices.On("SaveWithLock", ctx, invoice).Return(nil)

	result, err := service.Create(ctx, userID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(30000)))
	assert.True(t, invoice.PaidAmount.Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, billing.InvoiceStatusSent, invoice.Status)
	mockPayments.AssertExpectations(t)
	mockInvoices.AssertExpectations(t)
}

func TestPaymentService_Create_ExactRemainingSettles(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Send()
	_ = invoice.RecordPayment(idr(30000))
	_ = invoice.RecordPayment(idr(20000))

	req := &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(50000),
	}

	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)
	mockPayments.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
	mockInvoices.On("SaveWithLock", ctx, invoice).Return(nil)

	_, err := service.Create(ctx, userID, req)

	assert.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, invoice.Status)
	assert.NotNil(t, invoice.PaidAt)
	assert.True(t, invoice.Remaining().IsZero())
}

func TestPaymentService_Create_OverpaymentRejectedWithMaximum(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Send()
	_ = invoice.RecordPayment(idr(30000))
	_ = invoice.RecordPayment(idr(20000))

	req := &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(60000),
	}

	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)

	result, err := service.Create(ctx, userID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EXCEEDS_REMAINING", domainErr.Code)
	assert.Contains(t, domainErr.Message, "50000")
	mockPayments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockInvoices.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPaymentService_Create_CancelledInvoiceRejected(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Cancel("client withdrew")

	req := &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(10000),
	}

	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)

	result, err := service.Create(ctx, userID, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	mockPayments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentService_Delete_RecomputesFromRemainingPayments(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Send()
	_ = invoice.RecordPayment(idr(30000))
	_ = invoice.RecordPayment(idr(20000))

	payment, _ := billing.NewPayment(userID, invoice.ID, invoice.InvoiceNumber, idr(20000), invoice.IssueDate, billing.PaymentMethodTransfer, "")

	mockPayments.On("FindByIDForUser", ctx, userID, payment.ID).Return(payment, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)
	mockPayments.On("DeleteForUser", ctx, userID, payment.ID).Return(nil)
	mockPayments.On("SumByInvoice", ctx, userID, invoice.ID).Return(decimal.NewFromInt(30000), nil)
	mockInvoices.On("SaveWithLock", ctx, invoice).Return(nil)

	err := service.Delete(ctx, userID, payment.ID)

	assert.NoError(t, err)
	assert.True(t, invoice.PaidAmount.Equal(decimal.NewFromInt(30000)))
	assert.True(t, invoice.Remaining().Amount().Equal(decimal.NewFromInt(70000)))
	mockPayments.AssertExpectations(t)
	mockInvoices.AssertExpectations(t)
}

func TestPaymentService_Delete_ReopensPaidInvoice(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Send()
	_ = invoice.RecordPayment(idr(100000))
	assert.Equal(t, billing.InvoiceStatusPaid, invoice.Status)

	payment, _ := billing.NewPayment(userID, invoice.ID, invoice.InvoiceNumber, idr(100000), invoice.IssueDate, billing.PaymentMethodTransfer, "")

	mockPayments.On("FindByIDForUser", ctx, userID, payment.ID).Return(payment, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)
	mockPayments.On("DeleteForUser", ctx, userID, payment.ID).Return(nil)
	mockPayments.On("SumByInvoice", ctx, userID, invoice.ID).Return(decimal.Zero, nil)
	mockInvoices.On("SaveWithLock", ctx, invoice).Return(nil)

	err := service.Delete(ctx, userID, payment.ID)

	assert.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusSent, invoice.Status)
	assert.Nil(t, invoice.PaidAt)
	assert.True(t, invoice.PaidAmount.IsZero())
}

func TestPaymentService_ListByInvoice_ReturnsReconciliation(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)

	p1, _ := billing.NewPayment(userID, invoice.ID, invoice.InvoiceNumber, idr(30000), invoice.IssueDate, billing.PaymentMethodTransfer, "")
	p2, _ := billing.NewPayment(userID, invoice.ID, invoice.InvoiceNumber, idr(20000), invoice.IssueDate, billing.PaymentMethodCash, "")

	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)
	mockPayments.On("FindByInvoice", ctx, userID, invoice.ID).Return([]billing.Payment{*p1, *p2}, nil)

	payments, reconciliation, err := service.ListByInvoice(ctx, userID, invoice.ID)

	assert.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.True(t, reconciliation.TotalPaid.Equal(decimal.NewFromInt(50000)))
	assert.True(t, reconciliation.Remaining.Equal(decimal.NewFromInt(50000)))
	assert.False(t, reconciliation.Overpaid)
}

func TestPaymentService_Create_WritesThroughTransaction(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	txPayments := new(MockPaymentRepository)
	txInvoices := new(MockInvoiceRepository)
	tx := &stubTxManager{repos: billing.TxRepositories{Invoices: txInvoices, Payments: txPayments}}
	service := NewPaymentService(mockPayments, mockInvoices, tx)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Send()

	req := &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(30000),
	}

	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)
	txPayments.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
	txInvoices.On("SaveWithLock", ctx, invoice).Return(nil)

	_, err := service.Create(ctx, userID, req)

	assert.NoError(t, err)
	mockPayments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockInvoices.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	txPayments.AssertExpectations(t)
	txInvoices.AssertExpectations(t)
}

func TestPaymentService_Create_LockConflictFailsWholeWrite(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Send()

	req := &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(30000),
	}

	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)
	mockPayments.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
	mockInvoices.On("SaveWithLock", ctx, invoice).Return(shared.ErrConcurrencyConflict)

	result, err := service.Create(ctx, userID, req)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestPaymentService_Delete_LockConflictFailsWholeWrite(t *testing.T) {
	mockPayments := new(MockPaymentRepository)
	mockInvoices := new(MockInvoiceRepository)
	service := newTestPaymentService(mockPayments, mockInvoices)

	ctx := context.Background()
	userID := newTestUserID()
	invoice := createTestInvoice(userID, 100000)
	_ = invoice.Send()
	_ = invoice.RecordPayment(idr(30000))

	payment, _ := billing.NewPayment(userID, invoice.ID, invoice.InvoiceNumber, idr(30000), invoice.IssueDate, billing.PaymentMethodTransfer, "")

	mockPayments.On("FindByIDForUser", ctx, userID, payment.ID).Return(payment, nil)
	mockInvoices.On("FindByIDForUser", ctx, userID, invoice.ID).Return(invoice, nil)
	mockPayments.On("DeleteForUser", ctx, userID, payment.ID).Return(nil)
	mockPayments.On("SumByInvoice", ctx, userID, invoice.ID).Return(decimal.Zero, nil)
	mockInvoices.On("SaveWithLock", ctx, invoice).Return(shared.ErrConcurrencyConflict)

	err := service.Delete(ctx, userID, payment.ID)

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}
