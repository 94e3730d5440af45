package persistence

import (
	"context"

	"github.com/invoicing/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// BillingTransactionManager implements billing.TransactionManager on a
// gorm connection. The callback receives repositories bound to the
// transaction, so a SaveWithLock conflict rolls back every write made
// alongside it.
type BillingTransactionManager struct {
	db *gorm.DB
}

// NewBillingTransactionManager creates a transaction manager over the
// given connection
func NewBillingTransactionManager(db *gorm.DB) *BillingTransactionManager {
	return &BillingTransactionManager{db: db}
}

// InTransaction runs fn inside one database transaction
func (m *BillingTransactionManager) InTransaction(ctx context.Context, fn func(repos billing.TxRepositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(billing.TxRepositories{
			Invoices: NewGormInvoiceRepository(tx),
			Payments: NewGormPaymentRepository(tx),
			Rules:    NewGormRecurringRuleRepository(tx),
		})
	})
}
