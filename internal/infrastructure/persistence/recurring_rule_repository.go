package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRecurringRuleRepository implements RecurringRuleRepository using GORM
type GormRecurringRuleRepository struct {
	db *gorm.DB
}

// NewGormRecurringRuleRepository creates a new GormRecurringRuleRepository
func NewGormRecurringRuleRepository(db *gorm.DB) *GormRecurringRuleRepository {
	return &GormRecurringRuleRepository{db: db}
}

// FindByID finds a recurring rule by its ID
func (r *GormRecurringRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.RecurringRule, error) {
	var model models.RecurringRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a recurring rule by ID owned by the user
func (r *GormRecurringRuleRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*billing.RecurringRule, error) {
	var model models.RecurringRuleModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForUser finds all recurring rules for a user with filtering
func (r *GormRecurringRuleRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter billing.RecurringRuleFilter) ([]billing.RecurringRule, error) {
	var ruleModels []models.RecurringRuleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.RecurringRuleModel{}).Where("user_id = ?", userID),
		filter,
	)

	if err := query.Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	return toDomainRecurringRules(ruleModels), nil
}

// FindDue finds active rules whose next run is at or before now.
// Rules past their end date are excluded; the run loop deactivates them.
func (r *GormRecurringRuleRepository) FindDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]billing.RecurringRule, error) {
	var ruleModels []models.RecurringRuleModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND next_run_at <= ?", userID, true, now).
		Where("end_at IS NULL OR next_run_at <= end_at").
		Order("next_run_at ASC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return toDomainRecurringRules(ruleModels), nil
}

// Save creates or updates a recurring rule
func (r *GormRecurringRuleRepository) Save(ctx context.Context, rule *billing.RecurringRule) error {
	model := models.RecurringRuleModelFromDomain(rule)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a recurring rule
func (r *GormRecurringRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RecurringRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForUser counts recurring rules for a user
func (r *GormRecurringRuleRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter billing.RecurringRuleFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.RecurringRuleModel{}).Where("user_id = ?", userID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRecurringRuleRepository) applyFilter(query *gorm.DB, filter billing.RecurringRuleFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RecurringRuleSortFields, "next_run_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormRecurringRuleRepository) applyFilterWithoutPagination(query *gorm.DB, filter billing.RecurringRuleFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

func toDomainRecurringRules(ruleModels []models.RecurringRuleModel) []billing.RecurringRule {
	rules := make([]billing.RecurringRule, len(ruleModels))
	for i, model := range ruleModels {
		rules[i] = *model.ToDomain()
	}
	return rules
}

// Ensure GormRecurringRuleRepository implements RecurringRuleRepository
var _ billing.RecurringRuleRepository = (*GormRecurringRuleRepository)(nil)
