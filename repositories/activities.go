package repositories

import (
	"context"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	Type       string
	EntityType string
	EntityID   string
	UserID     string
}

type ActivityRepository interface {
	Append(ctx context.Context, activity *models.Activity) error
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
	List(ctx context.Context, filter ActivityFilter, page Page) ([]models.Activity, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func (r *activityRepository) Append(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(activity).Error
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter, page Page) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.Activity
	err := query.Preload("User").Order("created_at DESC").Scopes(page.scope).Find(&activities).Error
	return activities, total, err
}
