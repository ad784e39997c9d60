package repositories

import (
	"context"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JudgeFilter narrows judge listings.
type JudgeFilter struct {
	TribunalID      string
	Search          string
	IncludeInactive bool
}

type JudgeRepository interface {
	Create(ctx context.Context, judge *models.Judge) error
	FindByID(ctx context.Context, id string) (*models.Judge, error)
	Update(ctx context.Context, judge *models.Judge) error
	ArchiveOrDelete(ctx context.Context, id string, dependents int64) (archived bool, err error)
	List(ctx context.Context, filter JudgeFilter, page Page) ([]models.Judge, int64, error)
}

type judgeRepository struct {
	db *gorm.DB
}

func (r *judgeRepository) Create(ctx context.Context, judge *models.Judge) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(judge).Error
}

func (r *judgeRepository) FindByID(ctx context.Context, id string) (*models.Judge, error) {
	var judge models.Judge
	if err := r.db.WithContext(ctx).Preload("Tribunal").First(&judge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &judge, nil
}

func (r *judgeRepository) Update(ctx context.Context, judge *models.Judge) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(judge).Error
}

func (r *judgeRepository) ArchiveOrDelete(ctx context.Context, id string, dependents int64) (bool, error) {
	return archiveOrDelete(ctx, r.db, &models.Judge{}, id, dependents, nil)
}

func (r *judgeRepository) List(ctx context.Context, filter JudgeFilter, page Page) ([]models.Judge, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Judge{}).Scopes(visibility(models.Judge{}, filter.IncludeInactive))

	if filter.TribunalID != "" {
		query = query.Where("tribunal_id = ?", filter.TribunalID)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var judges []models.Judge
	err := query.Preload("Tribunal").Order("name ASC").Scopes(page.scope).Find(&judges).Error
	return judges, total, err
}
