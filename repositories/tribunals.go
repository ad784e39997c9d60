package repositories

import (
	"context"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TribunalFilter narrows tribunal listings.
type TribunalFilter struct {
	Type            string
	Search          string
	IncludeInactive bool
}

type TribunalRepository interface {
	Create(ctx context.Context, tribunal *models.Tribunal) error
	FindByID(ctx context.Context, id string) (*models.Tribunal, error)
	Update(ctx context.Context, tribunal *models.Tribunal) error
	ArchiveOrDelete(ctx context.Context, id string, dependents int64) (archived bool, err error)
	List(ctx context.Context, filter TribunalFilter, page Page) ([]models.Tribunal, int64, error)
}

type tribunalRepository struct {
	db *gorm.DB
}

func activeJudges(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("name ASC")
}

func (r *tribunalRepository) Create(ctx context.Context, tribunal *models.Tribunal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tribunal).Error
}

func (r *tribunalRepository) FindByID(ctx context.Context, id string) (*models.Tribunal, error) {
	var tribunal models.Tribunal
	if err := r.db.WithContext(ctx).Preload("Judges", activeJudges).First(&tribunal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tribunal, nil
}

func (r *tribunalRepository) Update(ctx context.Context, tribunal *models.Tribunal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(tribunal).Error
}

func (r *tribunalRepository) ArchiveOrDelete(ctx context.Context, id string, dependents int64) (bool, error) {
	return archiveOrDelete(ctx, r.db, &models.Tribunal{}, id, dependents, nil)
}

func (r *tribunalRepository) List(ctx context.Context, filter TribunalFilter, page Page) ([]models.Tribunal, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Tribunal{}).Scopes(visibility(models.Tribunal{}, filter.IncludeInactive))

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name LIKE ? OR jurisdiction LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tribunals []models.Tribunal
	err := query.Preload("Judges", activeJudges).Order("name ASC").Scopes(page.scope).Find(&tribunals).Error
	return tribunals, total, err
}
