package repositories

import (
	"context"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
)

// ClientFilter narrows client listings.
type ClientFilter struct {
	Type            string
	Search          string
	IncludeInactive bool
}

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id string) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	ArchiveOrDelete(ctx context.Context, id string, dependents int64) (archived bool, err error)
	List(ctx context.Context, filter ClientFilter, page Page) ([]models.Client, int64, error)
}

type clientRepository struct {
	db *gorm.DB
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) ArchiveOrDelete(ctx context.Context, id string, dependents int64) (bool, error) {
	return archiveOrDelete(ctx, r.db, &models.Client{}, id, dependents, nil)
}

func (r *clientRepository) List(ctx context.Context, filter ClientFilter, page Page) ([]models.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Client{}).Scopes(visibility(models.Client{}, filter.IncludeInactive))

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name LIKE ? OR rfc LIKE ? OR email LIKE ? OR contact_person LIKE ?", pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	err := query.Order("name ASC").Scopes(page.scope).Find(&clients).Error
	return clients, total, err
}
