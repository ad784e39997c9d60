package repositories

import (
	"context"
	"time"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentViewer decides which confidential documents a caller may see.
type DocumentViewer struct {
	UserID  string
	IsAdmin bool
}

func (v DocumentViewer) scope(db *gorm.DB) *gorm.DB {
	if v.IsAdmin {
		return db
	}
	return db.Where("documents.is_confidential = ? OR documents.uploaded_by = ?", false, v.UserID)
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	CaseID   string
	Category string
	Search   string
	Viewer   DocumentViewer
}

// DocumentStats summarizes visible documents.
type DocumentStats struct {
	Total      int64        `json:"total"`
	TotalSize  int64        `json:"totalSize"`
	ByCategory []GroupCount `json:"byCategory"`
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	// FindByID returns soft-deleted documents only when includeDeleted is set.
	FindByID(ctx context.Context, id string, includeDeleted bool) (*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	Archive(ctx context.Context, id string, by string) error
	HardDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter DocumentFilter, page Page) ([]models.Document, int64, error)
	RecentForCase(ctx context.Context, caseID string, viewer DocumentViewer, limit int) ([]models.Document, error)
	Stats(ctx context.Context, filter DocumentFilter) (DocumentStats, error)
	CountVersions(ctx context.Context, parentID string) (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(doc).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Scopes(visibility(models.Document{}, includeDeleted)).
		Preload("Case").
		Preload("Uploader").
		First(&doc, "documents.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(doc).Error
}

func (r *documentRepository) Archive(ctx context.Context, id string, by string) error {
	res := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(models.Document{}.ArchiveUpdates(time.Now(), &by))
	return noRows(res)
}

// HardDelete removes the row; later versions keep existing but lose the link.
func (r *documentRepository) HardDelete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("parent_document_id = ?", id).
		UpdateColumn("parent_document_id", nil).Error
	if err != nil {
		return err
	}
	return noRows(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Document{}))
}

func (r *documentRepository) filtered(ctx context.Context, filter DocumentFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Document{}).
		Scopes(models.Document{}.VisibleScope, filter.Viewer.scope)

	if filter.CaseID != "" {
		query = query.Where("documents.case_id = ?", filter.CaseID)
	}
	if filter.Category != "" {
		query = query.Where("documents.category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("documents.name LIKE ? OR documents.display_name LIKE ? OR documents.description LIKE ?", pattern, pattern, pattern)
	}
	return query
}

func (r *documentRepository) List(ctx context.Context, filter DocumentFilter, page Page) ([]models.Document, int64, error) {
	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []models.Document
	err := query.
		Preload("Case").
		Preload("Uploader").
		Order("documents.created_at DESC").
		Scopes(page.scope).
		Find(&docs).Error
	return docs, total, err
}

func (r *documentRepository) RecentForCase(ctx context.Context, caseID string, viewer DocumentViewer, limit int) ([]models.Document, error) {
	var docs []models.Document
	err := r.filtered(ctx, DocumentFilter{CaseID: caseID, Viewer: viewer}).
		Preload("Uploader").
		Order("documents.created_at DESC").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Stats(ctx context.Context, filter DocumentFilter) (DocumentStats, error) {
	var stats DocumentStats

	var totals struct {
		Total     int64
		TotalSize int64
	}
	if err := r.filtered(ctx, filter).Select("COUNT(*) AS total, COALESCE(SUM(size), 0) AS total_size").Scan(&totals).Error; err != nil {
		return stats, err
	}
	stats.Total = totals.Total
	stats.TotalSize = totals.TotalSize

	err := r.filtered(ctx, filter).
		Select("documents.category AS group_key, COUNT(*) AS group_count").
		Group("documents.category").
		Order("group_count DESC").
		Scan(&stats.ByCategory).Error
	return stats, err
}

func (r *documentRepository) CountVersions(ctx context.Context, parentID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).Where("parent_document_id = ?", parentID).Count(&n).Error
	return n, err
}
