package repositories

import (
	"context"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LawyerFilter narrows lawyer listings.
type LawyerFilter struct {
	Status          string
	Specialty       string
	Search          string
	IncludeInactive bool
}

// LawyerWorkload summarizes a lawyer's open work.
type LawyerWorkload struct {
	LawyerID     string  `json:"lawyerId"`
	CaseCount    int64   `json:"caseCount"`
	UrgentCount  int64   `json:"urgentCount"`
	MonthlyHours float64 `json:"monthlyHours"`
}

type LawyerRepository interface {
	Create(ctx context.Context, lawyer *models.Lawyer) error
	FindByID(ctx context.Context, id string) (*models.Lawyer, error)
	Update(ctx context.Context, lawyer *models.Lawyer) error
	ArchiveOrDelete(ctx context.Context, id string, dependents int64) (archived bool, err error)
	List(ctx context.Context, filter LawyerFilter, page Page) ([]models.Lawyer, int64, error)
	Workloads(ctx context.Context, ids []string, monthStart string) (map[string]LawyerWorkload, error)
	CountActive(ctx context.Context) (int64, error)
}

type lawyerRepository struct {
	db *gorm.DB
}

func (r *lawyerRepository) Create(ctx context.Context, lawyer *models.Lawyer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(lawyer).Error
}

func (r *lawyerRepository) FindByID(ctx context.Context, id string) (*models.Lawyer, error) {
	var lawyer models.Lawyer
	if err := r.db.WithContext(ctx).Preload("User").First(&lawyer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lawyer, nil
}

func (r *lawyerRepository) Update(ctx context.Context, lawyer *models.Lawyer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(lawyer).Error
}

func (r *lawyerRepository) ArchiveOrDelete(ctx context.Context, id string, dependents int64) (bool, error) {
	return archiveOrDelete(ctx, r.db, &models.Lawyer{}, id, dependents, nil)
}

func (r *lawyerRepository) List(ctx context.Context, filter LawyerFilter, page Page) ([]models.Lawyer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Lawyer{}).Scopes(visibility(models.Lawyer{}, filter.IncludeInactive))

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Specialty != "" {
		query = query.Where("specialty = ?", filter.Specialty)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name LIKE ? OR email LIKE ? OR specialty LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lawyers []models.Lawyer
	err := query.Preload("User").Order("name ASC").Scopes(page.scope).Find(&lawyers).Error
	return lawyers, total, err
}

// Workloads computes case counts and billable hours since monthStart for
// every lawyer in ids using two grouped queries.
func (r *lawyerRepository) Workloads(ctx context.Context, ids []string, monthStart string) (map[string]LawyerWorkload, error) {
	result := make(map[string]LawyerWorkload, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	for _, id := range ids {
		result[id] = LawyerWorkload{LawyerID: id}
	}

	var caseRows []struct {
		LawyerID    string
		CaseCount   int64
		UrgentCount int64
	}
	err := r.db.WithContext(ctx).Model(&models.Case{}).
		Select("lawyer_id, COUNT(*) AS case_count, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS urgent_count", models.CaseStatusUrgent).
		Where("lawyer_id IN ?", ids).
		Group("lawyer_id").
		Scan(&caseRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range caseRows {
		w := result[row.LawyerID]
		w.CaseCount = row.CaseCount
		w.UrgentCount = row.UrgentCount
		result[row.LawyerID] = w
	}

	var hourRows []struct {
		LawyerID string
		Hours    float64
	}
	err = r.db.WithContext(ctx).Model(&models.TimeEntry{}).
		Select("lawyer_id, COALESCE(SUM(hours), 0) AS hours").
		Where("lawyer_id IN ? AND is_billable = ? AND date >= ?", ids, true, monthStart).
		Group("lawyer_id").
		Scan(&hourRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range hourRows {
		w := result[row.LawyerID]
		w.MonthlyHours = row.Hours
		result[row.LawyerID] = w
	}

	return result, nil
}

func (r *lawyerRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Lawyer{}).
		Where("status = ? AND is_active = ?", models.LawyerStatusActive, true).
		Count(&n).Error
	return n, err
}
