package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CaseFilter narrows case listings and counts.
type CaseFilter struct {
	Status        string
	Statuses      []string
	ExcludeStatus string
	Category      string
	Priority      string
	ClientID      string
	LawyerID      string
	TribunalID    string
	JudgeID       string
	Search        string
	EndDateFrom   string
}

var caseSortColumns = map[string]string{
	"createdAt":       "cases.created_at",
	"updatedAt":       "cases.updated_at",
	"caseNumber":      "cases.case_number",
	"name":            "cases.name",
	"startDate":       "cases.start_date",
	"priority":        "cases.priority",
	"status":          "cases.status",
	"nextHearingDate": "cases.next_hearing_date",
}

// LawyerCaseCount is a per-lawyer case tally.
type LawyerCaseCount struct {
	LawyerID   string `json:"lawyerId"`
	LawyerName string `json:"lawyerName"`
	Count      int64  `gorm:"column:case_count" json:"count"`
}

type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) error
	FindByID(ctx context.Context, id string) (*models.Case, error)
	Update(ctx context.Context, c *models.Case) error
	SetStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, filter CaseFilter, page Page, sort Sort) ([]models.Case, int64, error)
	Count(ctx context.Context, filter CaseFilter) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Case, error)

	// AdjustBilledHours adds delta (possibly negative) to billed_hours in the store.
	AdjustBilledHours(ctx context.Context, id string, delta float64) error
	AdjustBilledAmount(ctx context.Context, id string, delta float64) error
	SetNextHearingDate(ctx context.Context, id string, at *time.Time) error

	CountByStatus(ctx context.Context) ([]GroupCount, error)
	CountByCategory(ctx context.Context) ([]GroupCount, error)
	CountByLawyer(ctx context.Context) ([]LawyerCaseCount, error)
	// CountPerOwner counts cases per value of a foreign key column
	// (client_id, lawyer_id, tribunal_id or judge_id) for the given ids.
	CountPerOwner(ctx context.Context, column string, ids []string) (map[string]int64, error)

	// MaxSequence returns the highest numeric suffix among case numbers of year.
	MaxSequence(ctx context.Context, year int) (int, error)
}

type caseRepository struct {
	db *gorm.DB
}

func (r *caseRepository) Create(ctx context.Context, c *models.Case) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *caseRepository) FindByID(ctx context.Context, id string) (*models.Case, error) {
	var c models.Case
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lawyer").
		Preload("Tribunal").
		Preload("Judge").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) Update(ctx context.Context, c *models.Case) error {
	// Derived columns only move through Adjust* and SetNextHearingDate.
	return r.db.WithContext(ctx).Omit(clause.Associations, "billed_hours", "billed_amount", "next_hearing_date").Save(c).Error
}

func (r *caseRepository) SetStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	return noRows(res)
}

func (r *caseRepository) filtered(ctx context.Context, filter CaseFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Case{})

	if filter.Status != "" {
		query = query.Where("cases.status = ?", filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("cases.status IN ?", filter.Statuses)
	}
	if filter.ExcludeStatus != "" {
		query = query.Where("cases.status <> ?", filter.ExcludeStatus)
	}
	if filter.Category != "" {
		query = query.Where("cases.category = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("cases.priority = ?", filter.Priority)
	}
	if filter.ClientID != "" {
		query = query.Where("cases.client_id = ?", filter.ClientID)
	}
	if filter.LawyerID != "" {
		query = query.Where("cases.lawyer_id = ?", filter.LawyerID)
	}
	if filter.TribunalID != "" {
		query = query.Where("cases.tribunal_id = ?", filter.TribunalID)
	}
	if filter.JudgeID != "" {
		query = query.Where("cases.judge_id = ?", filter.JudgeID)
	}
	if filter.EndDateFrom != "" {
		query = query.Where("cases.end_date >= ?", filter.EndDateFrom)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("cases.case_number LIKE ? OR cases.name LIKE ? OR cases.external_number LIKE ?", pattern, pattern, pattern)
	}
	return query
}

func (r *caseRepository) List(ctx context.Context, filter CaseFilter, page Page, sort Sort) ([]models.Case, int64, error) {
	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []models.Case
	err := query.
		Preload("Client").
		Preload("Lawyer").
		Preload("Tribunal").
		Preload("Judge").
		Order(sort.clause(caseSortColumns, "cases.created_at DESC")).
		Scopes(page.scope).
		Find(&cases).Error
	return cases, total, err
}

func (r *caseRepository) Count(ctx context.Context, filter CaseFilter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Count(&n).Error
	return n, err
}

func (r *caseRepository) Recent(ctx context.Context, limit int) ([]models.Case, error) {
	var cases []models.Case
	err := r.db.WithContext(ctx).
		Preload("Lawyer").
		Preload("Judge").
		Order("created_at DESC").
		Limit(limit).
		Find(&cases).Error
	return cases, err
}

func (r *caseRepository) AdjustBilledHours(ctx context.Context, id string, delta float64) error {
	res := r.db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", id).
		UpdateColumn("billed_hours", gorm.Expr("ROUND(billed_hours + ?, 2)", delta))
	return noRows(res)
}

func (r *caseRepository) AdjustBilledAmount(ctx context.Context, id string, delta float64) error {
	res := r.db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", id).
		UpdateColumn("billed_amount", gorm.Expr("ROUND(billed_amount + ?, 2)", delta))
	return noRows(res)
}

func (r *caseRepository) SetNextHearingDate(ctx context.Context, id string, at *time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", id).
		UpdateColumn("next_hearing_date", at)
	return noRows(res)
}

func (r *caseRepository) CountByStatus(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).Model(&models.Case{}).
		Select("status AS group_key, COUNT(*) AS group_count").
		Group("status").
		Order("group_count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *caseRepository) CountByCategory(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).Model(&models.Case{}).
		Select("category AS group_key, COUNT(*) AS group_count").
		Where("status <> ?", models.CaseStatusArchived).
		Group("category").
		Order("group_count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *caseRepository) CountByLawyer(ctx context.Context) ([]LawyerCaseCount, error) {
	var rows []LawyerCaseCount
	err := r.db.WithContext(ctx).Model(&models.Case{}).
		Select("cases.lawyer_id, lawyers.name AS lawyer_name, COUNT(*) AS case_count").
		Joins("JOIN lawyers ON lawyers.id = cases.lawyer_id").
		Where("cases.status <> ?", models.CaseStatusArchived).
		Group("cases.lawyer_id, lawyers.name").
		Order("case_count DESC").
		Scan(&rows).Error
	return rows, err
}

var caseOwnerColumns = map[string]bool{
	"client_id":   true,
	"lawyer_id":   true,
	"tribunal_id": true,
	"judge_id":    true,
}

func (r *caseRepository) CountPerOwner(ctx context.Context, column string, ids []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	if !caseOwnerColumns[column] {
		return nil, fmt.Errorf("cannot group cases by %q", column)
	}

	var rows []GroupCount
	err := r.db.WithContext(ctx).Model(&models.Case{}).
		Select(column+" AS group_key, COUNT(*) AS group_count").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func (r *caseRepository) MaxSequence(ctx context.Context, year int) (int, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&models.Case{}).
		Where("case_number LIKE ?", models.CaseNumberPattern(year)).
		Pluck("case_number", &numbers).Error
	if err != nil {
		return 0, err
	}

	prefix := strings.TrimSuffix(models.CaseNumberPattern(year), "%")
	highest := 0
	for _, number := range numbers {
		seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return highest, nil
}
