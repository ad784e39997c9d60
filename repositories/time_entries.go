package repositories

import (
	"context"
	"fmt"
	"strconv"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimeEntryFilter narrows time entry listings, totals and exports.
type TimeEntryFilter struct {
	CaseID     string
	LawyerID   string
	Status     string
	IsBillable *bool
	StartDate  string // inclusive, YYYY-MM-DD
	EndDate    string // inclusive, YYYY-MM-DD
}

// TimeEntryTotals sums hours and amounts over a set of entries.
type TimeEntryTotals struct {
	TotalHours    float64 `json:"totalHours"`
	BillableHours float64 `json:"billableHours"`
	TotalAmount   float64 `json:"totalAmount"`
}

// MonthHours is one month of a yearly summary.
type MonthHours struct {
	Month         int     `json:"month"`
	TotalHours    float64 `json:"totalHours"`
	BillableHours float64 `json:"billableHours"`
}

var timeEntrySortColumns = map[string]string{
	"date":      "time_entries.date",
	"hours":     "time_entries.hours",
	"createdAt": "time_entries.created_at",
	"status":    "time_entries.status",
}

type TimeEntryRepository interface {
	Create(ctx context.Context, entry *models.TimeEntry) error
	FindByID(ctx context.Context, id string) (*models.TimeEntry, error)
	// FindForUpdate re-reads the entry inside a transaction, taking a row lock
	// where the dialect supports one.
	FindForUpdate(ctx context.Context, id string) (*models.TimeEntry, error)
	Save(ctx context.Context, entry *models.TimeEntry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TimeEntryFilter, page Page, sort Sort) ([]models.TimeEntry, int64, error)
	Totals(ctx context.Context, filter TimeEntryFilter) (TimeEntryTotals, error)
	BillableHoursBetween(ctx context.Context, from, to string) (float64, error)
	MonthlySummary(ctx context.Context, year int, lawyerID string) ([]MonthHours, error)
}

type timeEntryRepository struct {
	db *gorm.DB
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *timeEntryRepository) FindByID(ctx context.Context, id string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.WithContext(ctx).
		Preload("Case").
		Preload("Lawyer").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) FindForUpdate(ctx context.Context, id string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) Save(ctx context.Context, entry *models.TimeEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entry).Error
}

func (r *timeEntryRepository) Delete(ctx context.Context, id string) error {
	return noRows(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TimeEntry{}))
}

func (r *timeEntryRepository) filtered(ctx context.Context, filter TimeEntryFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.TimeEntry{})

	if filter.CaseID != "" {
		query = query.Where("time_entries.case_id = ?", filter.CaseID)
	}
	if filter.LawyerID != "" {
		query = query.Where("time_entries.lawyer_id = ?", filter.LawyerID)
	}
	if filter.Status != "" {
		query = query.Where("time_entries.status = ?", filter.Status)
	}
	if filter.IsBillable != nil {
		query = query.Where("time_entries.is_billable = ?", *filter.IsBillable)
	}
	if filter.StartDate != "" {
		query = query.Where("time_entries.date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("time_entries.date <= ?", filter.EndDate)
	}
	return query
}

func (r *timeEntryRepository) List(ctx context.Context, filter TimeEntryFilter, page Page, sort Sort) ([]models.TimeEntry, int64, error) {
	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.TimeEntry
	err := query.
		Preload("Case").
		Preload("Lawyer").
		Order(sort.clause(timeEntrySortColumns, "time_entries.date DESC")).
		Order("time_entries.created_at DESC").
		Scopes(page.scope).
		Find(&entries).Error
	return entries, total, err
}

func (r *timeEntryRepository) Totals(ctx context.Context, filter TimeEntryFilter) (TimeEntryTotals, error) {
	var totals TimeEntryTotals
	err := r.filtered(ctx, filter).
		Select(`COALESCE(SUM(hours), 0) AS total_hours,
			COALESCE(SUM(CASE WHEN is_billable THEN hours ELSE 0 END), 0) AS billable_hours,
			COALESCE(SUM(CASE WHEN is_billable THEN total_amount ELSE 0 END), 0) AS total_amount`).
		Scan(&totals).Error
	return totals, err
}

// BillableHoursBetween sums billable hours dated in [from, to).
func (r *timeEntryRepository) BillableHoursBetween(ctx context.Context, from, to string) (float64, error) {
	var hours float64
	err := r.db.WithContext(ctx).Model(&models.TimeEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("is_billable = ? AND date >= ? AND date < ?", true, from, to).
		Scan(&hours).Error
	return hours, err
}

// MonthlySummary returns twelve buckets for year, January first.
func (r *timeEntryRepository) MonthlySummary(ctx context.Context, year int, lawyerID string) ([]MonthHours, error) {
	filter := TimeEntryFilter{
		LawyerID:  lawyerID,
		StartDate: yearStart(year),
		EndDate:   yearEnd(year),
	}

	var rows []struct {
		Month         string
		TotalHours    float64
		BillableHours float64
	}
	err := r.filtered(ctx, filter).
		Select(`SUBSTR(date, 6, 2) AS month,
			COALESCE(SUM(hours), 0) AS total_hours,
			COALESCE(SUM(CASE WHEN is_billable THEN hours ELSE 0 END), 0) AS billable_hours`).
		Group("SUBSTR(date, 6, 2)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	months := make([]MonthHours, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for _, row := range rows {
		m, err := strconv.Atoi(row.Month)
		if err == nil && m >= 1 && m <= 12 {
			months[m-1].TotalHours = row.TotalHours
			months[m-1].BillableHours = row.BillableHours
		}
	}
	return months, nil
}

func yearStart(year int) string {
	return fmt.Sprintf("%04d-01-01", year)
}

func yearEnd(year int) string {
	return fmt.Sprintf("%04d-12-31", year)
}
