package repositories

import (
	"context"
	"time"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HearingFilter narrows hearing listings.
type HearingFilter struct {
	CaseID     string
	TribunalID string
	Status     string
	// UpcomingFrom keeps pending hearings scheduled at or after the given instant.
	UpcomingFrom *time.Time
	From         *time.Time
	To           *time.Time
}

type HearingRepository interface {
	Create(ctx context.Context, hearing *models.Hearing) error
	FindByID(ctx context.Context, id string) (*models.Hearing, error)
	Save(ctx context.Context, hearing *models.Hearing) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter HearingFilter, page Page) ([]models.Hearing, int64, error)
	// Upcoming returns pending hearings at or after now, soonest first.
	Upcoming(ctx context.Context, now time.Time, limit int) ([]models.Hearing, error)
	NextForCase(ctx context.Context, caseID string, now time.Time) (*models.Hearing, error)
	RecentForCase(ctx context.Context, caseID string, limit int) ([]models.Hearing, error)
	CountPending(ctx context.Context, from, to time.Time) (int64, error)
	DueReminders(ctx context.Context, from, to time.Time) ([]models.Hearing, error)
	MarkReminderSent(ctx context.Context, id string) error
}

type hearingRepository struct {
	db *gorm.DB
}

func (r *hearingRepository) Create(ctx context.Context, hearing *models.Hearing) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(hearing).Error
}

func (r *hearingRepository) FindByID(ctx context.Context, id string) (*models.Hearing, error) {
	var hearing models.Hearing
	err := r.db.WithContext(ctx).
		Preload("Case").
		Preload("Tribunal").
		Preload("Judge").
		First(&hearing, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &hearing, nil
}

func (r *hearingRepository) Save(ctx context.Context, hearing *models.Hearing) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(hearing).Error
}

func (r *hearingRepository) Delete(ctx context.Context, id string) error {
	return noRows(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Hearing{}))
}

func pendingHearings(db *gorm.DB) *gorm.DB {
	return db.Where("hearings.status IN ?", models.PendingHearingStatuses)
}

func chronological(db *gorm.DB) *gorm.DB {
	return db.Order("hearings.date ASC").Order("hearings.time ASC")
}

func (r *hearingRepository) List(ctx context.Context, filter HearingFilter, page Page) ([]models.Hearing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Hearing{})

	if filter.CaseID != "" {
		query = query.Where("hearings.case_id = ?", filter.CaseID)
	}
	if filter.TribunalID != "" {
		query = query.Where("hearings.tribunal_id = ?", filter.TribunalID)
	}
	if filter.UpcomingFrom != nil {
		query = query.Scopes(pendingHearings).Where("hearings.scheduled_at >= ?", *filter.UpcomingFrom)
	} else if filter.Status != "" {
		query = query.Where("hearings.status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("hearings.scheduled_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("hearings.scheduled_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var hearings []models.Hearing
	err := query.
		Preload("Case").
		Preload("Tribunal").
		Preload("Judge").
		Scopes(chronological, page.scope).
		Find(&hearings).Error
	return hearings, total, err
}

func (r *hearingRepository) Upcoming(ctx context.Context, now time.Time, limit int) ([]models.Hearing, error) {
	var hearings []models.Hearing
	err := r.db.WithContext(ctx).
		Scopes(pendingHearings, chronological).
		Where("hearings.scheduled_at >= ?", now).
		Preload("Case").
		Preload("Tribunal").
		Limit(limit).
		Find(&hearings).Error
	return hearings, err
}

// NextForCase returns nil without error when the case has nothing scheduled.
func (r *hearingRepository) NextForCase(ctx context.Context, caseID string, now time.Time) (*models.Hearing, error) {
	var hearings []models.Hearing
	err := r.db.WithContext(ctx).
		Scopes(pendingHearings, chronological).
		Where("hearings.case_id = ? AND hearings.scheduled_at >= ?", caseID, now).
		Preload("Tribunal").
		Limit(1).
		Find(&hearings).Error
	if err != nil || len(hearings) == 0 {
		return nil, err
	}
	return &hearings[0], nil
}

func (r *hearingRepository) RecentForCase(ctx context.Context, caseID string, limit int) ([]models.Hearing, error) {
	var hearings []models.Hearing
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Preload("Tribunal").
		Order("date DESC").
		Order("time DESC").
		Limit(limit).
		Find(&hearings).Error
	return hearings, err
}

func (r *hearingRepository) CountPending(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Hearing{}).
		Scopes(pendingHearings).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *hearingRepository) DueReminders(ctx context.Context, from, to time.Time) ([]models.Hearing, error) {
	var hearings []models.Hearing
	err := r.db.WithContext(ctx).
		Scopes(pendingHearings, chronological).
		Where("reminder = ? AND reminder_sent = ?", true, false).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Preload("Case").
		Preload("Case.Lawyer").
		Preload("Tribunal").
		Find(&hearings).Error
	return hearings, err
}

func (r *hearingRepository) MarkReminderSent(ctx context.Context, id string) error {
	return noRows(r.db.WithContext(ctx).Model(&models.Hearing{}).Where("id = ?", id).UpdateColumn("reminder_sent", true))
}
