package repositories

import (
	"context"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaseSequenceRepository interface {
	// Ensure creates the counter for year at lastValue unless it already exists.
	Ensure(ctx context.Context, year, lastValue int) error
	// Next atomically increments the counter of year and returns the new value.
	Next(ctx context.Context, year int) (int, error)
	// Raise moves the counter of year up to at least value.
	Raise(ctx context.Context, year, value int) error
	Exists(ctx context.Context, year int) (bool, error)
}

type caseSequenceRepository struct {
	db *gorm.DB
}

func (r *caseSequenceRepository) Ensure(ctx context.Context, year, lastValue int) error {
	seq := models.CaseSequence{Year: year, LastValue: lastValue}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error
}

func (r *caseSequenceRepository) Next(ctx context.Context, year int) (int, error) {
	res := r.db.WithContext(ctx).Model(&models.CaseSequence{}).Where("year = ?", year).
		UpdateColumn("last_value", gorm.Expr("last_value + 1"))
	if err := noRows(res); err != nil {
		return 0, err
	}

	var seq models.CaseSequence
	if err := r.db.WithContext(ctx).First(&seq, "year = ?", year).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

func (r *caseSequenceRepository) Raise(ctx context.Context, year, value int) error {
	return r.db.WithContext(ctx).Model(&models.CaseSequence{}).
		Where("year = ? AND last_value < ?", year, value).
		UpdateColumn("last_value", value).Error
}

func (r *caseSequenceRepository) Exists(ctx context.Context, year int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CaseSequence{}).Where("year = ?", year).Count(&n).Error
	return n > 0, err
}
