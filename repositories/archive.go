package repositories

import (
	"context"
	"time"

	"lexfirm_api_go/models"

	"gorm.io/gorm"
)

// archiveOrDelete hides the record when something still references it and
// removes it otherwise. It reports whether the record was archived.
func archiveOrDelete(ctx context.Context, db *gorm.DB, record models.Archivable, id string, dependents int64, by *string) (bool, error) {
	if dependents > 0 {
		res := db.WithContext(ctx).Model(record).Where("id = ?", id).Updates(record.ArchiveUpdates(time.Now(), by))
		return true, noRows(res)
	}
	res := db.WithContext(ctx).Where("id = ?", id).Delete(record)
	return false, noRows(res)
}

// visibility returns the record's visibility scope unless archived rows are wanted.
func visibility(record models.Archivable, includeArchived bool) func(*gorm.DB) *gorm.DB {
	if includeArchived {
		return func(db *gorm.DB) *gorm.DB { return db }
	}
	return record.VisibleScope
}

// Reference is one foreign key column pointing at an archivable row.
type Reference struct {
	Table  string
	Column string
}

// CountReferences sums the rows of every reference that point at id.
func (r *Repositories) CountReferences(ctx context.Context, id string, refs ...Reference) (int64, error) {
	var total int64
	for _, ref := range refs {
		var n int64
		if err := r.db.WithContext(ctx).Table(ref.Table).Where(ref.Column+" = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
