package models

import (
	"time"

	"gorm.io/gorm"
)

// Archivable is implemented by records that are hidden instead of removed
// while other rows still point at them.
type Archivable interface {
	// ArchiveUpdates returns the column values that hide the record.
	ArchiveUpdates(at time.Time, by *string) map[string]interface{}
	// VisibleScope restricts a query to records that are not archived.
	VisibleScope(db *gorm.DB) *gorm.DB
}

// activeFlagScope is shared by the reference entities that use an is_active column.
func activeFlagScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Lawyer{},
		&Client{},
		&Tribunal{},
		&Judge{},
		&Case{},
		&CaseSequence{},
		&TimeEntry{},
		&Hearing{},
		&Document{},
		&Activity{},
	}
}
