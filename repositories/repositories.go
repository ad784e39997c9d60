// Package repositories holds the persistence layer: one interface per
// entity backed by GORM, plus a transaction helper that hands services a
// set of repositories bound to the same database transaction.
package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Repositories groups every entity repository over one connection or transaction.
type Repositories struct {
	db *gorm.DB

	Users         UserRepository
	Lawyers       LawyerRepository
	Clients       ClientRepository
	Tribunals     TribunalRepository
	Judges        JudgeRepository
	Cases         CaseRepository
	CaseSequences CaseSequenceRepository
	TimeEntries   TimeEntryRepository
	Hearings      HearingRepository
	Documents     DocumentRepository
	Activities    ActivityRepository
}

// New wires the GORM-backed repositories to db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         &userRepository{db: db},
		Lawyers:       &lawyerRepository{db: db},
		Clients:       &clientRepository{db: db},
		Tribunals:     &tribunalRepository{db: db},
		Judges:        &judgeRepository{db: db},
		Cases:         &caseRepository{db: db},
		CaseSequences: &caseSequenceRepository{db: db},
		TimeEntries:   &timeEntryRepository{db: db},
		Hearings:      &hearingRepository{db: db},
		Documents:     &documentRepository{db: db},
		Activities:    &activityRepository{db: db},
	}
}

// DB exposes the underlying handle.
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

// Transaction runs fn with repositories bound to a single transaction.
// Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Page is a 1-based page request. A zero Limit disables paging.
type Page struct {
	Page  int
	Limit int
}

// NewPage normalizes user supplied paging values.
func NewPage(page, limit, defaultLimit, maxLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Page{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Pages returns how many pages hold total rows.
func (p Page) Pages(total int64) int {
	if p.Limit <= 0 {
		return 1
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return db
	}
	return db.Offset(p.Offset()).Limit(p.Limit)
}

// Sort is a requested ordering; Field is checked against a per-entity allow-list.
type Sort struct {
	Field string
	Desc  bool
}

func (s Sort) clause(allowed map[string]string, fallback string) string {
	column, ok := allowed[s.Field]
	if !ok {
		return fallback
	}
	if s.Desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// GroupCount is a row of a GROUP BY count.
type GroupCount struct {
	Key   string `gorm:"column:group_key" json:"key"`
	Count int64  `gorm:"column:group_count" json:"count"`
}

func likePattern(search string) string {
	return "%" + strings.TrimSpace(search) + "%"
}

// noRows converts a zero-row update into gorm.ErrRecordNotFound.
func noRows(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
