package services

import (
	"context"
	"fmt"
	"strings"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
)

// TimeEntryInput carries create and update fields; nil means "not provided".
type TimeEntryInput struct {
	CaseID       *string  `json:"caseId"`
	LawyerID     *string  `json:"lawyerId"`
	Date         *string  `json:"date"`
	StartTime    *string  `json:"startTime"`
	EndTime      *string  `json:"endTime"`
	Hours        *float64 `json:"hours"`
	Description  *string  `json:"description"`
	ActivityType *string  `json:"activityType"`
	IsBillable   *bool    `json:"isBillable"`
	HourlyRate   *float64 `json:"hourlyRate"`
}

// TimeEntryService owns the time entry lifecycle and keeps each case's
// billed_hours equal to the sum of its billable entry hours. Every change to
// that counter is an in-store increment executed in the same transaction as
// the entry mutation.
type TimeEntryService struct {
	clock
	repos *repositories.Repositories
}

func NewTimeEntryService(repos *repositories.Repositories) *TimeEntryService {
	return &TimeEntryService{repos: repos}
}

func (s *TimeEntryService) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	entry, err := s.repos.TimeEntries.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Time entry")
	}
	return entry, nil
}

// List returns one page of entries plus totals over the whole filtered set.
func (s *TimeEntryService) List(ctx context.Context, filter repositories.TimeEntryFilter, page repositories.Page, sort repositories.Sort) ([]models.TimeEntry, int64, repositories.TimeEntryTotals, error) {
	entries, total, err := s.repos.TimeEntries.List(ctx, filter, page, sort)
	if err != nil {
		return nil, 0, repositories.TimeEntryTotals{}, err
	}
	totals, err := s.repos.TimeEntries.Totals(ctx, filter)
	if err != nil {
		return nil, 0, repositories.TimeEntryTotals{}, err
	}
	totals.TotalHours = round2(totals.TotalHours)
	totals.BillableHours = round2(totals.BillableHours)
	totals.TotalAmount = models.RoundMoney(totals.TotalAmount)
	return entries, total, totals, nil
}

func (s *TimeEntryService) MonthlySummary(ctx context.Context, year int, lawyerID string) ([]repositories.MonthHours, error) {
	if year == 0 {
		year = s.now().Year()
	}
	return s.repos.TimeEntries.MonthlySummary(ctx, year, lawyerID)
}

// Create logs hours on a case. The rate defaults to the lawyer's rate and a
// billable entry adds its hours to the case.
func (s *TimeEntryService) Create(ctx context.Context, actor Actor, input TimeEntryInput) (*models.TimeEntry, error) {
	if input.CaseID == nil || *input.CaseID == "" {
		return nil, Validation("caseId is required")
	}
	if input.LawyerID == nil || *input.LawyerID == "" {
		return nil, Validation("lawyerId is required")
	}
	if input.Hours == nil {
		return nil, Validation("hours is required")
	}
	if input.Description == nil || strings.TrimSpace(*input.Description) == "" {
		return nil, Validation("description is required")
	}

	c, err := s.repos.Cases.FindByID(ctx, *input.CaseID)
	if err != nil {
		return nil, notFoundAs(err, "Case")
	}
	lawyer, err := s.repos.Lawyers.FindByID(ctx, *input.LawyerID)
	if err != nil {
		return nil, notFoundAs(err, "Lawyer")
	}

	entry := &models.TimeEntry{
		CaseID:       c.ID,
		LawyerID:     lawyer.ID,
		Date:         s.today(),
		ActivityType: models.WorkTypeOther,
		IsBillable:   true,
		HourlyRate:   lawyer.HourlyRate,
		Status:       models.TimeEntryStatusPending,
		CreatedBy:    actor.userID(),
	}
	if err := applyTimeEntryInput(entry, input); err != nil {
		return nil, err
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.TimeEntries.Create(ctx, entry); err != nil {
			return err
		}
		if hours := entry.BillableHours(); hours != 0 {
			if err := tx.Cases.AdjustBilledHours(ctx, entry.CaseID, hours); err != nil {
				return err
			}
		}
		return recordActivity(ctx, tx, actor, activityEntry{
			Type:        models.ActivityTimeEntryAdded,
			EntityType:  "time_entry",
			EntityID:    entry.ID,
			Description: fmt.Sprintf("%.2fh logged on %s by %s", entry.Hours, c.CaseNumber, lawyer.Name),
			Metadata: map[string]interface{}{
				"caseId":     c.ID,
				"hours":      entry.Hours,
				"isBillable": entry.IsBillable,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, entry.ID)
}

// Update edits an entry that is not invoiced. The previous billable
// contribution is reversed and the new one applied atomically.
func (s *TimeEntryService) Update(ctx context.Context, actor Actor, id string, input TimeEntryInput) (*models.TimeEntry, error) {
	err := s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		entry, err := lockedEntry(ctx, tx, id)
		if err != nil {
			return err
		}
		oldCaseID, oldHours := entry.CaseID, entry.BillableHours()

		if input.CaseID != nil && *input.CaseID != entry.CaseID {
			if _, err := tx.Cases.FindByID(ctx, *input.CaseID); err != nil {
				return notFoundAs(err, "Case")
			}
			entry.CaseID = *input.CaseID
		}
		if input.LawyerID != nil && *input.LawyerID != entry.LawyerID {
			if _, err := tx.Lawyers.FindByID(ctx, *input.LawyerID); err != nil {
				return notFoundAs(err, "Lawyer")
			}
			entry.LawyerID = *input.LawyerID
		}
		if err := applyTimeEntryInput(entry, input); err != nil {
			return err
		}
		if err := tx.TimeEntries.Save(ctx, entry); err != nil {
			return err
		}

		newHours := entry.BillableHours()
		if oldCaseID != entry.CaseID {
			if err := adjustHours(ctx, tx, oldCaseID, -oldHours); err != nil {
				return err
			}
			return adjustHours(ctx, tx, entry.CaseID, newHours)
		}
		return adjustHours(ctx, tx, entry.CaseID, newHours-oldHours)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an entry that is not invoiced and takes its billable hours
// back off the case.
func (s *TimeEntryService) Delete(ctx context.Context, actor Actor, id string) error {
	return s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		entry, err := lockedEntry(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.TimeEntries.Delete(ctx, id); err != nil {
			return err
		}
		return adjustHours(ctx, tx, entry.CaseID, -entry.BillableHours())
	})
}

// Approve marks an entry Aprobado and records who approved it.
func (s *TimeEntryService) Approve(ctx context.Context, actor Actor, id string) (*models.TimeEntry, error) {
	return s.transition(ctx, id, func(tx *repositories.Repositories, entry *models.TimeEntry) error {
		now := s.now()
		entry.Status = models.TimeEntryStatusApproved
		entry.ApprovedBy = actor.userID()
		entry.ApprovedAt = &now
		return nil
	})
}

// Reject marks an entry Rechazado. Its hours stay on the case as long as the
// entry is billable.
func (s *TimeEntryService) Reject(ctx context.Context, actor Actor, id string) (*models.TimeEntry, error) {
	return s.transition(ctx, id, func(tx *repositories.Repositories, entry *models.TimeEntry) error {
		entry.Status = models.TimeEntryStatusRejected
		return nil
	})
}

// Invoice moves an approved entry to Facturado, locking it, and adds its
// amount to the case's billed amount.
func (s *TimeEntryService) Invoice(ctx context.Context, actor Actor, id string) (*models.TimeEntry, error) {
	return s.transition(ctx, id, func(tx *repositories.Repositories, entry *models.TimeEntry) error {
		if entry.Status != models.TimeEntryStatusApproved {
			return Conflict("only approved time entries can be invoiced")
		}
		now := s.now()
		entry.Status = models.TimeEntryStatusInvoiced
		entry.InvoicedAt = &now
		if !entry.IsBillable || entry.TotalAmount == 0 {
			return nil
		}
		return tx.Cases.AdjustBilledAmount(ctx, entry.CaseID, entry.TotalAmount)
	})
}

func (s *TimeEntryService) transition(ctx context.Context, id string, change func(tx *repositories.Repositories, entry *models.TimeEntry) error) (*models.TimeEntry, error) {
	err := s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		entry, err := lockedEntry(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := change(tx, entry); err != nil {
			return err
		}
		return tx.TimeEntries.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// lockedEntry re-reads the entry inside tx and refuses invoiced ones.
func lockedEntry(ctx context.Context, tx *repositories.Repositories, id string) (*models.TimeEntry, error) {
	entry, err := tx.TimeEntries.FindForUpdate(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Time entry")
	}
	if entry.IsLocked() {
		return nil, &AppError{Kind: ErrConflict, Message: "invoiced time entries cannot be modified", Err: models.ErrTimeEntryLocked}
	}
	return entry, nil
}

func adjustHours(ctx context.Context, tx *repositories.Repositories, caseID string, delta float64) error {
	if delta == 0 {
		return nil
	}
	return tx.Cases.AdjustBilledHours(ctx, caseID, delta)
}

func applyTimeEntryInput(entry *models.TimeEntry, input TimeEntryInput) error {
	if input.Hours != nil {
		// Stored hours and the case counter share two-decimal precision.
		hours := round2(*input.Hours)
		if hours <= 0 || hours > models.MaxEntryHours {
			return Validation(fmt.Sprintf("hours must be greater than 0 and at most %.2f", models.MaxEntryHours))
		}
		entry.Hours = hours
	}
	if input.Date != nil {
		if !models.IsValidDate(*input.Date) {
			return Validation("date must be YYYY-MM-DD")
		}
		entry.Date = *input.Date
	}
	if input.StartTime != nil {
		entry.StartTime = trimOptional(input.StartTime)
	}
	if input.EndTime != nil {
		entry.EndTime = trimOptional(input.EndTime)
	}
	if input.Description != nil {
		description := SanitizeText(*input.Description)
		if description == "" {
			return Validation("description cannot be empty")
		}
		entry.Description = description
	}
	if input.ActivityType != nil {
		if !models.IsValidWorkType(*input.ActivityType) {
			return Validation("invalid activityType: " + *input.ActivityType)
		}
		entry.ActivityType = *input.ActivityType
	}
	if input.IsBillable != nil {
		entry.IsBillable = *input.IsBillable
	}
	if input.HourlyRate != nil {
		if *input.HourlyRate < 0 {
			return Validation("hourlyRate cannot be negative")
		}
		entry.HourlyRate = *input.HourlyRate
	}
	entry.TotalAmount = models.RoundMoney(entry.Hours * entry.HourlyRate)
	return nil
}
