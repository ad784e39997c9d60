package services

import (
	"context"
	"fmt"
	"time"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
)

// HearingInput carries create and update fields; nil means "not provided".
type HearingInput struct {
	CaseID      *string `json:"caseId"`
	TribunalID  *string `json:"tribunalId"`
	JudgeID     *string `json:"judgeId"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	EndTime     *string `json:"endTime"`
	Type        *string `json:"type"`
	Status      *string `json:"status"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
	Result      *string `json:"result"`
	Reminder    *bool   `json:"reminder"`
}

// CalendarDay groups the hearings of one date.
type CalendarDay struct {
	Date     string           `json:"date"`
	Hearings []models.Hearing `json:"hearings"`
}

type HearingService struct {
	clock
	repos *repositories.Repositories
}

func NewHearingService(repos *repositories.Repositories) *HearingService {
	return &HearingService{repos: repos}
}

func (s *HearingService) List(ctx context.Context, filter repositories.HearingFilter, page repositories.Page) ([]models.Hearing, int64, error) {
	return s.repos.Hearings.List(ctx, filter, page)
}

// Upcoming lists pending hearings from now on, soonest first.
func (s *HearingService) Upcoming(ctx context.Context, limit int) ([]models.Hearing, error) {
	return s.repos.Hearings.Upcoming(ctx, s.now(), limit)
}

// Calendar returns the hearings of a month grouped by day, in date order.
func (s *HearingService) Calendar(ctx context.Context, year int, month time.Month) ([]CalendarDay, error) {
	if month < time.January || month > time.December {
		return nil, Validation("month must be between 1 and 12")
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	hearings, _, err := s.repos.Hearings.List(ctx, repositories.HearingFilter{From: &from, To: &to}, repositories.Page{})
	if err != nil {
		return nil, err
	}

	days := []CalendarDay{}
	for _, h := range hearings {
		if n := len(days); n > 0 && days[n-1].Date == h.Date {
			days[n-1].Hearings = append(days[n-1].Hearings, h)
			continue
		}
		days = append(days, CalendarDay{Date: h.Date, Hearings: []models.Hearing{h}})
	}
	return days, nil
}

func (s *HearingService) Get(ctx context.Context, id string) (*models.Hearing, error) {
	h, err := s.repos.Hearings.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Hearing")
	}
	return h, nil
}

// Create schedules a hearing and refreshes the case's next hearing date.
func (s *HearingService) Create(ctx context.Context, actor Actor, input HearingInput) (*models.Hearing, error) {
	if input.CaseID == nil || *input.CaseID == "" {
		return nil, Validation("caseId is required")
	}
	if input.Date == nil || input.Time == nil {
		return nil, Validation("date and time are required")
	}

	c, err := s.repos.Cases.FindByID(ctx, *input.CaseID)
	if err != nil {
		return nil, notFoundAs(err, "Case")
	}

	h := &models.Hearing{
		CaseID:     c.ID,
		TribunalID: c.TribunalID,
		JudgeID:    c.JudgeID,
		Type:       models.HearingTypeOther,
		Status:     models.HearingStatusScheduled,
		Reminder:   true,
	}
	if err := s.apply(ctx, h, input); err != nil {
		return nil, err
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Hearings.Create(ctx, h); err != nil {
			return err
		}
		if err := s.refreshNextHearing(ctx, tx, h.CaseID); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actor, activityEntry{
			Type:        models.ActivityHearingScheduled,
			EntityType:  "hearing",
			EntityID:    h.ID,
			Description: fmt.Sprintf("%s scheduled for %s on %s at %s", h.Type, c.CaseNumber, h.Date, h.Time),
			Metadata:    map[string]interface{}{"caseId": c.ID, "date": h.Date, "time": h.Time},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, h.ID)
}

// Update changes a hearing. Completing it is logged as hearing_completed.
func (s *HearingService) Update(ctx context.Context, actor Actor, id string, input HearingInput) (*models.Hearing, error) {
	h, err := s.repos.Hearings.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Hearing")
	}
	previousCaseID, previousStatus := h.CaseID, h.Status

	if input.CaseID != nil && *input.CaseID != h.CaseID {
		if _, err := s.repos.Cases.FindByID(ctx, *input.CaseID); err != nil {
			return nil, notFoundAs(err, "Case")
		}
		h.CaseID = *input.CaseID
	}
	if err := s.apply(ctx, h, input); err != nil {
		return nil, err
	}
	completed := h.Status == models.HearingStatusCompleted && previousStatus != models.HearingStatusCompleted

	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Hearings.Save(ctx, h); err != nil {
			return err
		}
		if err := s.refreshNextHearing(ctx, tx, h.CaseID); err != nil {
			return err
		}
		if previousCaseID != h.CaseID {
			if err := s.refreshNextHearing(ctx, tx, previousCaseID); err != nil {
				return err
			}
		}
		if !completed {
			return nil
		}
		return recordActivity(ctx, tx, actor, activityEntry{
			Type:        models.ActivityHearingCompleted,
			EntityType:  "hearing",
			EntityID:    h.ID,
			Description: fmt.Sprintf("%s completed on %s", h.Type, h.Date),
			Metadata:    map[string]interface{}{"caseId": h.CaseID},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *HearingService) Delete(ctx context.Context, actor Actor, id string) error {
	h, err := s.repos.Hearings.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Hearing")
	}
	return s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Hearings.Delete(ctx, id); err != nil {
			return err
		}
		return s.refreshNextHearing(ctx, tx, h.CaseID)
	})
}

// refreshNextHearing stores the earliest pending future hearing of the case,
// or clears the date when nothing is scheduled.
func (s *HearingService) refreshNextHearing(ctx context.Context, tx *repositories.Repositories, caseID string) error {
	next, err := tx.Hearings.NextForCase(ctx, caseID, s.now())
	if err != nil {
		return err
	}
	if next == nil {
		return tx.Cases.SetNextHearingDate(ctx, caseID, nil)
	}
	at := next.ScheduledAt
	return tx.Cases.SetNextHearingDate(ctx, caseID, &at)
}

func (s *HearingService) apply(ctx context.Context, h *models.Hearing, input HearingInput) error {
	if input.TribunalID != nil {
		if *input.TribunalID == "" {
			h.TribunalID = nil
		} else {
			if _, err := s.repos.Tribunals.FindByID(ctx, *input.TribunalID); err != nil {
				return notFoundAs(err, "Tribunal")
			}
			h.TribunalID = input.TribunalID
		}
	}
	if input.JudgeID != nil {
		if *input.JudgeID == "" {
			h.JudgeID = nil
		} else {
			if _, err := s.repos.Judges.FindByID(ctx, *input.JudgeID); err != nil {
				return notFoundAs(err, "Judge")
			}
			h.JudgeID = input.JudgeID
		}
	}
	if input.Date != nil {
		if !models.IsValidDate(*input.Date) {
			return Validation("date must be YYYY-MM-DD")
		}
		h.Date = *input.Date
	}
	if input.Time != nil {
		if _, err := time.Parse(models.TimeLayout, truncateClock(*input.Time)); err != nil {
			return Validation("time must be HH:MM")
		}
		h.Time = truncateClock(*input.Time)
	}
	if input.EndTime != nil {
		h.EndTime = trimOptional(input.EndTime)
	}
	if input.Type != nil {
		if !models.IsValidHearingType(*input.Type) {
			return Validation("invalid hearing type: " + *input.Type)
		}
		h.Type = *input.Type
	}
	if input.Status != nil {
		if !models.IsValidHearingStatus(*input.Status) {
			return Validation("invalid hearing status: " + *input.Status)
		}
		h.Status = *input.Status
	}
	if input.Location != nil {
		h.Location = sanitizeOptional(input.Location)
	}
	if input.Description != nil {
		h.Description = sanitizeOptional(input.Description)
	}
	if input.Notes != nil {
		h.Notes = sanitizeOptional(input.Notes)
	}
	if input.Result != nil {
		h.Result = sanitizeOptional(input.Result)
	}
	if input.Reminder != nil {
		if *input.Reminder != h.Reminder {
			h.ReminderSent = false
		}
		h.Reminder = *input.Reminder
	}
	if input.Date != nil || input.Time != nil {
		h.ReminderSent = false
	}
	return nil
}

// truncateClock accepts HH:MM and HH:MM:SS.
func truncateClock(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}
