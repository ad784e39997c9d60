package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CaseInput carries create and update fields; nil means "not provided".
type CaseInput struct {
	Name           *string  `json:"name"`
	ExternalNumber *string  `json:"externalNumber"`
	Description    *string  `json:"description"`
	ClientID       *string  `json:"clientId"`
	LawyerID       *string  `json:"lawyerId"`
	TribunalID     *string  `json:"tribunalId"`
	JudgeID        *string  `json:"judgeId"`
	Category       *string  `json:"category"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	StartDate      *string  `json:"startDate"`
	EndDate        *string  `json:"endDate"`
	EstimatedHours *float64 `json:"estimatedHours"`
	EstimatedValue *float64 `json:"estimatedValue"`
	Notes          *string  `json:"notes"`
	Tags           *string  `json:"tags"`
}

// CaseOverview is the firm-wide case breakdown.
type CaseOverview struct {
	Totals struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
		Closed int64 `json:"closed"`
	} `json:"totals"`
	ByCategory []CategoryCount                `json:"byCategory"`
	ByStatus   []repositories.GroupCount      `json:"byStatus"`
	ByLawyer   []repositories.LawyerCaseCount `json:"byLawyer"`
}

type CaseService struct {
	clock
	repos *repositories.Repositories
}

func NewCaseService(repos *repositories.Repositories) *CaseService {
	return &CaseService{repos: repos}
}

func (s *CaseService) List(ctx context.Context, filter repositories.CaseFilter, page repositories.Page, sort repositories.Sort) ([]models.Case, int64, error) {
	return s.repos.Cases.List(ctx, filter, page, sort)
}

// Get loads a case with its 10 latest hearings, its 10 latest visible
// documents, hour totals and the next pending hearing.
func (s *CaseService) Get(ctx context.Context, id string, viewer repositories.DocumentViewer) (*CaseDetail, error) {
	c, err := s.repos.Cases.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Case")
	}

	if c.Hearings, err = s.repos.Hearings.RecentForCase(ctx, id, 10); err != nil {
		return nil, err
	}
	if c.Documents, err = s.repos.Documents.RecentForCase(ctx, id, viewer, 10); err != nil {
		return nil, err
	}

	totals, err := s.repos.TimeEntries.Totals(ctx, repositories.TimeEntryFilter{CaseID: id})
	if err != nil {
		return nil, err
	}

	next, err := s.repos.Hearings.NextForCase(ctx, id, s.now())
	if err != nil {
		return nil, err
	}

	return &CaseDetail{
		Case:        c,
		Stats:       computeCaseStats(c, totals.TotalHours, totals.BillableHours, totals.TotalAmount),
		NextHearing: next,
	}, nil
}

// Create validates the references, reserves a case number and stores the
// case together with its case_created activity.
func (s *CaseService) Create(ctx context.Context, actor Actor, input CaseInput) (*models.Case, error) {
	c := &models.Case{
		Category:       models.CaseCategoryCivil,
		Status:         models.CaseStatusActive,
		Priority:       models.PriorityMedium,
		StartDate:      s.today(),
		EstimatedHours: 100,
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name is required")
	}
	if input.ClientID == nil || *input.ClientID == "" {
		return nil, Validation("clientId is required")
	}
	if input.LawyerID == nil || *input.LawyerID == "" {
		return nil, Validation("lawyerId is required")
	}
	if err := s.apply(ctx, c, input); err != nil {
		return nil, err
	}

	year := s.now().Year()
	var err error
	for attempt := 1; attempt <= maxCaseNumberAttempts; attempt++ {
		err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
			number, err := NextCaseNumber(ctx, tx, year)
			if err != nil {
				return err
			}
			c.CaseNumber = number
			if err := tx.Cases.Create(ctx, c); err != nil {
				return err
			}
			return recordActivity(ctx, tx, actor, activityEntry{
				Type:        models.ActivityCaseCreated,
				EntityType:  "case",
				EntityID:    c.ID,
				Description: fmt.Sprintf("New case created: %s - %s", c.CaseNumber, c.Name),
				Metadata:    map[string]interface{}{"caseNumber": c.CaseNumber},
			})
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		zap.S().Warnw("case number collision, resyncing sequence", "year", year, "number", c.CaseNumber, "attempt", attempt)
		if syncErr := resyncCaseSequence(ctx, s.repos, year); syncErr != nil {
			return nil, syncErr
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict(fmt.Sprintf("could not reserve a case number after %d attempts", maxCaseNumberAttempts))
		}
		return nil, err
	}

	return s.repos.Cases.FindByID(ctx, c.ID)
}

// Update changes case fields. Moving a case to Cerrado stamps its end date
// and is logged as case_closed.
func (s *CaseService) Update(ctx context.Context, actor Actor, id string, input CaseInput) (*models.Case, error) {
	c, err := s.repos.Cases.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Case")
	}
	previousStatus := c.Status

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name cannot be empty")
	}
	if err := s.apply(ctx, c, input); err != nil {
		return nil, err
	}

	closing := c.Status == models.CaseStatusClosed && previousStatus != models.CaseStatusClosed
	if closing && c.EndDate == nil {
		today := s.today()
		c.EndDate = &today
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Cases.Update(ctx, c); err != nil {
			return err
		}

		entry := activityEntry{
			Type:        models.ActivityCaseUpdated,
			EntityType:  "case",
			EntityID:    c.ID,
			Description: fmt.Sprintf("Case updated: %s", c.CaseNumber),
		}
		if closing {
			entry.Type = models.ActivityCaseClosed
			entry.Description = fmt.Sprintf("Case closed: %s - %s", c.CaseNumber, c.Name)
		}
		if previousStatus != c.Status {
			entry.Metadata = map[string]interface{}{"from": previousStatus, "to": c.Status}
		}
		return recordActivity(ctx, tx, actor, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.repos.Cases.FindByID(ctx, id)
}

// Archive hides a case from active work; cases are never removed.
func (s *CaseService) Archive(ctx context.Context, actor Actor, id string) error {
	c, err := s.repos.Cases.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Case")
	}

	return s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Cases.SetStatus(ctx, id, models.CaseStatusArchived); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actor, activityEntry{
			Type:        models.ActivityCaseUpdated,
			EntityType:  "case",
			EntityID:    id,
			Description: fmt.Sprintf("Case archived: %s", c.CaseNumber),
			Metadata:    map[string]interface{}{"from": c.Status, "to": models.CaseStatusArchived},
		})
	})
}

// Overview counts cases by status, category and lawyer.
func (s *CaseService) Overview(ctx context.Context) (*CaseOverview, error) {
	var overview CaseOverview
	var err error

	if overview.Totals.Total, err = s.repos.Cases.Count(ctx, repositories.CaseFilter{}); err != nil {
		return nil, err
	}
	if overview.Totals.Active, err = s.repos.Cases.Count(ctx, repositories.CaseFilter{Statuses: models.ActiveCaseStatuses}); err != nil {
		return nil, err
	}
	if overview.Totals.Closed, err = s.repos.Cases.Count(ctx, repositories.CaseFilter{Status: models.CaseStatusClosed}); err != nil {
		return nil, err
	}

	byCategory, err := s.repos.Cases.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	overview.ByCategory = categoryCounts(byCategory)

	if overview.ByStatus, err = s.repos.Cases.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if overview.ByLawyer, err = s.repos.Cases.CountByLawyer(ctx); err != nil {
		return nil, err
	}
	return &overview, nil
}

// apply copies provided fields onto c after validating them.
func (s *CaseService) apply(ctx context.Context, c *models.Case, input CaseInput) error {
	if input.Name != nil {
		c.Name = SanitizeText(*input.Name)
	}
	if input.ExternalNumber != nil {
		c.ExternalNumber = trimOptional(input.ExternalNumber)
	}
	if input.Description != nil {
		c.Description = sanitizeOptional(input.Description)
	}
	if input.Notes != nil {
		c.Notes = sanitizeOptional(input.Notes)
	}
	if input.Tags != nil {
		c.Tags = trimOptional(input.Tags)
	}

	if input.ClientID != nil {
		client, err := s.repos.Clients.FindByID(ctx, *input.ClientID)
		if err != nil {
			return notFoundAs(err, "Client")
		}
		if !client.IsActive && client.ID != c.ClientID {
			return Validation("client is inactive")
		}
		c.ClientID = client.ID
	}
	if input.LawyerID != nil {
		lawyer, err := s.repos.Lawyers.FindByID(ctx, *input.LawyerID)
		if err != nil {
			return notFoundAs(err, "Lawyer")
		}
		if !lawyer.IsActive && lawyer.ID != c.LawyerID {
			return Validation("lawyer is inactive")
		}
		c.LawyerID = lawyer.ID
	}
	if input.TribunalID != nil {
		if *input.TribunalID == "" {
			c.TribunalID = nil
		} else {
			if _, err := s.repos.Tribunals.FindByID(ctx, *input.TribunalID); err != nil {
				return notFoundAs(err, "Tribunal")
			}
			c.TribunalID = input.TribunalID
		}
	}
	if input.JudgeID != nil {
		if *input.JudgeID == "" {
			c.JudgeID = nil
		} else {
			if _, err := s.repos.Judges.FindByID(ctx, *input.JudgeID); err != nil {
				return notFoundAs(err, "Judge")
			}
			c.JudgeID = input.JudgeID
		}
	}

	if input.Category != nil {
		if !models.IsValidCaseCategory(*input.Category) {
			return Validation("invalid category: " + *input.Category)
		}
		c.Category = *input.Category
	}
	if input.Status != nil {
		if !models.IsValidCaseStatus(*input.Status) {
			return Validation("invalid status: " + *input.Status)
		}
		c.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.IsValidPriority(*input.Priority) {
			return Validation("invalid priority: " + *input.Priority)
		}
		c.Priority = *input.Priority
	}
	if input.StartDate != nil {
		if !models.IsValidDate(*input.StartDate) {
			return Validation("startDate must be YYYY-MM-DD")
		}
		c.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		if *input.EndDate == "" {
			c.EndDate = nil
		} else {
			if !models.IsValidDate(*input.EndDate) {
				return Validation("endDate must be YYYY-MM-DD")
			}
			c.EndDate = input.EndDate
		}
	}
	if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return Validation("estimatedHours cannot be negative")
		}
		c.EstimatedHours = *input.EstimatedHours
	}
	if input.EstimatedValue != nil {
		if *input.EstimatedValue < 0 {
			return Validation("estimatedValue cannot be negative")
		}
		c.EstimatedValue = *input.EstimatedValue
	}
	return nil
}
