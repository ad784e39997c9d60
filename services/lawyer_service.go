package services

import (
	"context"
	"fmt"
	"strings"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
)

// LawyerInput carries create and update fields; nil means "not provided".
type LawyerInput struct {
	UserID     *string  `json:"userId"`
	Name       *string  `json:"name"`
	Title      *string  `json:"title"`
	Specialty  *string  `json:"specialty"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	Avatar     *string  `json:"avatar"`
	Status     *string  `json:"status"`
	HourlyRate *float64 `json:"hourlyRate"`
	Bio        *string  `json:"bio"`
	HireDate   *string  `json:"hireDate"`
}

// LawyerSummary is a lawyer with their current workload.
type LawyerSummary struct {
	models.Lawyer
	CaseCount    int64   `json:"caseCount"`
	UrgentCount  int64   `json:"urgentCount"`
	MonthlyHours float64 `json:"monthlyHours"`
}

type LawyerService struct {
	clock
	repos *repositories.Repositories
}

func NewLawyerService(repos *repositories.Repositories) *LawyerService {
	return &LawyerService{repos: repos}
}

// List returns lawyers with case counts and billable hours this month.
func (s *LawyerService) List(ctx context.Context, filter repositories.LawyerFilter, page repositories.Page) ([]LawyerSummary, int64, error) {
	lawyers, total, err := s.repos.Lawyers.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	summaries, err := s.summarize(ctx, lawyers)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (s *LawyerService) Get(ctx context.Context, id string) (*LawyerSummary, error) {
	lawyer, err := s.repos.Lawyers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Lawyer")
	}
	summaries, err := s.summarize(ctx, []models.Lawyer{*lawyer})
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

func (s *LawyerService) summarize(ctx context.Context, lawyers []models.Lawyer) ([]LawyerSummary, error) {
	ids := make([]string, len(lawyers))
	for i, l := range lawyers {
		ids[i] = l.ID
	}
	workloads, err := s.repos.Lawyers.Workloads(ctx, ids, models.FormatDate(monthStart(s.now(), 0)))
	if err != nil {
		return nil, err
	}

	summaries := make([]LawyerSummary, len(lawyers))
	for i, l := range lawyers {
		w := workloads[l.ID]
		summaries[i] = LawyerSummary{
			Lawyer:       l,
			CaseCount:    w.CaseCount,
			UrgentCount:  w.UrgentCount,
			MonthlyHours: round2(w.MonthlyHours),
		}
	}
	return summaries, nil
}

func (s *LawyerService) Create(ctx context.Context, actor Actor, input LawyerInput) (*models.Lawyer, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name is required")
	}
	lawyer := &models.Lawyer{Status: models.LawyerStatusActive, IsActive: true}
	if err := s.apply(ctx, lawyer, input); err != nil {
		return nil, err
	}

	err := s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Lawyers.Create(ctx, lawyer); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actor, activityEntry{
			Type:        models.ActivityLawyerAdded,
			EntityType:  "lawyer",
			EntityID:    lawyer.ID,
			Description: fmt.Sprintf("New lawyer: %s", lawyer.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	return lawyer, nil
}

func (s *LawyerService) Update(ctx context.Context, id string, input LawyerInput) (*models.Lawyer, error) {
	lawyer, err := s.repos.Lawyers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Lawyer")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name cannot be empty")
	}
	if err := s.apply(ctx, lawyer, input); err != nil {
		return nil, err
	}
	if err := s.repos.Lawyers.Update(ctx, lawyer); err != nil {
		return nil, err
	}
	return s.repos.Lawyers.FindByID(ctx, id)
}

// Delete deactivates a lawyer with cases or time entries and removes it otherwise.
func (s *LawyerService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if _, err := s.repos.Lawyers.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, "Lawyer")
	}
	return archiveOrRemove(ctx, s.repos, id, func(dependents int64) (bool, error) {
		return s.repos.Lawyers.ArchiveOrDelete(ctx, id, dependents)
	}, casesByLawyer, entriesByLawyer)
}

func (s *LawyerService) apply(ctx context.Context, lawyer *models.Lawyer, input LawyerInput) error {
	if input.UserID != nil {
		if *input.UserID == "" {
			lawyer.UserID = nil
		} else {
			if _, err := s.repos.Users.FindByID(ctx, *input.UserID); err != nil {
				return notFoundAs(err, "User")
			}
			lawyer.UserID = input.UserID
		}
	}
	if input.Name != nil {
		lawyer.Name = SanitizeText(*input.Name)
	}
	if input.Title != nil {
		lawyer.Title = sanitizeOptional(input.Title)
	}
	if input.Specialty != nil {
		lawyer.Specialty = sanitizeOptional(input.Specialty)
	}
	if input.Email != nil {
		lawyer.Email = trimOptional(input.Email)
	}
	if input.Phone != nil {
		lawyer.Phone = trimOptional(input.Phone)
	}
	if input.Avatar != nil {
		lawyer.Avatar = trimOptional(input.Avatar)
	}
	if input.Status != nil {
		if !models.IsValidLawyerStatus(*input.Status) {
			return Validation("invalid lawyer status: " + *input.Status)
		}
		lawyer.Status = *input.Status
		lawyer.IsActive = *input.Status != models.LawyerStatusInactive
	}
	if input.HourlyRate != nil {
		if *input.HourlyRate < 0 {
			return Validation("hourlyRate cannot be negative")
		}
		lawyer.HourlyRate = *input.HourlyRate
	}
	if input.Bio != nil {
		lawyer.Bio = sanitizeOptional(input.Bio)
	}
	if input.HireDate != nil {
		date := trimOptional(input.HireDate)
		if date != nil && !models.IsValidDate(*date) {
			return Validation("hireDate must be YYYY-MM-DD")
		}
		lawyer.HireDate = date
	}
	return nil
}
