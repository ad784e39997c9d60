package services

import (
	"context"
	"strings"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
)

// TribunalInput carries create and update fields; nil means "not provided".
type TribunalInput struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Jurisdiction *string `json:"jurisdiction"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Schedule     *string `json:"schedule"`
	Notes        *string `json:"notes"`
	IsActive     *bool   `json:"isActive"`
}

// JudgeInput carries create and update fields; nil means "not provided".
type JudgeInput struct {
	Name       *string `json:"name"`
	Title      *string `json:"title"`
	TribunalID *string `json:"tribunalId"`
	Specialty  *string `json:"specialty"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Notes      *string `json:"notes"`
	IsActive   *bool   `json:"isActive"`
}

// TribunalSummary is a tribunal with its active judges and case count.
type TribunalSummary struct {
	models.Tribunal
	CaseCount int64 `json:"caseCount"`
}

// TribunalService manages tribunals and the judges sitting in them.
type TribunalService struct {
	repos *repositories.Repositories
}

func NewTribunalService(repos *repositories.Repositories) *TribunalService {
	return &TribunalService{repos: repos}
}

func (s *TribunalService) List(ctx context.Context, filter repositories.TribunalFilter, page repositories.Page) ([]TribunalSummary, int64, error) {
	tribunals, total, err := s.repos.Tribunals.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(tribunals))
	for i, t := range tribunals {
		ids[i] = t.ID
	}
	counts, err := s.repos.Cases.CountPerOwner(ctx, "tribunal_id", ids)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]TribunalSummary, len(tribunals))
	for i, t := range tribunals {
		summaries[i] = TribunalSummary{Tribunal: t, CaseCount: counts[t.ID]}
	}
	return summaries, total, nil
}

func (s *TribunalService) Get(ctx context.Context, id string) (*TribunalSummary, error) {
	tribunal, err := s.repos.Tribunals.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Tribunal")
	}
	counts, err := s.repos.Cases.CountPerOwner(ctx, "tribunal_id", []string{id})
	if err != nil {
		return nil, err
	}
	return &TribunalSummary{Tribunal: *tribunal, CaseCount: counts[id]}, nil
}

func (s *TribunalService) Create(ctx context.Context, input TribunalInput) (*models.Tribunal, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name is required")
	}
	tribunal := &models.Tribunal{Type: models.TribunalTypeCivil, IsActive: true}
	if err := applyTribunalInput(tribunal, input); err != nil {
		return nil, err
	}
	if err := s.repos.Tribunals.Create(ctx, tribunal); err != nil {
		return nil, err
	}
	return tribunal, nil
}

func (s *TribunalService) Update(ctx context.Context, id string, input TribunalInput) (*models.Tribunal, error) {
	tribunal, err := s.repos.Tribunals.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Tribunal")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name cannot be empty")
	}
	if err := applyTribunalInput(tribunal, input); err != nil {
		return nil, err
	}
	if err := s.repos.Tribunals.Update(ctx, tribunal); err != nil {
		return nil, err
	}
	return s.repos.Tribunals.FindByID(ctx, id)
}

// Delete deactivates a tribunal that cases, hearings or judges still point
// at and removes it otherwise.
func (s *TribunalService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if _, err := s.repos.Tribunals.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, "Tribunal")
	}
	return archiveOrRemove(ctx, s.repos, id, func(dependents int64) (bool, error) {
		return s.repos.Tribunals.ArchiveOrDelete(ctx, id, dependents)
	}, casesByTribunal, hearingsByTribunal, judgesByTribunal)
}

func (s *TribunalService) ListJudges(ctx context.Context, filter repositories.JudgeFilter, page repositories.Page) ([]models.Judge, int64, error) {
	return s.repos.Judges.List(ctx, filter, page)
}

func (s *TribunalService) GetJudge(ctx context.Context, id string) (*models.Judge, error) {
	judge, err := s.repos.Judges.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Judge")
	}
	return judge, nil
}

func (s *TribunalService) CreateJudge(ctx context.Context, input JudgeInput) (*models.Judge, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name is required")
	}
	judge := &models.Judge{IsActive: true}
	if err := s.applyJudgeInput(ctx, judge, input); err != nil {
		return nil, err
	}
	if err := s.repos.Judges.Create(ctx, judge); err != nil {
		return nil, err
	}
	return s.GetJudge(ctx, judge.ID)
}

func (s *TribunalService) UpdateJudge(ctx context.Context, id string, input JudgeInput) (*models.Judge, error) {
	judge, err := s.repos.Judges.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Judge")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, Validation("name cannot be empty")
	}
	if err := s.applyJudgeInput(ctx, judge, input); err != nil {
		return nil, err
	}
	if err := s.repos.Judges.Update(ctx, judge); err != nil {
		return nil, err
	}
	return s.GetJudge(ctx, id)
}

// DeleteJudge deactivates a judge assigned to cases or hearings and removes
// it otherwise.
func (s *TribunalService) DeleteJudge(ctx context.Context, id string) (*DeleteResult, error) {
	if _, err := s.repos.Judges.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, "Judge")
	}
	return archiveOrRemove(ctx, s.repos, id, func(dependents int64) (bool, error) {
		return s.repos.Judges.ArchiveOrDelete(ctx, id, dependents)
	}, casesByJudge, hearingsByJudge)
}

func applyTribunalInput(tribunal *models.Tribunal, input TribunalInput) error {
	if input.Name != nil {
		tribunal.Name = SanitizeText(*input.Name)
	}
	if input.Type != nil {
		if !models.IsValidTribunalType(*input.Type) {
			return Validation("invalid tribunal type: " + *input.Type)
		}
		tribunal.Type = *input.Type
	}
	if input.Jurisdiction != nil {
		tribunal.Jurisdiction = sanitizeOptional(input.Jurisdiction)
	}
	if input.Address != nil {
		tribunal.Address = sanitizeOptional(input.Address)
	}
	if input.Phone != nil {
		tribunal.Phone = trimOptional(input.Phone)
	}
	if input.Email != nil {
		tribunal.Email = trimOptional(input.Email)
	}
	if input.Schedule != nil {
		tribunal.Schedule = sanitizeOptional(input.Schedule)
	}
	if input.Notes != nil {
		tribunal.Notes = sanitizeOptional(input.Notes)
	}
	if input.IsActive != nil {
		tribunal.IsActive = *input.IsActive
	}
	return nil
}

func (s *TribunalService) applyJudgeInput(ctx context.Context, judge *models.Judge, input JudgeInput) error {
	if input.Name != nil {
		judge.Name = SanitizeText(*input.Name)
	}
	if input.Title != nil {
		judge.Title = sanitizeOptional(input.Title)
	}
	if input.TribunalID != nil {
		if *input.TribunalID == "" {
			judge.TribunalID = nil
		} else {
			if _, err := s.repos.Tribunals.FindByID(ctx, *input.TribunalID); err != nil {
				return notFoundAs(err, "Tribunal")
			}
			judge.TribunalID = input.TribunalID
		}
	}
	if input.Specialty != nil {
		judge.Specialty = sanitizeOptional(input.Specialty)
	}
	if input.Phone != nil {
		judge.Phone = trimOptional(input.Phone)
	}
	if input.Email != nil {
		judge.Email = trimOptional(input.Email)
	}
	if input.Notes != nil {
		judge.Notes = sanitizeOptional(input.Notes)
	}
	if input.IsActive != nil {
		judge.IsActive = *input.IsActive
	}
	return nil
}
