package services

import (
	"context"
	"errors"
	"testing"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseNumberSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := NewCaseService(f.repos)

	// A case numbered before the counter existed seeds it.
	legacy := models.Case{
		CaseNumber: "LEX-2025-006",
		Name:       "Legacy",
		ClientID:   f.client.ID,
		LawyerID:   f.lawyer.ID,
		Category:   models.CaseCategoryCivil,
		Status:     models.CaseStatusActive,
		Priority:   models.PriorityMedium,
		StartDate:  "2025-01-10",
	}
	require.NoError(t, f.repos.Cases.Create(ctx, &legacy))

	t.Run("Continues from the highest existing number", func(t *testing.T) {
		cases.Now = fixedNow("2025-12-31 23:00")
		c := f.createCase(t, cases, "Year end")
		assert.Equal(t, "LEX-2025-007", c.CaseNumber)
		assert.Equal(t, "2025-12-31", c.StartDate)
	})

	t.Run("Restarts at 001 in a new year", func(t *testing.T) {
		cases.Now = fixedNow("2026-01-01 09:00")
		assert.Equal(t, "LEX-2026-001", f.createCase(t, cases, "New year").CaseNumber)
		assert.Equal(t, "LEX-2026-002", f.createCase(t, cases, "Second").CaseNumber)
	})

	t.Run("Retries past a number taken outside the counter", func(t *testing.T) {
		taken := legacy
		taken.ID = ""
		taken.CaseNumber = "LEX-2026-003"
		require.NoError(t, f.repos.Cases.Create(ctx, &taken))

		assert.Equal(t, "LEX-2026-004", f.createCase(t, cases, "After collision").CaseNumber)
	})
}

func TestCaseCreateDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := NewCaseService(f.repos)

	c := f.createCase(t, cases, "  Norte vs. Sur <script>x</script> ")
	assert.Equal(t, "Norte vs. Sur", c.Name)
	assert.Equal(t, models.CaseCategoryCivil, c.Category)
	assert.Equal(t, models.CaseStatusActive, c.Status)
	assert.Equal(t, models.PriorityMedium, c.Priority)
	assert.Equal(t, 100.0, c.EstimatedHours)
	assert.Zero(t, c.BilledHours)

	activities, total, err := f.repos.Activities.List(ctx, repositories.ActivityFilter{Type: string(models.ActivityCaseCreated)}, repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, c.ID, *activities[0].EntityID)

	tests := []struct {
		name  string
		input CaseInput
		kind  error
	}{
		{"missing name", CaseInput{ClientID: &f.client.ID, LawyerID: &f.lawyer.ID}, ErrValidation},
		{"missing client", CaseInput{Name: strPtr("x"), LawyerID: &f.lawyer.ID}, ErrValidation},
		{"unknown lawyer", CaseInput{Name: strPtr("x"), ClientID: &f.client.ID, LawyerID: strPtr("nope")}, ErrNotFound},
		{"bad category", CaseInput{Name: strPtr("x"), ClientID: &f.client.ID, LawyerID: &f.lawyer.ID, Category: strPtr("Marítimo")}, ErrValidation},
		{"negative estimate", CaseInput{Name: strPtr("x"), ClientID: &f.client.ID, LawyerID: &f.lawyer.ID, EstimatedHours: floatPtr(-1)}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cases.Create(ctx, f.admin, tt.input)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestCaseDetailStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := NewCaseService(f.repos)
	entries := NewTimeEntryService(f.repos)

	c := f.createCase(t, cases, "Stats")
	for _, h := range []float64{20, 27} {
		_, err := entries.Create(ctx, f.admin, TimeEntryInput{
			CaseID: &c.ID, LawyerID: &f.lawyer.ID, Hours: floatPtr(h), Description: strPtr("Drafting"),
		})
		require.NoError(t, err)
	}
	_, err := entries.Create(ctx, f.admin, TimeEntryInput{
		CaseID: &c.ID, LawyerID: &f.lawyer.ID, Hours: floatPtr(3), Description: strPtr("Internal"), IsBillable: boolPtr(false),
	})
	require.NoError(t, err)

	detail, err := cases.Get(ctx, c.ID, ViewerFor(f.admin))
	require.NoError(t, err)
	assert.Equal(t, 50.0, detail.Stats.TotalHours)
	assert.Equal(t, 47.0, detail.Stats.BillableHours)
	assert.Equal(t, 47.0, detail.Stats.BilledHours)
	assert.Equal(t, 50.0, detail.Stats.HoursProgress)
	assert.Equal(t, 50.0, detail.Stats.HoursRemaining)
	assert.Equal(t, 70500.0, detail.Stats.TotalAmount)
	assert.Nil(t, detail.NextHearing)

	t.Run("No estimate reports zero progress", func(t *testing.T) {
		_, err := cases.Update(ctx, f.admin, c.ID, CaseInput{EstimatedHours: floatPtr(0)})
		require.NoError(t, err)
		detail, err := cases.Get(ctx, c.ID, ViewerFor(f.admin))
		require.NoError(t, err)
		assert.Zero(t, detail.Stats.HoursProgress)
	})
}

func TestHoursProgress(t *testing.T) {
	assert.Equal(t, 47.0, HoursProgress(47, 100))
	assert.Equal(t, 33.3, HoursProgress(10, 30))
	assert.Zero(t, HoursProgress(12, 0))
}

func TestCaseCloseAndArchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := NewCaseService(f.repos)
	cases.Now = fixedNow("2026-02-10 12:00")

	c := f.createCase(t, cases, "To close")

	closed, err := cases.Update(ctx, f.admin, c.ID, CaseInput{Status: strPtr(models.CaseStatusClosed)})
	require.NoError(t, err)
	require.NotNil(t, closed.EndDate)
	assert.Equal(t, "2026-02-10", *closed.EndDate)

	activities, _, err := f.repos.Activities.List(ctx, repositories.ActivityFilter{Type: string(models.ActivityCaseClosed)}, repositories.Page{})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.CaseStatusActive, activities[0].Metadata["from"])
	assert.Equal(t, models.CaseStatusClosed, activities[0].Metadata["to"])

	require.NoError(t, cases.Archive(ctx, f.admin, c.ID))
	archived, err := f.repos.Cases.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusArchived, archived.Status)

	overview, err := cases.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.Totals.Total)
	assert.Zero(t, overview.Totals.Active)

	assert.True(t, errors.Is(cases.Archive(ctx, f.admin, "missing"), ErrNotFound))
}
