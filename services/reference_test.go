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

func TestClientDeleteArchivesWhenReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clients := NewClientService(f.repos)
	f.createCase(t, NewCaseService(f.repos), "Referenced")

	result, err := clients.Delete(ctx, f.client.ID)
	require.NoError(t, err)
	assert.True(t, result.Archived)
	assert.Equal(t, int64(1), result.Dependents)

	archived, err := clients.Get(ctx, f.client.ID)
	require.NoError(t, err)
	assert.False(t, archived.IsActive)
	assert.Equal(t, int64(1), archived.CaseCount)

	visible, _, err := clients.List(ctx, repositories.ClientFilter{}, repositories.Page{})
	require.NoError(t, err)
	assert.Empty(t, visible)
	all, _, err := clients.List(ctx, repositories.ClientFilter{IncludeInactive: true}, repositories.Page{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	loose, err := clients.Create(ctx, f.admin, ClientInput{Name: strPtr("Sin asuntos")})
	require.NoError(t, err)
	assert.Equal(t, models.ClientTypeIndividual, loose.Type)

	result, err = clients.Delete(ctx, loose.ID)
	require.NoError(t, err)
	assert.False(t, result.Archived)
	_, err = clients.Get(ctx, loose.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClientValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clients := NewClientService(f.repos)

	_, err := clients.Create(ctx, f.admin, ClientInput{Name: strPtr("  ")})
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = clients.Create(ctx, f.admin, ClientInput{Name: strPtr("X"), Type: strPtr("Robot")})
	assert.True(t, errors.Is(err, ErrValidation))

	first, err := clients.Create(ctx, f.admin, ClientInput{Name: strPtr("Alfa"), RFC: strPtr(" alf010101aaa ")})
	require.NoError(t, err)
	require.NotNil(t, first.RFC)
	assert.Equal(t, "ALF010101AAA", *first.RFC)

	_, err = clients.Create(ctx, f.admin, ClientInput{Name: strPtr("Beta"), RFC: strPtr("ALF010101AAA")})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestLawyerDeleteAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lawyers := NewLawyerService(f.repos)
	f.createCase(t, NewCaseService(f.repos), "Assigned")

	result, err := lawyers.Delete(ctx, f.lawyer.ID)
	require.NoError(t, err)
	assert.True(t, result.Archived)

	archived, err := lawyers.Get(ctx, f.lawyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LawyerStatusInactive, archived.Status)
	assert.False(t, archived.IsActive)
	assert.Equal(t, int64(1), archived.CaseCount)

	_, err = lawyers.Create(ctx, f.admin, LawyerInput{Name: strPtr("Neg"), HourlyRate: floatPtr(-1)})
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = lawyers.Create(ctx, f.admin, LawyerInput{Name: strPtr("Date"), HireDate: strPtr("01/02/2026")})
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = lawyers.Create(ctx, f.admin, LawyerInput{Name: strPtr("Ghost"), UserID: strPtr("missing")})
	assert.True(t, errors.Is(err, ErrNotFound))

	free, err := lawyers.Create(ctx, f.admin, LawyerInput{Name: strPtr("Libre")})
	require.NoError(t, err)
	result, err = lawyers.Delete(ctx, free.ID)
	require.NoError(t, err)
	assert.False(t, result.Archived)
}

func TestTribunalsAndJudges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tribunals := NewTribunalService(f.repos)

	court, err := tribunals.Create(ctx, TribunalInput{Name: strPtr("Juzgado Tercero Civil")})
	require.NoError(t, err)
	assert.Equal(t, models.TribunalTypeCivil, court.Type)

	_, err = tribunals.Create(ctx, TribunalInput{Name: strPtr("Bad"), Type: strPtr("Marcial")})
	assert.True(t, errors.Is(err, ErrValidation))

	judge, err := tribunals.CreateJudge(ctx, JudgeInput{Name: strPtr("Mtra. Rosa Ibarra"), TribunalID: &court.ID})
	require.NoError(t, err)
	require.NotNil(t, judge.TribunalID)

	_, err = tribunals.CreateJudge(ctx, JudgeInput{Name: strPtr("Nobody"), TribunalID: strPtr("missing")})
	assert.True(t, errors.Is(err, ErrNotFound))

	judges, _, err := tribunals.ListJudges(ctx, repositories.JudgeFilter{TribunalID: court.ID}, repositories.Page{})
	require.NoError(t, err)
	assert.Len(t, judges, 1)

	t.Run("Judge without cases is removed", func(t *testing.T) {
		spare, err := tribunals.CreateJudge(ctx, JudgeInput{Name: strPtr("Suplente")})
		require.NoError(t, err)
		result, err := tribunals.DeleteJudge(ctx, spare.ID)
		require.NoError(t, err)
		assert.False(t, result.Archived)
		_, err = tribunals.GetJudge(ctx, spare.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Tribunal with judges is archived", func(t *testing.T) {
		result, err := tribunals.Delete(ctx, court.ID)
		require.NoError(t, err)
		assert.True(t, result.Archived)
		assert.Equal(t, int64(1), result.Dependents)

		visible, _, err := tribunals.List(ctx, repositories.TribunalFilter{}, repositories.Page{})
		require.NoError(t, err)
		assert.Empty(t, visible)
	})
}
