package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextHearingDateFollowsHearings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := NewCaseService(f.repos)
	hearings := NewHearingService(f.repos)
	hearings.Now = fixedNow("2026-04-01 09:00")
	cases.Now = hearings.Now

	c := f.createCase(t, cases, "Hearings")
	nextOf := func(t *testing.T) *time.Time {
		t.Helper()
		reloaded, err := f.repos.Cases.FindByID(ctx, c.ID)
		require.NoError(t, err)
		return reloaded.NextHearingDate
	}

	late, err := hearings.Create(ctx, f.admin, HearingInput{CaseID: &c.ID, Date: strPtr("2026-04-20"), Time: strPtr("10:00")})
	require.NoError(t, err)
	assert.Equal(t, models.HearingStatusScheduled, late.Status)
	assert.True(t, late.Reminder)
	require.NotNil(t, nextOf(t))
	assert.Equal(t, "2026-04-20 10:00", nextOf(t).In(time.Local).Format("2006-01-02 15:04"))

	early, err := hearings.Create(ctx, f.admin, HearingInput{
		CaseID: &c.ID, Date: strPtr("2026-04-10"), Time: strPtr("09:30:00"), Type: strPtr(models.HearingTypeEvidence),
	})
	require.NoError(t, err)
	assert.Equal(t, "09:30", early.Time)
	assert.Equal(t, "2026-04-10 09:30", nextOf(t).In(time.Local).Format("2006-01-02 15:04"))

	t.Run("Saving a stale case keeps the hearing date", func(t *testing.T) {
		stale, err := f.repos.Cases.FindByID(ctx, c.ID)
		require.NoError(t, err)
		stale.NextHearingDate = nil
		stale.Description = strPtr("Edited elsewhere")
		require.NoError(t, f.repos.Cases.Update(ctx, stale))

		_, err = cases.Update(ctx, f.admin, c.ID, CaseInput{Description: strPtr("Edited again")})
		require.NoError(t, err)
		require.NotNil(t, nextOf(t))
		assert.Equal(t, "2026-04-10 09:30", nextOf(t).In(time.Local).Format("2006-01-02 15:04"))
	})

	t.Run("Past hearings do not count", func(t *testing.T) {
		_, err := hearings.Create(ctx, f.admin, HearingInput{CaseID: &c.ID, Date: strPtr("2026-03-01"), Time: strPtr("10:00")})
		require.NoError(t, err)
		assert.Equal(t, "2026-04-10 09:30", nextOf(t).In(time.Local).Format("2006-01-02 15:04"))
	})

	t.Run("Completing the earliest moves the date on", func(t *testing.T) {
		_, err := hearings.Update(ctx, f.admin, early.ID, HearingInput{Status: strPtr(models.HearingStatusCompleted), Result: strPtr("Evidence admitted")})
		require.NoError(t, err)
		assert.Equal(t, "2026-04-20 10:00", nextOf(t).In(time.Local).Format("2006-01-02 15:04"))

		done, _, err := f.repos.Activities.List(ctx, repositories.ActivityFilter{Type: string(models.ActivityHearingCompleted)}, repositories.Page{})
		require.NoError(t, err)
		assert.Len(t, done, 1)
	})

	t.Run("Deleting the last pending hearing clears the date", func(t *testing.T) {
		require.NoError(t, hearings.Delete(ctx, f.admin, late.ID))
		assert.Nil(t, nextOf(t))
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := hearings.Create(ctx, f.admin, HearingInput{CaseID: &c.ID, Date: strPtr("2026-04-20"), Time: strPtr("25:99")})
		assert.True(t, errors.Is(err, ErrValidation))
		_, err = hearings.Create(ctx, f.admin, HearingInput{CaseID: &c.ID, Date: strPtr("2026-04-20")})
		assert.True(t, errors.Is(err, ErrValidation))
		_, err = hearings.Create(ctx, f.admin, HearingInput{CaseID: &c.ID, Date: strPtr("2026-04-20"), Time: strPtr("10:00"), Status: strPtr("Maybe")})
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestHearingCalendarAndUpcoming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.createCase(t, NewCaseService(f.repos), "Calendar")
	hearings := NewHearingService(f.repos)
	hearings.Now = fixedNow("2026-06-01 08:00")

	for _, slot := range [][2]string{
		{"2026-06-03", "11:00"},
		{"2026-06-03", "09:00"},
		{"2026-06-15", "10:00"},
		{"2026-07-01", "10:00"},
	} {
		_, err := hearings.Create(ctx, f.admin, HearingInput{CaseID: &c.ID, Date: strPtr(slot[0]), Time: strPtr(slot[1])})
		require.NoError(t, err)
	}

	days, err := hearings.Calendar(ctx, 2026, time.June)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-06-03", days[0].Date)
	require.Len(t, days[0].Hearings, 2)
	assert.Equal(t, "09:00", days[0].Hearings[0].Time)
	assert.Equal(t, "2026-06-15", days[1].Date)

	_, err = hearings.Calendar(ctx, 2026, 13)
	assert.True(t, errors.Is(err, ErrValidation))

	upcoming, err := hearings.Upcoming(ctx, 2)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "09:00", upcoming[0].Time)
	assert.Equal(t, "11:00", upcoming[1].Time)
}
