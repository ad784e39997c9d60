package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"
	"lexfirm_api_go/services/i18n"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingSender struct {
	sent []*services.Email
	fail bool
}

func (s *recordingSender) Send(_ context.Context, email *services.Email) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, email)
	return nil
}

func setupRemindersTestDB(t *testing.T) *repositories.Repositories {
	t.Helper()
	require.NoError(t, i18n.Load())

	db, err := gorm.Open(sqlite.Open("file:mem_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return repositories.New(db)
}

func createHearingAt(t *testing.T, repos *repositories.Repositories, at time.Time, email *string, reminder bool) *models.Hearing {
	t.Helper()
	db := repos.DB()

	lawyer := models.Lawyer{Name: "Laura Méndez", Email: email, Status: models.LawyerStatusActive, IsActive: true}
	require.NoError(t, db.Create(&lawyer).Error)
	client := models.Client{Name: "Grupo Norte", Type: models.ClientTypeCompany, IsActive: true}
	require.NoError(t, db.Create(&client).Error)
	c := models.Case{
		CaseNumber: "LEX-" + uuid.NewString()[:8],
		Name:       "Norte vs. Sur",
		ClientID:   client.ID,
		LawyerID:   lawyer.ID,
		Category:   models.CaseCategoryCivil,
		Status:     models.CaseStatusActive,
		Priority:   models.PriorityMedium,
		StartDate:  models.FormatDate(at),
	}
	require.NoError(t, db.Create(&c).Error)

	h := models.Hearing{
		CaseID:   c.ID,
		Date:     models.FormatDate(at),
		Time:     at.Format(models.TimeLayout),
		Type:     models.HearingTypeInitial,
		Status:   models.HearingStatusScheduled,
		Reminder: reminder,
	}
	require.NoError(t, db.Create(&h).Error)
	return &h
}

func TestHearingReminders(t *testing.T) {
	repos := setupRemindersTestDB(t)
	now := time.Now().Truncate(time.Minute)
	email := "laura@lexfirm.mx"

	due := createHearingAt(t, repos, now.Add(30*time.Hour), &email, true)
	createHearingAt(t, repos, now.Add(3*time.Hour), &email, true)   // too soon
	createHearingAt(t, repos, now.Add(72*time.Hour), &email, true)  // too far
	createHearingAt(t, repos, now.Add(30*time.Hour), &email, false) // reminder off

	sender := &recordingSender{}
	job := &HearingReminders{Repos: repos, Sender: sender, Now: func() time.Time { return now }}

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Due)
	assert.Equal(t, 1, result.Sent)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{email}, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].TextBody, "Laura Méndez")

	reloaded, err := repos.Hearings.FindByID(context.Background(), due.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.ReminderSent)

	t.Run("Second run sends nothing", func(t *testing.T) {
		result, err := job.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, result.Due)
		assert.Len(t, sender.sent, 1)
	})
}

func TestHearingRemindersSkipsAndFailures(t *testing.T) {
	repos := setupRemindersTestDB(t)
	now := time.Now().Truncate(time.Minute)

	noEmail := createHearingAt(t, repos, now.Add(26*time.Hour), nil, true)

	email := "laura@lexfirm.mx"
	failing := createHearingAt(t, repos, now.Add(27*time.Hour), &email, true)

	job := &HearingReminders{Repos: repos, Sender: &recordingSender{fail: true}, Now: func() time.Time { return now }}
	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Due)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)

	for _, id := range []string{noEmail.ID, failing.ID} {
		h, err := repos.Hearings.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, h.ReminderSent)
	}
}
