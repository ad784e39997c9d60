package jobs

import (
	"context"
	"time"

	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"
	"lexfirm_api_go/services/i18n"

	"go.uber.org/zap"
)

// Hearings starting between 24 and 48 hours from now get a reminder.
const (
	reminderLead   = 24 * time.Hour
	reminderWindow = 48 * time.Hour
)

// HearingReminders emails the responsible lawyer ahead of each pending
// hearing that asked for a reminder, at most once per hearing.
type HearingReminders struct {
	Repos  *repositories.Repositories
	Sender services.EmailSender
	Now    func() time.Time
}

// ReminderResult counts what a run did.
type ReminderResult struct {
	Due     int
	Sent    int
	Skipped int
	Failed  int
}

func (j *HearingReminders) Run(ctx context.Context) (*ReminderResult, error) {
	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}

	hearings, err := j.Repos.Hearings.DueReminders(ctx, now.Add(reminderLead), now.Add(reminderWindow))
	if err != nil {
		return nil, err
	}

	result := &ReminderResult{Due: len(hearings)}
	lang := i18n.Default()

	for i := range hearings {
		h := &hearings[i]
		if h.Case == nil || h.Case.Lawyer == nil || h.Case.Lawyer.Email == nil || *h.Case.Lawyer.Email == "" {
			zap.S().Warnw("Hearing reminder skipped, no lawyer email", "hearing_id", h.ID)
			result.Skipped++
			continue
		}
		lawyer := h.Case.Lawyer

		email, err := services.BuildHearingReminderEmail(*lawyer.Email, lawyer.Name, h, lang)
		if err != nil {
			return result, err
		}
		if err := j.Sender.Send(ctx, email); err != nil {
			zap.S().Errorw("Failed to send hearing reminder", "hearing_id", h.ID, "error", err)
			result.Failed++
			continue
		}

		if err := j.Repos.Hearings.MarkReminderSent(ctx, h.ID); err != nil {
			return result, err
		}
		result.Sent++
	}

	zap.S().Infow("Hearing reminders processed",
		"due", result.Due, "sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// Job adapts Run to the scheduler.
func (j *HearingReminders) Job(ctx context.Context) error {
	_, err := j.Run(ctx)
	return err
}
