package services

import (
	"context"
	"strconv"
	"time"

	"lexfirm_api_go/services/i18n"
)

// RelativeTime labels t relative to now in the language on ctx:
// "just now", "N min ago", "Nh ago", "yesterday", then a plain date.
func RelativeTime(ctx context.Context, t, now time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return i18n.T(ctx, "time.just_now")
	case elapsed < time.Hour:
		return i18n.T(ctx, "time.minutes_ago", map[string]interface{}{"n": int(elapsed / time.Minute)})
	case elapsed < 24*time.Hour:
		return i18n.T(ctx, "time.hours_ago", map[string]interface{}{"n": int(elapsed / time.Hour)})
	case elapsed < 48*time.Hour:
		return i18n.T(ctx, "time.yesterday")
	}
	return LocalizedDate(ctx, t)
}

// LocalizedDate formats t with the date layout of the language on ctx.
func LocalizedDate(ctx context.Context, t time.Time) string {
	layout := i18n.T(ctx, "date.format")
	if layout == "date.format" {
		layout = "2006-01-02"
	}
	return t.Format(layout)
}

// MonthLabel is the short month name in the language on ctx.
func MonthLabel(ctx context.Context, m time.Month) string {
	return i18n.T(ctx, "months.short."+strconv.Itoa(int(m)))
}
