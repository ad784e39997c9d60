package services

import (
	"time"

	"lexfirm_api_go/models"
)

// clock is embedded by services that read the current time; tests replace Now.
type clock struct {
	Now func() time.Time
}

func (c clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c clock) today() string {
	return models.FormatDate(c.now())
}

// monthStart returns the first day of t's month shifted by offset months.
func monthStart(t time.Time, offset int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
}
