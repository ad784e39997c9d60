// Package reports renders printable HTML documents.
package reports

import "lexfirm_api_go/models"

//go:generate templ generate

// CaseReportData is everything the case report prints.
type CaseReportData struct {
	Case        *models.Case
	GeneratedOn string
	NextHearing string

	TotalHours    float64
	BilledHours   float64
	TotalAmount   float64
	HoursProgress float64

	// T resolves a report.* label in the reader's language.
	T func(key string, args ...map[string]interface{}) string
}

func (d CaseReportData) nextHearing() string {
	if d.NextHearing == "" {
		return d.T("report.none")
	}
	return d.NextHearing
}
