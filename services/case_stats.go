package services

import (
	"math"

	"lexfirm_api_go/models"
)

// CaseStats are the derived numbers shown with a case.
type CaseStats struct {
	TotalHours     float64 `json:"totalHours"`
	BillableHours  float64 `json:"billableHours"`
	BilledHours    float64 `json:"billedHours"`
	TotalAmount    float64 `json:"totalAmount"`
	HoursRemaining float64 `json:"hoursRemaining"`
	HoursProgress  float64 `json:"hoursProgress"`
}

// CaseDetail is a case with its latest hearings and documents and its stats.
type CaseDetail struct {
	*models.Case
	Stats       CaseStats       `json:"stats"`
	NextHearing *models.Hearing `json:"nextHearing"`
}

// HoursProgress is total/estimated as a percentage with one decimal.
// A case without an estimate reports 0.
func HoursProgress(totalHours, estimatedHours float64) float64 {
	if estimatedHours <= 0 {
		return 0
	}
	return round1(totalHours / estimatedHours * 100)
}

func computeCaseStats(c *models.Case, totalHours, billableHours, totalAmount float64) CaseStats {
	return CaseStats{
		TotalHours:     round2(totalHours),
		BillableHours:  round2(billableHours),
		BilledHours:    round2(c.BilledHours),
		TotalAmount:    models.RoundMoney(totalAmount),
		HoursRemaining: round2(c.EstimatedHours - totalHours),
		HoursProgress:  HoursProgress(totalHours, c.EstimatedHours),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
