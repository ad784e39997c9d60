package services

import (
	"bytes"
	"context"
	"html"

	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services/i18n"
	"lexfirm_api_go/templates/reports"
)

// ReportHTML renders the printable case report in the language on ctx.
func (s *CaseService) ReportHTML(ctx context.Context, id string, viewer repositories.DocumentViewer) (string, *CaseDetail, error) {
	detail, err := s.Get(ctx, id, viewer)
	if err != nil {
		return "", nil, err
	}

	data := reports.CaseReportData{
		Case:          detail.Case,
		GeneratedOn:   LocalizedDate(ctx, s.now()),
		TotalHours:    detail.Stats.TotalHours,
		BilledHours:   detail.Stats.BilledHours,
		TotalAmount:   detail.Stats.TotalAmount,
		HoursProgress: detail.Stats.HoursProgress,
		T: func(key string, args ...map[string]interface{}) string {
			return i18n.T(ctx, key, args...)
		},
	}
	if detail.NextHearing != nil {
		data.NextHearing = detail.NextHearing.Date + " " + detail.NextHearing.Time
	}

	var body bytes.Buffer
	if err := reports.CaseReport(data).Render(ctx, &body); err != nil {
		return "", nil, err
	}
	return WrapHTMLForPDF(html.EscapeString(detail.CaseNumber), body.String()), detail, nil
}

// ReportPDF prints the case report through headless Chrome.
func (s *CaseService) ReportPDF(ctx context.Context, id string, viewer repositories.DocumentViewer) ([]byte, *CaseDetail, error) {
	page, detail, err := s.ReportHTML(ctx, id, viewer)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := GeneratePDF(ctx, page, DefaultPDFOptions())
	if err != nil {
		return nil, nil, err
	}
	return pdf, detail, nil
}
