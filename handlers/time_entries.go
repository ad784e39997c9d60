package handlers

import (
	"fmt"
	"net/http"
	"time"

	"lexfirm_api_go/middleware"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func timeEntryFilter(c echo.Context) repositories.TimeEntryFilter {
	return repositories.TimeEntryFilter{
		CaseID:     c.QueryParam("caseId"),
		LawyerID:   c.QueryParam("lawyerId"),
		Status:     c.QueryParam("status"),
		IsBillable: queryBool(c, "isBillable"),
		StartDate:  c.QueryParam("startDate"),
		EndDate:    c.QueryParam("endDate"),
	}
}

// ListTimeEntries returns a page of entries plus totals over the whole
// filtered set.
func (h *Handler) ListTimeEntries(c echo.Context) error {
	page := pageParams(c)
	entries, total, totals, err := h.TimeEntries.List(c.Request().Context(), timeEntryFilter(c), page, sortParams(c))
	if err != nil {
		return err
	}
	resp := paged(entries, total, page)
	resp.Totals = totals
	return c.JSON(http.StatusOK, resp)
}

// TimeEntrySummary returns hours per month of ?year= (default current year).
func (h *Handler) TimeEntrySummary(c echo.Context) error {
	year := queryInt(c, "year", time.Now().Year())
	summary, err := h.TimeEntries.MonthlySummary(c.Request().Context(), year, c.QueryParam("lawyerId"))
	if err != nil {
		return err
	}
	return ok(c, summary)
}

// ExportTimeEntries downloads the filtered entries as a spreadsheet.
func (h *Handler) ExportTimeEntries(c echo.Context) error {
	buf, err := h.TimeEntries.Export(c.Request().Context(), timeEntryFilter(c))
	if err != nil {
		return err
	}
	name := fmt.Sprintf("time-entries-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(name))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) GetTimeEntry(c echo.Context) error {
	entry, err := h.TimeEntries.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, entry)
}

func (h *Handler) CreateTimeEntry(c echo.Context) error {
	var input services.TimeEntryInput
	if err := bind(c, &input); err != nil {
		return err
	}
	entry, err := h.TimeEntries.Create(c.Request().Context(), middleware.GetActor(c), input)
	if err != nil {
		return err
	}
	return created(c, entry, "Time entry created")
}

func (h *Handler) UpdateTimeEntry(c echo.Context) error {
	var input services.TimeEntryInput
	if err := bind(c, &input); err != nil {
		return err
	}
	entry, err := h.TimeEntries.Update(c.Request().Context(), middleware.GetActor(c), c.Param("id"), input)
	if err != nil {
		return err
	}
	return ok(c, entry)
}

func (h *Handler) DeleteTimeEntry(c echo.Context) error {
	if err := h.TimeEntries.Delete(c.Request().Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, "Time entry deleted")
}

func (h *Handler) ApproveTimeEntry(c echo.Context) error {
	entry, err := h.TimeEntries.Approve(c.Request().Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, entry)
}

func (h *Handler) RejectTimeEntry(c echo.Context) error {
	entry, err := h.TimeEntries.Reject(c.Request().Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, entry)
}

func (h *Handler) InvoiceTimeEntry(c echo.Context) error {
	entry, err := h.TimeEntries.Invoice(c.Request().Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, entry)
}
