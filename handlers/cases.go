package handlers

import (
	"net/http"
	"strings"

	"lexfirm_api_go/middleware"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

// ListCases filters by ?status= (comma separated), ?category=, ?priority=,
// the reference ids and ?search=.
func (h *Handler) ListCases(c echo.Context) error {
	page := pageParams(c)
	filter := repositories.CaseFilter{
		Category:   c.QueryParam("category"),
		Priority:   c.QueryParam("priority"),
		ClientID:   c.QueryParam("clientId"),
		LawyerID:   c.QueryParam("lawyerId"),
		TribunalID: c.QueryParam("tribunalId"),
		JudgeID:    c.QueryParam("judgeId"),
		Search:     c.QueryParam("search"),
	}
	if status := c.QueryParam("status"); strings.Contains(status, ",") {
		filter.Statuses = strings.Split(status, ",")
	} else {
		filter.Status = status
	}

	cases, total, err := h.Cases.List(c.Request().Context(), filter, page, sortParams(c))
	if err != nil {
		return err
	}
	return list(c, cases, total, page)
}

func (h *Handler) CaseOverview(c echo.Context) error {
	overview, err := h.Cases.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, overview)
}

func (h *Handler) GetCase(c echo.Context) error {
	viewer := services.ViewerFor(middleware.GetActor(c))
	detail, err := h.Cases.Get(c.Request().Context(), c.Param("id"), viewer)
	if err != nil {
		return err
	}
	return ok(c, detail)
}

func (h *Handler) CreateCase(c echo.Context) error {
	var input services.CaseInput
	if err := bind(c, &input); err != nil {
		return err
	}
	kase, err := h.Cases.Create(c.Request().Context(), middleware.GetActor(c), input)
	if err != nil {
		return err
	}
	return created(c, kase, "Case created")
}

func (h *Handler) UpdateCase(c echo.Context) error {
	var input services.CaseInput
	if err := bind(c, &input); err != nil {
		return err
	}
	updated, err := h.Cases.Update(c.Request().Context(), middleware.GetActor(c), c.Param("id"), input)
	if err != nil {
		return err
	}
	return ok(c, updated)
}

// ArchiveCase closes the case; cases are never removed.
func (h *Handler) ArchiveCase(c echo.Context) error {
	if err := h.Cases.Archive(c.Request().Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, "Case archived")
}

// CaseReport serves the printable report as PDF, or as HTML with ?format=html.
func (h *Handler) CaseReport(c echo.Context) error {
	ctx := c.Request().Context()
	viewer := services.ViewerFor(middleware.GetActor(c))

	if c.QueryParam("format") == "html" {
		page, _, err := h.Cases.ReportHTML(ctx, c.Param("id"), viewer)
		if err != nil {
			return err
		}
		return c.HTML(http.StatusOK, page)
	}

	pdf, detail, err := h.Cases.ReportPDF(ctx, c.Param("id"), viewer)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(detail.CaseNumber+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
