package handlers

import (
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ListTribunals(c echo.Context) error {
	page := pageParams(c)
	filter := repositories.TribunalFilter{
		Type:            c.QueryParam("type"),
		Search:          c.QueryParam("search"),
		IncludeInactive: c.QueryParam("includeInactive") == "true",
	}
	tribunals, total, err := h.Tribunals.List(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return list(c, tribunals, total, page)
}

func (h *Handler) GetTribunal(c echo.Context) error {
	tribunal, err := h.Tribunals.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, tribunal)
}

func (h *Handler) CreateTribunal(c echo.Context) error {
	var input services.TribunalInput
	if err := bind(c, &input); err != nil {
		return err
	}
	tribunal, err := h.Tribunals.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return created(c, tribunal, "Tribunal created")
}

func (h *Handler) UpdateTribunal(c echo.Context) error {
	var input services.TribunalInput
	if err := bind(c, &input); err != nil {
		return err
	}
	tribunal, err := h.Tribunals.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return ok(c, tribunal)
}

func (h *Handler) DeleteTribunal(c echo.Context) error {
	result, err := h.Tribunals.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return deleted(c, "Tribunal", result)
}

// ListJudges lists judges, optionally of one tribunal (?tribunalId= or the
// :id of /tribunals/:id/judges).
func (h *Handler) ListJudges(c echo.Context) error {
	page := pageParams(c)
	filter := repositories.JudgeFilter{
		TribunalID:      c.QueryParam("tribunalId"),
		Search:          c.QueryParam("search"),
		IncludeInactive: c.QueryParam("includeInactive") == "true",
	}
	if id := c.Param("id"); id != "" {
		filter.TribunalID = id
	}
	judges, total, err := h.Tribunals.ListJudges(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return list(c, judges, total, page)
}

func (h *Handler) GetJudge(c echo.Context) error {
	judge, err := h.Tribunals.GetJudge(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, judge)
}

func (h *Handler) CreateJudge(c echo.Context) error {
	var input services.JudgeInput
	if err := bind(c, &input); err != nil {
		return err
	}
	judge, err := h.Tribunals.CreateJudge(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return created(c, judge, "Judge created")
}

func (h *Handler) UpdateJudge(c echo.Context) error {
	var input services.JudgeInput
	if err := bind(c, &input); err != nil {
		return err
	}
	judge, err := h.Tribunals.UpdateJudge(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return ok(c, judge)
}

func (h *Handler) DeleteJudge(c echo.Context) error {
	result, err := h.Tribunals.DeleteJudge(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return deleted(c, "Judge", result)
}
