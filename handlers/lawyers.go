package handlers

import (
	"net/http"

	"lexfirm_api_go/middleware"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

// ListLawyers returns lawyers with their case load and hours this month.
func (h *Handler) ListLawyers(c echo.Context) error {
	page := pageParams(c)
	filter := repositories.LawyerFilter{
		Status:          c.QueryParam("status"),
		Specialty:       c.QueryParam("specialty"),
		Search:          c.QueryParam("search"),
		IncludeInactive: c.QueryParam("includeInactive") == "true",
	}
	lawyers, total, err := h.Lawyers.List(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return list(c, lawyers, total, page)
}

func (h *Handler) GetLawyer(c echo.Context) error {
	lawyer, err := h.Lawyers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, lawyer)
}

func (h *Handler) CreateLawyer(c echo.Context) error {
	var input services.LawyerInput
	if err := bind(c, &input); err != nil {
		return err
	}
	lawyer, err := h.Lawyers.Create(c.Request().Context(), middleware.GetActor(c), input)
	if err != nil {
		return err
	}
	return created(c, lawyer, "Lawyer created")
}

func (h *Handler) UpdateLawyer(c echo.Context) error {
	var input services.LawyerInput
	if err := bind(c, &input); err != nil {
		return err
	}
	lawyer, err := h.Lawyers.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return ok(c, lawyer)
}

// DeleteLawyer deactivates a lawyer with history and removes one without.
func (h *Handler) DeleteLawyer(c echo.Context) error {
	result, err := h.Lawyers.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return deleted(c, "Lawyer", result)
}

// deleted reports an archive-or-remove outcome.
func deleted(c echo.Context, entity string, result *services.DeleteResult) error {
	message := entity + " deleted"
	if result.Archived {
		message = entity + " deactivated because other records reference it"
	}
	return c.JSON(http.StatusOK, Response{Success: true, Data: result, Message: message})
}
