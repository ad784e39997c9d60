package handlers

import (
	"time"

	"lexfirm_api_go/middleware"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

// ListHearings filters by case, tribunal and status. ?upcoming=true keeps
// pending hearings from now on; ?from= and ?to= bound the date range, both
// inclusive.
func (h *Handler) ListHearings(c echo.Context) error {
	page := pageParams(c)
	filter := repositories.HearingFilter{
		CaseID:     c.QueryParam("caseId"),
		TribunalID: c.QueryParam("tribunalId"),
		Status:     c.QueryParam("status"),
	}
	if upcoming := queryBool(c, "upcoming"); upcoming != nil && *upcoming {
		now := time.Now()
		filter.UpcomingFrom = &now
	}

	from, err := queryDate(c, "from")
	if err != nil {
		return err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return err
	}
	filter.From = from
	if to != nil {
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	hearings, total, err := h.Hearings.List(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return list(c, hearings, total, page)
}

func (h *Handler) UpcomingHearings(c echo.Context) error {
	hearings, err := h.Hearings.Upcoming(c.Request().Context(), queryInt(c, "limit", 10))
	if err != nil {
		return err
	}
	return ok(c, hearings)
}

// HearingCalendar groups a month's hearings by day; defaults to this month.
func (h *Handler) HearingCalendar(c echo.Context) error {
	now := time.Now()
	year := queryInt(c, "year", now.Year())
	month := queryInt(c, "month", int(now.Month()))
	days, err := h.Hearings.Calendar(c.Request().Context(), year, time.Month(month))
	if err != nil {
		return err
	}
	return ok(c, days)
}

func (h *Handler) GetHearing(c echo.Context) error {
	hearing, err := h.Hearings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, hearing)
}

func (h *Handler) CreateHearing(c echo.Context) error {
	var input services.HearingInput
	if err := bind(c, &input); err != nil {
		return err
	}
	hearing, err := h.Hearings.Create(c.Request().Context(), middleware.GetActor(c), input)
	if err != nil {
		return err
	}
	return created(c, hearing, "Hearing scheduled")
}

func (h *Handler) UpdateHearing(c echo.Context) error {
	var input services.HearingInput
	if err := bind(c, &input); err != nil {
		return err
	}
	hearing, err := h.Hearings.Update(c.Request().Context(), middleware.GetActor(c), c.Param("id"), input)
	if err != nil {
		return err
	}
	return ok(c, hearing)
}

func (h *Handler) DeleteHearing(c echo.Context) error {
	if err := h.Hearings.Delete(c.Request().Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, "Hearing deleted")
}
