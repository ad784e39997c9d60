package handlers

import (
	"lexfirm_api_go/repositories"

	"github.com/labstack/echo/v4"
)

// GetDashboard returns every widget in one response.
func (h *Handler) GetDashboard(c echo.Context) error {
	dashboard, err := h.Dashboard.Full(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, dashboard)
}

func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.Dashboard.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, stats)
}

func (h *Handler) DashboardCasesByCategory(c echo.Context) error {
	counts, err := h.Dashboard.CasesByCategory(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, counts)
}

// DashboardMonthlyHours returns six months of hours against ?target=.
func (h *Handler) DashboardMonthlyHours(c echo.Context) error {
	months, err := h.Dashboard.MonthlyHours(c.Request().Context(), queryInt(c, "target", h.cfg.MonthlyHoursTarget))
	if err != nil {
		return err
	}
	return ok(c, months)
}

func (h *Handler) DashboardRecentCases(c echo.Context) error {
	cases, err := h.Dashboard.RecentCases(c.Request().Context(), queryInt(c, "limit", 5))
	if err != nil {
		return err
	}
	return ok(c, cases)
}

func (h *Handler) DashboardUpcomingHearings(c echo.Context) error {
	hearings, err := h.Dashboard.UpcomingHearings(c.Request().Context(), queryInt(c, "limit", 5))
	if err != nil {
		return err
	}
	return ok(c, hearings)
}

func (h *Handler) DashboardActivity(c echo.Context) error {
	items, err := h.Dashboard.RecentActivity(c.Request().Context(), queryInt(c, "limit", 5))
	if err != nil {
		return err
	}
	return ok(c, items)
}

// ListActivities pages through the full activity log.
func (h *Handler) ListActivities(c echo.Context) error {
	page := pageParams(c)
	filter := repositories.ActivityFilter{
		Type:       c.QueryParam("type"),
		EntityType: c.QueryParam("entityType"),
		EntityID:   c.QueryParam("entityId"),
		UserID:     c.QueryParam("userId"),
	}
	activities, total, err := h.Dashboard.Activities(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return list(c, activities, total, page)
}
