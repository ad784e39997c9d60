package handlers

import (
	"lexfirm_api_go/middleware"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ListClients(c echo.Context) error {
	page := pageParams(c)
	filter := repositories.ClientFilter{
		Type:            c.QueryParam("type"),
		Search:          c.QueryParam("search"),
		IncludeInactive: c.QueryParam("includeInactive") == "true",
	}
	clients, total, err := h.Clients.List(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return list(c, clients, total, page)
}

func (h *Handler) GetClient(c echo.Context) error {
	client, err := h.Clients.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, client)
}

func (h *Handler) CreateClient(c echo.Context) error {
	var input services.ClientInput
	if err := bind(c, &input); err != nil {
		return err
	}
	client, err := h.Clients.Create(c.Request().Context(), middleware.GetActor(c), input)
	if err != nil {
		return err
	}
	return created(c, client, "Client created")
}

func (h *Handler) UpdateClient(c echo.Context) error {
	var input services.ClientInput
	if err := bind(c, &input); err != nil {
		return err
	}
	client, err := h.Clients.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return ok(c, client)
}

func (h *Handler) DeleteClient(c echo.Context) error {
	result, err := h.Clients.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return deleted(c, "Client", result)
}
