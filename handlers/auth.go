package handlers

import (
	"errors"
	"strings"

	"lexfirm_api_go/middleware"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// RegisterUser creates an account and signs it in.
func (h *Handler) RegisterUser(c echo.Context) error {
	var input services.RegisterInput
	if err := bind(c, &input); err != nil {
		return err
	}
	result, err := h.Auth.Register(c.Request().Context(), input, c.RealIP())
	if err != nil {
		return err
	}
	return created(c, result, "User registered")
}

// Login exchanges credentials for a bearer token. Repeated failures from one
// address raise a security alert.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return services.Validation("email and password are required")
	}

	ip := c.RealIP()
	result, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password, ip)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			h.Monitor.TrackFailedLogin(ip, req.Email)
		}
		return err
	}
	h.Monitor.ResetIP(ip)
	return ok(c, result)
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(c.Request().Context(), middleware.GetActor(c)); err != nil {
		return err
	}
	return done(c, "Signed out")
}

// Me returns the authenticated user.
func (h *Handler) Me(c echo.Context) error {
	user, err := h.Auth.Profile(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return ok(c, user)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var input services.ProfileInput
	if err := bind(c, &input); err != nil {
		return err
	}
	user, err := h.Auth.UpdateProfile(c.Request().Context(), currentUserID(c), input)
	if err != nil {
		return err
	}
	return ok(c, user)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return services.Validation("currentPassword and newPassword are required")
	}
	if err := h.Auth.ChangePassword(c.Request().Context(), currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return done(c, "Password updated")
}

// SecurityAlerts lists recent brute-force alerts for administrators.
func (h *Handler) SecurityAlerts(c echo.Context) error {
	return ok(c, h.Monitor.RecentAlerts())
}

func currentUserID(c echo.Context) string {
	if user := middleware.GetCurrentUser(c); user != nil {
		return user.ID
	}
	return ""
}
