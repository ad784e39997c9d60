package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"lexfirm_api_go/config"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var kindStatus = []struct {
	kind   error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrConflict, http.StatusConflict},
	{services.ErrValidation, http.StatusBadRequest},
	{services.ErrUnauthorized, http.StatusUnauthorized},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
	{services.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
}

// HTTPErrorHandler turns any handler error into the JSON envelope. Causes of
// server errors are only exposed outside production.
func HTTPErrorHandler(cfg *config.Config) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := errorResponse(err)
		if status >= http.StatusInternalServerError {
			zap.S().Errorw("Request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
			if !cfg.IsProduction() {
				resp.Error = err.Error()
				resp.Stack = string(debug.Stack())
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			zap.S().Errorw("Failed to write error response", "error", err)
		}
	}
}

func errorResponse(err error) (int, Response) {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		for _, ks := range kindStatus {
			if errors.Is(appErr.Kind, ks.kind) {
				return ks.status, Response{Message: appErr.Message, Error: ks.kind.Error()}
			}
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if httpErr.Message != nil {
			message = fmt.Sprint(httpErr.Message)
		}
		return httpErr.Code, Response{Message: message, Error: http.StatusText(httpErr.Code)}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, Response{Message: "Resource not found", Error: services.ErrNotFound.Error()}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, Response{Message: "Resource already exists", Error: services.ErrConflict.Error()}
	}

	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) {
			return ks.status, Response{Message: ks.kind.Error(), Error: ks.kind.Error()}
		}
	}
	return http.StatusInternalServerError, Response{Message: "Internal server error"}
}
