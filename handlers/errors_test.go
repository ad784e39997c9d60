package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lexfirm_api_go/config"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		err         error
		wantStatus  int
		wantMessage string
		wantStack   bool
	}{
		{"App error", "production", services.Conflict("RFC already registered"), http.StatusConflict, "RFC already registered", false},
		{"Wrapped app error", "production", fmt.Errorf("saving: %w", services.PayloadTooLarge("too big")), http.StatusRequestEntityTooLarge, "too big", false},
		{"Echo error", "production", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down", false},
		{"Record not found", "production", gorm.ErrRecordNotFound, http.StatusNotFound, "Resource not found", false},
		{"Duplicate key", "production", gorm.ErrDuplicatedKey, http.StatusConflict, "Resource already exists", false},
		{"Hidden cause in production", "production", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error", false},
		{"Cause shown in development", "development", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/x", nil), rec)

			HTTPErrorHandler(&config.Config{Environment: tt.env})(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantStack, resp.Stack != "")
			if tt.wantStack {
				assert.Equal(t, "disk on fire", resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandlerHead(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/api/x", nil), rec)

	HTTPErrorHandler(&config.Config{})(services.NotFound("Case"), c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}
