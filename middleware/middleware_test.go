package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lexfirm_api_go/models"
	"lexfirm_api_go/services"
	"lexfirm_api_go/services/i18n"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "success")
}

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: "user-1", Name: "Ana", Role: models.RoleAdmin, IsActive: true}
	auth := new(mockAuthenticator)
	auth.On("Authenticate", mock.Anything, "good-token").Return(user, nil)
	auth.On("Authenticate", mock.Anything, "bad-token").Return(nil, services.Unauthorized("invalid token"))

	handler := RequireAuth(auth)(okHandler)

	t.Run("ValidToken", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/")
		c.Request().Header.Set(echo.HeaderAuthorization, "Bearer good-token")
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user, GetCurrentUser(c))
	})

	t.Run("LowercaseScheme", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/")
		c.Request().Header.Set(echo.HeaderAuthorization, "bearer good-token")
		assert.NoError(t, handler(c))
	})

	t.Run("MissingToken", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/")
		err := handler(c)
		assert.ErrorIs(t, err, services.ErrUnauthorized)
		assert.Nil(t, GetCurrentUser(c))
	})

	t.Run("WrongScheme", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/")
		c.Request().Header.Set(echo.HeaderAuthorization, "Basic Zm9vOmJhcg==")
		assert.ErrorIs(t, handler(c), services.ErrUnauthorized)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/")
		c.Request().Header.Set(echo.HeaderAuthorization, "Bearer bad-token")
		assert.ErrorIs(t, handler(c), services.ErrUnauthorized)
	})

	auth.AssertExpectations(t)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(okHandler)

	t.Run("Allowed", func(t *testing.T) {
		c, rec := newContext(http.MethodDelete, "/")
		c.Set(ContextKeyUser, &models.User{Role: models.RoleAdmin})
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Forbidden", func(t *testing.T) {
		c, _ := newContext(http.MethodDelete, "/")
		c.Set(ContextKeyUser, &models.User{Role: models.RoleLawyer})
		assert.ErrorIs(t, handler(c), services.ErrForbidden)
	})

	t.Run("Anonymous", func(t *testing.T) {
		c, _ := newContext(http.MethodDelete, "/")
		assert.ErrorIs(t, handler(c), services.ErrUnauthorized)
	})
}

func TestRequireWrite(t *testing.T) {
	handler := RequireWrite()(okHandler)
	viewer := &models.User{Role: models.RoleViewer, IsActive: true}
	lawyer := &models.User{Role: models.RoleLawyer, IsActive: true}

	tests := []struct {
		name    string
		method  string
		user    *models.User
		wantErr error
	}{
		{"viewer reads", http.MethodGet, viewer, nil},
		{"viewer writes", http.MethodPost, viewer, services.ErrForbidden},
		{"viewer deletes", http.MethodDelete, viewer, services.ErrForbidden},
		{"lawyer writes", http.MethodPut, lawyer, nil},
		{"anonymous writes", http.MethodPost, nil, services.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(tt.method, "/")
			if tt.user != nil {
				c.Set(ContextKeyUser, tt.user)
			}
			err := handler(c)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestActorContext(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/")
	c.Request().Header.Set(echo.HeaderXRealIP, "203.0.113.9")
	c.Set(ContextKeyUser, &models.User{ID: "user-1", Name: "Ana", Role: models.RoleAdmin})

	var actor services.Actor
	handler := ActorContext()(func(c echo.Context) error {
		actor = GetActor(c)
		return nil
	})
	require.NoError(t, handler(c))
	assert.Equal(t, "user-1", actor.UserID)
	assert.Equal(t, "203.0.113.9", actor.IPAddress)
	assert.True(t, actor.IsAdmin())
}

func TestLocale(t *testing.T) {
	require.NoError(t, i18n.Load())
	handler := Locale(false)(func(c echo.Context) error {
		return c.String(http.StatusOK, i18n.GetLocale(c.Request().Context()))
	})

	tests := []struct {
		name   string
		target string
		cookie string
		accept string
		want   string
	}{
		{"query wins", "/?lang=es", "en", "en-US", "es"},
		{"cookie", "/", "es", "en-US", "es"},
		{"accept language with region", "/", "", "es-MX,es;q=0.9,en;q=0.8", "es"},
		{"first supported accept language", "/", "", "fr-FR, en;q=0.5", "en"},
		{"unsupported query falls through", "/?lang=de", "", "es", "es"},
		{"default", "/", "", "", i18n.Default()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, tt.target)
			if tt.cookie != "" {
				c.Request().AddCookie(&http.Cookie{Name: localeCookie, Value: tt.cookie})
			}
			if tt.accept != "" {
				c.Request().Header.Set("Accept-Language", tt.accept)
			}
			require.NoError(t, handler(c))
			assert.Equal(t, tt.want, rec.Body.String())
			assert.Equal(t, tt.want, GetLocale(c))
		})
	}

	t.Run("query sets cookie", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/?lang=es-MX")
		require.NoError(t, handler(c))
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "lang=es")
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
	defer rl.Stop()
	handler := rl.Middleware()(okHandler)

	for i := 0; i < 2; i++ {
		c, rec := newContext(http.MethodPost, "/login")
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	c, rec := newContext(http.MethodPost, "/login")
	err := handler(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	t.Run("Keys are independent", func(t *testing.T) {
		assert.True(t, rl.Allow("198.51.100.7"))
	})

	t.Run("Window expiry resets the count", func(t *testing.T) {
		short := NewRateLimiter(RateLimitConfig{Requests: 1, Window: 10 * time.Millisecond})
		defer short.Stop()
		assert.True(t, short.Allow("k"))
		assert.False(t, short.Allow("k"))
		time.Sleep(20 * time.Millisecond)
		assert.True(t, short.Allow("k"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/")
	require.NoError(t, SecurityHeaders()(okHandler)(c))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.Equal(t, "DENY", rec.Header().Get(echo.HeaderXFrameOptions))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
}
