package middleware

import (
	"net/http"
	"strings"
	"time"

	"lexfirm_api_go/services/i18n"

	"github.com/labstack/echo/v4"
)

const (
	localeCookie     = "lang"
	ContextKeyLocale = "locale"
)

// Locale picks the response language.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. i18n default
func Locale(secureCookie bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := ""
			if q := normalizeLang(c.QueryParam("lang")); i18n.IsSupported(q) {
				lang = q
				c.SetCookie(&http.Cookie{
					Name:     localeCookie,
					Value:    lang,
					Expires:  time.Now().Add(24 * 365 * time.Hour),
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			} else if cookie, err := c.Cookie(localeCookie); err == nil && i18n.IsSupported(cookie.Value) {
				lang = cookie.Value
			}

			if lang == "" {
				lang = fromAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			}
			if lang == "" {
				lang = i18n.Default()
			}

			c.Set(ContextKeyLocale, lang)
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))
			return next(c)
		}
	}
}

// fromAcceptLanguage returns the first supported language in header order.
func fromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		if lang := normalizeLang(tag); i18n.IsSupported(lang) {
			return lang
		}
	}
	return ""
}

// normalizeLang reduces "es-MX" to "es".
func normalizeLang(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	primary, _, _ := strings.Cut(tag, "-")
	return primary
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get(ContextKeyLocale).(string); ok {
		return lang
	}
	return i18n.Default()
}
