package handlers

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Response is the envelope of every JSON response.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Totals     interface{} `json:"totals,omitempty"`
	Stack      string      `json:"stack,omitempty"`
}

// Pagination describes the page a list response holds.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

func done(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

func paged(data interface{}, total int64, page repositories.Page) Response {
	return Response{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: page.Pages(total),
		},
	}
}

func list(c echo.Context, data interface{}, total int64, page repositories.Page) error {
	return c.JSON(http.StatusOK, paged(data, total, page))
}

// bind decodes the JSON body into v.
func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return services.Validation("invalid request body")
	}
	return nil
}

// pageParams reads ?page= and ?limit=.
func pageParams(c echo.Context) repositories.Page {
	return repositories.NewPage(queryInt(c, "page", 1), queryInt(c, "limit", defaultPageSize), defaultPageSize, maxPageSize)
}

// sortParams reads ?sort= and ?order=asc|desc.
func sortParams(c echo.Context) repositories.Sort {
	return repositories.Sort{
		Field: c.QueryParam("sort"),
		Desc:  !strings.EqualFold(c.QueryParam("order"), "asc"),
	}
}

func queryInt(c echo.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return n
}

func queryBool(c echo.Context, name string) *bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	if err != nil {
		return nil
	}
	return &v
}

// queryDate parses a YYYY-MM-DD parameter as local midnight.
func queryDate(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, raw, time.Local)
	if err != nil {
		return nil, services.Validation(name + " must be YYYY-MM-DD")
	}
	return &t, nil
}

// attachment builds a Content-Disposition value for a download.
func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
