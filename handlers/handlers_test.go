package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lexfirm_api_go/config"
	"lexfirm_api_go/middleware"
	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"
	"lexfirm_api_go/services/i18n"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	e     *echo.Echo
	repos *repositories.Repositories
	token string
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Pagination *Pagination     `json:"pagination"`
	Totals     json.RawMessage `json:"totals"`
	Stack      string          `json:"stack"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	require.NoError(t, i18n.Load())

	db, err := gorm.Open(sqlite.Open("file:mem_"+uuid.NewString()+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{
		Environment:        "development",
		JWTSecret:          "handler-test-secret",
		JWTExpiresIn:       time.Hour,
		UploadMaxSize:      1 << 20,
		UploadMaxFiles:     3,
		MonthlyHoursTarget: 350,
	}
	repos := repositories.New(db)
	h := New(cfg, repos, services.NewLocalStorage(t.TempDir()))

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(cfg)
	e.Use(middleware.Locale(false))
	limiter := middleware.NewLoginRateLimiter()
	t.Cleanup(limiter.Stop)
	h.RegisterRoutes(e, limiter)

	s := &testServer{e: e, repos: repos}
	resp := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ana@lexfirm.mx", "password": "Secreto123", "name": "Ana Admin",
	}, http.StatusCreated)
	var auth services.AuthResult
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	s.token = auth.Token
	return s
}

func (s *testServer) request(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if s.token != "" && req.Header.Get(echo.HeaderAuthorization) == "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// do sends body as JSON, checks the status and decodes the envelope.
func (s *testServer) do(t *testing.T, method, path string, body interface{}, wantStatus int) envelope {
	t.Helper()
	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := s.request(t, req)
	require.Equal(t, wantStatus, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func (s *testServer) createID(t *testing.T, path string, body interface{}) string {
	t.Helper()
	env := s.do(t, http.MethodPost, path, body, http.StatusCreated)
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

// seedCase creates a client, a lawyer and a case through the API.
func (s *testServer) seedCase(t *testing.T) (caseID, lawyerID string) {
	t.Helper()
	clientID := s.createID(t, "/api/clients", map[string]interface{}{"name": "Cliente X", "type": models.ClientTypeCompany})
	lawyerID = s.createID(t, "/api/lawyers", map[string]interface{}{"name": "Abogado Y", "email": "y@lexfirm.mx", "hourlyRate": 1000})
	caseID = s.createID(t, "/api/cases", map[string]interface{}{"name": "Contrato", "clientId": clientID, "lawyerId": lawyerID})
	return caseID, lawyerID
}

func TestCaseBillingFlow(t *testing.T) {
	s := newTestServer(t)
	caseID, lawyerID := s.seedCase(t)

	detail := s.do(t, http.MethodGet, "/api/cases/"+caseID, nil, http.StatusOK)
	var kase struct {
		CaseNumber string `json:"caseNumber"`
	}
	require.NoError(t, json.Unmarshal(detail.Data, &kase))
	assert.Equal(t, fmt.Sprintf("LEX-%d-001", time.Now().Year()), kase.CaseNumber)

	s.do(t, http.MethodPost, "/api/time-entries", map[string]interface{}{
		"caseId":      caseID,
		"lawyerId":    lawyerID,
		"hours":       3.5,
		"hourlyRate":  1000,
		"description": "Revisión de contrato",
	}, http.StatusCreated)

	detail = s.do(t, http.MethodGet, "/api/cases/"+caseID, nil, http.StatusOK)
	var withStats struct {
		BilledHours float64            `json:"billedHours"`
		Stats       services.CaseStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(detail.Data, &withStats))
	assert.Equal(t, 3.5, withStats.BilledHours)
	assert.Equal(t, 3.5, withStats.Stats.TotalHours)
	assert.Equal(t, 3.5, withStats.Stats.BilledHours)
	assert.Equal(t, 3500.0, withStats.Stats.TotalAmount)

	t.Run("List carries totals and pagination", func(t *testing.T) {
		env := s.do(t, http.MethodGet, "/api/time-entries?caseId="+caseID, nil, http.StatusOK)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, int64(1), env.Pagination.Total)
		assert.Equal(t, 1, env.Pagination.Pages)

		var totals repositories.TimeEntryTotals
		require.NoError(t, json.Unmarshal(env.Totals, &totals))
		assert.Equal(t, 3500.0, totals.TotalAmount)
	})

	t.Run("Export is a spreadsheet", func(t *testing.T) {
		rec := s.request(t, httptest.NewRequest(http.MethodGet, "/api/time-entries/export", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), ".xlsx")
		assert.Equal(t, "PK", rec.Body.String()[:2])
	})

	t.Run("Archive closes without removing", func(t *testing.T) {
		s.do(t, http.MethodDelete, "/api/cases/"+caseID, nil, http.StatusOK)
		env := s.do(t, http.MethodGet, "/api/cases/"+caseID, nil, http.StatusOK)
		var archived struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &archived))
		assert.Equal(t, models.CaseStatusArchived, archived.Status)
	})
}

func TestErrorEnvelope(t *testing.T) {
	s := newTestServer(t)

	t.Run("Invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
		rec := s.request(t, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("Unknown case", func(t *testing.T) {
		env := s.do(t, http.MethodGet, "/api/cases/"+uuid.NewString(), nil, http.StatusNotFound)
		assert.False(t, env.Success)
		assert.Equal(t, "Case not found", env.Message)
		assert.Equal(t, services.ErrNotFound.Error(), env.Error)
	})

	t.Run("Malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := s.request(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Validation", func(t *testing.T) {
		env := s.do(t, http.MethodPost, "/api/hearings", map[string]string{"date": "2026-01-01"}, http.StatusBadRequest)
		assert.Equal(t, services.ErrValidation.Error(), env.Error)
	})

	t.Run("Bad date filter", func(t *testing.T) {
		s.do(t, http.MethodGet, "/api/hearings?from=tomorrow", nil, http.StatusBadRequest)
	})
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	_, lawyerID := s.seedCase(t)

	env := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "luis@lexfirm.mx", "password": "Secreto123", "name": "Luis",
	}, http.StatusCreated)
	var second services.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, models.RoleLawyer, second.User.Role)

	req := httptest.NewRequest(http.MethodDelete, "/api/lawyers/"+lawyerID, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+second.Token)
	assert.Equal(t, http.StatusForbidden, s.request(t, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/security-alerts", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+second.Token)
	assert.Equal(t, http.StatusForbidden, s.request(t, req).Code)

	env = s.do(t, http.MethodDelete, "/api/lawyers/"+lawyerID, nil, http.StatusOK)
	var result services.DeleteResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Archived)
}

func TestDocumentUploadAndDownload(t *testing.T) {
	s := newTestServer(t)
	caseID, _ := s.seedCase(t)

	upload := func(filename string, content []byte) *httptest.ResponseRecorder {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("caseId", caseID))
		require.NoError(t, writer.WriteField("category", models.DocumentCategoryContracts))
		part, err := writer.CreateFormFile("files[]", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
		req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
		return s.request(t, req)
	}

	rec := upload("notas.txt", []byte("hola mundo"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var docs []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &docs))
	require.Len(t, docs, 1)

	rec = s.request(t, httptest.NewRequest(http.MethodGet, "/api/documents/"+docs[0].ID+"/download", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hola mundo", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `filename=notas.txt`)

	t.Run("Rejected type", func(t *testing.T) {
		rec := upload("run.exe", []byte("MZ\x90\x00"))
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("Not multipart", func(t *testing.T) {
		s.do(t, http.MethodPost, "/api/documents", map[string]string{"caseId": caseID}, http.StatusBadRequest)
	})

	t.Run("Soft then permanent delete", func(t *testing.T) {
		s.do(t, http.MethodDelete, "/api/documents/"+docs[0].ID, nil, http.StatusOK)
		s.do(t, http.MethodGet, "/api/documents/"+docs[0].ID, nil, http.StatusNotFound)
		s.do(t, http.MethodDelete, "/api/documents/"+docs[0].ID+"/permanent", nil, http.StatusOK)
	})
}

func TestDashboardEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.seedCase(t)

	env := s.do(t, http.MethodGet, "/api/dashboard/stats", nil, http.StatusOK)
	var stats struct {
		Cases struct {
			Total int64 `json:"total"`
		} `json:"cases"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.Cases.Total)

	env = s.do(t, http.MethodGet, "/api/dashboard/monthly-hours?target=100", nil, http.StatusOK)
	var months []services.MonthlyHours
	require.NoError(t, json.Unmarshal(env.Data, &months))
	require.Len(t, months, 6)
	assert.Equal(t, 100, months[5].Target)

	env = s.do(t, http.MethodGet, "/api/dashboard/activities?limit=2", nil, http.StatusOK)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Limit)
	assert.GreaterOrEqual(t, env.Pagination.Total, int64(3))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer ignored")
	rec := s.request(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
