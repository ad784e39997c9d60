package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:mem_"+uuid.NewString()+"?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return repositories.New(db)
}

func fixedNow(value string) func() time.Time {
	at, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return at }
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

// fixture holds a minimal firm: an admin, one lawyer, one client.
type fixture struct {
	repos  *repositories.Repositories
	admin  Actor
	lawyer *models.Lawyer
	client *models.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, setupTestRepos(t))
}

// newFixtureOn seeds the minimal firm into repos.
func newFixtureOn(t *testing.T, repos *repositories.Repositories) *fixture {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Name: "Ana Admin", Email: "ana@lexfirm.mx", Password: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, repos.Users.Create(ctx, user))

	admin := ActorFromUser(user, "127.0.0.1")
	lawyer, err := NewLawyerService(repos).Create(ctx, admin, LawyerInput{
		Name:       strPtr("Laura Méndez"),
		Email:      strPtr("laura@lexfirm.mx"),
		HourlyRate: floatPtr(1500),
	})
	require.NoError(t, err)

	client, err := NewClientService(repos).Create(ctx, admin, ClientInput{
		Name: strPtr("Grupo Norte"),
		Type: strPtr(models.ClientTypeCompany),
	})
	require.NoError(t, err)

	return &fixture{repos: repos, admin: admin, lawyer: lawyer, client: client}
}

func (f *fixture) createCase(t *testing.T, cases *CaseService, name string) *models.Case {
	t.Helper()
	c, err := cases.Create(context.Background(), f.admin, CaseInput{
		Name:     strPtr(name),
		ClientID: &f.client.ID,
		LawyerID: &f.lawyer.ID,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) billedHours(t *testing.T, caseID string) float64 {
	t.Helper()
	c, err := f.repos.Cases.FindByID(context.Background(), caseID)
	require.NoError(t, err)
	return c.BilledHours
}

// createFileHeader builds a multipart file header with an explicit Content-Type.
func createFileHeader(t *testing.T, filename string, content []byte, contentType string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}
