package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"lexfirm_api_go/db"
	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFileRepos opens a WAL database on disk, configured like the server.
func setupFileRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	conn, err := db.Open(db.Options{
		Path:        filepath.Join(t.TempDir(), "lexfirm.db"),
		Environment: "production",
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return repositories.New(conn)
}

// parallel runs fn n times at once and returns the errors.
func parallel(n int, fn func(i int) error) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := fn(i); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return errs
}

func TestConcurrentCaseNumbers(t *testing.T) {
	f := newFixtureOn(t, setupFileRepos(t))
	ctx := context.Background()
	cases := NewCaseService(f.repos)

	const n = 20
	var (
		mu      sync.Mutex
		numbers = map[string]bool{}
	)
	errs := parallel(n, func(int) error {
		c, err := cases.Create(ctx, f.admin, CaseInput{
			Name:     strPtr("Parallel"),
			ClientID: &f.client.ID,
			LawyerID: &f.lawyer.ID,
		})
		if err != nil {
			return err
		}
		mu.Lock()
		numbers[c.CaseNumber] = true
		mu.Unlock()
		return nil
	})

	require.Empty(t, errs)
	assert.Len(t, numbers, n)
}

func TestConcurrentBilledHours(t *testing.T) {
	f := newFixtureOn(t, setupFileRepos(t))
	ctx := context.Background()
	c := f.createCase(t, NewCaseService(f.repos), "Busy")
	entries := NewTimeEntryService(f.repos)

	const n = 30
	errs := parallel(n, func(i int) error {
		_, err := entries.Create(ctx, f.admin, TimeEntryInput{
			CaseID:      &c.ID,
			LawyerID:    &f.lawyer.ID,
			Hours:       floatPtr(1),
			IsBillable:  boolPtr(i%3 != 0),
			Description: strPtr("Parallel work"),
		})
		return err
	})
	require.Empty(t, errs)

	assert.Equal(t, sumBillable(t, f.repos, c.ID), f.billedHours(t, c.ID))
	assert.Equal(t, 20.0, f.billedHours(t, c.ID))
}
