package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupModelsTestDB(t *testing.T) *gorm.DB {
	dsn := "file:models_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Lawyer{}, &Client{}, &Tribunal{}, &Judge{}, &Case{}, &TimeEntry{}, &Hearing{}, &Document{}, &Activity{}))
	return db
}

func TestFormatCaseNumber(t *testing.T) {
	assert.Equal(t, "LEX-2026-001", FormatCaseNumber(2026, 1))
	assert.Equal(t, "LEX-2025-042", FormatCaseNumber(2025, 42))
	assert.Equal(t, "LEX-2025-1000", FormatCaseNumber(2025, 1000))
	assert.Equal(t, "LEX-2026-%", CaseNumberPattern(2026))
}

func TestTimeEntryBeforeSave(t *testing.T) {
	entry := &TimeEntry{Hours: 3.5, HourlyRate: 1000}
	require.NoError(t, entry.BeforeSave(nil))
	assert.Equal(t, 3500.0, entry.TotalAmount)

	entry = &TimeEntry{Hours: 1.333, HourlyRate: 3}
	require.NoError(t, entry.BeforeSave(nil))
	assert.Equal(t, 4.0, entry.TotalAmount)
}

func TestTimeEntryBillableHours(t *testing.T) {
	assert.Equal(t, 2.0, (&TimeEntry{Hours: 2, IsBillable: true}).BillableHours())
	assert.Equal(t, 0.0, (&TimeEntry{Hours: 2, IsBillable: false}).BillableHours())
	assert.True(t, (&TimeEntry{Status: TimeEntryStatusInvoiced}).IsLocked())
	assert.False(t, (&TimeEntry{Status: TimeEntryStatusApproved}).IsLocked())
}

func TestCombineDateTime(t *testing.T) {
	at, err := CombineDateTime("2026-03-09", "10:30:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC), at)

	at, err = CombineDateTime("2026-03-09", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 0, at.Hour())

	_, err = CombineDateTime("09/03/2026", "10:00", time.UTC)
	assert.Error(t, err)
}

func TestHearingScheduledAtDerivedOnSave(t *testing.T) {
	db := setupModelsTestDB(t)

	hearing := Hearing{CaseID: uuid.New().String(), Date: "2026-05-02", Time: "09:15", Type: HearingTypeOther, Status: HearingStatusScheduled}
	require.NoError(t, db.Create(&hearing).Error)

	var stored Hearing
	require.NoError(t, db.First(&stored, "id = ?", hearing.ID).Error)
	assert.Equal(t, 2026, stored.ScheduledAt.Year())
	assert.Equal(t, 9, stored.ScheduledAt.Local().Hour())
	assert.Equal(t, 15, stored.ScheduledAt.Local().Minute())
}

func TestActivityIsAppendOnly(t *testing.T) {
	db := setupModelsTestDB(t)

	activity := Activity{Type: ActivityOther, Description: "seeded"}
	require.NoError(t, db.Create(&activity).Error)
	assert.NotEmpty(t, activity.ID)

	activity.Description = "changed"
	err := db.Save(&activity).Error
	assert.ErrorIs(t, err, ErrActivityImmutable)

	err = db.Delete(&activity).Error
	assert.ErrorIs(t, err, ErrActivityImmutable)

	var stored Activity
	require.NoError(t, db.First(&stored, "id = ?", activity.ID).Error)
	assert.Equal(t, "seeded", stored.Description)
}

func TestArchiveUpdates(t *testing.T) {
	now := time.Now()
	by := "user-1"

	var archivables = []Archivable{Client{}, Lawyer{}, Tribunal{}, Judge{}}
	for _, a := range archivables {
		assert.Equal(t, false, a.ArchiveUpdates(now, &by)["is_active"])
	}

	doc := Document{}.ArchiveUpdates(now, &by)
	assert.Equal(t, true, doc["is_deleted"])
	assert.Equal(t, &by, doc["deleted_by"])
	assert.Equal(t, LawyerStatusInactive, Lawyer{}.ArchiveUpdates(now, nil)["status"])
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidCaseStatus(CaseStatusAppeal))
	assert.False(t, IsValidCaseStatus("OPEN"))
	assert.True(t, IsValidCaseCategory(CaseCategoryTax))
	assert.False(t, IsValidCaseCategory("Arbitraje"))
	assert.True(t, IsValidTribunalType(TribunalTypeArbitration))
	assert.True(t, IsValidPriority(PriorityUrgent))
	assert.True(t, IsValidWorkType(WorkTypeClientMeeting))
	assert.True(t, IsValidDocumentCategory(DocumentCategoryPowers))
	assert.True(t, IsValidHearingType(HearingTypeMediation))
	assert.True(t, IsValidRole(RoleAssistant))
	assert.False(t, IsValidRole("client"))
	assert.True(t, IsValidClientType(ClientTypeCompany))
	assert.True(t, IsValidDate("2026-02-28"))
	assert.False(t, IsValidDate("2026-02-30"))
}

func TestCaseIsOpen(t *testing.T) {
	for _, s := range ActiveCaseStatuses {
		assert.True(t, (&Case{Status: s}).IsOpen(), s)
	}
	assert.False(t, (&Case{Status: CaseStatusClosed}).IsOpen())
	assert.False(t, (&Case{Status: CaseStatusArchived}).IsOpen())
}
