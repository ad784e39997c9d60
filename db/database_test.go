package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalDSN(t *testing.T) {
	assert.Equal(t, "app.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate", localDSN("app.db"))
	assert.Equal(t, "file:x?mode=memory&_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate", localDSN("file:x?mode=memory"))
}

func TestTursoDSN(t *testing.T) {
	assert.Equal(t, "libsql://firm.turso.io", tursoDSN("libsql://firm.turso.io", ""))
	assert.Equal(t, "libsql://firm.turso.io?authToken=abc", tursoDSN("libsql://firm.turso.io", "abc"))
}

func TestAutoMigrateWithoutConnection(t *testing.T) {
	saved := DB
	DB = nil
	defer func() { DB = saved }()

	assert.Error(t, AutoMigrate())
	assert.NoError(t, Close())
}
