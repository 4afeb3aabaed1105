package model

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapati23/morning-briefing/src/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestInsertAndListRuns(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2025, 3, 20, 7, 0, 0, 0, time.UTC)

	for i, status := range []string{"ok", "none_passed", "unavailable"} {
		run := DigestRun{
			ID:            "run-" + status,
			StartedAt:     base.Add(time.Duration(i) * time.Hour),
			FinishedAt:    base.Add(time.Duration(i)*time.Hour + 1500*time.Millisecond),
			Status:        status,
			RowsSeen:      12,
			RowsParsed:    11,
			RowsSkipped:   1,
			RecordsPassed: 3 - i,
			ItemsRendered: 2,
		}
		if status == "unavailable" {
			run.Error = "fetch failed"
		}
		require.NoError(t, InsertRun(db, run))
	}

	runs, err := ListRecentRuns(db, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-unavailable", runs[0].ID)
	assert.Equal(t, "fetch failed", runs[0].Error)
	assert.Equal(t, base.Add(2*time.Hour), runs[0].StartedAt)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration())
	assert.Equal(t, "run-none_passed", runs[1].ID)
	assert.Equal(t, 2, runs[1].RecordsPassed)

	all, err := ListRecentRuns(db, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInsertRun_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	run := DigestRun{ID: "same", StartedAt: time.Now(), FinishedAt: time.Now(), Status: "ok"}
	require.NoError(t, InsertRun(db, run))
	assert.Error(t, InsertRun(db, run))
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, database.Migrate(db))
}
