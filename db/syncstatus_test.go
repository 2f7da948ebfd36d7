// ABOUTME: Tests for the sync_status audit table operations
// ABOUTME: Verifies watermark advancement rules and upsert behavior per outcome
package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

func TestGetSyncStatusMissing(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	status, err := GetSyncStatus(database, "workorders")
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestRecordSyncResultSuccessAdvancesWatermark(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, RecordSyncResult(database, models.SyncResult{
		Endpoint:    "workorders",
		RecordCount: 12,
		Status:      models.StatusSuccess,
	}, at))

	status, err := GetSyncStatus(database, "workorders")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.StatusSuccess, status.Status)
	assert.Equal(t, 12, status.RecordCount)
	require.NotNil(t, status.LastSync)
	assert.True(t, status.LastSync.Equal(at))
}

func TestRecordSyncResultErrorKeepsWatermark(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	first := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, RecordSyncResult(database, models.SyncResult{
		Endpoint:    "assets",
		RecordCount: 5,
		Status:      models.StatusSuccess,
	}, first))

	later := first.Add(time.Hour)
	require.NoError(t, RecordSyncResult(database, models.SyncResult{
		Endpoint: "assets",
		Status:   models.StatusError,
		Message:  "connection refused",
	}, later))

	status, err := GetSyncStatus(database, "assets")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.StatusError, status.Status)
	assert.Equal(t, "connection refused", status.Message)
	// A failed run must not move the incremental watermark
	require.NotNil(t, status.LastSync)
	assert.True(t, status.LastSync.Equal(first))
}

func TestListSyncStatuses(t *testing.T) {
	database := setupTestDB(t)
	defer func() { _ = database.Close() }()

	at := time.Now().UTC()
	for _, endpoint := range []string{"organizations", "assets", "domains"} {
		require.NoError(t, RecordSyncResult(database, models.SyncResult{
			Endpoint: endpoint,
			Status:   models.StatusSuccess,
		}, at))
	}

	statuses, err := ListSyncStatuses(database)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, "assets", statuses[0].Endpoint)
	assert.Equal(t, "domains", statuses[1].Endpoint)
	assert.Equal(t, "organizations", statuses[2].Endpoint)
}
