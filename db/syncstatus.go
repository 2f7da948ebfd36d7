// ABOUTME: Database operations for the sync_status audit table
// ABOUTME: Tracks per-endpoint last sync time, record counts, and outcomes
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

// GetSyncStatus retrieves the status row for an endpoint, or nil when the
// endpoint has never synced.
func GetSyncStatus(db *sql.DB, endpoint string) (*models.SyncStatus, error) {
	var status models.SyncStatus
	var lastSync sql.NullString
	var message sql.NullString
	var updatedAt string

	err := db.QueryRow(`
		SELECT endpoint, last_sync, record_count, status, message, updated_at
		FROM sync_status
		WHERE endpoint = ?
	`, endpoint).Scan(
		&status.Endpoint,
		&lastSync,
		&status.RecordCount,
		&status.Status,
		&message,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}

	if lastSync.Valid {
		if t, perr := parseStoredTime(lastSync.String); perr == nil {
			status.LastSync = &t
		}
	}
	if message.Valid {
		status.Message = message.String
	}
	if t, perr := parseStoredTime(updatedAt); perr == nil {
		status.UpdatedAt = t
	}

	return &status, nil
}

// RecordSyncResult upserts the outcome of one endpoint sync. last_sync is
// only advanced on success or partial success so a failed run does not move
// the incremental watermark past unfetched data.
func RecordSyncResult(db *sql.DB, result models.SyncResult, at time.Time) error {
	stamp := at.UTC().Format(time.RFC3339)

	if result.Status == models.StatusSuccess || result.Status == models.StatusPartial {
		_, err := db.Exec(`
			INSERT INTO sync_status (endpoint, last_sync, record_count, status, message, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(endpoint) DO UPDATE SET
				last_sync = excluded.last_sync,
				record_count = excluded.record_count,
				status = excluded.status,
				message = excluded.message,
				updated_at = excluded.updated_at
		`, result.Endpoint, stamp, result.RecordCount, result.Status, result.Message, stamp)
		if err != nil {
			return fmt.Errorf("failed to record sync result: %w", err)
		}
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO sync_status (endpoint, record_count, status, message, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(endpoint) DO UPDATE SET
			record_count = excluded.record_count,
			status = excluded.status,
			message = excluded.message,
			updated_at = excluded.updated_at
	`, result.Endpoint, result.RecordCount, result.Status, result.Message, stamp)
	if err != nil {
		return fmt.Errorf("failed to record sync result: %w", err)
	}
	return nil
}

// ListSyncStatuses returns every endpoint's status row ordered by name.
func ListSyncStatuses(db *sql.DB) ([]models.SyncStatus, error) {
	rows, err := db.Query(`
		SELECT endpoint, last_sync, record_count, status, message, updated_at
		FROM sync_status
		ORDER BY endpoint
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var statuses []models.SyncStatus
	for rows.Next() {
		var status models.SyncStatus
		var lastSync sql.NullString
		var message sql.NullString
		var updatedAt string

		if err := rows.Scan(
			&status.Endpoint,
			&lastSync,
			&status.RecordCount,
			&status.Status,
			&message,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync status: %w", err)
		}

		if lastSync.Valid {
			if t, perr := parseStoredTime(lastSync.String); perr == nil {
				status.LastSync = &t
			}
		}
		if message.Valid {
			status.Message = message.String
		}
		if t, perr := parseStoredTime(updatedAt); perr == nil {
			status.UpdatedAt = t
		}

		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync statuses: %w", err)
	}

	return statuses, nil
}

// parseStoredTime accepts both the RFC3339 stamps this package writes and
// the "datetime('now')" default SQLite emits for fresh rows.
func parseStoredTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
