// ABOUTME: Upsert operations for operating locations
// ABOUTME: Locations are site-scoped with no child tables of their own
package db

import (
	"database/sql"
	"fmt"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

// UpsertLocation writes one location row.
func UpsertLocation(tx *sql.Tx, loc *models.Location, stamp, status string) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO locations
			(location, siteid, orgid, description, status, type, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, loc.Location, loc.SiteID, loc.OrgID, loc.Description, loc.Status, loc.Type, loc.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert location %s/%s: %w", loc.Location, loc.SiteID, err)
	}
	return nil
}

// ClearLocations removes all location rows for a site, or every row when
// site is empty.
func ClearLocations(tx *sql.Tx, site string) error {
	var err error
	if site == "" {
		_, err = tx.Exec("DELETE FROM locations")
	} else {
		_, err = tx.Exec("DELETE FROM locations WHERE siteid = ?", site)
	}
	if err != nil {
		return fmt.Errorf("clear locations: %w", err)
	}
	return nil
}
