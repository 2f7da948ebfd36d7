// ABOUTME: Upsert operations for organizations, sites, and billtoshipto rows
// ABOUTME: Writes a parent organization and its site children inside the caller's transaction
package db

import (
	"database/sql"
	"fmt"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

// UpsertOrganization writes one organization with its sites and their
// billtoshipto rows. The caller owns the transaction, so a failure partway
// leaves no half-written record after rollback. Site rows mirror the
// source's current collection, so stale rows from a prior sync are dropped
// first (which also keeps the parent REPLACE legal under the foreign keys).
func UpsertOrganization(tx *sql.Tx, org *models.Organization, stamp, status string) error {
	for _, table := range []string{"billtoshipto", "sites"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE orgid = ?", org.OrgID); err != nil {
			return fmt.Errorf("refresh %s %s: %w", table, org.OrgID, err)
		}
	}

	_, err := tx.Exec(`
		INSERT OR REPLACE INTO organizations
			(orgid, description, basecurrency, active, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, org.OrgID, org.Description, org.BaseCurrency, boolToInt(org.Active), org.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert organization %s: %w", org.OrgID, err)
	}

	for i := range org.Sites {
		site := &org.Sites[i]
		if site.OrgID == "" {
			site.OrgID = org.OrgID
		}
		if err := upsertSite(tx, site, stamp, status); err != nil {
			return err
		}
	}

	return nil
}

func upsertSite(tx *sql.Tx, site *models.Site, stamp, status string) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO sites
			(siteid, orgid, description, active, systemid, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, site.SiteID, site.OrgID, site.Description, boolToInt(site.Active), site.SystemID, site.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert site %s/%s: %w", site.SiteID, site.OrgID, err)
	}

	for _, bts := range site.BillToShipTos {
		if bts.SiteID == "" {
			bts.SiteID = site.SiteID
		}
		if bts.OrgID == "" {
			bts.OrgID = site.OrgID
		}
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO billtoshipto
				(siteid, orgid, addresscode, billto, shipto, billtodefault, shiptodefault, _last_sync, _sync_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, bts.SiteID, bts.OrgID, bts.AddressCode,
			boolToInt(bts.BillTo), boolToInt(bts.ShipTo),
			boolToInt(bts.BillToDefault), boolToInt(bts.ShipToDefault), stamp, status)
		if err != nil {
			return fmt.Errorf("upsert billtoshipto %s/%s/%s: %w", bts.SiteID, bts.OrgID, bts.AddressCode, err)
		}
	}

	return nil
}

// ClearOrganizations removes all organization-family rows, children first.
func ClearOrganizations(tx *sql.Tx) error {
	for _, table := range []string{"billtoshipto", "sites", "organizations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
