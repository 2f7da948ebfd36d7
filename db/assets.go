// ABOUTME: Upsert operations for assets and their six related sub-tables
// ABOUTME: Writes meters, specs, doclinks, location history, failures, and cost history under one parent
package db

import (
	"database/sql"
	"fmt"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

// UpsertAsset writes one asset with all of its related rows. Related rows
// mirror the source's current collections, so stale rows from a prior sync
// are dropped first (which also keeps the parent REPLACE legal under the
// foreign keys).
func UpsertAsset(tx *sql.Tx, a *models.Asset, stamp, status string) error {
	for _, table := range []string{"assetmeter", "assetspec", "assetdoclinks", "assetlocations", "assetfailure", "assetcosthistory"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE assetnum = ? AND siteid = ?", a.AssetNum, a.SiteID); err != nil {
			return fmt.Errorf("refresh %s %s/%s: %w", table, a.AssetNum, a.SiteID, err)
		}
	}

	_, err := tx.Exec(`
		INSERT OR REPLACE INTO assets
			(assetnum, siteid, orgid, description, status, location, parent, serialnum,
			 assettype, priority, purchaseprice, installdate, changedate, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.AssetNum, a.SiteID, a.OrgID, a.Description, a.Status, a.Location, a.Parent, a.SerialNum,
		a.AssetType, a.Priority, a.PurchasePrice, a.InstallDate, a.ChangeDate, a.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert asset %s/%s: %w", a.AssetNum, a.SiteID, err)
	}

	for _, m := range a.Meters {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO assetmeter
				(assetnum, siteid, metername, description, lastreading, lastreadingdate, unitofmeasure, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, a.AssetNum, a.SiteID, m.MeterName, m.Description, m.LastReading, m.LastReadingDate, m.UnitOfMeasure, stamp)
		if err != nil {
			return fmt.Errorf("upsert assetmeter %s/%s/%s: %w", a.AssetNum, a.SiteID, m.MeterName, err)
		}
	}

	for _, s := range a.Specs {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO assetspec
				(assetnum, siteid, assetattrid, alnvalue, numvalue, measureunit, section, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, a.AssetNum, a.SiteID, s.AssetAttrID, s.AlnValue, s.NumValue, s.MeasureUnit, s.Section, stamp)
		if err != nil {
			return fmt.Errorf("upsert assetspec %s/%s/%s: %w", a.AssetNum, a.SiteID, s.AssetAttrID, err)
		}
	}

	for _, d := range a.DocLinks {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO assetdoclinks
				(assetnum, siteid, docinfoid, document, description, urlname, doctype, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, a.AssetNum, a.SiteID, d.DocInfoID, d.Document, d.Description, d.URLName, d.DocType, stamp)
		if err != nil {
			return fmt.Errorf("upsert assetdoclink %s/%s/%d: %w", a.AssetNum, a.SiteID, d.DocInfoID, err)
		}
	}

	for _, h := range a.LocationHistory {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO assetlocations
				(assetnum, siteid, location, movedate, _last_sync)
			VALUES (?, ?, ?, ?, ?)
		`, a.AssetNum, a.SiteID, h.Location, h.MoveDate, stamp)
		if err != nil {
			return fmt.Errorf("upsert assetlocation %s/%s/%s: %w", a.AssetNum, a.SiteID, h.Location, err)
		}
	}

	for _, f := range a.Failures {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO assetfailure
				(assetnum, siteid, ticketid, failurecode, failuredate, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.AssetNum, a.SiteID, f.TicketID, f.FailureCode, f.FailureDate, stamp)
		if err != nil {
			return fmt.Errorf("upsert assetfailure %s/%s/%s: %w", a.AssetNum, a.SiteID, f.TicketID, err)
		}
	}

	for _, c := range a.CostHistory {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO assetcosthistory
				(assetnum, siteid, costtype, cost, costdate, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.AssetNum, a.SiteID, c.CostType, c.Cost, c.CostDate, stamp)
		if err != nil {
			return fmt.Errorf("upsert assetcost %s/%s/%s: %w", a.AssetNum, a.SiteID, c.CostType, err)
		}
	}

	return nil
}

// ClearAssets removes asset-family rows for a site (children first), or
// every row when site is empty.
func ClearAssets(tx *sql.Tx, site string) error {
	children := []string{"assetmeter", "assetspec", "assetdoclinks", "assetlocations", "assetfailure", "assetcosthistory"}
	if site == "" {
		for _, table := range append(children, "assets") {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	}
	for _, table := range append(children, "assets") {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE siteid = ?", site); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
