// ABOUTME: Upsert operations for inventory and its five nested collections
// ABOUTME: Writes balances, costs, receipt transactions, transfers, and item conditions under one parent
package db

import (
	"database/sql"
	"fmt"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

// UpsertInventory writes one inventory record with all of its nested
// collection rows. Collection rows mirror the source's current state, so
// stale rows from a prior sync are dropped first (which also keeps the
// parent REPLACE legal under the foreign keys).
func UpsertInventory(tx *sql.Tx, inv *models.Inventory, stamp, status string) error {
	for _, table := range []string{
		"inventory_invbalances", "inventory_invcost", "inventory_matrectrans",
		"inventory_transfercuritem", "inventory_itemcondition",
	} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE inventoryid = ?", inv.InventoryID); err != nil {
			return fmt.Errorf("refresh %s %d: %w", table, inv.InventoryID, err)
		}
	}

	_, err := tx.Exec(`
		INSERT OR REPLACE INTO inventory
			(inventoryid, itemnum, itemsetid, siteid, orgid, location, status, description,
			 issueunit, orderunit, avgcost, stdcost, curbaltotal, minlevel, maxlevel, orderqty,
			 vendor, abctype, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.InventoryID, inv.ItemNum, inv.ItemSetID, inv.SiteID, inv.OrgID, inv.Location, inv.Status,
		inv.Description, inv.IssueUnit, inv.OrderUnit, inv.AvgCost, inv.StdCost, inv.CurBalTotal,
		inv.MinLevel, inv.MaxLevel, inv.OrderQty, inv.Vendor, inv.ABCType, inv.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert inventory %d (%s): %w", inv.InventoryID, inv.ItemNum, err)
	}

	for _, b := range inv.Balances {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO inventory_invbalances
				(inventoryid, itemnum, siteid, location, binnum, lotnum, curbal, reservedqty,
				 availableqty, physcnt, physcntdate, conditioncode, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, inv.InventoryID, inv.ItemNum, inv.SiteID, inv.Location, b.BinNum, b.LotNum, b.CurBal,
			b.ReservedQty, b.AvailableQty, b.PhysCnt, b.PhysCntDate, b.ConditionCode, stamp)
		if err != nil {
			return fmt.Errorf("upsert invbalance %d/%s: %w", inv.InventoryID, b.BinNum, err)
		}
	}

	for _, c := range inv.Costs {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO inventory_invcost
				(inventoryid, itemnum, siteid, costtype, unitcost, stdcost, avgcost, conditioncode, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, inv.InventoryID, inv.ItemNum, inv.SiteID, c.CostType, c.UnitCost, c.StdCost, c.AvgCost, c.ConditionCode, stamp)
		if err != nil {
			return fmt.Errorf("upsert invcost %d/%s: %w", inv.InventoryID, c.CostType, err)
		}
	}

	for _, t := range inv.MatRecTrans {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO inventory_matrectrans
				(inventoryid, matrectransid, itemnum, siteid, transtype, quantity, unitcost,
				 linecost, transdate, ponum, receiver, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, inv.InventoryID, t.MatRecTransID, inv.ItemNum, inv.SiteID, t.TransType, t.Quantity,
			t.UnitCost, t.LineCost, t.TransDate, t.PONum, t.Receiver, stamp)
		if err != nil {
			return fmt.Errorf("upsert matrectran %d/%d: %w", inv.InventoryID, t.MatRecTransID, err)
		}
	}

	for _, t := range inv.TransferCurItems {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO inventory_transfercuritem
				(inventoryid, itemnum, fromstoreloc, tostoreloc, fromsiteid, tositeid, quantity, transdate, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, inv.InventoryID, inv.ItemNum, t.FromStoreLoc, t.ToStoreLoc, t.FromSiteID, t.ToSiteID,
			t.Quantity, t.TransDate, stamp)
		if err != nil {
			return fmt.Errorf("upsert transfercuritem %d: %w", inv.InventoryID, err)
		}
	}

	for _, ic := range inv.ItemConditions {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO inventory_itemcondition
				(inventoryid, itemnum, conditioncode, condrate, description, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?)
		`, inv.InventoryID, inv.ItemNum, ic.ConditionCode, ic.CondRate, ic.Description, stamp)
		if err != nil {
			return fmt.Errorf("upsert itemcondition %d/%s: %w", inv.InventoryID, ic.ConditionCode, err)
		}
	}

	return nil
}

// ClearInventory removes inventory-family rows for a site (children first),
// or every row when site is empty. Child tables are keyed by inventoryid,
// so site-scoped clears join through the parent.
func ClearInventory(tx *sql.Tx, site string) error {
	children := []string{
		"inventory_invbalances", "inventory_invcost", "inventory_matrectrans",
		"inventory_transfercuritem", "inventory_itemcondition",
	}
	if site == "" {
		for _, table := range append(children, "inventory") {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	}
	for _, table := range children {
		query := fmt.Sprintf(
			"DELETE FROM %s WHERE inventoryid IN (SELECT inventoryid FROM inventory WHERE siteid = ?)", table)
		if _, err := tx.Exec(query, site); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM inventory WHERE siteid = ?", site); err != nil {
		return fmt.Errorf("clear inventory: %w", err)
	}
	return nil
}
