// ABOUTME: Upsert operations for work orders and their child row sets
// ABOUTME: Writes service address, labor, material, and tool rows under one parent work order
package db

import (
	"database/sql"
	"fmt"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

// UpsertWorkOrder writes one work order with all of its child rows. Child
// rows mirror the source's current collections, so stale rows from a prior
// sync are dropped first (which also keeps the parent REPLACE legal under
// the foreign keys).
func UpsertWorkOrder(tx *sql.Tx, wo *models.WorkOrder, stamp, status string) error {
	for _, table := range []string{"woserviceaddress", "wolabor", "womaterial", "wotool"} {
		_, err := tx.Exec("DELETE FROM "+table+" WHERE wonum = ? AND workorderid = ?", wo.WoNum, wo.WorkOrderID)
		if err != nil {
			return fmt.Errorf("refresh %s %s/%d: %w", table, wo.WoNum, wo.WorkOrderID, err)
		}
	}

	_, err := tx.Exec(`
		INSERT OR REPLACE INTO workorder
			(wonum, workorderid, siteid, orgid, description, status, statusdate, worktype,
			 priority, location, assetnum, parent, istask, historyflag, schedstart, schedfinish,
			 reportdate, reportedby, supervisor, lead, estdur, changedate, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, wo.WoNum, wo.WorkOrderID, wo.SiteID, wo.OrgID, wo.Description, wo.Status, wo.StatusDate, wo.WorkType,
		wo.Priority, wo.Location, wo.AssetNum, wo.Parent, boolToInt(wo.IsTask), boolToInt(wo.HistoryFlag),
		wo.Schedstart, wo.Schedfinish, wo.ReportDate, wo.ReportedBy, wo.Supervisor, wo.Lead,
		wo.EstDur, wo.ChangeDate, wo.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert workorder %s/%d: %w", wo.WoNum, wo.WorkOrderID, err)
	}

	if sa := wo.ServiceAddress; sa != nil {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO woserviceaddress
				(wonum, workorderid, siteid, serviceaddressid, description, streetaddress,
				 city, stateprovince, postalcode, country, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, wo.WoNum, wo.WorkOrderID, wo.SiteID, sa.ServiceAddressID, sa.Description, sa.StreetAddress,
			sa.City, sa.StateProvince, sa.PostalCode, sa.Country, stamp)
		if err != nil {
			return fmt.Errorf("upsert woserviceaddress %s/%d: %w", wo.WoNum, wo.WorkOrderID, err)
		}
	}

	for _, l := range wo.Labor {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO wolabor
				(wonum, workorderid, siteid, taskid, laborcode, craft, laborhrs, rate, startdate, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, wo.WoNum, wo.WorkOrderID, wo.SiteID, l.TaskID, l.LaborCode, l.Craft, l.LaborHrs, l.Rate, l.StartDate, stamp)
		if err != nil {
			return fmt.Errorf("upsert wolabor %s/%d/%s: %w", wo.WoNum, wo.WorkOrderID, l.LaborCode, err)
		}
	}

	for _, m := range wo.Materials {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO womaterial
				(wonum, workorderid, siteid, itemnum, description, itemqty, unitcost, linecost, storeloc, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, wo.WoNum, wo.WorkOrderID, wo.SiteID, m.ItemNum, m.Description, m.ItemQty, m.UnitCost, m.LineCost, m.StoreLoc, stamp)
		if err != nil {
			return fmt.Errorf("upsert womaterial %s/%d/%s: %w", wo.WoNum, wo.WorkOrderID, m.ItemNum, err)
		}
	}

	for _, t := range wo.Tools {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO wotool
				(wonum, workorderid, siteid, toolnum, description, toolqty, toolhrs, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, wo.WoNum, wo.WorkOrderID, wo.SiteID, t.ToolNum, t.Description, t.ToolQty, t.ToolHrs, stamp)
		if err != nil {
			return fmt.Errorf("upsert wotool %s/%d/%s: %w", wo.WoNum, wo.WorkOrderID, t.ToolNum, err)
		}
	}

	return nil
}

// ClearWorkOrders removes work-order-family rows for a site (children
// first), or every row when site is empty.
func ClearWorkOrders(tx *sql.Tx, site string) error {
	children := []string{"woserviceaddress", "wolabor", "womaterial", "wotool"}
	if site == "" {
		for _, table := range append(children, "workorder") {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	}
	for _, table := range append(children, "workorder") {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE siteid = ?", site); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
