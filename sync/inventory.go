// ABOUTME: Inventory endpoint synchronizer
// ABOUTME: Mirrors active inventory with balance, cost, receipt, transfer, and condition collections
package sync

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

type InventorySyncer struct {
	base
}

func NewInventorySyncer(store *sql.DB, client *oslc.Client, logger *zap.Logger) *InventorySyncer {
	return &InventorySyncer{base: newBase(store, client, logger)}
}

func (s *InventorySyncer) Name() string     { return EndpointInventory }
func (s *InventorySyncer) SiteScoped() bool { return true }

func (s *InventorySyncer) Sync(ctx context.Context, scope string, mode models.Mode) (models.SyncResult, error) {
	started := s.now()
	result := models.SyncResult{
		Endpoint:    EndpointInventory,
		ChildCounts: map[string]int{},
	}
	defer s.finish(&result, started)

	if mode == models.ModeFull {
		err := s.clearTables(func(tx *sql.Tx) error {
			return db.ClearInventory(tx, scope)
		})
		if err != nil {
			result.Status = models.StatusError
			result.Message = err.Error()
			return result, err
		}
	}

	where := oslc.NewWhere().
		Eq("status", "ACTIVE").
		Eq("siteid", scope)

	req := oslc.PageRequest{
		Resource: resourceInventory,
		Select: oslc.Select("inventoryid", "itemnum", "itemsetid", "siteid", "orgid", "location",
			"status", "description", "issueunit", "orderunit", "avgcost", "stdcost", "curbaltotal",
			"minlevel", "maxlevel", "orderqty", "vendor", "abctype", "_rowstamp",
			oslc.Nested("invbalances"), oslc.Nested("invcost"), oslc.Nested("matrectrans"),
			oslc.Nested("transfercuritem"), oslc.Nested("itemcondition")),
		Where:    where.String(),
		PageSize: 100,
	}

	stamp := models.SyncTimestamp(s.now())
	skipped := 0

	_, err := s.client.ForEachPage(ctx, req, func(records []oslc.Record) error {
		for _, rec := range records {
			inv := mapInventory(rec)
			if inv.InventoryID == 0 || inv.ItemNum == "" {
				skipped++
				continue
			}
			err := s.upsertRecord(func(tx *sql.Tx) error {
				return db.UpsertInventory(tx, inv, stamp, models.StatusSuccess)
			})
			if err != nil {
				s.logger.Warn("skipping inventory record",
					zap.Int64("inventoryid", inv.InventoryID),
					zap.String("itemnum", inv.ItemNum),
					zap.Error(err))
				skipped++
				continue
			}
			result.RecordCount++
			result.ChildCounts["inventory_invbalances"] += len(inv.Balances)
			result.ChildCounts["inventory_invcost"] += len(inv.Costs)
			result.ChildCounts["inventory_matrectrans"] += len(inv.MatRecTrans)
			result.ChildCounts["inventory_transfercuritem"] += len(inv.TransferCurItems)
			result.ChildCounts["inventory_itemcondition"] += len(inv.ItemConditions)
		}
		return nil
	})
	if err != nil {
		result.Status = models.StatusError
		result.Message = err.Error()
		return result, err
	}

	result.Status = outcome(skipped)
	return result, nil
}

// mapInventory flattens one MXAPIINVENTORY record. Each balance row derives
// availableqty from curbal minus reservedqty at mapping time.
func mapInventory(rec oslc.Record) *models.Inventory {
	inv := &models.Inventory{
		InventoryID: rec.Int("inventoryid"),
		ItemNum:     rec.String("itemnum"),
		ItemSetID:   rec.String("itemsetid"),
		SiteID:      rec.String("siteid"),
		OrgID:       rec.String("orgid"),
		Location:    rec.String("location"),
		Status:      rec.String("status"),
		Description: rec.String("description"),
		IssueUnit:   rec.String("issueunit"),
		OrderUnit:   rec.String("orderunit"),
		AvgCost:     rec.Float("avgcost"),
		StdCost:     rec.Float("stdcost"),
		CurBalTotal: rec.Float("curbaltotal"),
		MinLevel:    rec.Float("minlevel"),
		MaxLevel:    rec.Float("maxlevel"),
		OrderQty:    rec.Float("orderqty"),
		Vendor:      rec.String("vendor"),
		ABCType:     rec.String("abctype"),
		RowStamp:    rec.String("_rowstamp"),
	}

	for _, b := range rec.Records("invbalances") {
		curBal := b.Float("curbal")
		reserved := b.Float("reservedqty")
		inv.Balances = append(inv.Balances, models.InvBalance{
			InventoryID:   inv.InventoryID,
			ItemNum:       inv.ItemNum,
			SiteID:        inv.SiteID,
			Location:      inv.Location,
			BinNum:        b.String("binnum"),
			LotNum:        b.String("lotnum"),
			CurBal:        curBal,
			ReservedQty:   reserved,
			AvailableQty:  models.AvailableQty(curBal, reserved),
			PhysCnt:       b.Float("physcnt"),
			PhysCntDate:   b.String("physcntdate"),
			ConditionCode: b.String("conditioncode"),
		})
	}

	for _, c := range rec.Records("invcost") {
		costType := c.String("costtype")
		if costType == "" {
			costType = "STANDARD"
		}
		inv.Costs = append(inv.Costs, models.InvCost{
			InventoryID:   inv.InventoryID,
			ItemNum:       inv.ItemNum,
			SiteID:        inv.SiteID,
			CostType:      costType,
			UnitCost:      c.Float("unitcost"),
			StdCost:       c.Float("stdcost"),
			AvgCost:       c.Float("avgcost"),
			ConditionCode: c.String("conditioncode"),
		})
	}

	for _, t := range rec.Records("matrectrans") {
		inv.MatRecTrans = append(inv.MatRecTrans, models.MatRecTran{
			InventoryID:   inv.InventoryID,
			MatRecTransID: t.Int("matrectransid"),
			ItemNum:       inv.ItemNum,
			SiteID:        inv.SiteID,
			TransType:     t.String("transtype"),
			Quantity:      t.Float("quantity"),
			UnitCost:      t.Float("unitcost"),
			LineCost:      t.Float("linecost"),
			TransDate:     t.String("transdate"),
			PONum:         t.String("ponum"),
			Receiver:      t.String("receiver"),
		})
	}

	for _, t := range rec.Records("transfercuritem") {
		inv.TransferCurItems = append(inv.TransferCurItems, models.TransferCurItem{
			InventoryID:  inv.InventoryID,
			ItemNum:      inv.ItemNum,
			FromStoreLoc: t.String("fromstoreloc"),
			ToStoreLoc:   t.String("tostoreloc"),
			FromSiteID:   t.String("fromsiteid"),
			ToSiteID:     t.String("tositeid"),
			Quantity:     t.Float("quantity"),
			TransDate:    t.String("transdate"),
		})
	}

	for _, ic := range rec.Records("itemcondition") {
		code := ic.String("conditioncode")
		if code == "" {
			continue
		}
		inv.ItemConditions = append(inv.ItemConditions, models.ItemCondition{
			InventoryID:   inv.InventoryID,
			ItemNum:       inv.ItemNum,
			ConditionCode: code,
			CondRate:      ic.Float("condrate"),
			Description:   ic.String("description"),
		})
	}

	return inv
}
