// ABOUTME: Work order endpoint synchronizer
// ABOUTME: Mirrors open non-history work orders with service address, planned labor, materials, and tools
package sync

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

type WorkOrderSyncer struct {
	base
	// includeTasks pulls child task work orders alongside their parents.
	includeTasks bool
}

func NewWorkOrderSyncer(store *sql.DB, client *oslc.Client, logger *zap.Logger) *WorkOrderSyncer {
	return &WorkOrderSyncer{base: newBase(store, client, logger), includeTasks: true}
}

func (s *WorkOrderSyncer) Name() string     { return EndpointWorkOrders }
func (s *WorkOrderSyncer) SiteScoped() bool { return true }

func (s *WorkOrderSyncer) Sync(ctx context.Context, scope string, mode models.Mode) (models.SyncResult, error) {
	started := s.now()
	result := models.SyncResult{
		Endpoint:    EndpointWorkOrders,
		ChildCounts: map[string]int{},
	}
	defer s.finish(&result, started)

	if mode == models.ModeFull {
		err := s.clearTables(func(tx *sql.Tx) error {
			return db.ClearWorkOrders(tx, scope)
		})
		if err != nil {
			result.Status = models.StatusError
			result.Message = err.Error()
			return result, err
		}
	}

	where := oslc.NewWhere().
		NotIn("status", "CLOSE", "CAN").
		EqRaw("historyflag", "0").
		Eq("siteid", scope)
	if !s.includeTasks {
		where.EqRaw("istask", "0")
	}
	if mark := s.watermark(EndpointWorkOrders, mode); !mark.IsZero() {
		where.Gte("changedate", mark.Format(watermarkFormat))
	}

	req := oslc.PageRequest{
		Resource: resourceWODetail,
		Select: oslc.Select("wonum", "workorderid", "siteid", "orgid", "description", "status",
			"statusdate", "worktype", "wopriority", "location", "assetnum", "parent", "istask",
			"historyflag", "schedstart", "schedfinish", "reportdate", "reportedby", "supervisor",
			"lead", "estdur", "changedate", "_rowstamp",
			oslc.Nested("woserviceaddress"), oslc.Nested("wplabor"),
			oslc.Nested("wpmaterial"), oslc.Nested("wptool")),
		Where:    where.String(),
		PageSize: 100,
	}

	stamp := models.SyncTimestamp(s.now())
	skipped := 0

	_, err := s.client.ForEachPage(ctx, req, func(records []oslc.Record) error {
		for _, rec := range records {
			wo := mapWorkOrder(rec)
			if wo.WoNum == "" || wo.WorkOrderID == 0 {
				skipped++
				continue
			}
			err := s.upsertRecord(func(tx *sql.Tx) error {
				return db.UpsertWorkOrder(tx, wo, stamp, models.StatusSuccess)
			})
			if err != nil {
				s.logger.Warn("skipping work order",
					zap.String("wonum", wo.WoNum), zap.Error(err))
				skipped++
				continue
			}
			result.RecordCount++
			if wo.ServiceAddress != nil {
				result.ChildCounts["woserviceaddress"]++
			}
			result.ChildCounts["wolabor"] += len(wo.Labor)
			result.ChildCounts["womaterial"] += len(wo.Materials)
			result.ChildCounts["wotool"] += len(wo.Tools)
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

// mapWorkOrder flattens one MXAPIWODETAIL record. The embedded service
// address object and the wplabor/wpmaterial/wptool plan collections become
// child rows keyed by the parent's (wonum, workorderid).
func mapWorkOrder(rec oslc.Record) *models.WorkOrder {
	wo := &models.WorkOrder{
		WoNum:       rec.String("wonum"),
		WorkOrderID: rec.Int("workorderid"),
		SiteID:      rec.String("siteid"),
		OrgID:       rec.String("orgid"),
		Description: rec.String("description"),
		Status:      rec.String("status"),
		StatusDate:  rec.String("statusdate"),
		WorkType:    rec.String("worktype"),
		Priority:    rec.Int("wopriority"),
		Location:    rec.String("location"),
		AssetNum:    rec.String("assetnum"),
		Parent:      rec.String("parent"),
		IsTask:      rec.Bool("istask"),
		HistoryFlag: rec.Bool("historyflag"),
		Schedstart:  rec.String("schedstart"),
		Schedfinish: rec.String("schedfinish"),
		ReportDate:  rec.String("reportdate"),
		ReportedBy:  rec.String("reportedby"),
		Supervisor:  rec.String("supervisor"),
		Lead:        rec.String("lead"),
		EstDur:      rec.Float("estdur"),
		ChangeDate:  rec.String("changedate"),
		RowStamp:    rec.String("_rowstamp"),
	}

	// Service address arrives either as a single object or a one-element
	// collection depending on server version.
	saRec := rec.Record("woserviceaddress")
	if saRec == nil {
		if saRecs := rec.Records("woserviceaddress"); len(saRecs) > 0 {
			saRec = saRecs[0]
		}
	}
	if saRec != nil {
		wo.ServiceAddress = &models.WoServiceAddress{
			WoNum:            wo.WoNum,
			WorkOrderID:      wo.WorkOrderID,
			SiteID:           wo.SiteID,
			ServiceAddressID: saRec.Int("serviceaddressid"),
			Description:      saRec.String("description"),
			StreetAddress:    saRec.String("saddresscode"),
			City:             saRec.String("city"),
			StateProvince:    saRec.String("stateprovince"),
			PostalCode:       saRec.String("postalcode"),
			Country:          saRec.String("country"),
		}
		if street := saRec.String("streetaddress"); street != "" {
			wo.ServiceAddress.StreetAddress = street
		}
	}

	for _, l := range rec.Records("wplabor") {
		laborCode := l.String("laborcode")
		if laborCode == "" {
			laborCode = l.String("craft")
		}
		if laborCode == "" {
			continue
		}
		wo.Labor = append(wo.Labor, models.WoLabor{
			WoNum:       wo.WoNum,
			WorkOrderID: wo.WorkOrderID,
			SiteID:      wo.SiteID,
			TaskID:      l.Int("taskid"),
			LaborCode:   laborCode,
			Craft:       l.String("craft"),
			LaborHrs:    l.Float("laborhrs"),
			Rate:        l.Float("rate"),
			StartDate:   l.String("startdate"),
		})
	}

	for _, m := range rec.Records("wpmaterial") {
		itemNum := m.String("itemnum")
		if itemNum == "" {
			continue
		}
		wo.Materials = append(wo.Materials, models.WoMaterial{
			WoNum:       wo.WoNum,
			WorkOrderID: wo.WorkOrderID,
			SiteID:      wo.SiteID,
			ItemNum:     itemNum,
			Description: m.String("description"),
			ItemQty:     m.Float("itemqty"),
			UnitCost:    m.Float("unitcost"),
			LineCost:    m.Float("linecost"),
			StoreLoc:    m.String("storeloc"),
		})
	}

	for _, t := range rec.Records("wptool") {
		toolNum := t.String("toolnum")
		if toolNum == "" {
			continue
		}
		wo.Tools = append(wo.Tools, models.WoTool{
			WoNum:       wo.WoNum,
			WorkOrderID: wo.WorkOrderID,
			SiteID:      wo.SiteID,
			ToolNum:     toolNum,
			Description: t.String("description"),
			ToolQty:     t.Float("toolqty"),
			ToolHrs:     t.Float("toolhrs"),
		})
	}

	return wo
}
