// ABOUTME: Asset endpoint synchronizer
// ABOUTME: Mirrors operating assets with meters, specs, doclinks, location history, failures, and costs
package sync

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

type AssetSyncer struct {
	base
}

func NewAssetSyncer(store *sql.DB, client *oslc.Client, logger *zap.Logger) *AssetSyncer {
	return &AssetSyncer{base: newBase(store, client, logger)}
}

func (s *AssetSyncer) Name() string     { return EndpointAssets }
func (s *AssetSyncer) SiteScoped() bool { return true }

func (s *AssetSyncer) Sync(ctx context.Context, scope string, mode models.Mode) (models.SyncResult, error) {
	started := s.now()
	result := models.SyncResult{
		Endpoint:    EndpointAssets,
		ChildCounts: map[string]int{},
	}
	defer s.finish(&result, started)

	if mode == models.ModeFull {
		err := s.clearTables(func(tx *sql.Tx) error {
			return db.ClearAssets(tx, scope)
		})
		if err != nil {
			result.Status = models.StatusError
			result.Message = err.Error()
			return result, err
		}
	}

	where := oslc.NewWhere().
		Eq("status", "OPERATING").
		Eq("siteid", scope)
	if mark := s.watermark(EndpointAssets, mode); !mark.IsZero() {
		where.Gte("changedate", mark.Format(watermarkFormat))
	}

	req := oslc.PageRequest{
		Resource: resourceAsset,
		Select: oslc.Select("assetnum", "siteid", "orgid", "description", "status", "location",
			"parent", "serialnum", "assettype", "priority", "purchaseprice", "installdate",
			"changedate", "_rowstamp",
			oslc.Nested("assetmeter"), oslc.Nested("assetspec"), oslc.Nested("doclinks"),
			oslc.Nested("assetlochistory"), oslc.Nested("assetfailure"), oslc.Nested("costhistory")),
		Where:    where.String(),
		PageSize: 200,
	}

	stamp := models.SyncTimestamp(s.now())
	skipped := 0

	_, err := s.client.ForEachPage(ctx, req, func(records []oslc.Record) error {
		for _, rec := range records {
			asset := mapAsset(rec)
			if asset.AssetNum == "" || asset.SiteID == "" {
				skipped++
				continue
			}
			err := s.upsertRecord(func(tx *sql.Tx) error {
				return db.UpsertAsset(tx, asset, stamp, models.StatusSuccess)
			})
			if err != nil {
				s.logger.Warn("skipping asset",
					zap.String("assetnum", asset.AssetNum), zap.Error(err))
				skipped++
				continue
			}
			result.RecordCount++
			result.ChildCounts["assetmeter"] += len(asset.Meters)
			result.ChildCounts["assetspec"] += len(asset.Specs)
			result.ChildCounts["assetdoclinks"] += len(asset.DocLinks)
			result.ChildCounts["assetlocations"] += len(asset.LocationHistory)
			result.ChildCounts["assetfailure"] += len(asset.Failures)
			result.ChildCounts["assetcosthistory"] += len(asset.CostHistory)
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

func mapAsset(rec oslc.Record) *models.Asset {
	asset := &models.Asset{
		AssetNum:      rec.String("assetnum"),
		SiteID:        rec.String("siteid"),
		OrgID:         rec.String("orgid"),
		Description:   rec.String("description"),
		Status:        rec.String("status"),
		Location:      rec.String("location"),
		Parent:        rec.String("parent"),
		SerialNum:     rec.String("serialnum"),
		AssetType:     rec.String("assettype"),
		Priority:      rec.Int("priority"),
		PurchasePrice: rec.Float("purchaseprice"),
		InstallDate:   rec.String("installdate"),
		ChangeDate:    rec.String("changedate"),
		RowStamp:      rec.String("_rowstamp"),
	}

	for _, m := range rec.Records("assetmeter") {
		meterName := m.String("metername")
		if meterName == "" {
			continue
		}
		asset.Meters = append(asset.Meters, models.AssetMeter{
			AssetNum:        asset.AssetNum,
			SiteID:          asset.SiteID,
			MeterName:       meterName,
			Description:     m.String("description"),
			LastReading:     m.String("lastreading"),
			LastReadingDate: m.String("lastreadingdate"),
			UnitOfMeasure:   m.String("unitofmeasure"),
		})
	}

	for _, sp := range rec.Records("assetspec") {
		attrID := sp.String("assetattrid")
		if attrID == "" {
			continue
		}
		asset.Specs = append(asset.Specs, models.AssetSpec{
			AssetNum:    asset.AssetNum,
			SiteID:      asset.SiteID,
			AssetAttrID: attrID,
			AlnValue:    sp.String("alnvalue"),
			NumValue:    sp.Float("numvalue"),
			MeasureUnit: sp.String("measureunitid"),
			Section:     sp.String("section"),
		})
	}

	for _, dl := range rec.Records("doclinks") {
		asset.DocLinks = append(asset.DocLinks, models.AssetDocLink{
			AssetNum:    asset.AssetNum,
			SiteID:      asset.SiteID,
			DocInfoID:   dl.Int("docinfoid"),
			Document:    dl.String("document"),
			Description: dl.String("description"),
			URLName:     dl.String("urlname"),
			DocType:     dl.String("doctype"),
		})
	}

	for _, lh := range rec.Records("assetlochistory") {
		location := lh.String("location")
		if location == "" {
			continue
		}
		asset.LocationHistory = append(asset.LocationHistory, models.AssetLocation{
			AssetNum: asset.AssetNum,
			SiteID:   asset.SiteID,
			Location: location,
			MoveDate: lh.String("movedate"),
		})
	}

	for _, f := range rec.Records("assetfailure") {
		ticketID := f.String("ticketid")
		if ticketID == "" {
			continue
		}
		asset.Failures = append(asset.Failures, models.AssetFailure{
			AssetNum:    asset.AssetNum,
			SiteID:      asset.SiteID,
			TicketID:    ticketID,
			FailureCode: f.String("failurecode"),
			FailureDate: f.String("failuredate"),
		})
	}

	for _, c := range rec.Records("costhistory") {
		costType := c.String("costtype")
		if costType == "" {
			continue
		}
		asset.CostHistory = append(asset.CostHistory, models.AssetCost{
			AssetNum: asset.AssetNum,
			SiteID:   asset.SiteID,
			CostType: costType,
			Cost:     c.Float("cost"),
			CostDate: c.String("costdate"),
		})
	}

	return asset
}
