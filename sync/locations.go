// ABOUTME: Location endpoint synchronizer
// ABOUTME: Mirrors operating locations for the resolved site
package sync

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

type LocationSyncer struct {
	base
}

func NewLocationSyncer(store *sql.DB, client *oslc.Client, logger *zap.Logger) *LocationSyncer {
	return &LocationSyncer{base: newBase(store, client, logger)}
}

func (s *LocationSyncer) Name() string     { return EndpointLocations }
func (s *LocationSyncer) SiteScoped() bool { return true }

func (s *LocationSyncer) Sync(ctx context.Context, scope string, mode models.Mode) (models.SyncResult, error) {
	started := s.now()
	result := models.SyncResult{
		Endpoint:    EndpointLocations,
		ChildCounts: map[string]int{},
	}
	defer s.finish(&result, started)

	if mode == models.ModeFull {
		err := s.clearTables(func(tx *sql.Tx) error {
			return db.ClearLocations(tx, scope)
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

	req := oslc.PageRequest{
		Resource: resourceOperLoc,
		Select:   oslc.Select("location", "siteid", "orgid", "description", "status", "type", "_rowstamp"),
		Where:    where.String(),
		PageSize: 500,
	}

	stamp := models.SyncTimestamp(s.now())
	skipped := 0

	_, err := s.client.ForEachPage(ctx, req, func(records []oslc.Record) error {
		for _, rec := range records {
			loc := mapLocation(rec)
			if loc.Location == "" || loc.SiteID == "" {
				skipped++
				continue
			}
			err := s.upsertRecord(func(tx *sql.Tx) error {
				return db.UpsertLocation(tx, loc, stamp, models.StatusSuccess)
			})
			if err != nil {
				s.logger.Warn("skipping location",
					zap.String("location", loc.Location), zap.Error(err))
				skipped++
				continue
			}
			result.RecordCount++
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

func mapLocation(rec oslc.Record) *models.Location {
	return &models.Location{
		Location:    rec.String("location"),
		SiteID:      rec.String("siteid"),
		OrgID:       rec.String("orgid"),
		Description: rec.String("description"),
		Status:      rec.String("status"),
		Type:        rec.String("type"),
		RowStamp:    rec.String("_rowstamp"),
	}
}
