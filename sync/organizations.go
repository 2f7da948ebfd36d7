// ABOUTME: Organization endpoint synchronizer
// ABOUTME: Mirrors organizations with their sites and billtoshipto records; runs before all site-scoped endpoints
package sync

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

type OrganizationSyncer struct {
	base
}

func NewOrganizationSyncer(store *sql.DB, client *oslc.Client, logger *zap.Logger) *OrganizationSyncer {
	return &OrganizationSyncer{base: newBase(store, client, logger)}
}

func (s *OrganizationSyncer) Name() string     { return EndpointOrganizations }
func (s *OrganizationSyncer) SiteScoped() bool { return false }

func (s *OrganizationSyncer) Sync(ctx context.Context, scope string, mode models.Mode) (models.SyncResult, error) {
	started := s.now()
	result := models.SyncResult{
		Endpoint:    EndpointOrganizations,
		ChildCounts: map[string]int{},
	}
	defer s.finish(&result, started)

	if mode == models.ModeFull {
		if err := s.clearTables(db.ClearOrganizations); err != nil {
			result.Status = models.StatusError
			result.Message = err.Error()
			return result, err
		}
	}

	req := oslc.PageRequest{
		Resource: resourceOrganization,
		Select: oslc.Select("orgid", "description", "basecurrency1", "active", "_rowstamp",
			oslc.Nested("site")),
		PageSize: 100,
	}

	stamp := models.SyncTimestamp(s.now())
	skipped := 0

	_, err := s.client.ForEachPage(ctx, req, func(records []oslc.Record) error {
		for _, rec := range records {
			org := mapOrganization(rec)
			if org.OrgID == "" {
				skipped++
				continue
			}
			err := s.upsertRecord(func(tx *sql.Tx) error {
				return db.UpsertOrganization(tx, org, stamp, models.StatusSuccess)
			})
			if err != nil {
				s.logger.Warn("skipping organization",
					zap.String("orgid", org.OrgID), zap.Error(err))
				skipped++
				continue
			}
			result.RecordCount++
			result.ChildCounts["sites"] += len(org.Sites)
			for _, site := range org.Sites {
				result.ChildCounts["billtoshipto"] += len(site.BillToShipTos)
			}
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

func mapOrganization(rec oslc.Record) *models.Organization {
	org := &models.Organization{
		OrgID:        rec.String("orgid"),
		Description:  rec.String("description"),
		BaseCurrency: rec.String("basecurrency1"),
		Active:       rec.Bool("active"),
		RowStamp:     rec.String("_rowstamp"),
	}

	for _, siteRec := range rec.Records("site") {
		site := models.Site{
			SiteID:      siteRec.String("siteid"),
			OrgID:       org.OrgID,
			Description: siteRec.String("description"),
			Active:      siteRec.Bool("active"),
			SystemID:    siteRec.String("systemid"),
			RowStamp:    siteRec.String("_rowstamp"),
		}
		if site.SiteID == "" {
			continue
		}
		for _, btsRec := range siteRec.Records("billtoshipto") {
			bts := models.BillToShipTo{
				SiteID:        site.SiteID,
				OrgID:         org.OrgID,
				AddressCode:   btsRec.String("addresscode"),
				BillTo:        btsRec.Bool("billtodefault") || btsRec.Bool("billto"),
				ShipTo:        btsRec.Bool("shiptodefault") || btsRec.Bool("shipto"),
				BillToDefault: btsRec.Bool("billtodefault"),
				ShipToDefault: btsRec.Bool("shiptodefault"),
			}
			if bts.AddressCode == "" {
				continue
			}
			site.BillToShipTos = append(site.BillToShipTos, bts)
		}
		org.Sites = append(org.Sites, site)
	}

	return org
}
