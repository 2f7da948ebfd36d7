// ABOUTME: Domain endpoint synchronizer
// ABOUTME: Mirrors the global value-list vocabulary; merges ALN, synonym, and numeric value collections
package sync

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

type DomainSyncer struct {
	base
}

func NewDomainSyncer(store *sql.DB, client *oslc.Client, logger *zap.Logger) *DomainSyncer {
	return &DomainSyncer{base: newBase(store, client, logger)}
}

func (s *DomainSyncer) Name() string     { return EndpointDomains }
func (s *DomainSyncer) SiteScoped() bool { return false }

func (s *DomainSyncer) Sync(ctx context.Context, scope string, mode models.Mode) (models.SyncResult, error) {
	started := s.now()
	result := models.SyncResult{
		Endpoint:    EndpointDomains,
		ChildCounts: map[string]int{},
	}
	defer s.finish(&result, started)

	if mode == models.ModeFull {
		if err := s.clearTables(db.ClearDomains); err != nil {
			result.Status = models.StatusError
			result.Message = err.Error()
			return result, err
		}
	}

	req := oslc.PageRequest{
		Resource: resourceDomain,
		Select: oslc.Select("domainid", "description", "domaintype", "maxtype", "internal", "_rowstamp",
			oslc.Nested("alndomain"), oslc.Nested("synonymdomain"), oslc.Nested("numericdomain")),
		PageSize: 300,
	}

	stamp := models.SyncTimestamp(s.now())
	skipped := 0

	_, err := s.client.ForEachPage(ctx, req, func(records []oslc.Record) error {
		for _, rec := range records {
			domain := mapDomain(rec)
			if domain.DomainID == "" {
				skipped++
				continue
			}
			err := s.upsertRecord(func(tx *sql.Tx) error {
				return db.UpsertDomain(tx, domain, stamp, models.StatusSuccess)
			})
			if err != nil {
				s.logger.Warn("skipping domain",
					zap.String("domainid", domain.DomainID), zap.Error(err))
				skipped++
				continue
			}
			result.RecordCount++
			result.ChildCounts["domain_values"] += len(domain.Values)
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

// mapDomain flattens one MXAPIDOMAIN record. The three value-list shapes
// (ALN, synonym, numeric) all land in the same domain_values table.
func mapDomain(rec oslc.Record) *models.Domain {
	domain := &models.Domain{
		DomainID:    rec.String("domainid"),
		Description: rec.String("description"),
		DomainType:  rec.String("domaintype"),
		MaxType:     rec.String("maxtype"),
		Internal:    rec.Bool("internal"),
		RowStamp:    rec.String("_rowstamp"),
	}

	seen := map[string]bool{}
	for _, collection := range []string{"alndomain", "synonymdomain", "numericdomain"} {
		for _, valRec := range rec.Records(collection) {
			value := valRec.String("value")
			if value == "" || seen[value] {
				continue
			}
			seen[value] = true
			domain.Values = append(domain.Values, models.DomainValue{
				DomainID:    domain.DomainID,
				Value:       value,
				MaxValue:    valRec.String("maxvalue"),
				Description: valRec.String("description"),
				Internal:    valRec.Bool("internal"),
			})
		}
	}

	return domain
}
