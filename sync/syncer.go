// ABOUTME: Shared synchronizer contract and per-record transaction plumbing
// ABOUTME: Defines the endpoint names, resource constants, and the common fetch-map-upsert loop
package sync

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

// Endpoint names as recorded in sync_status.
const (
	EndpointOrganizations = "organizations"
	EndpointPersons       = "persons"
	EndpointDomains       = "domains"
	EndpointLocations     = "locations"
	EndpointAssets        = "assets"
	EndpointWorkOrders    = "workorders"
	EndpointInventory     = "inventory"
)

// Maximo object structure resource names.
const (
	resourceOrganization = "mxapiorganization"
	resourcePerUser      = "mxapiperuser"
	resourceDomain       = "mxapidomain"
	resourceOperLoc      = "mxapioperloc"
	resourceAsset        = "mxapiasset"
	resourceWODetail     = "mxapiwodetail"
	resourceInventory    = "mxapiinventory"
)

// Syncer is the per-endpoint contract the orchestrator drives.
type Syncer interface {
	Name() string
	// SiteScoped reports whether the endpoint requires a resolved site.
	SiteScoped() bool
	// Sync fetches the endpoint and mirrors it into the local store. The
	// returned result is also what got recorded in sync_status; err is
	// non-nil only for the transport/storage failures that aborted the
	// endpoint.
	Sync(ctx context.Context, scope string, mode models.Mode) (models.SyncResult, error)
}

// base carries what every synchronizer needs. now is injectable for tests.
type base struct {
	store  *sql.DB
	client *oslc.Client
	logger *zap.Logger
	now    func() time.Time
}

func newBase(store *sql.DB, client *oslc.Client, logger *zap.Logger) base {
	return base{store: store, client: client, logger: logger, now: time.Now}
}

// watermark returns the endpoint's last successful sync time when running
// incrementally, or zero time otherwise. Incremental filtering is best
// effort: callers only apply it on endpoints with a usable change column.
func (b *base) watermark(endpoint string, mode models.Mode) time.Time {
	if mode != models.ModeIncremental {
		return time.Time{}
	}
	status, err := db.GetSyncStatus(b.store, endpoint)
	if err != nil || status == nil || status.LastSync == nil {
		return time.Time{}
	}
	if status.Status != models.StatusSuccess && status.Status != models.StatusPartial {
		return time.Time{}
	}
	return *status.LastSync
}

// upsertRecord runs fn inside its own transaction so a parent and its
// children are never left inconsistent.
func (b *base) upsertRecord(fn func(tx *sql.Tx) error) error {
	tx, err := b.store.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// clearTables runs fn (a full-sync table clear) inside one transaction.
func (b *base) clearTables(fn func(tx *sql.Tx) error) error {
	return b.upsertRecord(fn)
}

// finish stamps, records, and logs the endpoint outcome. Failures writing
// the audit row are logged but do not replace the sync outcome.
func (b *base) finish(result *models.SyncResult, started time.Time) {
	result.Duration = b.now().Sub(started)
	if err := db.RecordSyncResult(b.store, *result, b.now()); err != nil {
		b.logger.Error("failed to record sync status",
			zap.String("endpoint", result.Endpoint),
			zap.Error(err),
		)
	}
	b.logger.Info("endpoint sync finished",
		zap.String("endpoint", result.Endpoint),
		zap.String("status", result.Status),
		zap.Int("records", result.RecordCount),
		zap.Duration("duration", result.Duration),
	)
}

// outcome classifies a finished pass: any skipped records downgrade
// success to partial.
func outcome(skipped int) string {
	if skipped > 0 {
		return models.StatusPartial
	}
	return models.StatusSuccess
}

// watermarkFormat is how changedate predicates render timestamps.
const watermarkFormat = "2006-01-02T15:04:05-07:00"
