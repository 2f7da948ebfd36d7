// ABOUTME: Sync orchestrator that runs endpoint synchronizers in dependency order
// ABOUTME: Resolves the acting user's default site and isolates per-endpoint failures
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/cache"
	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

const profileCacheKey = "profile:whoami"

// Orchestrator invokes the entity synchronizers in dependency order:
// reference data first, then site-scoped entities with the resolved site.
type Orchestrator struct {
	store   *sql.DB
	client  *oslc.Client
	logger  *zap.Logger
	cache   *cache.Cache
	site    string
	syncers []Syncer
}

// NewOrchestrator wires all seven synchronizers. site may be empty, in
// which case it is resolved from the server's whoami endpoint (cached when
// a cache is supplied). The cache may be nil.
func NewOrchestrator(store *sql.DB, client *oslc.Client, lookups *cache.Cache, site string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:  store,
		client: client,
		logger: logger,
		cache:  lookups,
		site:   site,
		syncers: []Syncer{
			NewOrganizationSyncer(store, client, logger),
			NewPersonSyncer(store, client, logger),
			NewDomainSyncer(store, client, logger),
			NewLocationSyncer(store, client, logger),
			NewAssetSyncer(store, client, logger),
			NewWorkOrderSyncer(store, client, logger),
			NewInventorySyncer(store, client, logger),
		},
	}
}

// Endpoints returns the endpoint names in execution order.
func (o *Orchestrator) Endpoints() []string {
	names := make([]string, len(o.syncers))
	for i, s := range o.syncers {
		names[i] = s.Name()
	}
	return names
}

// ResolveSite returns the site scope for site-scoped synchronizers: the
// explicitly configured site, a cached whoami result, or a fresh whoami
// call, in that order.
func (o *Orchestrator) ResolveSite(ctx context.Context) (string, error) {
	if o.site != "" {
		return o.site, nil
	}

	if o.cache != nil {
		var profile models.UserProfile
		hit, err := o.cache.Get(profileCacheKey, &profile)
		if err != nil {
			o.logger.Warn("profile cache read failed", zap.Error(err))
		}
		if hit && profile.DefaultSite != "" {
			return profile.DefaultSite, nil
		}
	}

	profile, err := o.client.Whoami(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve default site: %w", err)
	}
	if profile.DefaultSite == "" {
		return "", fmt.Errorf("resolve default site: user %s has no default site", profile.LoginID)
	}

	if o.cache != nil {
		if err := o.cache.Set(profileCacheKey, profile); err != nil {
			o.logger.Warn("profile cache write failed", zap.Error(err))
		}
	}

	return profile.DefaultSite, nil
}

// RunAll executes every synchronizer in dependency order and returns the
// per-endpoint results. A failed endpoint never stops the others. When the
// site cannot be resolved, the site-independent endpoints still run and the
// site-scoped ones are recorded as skipped without being invoked.
func (o *Orchestrator) RunAll(ctx context.Context, mode models.Mode) map[string]models.SyncResult {
	results := make(map[string]models.SyncResult, len(o.syncers))

	// One id per run ties the endpoint log lines together.
	logger := o.logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("sync run starting", zap.String("mode", string(mode)))

	site, siteErr := o.ResolveSite(ctx)
	if siteErr != nil {
		logger.Error("site resolution failed; site-scoped endpoints will be skipped",
			zap.Error(siteErr))
	}

	for _, syncer := range o.syncers {
		if syncer.SiteScoped() && siteErr != nil {
			result := models.SyncResult{
				Endpoint: syncer.Name(),
				Status:   models.StatusSkipped,
				Message:  siteErr.Error(),
			}
			if err := db.RecordSyncResult(o.store, result, time.Now()); err != nil {
				logger.Error("failed to record skipped endpoint",
					zap.String("endpoint", syncer.Name()), zap.Error(err))
			}
			results[syncer.Name()] = result
			continue
		}

		result, err := syncer.Sync(ctx, site, mode)
		if err != nil {
			logger.Error("endpoint sync failed",
				zap.String("endpoint", syncer.Name()), zap.Error(err))
		}
		results[syncer.Name()] = result
	}

	logger.Info("sync run finished", zap.Int("endpoints", len(results)))
	return results
}

// Run executes a single endpoint by name, resolving the site first when the
// endpoint needs one. Operators use this to re-sync one endpoint at a time.
func (o *Orchestrator) Run(ctx context.Context, endpoint string, mode models.Mode) (models.SyncResult, error) {
	for _, syncer := range o.syncers {
		if syncer.Name() != endpoint {
			continue
		}

		site := ""
		if syncer.SiteScoped() {
			var err error
			site, err = o.ResolveSite(ctx)
			if err != nil {
				return models.SyncResult{Endpoint: endpoint, Status: models.StatusError, Message: err.Error()}, err
			}
		}

		return syncer.Sync(ctx, site, mode)
	}
	return models.SyncResult{}, fmt.Errorf("unknown endpoint %q", endpoint)
}
