// ABOUTME: Tests for the sync orchestrator
// ABOUTME: Covers site resolution, per-endpoint failure isolation, and single-endpoint runs
package sync

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/cache"
	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/models"
)

func TestOrchestratorEndpointOrder(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)

	orch := NewOrchestrator(database, stub.client(), nil, "BEDFORD", zap.NewNop())
	assert.Equal(t, []string{
		EndpointOrganizations,
		EndpointPersons,
		EndpointDomains,
		EndpointLocations,
		EndpointAssets,
		EndpointWorkOrders,
		EndpointInventory,
	}, orch.Endpoints())
}

func TestRunAllRecordsEveryEndpoint(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)

	orch := NewOrchestrator(database, stub.client(), nil, "BEDFORD", zap.NewNop())
	results := orch.RunAll(context.Background(), models.ModeFull)

	require.Len(t, results, 7)
	for endpoint, result := range results {
		assert.Equal(t, models.StatusSuccess, result.Status, endpoint)
	}

	statuses, err := db.ListSyncStatuses(database)
	require.NoError(t, err)
	assert.Len(t, statuses, 7)
}

func TestRunAllIsolatesEndpointFailure(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)
	stub.setFailing(resourceAsset)
	stub.setBody(resourceWODetail, workOrderFixture)

	orch := NewOrchestrator(database, stub.client(), nil, "BEDFORD", zap.NewNop())
	results := orch.RunAll(context.Background(), models.ModeFull)

	assert.Equal(t, models.StatusError, results[EndpointAssets].Status)
	assert.Equal(t, models.StatusSuccess, results[EndpointWorkOrders].Status)
	assert.Equal(t, 1, results[EndpointWorkOrders].RecordCount)

	status, err := db.GetSyncStatus(database, EndpointAssets)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.StatusError, status.Status)
}

func TestRunAllResolvesSiteFromWhoami(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)
	stub.setBody(resourceWODetail, workOrderFixture)

	orch := NewOrchestrator(database, stub.client(), nil, "", zap.NewNop())
	results := orch.RunAll(context.Background(), models.ModeFull)

	assert.Equal(t, models.StatusSuccess, results[EndpointWorkOrders].Status)

	// The work order predicate carries the whoami-resolved site.
	var sawSite bool
	for _, q := range stub.queries {
		if strings.Contains(q.Get("oslc.where"), `siteid="BEDFORD"`) {
			sawSite = true
		}
	}
	assert.True(t, sawSite)
}

func TestRunAllSiteFailureSkipsSiteScopedOnly(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)
	stub.setFailing("whoami")

	orch := NewOrchestrator(database, stub.client(), nil, "", zap.NewNop())
	results := orch.RunAll(context.Background(), models.ModeFull)

	// Reference endpoints run regardless of the site.
	assert.Equal(t, models.StatusSuccess, results[EndpointOrganizations].Status)
	assert.Equal(t, models.StatusSuccess, results[EndpointPersons].Status)
	assert.Equal(t, models.StatusSuccess, results[EndpointDomains].Status)

	// Site-scoped endpoints are recorded as skipped without being fetched,
	// and a skipped run leaves the incremental watermark alone.
	for _, endpoint := range []string{EndpointLocations, EndpointAssets, EndpointWorkOrders, EndpointInventory} {
		assert.Equal(t, models.StatusSkipped, results[endpoint].Status, endpoint)
		status, err := db.GetSyncStatus(database, endpoint)
		require.NoError(t, err)
		require.NotNil(t, status, endpoint)
		assert.Equal(t, models.StatusSkipped, status.Status, endpoint)
		assert.Nil(t, status.LastSync, endpoint)
	}

	for _, path := range stub.requests {
		assert.NotContains(t, path, resourceWODetail)
		assert.NotContains(t, path, resourceInventory)
	}
}

func TestResolveSitePrefersExplicitSite(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)
	stub.setFailing("whoami")

	orch := NewOrchestrator(database, stub.client(), nil, "NASHUA", zap.NewNop())
	site, err := orch.ResolveSite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "NASHUA", site)
}

func TestResolveSiteCachesWhoamiProfile(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)

	lookups, err := cache.Open(t.TempDir(), time.Hour, nil)
	require.NoError(t, err)
	defer lookups.Close()

	orch := NewOrchestrator(database, stub.client(), lookups, "", zap.NewNop())

	site, err := orch.ResolveSite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BEDFORD", site)

	// The second resolution must come from the cache, not the server.
	stub.setFailing("whoami")
	site, err = orch.ResolveSite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BEDFORD", site)
}

func TestRunSingleEndpoint(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)
	stub.setBody(resourceInventory, inventoryFixture)

	orch := NewOrchestrator(database, stub.client(), nil, "BEDFORD", zap.NewNop())
	result, err := orch.Run(context.Background(), EndpointInventory, models.ModeFull)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 1, result.RecordCount)

	// Only inventory touched the server.
	for _, path := range stub.requests {
		assert.Contains(t, path, resourceInventory)
	}
}

func TestRunUnknownEndpoint(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()
	stub := newStubMaximo(t)

	orch := NewOrchestrator(database, stub.client(), nil, "BEDFORD", zap.NewNop())
	_, err := orch.Run(context.Background(), "ledger", models.ModeFull)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown endpoint")
}
