// ABOUTME: Sync CLI commands for full-run and single-endpoint invocations
// ABOUTME: Wires the transport, lookup cache, and orchestrator from config and flags
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/cache"
	"github.com/gogreenverze/MaximoWin-sub000/config"
	"github.com/gogreenverze/MaximoWin-sub000/models"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
	syncer "github.com/gogreenverze/MaximoWin-sub000/sync"
)

// SyncCommand runs `sync all` or `sync <endpoint>` against the configured
// Maximo server.
func SyncCommand(database *sql.DB, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	site := fs.String("site", "", "Site ID (default: resolved from whoami)")
	forceFull := fs.Bool("force-full", false, "Full re-sync instead of incremental")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	target := "all"
	if fs.NArg() > 0 {
		target = fs.Arg(0)
	}

	mode := models.ModeIncremental
	if *forceFull {
		mode = models.ModeFull
	}

	client := oslc.NewClient(oslc.ClientConfig{
		BaseURL:            cfg.BaseURL,
		APIKey:             cfg.APIKey,
		Timeout:            cfg.RequestTimeout,
		RequestsPerSecond:  cfg.RequestsPerSecond,
		InsecureSkipVerify: !cfg.VerifySSL,
	}, logger)

	lookups, err := cache.Open(cfg.CacheDir, cfg.CacheTTL, nil)
	if err != nil {
		// The cache is an optimization; a sync run works without it
		logger.Warn("lookup cache unavailable", zap.Error(err))
		lookups = nil
	} else {
		defer func() { _ = lookups.Close() }()
	}

	orch := syncer.NewOrchestrator(database, client, lookups, *site, logger)
	ctx := context.Background()

	if target == "all" {
		results := orch.RunAll(ctx, mode)
		printResults(results)
		for _, result := range results {
			if result.Status == models.StatusError {
				return fmt.Errorf("one or more endpoints failed")
			}
		}
		return nil
	}

	if !isKnownEndpoint(orch, target) {
		return fmt.Errorf("unknown endpoint %q (expected all, %s)", target, strings.Join(orch.Endpoints(), ", "))
	}

	result, err := orch.Run(ctx, target, mode)
	printResults(map[string]models.SyncResult{target: result})
	if err != nil {
		return fmt.Errorf("sync %s: %w", target, err)
	}
	return nil
}

func isKnownEndpoint(orch *syncer.Orchestrator, name string) bool {
	for _, endpoint := range orch.Endpoints() {
		if endpoint == name {
			return true
		}
	}
	return false
}

func printResults(results map[string]models.SyncResult) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-15s %-8s %8s  %s\n", "ENDPOINT", "STATUS", "RECORDS", "DETAIL")
	for _, name := range names {
		result := results[name]
		detail := result.Message
		if detail == "" && len(result.ChildCounts) > 0 {
			detail = childSummary(result.ChildCounts)
		}
		fmt.Printf("%-15s %-8s %8d  %s\n", result.Endpoint, result.Status, result.RecordCount, detail)
	}
}

func childSummary(counts map[string]int) string {
	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	parts := make([]string, 0, len(tables))
	for _, table := range tables {
		parts = append(parts, fmt.Sprintf("%s=%d", table, counts[table]))
	}
	return strings.Join(parts, " ")
}
