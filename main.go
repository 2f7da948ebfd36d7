// ABOUTME: Entry point for the Maximo offline sync CLI
// ABOUTME: Routes init, sync, and status commands against the local mirror database
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/cli"
	"github.com/gogreenverze/MaximoWin-sub000/config"
	"github.com/gogreenverze/MaximoWin-sub000/db"
)

const version = "0.2.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/maximo-offline/maximo.db)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("maximo-sync version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database at %s: %v\n", cfg.DBPath, err)
		os.Exit(1)
	}
	defer database.Close()

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "init":
		// OpenDatabase already ensured the schema
		fmt.Printf("Database initialized at %s\n", cfg.DBPath)

	case "sync":
		if err := cli.SyncCommand(database, cfg, logger, commandArgs); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "status":
		if err := cli.StatusCommand(database, commandArgs); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func printUsage() {
	fmt.Println(`maximo-sync - offline mirror of a Maximo server

Usage:
  maximo-sync [flags] <command>

Commands:
  init                      Create the local database schema and exit
  sync all                  Sync every endpoint in dependency order
  sync <endpoint>           Sync one endpoint (organizations, persons, domains,
                            locations, assets, workorders, inventory)
  status                    Show per-endpoint sync status

Flags:
  -db-path <path>           Database path (default: XDG data dir)
  -debug                    Debug logging
  -version                  Show version

Sync flags:
  -site <siteid>            Site scope (default: resolved from whoami)
  -force-full               Clear and repopulate instead of incremental

Configuration is read from the environment or a .env file:
  MAXIMO_BASE_URL, MAXIMO_API_KEY, MAXIMO_VERIFY_SSL,
  SYNC_DB_PATH, SYNC_CACHE_DIR, SYNC_CACHE_TTL`)
}
