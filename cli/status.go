// ABOUTME: Status CLI command printing the sync_status audit table
// ABOUTME: The per-endpoint summary is the operator's only sync feedback
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/gogreenverze/MaximoWin-sub000/db"
)

// StatusCommand prints one line per endpoint from sync_status.
func StatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	statuses, err := db.ListSyncStatuses(database)
	if err != nil {
		return fmt.Errorf("list sync statuses: %w", err)
	}

	if len(statuses) == 0 {
		fmt.Println("No sync has run yet.")
		return nil
	}

	fmt.Printf("%-15s %-8s %8s  %-20s %s\n", "ENDPOINT", "STATUS", "RECORDS", "LAST SYNC", "MESSAGE")
	for _, status := range statuses {
		lastSync := "never"
		if status.LastSync != nil {
			lastSync = status.LastSync.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-15s %-8s %8d  %-20s %s\n",
			status.Endpoint, status.Status, status.RecordCount, lastSync, status.Message)
	}

	return nil
}
