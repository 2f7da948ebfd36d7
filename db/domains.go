// ABOUTME: Upsert operations for domain definitions and their value lists
// ABOUTME: Domains are global reference vocabulary, never site-scoped
package db

import (
	"database/sql"
	"fmt"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

// UpsertDomain writes one domain with its value list. Value rows mirror the
// source's current list, so stale rows from a prior sync are dropped first
// (which also keeps the parent REPLACE legal under the foreign key).
func UpsertDomain(tx *sql.Tx, d *models.Domain, stamp, status string) error {
	if _, err := tx.Exec("DELETE FROM domain_values WHERE domainid = ?", d.DomainID); err != nil {
		return fmt.Errorf("refresh domain_values %s: %w", d.DomainID, err)
	}

	_, err := tx.Exec(`
		INSERT OR REPLACE INTO domains
			(domainid, description, domaintype, maxtype, internal, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, d.DomainID, d.Description, d.DomainType, d.MaxType, boolToInt(d.Internal), d.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert domain %s: %w", d.DomainID, err)
	}

	for _, v := range d.Values {
		if v.DomainID == "" {
			v.DomainID = d.DomainID
		}
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO domain_values
				(domainid, value, maxvalue, description, internal, _last_sync)
			VALUES (?, ?, ?, ?, ?, ?)
		`, v.DomainID, v.Value, v.MaxValue, v.Description, boolToInt(v.Internal), stamp)
		if err != nil {
			return fmt.Errorf("upsert domain value %s/%s: %w", v.DomainID, v.Value, err)
		}
	}

	return nil
}

// ClearDomains removes all domain rows, values first.
func ClearDomains(tx *sql.Tx) error {
	for _, table := range []string{"domain_values", "domains"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
