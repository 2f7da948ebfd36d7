// ABOUTME: Upsert operations for person, maxuser, groupuser, and maxgroup rows
// ABOUTME: Resolves group forward references by creating placeholder maxgroup rows in the same transaction
package db

import (
	"database/sql"
	"fmt"

	"github.com/gogreenverze/MaximoWin-sub000/models"
)

// UpsertPerson writes one person with its maxuser and group memberships.
// Person and maxuser update in place rather than REPLACE so the rows hanging
// off them survive a re-sync under the foreign keys.
func UpsertPerson(tx *sql.Tx, p *models.Person, stamp, status string) error {
	_, err := tx.Exec(`
		INSERT INTO person
			(personid, firstname, lastname, displayname, status, primaryemail, primaryphone,
			 locationorg, locationsite, timezone, statusdate, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(personid) DO UPDATE SET
			firstname = excluded.firstname,
			lastname = excluded.lastname,
			displayname = excluded.displayname,
			status = excluded.status,
			primaryemail = excluded.primaryemail,
			primaryphone = excluded.primaryphone,
			locationorg = excluded.locationorg,
			locationsite = excluded.locationsite,
			timezone = excluded.timezone,
			statusdate = excluded.statusdate,
			_rowstamp = excluded._rowstamp,
			_last_sync = excluded._last_sync,
			_sync_status = excluded._sync_status
	`, p.PersonID, p.FirstName, p.LastName, p.DisplayName, p.Status, p.PrimaryEmail, p.PrimaryPhone,
		p.LocationOrg, p.LocationSite, p.TimeZone, p.StatusDate, p.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert person %s: %w", p.PersonID, err)
	}

	if p.MaxUser == nil {
		return nil
	}

	// Login rows are keyed by the person they belong to; maxuserid is a
	// local row id, not the server's, so records that arrive without one
	// cannot collide with each other.
	mu := p.MaxUser
	if mu.PersonID == "" {
		mu.PersonID = p.PersonID
	}
	_, err = tx.Exec(`
		INSERT INTO maxuser
			(userid, personid, status, defsite, insertsite, querywithsite, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(personid) DO UPDATE SET
			userid = excluded.userid,
			status = excluded.status,
			defsite = excluded.defsite,
			insertsite = excluded.insertsite,
			querywithsite = excluded.querywithsite,
			_last_sync = excluded._last_sync,
			_sync_status = excluded._sync_status
	`, mu.UserID, mu.PersonID, mu.Status, mu.DefSite, mu.InsertSite,
		boolToInt(mu.QueryWithSite), stamp, status)
	if err != nil {
		return fmt.Errorf("upsert maxuser %s: %w", mu.UserID, err)
	}

	err = tx.QueryRow(`SELECT maxuserid FROM maxuser WHERE personid = ?`, mu.PersonID).
		Scan(&mu.MaxUserID)
	if err != nil {
		return fmt.Errorf("resolve maxuser %s: %w", mu.UserID, err)
	}

	for i := range mu.GroupUsers {
		gu := &mu.GroupUsers[i]
		gu.MaxUserID = mu.MaxUserID
		if err := UpsertGroupUser(tx, gu, stamp, status); err != nil {
			return err
		}
	}

	return nil
}

// UpsertGroupUser writes one group membership and its groupuser_maxgroup
// link. Membership rows routinely arrive before the group definitions they
// reference; a placeholder maxgroup row is created in the same transaction
// so the foreign key always resolves, and UpsertMaxGroup later fills the
// placeholder in without losing the link.
func UpsertGroupUser(tx *sql.Tx, gu *models.GroupUser, stamp, status string) error {
	maxGroupID, err := ensureMaxGroup(tx, gu.GroupName, stamp)
	if err != nil {
		return err
	}

	// Memberships are keyed by (maxuserid, groupname); groupuserid is a
	// local row id, not the server's, so re-synced rows upsert cleanly.
	_, err = tx.Exec(`
		INSERT INTO groupuser (maxuserid, groupname, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(maxuserid, groupname) DO UPDATE SET
			_last_sync = excluded._last_sync,
			_sync_status = excluded._sync_status
	`, gu.MaxUserID, gu.GroupName, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert groupuser %d/%s: %w", gu.MaxUserID, gu.GroupName, err)
	}

	var groupUserID int64
	err = tx.QueryRow(`
		SELECT groupuserid FROM groupuser WHERE maxuserid = ? AND groupname = ?
	`, gu.MaxUserID, gu.GroupName).Scan(&groupUserID)
	if err != nil {
		return fmt.Errorf("resolve groupuser %d/%s: %w", gu.MaxUserID, gu.GroupName, err)
	}
	gu.GroupUserID = groupUserID

	_, err = tx.Exec(`
		INSERT INTO groupuser_maxgroup (groupuserid, maxgroupid, _last_sync)
		VALUES (?, ?, ?)
		ON CONFLICT(groupuserid, maxgroupid) DO UPDATE SET
			_last_sync = excluded._last_sync
	`, groupUserID, maxGroupID, stamp)
	if err != nil {
		return fmt.Errorf("link groupuser %d to maxgroup %d: %w", groupUserID, maxGroupID, err)
	}

	return nil
}

// UpsertMaxGroup writes one group definition. Groups are keyed logically by
// name with a local row id: when a placeholder already holds the name, the
// definition fills it in without disturbing the membership links.
func UpsertMaxGroup(tx *sql.Tx, g *models.MaxGroup, stamp, status string) error {
	_, err := tx.Exec(`
		INSERT INTO maxgroup
			(groupname, description, authallsites, authallgls, independent, _rowstamp, _last_sync, _sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(groupname) DO UPDATE SET
			description = excluded.description,
			authallsites = excluded.authallsites,
			authallgls = excluded.authallgls,
			independent = excluded.independent,
			_rowstamp = excluded._rowstamp,
			_last_sync = excluded._last_sync,
			_sync_status = excluded._sync_status
	`, g.GroupName, g.Description,
		boolToInt(g.AuthAllSites), boolToInt(g.AuthAllGLs), boolToInt(g.Independent),
		g.RowStamp, stamp, status)
	if err != nil {
		return fmt.Errorf("upsert maxgroup %s: %w", g.GroupName, err)
	}
	return nil
}

// ensureMaxGroup returns the local row id for a group name, creating a
// placeholder definition when none exists yet.
func ensureMaxGroup(tx *sql.Tx, groupName, stamp string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT maxgroupid FROM maxgroup WHERE groupname = ?`, groupName).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("lookup maxgroup %s: %w", groupName, err)
	}

	res, err := tx.Exec(`
		INSERT INTO maxgroup (groupname, description, _last_sync, _sync_status)
		VALUES (?, '', ?, 'placeholder')
	`, groupName, stamp)
	if err != nil {
		return 0, fmt.Errorf("create placeholder maxgroup %s: %w", groupName, err)
	}
	return res.LastInsertId()
}

// ClearPersons removes all person-family rows, children first.
func ClearPersons(tx *sql.Tx) error {
	for _, table := range []string{"groupuser_maxgroup", "groupuser", "maxgroup", "maxuser", "person"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
