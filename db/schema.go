// ABOUTME: Local mirror schema definitions for all Maximo entity families
// ABOUTME: Handles idempotent SQLite table and index creation
package db

import (
	"database/sql"
)

// Every mirrored table carries three sync metadata columns: _rowstamp (the
// server's opaque version token), _last_sync (RFC3339 stamp of the upsert),
// and _sync_status (the outcome the row was written under).
const schema = `
CREATE TABLE IF NOT EXISTS organizations (
	orgid TEXT PRIMARY KEY,
	description TEXT,
	basecurrency TEXT,
	active INTEGER NOT NULL DEFAULT 0,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT
);

CREATE TABLE IF NOT EXISTS sites (
	siteid TEXT NOT NULL,
	orgid TEXT NOT NULL,
	description TEXT,
	active INTEGER NOT NULL DEFAULT 0,
	systemid TEXT,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT,
	PRIMARY KEY (siteid, orgid),
	FOREIGN KEY (orgid) REFERENCES organizations(orgid)
);

CREATE INDEX IF NOT EXISTS idx_sites_orgid ON sites(orgid);

CREATE TABLE IF NOT EXISTS billtoshipto (
	siteid TEXT NOT NULL,
	orgid TEXT NOT NULL,
	addresscode TEXT NOT NULL,
	billto INTEGER NOT NULL DEFAULT 0,
	shipto INTEGER NOT NULL DEFAULT 0,
	billtodefault INTEGER NOT NULL DEFAULT 0,
	shiptodefault INTEGER NOT NULL DEFAULT 0,
	_last_sync TEXT,
	_sync_status TEXT,
	PRIMARY KEY (siteid, orgid, addresscode),
	FOREIGN KEY (siteid, orgid) REFERENCES sites(siteid, orgid)
);

CREATE TABLE IF NOT EXISTS person (
	personid TEXT PRIMARY KEY,
	firstname TEXT,
	lastname TEXT,
	displayname TEXT,
	status TEXT,
	primaryemail TEXT,
	primaryphone TEXT,
	locationorg TEXT,
	locationsite TEXT,
	timezone TEXT,
	statusdate TEXT,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT
);

CREATE INDEX IF NOT EXISTS idx_person_status ON person(status);

CREATE TABLE IF NOT EXISTS maxuser (
	maxuserid INTEGER PRIMARY KEY,
	userid TEXT NOT NULL,
	personid TEXT NOT NULL UNIQUE,
	status TEXT,
	defsite TEXT,
	insertsite TEXT,
	querywithsite INTEGER NOT NULL DEFAULT 0,
	_last_sync TEXT,
	_sync_status TEXT,
	FOREIGN KEY (personid) REFERENCES person(personid)
);

CREATE INDEX IF NOT EXISTS idx_maxuser_userid ON maxuser(userid);
CREATE INDEX IF NOT EXISTS idx_maxuser_personid ON maxuser(personid);

CREATE TABLE IF NOT EXISTS maxgroup (
	maxgroupid INTEGER PRIMARY KEY,
	groupname TEXT NOT NULL UNIQUE,
	description TEXT,
	authallsites INTEGER NOT NULL DEFAULT 0,
	authallgls INTEGER NOT NULL DEFAULT 0,
	independent INTEGER NOT NULL DEFAULT 0,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT
);

CREATE TABLE IF NOT EXISTS groupuser (
	groupuserid INTEGER PRIMARY KEY,
	maxuserid INTEGER NOT NULL,
	groupname TEXT NOT NULL,
	_last_sync TEXT,
	_sync_status TEXT,
	UNIQUE (maxuserid, groupname),
	FOREIGN KEY (maxuserid) REFERENCES maxuser(maxuserid)
);

CREATE INDEX IF NOT EXISTS idx_groupuser_maxuserid ON groupuser(maxuserid);

CREATE TABLE IF NOT EXISTS groupuser_maxgroup (
	groupuserid INTEGER NOT NULL,
	maxgroupid INTEGER NOT NULL,
	_last_sync TEXT,
	PRIMARY KEY (groupuserid, maxgroupid),
	FOREIGN KEY (groupuserid) REFERENCES groupuser(groupuserid),
	FOREIGN KEY (maxgroupid) REFERENCES maxgroup(maxgroupid)
);

CREATE TABLE IF NOT EXISTS domains (
	domainid TEXT PRIMARY KEY,
	description TEXT,
	domaintype TEXT,
	maxtype TEXT,
	internal INTEGER NOT NULL DEFAULT 0,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT
);

CREATE TABLE IF NOT EXISTS domain_values (
	domainid TEXT NOT NULL,
	value TEXT NOT NULL,
	maxvalue TEXT,
	description TEXT,
	internal INTEGER NOT NULL DEFAULT 0,
	_last_sync TEXT,
	PRIMARY KEY (domainid, value),
	FOREIGN KEY (domainid) REFERENCES domains(domainid)
);

CREATE TABLE IF NOT EXISTS locations (
	location TEXT NOT NULL,
	siteid TEXT NOT NULL,
	orgid TEXT,
	description TEXT,
	status TEXT,
	type TEXT,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT,
	PRIMARY KEY (location, siteid)
);

CREATE INDEX IF NOT EXISTS idx_locations_status ON locations(status);

CREATE TABLE IF NOT EXISTS assets (
	assetnum TEXT NOT NULL,
	siteid TEXT NOT NULL,
	orgid TEXT,
	description TEXT,
	status TEXT,
	location TEXT,
	parent TEXT,
	serialnum TEXT,
	assettype TEXT,
	priority INTEGER,
	purchaseprice REAL,
	installdate TEXT,
	changedate TEXT,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT,
	PRIMARY KEY (assetnum, siteid)
);

CREATE INDEX IF NOT EXISTS idx_assets_location ON assets(location, siteid);
CREATE INDEX IF NOT EXISTS idx_assets_status ON assets(status);

CREATE TABLE IF NOT EXISTS assetmeter (
	assetnum TEXT NOT NULL,
	siteid TEXT NOT NULL,
	metername TEXT NOT NULL,
	description TEXT,
	lastreading TEXT,
	lastreadingdate TEXT,
	unitofmeasure TEXT,
	_last_sync TEXT,
	PRIMARY KEY (assetnum, siteid, metername),
	FOREIGN KEY (assetnum, siteid) REFERENCES assets(assetnum, siteid)
);

CREATE TABLE IF NOT EXISTS assetspec (
	assetnum TEXT NOT NULL,
	siteid TEXT NOT NULL,
	assetattrid TEXT NOT NULL,
	alnvalue TEXT,
	numvalue REAL,
	measureunit TEXT,
	section TEXT,
	_last_sync TEXT,
	PRIMARY KEY (assetnum, siteid, assetattrid),
	FOREIGN KEY (assetnum, siteid) REFERENCES assets(assetnum, siteid)
);

CREATE TABLE IF NOT EXISTS assetdoclinks (
	assetnum TEXT NOT NULL,
	siteid TEXT NOT NULL,
	docinfoid INTEGER NOT NULL,
	document TEXT,
	description TEXT,
	urlname TEXT,
	doctype TEXT,
	_last_sync TEXT,
	PRIMARY KEY (assetnum, siteid, docinfoid),
	FOREIGN KEY (assetnum, siteid) REFERENCES assets(assetnum, siteid)
);

CREATE TABLE IF NOT EXISTS assetlocations (
	assetnum TEXT NOT NULL,
	siteid TEXT NOT NULL,
	location TEXT NOT NULL,
	movedate TEXT NOT NULL,
	_last_sync TEXT,
	PRIMARY KEY (assetnum, siteid, location, movedate),
	FOREIGN KEY (assetnum, siteid) REFERENCES assets(assetnum, siteid)
);

CREATE TABLE IF NOT EXISTS assetfailure (
	assetnum TEXT NOT NULL,
	siteid TEXT NOT NULL,
	ticketid TEXT NOT NULL,
	failurecode TEXT,
	failuredate TEXT,
	_last_sync TEXT,
	PRIMARY KEY (assetnum, siteid, ticketid),
	FOREIGN KEY (assetnum, siteid) REFERENCES assets(assetnum, siteid)
);

CREATE TABLE IF NOT EXISTS assetcosthistory (
	assetnum TEXT NOT NULL,
	siteid TEXT NOT NULL,
	costtype TEXT NOT NULL,
	cost REAL,
	costdate TEXT NOT NULL,
	_last_sync TEXT,
	PRIMARY KEY (assetnum, siteid, costtype, costdate),
	FOREIGN KEY (assetnum, siteid) REFERENCES assets(assetnum, siteid)
);

CREATE TABLE IF NOT EXISTS workorder (
	wonum TEXT NOT NULL,
	workorderid INTEGER NOT NULL,
	siteid TEXT,
	orgid TEXT,
	description TEXT,
	status TEXT,
	statusdate TEXT,
	worktype TEXT,
	priority INTEGER,
	location TEXT,
	assetnum TEXT,
	parent TEXT,
	istask INTEGER NOT NULL DEFAULT 0,
	historyflag INTEGER NOT NULL DEFAULT 0,
	schedstart TEXT,
	schedfinish TEXT,
	reportdate TEXT,
	reportedby TEXT,
	supervisor TEXT,
	lead TEXT,
	estdur REAL,
	changedate TEXT,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT,
	PRIMARY KEY (wonum, workorderid)
);

CREATE INDEX IF NOT EXISTS idx_workorder_siteid ON workorder(siteid);
CREATE INDEX IF NOT EXISTS idx_workorder_status ON workorder(status);
CREATE INDEX IF NOT EXISTS idx_workorder_parent ON workorder(parent);
CREATE INDEX IF NOT EXISTS idx_workorder_assetnum ON workorder(assetnum, siteid);

CREATE TABLE IF NOT EXISTS woserviceaddress (
	wonum TEXT NOT NULL,
	workorderid INTEGER NOT NULL,
	siteid TEXT,
	serviceaddressid INTEGER,
	description TEXT,
	streetaddress TEXT,
	city TEXT,
	stateprovince TEXT,
	postalcode TEXT,
	country TEXT,
	_last_sync TEXT,
	PRIMARY KEY (wonum, workorderid),
	FOREIGN KEY (wonum, workorderid) REFERENCES workorder(wonum, workorderid)
);

CREATE TABLE IF NOT EXISTS wolabor (
	wonum TEXT NOT NULL,
	workorderid INTEGER NOT NULL,
	siteid TEXT,
	taskid INTEGER NOT NULL DEFAULT 0,
	laborcode TEXT NOT NULL,
	craft TEXT,
	laborhrs REAL,
	rate REAL,
	startdate TEXT,
	_last_sync TEXT,
	PRIMARY KEY (wonum, workorderid, taskid, laborcode),
	FOREIGN KEY (wonum, workorderid) REFERENCES workorder(wonum, workorderid)
);

CREATE TABLE IF NOT EXISTS womaterial (
	wonum TEXT NOT NULL,
	workorderid INTEGER NOT NULL,
	siteid TEXT,
	itemnum TEXT NOT NULL,
	description TEXT,
	itemqty REAL,
	unitcost REAL,
	linecost REAL,
	storeloc TEXT,
	_last_sync TEXT,
	PRIMARY KEY (wonum, workorderid, itemnum),
	FOREIGN KEY (wonum, workorderid) REFERENCES workorder(wonum, workorderid)
);

CREATE TABLE IF NOT EXISTS wotool (
	wonum TEXT NOT NULL,
	workorderid INTEGER NOT NULL,
	siteid TEXT,
	toolnum TEXT NOT NULL,
	description TEXT,
	toolqty REAL,
	toolhrs REAL,
	_last_sync TEXT,
	PRIMARY KEY (wonum, workorderid, toolnum),
	FOREIGN KEY (wonum, workorderid) REFERENCES workorder(wonum, workorderid)
);

CREATE TABLE IF NOT EXISTS inventory (
	inventoryid INTEGER PRIMARY KEY,
	itemnum TEXT NOT NULL,
	itemsetid TEXT,
	siteid TEXT,
	orgid TEXT,
	location TEXT,
	status TEXT,
	description TEXT,
	issueunit TEXT,
	orderunit TEXT,
	avgcost REAL,
	stdcost REAL,
	curbaltotal REAL,
	minlevel REAL,
	maxlevel REAL,
	orderqty REAL,
	vendor TEXT,
	abctype TEXT,
	_rowstamp TEXT,
	_last_sync TEXT,
	_sync_status TEXT
);

CREATE INDEX IF NOT EXISTS idx_inventory_itemnum ON inventory(itemnum, siteid);
CREATE INDEX IF NOT EXISTS idx_inventory_location ON inventory(location, siteid);

CREATE TABLE IF NOT EXISTS inventory_invbalances (
	inventoryid INTEGER NOT NULL,
	itemnum TEXT,
	siteid TEXT,
	location TEXT,
	binnum TEXT NOT NULL DEFAULT '',
	lotnum TEXT NOT NULL DEFAULT '',
	curbal REAL,
	reservedqty REAL,
	availableqty REAL,
	physcnt REAL,
	physcntdate TEXT,
	conditioncode TEXT,
	_last_sync TEXT,
	PRIMARY KEY (inventoryid, binnum, lotnum),
	FOREIGN KEY (inventoryid) REFERENCES inventory(inventoryid)
);

CREATE TABLE IF NOT EXISTS inventory_invcost (
	inventoryid INTEGER NOT NULL,
	itemnum TEXT,
	siteid TEXT,
	costtype TEXT NOT NULL,
	unitcost REAL,
	stdcost REAL,
	avgcost REAL,
	conditioncode TEXT NOT NULL DEFAULT '',
	_last_sync TEXT,
	PRIMARY KEY (inventoryid, costtype, conditioncode),
	FOREIGN KEY (inventoryid) REFERENCES inventory(inventoryid)
);

CREATE TABLE IF NOT EXISTS inventory_matrectrans (
	inventoryid INTEGER NOT NULL,
	matrectransid INTEGER NOT NULL,
	itemnum TEXT,
	siteid TEXT,
	transtype TEXT,
	quantity REAL,
	unitcost REAL,
	linecost REAL,
	transdate TEXT,
	ponum TEXT,
	receiver TEXT,
	_last_sync TEXT,
	PRIMARY KEY (inventoryid, matrectransid),
	FOREIGN KEY (inventoryid) REFERENCES inventory(inventoryid)
);

CREATE TABLE IF NOT EXISTS inventory_transfercuritem (
	inventoryid INTEGER NOT NULL,
	itemnum TEXT,
	fromstoreloc TEXT NOT NULL DEFAULT '',
	tostoreloc TEXT NOT NULL DEFAULT '',
	fromsiteid TEXT NOT NULL DEFAULT '',
	tositeid TEXT NOT NULL DEFAULT '',
	quantity REAL,
	transdate TEXT NOT NULL DEFAULT '',
	_last_sync TEXT,
	PRIMARY KEY (inventoryid, fromstoreloc, tostoreloc, transdate),
	FOREIGN KEY (inventoryid) REFERENCES inventory(inventoryid)
);

CREATE TABLE IF NOT EXISTS inventory_itemcondition (
	inventoryid INTEGER NOT NULL,
	itemnum TEXT,
	conditioncode TEXT NOT NULL,
	condrate REAL,
	description TEXT,
	_last_sync TEXT,
	PRIMARY KEY (inventoryid, conditioncode),
	FOREIGN KEY (inventoryid) REFERENCES inventory(inventoryid)
);

CREATE TABLE IF NOT EXISTS sync_status (
	endpoint TEXT PRIMARY KEY,
	last_sync TEXT,
	record_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'never' CHECK(status IN ('never', 'success', 'partial', 'error', 'skipped')),
	message TEXT,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// InitSchema creates every table and index if absent. Safe to run against
// an already-initialized store.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
