// ABOUTME: Typed intermediate records for each Maximo endpoint
// ABOUTME: Defines parent structs with child-collection slots so upsert code never touches raw JSON maps
package models

import "time"

// Organization mirrors a MXAPIORGANIZATION record.
type Organization struct {
	OrgID        string
	Description  string
	BaseCurrency string
	Active       bool
	RowStamp     string
	Sites        []Site
}

// Site is owned by an Organization and referenced by every site-scoped entity.
type Site struct {
	SiteID        string
	OrgID         string
	Description   string
	Active        bool
	SystemID      string
	RowStamp      string
	BillToShipTos []BillToShipTo
}

type BillToShipTo struct {
	SiteID        string
	OrgID         string
	AddressCode   string
	BillTo        bool
	ShipTo        bool
	BillToDefault bool
	ShipToDefault bool
}

// Person mirrors a MXAPIPERUSER person record together with its maxuser.
type Person struct {
	PersonID     string
	FirstName    string
	LastName     string
	DisplayName  string
	Status       string
	PrimaryEmail string
	PrimaryPhone string
	LocationOrg  string
	LocationSite string
	TimeZone     string
	StatusDate   string
	RowStamp     string
	MaxUser      *MaxUser
}

// MaxUser is the login identity attached to a Person, keyed by that person.
// MaxUserID is the local row id, assigned on upsert.
type MaxUser struct {
	MaxUserID     int64
	UserID        string
	PersonID      string
	Status        string
	DefSite       string
	InsertSite    string
	QueryWithSite bool
	GroupUsers    []GroupUser
}

// GroupUser links a MaxUser to a security group. The referenced group may
// arrive after the membership row, so upserts must tolerate forward
// references (see db.UpsertGroupUser). GroupUserID is the local row id,
// assigned on upsert.
type GroupUser struct {
	GroupUserID int64
	MaxUserID   int64
	GroupName   string
}

// MaxGroup is a reference table of security group definitions, keyed by
// group name.
type MaxGroup struct {
	GroupName    string
	Description  string
	AuthAllSites bool
	AuthAllGLs   bool
	Independent  bool
	RowStamp     string
}

// Domain mirrors a MXAPIDOMAIN record with its value list.
type Domain struct {
	DomainID    string
	Description string
	DomainType  string
	MaxType     string
	Internal    bool
	RowStamp    string
	Values      []DomainValue
}

type DomainValue struct {
	DomainID    string
	Value       string
	MaxValue    string
	Description string
	Internal    bool
}

// Location mirrors a MXAPIOPERLOC record.
type Location struct {
	Location    string
	SiteID      string
	OrgID       string
	Description string
	Status      string
	Type        string
	RowStamp    string
}

// Asset mirrors a MXAPIASSET record with its related collections.
type Asset struct {
	AssetNum      string
	SiteID        string
	OrgID         string
	Description   string
	Status        string
	Location      string
	Parent        string
	SerialNum     string
	AssetType     string
	Priority      int64
	PurchasePrice float64
	InstallDate   string
	ChangeDate    string
	RowStamp      string

	Meters          []AssetMeter
	Specs           []AssetSpec
	DocLinks        []AssetDocLink
	LocationHistory []AssetLocation
	Failures        []AssetFailure
	CostHistory     []AssetCost
}

type AssetMeter struct {
	AssetNum        string
	SiteID          string
	MeterName       string
	Description     string
	LastReading     string
	LastReadingDate string
	UnitOfMeasure   string
}

type AssetSpec struct {
	AssetNum    string
	SiteID      string
	AssetAttrID string
	AlnValue    string
	NumValue    float64
	MeasureUnit string
	Section     string
}

type AssetDocLink struct {
	AssetNum    string
	SiteID      string
	DocInfoID   int64
	Document    string
	Description string
	URLName     string
	DocType     string
}

type AssetLocation struct {
	AssetNum string
	SiteID   string
	Location string
	MoveDate string
}

type AssetFailure struct {
	AssetNum    string
	SiteID      string
	TicketID    string
	FailureCode string
	FailureDate string
}

type AssetCost struct {
	AssetNum string
	SiteID   string
	CostType string
	Cost     float64
	CostDate string
}

// WorkOrder mirrors a MXAPIWODETAIL record. A work order may itself be a
// task of a parent work order (Parent + IsTask).
type WorkOrder struct {
	WoNum       string
	WorkOrderID int64
	SiteID      string
	OrgID       string
	Description string
	Status      string
	StatusDate  string
	WorkType    string
	Priority    int64
	Location    string
	AssetNum    string
	Parent      string
	IsTask      bool
	HistoryFlag bool
	Schedstart  string
	Schedfinish string
	ReportDate  string
	ReportedBy  string
	Supervisor  string
	Lead        string
	EstDur      float64
	ChangeDate  string
	RowStamp    string

	ServiceAddress *WoServiceAddress
	Labor          []WoLabor
	Materials      []WoMaterial
	Tools          []WoTool
}

type WoServiceAddress struct {
	WoNum            string
	WorkOrderID      int64
	SiteID           string
	ServiceAddressID int64
	Description      string
	StreetAddress    string
	City             string
	StateProvince    string
	PostalCode       string
	Country          string
}

type WoLabor struct {
	WoNum       string
	WorkOrderID int64
	SiteID      string
	TaskID      int64
	LaborCode   string
	Craft       string
	LaborHrs    float64
	Rate        float64
	StartDate   string
}

type WoMaterial struct {
	WoNum       string
	WorkOrderID int64
	SiteID      string
	ItemNum     string
	Description string
	ItemQty     float64
	UnitCost    float64
	LineCost    float64
	StoreLoc    string
}

type WoTool struct {
	WoNum       string
	WorkOrderID int64
	SiteID      string
	ToolNum     string
	Description string
	ToolQty     float64
	ToolHrs     float64
}

// Inventory mirrors a MXAPIINVENTORY record with its nested collections.
type Inventory struct {
	InventoryID int64
	ItemNum     string
	ItemSetID   string
	SiteID      string
	OrgID       string
	Location    string
	Status      string
	Description string
	IssueUnit   string
	OrderUnit   string
	AvgCost     float64
	StdCost     float64
	CurBalTotal float64
	MinLevel    float64
	MaxLevel    float64
	OrderQty    float64
	Vendor      string
	ABCType     string
	RowStamp    string

	Balances         []InvBalance
	Costs            []InvCost
	MatRecTrans      []MatRecTran
	TransferCurItems []TransferCurItem
	ItemConditions   []ItemCondition
}

// InvBalance is one per-bin balance row. AvailableQty is derived at mapping
// time as CurBal minus ReservedQty.
type InvBalance struct {
	InventoryID   int64
	ItemNum       string
	SiteID        string
	Location      string
	BinNum        string
	LotNum        string
	CurBal        float64
	ReservedQty   float64
	AvailableQty  float64
	PhysCnt       float64
	PhysCntDate   string
	ConditionCode string
}

type InvCost struct {
	InventoryID   int64
	ItemNum       string
	SiteID        string
	CostType      string
	UnitCost      float64
	StdCost       float64
	AvgCost       float64
	ConditionCode string
}

type MatRecTran struct {
	InventoryID   int64
	MatRecTransID int64
	ItemNum       string
	SiteID        string
	TransType     string
	Quantity      float64
	UnitCost      float64
	LineCost      float64
	TransDate     string
	PONum         string
	Receiver      string
}

type TransferCurItem struct {
	InventoryID  int64
	ItemNum      string
	FromStoreLoc string
	ToStoreLoc   string
	FromSiteID   string
	ToSiteID     string
	Quantity     float64
	TransDate    string
}

type ItemCondition struct {
	InventoryID   int64
	ItemNum       string
	ConditionCode string
	CondRate      float64
	Description   string
}

// UserProfile is the whoami result used for site resolution.
type UserProfile struct {
	LoginID     string `json:"login_id"`
	PersonID    string `json:"person_id"`
	DisplayName string `json:"display_name"`
	DefaultSite string `json:"default_site"`
	InsertSite  string `json:"insert_site"`
	DefaultOrg  string `json:"default_org"`
}

// AvailableQty returns current balance minus reservations, floored at the
// raw difference (negative balances are a real Maximo state and kept as-is).
func AvailableQty(curBal, reservedQty float64) float64 {
	return curBal - reservedQty
}

// SyncTimestamp formats t the way sync metadata columns store it.
func SyncTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
