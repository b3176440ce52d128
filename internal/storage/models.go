package storage

import "time"

// Checkout status values.
const (
	CheckoutStatusOut = "out"
	CheckoutStatusIn  = "in"
)

// CardRecord is one catalog printing. Derived fields are pure functions of
// Name plus set context and can be recomputed during schema migration.
type CardRecord struct {
	ID                  int64
	Name                string
	NameLower           string
	NameNormalized      string
	SearchNormalized    string
	FirstLetter         string
	Tokens              []string
	Initials            string
	ProgressiveInitials []string
	VariantTags         []string
	IsFoilVariant       bool
	SetCode             string
	SetName             string
	CollectorNumber     string
	Rarity              string
	TypeLine            string
	ImageURL            string
	ImageURLBack        string
}

// SetCacheEntry tracks an imported catalog subset.
type SetCacheEntry struct {
	SetCode   string
	SetName   string
	CardCount int
	CachedAt  time.Time
	Active    bool
}

// InventoryRecord is one physically distinguishable owned copy.
// Note encodes the current physical location as "{locationTag}p{position}".
// NoteID is an external identifier populated lazily by note synchronization.
type InventoryRecord struct {
	InventoryID     int64
	EMID            int64
	Name            string
	NameLower       string
	SetCode         string
	SetName         string
	CollectorNumber string
	Rarity          string
	Condition       string
	Language        string
	Foil            bool
	Note            string
	NoteID          string
	AcquiredPrice   string
	DateAcquired    string
}

// CheckoutRecord records the temporary relocation of one inventory item.
// Source fields capture the item's location at checkout time; an empty
// SourceLocation means the note was absent or malformed.
type CheckoutRecord struct {
	ID              int64
	InventoryID     int64
	EMID            int64
	CardName        string
	SetCode         string
	CollectorNumber string
	TargetLocation  string
	TargetPosition  int
	SourceLocation  string
	SourcePosition  int
	Status          string
	CheckedOutAt    time.Time
	CheckedInAt     *time.Time
	ReturnLocation  string
	ReturnPosition  int
}

// PlanItem is one pickable entry of a retrieval plan.
type PlanItem struct {
	EMID            int64  `json:"emid"`
	InventoryID     int64  `json:"inventory_id"`
	CardName        string `json:"card_name"`
	SetCode         string `json:"set_code"`
	CollectorNumber string `json:"collector_number"`
	CurrentLocation string `json:"current_location"`
	CurrentPosition int    `json:"current_position"`
	Checked         bool   `json:"checked"`
}

// RetrievalPlan is a durable, expiring pick list created by a checkout batch.
type RetrievalPlan struct {
	ID             string
	Title          string
	TargetLocation string
	TargetOffset   int
	CreatedAt      time.Time
	ExpiresAt      time.Time
	Status         string
	Items          []PlanItem
}

// OpenGroup summarizes the currently checked-out records for one target
// location.
type OpenGroup struct {
	Location             string
	Count                int
	EarliestCheckedOutAt time.Time
}

// Location is a known storage location tag with the highest position
// observed for it.
type Location struct {
	Tag         string
	MaxPosition int
}
