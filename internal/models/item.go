package models

import (
	"time"
)

// ItemType distinguishes reports of lost belongings from found ones.
type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// ItemStatus is the lifecycle state of a listing.
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusResolved ItemStatus = "resolved"
	ItemStatusArchived ItemStatus = "archived"
)

// Category constants define the closed set of item categories
const (
	CategoryElectronics = "Electronics"
	CategoryKeys        = "Keys"
	CategoryDocuments   = "Documents"
	CategoryJewelry     = "Jewelry"
	CategoryClothing    = "Clothing"
	CategoryBags        = "Bags"
	CategoryPets        = "Pets"
	CategoryOther       = "Other"
)

// AllValidCategories is the whitelist of allowed categories
var AllValidCategories = map[string]bool{
	CategoryElectronics: true,
	CategoryKeys:        true,
	CategoryDocuments:   true,
	CategoryJewelry:     true,
	CategoryClothing:    true,
	CategoryBags:        true,
	CategoryPets:        true,
	CategoryOther:       true,
}

// IsValidCategory checks if a category exists in the whitelist
func IsValidCategory(category string) bool {
	return AllValidCategories[category]
}

// IsValid reports whether the type is one of the closed set.
func (t ItemType) IsValid() bool {
	return t == ItemTypeLost || t == ItemTypeFound
}

// IsValid reports whether the status is one of the closed set.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusActive, ItemStatusResolved, ItemStatusArchived:
		return true
	}
	return false
}

type Item struct {
	ID          string
	Title       string
	Description string
	Type        ItemType
	Category    string
	Location    string
	Date        time.Time // When the item was lost or found; never in the future
	ImageURL    string    // Optional reference into object storage
	ContactInfo string    // Optional free-form contact text
	OwnerID     string
	Status      ItemStatus
	IsActive    bool // Soft-delete marker
	Views       int64
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemFilter carries the listing query after boundary validation.
// Zero values mean "not filtered on".
type ItemFilter struct {
	Type     ItemType
	Category string
	Location string // Case-insensitive substring match
	Search   string // Delegated to the store's text index
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

const (
	ItemListDefaultLimit = 10
	ItemListMaxLimit     = 50

	ItemMaxTags      = 10
	ItemTagMaxLength = 30
)

// Normalize clamps pagination to the supported window.
func (f *ItemFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = ItemListDefaultLimit
	}
	if f.Limit > ItemListMaxLimit {
		f.Limit = ItemListMaxLimit
	}
}

// Offset converts page/limit into a row offset.
func (f *ItemFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
