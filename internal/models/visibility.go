package models

// Visibility policy for items. Pure decision functions with no stored
// state; callers pass the acting user's ID ("" for anonymous viewers).

// CanViewItem reports whether the item detail is visible to anyone.
// Resolved items remain viewable; archived or soft-deleted items do not.
func CanViewItem(item *Item) bool {
	return item.IsActive && item.Status != ItemStatusArchived
}

// CanEditItem reports whether actor may modify the item's fields.
func CanEditItem(item *Item, actorID string) bool {
	return actorID != "" && actorID == item.OwnerID && item.IsActive
}

// CanClaimItem reports whether actor may submit a claim on the item.
// Only found items still active and listed are claimable, and never
// by their own owner.
func CanClaimItem(item *Item, actorID string) bool {
	if actorID == "" || actorID == item.OwnerID {
		return false
	}
	return item.Type == ItemTypeFound && item.Status == ItemStatusActive && item.IsActive
}

// CanResolveItem reports whether actor may mark the item resolved.
func CanResolveItem(item *Item, actorID string) bool {
	return actorID != "" && actorID == item.OwnerID
}

// CanDeleteItem reports whether actor may soft-delete the item.
func CanDeleteItem(item *Item, actorID string) bool {
	return actorID != "" && actorID == item.OwnerID
}

// IsListed reports whether the item belongs in public listings.
// Stricter than CanViewItem: resolved items are excluded here.
func IsListed(item *Item) bool {
	return item.IsActive && item.Status == ItemStatusActive
}
