package models

import (
	"testing"
)

func TestCanViewItem(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		expected bool
	}{
		{name: "active listed item", item: Item{Status: ItemStatusActive, IsActive: true}, expected: true},
		{name: "resolved item stays viewable", item: Item{Status: ItemStatusResolved, IsActive: true}, expected: true},
		{name: "archived item hidden", item: Item{Status: ItemStatusArchived, IsActive: true}, expected: false},
		{name: "soft-deleted item hidden", item: Item{Status: ItemStatusActive, IsActive: false}, expected: false},
		{name: "soft-deleted archived item hidden", item: Item{Status: ItemStatusArchived, IsActive: false}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanViewItem(&tt.item)
			if result != tt.expected {
				t.Errorf("CanViewItem() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCanClaimItem_OwnerNeverClaims(t *testing.T) {
	// The owner must not be able to claim their own item for any
	// combination of type and status.
	types := []ItemType{ItemTypeLost, ItemTypeFound}
	statuses := []ItemStatus{ItemStatusActive, ItemStatusResolved, ItemStatusArchived}
	actives := []bool{true, false}

	for _, typ := range types {
		for _, status := range statuses {
			for _, active := range actives {
				item := Item{OwnerID: "owner-1", Type: typ, Status: status, IsActive: active}
				if CanClaimItem(&item, "owner-1") {
					t.Errorf("CanClaimItem(owner) = true for type=%s status=%s active=%v", typ, status, active)
				}
			}
		}
	}
}

func TestCanClaimItem(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		actorID  string
		expected bool
	}{
		{
			name:     "non-owner claims active found item",
			item:     Item{OwnerID: "owner-1", Type: ItemTypeFound, Status: ItemStatusActive, IsActive: true},
			actorID:  "user-2",
			expected: true,
		},
		{
			name:     "lost items are not claimable",
			item:     Item{OwnerID: "owner-1", Type: ItemTypeLost, Status: ItemStatusActive, IsActive: true},
			actorID:  "user-2",
			expected: false,
		},
		{
			name:     "resolved item not claimable",
			item:     Item{OwnerID: "owner-1", Type: ItemTypeFound, Status: ItemStatusResolved, IsActive: true},
			actorID:  "user-2",
			expected: false,
		},
		{
			name:     "soft-deleted item not claimable",
			item:     Item{OwnerID: "owner-1", Type: ItemTypeFound, Status: ItemStatusActive, IsActive: false},
			actorID:  "user-2",
			expected: false,
		},
		{
			name:     "anonymous cannot claim",
			item:     Item{OwnerID: "owner-1", Type: ItemTypeFound, Status: ItemStatusActive, IsActive: true},
			actorID:  "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanClaimItem(&tt.item, tt.actorID)
			if result != tt.expected {
				t.Errorf("CanClaimItem() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCanEditItem(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		actorID  string
		expected bool
	}{
		{name: "owner edits active item", item: Item{OwnerID: "u1", IsActive: true}, actorID: "u1", expected: true},
		{name: "owner cannot edit soft-deleted item", item: Item{OwnerID: "u1", IsActive: false}, actorID: "u1", expected: false},
		{name: "non-owner cannot edit", item: Item{OwnerID: "u1", IsActive: true}, actorID: "u2", expected: false},
		{name: "anonymous cannot edit", item: Item{OwnerID: "u1", IsActive: true}, actorID: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanEditItem(&tt.item, tt.actorID)
			if result != tt.expected {
				t.Errorf("CanEditItem() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCanResolveAndDeleteItem(t *testing.T) {
	item := Item{OwnerID: "u1", IsActive: true}

	if !CanResolveItem(&item, "u1") {
		t.Error("CanResolveItem(owner) = false, want true")
	}
	if CanResolveItem(&item, "u2") {
		t.Error("CanResolveItem(non-owner) = true, want false")
	}
	if !CanDeleteItem(&item, "u1") {
		t.Error("CanDeleteItem(owner) = false, want true")
	}
	if CanDeleteItem(&item, "") {
		t.Error("CanDeleteItem(anonymous) = true, want false")
	}
}

func TestIsListed(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		expected bool
	}{
		{name: "active item listed", item: Item{Status: ItemStatusActive, IsActive: true}, expected: true},
		{name: "resolved item excluded", item: Item{Status: ItemStatusResolved, IsActive: true}, expected: false},
		{name: "archived item excluded", item: Item{Status: ItemStatusArchived, IsActive: true}, expected: false},
		{name: "soft-deleted item excluded", item: Item{Status: ItemStatusActive, IsActive: false}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsListed(&tt.item)
			if result != tt.expected {
				t.Errorf("IsListed() = %v, want %v", result, tt.expected)
			}
		})
	}
}
