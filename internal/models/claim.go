package models

import (
	"time"
)

// ClaimStatus is the lifecycle state of a claim. Transitions only go from
// pending to a terminal state; terminal states are immutable.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// IsValid reports whether the status is one of the closed set.
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}

// CanTransitionTo reports whether a claim in this status may move to next.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	return s == ClaimStatusPending && next.IsTerminal()
}

const (
	ClaimMessageMinLength = 20
	ClaimMessageMaxLength = 1000
	ClaimNotesMaxLength   = 500
)

type Claim struct {
	ID         string
	ItemID     string
	ClaimantID string
	Message    string
	Status     ClaimStatus
	AdminNotes string     // Optional; recorded by the resolver on rejection
	ResolvedAt *time.Time // Set once when the claim leaves pending
	ResolverID *string    // User who approved or rejected
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClaimWithItem is a claim row joined with a summary of its item,
// returned by the claimant-facing listings.
type ClaimWithItem struct {
	Claim
	ItemTitle    string
	ItemType     ItemType
	ItemStatus   ItemStatus
	ItemImageURL string
	ItemOwnerID  string
}

// ClaimWithClaimant is a pending claim joined with claimant identity,
// returned by the owner-facing listing.
type ClaimWithClaimant struct {
	Claim
	ItemTitle     string
	ClaimantName  string
	ClaimantEmail string
}
