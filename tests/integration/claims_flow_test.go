package integration

import (
	"net/http"
	"sync"
	"testing"
)

type claimDetail struct {
	ID         string `json:"id"`
	ItemID     string `json:"item_id"`
	ClaimantID string `json:"claimant_id"`
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
	ResolvedAt string `json:"resolved_at"`
	ResolverID string `json:"resolver_id"`
}

func TestDuplicateClaimRejected(t *testing.T) {
	resetTables(t)

	ownerToken, _ := registerUser(t, "claimed-owner")
	claimantToken, _ := registerUser(t, "eager-claimant")
	itemID := createItem(t, ownerToken, "found", "Found a graphing calculator")

	submitClaim(t, claimantToken, itemID)

	// The unique constraint turns the second submission into a conflict
	resp, err := testServer.RequestWithAuth(http.MethodPost, "/items/"+itemID+"/claims", claimantToken, TestClaimPayload())
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate claim, got %d", resp.StatusCode)
	}
}

func TestClaimOwnItemRejected(t *testing.T) {
	resetTables(t)

	ownerToken, _ := registerUser(t, "self-claimer")
	itemID := createItem(t, ownerToken, "found", "Found my own umbrella somehow")

	resp, err := testServer.RequestWithAuth(http.MethodPost, "/items/"+itemID+"/claims", ownerToken, TestClaimPayload())
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 claiming own item, got %d", resp.StatusCode)
	}
}

func TestApproveClaimResolvesItem(t *testing.T) {
	resetTables(t)

	ownerToken, ownerID := registerUser(t, "approving-owner")
	claimantToken, _ := registerUser(t, "lucky-claimant")
	itemID := createItem(t, ownerToken, "found", "Found a pair of reading glasses")
	claimID := submitClaim(t, claimantToken, itemID)

	resp, err := testServer.RequestWithAuth(http.MethodPut, "/claims/"+claimID, ownerToken, map[string]string{
		"status": "approved",
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from approve, got %d", resp.StatusCode)
	}
	var approved claimDetail
	if err := ParseJSONResponse(resp, &approved); err != nil {
		t.Fatalf("failed to parse approve response: %v", err)
	}
	if approved.Status != "approved" {
		t.Fatalf("expected status approved, got %s", approved.Status)
	}
	if approved.ResolvedAt == "" || approved.ResolverID != ownerID {
		t.Fatalf("approval did not record the resolution: %+v", approved)
	}

	// Approval resolves the item in the same transaction
	resp, err = testServer.Request(http.MethodGet, "/items/"+itemID, nil, nil)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	var item itemDetail
	if err := ParseJSONResponse(resp, &item); err != nil {
		t.Fatalf("failed to parse item: %v", err)
	}
	if item.Status != "resolved" {
		t.Fatalf("expected item resolved after approval, got %s", item.Status)
	}

	// The transition is single-shot
	resp, err = testServer.RequestWithAuth(http.MethodPut, "/claims/"+claimID, ownerToken, map[string]string{
		"status": "rejected",
	})
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 re-resolving a settled claim, got %d", resp.StatusCode)
	}
}

func TestRejectClaimKeepsItemActive(t *testing.T) {
	resetTables(t)

	ownerToken, _ := registerUser(t, "rejecting-owner")
	claimantToken, _ := registerUser(t, "hopeful-claimant")
	itemID := createItem(t, ownerToken, "found", "Found a green water bottle")
	claimID := submitClaim(t, claimantToken, itemID)

	resp, err := testServer.RequestWithAuth(http.MethodPut, "/claims/"+claimID, ownerToken, map[string]string{
		"status":     "rejected",
		"adminNotes": "Description did not match the engraving.",
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	var rejected claimDetail
	if err := ParseJSONResponse(resp, &rejected); err != nil {
		t.Fatalf("failed to parse reject response: %v", err)
	}
	if rejected.Status != "rejected" {
		t.Fatalf("expected status rejected, got %s", rejected.Status)
	}
	if rejected.AdminNotes != "Description did not match the engraving." {
		t.Fatalf("notes not recorded: %q", rejected.AdminNotes)
	}

	// A rejection leaves the listing claimable
	resp, err = testServer.Request(http.MethodGet, "/items/"+itemID, nil, nil)
	if err != nil {
		t.Fatalf("get item failed: %v", err)
	}
	var item itemDetail
	if err := ParseJSONResponse(resp, &item); err != nil {
		t.Fatalf("failed to parse item: %v", err)
	}
	if item.Status != "active" {
		t.Fatalf("expected item still active after rejection, got %s", item.Status)
	}
}

func TestConcurrentApprovalSingleShot(t *testing.T) {
	resetTables(t)

	ownerToken, _ := registerUser(t, "racing-owner")
	claimantToken, _ := registerUser(t, "racing-claimant")
	itemID := createItem(t, ownerToken, "found", "Found a contested chess set")
	claimID := submitClaim(t, claimantToken, itemID)

	// Two simultaneous approvals; the guarded update lets exactly one win
	const racers = 2
	statuses := make([]int, racers)
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(slot int) {
			defer wg.Done()
			resp, err := testServer.RequestWithAuth(http.MethodPut, "/claims/"+claimID, ownerToken, map[string]string{
				"status": "approved",
			})
			if err != nil {
				return
			}
			resp.Body.Close()
			statuses[slot] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	won, lost := 0, 0
	for _, code := range statuses {
		switch code {
		case http.StatusOK:
			won++
		case http.StatusBadRequest:
			lost++
		default:
			t.Fatalf("unexpected status %d in approval race", code)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("expected exactly one winner, got %d wins and %d losses", won, lost)
	}
}

func TestWithdrawClaim(t *testing.T) {
	resetTables(t)

	ownerToken, _ := registerUser(t, "patient-owner")
	claimantToken, _ := registerUser(t, "fickle-claimant")
	itemID := createItem(t, ownerToken, "found", "Found a skateboard at the park")
	claimID := submitClaim(t, claimantToken, itemID)

	resp, err := testServer.RequestWithAuth(http.MethodDelete, "/claims/"+claimID, claimantToken, nil)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from withdraw, got %d", resp.StatusCode)
	}

	// The withdrawn claim is gone from the claimant's listing
	resp, err = testServer.RequestWithAuth(http.MethodGet, "/claims/mine", claimantToken, nil)
	if err != nil {
		t.Fatalf("list my claims failed: %v", err)
	}
	var mine []claimDetail
	if err := ParseJSONResponse(resp, &mine); err != nil {
		t.Fatalf("failed to parse my claims: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected no claims after withdrawal, got %d", len(mine))
	}

	// And the item can be claimed again
	resp, err = testServer.RequestWithAuth(http.MethodPost, "/items/"+itemID+"/claims", claimantToken, TestClaimPayload())
	if err != nil {
		t.Fatalf("re-claim failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 re-claiming after withdrawal, got %d", resp.StatusCode)
	}
}

func TestWithdrawResolvedClaimRejected(t *testing.T) {
	resetTables(t)

	ownerToken, _ := registerUser(t, "firm-owner")
	claimantToken, _ := registerUser(t, "late-claimant")
	itemID := createItem(t, ownerToken, "found", "Found a thermos near the gym")
	claimID := submitClaim(t, claimantToken, itemID)

	resp, err := testServer.RequestWithAuth(http.MethodPut, "/claims/"+claimID, ownerToken, map[string]string{
		"status": "approved",
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	resp.Body.Close()

	resp, err = testServer.RequestWithAuth(http.MethodDelete, "/claims/"+claimID, claimantToken, nil)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 withdrawing a settled claim, got %d", resp.StatusCode)
	}
}

func TestItemClaimsVisibleToOwnerOnly(t *testing.T) {
	resetTables(t)

	ownerToken, _ := registerUser(t, "private-owner")
	claimantToken, _ := registerUser(t, "visible-claimant")
	itemID := createItem(t, ownerToken, "found", "Found a leather wallet, empty")
	submitClaim(t, claimantToken, itemID)

	// The owner sees claimant identity
	resp, err := testServer.RequestWithAuth(http.MethodGet, "/items/"+itemID+"/claims", ownerToken, nil)
	if err != nil {
		t.Fatalf("owner listing failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", resp.StatusCode)
	}
	var forOwner []struct {
		claimDetail
		ClaimantName  string `json:"claimant_name"`
		ClaimantEmail string `json:"claimant_email"`
	}
	if err := ParseJSONResponse(resp, &forOwner); err != nil {
		t.Fatalf("failed to parse owner listing: %v", err)
	}
	if len(forOwner) != 1 || forOwner[0].ClaimantName == "" || forOwner[0].ClaimantEmail == "" {
		t.Fatalf("owner listing missing claimant identity: %+v", forOwner)
	}

	// The claimant cannot browse the item's claims
	resp, err = testServer.RequestWithAuth(http.MethodGet, "/items/"+itemID+"/claims", claimantToken, nil)
	if err != nil {
		t.Fatalf("claimant listing failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", resp.StatusCode)
	}
}

func TestPendingClaimsDashboard(t *testing.T) {
	resetTables(t)

	ownerToken, _ := registerUser(t, "dashboard-owner")
	firstClaimant, _ := registerUser(t, "first-claimant")
	secondClaimant, _ := registerUser(t, "second-claimant")

	firstItem := createItem(t, ownerToken, "found", "Found a striped beach towel")
	secondItem := createItem(t, ownerToken, "found", "Found a portable speaker")

	submitClaim(t, firstClaimant, firstItem)
	claimID := submitClaim(t, secondClaimant, secondItem)

	// Settle one of them; only the other stays pending
	resp, err := testServer.RequestWithAuth(http.MethodPut, "/claims/"+claimID, ownerToken, map[string]string{
		"status": "rejected",
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	resp.Body.Close()

	resp, err = testServer.RequestWithAuth(http.MethodGet, "/claims/pending", ownerToken, nil)
	if err != nil {
		t.Fatalf("pending listing failed: %v", err)
	}
	var pending []claimDetail
	if err := ParseJSONResponse(resp, &pending); err != nil {
		t.Fatalf("failed to parse pending listing: %v", err)
	}
	if len(pending) != 1 || pending[0].ItemID != firstItem {
		t.Fatalf("expected one pending claim on %s: %+v", firstItem, pending)
	}
}
