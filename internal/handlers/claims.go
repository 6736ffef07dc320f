package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shahzebali977/lostandfounddevops/internal/auth"
	"github.com/shahzebali977/lostandfounddevops/internal/models"
	pkghttp "github.com/shahzebali977/lostandfounddevops/pkg/http"
)

// ClaimServiceInterface defines the interface for claim business logic
type ClaimServiceInterface interface {
	SubmitClaim(ctx context.Context, claimantID, itemID, message string) (*models.Claim, error)
	ListClaimsForItem(ctx context.Context, actorID, itemID string) ([]*models.ClaimWithClaimant, error)
	ListMyClaims(ctx context.Context, claimantID string) ([]*models.ClaimWithItem, error)
	ListPendingForOwner(ctx context.Context, ownerID string) ([]*models.ClaimWithClaimant, error)
	ResolveClaim(ctx context.Context, resolverID, claimID string, decision models.ClaimStatus, notes string) (*models.Claim, error)
	DeleteClaim(ctx context.Context, actorID, claimID string) error
}

// ClaimHandler handles claim-related HTTP requests
type ClaimHandler struct {
	service ClaimServiceInterface
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(service ClaimServiceInterface) *ClaimHandler {
	return &ClaimHandler{service: service}
}

// Request/Response DTOs

// SubmitClaimRequest represents the request body for claiming an item
type SubmitClaimRequest struct {
	Message string `json:"message" validate:"required,min=20,max=1000"`
}

// ResolveClaimRequest represents the owner's decision on a claim
type ResolveClaimRequest struct {
	Status     string `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes string `json:"adminNotes" validate:"omitempty,max=500"`
}

// ClaimResponse represents a claim in the HTTP response
type ClaimResponse struct {
	ID         string `json:"id"`
	ItemID     string `json:"item_id"`
	ClaimantID string `json:"claimant_id"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes,omitempty"`
	ResolvedAt string `json:"resolved_at,omitempty"`
	ResolverID string `json:"resolver_id,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ClaimWithClaimantResponse is a claim with claimant identity, returned
// by the owner-facing listings
type ClaimWithClaimantResponse struct {
	ClaimResponse
	ItemTitle     string `json:"item_title"`
	ClaimantName  string `json:"claimant_name"`
	ClaimantEmail string `json:"claimant_email"`
}

// ClaimWithItemResponse is a claim with an item summary, returned by
// the claimant-facing listing
type ClaimWithItemResponse struct {
	ClaimResponse
	ItemTitle    string `json:"item_title"`
	ItemType     string `json:"item_type"`
	ItemStatus   string `json:"item_status"`
	ItemImageURL string `json:"item_image_url,omitempty"`
}

// claimModelToResponse converts a claim model to a response DTO
func claimModelToResponse(claim *models.Claim) *ClaimResponse {
	resp := &ClaimResponse{
		ID:         claim.ID,
		ItemID:     claim.ItemID,
		ClaimantID: claim.ClaimantID,
		Message:    claim.Message,
		Status:     string(claim.Status),
		AdminNotes: claim.AdminNotes,
		CreatedAt:  claim.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  claim.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if claim.ResolvedAt != nil {
		resp.ResolvedAt = claim.ResolvedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if claim.ResolverID != nil {
		resp.ResolverID = *claim.ResolverID
	}

	return resp
}

func claimsWithClaimantToResponses(claims []*models.ClaimWithClaimant) []*ClaimWithClaimantResponse {
	responses := make([]*ClaimWithClaimantResponse, len(claims))
	for i, cw := range claims {
		responses[i] = &ClaimWithClaimantResponse{
			ClaimResponse: *claimModelToResponse(&cw.Claim),
			ItemTitle:     cw.ItemTitle,
			ClaimantName:  cw.ClaimantName,
			ClaimantEmail: cw.ClaimantEmail,
		}
	}
	return responses
}

// SubmitClaim files a claim on a found item
//
// @Summary Claim an item
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Accept json
// @Param request body SubmitClaimRequest true "Claim message"
// @Produce json
// @Success 201 {object} ClaimResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 409 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items/{id}/claims [post]
func (h *ClaimHandler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		pkghttp.WriteBadRequest(w, "Item ID is required")
		return
	}

	var req SubmitClaimRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	claim, err := h.service.SubmitClaim(r.Context(), claims.UserID, itemID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Item not found")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "You have already submitted a claim for this item")
		default:
			writeServiceError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(claimModelToResponse(claim))
}

// ListItemClaims retrieves all claims on an item, owner only
//
// @Summary List claims on an item
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Produce json
// @Success 200 {array} ClaimWithClaimantResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items/{id}/claims [get]
func (h *ClaimHandler) ListItemClaims(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		pkghttp.WriteBadRequest(w, "Item ID is required")
		return
	}

	itemClaims, err := h.service.ListClaimsForItem(r.Context(), claims.UserID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Item not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Only the owner can view claims on this item")
		default:
			writeServiceError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(claimsWithClaimantToResponses(itemClaims))
}

// ListMyClaims retrieves the requester's claims with item summaries
//
// @Summary List my claims
// @Security BearerAuth
// @Produce json
// @Success 200 {array} ClaimWithItemResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /claims/mine [get]
func (h *ClaimHandler) ListMyClaims(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	myClaims, err := h.service.ListMyClaims(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responses := make([]*ClaimWithItemResponse, len(myClaims))
	for i, cw := range myClaims {
		responses[i] = &ClaimWithItemResponse{
			ClaimResponse: *claimModelToResponse(&cw.Claim),
			ItemTitle:     cw.ItemTitle,
			ItemType:      string(cw.ItemType),
			ItemStatus:    string(cw.ItemStatus),
			ItemImageURL:  cw.ItemImageURL,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// ListPendingClaims retrieves pending claims on the requester's items
//
// @Summary List pending claims on my items
// @Security BearerAuth
// @Produce json
// @Success 200 {array} ClaimWithClaimantResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /claims/pending [get]
func (h *ClaimHandler) ListPendingClaims(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	pendingClaims, err := h.service.ListPendingForOwner(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(claimsWithClaimantToResponses(pendingClaims))
}

// ResolveClaim approves or rejects a pending claim, item owner only
//
// @Summary Resolve a claim
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Accept json
// @Param request body ResolveClaimRequest true "Resolution decision"
// @Produce json
// @Success 200 {object} ClaimResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /claims/{id} [put]
func (h *ClaimHandler) ResolveClaim(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	claimID := chi.URLParam(r, "id")
	if claimID == "" {
		pkghttp.WriteBadRequest(w, "Claim ID is required")
		return
	}

	var req ResolveClaimRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	decision := models.ClaimStatus(req.Status)
	notes := strings.TrimSpace(req.AdminNotes)

	claim, err := h.service.ResolveClaim(r.Context(), claims.UserID, claimID, decision, notes)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Claim not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Only the item owner can resolve claims")
		default:
			writeServiceError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(claimModelToResponse(claim))
}

// DeleteClaim withdraws a pending claim, claimant only
//
// @Summary Withdraw a claim
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /claims/{id} [delete]
func (h *ClaimHandler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	claimID := chi.URLParam(r, "id")
	if claimID == "" {
		pkghttp.WriteBadRequest(w, "Claim ID is required")
		return
	}

	if err := h.service.DeleteClaim(r.Context(), claims.UserID, claimID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Claim not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Only the claimant can withdraw a claim")
		default:
			writeServiceError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Claim withdrawn successfully",
	})
}
