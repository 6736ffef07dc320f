package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shahzebali977/lostandfounddevops/internal/auth"
	"github.com/shahzebali977/lostandfounddevops/internal/models"
	pkghttp "github.com/shahzebali977/lostandfounddevops/pkg/http"
)

// ItemServiceInterface defines the interface for item business logic
type ItemServiceInterface interface {
	ListItems(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	CreateItem(ctx context.Context, ownerID string, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, actorID, id string, updates *models.Item) (*models.Item, error)
	DeleteItem(ctx context.Context, actorID, id string) error
	ResolveItem(ctx context.Context, actorID, id string) (*models.Item, error)
	ListMyItems(ctx context.Context, ownerID string) ([]*models.Item, error)
}

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	service ItemServiceInterface
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(service ItemServiceInterface) *ItemHandler {
	return &ItemHandler{service: service}
}

// Request/Response DTOs

// CreateItemRequest represents the request body for reporting an item
type CreateItemRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=2000"`
	Type        string   `json:"type" validate:"required,oneof=lost found"`
	Category    string   `json:"category" validate:"required"`
	Location    string   `json:"location" validate:"required,min=2,max=200"`
	Date        string   `json:"date" validate:"required"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url,max=500"`
	ContactInfo string   `json:"contact_info" validate:"omitempty,max=200"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// UpdateItemRequest represents the request body for editing a listing.
// Type and status are fixed at creation; edits cannot change them.
type UpdateItemRequest struct {
	Title       string   `json:"title" validate:"omitempty,min=3,max=100"`
	Description string   `json:"description" validate:"omitempty,min=10,max=2000"`
	Category    string   `json:"category" validate:"omitempty"`
	Location    string   `json:"location" validate:"omitempty,min=2,max=200"`
	Date        string   `json:"date" validate:"omitempty"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url,max=500"`
	ContactInfo string   `json:"contact_info" validate:"omitempty,max=200"`
	Tags        []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// ItemResponse represents an item in the HTTP response
type ItemResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	ImageURL    string   `json:"image_url,omitempty"`
	ContactInfo string   `json:"contact_info,omitempty"`
	OwnerID     string   `json:"owner_id"`
	Status      string   `json:"status"`
	Views       int64    `json:"views"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// PaginationResponse describes the page window of a listing
type PaginationResponse struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// ListItemsResponse represents a page of items
type ListItemsResponse struct {
	Items      []*ItemResponse     `json:"items"`
	Pagination *PaginationResponse `json:"pagination"`
}

// MyItemsResponse represents the requester's own listings
type MyItemsResponse struct {
	Items []*ItemResponse `json:"items"`
	Total int             `json:"total"`
}

// itemModelToResponse converts an item model to a response DTO
func itemModelToResponse(item *models.Item) *ItemResponse {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	return &ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Type:        string(item.Type),
		Category:    item.Category,
		Location:    item.Location,
		Date:        item.Date.Format("2006-01-02T15:04:05Z07:00"),
		ImageURL:    item.ImageURL,
		ContactInfo: item.ContactInfo,
		OwnerID:     item.OwnerID,
		Status:      string(item.Status),
		Views:       item.Views,
		Tags:        tags,
		CreatedAt:   item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   item.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func itemModelsToResponses(items []*models.Item) []*ItemResponse {
	responses := make([]*ItemResponse, len(items))
	for i, item := range items {
		responses[i] = itemModelToResponse(item)
	}
	return responses
}

// parseEventDate accepts RFC 3339 timestamps and bare dates, which is
// what browser date inputs submit.
func parseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// ListItems retrieves a filtered, paginated page of active listings
//
// @Summary List active items
// @Param type query string false "Item type (lost or found)"
// @Param category query string false "Category filter"
// @Param location query string false "Location substring filter"
// @Param search query string false "Free-text search over title and description"
// @Param dateFrom query string false "Earliest event date (RFC 3339 or YYYY-MM-DD)"
// @Param dateTo query string false "Latest event date (RFC 3339 or YYYY-MM-DD)"
// @Param page query int false "Page number (default 1)" default(1)
// @Param limit query int false "Page size (default 10, max 50)" default(10)
// @Produce json
// @Success 200 {object} ListItemsResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items [get]
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := &models.ItemFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
	}

	if t := q.Get("type"); t != "" {
		itemType := models.ItemType(t)
		if !itemType.IsValid() {
			pkghttp.WriteValidationError(w, "type must be one of: lost, found")
			return
		}
		filter.Type = itemType
	}

	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		pkghttp.WriteValidationError(w, "unknown category")
		return
	}

	if from := q.Get("dateFrom"); from != "" {
		t, err := parseEventDate(from)
		if err != nil {
			pkghttp.WriteValidationError(w, "Invalid dateFrom parameter")
			return
		}
		filter.DateFrom = &t
	}

	if to := q.Get("dateTo"); to != "" {
		t, err := parseEventDate(to)
		if err != nil {
			pkghttp.WriteValidationError(w, "Invalid dateTo parameter")
			return
		}
		filter.DateTo = &t
	}

	// Out-of-range page and limit values are clamped by the service,
	// only unparseable ones are rejected
	if p := q.Get("page"); p != "" {
		if _, err := scanInt(p, &filter.Page); err != nil {
			pkghttp.WriteValidationError(w, "Invalid page parameter")
			return
		}
	}

	if l := q.Get("limit"); l != "" {
		if _, err := scanInt(l, &filter.Limit); err != nil {
			pkghttp.WriteValidationError(w, "Invalid limit parameter")
			return
		}
	}

	items, total, err := h.service.ListItems(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The service normalized the filter, so Page and Limit now hold the
	// window that was actually queried
	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	response := &ListItemsResponse{
		Items: itemModelsToResponses(items),
		Pagination: &PaginationResponse{
			Current: filter.Page,
			Pages:   pages,
			Total:   total,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetItem retrieves a single listing and counts the view
//
// @Summary Get item by ID
// @Param id path string true "Item ID"
// @Produce json
// @Success 200 {object} ItemResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		pkghttp.WriteBadRequest(w, "Item ID is required")
		return
	}

	item, err := h.service.GetItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Item not found")
			return
		}
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itemModelToResponse(item))
}

// CreateItem reports a lost or found item
//
// @Summary Report an item
// @Security BearerAuth
// @Accept json
// @Param request body CreateItemRequest true "Create item request"
// @Produce json
// @Success 201 {object} ItemResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items [post]
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req CreateItemRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		pkghttp.WriteValidationError(w, "date must be an RFC 3339 timestamp or YYYY-MM-DD")
		return
	}

	item := &models.Item{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Type:        models.ItemType(req.Type),
		Category:    req.Category,
		Location:    strings.TrimSpace(req.Location),
		Date:        date,
		ImageURL:    req.ImageURL,
		ContactInfo: strings.TrimSpace(req.ContactInfo),
		Tags:        req.Tags,
	}

	createdItem, err := h.service.CreateItem(r.Context(), claims.UserID, item)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(itemModelToResponse(createdItem))
}

// UpdateItem edits an existing listing, owner only
//
// @Summary Update an item
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Accept json
// @Param request body UpdateItemRequest true "Update item request"
// @Produce json
// @Success 200 {object} ItemResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items/{id} [put]
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateItemRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	updates := &models.Item{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Location:    strings.TrimSpace(req.Location),
		ImageURL:    req.ImageURL,
		ContactInfo: strings.TrimSpace(req.ContactInfo),
		Tags:        req.Tags,
	}

	if req.Date != "" {
		date, err := parseEventDate(req.Date)
		if err != nil {
			pkghttp.WriteValidationError(w, "date must be an RFC 3339 timestamp or YYYY-MM-DD")
			return
		}
		updates.Date = date
	}

	updatedItem, err := h.service.UpdateItem(r.Context(), claims.UserID, itemID, updates)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Item not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Only the owner can edit this item")
		default:
			writeServiceError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itemModelToResponse(updatedItem))
}

// DeleteItem soft-deletes a listing, owner only
//
// @Summary Delete an item
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items/{id} [delete]
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteItem(r.Context(), claims.UserID, itemID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Item not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Only the owner can delete this item")
		default:
			writeServiceError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Item deleted successfully",
	})
}

// ResolveItem marks a listing as resolved, owner only
//
// @Summary Resolve an item
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Produce json
// @Success 200 {object} ItemResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items/{id}/resolve [patch]
func (h *ItemHandler) ResolveItem(w http.ResponseWriter, r *http.Request) {
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

	resolvedItem, err := h.service.ResolveItem(r.Context(), claims.UserID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Item not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "Only the owner can resolve this item")
		default:
			writeServiceError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itemModelToResponse(resolvedItem))
}

// ListMyItems retrieves the requester's own listings, any status
//
// @Summary List my items
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MyItemsResponse
// @Failure 401 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /items/mine [get]
func (h *ItemHandler) ListMyItems(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	items, err := h.service.ListMyItems(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := &MyItemsResponse{
		Items: itemModelsToResponses(items),
		Total: len(items),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
