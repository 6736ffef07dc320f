package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
)

// ItemRepository defines the interface for item data access
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, id string, item *models.Item) (*models.Item, error)
	UpdateStatus(ctx context.Context, id string, status models.ItemStatus) (*models.Item, error)
	SoftDelete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int64, error)
	List(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Item, error)
}

// ItemService handles listing business logic
type ItemService struct {
	repo   ItemRepository
	logger *slog.Logger
}

// NewItemService creates a new ItemService
func NewItemService(repo ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		logger: logger,
	}
}

// ListItems returns one page of the public listing plus the total count.
func (s *ItemService) ListItems(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error) {
	filter.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list items", slog.Any("error", err))
		return nil, 0, coerceStoreError(err)
	}

	return items, total, nil
}

// GetItem returns one item's detail and counts the view. Soft-deleted
// and archived items read as absent.
func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.String("item_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	if !models.CanViewItem(item) {
		return nil, models.ErrNotFound
	}

	views, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		s.logger.Error("failed to count view", slog.String("item_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}
	item.Views = views

	return item, nil
}

// CreateItem validates and stores a new report owned by ownerID.
func (s *ItemService) CreateItem(ctx context.Context, ownerID string, item *models.Item) (*models.Item, error) {
	if err := validateItemFields(item); err != nil {
		return nil, err
	}

	item.OwnerID = ownerID
	item.Status = models.ItemStatusActive

	createdItem, err := s.repo.Create(ctx, item)
	if err != nil {
		s.logger.Error("failed to create item", slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	s.logger.Info("item created",
		slog.String("item_id", createdItem.ID),
		slog.String("owner_id", ownerID),
		slog.String("type", string(createdItem.Type)))
	return createdItem, nil
}

// UpdateItem applies the owner's edits. Status never changes here, so an
// edit cannot revert a resolution.
func (s *ItemService) UpdateItem(ctx context.Context, actorID, id string, updates *models.Item) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.String("item_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	if !item.IsActive {
		return nil, models.ErrNotFound
	}
	if !models.CanEditItem(item, actorID) {
		return nil, models.ErrForbidden
	}

	// Apply updates only to non-zero fields
	if updates.Title != "" {
		item.Title = updates.Title
	}
	if updates.Description != "" {
		item.Description = updates.Description
	}
	if updates.Category != "" {
		item.Category = updates.Category
	}
	if updates.Location != "" {
		item.Location = updates.Location
	}
	if !updates.Date.IsZero() {
		item.Date = updates.Date
	}
	if updates.ImageURL != "" {
		item.ImageURL = updates.ImageURL
	}
	if updates.ContactInfo != "" {
		item.ContactInfo = updates.ContactInfo
	}
	if updates.Tags != nil {
		item.Tags = updates.Tags
	}

	if err := validateItemFields(item); err != nil {
		return nil, err
	}

	updatedItem, err := s.repo.Update(ctx, id, item)
	if err != nil {
		s.logger.Error("failed to update item", slog.String("item_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	s.logger.Info("item updated", slog.String("item_id", id), slog.String("actor_id", actorID))
	return updatedItem, nil
}

// DeleteItem soft-deletes the owner's item.
func (s *ItemService) DeleteItem(ctx context.Context, actorID, id string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.String("item_id", id), slog.Any("error", err))
		return coerceStoreError(err)
	}

	if !item.IsActive {
		return models.ErrNotFound
	}
	if !models.CanDeleteItem(item, actorID) {
		return models.ErrForbidden
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Lost a race with another delete; the item is gone either way
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete item", slog.String("item_id", id), slog.Any("error", err))
		return coerceStoreError(err)
	}

	s.logger.Info("item deleted", slog.String("item_id", id), slog.String("actor_id", actorID))
	return nil
}

// ResolveItem marks an active item resolved by its owner.
func (s *ItemService) ResolveItem(ctx context.Context, actorID, id string) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.String("item_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	if !item.IsActive {
		return nil, models.ErrNotFound
	}
	if !models.CanResolveItem(item, actorID) {
		return nil, models.ErrForbidden
	}
	if item.Status != models.ItemStatusActive {
		return nil, models.ErrInvalidOperation
	}

	resolvedItem, err := s.repo.UpdateStatus(ctx, id, models.ItemStatusResolved)
	if err != nil {
		s.logger.Error("failed to resolve item", slog.String("item_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	s.logger.Info("item resolved", slog.String("item_id", id), slog.String("actor_id", actorID))
	return resolvedItem, nil
}

// ListMyItems returns everything the owner posted, including resolved
// and archived reports.
func (s *ItemService) ListMyItems(ctx context.Context, ownerID string) ([]*models.Item, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list owner items", slog.String("owner_id", ownerID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	return items, nil
}

// validateItemFields re-checks domain rules the request DTO cannot
// express on its own.
func validateItemFields(item *models.Item) error {
	if !item.Type.IsValid() {
		return fmt.Errorf("%w: type must be lost or found", models.ErrValidation)
	}
	if !models.IsValidCategory(item.Category) {
		return fmt.Errorf("%w: unknown category %q", models.ErrValidation, item.Category)
	}
	if item.Date.After(time.Now()) {
		return fmt.Errorf("%w: date cannot be in the future", models.ErrValidation)
	}
	if len(item.Tags) > models.ItemMaxTags {
		return fmt.Errorf("%w: at most %d tags", models.ErrValidation, models.ItemMaxTags)
	}
	for _, tag := range item.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed == "" || len(trimmed) > models.ItemTagMaxLength {
			return fmt.Errorf("%w: tags must be 1-%d characters", models.ErrValidation, models.ItemTagMaxLength)
		}
	}
	return nil
}
