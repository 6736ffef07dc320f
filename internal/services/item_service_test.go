package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// ListItems Tests
// ============================================================================

func TestItemService_ListItems_NormalizesPagination(t *testing.T) {
	var gotFilter *models.ItemFilter

	mockRepo := &MockItemRepository{
		ListFunc: func(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error) {
			gotFilter = filter
			return []*models.Item{}, 0, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	_, _, err := itemService.ListItems(context.Background(), &models.ItemFilter{Page: 0, Limit: 500})

	require.NoError(t, err)
	require.NotNil(t, gotFilter)
	assert.Equal(t, 1, gotFilter.Page)
	assert.Equal(t, models.ItemListMaxLimit, gotFilter.Limit)
}

func TestItemService_ListItems_ReturnsTotal(t *testing.T) {
	mockRepo := &MockItemRepository{
		ListFunc: func(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error) {
			return []*models.Item{NewTestItem("item1", "owner1")}, 37, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	items, total, err := itemService.ListItems(context.Background(), &models.ItemFilter{})

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(37), total)
}

// ============================================================================
// GetItem Tests
// ============================================================================

func TestItemService_GetItem_CountsView(t *testing.T) {
	item := NewTestItem("item1", "owner1")

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return item, nil
		},
		IncrementViewsFunc: func(ctx context.Context, id string) (int64, error) {
			assert.Equal(t, "item1", id)
			return 8, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	got, err := itemService.GetItem(context.Background(), "item1")

	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Views)
}

func TestItemService_GetItem_NotFound(t *testing.T) {
	itemService := NewItemService(&MockItemRepository{}, slog.Default())

	got, err := itemService.GetItem(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, got)
}

func TestItemService_GetItem_HiddenItemsReadAsMissing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Item)
	}{
		{"soft deleted", func(i *models.Item) { i.IsActive = false }},
		{"archived", func(i *models.Item) { i.Status = models.ItemStatusArchived }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewTestItem("item1", "owner1")
			tt.mutate(item)

			mockRepo := &MockItemRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
					return item, nil
				},
			}

			itemService := NewItemService(mockRepo, slog.Default())

			_, err := itemService.GetItem(context.Background(), "item1")
			assert.ErrorIs(t, err, models.ErrNotFound)
		})
	}
}

func TestItemService_GetItem_ResolvedStaysViewable(t *testing.T) {
	item := NewTestItem("item1", "owner1")
	item.Status = models.ItemStatusResolved

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return item, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	got, err := itemService.GetItem(context.Background(), "item1")

	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusResolved, got.Status)
}

func TestItemService_GetItem_ViewCountFailureFailsRequest(t *testing.T) {
	item := NewTestItem("item1", "owner1")

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return item, nil
		},
		IncrementViewsFunc: func(ctx context.Context, id string) (int64, error) {
			return 0, models.ErrTransient
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	_, err := itemService.GetItem(context.Background(), "item1")

	assert.ErrorIs(t, err, models.ErrTransient)
}

// ============================================================================
// CreateItem Tests
// ============================================================================

func TestItemService_CreateItem_Success(t *testing.T) {
	var savedItem *models.Item

	mockRepo := &MockItemRepository{
		CreateFunc: func(ctx context.Context, item *models.Item) (*models.Item, error) {
			item.ID = "item1"
			savedItem = item
			return item, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	input := &models.Item{
		Title:       "Black umbrella",
		Description: "Found near the library entrance",
		Type:        models.ItemTypeFound,
		Category:    models.CategoryOther,
		Location:    "Main Library",
		Date:        time.Now().Add(-2 * time.Hour),
	}

	got, err := itemService.CreateItem(context.Background(), "owner1", input)

	require.NoError(t, err)
	require.NotNil(t, savedItem)
	assert.Equal(t, "owner1", savedItem.OwnerID)
	assert.Equal(t, models.ItemStatusActive, savedItem.Status)
	assert.Equal(t, "item1", got.ID)
}

func TestItemService_CreateItem_Validation(t *testing.T) {
	itemService := NewItemService(&MockItemRepository{}, slog.Default())

	base := func() *models.Item {
		return &models.Item{
			Title:    "Black umbrella",
			Type:     models.ItemTypeFound,
			Category: models.CategoryOther,
			Date:     time.Now().Add(-2 * time.Hour),
		}
	}

	tests := []struct {
		name   string
		mutate func(*models.Item)
	}{
		{"unknown type", func(i *models.Item) { i.Type = "stolen" }},
		{"unknown category", func(i *models.Item) { i.Category = "Spaceships" }},
		{"future date", func(i *models.Item) { i.Date = time.Now().Add(48 * time.Hour) }},
		{"too many tags", func(i *models.Item) {
			i.Tags = make([]string, models.ItemMaxTags+1)
			for n := range i.Tags {
				i.Tags[n] = "tag"
			}
		}},
		{"blank tag", func(i *models.Item) { i.Tags = []string{"  "} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base()
			tt.mutate(input)

			_, err := itemService.CreateItem(context.Background(), "owner1", input)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

// ============================================================================
// UpdateItem Tests
// ============================================================================

func TestItemService_UpdateItem_AppliesOnlyProvidedFields(t *testing.T) {
	existing := NewTestItem("item1", "owner1")
	originalDescription := existing.Description

	var savedItem *models.Item
	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, item *models.Item) (*models.Item, error) {
			savedItem = item
			return item, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	got, err := itemService.UpdateItem(context.Background(), "owner1", "item1", &models.Item{Title: "Red umbrella"})

	require.NoError(t, err)
	require.NotNil(t, savedItem)
	assert.Equal(t, "Red umbrella", got.Title)
	assert.Equal(t, originalDescription, got.Description)
}

func TestItemService_UpdateItem_NeverTouchesStatus(t *testing.T) {
	existing := NewTestItem("item1", "owner1")
	existing.Status = models.ItemStatusResolved

	var savedItem *models.Item
	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, item *models.Item) (*models.Item, error) {
			savedItem = item
			return item, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	updates := &models.Item{Title: "Still resolved", Status: models.ItemStatusActive}
	_, err := itemService.UpdateItem(context.Background(), "owner1", "item1", updates)

	require.NoError(t, err)
	require.NotNil(t, savedItem)
	assert.Equal(t, models.ItemStatusResolved, savedItem.Status)
}

func TestItemService_UpdateItem_NonOwnerForbidden(t *testing.T) {
	existing := NewTestItem("item1", "owner1")

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	_, err := itemService.UpdateItem(context.Background(), "intruder", "item1", &models.Item{Title: "Mine now"})

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestItemService_UpdateItem_DeletedReadsAsMissing(t *testing.T) {
	existing := NewTestItem("item1", "owner1")
	existing.IsActive = false

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	_, err := itemService.UpdateItem(context.Background(), "owner1", "item1", &models.Item{Title: "X"})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestItemService_UpdateItem_RejectsInvalidChanges(t *testing.T) {
	existing := NewTestItem("item1", "owner1")

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	_, err := itemService.UpdateItem(context.Background(), "owner1", "item1", &models.Item{Category: "Spaceships"})

	assert.ErrorIs(t, err, models.ErrValidation)
}

// ============================================================================
// DeleteItem Tests
// ============================================================================

func TestItemService_DeleteItem_Success(t *testing.T) {
	existing := NewTestItem("item1", "owner1")
	deleted := false

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
		SoftDeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			assert.Equal(t, "item1", id)
			return nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	err := itemService.DeleteItem(context.Background(), "owner1", "item1")

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestItemService_DeleteItem_NonOwnerForbidden(t *testing.T) {
	existing := NewTestItem("item1", "owner1")

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	err := itemService.DeleteItem(context.Background(), "intruder", "item1")

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestItemService_DeleteItem_AlreadyDeleted(t *testing.T) {
	existing := NewTestItem("item1", "owner1")
	existing.IsActive = false

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	err := itemService.DeleteItem(context.Background(), "owner1", "item1")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

// ============================================================================
// ResolveItem Tests
// ============================================================================

func TestItemService_ResolveItem_Success(t *testing.T) {
	existing := NewTestItem("item1", "owner1")

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
		UpdateStatusFunc: func(ctx context.Context, id string, status models.ItemStatus) (*models.Item, error) {
			assert.Equal(t, models.ItemStatusResolved, status)
			resolved := *existing
			resolved.Status = status
			return &resolved, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	got, err := itemService.ResolveItem(context.Background(), "owner1", "item1")

	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusResolved, got.Status)
}

func TestItemService_ResolveItem_AlreadyResolved(t *testing.T) {
	existing := NewTestItem("item1", "owner1")
	existing.Status = models.ItemStatusResolved

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	_, err := itemService.ResolveItem(context.Background(), "owner1", "item1")

	assert.ErrorIs(t, err, models.ErrInvalidOperation)
}

func TestItemService_ResolveItem_NonOwnerForbidden(t *testing.T) {
	existing := NewTestItem("item1", "owner1")

	mockRepo := &MockItemRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Item, error) {
			return existing, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	_, err := itemService.ResolveItem(context.Background(), "intruder", "item1")

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestItemService_ResolveItem_Missing(t *testing.T) {
	itemService := NewItemService(&MockItemRepository{}, slog.Default())

	_, err := itemService.ResolveItem(context.Background(), "owner1", "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

// ============================================================================
// ListMyItems Tests
// ============================================================================

func TestItemService_ListMyItems(t *testing.T) {
	mine := []*models.Item{
		NewTestItem("item1", "owner1"),
		NewTestLostItem("item2", "owner1"),
	}

	mockRepo := &MockItemRepository{
		ListByOwnerFunc: func(ctx context.Context, ownerID string) ([]*models.Item, error) {
			assert.Equal(t, "owner1", ownerID)
			return mine, nil
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	got, err := itemService.ListMyItems(context.Background(), "owner1")

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestItemService_ListMyItems_StoreError(t *testing.T) {
	mockRepo := &MockItemRepository{
		ListByOwnerFunc: func(ctx context.Context, ownerID string) ([]*models.Item, error) {
			return nil, errors.New("pool exhausted")
		},
	}

	itemService := NewItemService(mockRepo, slog.Default())

	_, err := itemService.ListMyItems(context.Background(), "owner1")

	assert.ErrorIs(t, err, models.ErrInternalServer)
}
