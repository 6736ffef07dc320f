package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/shahzebali977/lostandfounddevops/internal/database"
	"github.com/shahzebali977/lostandfounddevops/internal/models"
)

type ItemRepository struct {
	db *database.DB
}

func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, title, description, type, category, location, date, image_url, contact_info, owner_id, status, is_active, views, tags, created_at, updated_at`

// scanItemRow handles nullable fields and populates an Item model from a database row
func scanItemRow(scanner rowScanner) (*models.Item, error) {
	var item models.Item
	var imageURL, contactInfo *string

	err := scanner.Scan(
		&item.ID, &item.Title, &item.Description, &item.Type, &item.Category,
		&item.Location, &item.Date, &imageURL, &contactInfo, &item.OwnerID,
		&item.Status, &item.IsActive, &item.Views, pq.Array(&item.Tags),
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if imageURL != nil {
		item.ImageURL = *imageURL
	}
	if contactInfo != nil {
		item.ContactInfo = *contactInfo
	}

	return &item, nil
}

// scanItemRows iterates through rows and scans each into Item models
func scanItemRows(rows pgx.Rows) ([]*models.Item, error) {
	defer rows.Close()

	items := make([]*models.Item, 0)

	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	return scanItemRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	item.ID = uuid.New().String()

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if item.Status == "" {
		item.Status = models.ItemStatusActive
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	query := `
		INSERT INTO items (id, title, description, type, category, location, date, image_url, contact_info, owner_id, status, is_active, views, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + itemColumns

	return scanItemRow(r.db.Pool.QueryRow(ctx, query,
		item.ID, item.Title, item.Description, item.Type, item.Category,
		item.Location, item.Date, nullableString(item.ImageURL), nullableString(item.ContactInfo),
		item.OwnerID, item.Status, true, 0, pq.Array(item.Tags),
		item.CreatedAt, item.UpdatedAt,
	))
}

// Update rewrites the owner-editable fields. Type and status are
// deliberately not touched here; status only moves through UpdateStatus
// or claim approval.
func (r *ItemRepository) Update(ctx context.Context, id string, item *models.Item) (*models.Item, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	item.UpdatedAt = time.Now()

	if item.Tags == nil {
		item.Tags = []string{}
	}

	query := `
		UPDATE items
		SET title = $1, description = $2, category = $3, location = $4,
		    date = $5, image_url = $6, contact_info = $7, tags = $8, updated_at = $9
		WHERE id = $10
		RETURNING ` + itemColumns

	return scanItemRow(r.db.Pool.QueryRow(ctx, query,
		item.Title, item.Description, item.Category, item.Location,
		item.Date, nullableString(item.ImageURL), nullableString(item.ContactInfo),
		pq.Array(item.Tags), item.UpdatedAt, id,
	))
}

// UpdateStatus moves the lifecycle state without touching other fields.
func (r *ItemRepository) UpdateStatus(ctx context.Context, id string, status models.ItemStatus) (*models.Item, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `
		UPDATE items SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + itemColumns

	return scanItemRow(r.db.Pool.QueryRow(ctx, query, status, time.Now(), id))
}

// SoftDelete marks the item inactive; rows are never removed.
func (r *ItemRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `UPDATE items SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND is_active = TRUE`

	result, err := r.db.Pool.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// IncrementViews bumps the view counter and returns the new value.
// Unconditional; every detail view counts.
func (r *ItemRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `UPDATE items SET views = views + 1 WHERE id = $1 RETURNING views`

	var views int64
	if err := r.db.Pool.QueryRow(ctx, query, id).Scan(&views); err != nil {
		return 0, database.MapPostgresError(err)
	}

	return views, nil
}

// List returns the public listing page plus the total match count.
// Only active, non-deleted items are candidates; filters narrow from there.
func (r *ItemRepository) List(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	conditions := []string{"is_active = TRUE", "status = 'active'"}
	args := make([]interface{}, 0, 8)

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		conditions = append(conditions, fmt.Sprintf("search_vector @@ plainto_tsquery('english', $%d)", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM items WHERE ` + where

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset())
	offsetPos := len(args)

	listQuery := fmt.Sprintf(
		`SELECT %s FROM items WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		itemColumns, where, limitPos, offsetPos,
	)

	rows, err := r.db.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	items, err := scanItemRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListByOwner returns every non-deleted item the owner posted, including
// resolved and archived ones.
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Item, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = $1 AND is_active = TRUE ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return scanItemRows(rows)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
