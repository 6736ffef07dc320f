package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shahzebali977/lostandfounddevops/internal/database"
	"github.com/shahzebali977/lostandfounddevops/internal/models"
)

type ClaimRepository struct {
	db *database.DB
}

func NewClaimRepository(db *database.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

const claimColumns = `id, item_id, claimant_id, message, status, admin_notes, resolved_at, resolver_id, created_at, updated_at`

// scanClaimRow handles nullable fields and populates a Claim model from a database row
func scanClaimRow(scanner rowScanner) (*models.Claim, error) {
	var claim models.Claim
	var adminNotes *string

	err := scanner.Scan(
		&claim.ID, &claim.ItemID, &claim.ClaimantID, &claim.Message,
		&claim.Status, &adminNotes, &claim.ResolvedAt, &claim.ResolverID,
		&claim.CreatedAt, &claim.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if adminNotes != nil {
		claim.AdminNotes = *adminNotes
	}

	return &claim, nil
}

// scanClaimWithClaimantRows scans rows selecting claim columns followed
// by item title and claimant name/email.
func scanClaimWithClaimantRows(rows pgx.Rows) ([]*models.ClaimWithClaimant, error) {
	defer rows.Close()

	claims := make([]*models.ClaimWithClaimant, 0)

	for rows.Next() {
		var cw models.ClaimWithClaimant
		var adminNotes *string

		err := rows.Scan(
			&cw.ID, &cw.ItemID, &cw.ClaimantID, &cw.Message, &cw.Status,
			&adminNotes, &cw.ResolvedAt, &cw.ResolverID, &cw.CreatedAt, &cw.UpdatedAt,
			&cw.ItemTitle, &cw.ClaimantName, &cw.ClaimantEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}

		if adminNotes != nil {
			cw.AdminNotes = *adminNotes
		}

		claims = append(claims, &cw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return claims, nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, id string) (*models.Claim, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`

	return scanClaimRow(r.db.Pool.QueryRow(ctx, query, id))
}

// Create inserts a pending claim. The UNIQUE (item_id, claimant_id)
// constraint turns duplicate submissions into ErrConflict even when two
// requests race.
func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	claim.ID = uuid.New().String()
	claim.Status = models.ClaimStatusPending

	now := time.Now()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	query := `
		INSERT INTO claims (id, item_id, claimant_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + claimColumns

	return scanClaimRow(r.db.Pool.QueryRow(ctx, query,
		claim.ID, claim.ItemID, claim.ClaimantID, claim.Message,
		claim.Status, claim.CreatedAt, claim.UpdatedAt,
	))
}

// ListByItem returns every claim on an item with claimant identity
// attached, newest first.
func (r *ClaimRepository) ListByItem(ctx context.Context, itemID string) ([]*models.ClaimWithClaimant, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `
		SELECT c.id, c.item_id, c.claimant_id, c.message, c.status, c.admin_notes, c.resolved_at, c.resolver_id, c.created_at, c.updated_at,
		       i.title, u.name, u.email
		FROM claims c
		JOIN items i ON i.id = c.item_id
		JOIN users u ON u.id = c.claimant_id
		WHERE c.item_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return scanClaimWithClaimantRows(rows)
}

// ListByClaimant returns the requester's claims joined with an item
// summary, newest first.
func (r *ClaimRepository) ListByClaimant(ctx context.Context, claimantID string) ([]*models.ClaimWithItem, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `
		SELECT c.id, c.item_id, c.claimant_id, c.message, c.status, c.admin_notes, c.resolved_at, c.resolver_id, c.created_at, c.updated_at,
		       i.title, i.type, i.status, i.image_url, i.owner_id
		FROM claims c
		JOIN items i ON i.id = c.item_id
		WHERE c.claimant_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, claimantID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	claims := make([]*models.ClaimWithItem, 0)

	for rows.Next() {
		var cw models.ClaimWithItem
		var adminNotes, itemImageURL *string

		err := rows.Scan(
			&cw.ID, &cw.ItemID, &cw.ClaimantID, &cw.Message, &cw.Status,
			&adminNotes, &cw.ResolvedAt, &cw.ResolverID, &cw.CreatedAt, &cw.UpdatedAt,
			&cw.ItemTitle, &cw.ItemType, &cw.ItemStatus, &itemImageURL, &cw.ItemOwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}

		if adminNotes != nil {
			cw.AdminNotes = *adminNotes
		}
		if itemImageURL != nil {
			cw.ItemImageURL = *itemImageURL
		}

		claims = append(claims, &cw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return claims, nil
}

// ListPendingByOwner returns pending claims on the owner's non-deleted
// items with claimant identity attached. The inner join quietly drops
// claims whose item no longer resolves.
func (r *ClaimRepository) ListPendingByOwner(ctx context.Context, ownerID string) ([]*models.ClaimWithClaimant, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `
		SELECT c.id, c.item_id, c.claimant_id, c.message, c.status, c.admin_notes, c.resolved_at, c.resolver_id, c.created_at, c.updated_at,
		       i.title, u.name, u.email
		FROM claims c
		JOIN items i ON i.id = c.item_id AND i.is_active = TRUE
		JOIN users u ON u.id = c.claimant_id
		WHERE i.owner_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return scanClaimWithClaimantRows(rows)
}

// Approve moves a pending claim to approved and resolves its item, both
// inside one transaction. The status guard on the UPDATE makes the
// transition single-shot under concurrent resolvers.
func (r *ClaimRepository) Approve(ctx context.Context, claimID, resolverID string) (*models.Claim, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	var approved *models.Claim

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now()

		query := `
			UPDATE claims
			SET status = $1, resolver_id = $2, resolved_at = $3, updated_at = $3
			WHERE id = $4 AND status = $5
			RETURNING ` + claimColumns

		claim, err := scanClaimRow(tx.QueryRow(ctx, query,
			models.ClaimStatusApproved, resolverID, now, claimID, models.ClaimStatusPending,
		))
		if err != nil {
			return r.guardFailure(ctx, tx, claimID, err)
		}

		itemQuery := `UPDATE items SET status = $1, updated_at = $2 WHERE id = $3`
		if _, err := tx.Exec(ctx, itemQuery, models.ItemStatusResolved, now, claim.ItemID); err != nil {
			return database.MapPostgresError(err)
		}

		approved = claim
		return nil
	})
	if err != nil {
		return nil, err
	}

	return approved, nil
}

// Reject moves a pending claim to rejected, recording notes when given.
// A single guarded UPDATE; the item is left untouched.
func (r *ClaimRepository) Reject(ctx context.Context, claimID, resolverID, notes string) (*models.Claim, error) {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	now := time.Now()

	query := `
		UPDATE claims
		SET status = $1, resolver_id = $2, resolved_at = $3, updated_at = $3, admin_notes = $4
		WHERE id = $5 AND status = $6
		RETURNING ` + claimColumns

	claim, err := scanClaimRow(r.db.Pool.QueryRow(ctx, query,
		models.ClaimStatusRejected, resolverID, now, nullableString(notes), claimID, models.ClaimStatusPending,
	))
	if err != nil {
		return nil, r.guardFailure(ctx, r.db.Pool, claimID, err)
	}

	return claim, nil
}

// Delete removes a pending claim permanently. The status guard keeps a
// concurrent resolve from racing the deletion.
func (r *ClaimRepository) Delete(ctx context.Context, claimID string) error {
	ctx, cancel := r.db.QueryContext(ctx)
	defer cancel()

	query := `DELETE FROM claims WHERE id = $1 AND status = $2`

	result, err := r.db.Pool.Exec(ctx, query, claimID, models.ClaimStatusPending)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return r.guardFailure(ctx, r.db.Pool, claimID, models.ErrNotFound)
	}

	return nil
}

// queryRower is satisfied by both the pool and an open transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// guardFailure distinguishes a missing claim from one that already left
// pending when a guarded write matches no rows.
func (r *ClaimRepository) guardFailure(ctx context.Context, q queryRower, claimID string, cause error) error {
	mapped := database.MapPostgresError(cause)
	if mapped != models.ErrNotFound {
		return mapped
	}

	var status models.ClaimStatus
	err := q.QueryRow(ctx, `SELECT status FROM claims WHERE id = $1`, claimID).Scan(&status)
	if err != nil {
		return database.MapPostgresError(err)
	}

	// The claim exists, so the guard failed on its status.
	return models.ErrInvalidOperation
}
