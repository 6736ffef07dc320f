package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
	pkglogger "github.com/shahzebali977/lostandfounddevops/pkg/logger"
)

// ClaimRepository defines the interface for claim data access
type ClaimRepository interface {
	GetByID(ctx context.Context, id string) (*models.Claim, error)
	Create(ctx context.Context, claim *models.Claim) (*models.Claim, error)
	ListByItem(ctx context.Context, itemID string) ([]*models.ClaimWithClaimant, error)
	ListByClaimant(ctx context.Context, claimantID string) ([]*models.ClaimWithItem, error)
	ListPendingByOwner(ctx context.Context, ownerID string) ([]*models.ClaimWithClaimant, error)
	Approve(ctx context.Context, claimID, resolverID string) (*models.Claim, error)
	Reject(ctx context.Context, claimID, resolverID, notes string) (*models.Claim, error)
	Delete(ctx context.Context, claimID string) error
}

// ClaimService handles claim lifecycle business logic
type ClaimService struct {
	repo        ClaimRepository
	itemRepo    ItemRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewClaimService creates a new ClaimService
func NewClaimService(repo ClaimRepository, itemRepo ItemRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *ClaimService {
	return &ClaimService{
		repo:        repo,
		itemRepo:    itemRepo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// SubmitClaim files a pending claim by claimantID on a found item. The
// item stays untouched until the owner resolves the claim.
func (s *ClaimService) SubmitClaim(ctx context.Context, claimantID, itemID, message string) (*models.Claim, error) {
	message = strings.TrimSpace(message)
	if n := utf8.RuneCountInString(message); n < models.ClaimMessageMinLength || n > models.ClaimMessageMaxLength {
		return nil, fmt.Errorf("%w: message must be %d-%d characters",
			models.ErrValidation, models.ClaimMessageMinLength, models.ClaimMessageMaxLength)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.String("item_id", itemID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	// Deleted, resolved, and archived items are not open for claims.
	if !item.IsActive || item.Status != models.ItemStatusActive {
		return nil, models.ErrNotFound
	}
	if item.OwnerID == claimantID {
		return nil, fmt.Errorf("%w: cannot claim your own item", models.ErrInvalidOperation)
	}
	if !models.CanClaimItem(item, claimantID) {
		// Item is active and the claimant is not the owner, so the
		// report type is what disqualifies it.
		return nil, fmt.Errorf("%w: only found items can be claimed", models.ErrInvalidOperation)
	}

	claim := &models.Claim{
		ItemID:     itemID,
		ClaimantID: claimantID,
		Message:    message,
	}

	createdClaim, err := s.repo.Create(ctx, claim)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%w: claim already submitted for this item", models.ErrConflict)
		}
		s.logger.Error("failed to create claim", slog.String("item_id", itemID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	s.logger.Info("claim submitted",
		slog.String("claim_id", createdClaim.ID),
		slog.String("item_id", itemID),
		slog.String("claimant_id", claimantID))
	return createdClaim, nil
}

// ListClaimsForItem returns every claim on the item with claimant
// identity attached, owner-only.
func (s *ClaimService) ListClaimsForItem(ctx context.Context, actorID, itemID string) ([]*models.ClaimWithClaimant, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.String("item_id", itemID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	if !item.IsActive {
		return nil, models.ErrNotFound
	}
	if item.OwnerID != actorID {
		return nil, models.ErrForbidden
	}

	claims, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		s.logger.Error("failed to list claims", slog.String("item_id", itemID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	return claims, nil
}

// ListMyClaims returns the requester's claims with item summaries.
func (s *ClaimService) ListMyClaims(ctx context.Context, claimantID string) ([]*models.ClaimWithItem, error) {
	claims, err := s.repo.ListByClaimant(ctx, claimantID)
	if err != nil {
		s.logger.Error("failed to list claims", slog.String("claimant_id", claimantID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	return claims, nil
}

// ListPendingForOwner returns pending claims against the requester's
// items. Claims whose item no longer resolves are dropped, not erred.
func (s *ClaimService) ListPendingForOwner(ctx context.Context, ownerID string) ([]*models.ClaimWithClaimant, error) {
	claims, err := s.repo.ListPendingByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list pending claims", slog.String("owner_id", ownerID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	return claims, nil
}

// ResolveClaim approves or rejects a pending claim. Approval also marks
// the item resolved; both transitions are terminal. The store's guarded
// update keeps concurrent resolvers from each succeeding.
func (s *ClaimService) ResolveClaim(ctx context.Context, resolverID, claimID string, decision models.ClaimStatus, notes string) (*models.Claim, error) {
	if !decision.IsTerminal() {
		return nil, fmt.Errorf("%w: status must be approved or rejected", models.ErrValidation)
	}
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > models.ClaimNotesMaxLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters",
			models.ErrValidation, models.ClaimNotesMaxLength)
	}

	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get claim", slog.String("claim_id", claimID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	item, err := s.itemRepo.GetByID(ctx, claim.ItemID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.String("item_id", claim.ItemID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	if !item.IsActive {
		return nil, models.ErrNotFound
	}
	if item.OwnerID != resolverID {
		return nil, models.ErrForbidden
	}
	if !claim.Status.CanTransitionTo(decision) {
		return nil, fmt.Errorf("%w: claim is already %s", models.ErrInvalidOperation, claim.Status)
	}

	var resolvedClaim *models.Claim
	switch decision {
	case models.ClaimStatusApproved:
		resolvedClaim, err = s.repo.Approve(ctx, claimID, resolverID)
	case models.ClaimStatusRejected:
		resolvedClaim, err = s.repo.Reject(ctx, claimID, resolverID, notes)
	}
	if err != nil {
		if errors.Is(err, models.ErrInvalidOperation) {
			// Another resolver won the race between our read and the write.
			return nil, fmt.Errorf("%w: claim was already resolved", models.ErrInvalidOperation)
		}
		s.logger.Error("failed to resolve claim", slog.String("claim_id", claimID), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	s.auditLogger.LogClaimDecision(claimID, claim.ItemID, resolverID, string(decision))
	return resolvedClaim, nil
}

// DeleteClaim permanently removes the requester's own pending claim.
func (s *ClaimService) DeleteClaim(ctx context.Context, actorID, claimID string) error {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get claim", slog.String("claim_id", claimID), slog.Any("error", err))
		return coerceStoreError(err)
	}

	if claim.ClaimantID != actorID {
		return models.ErrForbidden
	}
	if claim.Status != models.ClaimStatusPending {
		return fmt.Errorf("%w: only pending claims can be withdrawn", models.ErrInvalidOperation)
	}

	if err := s.repo.Delete(ctx, claimID); err != nil {
		if errors.Is(err, models.ErrInvalidOperation) || errors.Is(err, models.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete claim", slog.String("claim_id", claimID), slog.Any("error", err))
		return coerceStoreError(err)
	}

	s.logger.Info("claim withdrawn", slog.String("claim_id", claimID), slog.String("claimant_id", actorID))
	return nil
}
