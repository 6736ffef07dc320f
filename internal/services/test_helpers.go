package services

import (
	"context"
	"time"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc         func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	ListFunc            func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc          func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc          func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdateLastLoginFunc func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id)
	}
	return nil
}

// MockItemRepository implements ItemRepository for testing
type MockItemRepository struct {
	GetByIDFunc        func(ctx context.Context, id string) (*models.Item, error)
	CreateFunc         func(ctx context.Context, item *models.Item) (*models.Item, error)
	UpdateFunc         func(ctx context.Context, id string, item *models.Item) (*models.Item, error)
	UpdateStatusFunc   func(ctx context.Context, id string, status models.ItemStatus) (*models.Item, error)
	SoftDeleteFunc     func(ctx context.Context, id string) error
	IncrementViewsFunc func(ctx context.Context, id string) (int64, error)
	ListFunc           func(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error)
	ListByOwnerFunc    func(ctx context.Context, ownerID string) ([]*models.Item, error)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	return nil, models.ErrInternalServer
}

func (m *MockItemRepository) Update(ctx context.Context, id string, item *models.Item) (*models.Item, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, item)
	}
	return nil, models.ErrInternalServer
}

func (m *MockItemRepository) UpdateStatus(ctx context.Context, id string, status models.ItemStatus) (*models.Item, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil, models.ErrInternalServer
}

func (m *MockItemRepository) SoftDelete(ctx context.Context, id string) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockItemRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	if m.IncrementViewsFunc != nil {
		return m.IncrementViewsFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockItemRepository) List(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Item{}, 0, nil
}

func (m *MockItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Item, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	return []*models.Item{}, nil
}

// MockClaimRepository implements ClaimRepository for testing
type MockClaimRepository struct {
	GetByIDFunc            func(ctx context.Context, id string) (*models.Claim, error)
	CreateFunc             func(ctx context.Context, claim *models.Claim) (*models.Claim, error)
	ListByItemFunc         func(ctx context.Context, itemID string) ([]*models.ClaimWithClaimant, error)
	ListByClaimantFunc     func(ctx context.Context, claimantID string) ([]*models.ClaimWithItem, error)
	ListPendingByOwnerFunc func(ctx context.Context, ownerID string) ([]*models.ClaimWithClaimant, error)
	ApproveFunc            func(ctx context.Context, claimID, resolverID string) (*models.Claim, error)
	RejectFunc             func(ctx context.Context, claimID, resolverID, notes string) (*models.Claim, error)
	DeleteFunc             func(ctx context.Context, claimID string) error
}

func (m *MockClaimRepository) GetByID(ctx context.Context, id string) (*models.Claim, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockClaimRepository) Create(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, claim)
	}
	return nil, models.ErrInternalServer
}

func (m *MockClaimRepository) ListByItem(ctx context.Context, itemID string) ([]*models.ClaimWithClaimant, error) {
	if m.ListByItemFunc != nil {
		return m.ListByItemFunc(ctx, itemID)
	}
	return []*models.ClaimWithClaimant{}, nil
}

func (m *MockClaimRepository) ListByClaimant(ctx context.Context, claimantID string) ([]*models.ClaimWithItem, error) {
	if m.ListByClaimantFunc != nil {
		return m.ListByClaimantFunc(ctx, claimantID)
	}
	return []*models.ClaimWithItem{}, nil
}

func (m *MockClaimRepository) ListPendingByOwner(ctx context.Context, ownerID string) ([]*models.ClaimWithClaimant, error) {
	if m.ListPendingByOwnerFunc != nil {
		return m.ListPendingByOwnerFunc(ctx, ownerID)
	}
	return []*models.ClaimWithClaimant{}, nil
}

func (m *MockClaimRepository) Approve(ctx context.Context, claimID, resolverID string) (*models.Claim, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, claimID, resolverID)
	}
	return nil, models.ErrInternalServer
}

func (m *MockClaimRepository) Reject(ctx context.Context, claimID, resolverID, notes string) (*models.Claim, error) {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, claimID, resolverID, notes)
	}
	return nil, models.ErrInternalServer
}

func (m *MockClaimRepository) Delete(ctx context.Context, claimID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, claimID)
	}
	return nil
}

// MockTokenRevocationRepository implements TokenRevocationRepository for testing
type MockTokenRevocationRepository struct {
	RevokeTokenFunc    func(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error
	IsTokenRevokedFunc func(ctx context.Context, jti string) (bool, error)
}

func (m *MockTokenRevocationRepository) RevokeToken(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error {
	if m.RevokeTokenFunc != nil {
		return m.RevokeTokenFunc(ctx, jti, userID, tokenType, expiresAt, reason)
	}
	return nil
}

func (m *MockTokenRevocationRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsTokenRevokedFunc != nil {
		return m.IsTokenRevokedFunc(ctx, jti)
	}
	return false, nil
}

// MockImageStorage implements ImageStorage for testing
type MockImageStorage struct {
	UploadFunc func(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

func (m *MockImageStorage) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, objectName, data, contentType)
	}
	return "http://storage.local/photos/" + objectName, nil
}

// NewTestUser creates an active user for tests
func NewTestUser(id, email, name string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestAdmin creates an active admin for tests
func NewTestAdmin(id, email, name string) *models.User {
	user := NewTestUser(id, email, name)
	user.Role = models.RoleAdmin
	return user
}

// NewTestItem creates a claimable found item owned by ownerID
func NewTestItem(id, ownerID string) *models.Item {
	now := time.Now()
	return &models.Item{
		ID:          id,
		Title:       "Black umbrella",
		Description: "Found near the library entrance",
		Type:        models.ItemTypeFound,
		Category:    models.CategoryOther,
		Location:    "Main Library",
		Date:        now.Add(-24 * time.Hour),
		OwnerID:     ownerID,
		Status:      models.ItemStatusActive,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestLostItem creates an active lost item owned by ownerID
func NewTestLostItem(id, ownerID string) *models.Item {
	item := NewTestItem(id, ownerID)
	item.Type = models.ItemTypeLost
	item.Title = "Blue backpack"
	item.Description = "Lost somewhere on the number 12 bus"
	return item
}

// NewTestClaim creates a pending claim by claimantID on itemID
func NewTestClaim(id, itemID, claimantID string) *models.Claim {
	now := time.Now()
	return &models.Claim{
		ID:         id,
		ItemID:     itemID,
		ClaimantID: claimantID,
		Message:    "That umbrella is mine, it has my initials on the handle.",
		Status:     models.ClaimStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestResolvedClaim creates a claim already moved to a terminal status
func NewTestResolvedClaim(id, itemID, claimantID, resolverID string, status models.ClaimStatus) *models.Claim {
	claim := NewTestClaim(id, itemID, claimantID)
	now := time.Now()
	claim.Status = status
	claim.ResolvedAt = &now
	claim.ResolverID = &resolverID
	return claim
}
