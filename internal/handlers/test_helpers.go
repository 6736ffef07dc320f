package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/shahzebali977/lostandfounddevops/internal/auth"
	"github.com/shahzebali977/lostandfounddevops/internal/models"
	"github.com/shahzebali977/lostandfounddevops/internal/services"
	pkghttp "github.com/shahzebali977/lostandfounddevops/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds user claims to the request context the way the
// auth middleware would for a valid access token
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Type:   models.TokenTypeAccess,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// WithBearerToken adds the raw access token to the request context the
// way the auth middleware does; logout reads it back for revocation
func WithBearerToken(req *http.Request, token string) *http.Request {
	ctx := context.WithValue(req.Context(), auth.TokenContextKey, token)
	return req.WithContext(ctx)
}

// WithChiRouteContext adds chi URL parameters to the request context so
// handlers can be invoked without a router.
//
// Example usage:
//
//	req := httptest.NewRequest("PUT", "/items/item123", body)
//	req = WithChiRouteContext(req, map[string]string{"id": "item123"})
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error envelope
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc     func(ctx context.Context, name, email, password string) (*services.AuthResponse, error)
	LoginFunc        func(ctx context.Context, email, password string) (*services.AuthResponse, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
	LogoutFunc       func(ctx context.Context, accessToken string) error
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*services.AuthResponse, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, name, email, password)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*services.AuthResponse, error) {
	if m.RefreshTokenFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.RefreshTokenFunc(ctx, refreshToken)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, accessToken)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	GetUserByIDFunc func(ctx context.Context, id string) (*models.User, error)
	ListUsersFunc   func(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateUserFunc  func(ctx context.Context, id string, updates *models.User, actorIsAdmin bool) (*models.User, error)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserByIDFunc(ctx, id)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListUsersFunc(ctx, limit, offset)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, updates *models.User, actorIsAdmin bool) (*models.User, error) {
	if m.UpdateUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateUserFunc(ctx, id, updates, actorIsAdmin)
}

// MockItemService implements ItemServiceInterface for testing
type MockItemService struct {
	ListItemsFunc   func(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error)
	GetItemFunc     func(ctx context.Context, id string) (*models.Item, error)
	CreateItemFunc  func(ctx context.Context, ownerID string, item *models.Item) (*models.Item, error)
	UpdateItemFunc  func(ctx context.Context, actorID, id string, updates *models.Item) (*models.Item, error)
	DeleteItemFunc  func(ctx context.Context, actorID, id string) error
	ResolveItemFunc func(ctx context.Context, actorID, id string) (*models.Item, error)
	ListMyItemsFunc func(ctx context.Context, ownerID string) ([]*models.Item, error)
}

func (m *MockItemService) ListItems(ctx context.Context, filter *models.ItemFilter) ([]*models.Item, int64, error) {
	if m.ListItemsFunc == nil {
		filter.Normalize()
		return []*models.Item{}, 0, nil
	}
	return m.ListItemsFunc(ctx, filter)
}

func (m *MockItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	if m.GetItemFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetItemFunc(ctx, id)
}

func (m *MockItemService) CreateItem(ctx context.Context, ownerID string, item *models.Item) (*models.Item, error) {
	if m.CreateItemFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateItemFunc(ctx, ownerID, item)
}

func (m *MockItemService) UpdateItem(ctx context.Context, actorID, id string, updates *models.Item) (*models.Item, error) {
	if m.UpdateItemFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateItemFunc(ctx, actorID, id, updates)
}

func (m *MockItemService) DeleteItem(ctx context.Context, actorID, id string) error {
	if m.DeleteItemFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteItemFunc(ctx, actorID, id)
}

func (m *MockItemService) ResolveItem(ctx context.Context, actorID, id string) (*models.Item, error) {
	if m.ResolveItemFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ResolveItemFunc(ctx, actorID, id)
}

func (m *MockItemService) ListMyItems(ctx context.Context, ownerID string) ([]*models.Item, error) {
	if m.ListMyItemsFunc == nil {
		return []*models.Item{}, nil
	}
	return m.ListMyItemsFunc(ctx, ownerID)
}

// MockClaimService implements ClaimServiceInterface for testing
type MockClaimService struct {
	SubmitClaimFunc         func(ctx context.Context, claimantID, itemID, message string) (*models.Claim, error)
	ListClaimsForItemFunc   func(ctx context.Context, actorID, itemID string) ([]*models.ClaimWithClaimant, error)
	ListMyClaimsFunc        func(ctx context.Context, claimantID string) ([]*models.ClaimWithItem, error)
	ListPendingForOwnerFunc func(ctx context.Context, ownerID string) ([]*models.ClaimWithClaimant, error)
	ResolveClaimFunc        func(ctx context.Context, resolverID, claimID string, decision models.ClaimStatus, notes string) (*models.Claim, error)
	DeleteClaimFunc         func(ctx context.Context, actorID, claimID string) error
}

func (m *MockClaimService) SubmitClaim(ctx context.Context, claimantID, itemID, message string) (*models.Claim, error) {
	if m.SubmitClaimFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SubmitClaimFunc(ctx, claimantID, itemID, message)
}

func (m *MockClaimService) ListClaimsForItem(ctx context.Context, actorID, itemID string) ([]*models.ClaimWithClaimant, error) {
	if m.ListClaimsForItemFunc == nil {
		return []*models.ClaimWithClaimant{}, nil
	}
	return m.ListClaimsForItemFunc(ctx, actorID, itemID)
}

func (m *MockClaimService) ListMyClaims(ctx context.Context, claimantID string) ([]*models.ClaimWithItem, error) {
	if m.ListMyClaimsFunc == nil {
		return []*models.ClaimWithItem{}, nil
	}
	return m.ListMyClaimsFunc(ctx, claimantID)
}

func (m *MockClaimService) ListPendingForOwner(ctx context.Context, ownerID string) ([]*models.ClaimWithClaimant, error) {
	if m.ListPendingForOwnerFunc == nil {
		return []*models.ClaimWithClaimant{}, nil
	}
	return m.ListPendingForOwnerFunc(ctx, ownerID)
}

func (m *MockClaimService) ResolveClaim(ctx context.Context, resolverID, claimID string, decision models.ClaimStatus, notes string) (*models.Claim, error) {
	if m.ResolveClaimFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ResolveClaimFunc(ctx, resolverID, claimID, decision, notes)
}

func (m *MockClaimService) DeleteClaim(ctx context.Context, actorID, claimID string) error {
	if m.DeleteClaimFunc == nil {
		return models.ErrNotFound
	}
	return m.DeleteClaimFunc(ctx, actorID, claimID)
}

// MockUploadService implements UploadServiceInterface for testing
type MockUploadService struct {
	UploadImageFunc func(ctx context.Context, r io.Reader) (string, error)
}

func (m *MockUploadService) UploadImage(ctx context.Context, r io.Reader) (string, error) {
	if m.UploadImageFunc == nil {
		return "", models.ErrUploadFailed
	}
	return m.UploadImageFunc(ctx, r)
}
