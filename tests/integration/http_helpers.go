package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shahzebali977/lostandfounddevops/internal/auth"
	"github.com/shahzebali977/lostandfounddevops/internal/config"
	"github.com/shahzebali977/lostandfounddevops/internal/database"
	"github.com/shahzebali977/lostandfounddevops/internal/handlers"
	middlewareCustom "github.com/shahzebali977/lostandfounddevops/internal/middleware"
	"github.com/shahzebali977/lostandfounddevops/internal/routes"
	"github.com/shahzebali977/lostandfounddevops/internal/services"
	pkglogger "github.com/shahzebali977/lostandfounddevops/pkg/logger"
)

// MockImageStore captures uploaded photos in memory so upload flows run
// without an object store
type MockImageStore struct {
	Objects map[string][]byte
	mu      sync.Mutex
}

// Upload records the object and returns a stable fake URL
func (m *MockImageStore) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Objects == nil {
		m.Objects = make(map[string][]byte)
	}
	m.Objects[objectName] = data
	return "http://storage.test/lostandfound-images/" + objectName, nil
}

// ObjectCount returns how many photos have been stored
func (m *MockImageStore) ObjectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server     *httptest.Server
	DB         *database.DB
	ImageStore *MockImageStore
	Config     *config.Config

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server with real database + mocked object storage
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret-32-characters-long-for-testing",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
			CleanupInterval:    1 * time.Hour,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
		},
		Storage: config.StorageConfig{
			Bucket:        "lostandfound-images",
			MaxUploadSize: 5 << 20,
		},
	}

	userRepo, itemRepo, claimRepo, revokeRepo := InitializeRepositories(db)

	mockStore := &MockImageStore{Objects: make(map[string][]byte)}

	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	auditLogger := pkglogger.NewAuditLogger(logger)

	userService := services.NewUserService(userRepo, logger)
	authService := services.NewAuthService(userRepo, tokenManager, revokeRepo, logger, auditLogger)
	itemService := services.NewItemService(itemRepo, logger)
	claimService := services.NewClaimService(claimRepo, itemRepo, logger, auditLogger)
	uploadService := services.NewUploadService(mockStore, logger)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	itemHandler := handlers.NewItemHandler(itemService)
	claimHandler := handlers.NewClaimHandler(claimService)
	uploadHandler := handlers.NewUploadHandler(uploadService, cfg.Storage.MaxUploadSize)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, authHandler, userHandler, itemHandler, claimHandler, uploadHandler,
		tokenManager, userRepo, revokeRepo, auth.RevocationConfig{FailClosed: false})

	server := httptest.NewServer(r)

	return &TestServer{
		Server:     server,
		DB:         db,
		ImageStore: mockStore,
		Config:     cfg,
		logger:     logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

var fakeClientCounter uint64

// nextFakeIP hands every request its own client address so the per-IP
// rate limiter never couples unrelated tests. Tests that exercise the
// limiter pin X-Forwarded-For themselves.
func nextFakeIP() string {
	n := atomic.AddUint64(&fakeClientCounter, 1)
	return fmt.Sprintf("10.%d.%d.%d", (n>>16)&0xff, (n>>8)&0xff, n&0xff)
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", nextFakeIP())
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return http.DefaultClient.Do(req)
}

// RequestWithAuth makes an authenticated HTTP request with access token
func (ts *TestServer) RequestWithAuth(method, path, accessToken string, body interface{}) (*http.Response, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + accessToken,
	}
	return ts.Request(method, path, body, headers)
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// ExtractTokensFromResponse extracts access/refresh tokens from auth response
func ExtractTokensFromResponse(resp *http.Response) (accessToken, refreshToken string, err error) {
	defer resp.Body.Close()

	var authResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", "", fmt.Errorf("failed to parse response: %w", err)
	}

	if access, ok := authResp["access_token"].(string); ok {
		accessToken = access
	}
	if refresh, ok := authResp["refresh_token"].(string); ok {
		refreshToken = refresh
	}

	return
}

// GetErrorMessage extracts error message from error response
func GetErrorMessage(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return "", err
	}
	if msg, ok := errResp["message"].(string); ok {
		return msg, nil
	}
	return "", nil
}
