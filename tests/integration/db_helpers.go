package integration

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shahzebali977/lostandfounddevops/internal/database"
	"github.com/shahzebali977/lostandfounddevops/internal/models"
	"github.com/shahzebali977/lostandfounddevops/internal/repositories"
	"github.com/shahzebali977/lostandfounddevops/pkg/auth"
)

// TestDB manages PostgreSQL testcontainer and database operations
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("lostandfound"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbWrapper := database.NewFromPool(pool, logger, 5*time.Second)

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         dbWrapper,
	}, nil
}

// runMigrations executes all goose migrations
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir, err := filepath.Abs("../../migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}

	// Suppress goose logs
	goose.SetLogger(log.New(io.Discard, "", 0))

	// Goose needs a stdlib DB connection
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"claims",
		"items",
		"revoked_tokens",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// InitializeRepositories creates all repository instances from database wrapper
func InitializeRepositories(db *database.DB) (
	*repositories.UserRepository,
	*repositories.ItemRepository,
	*repositories.ClaimRepository,
	*repositories.TokenRevocationRepository,
) {
	return repositories.NewUserRepository(db),
		repositories.NewItemRepository(db),
		repositories.NewClaimRepository(db),
		repositories.NewTokenRevocationRepository(db)
}

// SeedUser inserts a test user with hashed password
func SeedUser(ctx context.Context, pool *pgxpool.Pool, name, email, password, role string) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (name, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		RETURNING id, name, email, password_hash, role, is_active, created_at, updated_at
	`

	var user models.User
	err = pool.QueryRow(ctx, query, name, email, hashedPassword, role).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &user, nil
}

// SeedItem inserts an active listing owned by ownerID
func SeedItem(ctx context.Context, pool *pgxpool.Pool, ownerID string, itemType models.ItemType, title string) (*models.Item, error) {
	query := `
		INSERT INTO items (title, description, type, category, location, date, owner_id, status, is_active, views, tags, created_at, updated_at)
		VALUES ($1, $2, $3, 'Other', 'Main Library', NOW() - INTERVAL '1 day', $4, 'active', TRUE, 0, '{}', NOW(), NOW())
		RETURNING id, title, description, type, category, location, date, owner_id, status, is_active, views, created_at, updated_at
	`

	var item models.Item
	err := pool.QueryRow(ctx, query, title, "Seeded listing for integration tests", itemType, ownerID).Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Type,
		&item.Category,
		&item.Location,
		&item.Date,
		&item.OwnerID,
		&item.Status,
		&item.IsActive,
		&item.Views,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	return &item, nil
}

// SeedClaim inserts a pending claim by claimantID on itemID
func SeedClaim(ctx context.Context, pool *pgxpool.Pool, itemID, claimantID, message string) (*models.Claim, error) {
	query := `
		INSERT INTO claims (item_id, claimant_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', NOW(), NOW())
		RETURNING id, item_id, claimant_id, message, status, created_at, updated_at
	`

	var claim models.Claim
	err := pool.QueryRow(ctx, query, itemID, claimantID, message).Scan(
		&claim.ID,
		&claim.ItemID,
		&claim.ClaimantID,
		&claim.Message,
		&claim.Status,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert claim: %w", err)
	}

	return &claim, nil
}
