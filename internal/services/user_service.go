package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

// UserService handles user business logic
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	return user, nil
}

// ListUsers retrieves a list of users with pagination
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", slog.Int("limit", limit), slog.Int("offset", offset), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	return users, nil
}

// UpdateUser applies a profile update. Role changes are only honored
// when requested by an admin.
func (s *UserService) UpdateUser(ctx context.Context, id string, updates *models.User, actorIsAdmin bool) (*models.User, error) {
	existingUser, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	// Apply updates only to non-zero fields
	if name := strings.TrimSpace(updates.Name); name != "" {
		existingUser.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(updates.Email)); email != "" {
		existingUser.Email = email
	}
	if updates.Role != "" {
		if !actorIsAdmin {
			s.logger.Warn("role change rejected for non-admin actor", slog.String("user_id", id))
			return nil, models.ErrForbidden
		}
		if updates.Role != models.RoleUser && updates.Role != models.RoleAdmin {
			return nil, models.ErrValidation
		}
		existingUser.Role = updates.Role
	}

	updatedUser, err := s.repo.Update(ctx, id, existingUser)
	if err != nil {
		// Email collisions surface as conflicts from the unique index
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, coerceStoreError(err)
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return updatedUser, nil
}
