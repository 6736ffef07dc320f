package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shahzebali977/lostandfounddevops/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetUserByID_Success(t *testing.T) {
	user := NewTestUser("user123", "user@example.com", "John Doe")

	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			assert.Equal(t, "user123", id)
			return user, nil
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	got, err := userService.GetUserByID(context.Background(), "user123")

	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	got, err := userService.GetUserByID(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, got)
}

func TestUserService_GetUserByID_UnknownErrorBecomesInternal(t *testing.T) {
	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return nil, errors.New("driver: bad connection")
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	_, err := userService.GetUserByID(context.Background(), "user123")

	assert.ErrorIs(t, err, models.ErrInternalServer)
}

func TestUserService_ListUsers(t *testing.T) {
	users := []*models.User{
		NewTestUser("u1", "a@example.com", "A"),
		NewTestUser("u2", "b@example.com", "B"),
	}

	mockRepo := &MockUserRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			assert.Equal(t, 20, limit)
			assert.Equal(t, 40, offset)
			return users, nil
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	got, err := userService.ListUsers(context.Background(), 20, 40)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUserService_UpdateUser_Profile(t *testing.T) {
	existing := NewTestUser("user123", "old@example.com", "Old Name")

	var savedUser *models.User
	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			savedUser = user
			return user, nil
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	updates := &models.User{Name: "  New Name ", Email: "NEW@Example.com"}
	got, err := userService.UpdateUser(context.Background(), "user123", updates, false)

	require.NoError(t, err)
	require.NotNil(t, savedUser)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestUserService_UpdateUser_ZeroFieldsKeepExisting(t *testing.T) {
	existing := NewTestUser("user123", "old@example.com", "Old Name")

	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			return user, nil
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	got, err := userService.UpdateUser(context.Background(), "user123", &models.User{}, false)

	require.NoError(t, err)
	assert.Equal(t, "Old Name", got.Name)
	assert.Equal(t, "old@example.com", got.Email)
}

func TestUserService_UpdateUser_RoleChangeRequiresAdmin(t *testing.T) {
	existing := NewTestUser("user123", "user@example.com", "John Doe")

	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return existing, nil
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	updates := &models.User{Role: models.RoleAdmin}
	got, err := userService.UpdateUser(context.Background(), "user123", updates, false)

	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Nil(t, got)
}

func TestUserService_UpdateUser_AdminChangesRole(t *testing.T) {
	existing := NewTestUser("user123", "user@example.com", "John Doe")

	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			return user, nil
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	updates := &models.User{Role: models.RoleAdmin}
	got, err := userService.UpdateUser(context.Background(), "user123", updates, true)

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestUserService_UpdateUser_UnknownRoleRejected(t *testing.T) {
	existing := NewTestUser("user123", "user@example.com", "John Doe")

	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return existing, nil
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	updates := &models.User{Role: "superuser"}
	got, err := userService.UpdateUser(context.Background(), "user123", updates, true)

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Nil(t, got)
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	userService := NewUserService(&MockUserRepository{}, slog.Default())

	got, err := userService.UpdateUser(context.Background(), "missing", &models.User{Name: "X"}, false)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, got)
}

func TestUserService_UpdateUser_EmailConflictPassesThrough(t *testing.T) {
	existing := NewTestUser("user123", "user@example.com", "John Doe")

	mockRepo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return existing, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	userService := NewUserService(mockRepo, slog.Default())

	_, err := userService.UpdateUser(context.Background(), "user123", &models.User{Email: "taken@example.com"}, false)

	assert.ErrorIs(t, err, models.ErrConflict)
}
