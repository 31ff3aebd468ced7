package persistence

import (
	"context"
	"testing"

	"github.com/billing/backend/internal/domain/identity"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupIdentityDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&identity.User{}))
	return db
}

func mustUser(t *testing.T, name, email string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, email, "s3cret-password", role)
	require.NoError(t, err)
	return u
}

func TestGormUserRepository_CreateAndFind(t *testing.T) {
	db := setupIdentityDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := mustUser(t, "Admin", "admin@billing.test", identity.RoleAdmin)
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@billing.test", found.Email)
	assert.Equal(t, identity.RoleAdmin, found.Role)
	assert.Equal(t, identity.UserStatusActive, found.Status)
}

func TestGormUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := setupIdentityDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, mustUser(t, "Admin", "admin@billing.test", identity.RoleAdmin)))

	err := repo.Create(ctx, mustUser(t, "Other", "admin@billing.test", identity.RoleStaff))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	db := setupIdentityDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := mustUser(t, "Admin", "admin@billing.test", identity.RoleAdmin)
	require.NoError(t, repo.Create(ctx, user))

	// Lookup is case-insensitive on the stored lowercase form
	found, err := repo.FindByEmail(ctx, "Admin@Billing.Test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "missing@billing.test")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_Update(t *testing.T) {
	db := setupIdentityDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := mustUser(t, "Admin", "admin@billing.test", identity.RoleAdmin)
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, user.Deactivate())
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.UserStatusInactive, found.Status)
}

func TestGormUserRepository_FindAll(t *testing.T) {
	db := setupIdentityDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	admin := mustUser(t, "Admin", "admin@billing.test", identity.RoleAdmin)
	staff := mustUser(t, "Kasir Satu", "kasir@billing.test", identity.RoleStaff)
	require.NoError(t, repo.Create(ctx, admin))
	require.NoError(t, repo.Create(ctx, staff))
	require.NoError(t, staff.Deactivate())
	require.NoError(t, repo.Update(ctx, staff))

	t.Run("returns all with total", func(t *testing.T) {
		users, total, err := repo.FindAll(ctx, identity.NewUserFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, users, 2)
	})

	t.Run("filters by keyword", func(t *testing.T) {
		users, total, err := repo.FindAll(ctx, identity.NewUserFilter().WithKeyword("kasir"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, staff.ID, users[0].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		users, total, err := repo.FindAll(ctx, identity.NewUserFilter().WithStatus(identity.UserStatusInactive))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, staff.ID, users[0].ID)
	})

	t.Run("filters by role", func(t *testing.T) {
		role := identity.RoleAdmin
		filter := identity.NewUserFilter()
		filter.Role = &role

		users, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, admin.ID, users[0].ID)
	})
}

func TestGormUserRepository_ExistsByEmail(t *testing.T) {
	db := setupIdentityDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, mustUser(t, "Admin", "admin@billing.test", identity.RoleAdmin)))

	exists, err := repo.ExistsByEmail(ctx, "ADMIN@billing.test")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "missing@billing.test")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormUserRepository_Count(t *testing.T) {
	db := setupIdentityDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.Create(ctx, mustUser(t, "Admin", "admin@billing.test", identity.RoleAdmin)))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormUserRepository_FindByID_NotFound(t *testing.T) {
	db := setupIdentityDB(t)
	repo := NewGormUserRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
