package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-ledger/internal/apperrors"
	"currency-ledger/internal/domain"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		Email:             "ada@example.com",
		FirstName:         "Ada",
		LastName:          "Lovelace",
		PreferredCurrency: "GBP",
		PasswordHash:      "hash",
	}
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)
	assert.Equal(t, "GBP", byID.PreferredCurrency)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)
}

func TestUserRepository_Errors(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	createUser(t, db, "ada@example.com")

	_, err := repo.Create(ctx, &domain.User{Email: "ada@example.com", PreferredCurrency: "USD", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = repo.Update(ctx, &domain.User{ID: 999})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := createUser(t, db, "ada@example.com")

	user, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	user.PreferredCurrency = "EUR"
	user.FirstName = "Augusta"
	require.NoError(t, repo.Update(ctx, user))

	reloaded, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "EUR", reloaded.PreferredCurrency)
	assert.Equal(t, "Augusta", reloaded.FirstName)
	assert.Equal(t, "Lovelace", reloaded.LastName)
}
