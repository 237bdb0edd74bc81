package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booknest/library-api/internal/domain/entity"
	"github.com/booknest/library-api/pkg/helpers"
)

func newUserService(t *testing.T) (*UserService, *fakeAccountRepo, *fakeUserRepo) {
	t.Helper()
	accounts := newFakeAccountRepo()
	users := newFakeUserRepo()
	svc := &UserService{
		Users:    users,
		Accounts: accounts,
		JWT:      helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour),
	}
	return svc, accounts, users
}

func seedAccount(t *testing.T, accounts *fakeAccountRepo, login, email, password string) *entity.Account {
	t.Helper()
	hash, err := helpers.HashPassword(password)
	require.NoError(t, err)
	account := &entity.Account{Login: login, Email: email, PasswordHash: hash, Verified: true}
	require.NoError(t, accounts.Create(context.Background(), account))
	return account
}

func validProfile(email string) CreateInput {
	return CreateInput{
		Name:         "John",
		Surname:      "Doe",
		AddressLine1: "1 High Street",
		City:         "London",
		AccountEmail: email,
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newUserService(t)
	account := seedAccount(t, accounts, "jdoe", "jdoe@example.com", "secret")

	user, err := svc.Create(ctx, validProfile(account.Email))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, account.ID, user.AccountID)

	t.Run("second profile for the same account", func(t *testing.T) {
		_, err := svc.Create(ctx, validProfile(account.Email))
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.Create(ctx, validProfile("nobody@example.com"))
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("missing required fields", func(t *testing.T) {
		in := validProfile(account.Email)
		in.City = ""
		_, err := svc.Create(ctx, in)
		assert.True(t, IsValidation(err))
	})
}

func TestUpdateUserPatch(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newUserService(t)
	account := seedAccount(t, accounts, "jdoe", "jdoe@example.com", "secret")
	user, err := svc.Create(ctx, validProfile(account.Email))
	require.NoError(t, err)

	city := "Manchester"
	updated, err := svc.Update(ctx, user.ID, UpdateInput{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Manchester", updated.City)
	// Untouched fields keep their values.
	assert.Equal(t, "John", updated.Name)
	assert.Equal(t, "1 High Street", updated.AddressLine1)

	_, err = svc.Update(ctx, 999, UpdateInput{City: &city})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newUserService(t)
	account := seedAccount(t, accounts, "jdoe", "jdoe@example.com", "secret")
	_, err := svc.Create(ctx, validProfile(account.Email))
	require.NoError(t, err)

	t.Run("by login name", func(t *testing.T) {
		user, pair, err := svc.Login(ctx, "jdoe", "secret")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.True(t, pair.AccessTokenExpiry.After(time.Now()))
	})

	t.Run("by email", func(t *testing.T) {
		_, pair, err := svc.Login(ctx, "jdoe@example.com", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "jdoe", "wrong!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown credential", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginWithoutProfile(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newUserService(t)
	seedAccount(t, accounts, "jdoe", "jdoe@example.com", "secret")

	// Account exists but no user profile was created yet.
	_, _, err := svc.Login(ctx, "jdoe", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newUserService(t)
	account := seedAccount(t, accounts, "jdoe", "jdoe@example.com", "secret")
	_, err := svc.Create(ctx, validProfile(account.Email))
	require.NoError(t, err)

	_, pair, err := svc.Login(ctx, "jdoe", "secret")
	require.NoError(t, err)

	// No Redis configured, so the sid check is skipped and rotation
	// succeeds purely on the signed claims.
	fresh, uid, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotZero(t, uid)
	assert.NotEmpty(t, fresh.AccessToken)

	_, _, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByAccountEmail(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newUserService(t)
	account := seedAccount(t, accounts, "jdoe", "jdoe@example.com", "secret")
	created, err := svc.Create(ctx, validProfile(account.Email))
	require.NoError(t, err)

	user, err := svc.GetByAccountEmail(ctx, account.Email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.GetByAccountEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, accounts, _ := newUserService(t)
	account := seedAccount(t, accounts, "jdoe", "jdoe@example.com", "secret")
	user, err := svc.Create(ctx, validProfile(account.Email))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))
	assert.ErrorIs(t, svc.Delete(ctx, user.ID), ErrUserNotFound)
}
