package usecase

import (
	"context"
	"errors"
	"testing"

	"habitrpg/internal/domain"
	"habitrpg/internal/infrastructure/repository"
	"habitrpg/internal/infrastructure/security"
	"habitrpg/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRefreshStore map[string]string

func (m memoryRefreshStore) SaveRefresh(_ context.Context, userID, refreshToken string) error {
	m[refreshToken] = userID
	return nil
}

func (m memoryRefreshStore) CheckRefresh(_ context.Context, refreshToken string) (string, error) {
	id, ok := m[refreshToken]
	if !ok {
		return "", errors.New("not found")
	}
	return id, nil
}

func (m memoryRefreshStore) DeleteRefresh(_ context.Context, refreshToken string) error {
	delete(m, refreshToken)
	return nil
}

func newAuthUseCase(store domain.Store) (*AuthUseCase, memoryRefreshStore) {
	tokens := memoryRefreshStore{}
	uc := NewAuthUseCase(
		store,
		tokens,
		security.NewPasswordHasherWithCost(4),
		security.NewTokenManager("access", "refresh"),
		logger.Discard(),
	)
	return uc, tokens
}

func TestRegister_CreatesFreshUserWithDefaultHabits(t *testing.T) {
	store := repository.NewMemoryStore()
	uc, _ := newAuthUseCase(store)
	ctx := context.Background()

	id, err := uc.Register(ctx, "ana", "ana@example.com", "secret")
	require.NoError(t, err)

	u, err := store.Users().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, u.XP)
	assert.Equal(t, 1, u.Level)
	assert.Equal(t, "Unrepentant Slacker", u.LevelName)
	assert.Equal(t, 100, u.Mana)
	assert.Equal(t, 100, u.MaxHealth)
	assert.Zero(t, u.DaysAlive)
	assert.NotEqual(t, "secret", u.Password)

	habits, err := store.Habits().ListByUser(ctx, id, true)
	require.NoError(t, err)
	assert.Len(t, habits, len(DefaultHabits))
}

func TestRegister_Rejects(t *testing.T) {
	store := repository.NewMemoryStore()
	uc, _ := newAuthUseCase(store)
	ctx := context.Background()

	_, err := uc.Register(ctx, "ana", "", "secret")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Register(ctx, "ana", "ana@example.com", "secret")
	require.NoError(t, err)
	_, err = uc.Register(ctx, "other", "ANA@example.com", "secret")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	store := repository.NewMemoryStore()
	uc, tokens := newAuthUseCase(store)
	ctx := context.Background()

	id, err := uc.Register(ctx, "ana", "ana@example.com", "secret")
	require.NoError(t, err)

	_, _, err = uc.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = uc.Login(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	access, refresh, err := uc.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, id.String(), tokens[refresh])

	got, err := uc.ValidateAccess(access)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = uc.ValidateAccess(refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefresh_RotatesAndRevokes(t *testing.T) {
	store := repository.NewMemoryStore()
	uc, tokens := newAuthUseCase(store)
	ctx := context.Background()

	_, err := uc.Register(ctx, "ana", "ana@example.com", "secret")
	require.NoError(t, err)
	_, refresh, err := uc.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)

	_, rotated, err := uc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEqual(t, refresh, rotated)
	assert.NotContains(t, tokens, refresh)

	_, _, err = uc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	require.NoError(t, uc.Logout(ctx, rotated))
	_, _, err = uc.Refresh(ctx, rotated)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
