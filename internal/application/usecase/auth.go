package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"habitrpg/internal/domain"
	"habitrpg/internal/infrastructure/security"
	"habitrpg/internal/progression"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var ErrTokenRevoked = errors.New("token revoked")

type AuthUseCase struct {
	store        domain.Store
	tokens       RefreshStore
	hasher       *security.PasswordHasher
	tokenManager *security.TokenManager
	logger       *log.Logger
}

func NewAuthUseCase(
	store domain.Store,
	tokens RefreshStore,
	h *security.PasswordHasher,
	tm *security.TokenManager,
	logger *log.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		store:        store,
		tokens:       tokens,
		hasher:       h,
		tokenManager: tm,
		logger:       logger,
	}
}

// Register creates the account with fresh progression and the default habits.
func (uc *AuthUseCase) Register(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return uuid.Nil, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}
	if len(username) > 50 || len(email) > 100 {
		return uuid.Nil, fmt.Errorf("%w: username or email too long", domain.ErrValidation)
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return uuid.Nil, err
	}

	user := progression.NewUser(domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hash,
	})

	err = uc.store.Atomic(ctx, func(tx domain.Repositories) error {
		if err := tx.Users().Create(ctx, &user); err != nil {
			return err
		}
		for _, in := range DefaultHabits {
			h := &domain.Habit{
				ID:      uuid.New(),
				UserID:  user.ID,
				Name:    in.Name,
				Type:    in.Type,
				Nature:  in.Nature,
				XPValue: in.XPValue,
			}
			if err := tx.Habits().Create(ctx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	uc.logger.Info("user registered", "user", user.ID, "username", user.Username)
	return user.ID, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := uc.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", domain.ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	return uc.generateAndSaveTokens(ctx, user.ID.String())
}

func (uc *AuthUseCase) Refresh(ctx context.Context, oldRefreshToken string) (string, string, error) {
	userID, err := uc.tokenManager.ValidateRefreshToken(oldRefreshToken)
	if err != nil {
		return "", "", domain.ErrInvalidCredentials
	}

	cachedID, err := uc.tokens.CheckRefresh(ctx, oldRefreshToken)
	if err != nil || cachedID != userID {
		return "", "", ErrTokenRevoked
	}
	if err := uc.tokens.DeleteRefresh(ctx, oldRefreshToken); err != nil {
		uc.logger.Warn("could not revoke rotated refresh token", "user", userID, "err", err)
	}

	return uc.generateAndSaveTokens(ctx, userID)
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokens.DeleteRefresh(ctx, refreshToken)
}

// ValidateAccess resolves an access token to the caller's user id.
func (uc *AuthUseCase) ValidateAccess(token string) (uuid.UUID, error) {
	sub, err := uc.tokenManager.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	return id, nil
}

func (uc *AuthUseCase) generateAndSaveTokens(ctx context.Context, userID string) (string, string, error) {
	access, refresh, err := uc.tokenManager.Generate(userID)
	if err != nil {
		return "", "", err
	}

	if err := uc.tokens.SaveRefresh(ctx, userID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
