package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/donovan-vargas/recipe-app-api/internal/models"
)

// TokenStore persists opaque bearer tokens. The production implementation
// lives in internal/database (Redis); tests use an in-memory fake.
type TokenStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	// Resolve returns the bound user id and refreshes the token to the
	// full ttl. A miss is reported via the bool, not an error.
	Resolve(ctx context.Context, token string, ttl time.Duration) (uint, bool, error)
	TokenForUser(ctx context.Context, userID uint) (string, bool, error)
	Delete(ctx context.Context, token string) error
}

// TokenService exchanges credentials for opaque session tokens and resolves
// them back to users on authenticated requests. Tokens are bound 1:1 to a
// user: issuing again while a token is live returns the existing one.
type TokenService struct {
	users *UserService
	store TokenStore
	ttl   time.Duration
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(users *UserService, store TokenStore, ttl time.Duration) *TokenService {
	return &TokenService{users: users, store: store, ttl: ttl}
}

// IssueToken authenticates the credentials and returns the user's session
// token, creating one if none is live. Bad credentials surface as
// ErrInvalidCredentials without revealing which field was wrong.
func (s *TokenService) IssueToken(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	if token, ok, err := s.store.TokenForUser(ctx, user.ID); err != nil {
		return "", err
	} else if ok {
		return token, nil
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, token, user.ID, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// ResolveToken maps a bearer token back to its user. Unknown or expired
// tokens and deactivated accounts yield ErrInvalidCredentials.
func (s *TokenService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	userID, ok, err := s.store.Resolve(ctx, token, s.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RevokeToken invalidates a token immediately. Revoking an unknown token is
// a no-op.
func (s *TokenService) RevokeToken(ctx context.Context, token string) error {
	return s.store.Delete(ctx, token)
}

// generateToken returns 20 random bytes hex-encoded, a 40-character key.
func generateToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
