// Package mocks holds hand-written fakes shared by the test suites.
package mocks

import (
	"context"
	"sync"
	"time"
)

// TokenStore is an in-memory implementation of service.TokenStore. TTLs are
// accepted but not enforced; expiry behavior belongs to the Redis-backed
// store.
type TokenStore struct {
	mu      sync.Mutex
	byToken map[string]uint
	byUser  map[uint]string
}

// NewTokenStore creates an empty in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		byToken: make(map[string]uint),
		byUser:  make(map[uint]string),
	}
}

func (s *TokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = userID
	s.byUser[userID] = token
	return nil
}

func (s *TokenStore) Resolve(ctx context.Context, token string, ttl time.Duration) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.byToken[token]
	return userID, ok, nil
}

func (s *TokenStore) TokenForUser(ctx context.Context, userID uint) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.byUser[userID]
	return token, ok, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID, ok := s.byToken[token]; ok {
		delete(s.byUser, userID)
		delete(s.byToken, token)
	}
	return nil
}
