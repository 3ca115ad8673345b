package auth

import (
	"context"
	"sync"

	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
)

// NewInMemoryCredentialStore returns a CredentialStore backed by a map.
// Useful for tests and local development.
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{users: make(map[string]models.User)}
}

// InMemoryCredentialStore implements CredentialStore without a database.
type InMemoryCredentialStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

// Put seeds or replaces a user record.
func (s *InMemoryCredentialStore) Put(user models.User) {
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
}

// FindByID retrieves a user by id.
func (s *InMemoryCredentialStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

// SetRefreshToken unconditionally replaces the stored refresh token.
func (s *InMemoryCredentialStore) SetRefreshToken(_ context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	s.users[id] = user
	return nil
}

// RotateRefreshToken swaps the token only if the stored value still matches
// presented, mirroring the compare-and-swap the SQL store performs.
func (s *InMemoryCredentialStore) RotateRefreshToken(_ context.Context, id, presented, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok || user.RefreshToken != presented {
		return false, nil
	}
	user.RefreshToken = next
	s.users[id] = user
	return true, nil
}

// ClearRefreshToken removes the stored token. Clearing an absent user or an
// already-empty token is not an error.
func (s *InMemoryCredentialStore) ClearRefreshToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		user.RefreshToken = ""
		s.users[id] = user
	}
	return nil
}

// StoredToken reports the current refresh token for a user. Useful for tests.
func (s *InMemoryCredentialStore) StoredToken(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id].RefreshToken
}

var _ CredentialStore = (*InMemoryCredentialStore)(nil)
