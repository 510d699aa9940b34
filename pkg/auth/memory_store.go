package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryUserStore keeps users in process memory.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*User
	byEmail map[string]uuid.UUID
	hashes  map[uuid.UUID][]byte
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]uuid.UUID),
		hashes:  make(map[uuid.UUID][]byte),
	}
}

func (s *MemoryUserStore) CreateUser(_ context.Context, user *User, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return ErrEmailAlreadyExists
	}
	u := *user
	s.byID[u.ID] = &u
	s.byEmail[u.Email] = u.ID
	s.hashes[u.ID] = append([]byte(nil), hash...)
	return nil
}

func (s *MemoryUserStore) GetUserByEmail(_ context.Context, email string) (*User, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil, ErrUserNotFound
	}
	u := *s.byID[id]
	return &u, s.hashes[id], nil
}

func (s *MemoryUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
