package twofactor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps profiles in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Profile
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[uuid.UUID]Profile), now: time.Now}
}

func (m *MemoryStore) GetProfile(_ context.Context, userID uuid.UUID) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	if p.TwoFactorSecret != nil {
		secret := *p.TwoFactorSecret
		p.TwoFactorSecret = &secret
	}
	return &p, nil
}

func (m *MemoryStore) CreateProfile(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[p.UserID]; ok {
		return ErrProfileExists
	}
	cp := *p
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = m.now()
	}
	cp.UpdatedAt = cp.CreatedAt
	m.profiles[p.UserID] = cp
	return nil
}

func (m *MemoryStore) SaveTwoFactor(_ context.Context, userID uuid.UUID, enabled bool, sealedSecret *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.TwoFactorEnabled = enabled
	p.TwoFactorSecret = nil
	if sealedSecret != nil {
		secret := *sealedSecret
		p.TwoFactorSecret = &secret
	}
	p.UpdatedAt = m.now()
	m.profiles[userID] = p
	return nil
}
