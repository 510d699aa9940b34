package twofactor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rentdesk/pkg/totp"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

const testSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) TwoFactor(operation, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, operation+"/"+result)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func codeAt(t *testing.T, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateTOTPWithTime(testSecret, at)
	require.NoError(t, err)
	return code
}

// wrongCode returns a well-formed code that no step in ±5 accepts.
func wrongCode(t *testing.T, at time.Time) string {
	t.Helper()
	for n := 0; n < 1000000; n++ {
		candidate := []byte("000000")
		for i, v := 5, n; i >= 0; i, v = i-1, v/10 {
			candidate[i] = byte('0' + v%10)
		}
		ok, err := totp.Verify(testSecret, string(candidate), 5, at)
		require.NoError(t, err)
		if !ok {
			return string(candidate)
		}
	}
	t.Fatal("no rejected code found")
	return ""
}

func seedProfile(t *testing.T, store *twofactor.MemoryStore, email string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, store.CreateProfile(context.Background(), &twofactor.Profile{
		UserID: id,
		Email:  email,
		Role:   twofactor.RoleOwner,
	}))
	return id
}

func enrolled(t *testing.T, store *twofactor.MemoryStore, sealed string) uuid.UUID {
	t.Helper()
	id := seedProfile(t, store, "owner@example.com")
	require.NoError(t, store.SaveTwoFactor(context.Background(), id, true, &sealed))
	return id
}

type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (*twofactor.Profile, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*twofactor.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileStore) CreateProfile(ctx context.Context, p *twofactor.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileStore) SaveTwoFactor(ctx context.Context, userID uuid.UUID, enabled bool, sealedSecret *string) error {
	return m.Called(ctx, userID, enabled, sealedSecret).Error(0)
}
