package auth_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/rentdesk/pkg/auth"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *auth.User, hash []byte) error {
	return m.Called(ctx, user, hash).Error(0)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, []byte, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*auth.User), args.Get(1).([]byte), args.Error(2)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}
