package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPlayerListCache is a mock implementation of cache.PlayerListCache
type MockPlayerListCache struct {
	mock.Mock
}

func (m *MockPlayerListCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]string), args.Bool(1), args.Error(2)
}

func (m *MockPlayerListCache) Put(ctx context.Context, key string, usernames []string) error {
	args := m.Called(ctx, key, usernames)
	return args.Error(0)
}
