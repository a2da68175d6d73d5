package store

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of the Store interface for testing.
type MockStore struct {
	mock.Mock
}

// SaveRun is the mock implementation of the SaveRun method.
func (m *MockStore) SaveRun(ctx context.Context, run Run) error {
	args := m.Called(ctx, run)
	return args.Error(0) //nolint:wrapcheck
}

// Close is the mock implementation of the Close method.
func (m *MockStore) Close() {
	m.Called()
}
