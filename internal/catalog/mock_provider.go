package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// SourceIDByName is the mock implementation of the SourceIDByName method.
func (m *MockProvider) SourceIDByName(ctx context.Context, name string) (int64, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// InsertSource is the mock implementation of the InsertSource method.
func (m *MockProvider) InsertSource(ctx context.Context, name, url, sourceType string) (int64, error) {
	args := m.Called(ctx, name, url, sourceType)
	return args.Get(0).(int64), args.Error(1)
}

// ProductIDByName is the mock implementation of the ProductIDByName method.
func (m *MockProvider) ProductIDByName(ctx context.Context, name string) (int64, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// LocationIDByName is the mock implementation of the LocationIDByName method.
func (m *MockProvider) LocationIDByName(ctx context.Context, name string) (int64, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// Close is the mock implementation of the Close method.
func (m *MockProvider) Close() {
	m.Called()
}
