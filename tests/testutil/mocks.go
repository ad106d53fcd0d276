package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dimitrije/socketkey-api/internal/models"
)

// MockAPIKeyService mocks the APIKeyService
type MockAPIKeyService struct {
	mock.Mock
}

func (m *MockAPIKeyService) GenerateAPIKey(ctx context.Context, key, userID string) (string, error) {
	args := m.Called(ctx, key, userID)
	return args.String(0), args.Error(1)
}

func (m *MockAPIKeyService) StoreAPIKey(ctx context.Context, key, userID string, timeout time.Duration) error {
	args := m.Called(ctx, key, userID, timeout)
	return args.Error(0)
}

func (m *MockAPIKeyService) ValidateAPIKey(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPIKeyService) ExtendAPIKeyExpiration(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPIKeyService) RenewAPIKey(ctx context.Context, key string) (*models.APIKeyRecord, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.APIKeyRecord), args.Bool(1), args.Error(2)
}

func (m *MockAPIKeyService) GetAPIKeyInfo(ctx context.Context, key string) (*models.APIKeyRecord, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.APIKeyRecord), args.Bool(1), args.Error(2)
}

func (m *MockAPIKeyService) DefaultTimeout() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}
