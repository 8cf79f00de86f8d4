// Package mocks provides mock implementations of the asset use case dependencies.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/assetvault/internal/asset/domain"
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
)

// MockAssetRepository is a mock implementation of AssetRepository and EnvelopeRepository.
type MockAssetRepository struct {
	mock.Mock
}

// Create mocks the Create method of AssetRepository.
func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

// GetByID mocks the GetByID method of AssetRepository.
func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

// ListByCompany mocks the ListByCompany method of AssetRepository.
func (m *MockAssetRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*domain.Asset, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

// Update mocks the Update method of AssetRepository.
func (m *MockAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

// Delete mocks the Delete method of AssetRepository.
func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CreatePasswordChangeLog mocks the CreatePasswordChangeLog method of AssetRepository.
func (m *MockAssetRepository) CreatePasswordChangeLog(ctx context.Context, log *domain.PasswordChangeLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// ListEnvelopes mocks the ListEnvelopes method of EnvelopeRepository.
func (m *MockAssetRepository) ListEnvelopes(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*domain.StoredEnvelope, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StoredEnvelope), args.Error(1)
}

// UpdatePassword mocks the UpdatePassword method of EnvelopeRepository.
func (m *MockAssetRepository) UpdatePassword(
	ctx context.Context,
	assetID uuid.UUID,
	envelope cryptoDomain.Envelope,
) error {
	args := m.Called(ctx, assetID, envelope)
	return args.Error(0)
}
