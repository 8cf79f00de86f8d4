// Package mocks provides mock implementations of the task use case dependencies.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/assetvault/internal/task/domain"
)

// MockTaskRepository is a mock implementation of usecase.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

// Create mocks the Create method of TaskRepository.
func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID mocks the GetByID method of TaskRepository.
func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

// ListByCompany mocks the ListByCompany method of TaskRepository.
func (m *MockTaskRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	filter domain.ListFilter,
	offset, limit int,
) ([]*domain.Task, error) {
	args := m.Called(ctx, companyID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

// Update mocks the Update method of TaskRepository.
func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
