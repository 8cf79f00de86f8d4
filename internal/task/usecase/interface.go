// Package usecase implements the task workflow. Assignments and confirmation
// requests are queued as outbox events in the same transaction as the task.
package usecase

import (
	"context"

	"github.com/google/uuid"

	assetDomain "github.com/allisson/assetvault/internal/asset/domain"
	outboxDomain "github.com/allisson/assetvault/internal/outbox/domain"
	"github.com/allisson/assetvault/internal/task/domain"
	userDomain "github.com/allisson/assetvault/internal/user/domain"
)

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByCompany(
		ctx context.Context,
		companyID uuid.UUID,
		filter domain.ListFilter,
		offset, limit int,
	) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
}

// UserRepository is the subset of the user repository tasks depend on.
type UserRepository interface {
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*userDomain.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
}

// AssetRepository is the subset of the asset repository tasks depend on.
type AssetRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*assetDomain.Asset, error)
}

// OutboxEventRepository stores outbox events in the caller's transaction.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.Event) error
}

// TaskUseCase defines task business operations.
type TaskUseCase interface {
	// Create stores a task in the creator's company and notifies the handler.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// Get returns a task with its handler and creator.
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByCompany returns a company's tasks, most recently updated first.
	ListByCompany(
		ctx context.Context,
		companyID uuid.UUID,
		filter domain.ListFilter,
		offset, limit int,
	) ([]*domain.Task, error)

	// Update applies a partial update. A new handler is notified, and so is the
	// creator when the task moves to awaiting confirmation.
	Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*domain.Task, error)
}
