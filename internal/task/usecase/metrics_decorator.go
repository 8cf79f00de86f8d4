package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/metrics"
	"github.com/allisson/assetvault/internal/task/domain"
)

const metricsDomain = "tasks"

// taskUseCaseWithMetrics decorates TaskUseCase with metrics instrumentation.
type taskUseCaseWithMetrics struct {
	next    TaskUseCase
	metrics metrics.BusinessMetrics
}

// NewTaskUseCaseWithMetrics wraps a TaskUseCase with metrics recording.
func NewTaskUseCaseWithMetrics(useCase TaskUseCase, m metrics.BusinessMetrics) TaskUseCase {
	return &taskUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *taskUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusFromError(err)
	t.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	t.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Create records metrics for task creation.
func (t *taskUseCaseWithMetrics) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	start := time.Now()
	task, err := t.next.Create(ctx, input)
	t.record(ctx, "task_create", start, err)
	return task, err
}

// Get records metrics for task retrieval.
func (t *taskUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	start := time.Now()
	task, err := t.next.Get(ctx, id)
	t.record(ctx, "task_get", start, err)
	return task, err
}

// ListByCompany records metrics for task listing.
func (t *taskUseCaseWithMetrics) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	filter domain.ListFilter,
	offset, limit int,
) ([]*domain.Task, error) {
	start := time.Now()
	tasks, err := t.next.ListByCompany(ctx, companyID, filter, offset, limit)
	t.record(ctx, "task_list", start, err)
	return tasks, err
}

// Update records metrics for task updates.
func (t *taskUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	start := time.Now()
	task, err := t.next.Update(ctx, id, input)
	t.record(ctx, "task_update", start, err)
	return task, err
}
