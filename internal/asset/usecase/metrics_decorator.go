package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/asset/domain"
	"github.com/allisson/assetvault/internal/metrics"
)

const metricsDomain = "assets"

// assetUseCaseWithMetrics decorates AssetUseCase with metrics instrumentation.
type assetUseCaseWithMetrics struct {
	next    AssetUseCase
	metrics metrics.BusinessMetrics
}

// NewAssetUseCaseWithMetrics wraps an AssetUseCase with metrics recording.
func NewAssetUseCaseWithMetrics(useCase AssetUseCase, m metrics.BusinessMetrics) AssetUseCase {
	return &assetUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *assetUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusFromError(err)
	a.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	a.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Create records metrics for asset creation.
func (a *assetUseCaseWithMetrics) Create(ctx context.Context, input CreateAssetInput) (*domain.Asset, error) {
	start := time.Now()
	asset, err := a.next.Create(ctx, input)
	a.record(ctx, "asset_create", start, err)
	return asset, err
}

// Get records metrics for asset retrieval. An unreadable password still counts
// as success here; decrypt outcomes are recorded by the codec observer.
func (a *assetUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*domain.Details, error) {
	start := time.Now()
	details, err := a.next.Get(ctx, id)
	a.record(ctx, "asset_get", start, err)
	return details, err
}

// ListByCompany records metrics for asset listing.
func (a *assetUseCaseWithMetrics) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*domain.Asset, error) {
	start := time.Now()
	assets, err := a.next.ListByCompany(ctx, companyID, offset, limit)
	a.record(ctx, "asset_list", start, err)
	return assets, err
}

// Update records metrics for asset updates.
func (a *assetUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateAssetInput,
) (*domain.Asset, error) {
	start := time.Now()
	asset, err := a.next.Update(ctx, id, input)
	a.record(ctx, "asset_update", start, err)
	return asset, err
}

// Delete records metrics for asset deletion.
func (a *assetUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := a.next.Delete(ctx, id)
	a.record(ctx, "asset_delete", start, err)
	return err
}
