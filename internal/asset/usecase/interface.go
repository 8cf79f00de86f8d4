// Package usecase implements asset management and the encryption maintenance
// jobs that operate on stored password envelopes.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/asset/domain"
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
	outboxDomain "github.com/allisson/assetvault/internal/outbox/domain"
	userDomain "github.com/allisson/assetvault/internal/user/domain"
)

// AssetRepository defines asset persistence operations.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreatePasswordChangeLog(ctx context.Context, log *domain.PasswordChangeLog) error
}

// EnvelopeRepository gives the maintenance jobs keyset access to stored envelopes.
type EnvelopeRepository interface {
	// ListEnvelopes returns up to limit envelopes with asset id greater than
	// afterID, ordered by asset id.
	ListEnvelopes(ctx context.Context, afterID uuid.UUID, limit int) ([]*domain.StoredEnvelope, error)
	UpdatePassword(ctx context.Context, assetID uuid.UUID, envelope cryptoDomain.Envelope) error
}

// UserRepository is the subset of the user repository assets depend on.
type UserRepository interface {
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*userDomain.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
}

// OutboxEventRepository stores outbox events in the caller's transaction.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.Event) error
}

// AssetUseCase defines asset business operations.
type AssetUseCase interface {
	// Create encrypts the password and stores a new asset.
	Create(ctx context.Context, input CreateAssetInput) (*domain.Asset, error)

	// Get returns an asset with its decrypted password result. An unreadable
	// password is not an error.
	Get(ctx context.Context, id uuid.UUID) (*domain.Details, error)

	// ListByCompany returns asset summaries, most recently updated first.
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*domain.Asset, error)

	// Update applies a partial update. A new password replaces the whole envelope,
	// writes a password change log and queues a notification event.
	Update(ctx context.Context, id uuid.UUID, input UpdateAssetInput) (*domain.Asset, error)

	// Delete removes the asset and its envelope.
	Delete(ctx context.Context, id uuid.UUID) error
}

// EncryptionUseCase defines the encryption maintenance jobs.
type EncryptionUseCase interface {
	Verify(ctx context.Context, opts MaintenanceOptions) (*EncryptionReport, error)
	Repair(ctx context.Context, opts MaintenanceOptions) (*EncryptionReport, error)
	Rotate(ctx context.Context, opts RotateOptions) (*EncryptionReport, error)
}
