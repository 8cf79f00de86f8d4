package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/allisson/assetvault/internal/asset/domain"
	"github.com/allisson/assetvault/internal/asset/usecase/mocks"
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
	cryptoService "github.com/allisson/assetvault/internal/crypto/service"
	apperrors "github.com/allisson/assetvault/internal/errors"
)

type envelopeSet struct {
	current    *domain.StoredEnvelope
	old        *domain.StoredEnvelope
	foreign    *domain.StoredEnvelope
	structural *domain.StoredEnvelope
}

func (s envelopeSet) all() []*domain.StoredEnvelope {
	return []*domain.StoredEnvelope{s.current, s.old, s.foreign, s.structural}
}

func stored(t *testing.T, codec cryptoService.SecretCodec, plaintext string) *domain.StoredEnvelope {
	t.Helper()
	envelope, err := codec.Encrypt(plaintext)
	require.NoError(t, err)
	return &domain.StoredEnvelope{AssetID: uuid.Must(uuid.NewV7()), Envelope: envelope}
}

func newEnvelopeSet(t *testing.T, current, old cryptoService.SecretCodec) envelopeSet {
	t.Helper()
	return envelopeSet{
		current: stored(t, current, "current-secret"),
		old:     stored(t, old, "old-secret"),
		foreign: stored(t, newTestCodec(t), "foreign-secret"),
		structural: &domain.StoredEnvelope{
			AssetID:  uuid.Must(uuid.NewV7()),
			Envelope: cryptoDomain.Envelope{CipherText: "YWJj", IV: "AAAAAAAAAAAAAAAA", Tag: "c2hvcnQ="},
		},
	}
}

// expectPages splits envelopes into keyset pages of batchSize.
func expectPages(repo *mocks.MockAssetRepository, envelopes []*domain.StoredEnvelope, batchSize int) {
	afterID := uuid.Nil
	for start := 0; ; start += batchSize {
		end := min(start+batchSize, len(envelopes))
		page := envelopes[start:end]
		repo.On("ListEnvelopes", mock.Anything, afterID, batchSize).Return(page, nil).Once()
		if len(page) < batchSize {
			return
		}
		afterID = page[len(page)-1].AssetID
	}
}

func TestEncryptionUseCase_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CountsOutcomes", func(t *testing.T) {
		current := newTestCodec(t)
		set := newEnvelopeSet(t, current, newTestCodec(t))
		repo := &mocks.MockAssetRepository{}
		expectPages(repo, set.all(), 2)

		uc := NewEncryptionUseCase(repo, current, nil)
		report, err := uc.Verify(ctx, MaintenanceOptions{BatchSize: 2})
		require.NoError(t, err)

		assert.Equal(t, current.Fingerprint(), report.KeyFingerprint)
		assert.Equal(t, 4, report.Scanned)
		assert.Equal(t, 1, report.Readable)
		assert.Equal(t, 2, report.Unreadable[cryptoDomain.ReasonAuthenticationFailed.String()])
		assert.Equal(t, 1, report.Unreadable[cryptoDomain.ReasonInvalidTagLength.String()])
		assert.Equal(t, 3, report.UnreadableTotal())
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_DefaultBatchSize", func(t *testing.T) {
		repo := &mocks.MockAssetRepository{}
		repo.On("ListEnvelopes", ctx, uuid.Nil, DefaultMaintenanceBatchSize).
			Return([]*domain.StoredEnvelope{}, nil).
			Once()

		report, err := NewEncryptionUseCase(repo, newTestCodec(t), nil).Verify(ctx, MaintenanceOptions{})
		require.NoError(t, err)
		assert.Zero(t, report.Scanned)
		repo.AssertExpectations(t)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		repo := &mocks.MockAssetRepository{}
		repo.On("ListEnvelopes", ctx, uuid.Nil, 10).Return(nil, errors.New("query failed"))

		report, err := NewEncryptionUseCase(repo, newTestCodec(t), nil).Verify(ctx, MaintenanceOptions{BatchSize: 10})
		assert.Nil(t, report)
		assert.EqualError(t, err, "query failed")
	})

	t.Run("Error_ContextCanceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		repo := &mocks.MockAssetRepository{}

		_, err := NewEncryptionUseCase(repo, newTestCodec(t), nil).Verify(canceled, MaintenanceOptions{})
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNotCalled(t, "ListEnvelopes", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEncryptionUseCase_Repair(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReplacesStructuralFailuresOnly", func(t *testing.T) {
		current := newTestCodec(t)
		set := newEnvelopeSet(t, current, newTestCodec(t))
		repo := &mocks.MockAssetRepository{}
		expectPages(repo, set.all(), 10)

		var repaired cryptoDomain.Envelope
		repo.On("UpdatePassword", ctx, set.structural.AssetID, mock.Anything).
			Run(func(args mock.Arguments) { repaired = args.Get(2).(cryptoDomain.Envelope) }).
			Return(nil).
			Once()

		report, err := NewEncryptionUseCase(repo, current, nil).Repair(ctx, MaintenanceOptions{BatchSize: 10})
		require.NoError(t, err)

		assert.Equal(t, 1, report.Repaired)
		assert.Equal(t, 1, report.Readable)
		assert.Equal(t, 2, report.Unreadable[cryptoDomain.ReasonAuthenticationFailed.String()])

		plaintext, ok := current.Decrypt(repaired).Plaintext()
		require.True(t, ok)
		assert.Equal(t, "", plaintext)
		repo.AssertExpectations(t)
	})

	t.Run("Success_DryRun", func(t *testing.T) {
		current := newTestCodec(t)
		set := newEnvelopeSet(t, current, newTestCodec(t))
		repo := &mocks.MockAssetRepository{}
		expectPages(repo, set.all(), 10)

		report, err := NewEncryptionUseCase(repo, current, nil).
			Repair(ctx, MaintenanceOptions{BatchSize: 10, DryRun: true})
		require.NoError(t, err)

		assert.True(t, report.DryRun)
		assert.Equal(t, 1, report.Repaired)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_UpdateFailed", func(t *testing.T) {
		current := newTestCodec(t)
		set := newEnvelopeSet(t, current, newTestCodec(t))
		repo := &mocks.MockAssetRepository{}
		expectPages(repo, set.all(), 10)
		repo.On("UpdatePassword", ctx, set.structural.AssetID, mock.Anything).Return(errors.New("update failed"))

		_, err := NewEncryptionUseCase(repo, current, nil).Repair(ctx, MaintenanceOptions{BatchSize: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "update failed")
	})
}

func TestEncryptionUseCase_Rotate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReencryptsOldEnvelopes", func(t *testing.T) {
		current := newTestCodec(t)
		old := newTestCodec(t)
		set := newEnvelopeSet(t, current, old)
		repo := &mocks.MockAssetRepository{}
		expectPages(repo, set.all(), 3)

		var rotated cryptoDomain.Envelope
		repo.On("UpdatePassword", ctx, set.old.AssetID, mock.Anything).
			Run(func(args mock.Arguments) { rotated = args.Get(2).(cryptoDomain.Envelope) }).
			Return(nil).
			Once()

		report, err := NewEncryptionUseCase(repo, current, nil).Rotate(ctx, RotateOptions{
			MaintenanceOptions: MaintenanceOptions{BatchSize: 3},
			OldCodec:           old,
			Limiter:            rate.NewLimiter(rate.Inf, 1),
		})
		require.NoError(t, err)

		assert.Equal(t, 4, report.Scanned)
		assert.Equal(t, 1, report.Rotated)
		assert.Equal(t, 1, report.Readable)
		assert.Equal(t, 1, report.Unreadable[cryptoDomain.ReasonAuthenticationFailed.String()])
		assert.Equal(t, 1, report.Unreadable[cryptoDomain.ReasonInvalidTagLength.String()])

		plaintext, ok := current.Decrypt(rotated).Plaintext()
		require.True(t, ok)
		assert.Equal(t, "old-secret", plaintext)
		assert.False(t, old.Decrypt(rotated).Readable())
		repo.AssertExpectations(t)
	})

	t.Run("Success_DryRun", func(t *testing.T) {
		current := newTestCodec(t)
		old := newTestCodec(t)
		set := newEnvelopeSet(t, current, old)
		repo := &mocks.MockAssetRepository{}
		expectPages(repo, set.all(), 10)

		report, err := NewEncryptionUseCase(repo, current, nil).Rotate(ctx, RotateOptions{
			MaintenanceOptions: MaintenanceOptions{BatchSize: 10, DryRun: true},
			OldCodec:           old,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Rotated)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingOldCodec", func(t *testing.T) {
		repo := &mocks.MockAssetRepository{}

		_, err := NewEncryptionUseCase(repo, newTestCodec(t), nil).Rotate(ctx, RotateOptions{})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		repo.AssertNotCalled(t, "ListEnvelopes", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_SameKey", func(t *testing.T) {
		current := newTestCodec(t)
		repo := &mocks.MockAssetRepository{}

		_, err := NewEncryptionUseCase(repo, current, nil).Rotate(ctx, RotateOptions{OldCodec: current})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "current key")
	})

	t.Run("Error_LimiterCanceled", func(t *testing.T) {
		current := newTestCodec(t)
		old := newTestCodec(t)
		set := newEnvelopeSet(t, current, old)
		repo := &mocks.MockAssetRepository{}

		canceled, cancel := context.WithCancel(ctx)
		defer cancel()
		repo.On("ListEnvelopes", mock.Anything, uuid.Nil, 10).
			Run(func(mock.Arguments) { cancel() }).
			Return(set.all(), nil)

		_, err := NewEncryptionUseCase(repo, current, nil).Rotate(canceled, RotateOptions{
			MaintenanceOptions: MaintenanceOptions{BatchSize: 10},
			OldCodec:           old,
			Limiter:            rate.NewLimiter(rate.Limit(1), 1),
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
