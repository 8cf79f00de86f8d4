package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/allisson/assetvault/internal/asset/domain"
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
	cryptoService "github.com/allisson/assetvault/internal/crypto/service"
	apperrors "github.com/allisson/assetvault/internal/errors"
)

// DefaultMaintenanceBatchSize is used when MaintenanceOptions.BatchSize is not positive.
const DefaultMaintenanceBatchSize = 100

// MaintenanceOptions configures Verify and Repair.
type MaintenanceOptions struct {
	BatchSize int
	// DryRun reports what would change without writing.
	DryRun bool
}

// RotateOptions configures Rotate.
type RotateOptions struct {
	MaintenanceOptions

	// OldCodec opens envelopes written under the previous key.
	OldCodec cryptoService.SecretCodec

	// Limiter throttles rewritten rows. Nil means unlimited.
	Limiter *rate.Limiter
}

// EncryptionReport summarizes a maintenance run. Unreadable counts envelopes that
// were left unreadable, keyed by failure reason code.
type EncryptionReport struct {
	KeyFingerprint string         `json:"key_fingerprint"`
	DryRun         bool           `json:"dry_run"`
	Scanned        int            `json:"scanned"`
	Readable       int            `json:"readable"`
	Unreadable     map[string]int `json:"unreadable"`
	Repaired       int            `json:"repaired,omitempty"`
	Rotated        int            `json:"rotated,omitempty"`
}

// UnreadableTotal returns the number of envelopes left unreadable.
func (r *EncryptionReport) UnreadableTotal() int {
	total := 0
	for _, n := range r.Unreadable {
		total += n
	}
	return total
}

func newReport(fingerprint string, dryRun bool) *EncryptionReport {
	return &EncryptionReport{
		KeyFingerprint: fingerprint,
		DryRun:         dryRun,
		Unreadable:     make(map[string]int),
	}
}

func (r *EncryptionReport) unreadable(reason cryptoDomain.FailureReason) {
	r.Unreadable[reason.String()]++
}

type encryptionUseCase struct {
	envelopeRepo EnvelopeRepository
	codec        cryptoService.SecretCodec
	logger       *slog.Logger
}

// NewEncryptionUseCase creates an EncryptionUseCase working with the current codec.
func NewEncryptionUseCase(
	envelopeRepo EnvelopeRepository,
	codec cryptoService.SecretCodec,
	logger *slog.Logger,
) EncryptionUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &encryptionUseCase{
		envelopeRepo: envelopeRepo,
		codec:        codec,
		logger:       logger,
	}
}

// Verify decrypts every stored envelope and counts the outcomes.
func (e *encryptionUseCase) Verify(ctx context.Context, opts MaintenanceOptions) (*EncryptionReport, error) {
	report := newReport(e.codec.Fingerprint(), opts.DryRun)

	err := e.scan(ctx, opts.BatchSize, func(stored *domain.StoredEnvelope) error {
		result := e.codec.Decrypt(stored.Envelope)
		if result.Readable() {
			report.Readable++
		} else {
			report.unreadable(result.Reason())
		}
		return nil
	}, report)
	if err != nil {
		return nil, err
	}

	e.logger.Info("encryption verification finished", reportAttrs(report)...)
	return report, nil
}

// Repair replaces structurally invalid envelopes with an encryption of the
// empty string. Envelopes that fail authentication are left alone since they
// may still open with a previous key.
func (e *encryptionUseCase) Repair(ctx context.Context, opts MaintenanceOptions) (*EncryptionReport, error) {
	report := newReport(e.codec.Fingerprint(), opts.DryRun)

	err := e.scan(ctx, opts.BatchSize, func(stored *domain.StoredEnvelope) error {
		result := e.codec.Decrypt(stored.Envelope)
		if result.Readable() {
			report.Readable++
			return nil
		}

		reason := result.Reason()
		if !reason.Structural() {
			report.unreadable(reason)
			return nil
		}

		e.logger.Warn("repairing asset password envelope",
			slog.String("asset_id", stored.AssetID.String()),
			slog.String("reason", reason.String()),
			slog.Bool("dry_run", opts.DryRun),
		)
		if !opts.DryRun {
			if err := e.reseal(ctx, stored.AssetID, ""); err != nil {
				return err
			}
		}
		report.Repaired++
		return nil
	}, report)
	if err != nil {
		return nil, err
	}

	e.logger.Info("encryption repair finished", reportAttrs(report)...)
	return report, nil
}

// Rotate re-encrypts under the current key every envelope the old codec can open.
// Envelopes already readable under the current key are counted as readable and
// left as they are.
func (e *encryptionUseCase) Rotate(ctx context.Context, opts RotateOptions) (*EncryptionReport, error) {
	if opts.OldCodec == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "old key is required")
	}
	if opts.OldCodec.Fingerprint() == e.codec.Fingerprint() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "old key is the current key")
	}

	report := newReport(e.codec.Fingerprint(), opts.DryRun)

	err := e.scan(ctx, opts.BatchSize, func(stored *domain.StoredEnvelope) error {
		old := opts.OldCodec.Decrypt(stored.Envelope)
		plaintext, ok := old.Plaintext()
		if !ok {
			current := e.codec.Decrypt(stored.Envelope)
			if current.Readable() {
				report.Readable++
			} else {
				report.unreadable(current.Reason())
			}
			return nil
		}

		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if !opts.DryRun {
			if err := e.reseal(ctx, stored.AssetID, plaintext); err != nil {
				return err
			}
		}
		report.Rotated++
		return nil
	}, report)
	if err != nil {
		return nil, err
	}

	e.logger.Info("encryption key rotation finished",
		append(reportAttrs(report), slog.String("old_key_fingerprint", opts.OldCodec.Fingerprint()))...)
	return report, nil
}

func (e *encryptionUseCase) reseal(ctx context.Context, assetID uuid.UUID, plaintext string) error {
	envelope, err := e.codec.Encrypt(plaintext)
	if err != nil {
		return apperrors.Wrap(err, "failed to encrypt asset password")
	}
	if err := e.envelopeRepo.UpdatePassword(ctx, assetID, envelope); err != nil {
		return apperrors.Wrapf(err, "failed to update password of asset %s", assetID)
	}
	return nil
}

// scan walks all envelopes in asset id order, batchSize rows at a time.
func (e *encryptionUseCase) scan(
	ctx context.Context,
	batchSize int,
	fn func(*domain.StoredEnvelope) error,
	report *EncryptionReport,
) error {
	if batchSize <= 0 {
		batchSize = DefaultMaintenanceBatchSize
	}

	afterID := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := e.envelopeRepo.ListEnvelopes(ctx, afterID, batchSize)
		if err != nil {
			return err
		}

		for _, stored := range batch {
			report.Scanned++
			if err := fn(stored); err != nil {
				return err
			}
		}

		if len(batch) < batchSize {
			return nil
		}
		afterID = batch[len(batch)-1].AssetID
		e.logger.Debug("encryption batch processed",
			slog.Int("scanned", report.Scanned),
			slog.String("after_id", afterID.String()),
		)
	}
}

func reportAttrs(r *EncryptionReport) []any {
	return []any{
		slog.String("key_fingerprint", r.KeyFingerprint),
		slog.Bool("dry_run", r.DryRun),
		slog.Int("scanned", r.Scanned),
		slog.Int("readable", r.Readable),
		slog.Int("unreadable", r.UnreadableTotal()),
		slog.Int("repaired", r.Repaired),
		slog.Int("rotated", r.Rotated),
	}
}
