package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/time/rate"

	assetUsecase "github.com/allisson/assetvault/internal/asset/usecase"
	cryptoService "github.com/allisson/assetvault/internal/crypto/service"
)

// RunVerifyEncryption scans every stored asset password and reports how many
// decrypt with the current key, with unreadable envelopes counted per reason.
// It never modifies data.
func RunVerifyEncryption(
	ctx context.Context,
	encryptionUseCase assetUsecase.EncryptionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	batchSize int,
	format string,
) error {
	if err := validateMaintenanceFlags(batchSize, format); err != nil {
		return err
	}

	logger.Info("verifying asset encryption", slog.Int("batch_size", batchSize))

	report, err := encryptionUseCase.Verify(ctx, assetUsecase.MaintenanceOptions{BatchSize: batchSize})
	if err != nil {
		return fmt.Errorf("failed to verify encryption: %w", err)
	}

	logReport(logger, "verification completed", report)
	return outputReport(writer, "Verification", report, format)
}

// RunRepairEncryption replaces structurally invalid envelopes with an
// encryption of the empty string. Authentication failures are left alone since
// they may belong to a previous key.
func RunRepairEncryption(
	ctx context.Context,
	encryptionUseCase assetUsecase.EncryptionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	batchSize int,
	dryRun bool,
	format string,
) error {
	if err := validateMaintenanceFlags(batchSize, format); err != nil {
		return err
	}

	logger.Info("repairing asset encryption",
		slog.Int("batch_size", batchSize),
		slog.Bool("dry_run", dryRun),
	)

	report, err := encryptionUseCase.Repair(ctx, assetUsecase.MaintenanceOptions{
		BatchSize: batchSize,
		DryRun:    dryRun,
	})
	if err != nil {
		return fmt.Errorf("failed to repair encryption: %w", err)
	}

	logReport(logger, "repair completed", report)
	return outputReport(writer, "Repair", report, format)
}

// RunRotateEncryptionKey re-encrypts every envelope readable under oldCodec with
// the current key. ratePerSecond > 0 throttles rewritten rows per second.
func RunRotateEncryptionKey(
	ctx context.Context,
	encryptionUseCase assetUsecase.EncryptionUseCase,
	oldCodec cryptoService.SecretCodec,
	logger *slog.Logger,
	writer io.Writer,
	ratePerSecond float64,
	batchSize int,
	dryRun bool,
	format string,
) error {
	if err := validateMaintenanceFlags(batchSize, format); err != nil {
		return err
	}
	if ratePerSecond < 0 {
		return fmt.Errorf("rate must not be negative, got: %v", ratePerSecond)
	}
	if oldCodec == nil {
		return fmt.Errorf("--old-key is required")
	}

	opts := assetUsecase.RotateOptions{
		MaintenanceOptions: assetUsecase.MaintenanceOptions{BatchSize: batchSize, DryRun: dryRun},
		OldCodec:           oldCodec,
	}
	if ratePerSecond > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}

	logger.Info("rotating encryption key",
		slog.String("old_key_fingerprint", oldCodec.Fingerprint()),
		slog.Float64("rate", ratePerSecond),
		slog.Bool("dry_run", dryRun),
	)

	report, err := encryptionUseCase.Rotate(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to rotate encryption key: %w", err)
	}

	logReport(logger, "rotation completed", report)
	return outputReport(writer, "Rotation", report, format)
}

func validateMaintenanceFlags(batchSize int, format string) error {
	if batchSize < 0 {
		return fmt.Errorf("batch size must be a positive number, got: %d", batchSize)
	}
	return validateFormat(format)
}

func logReport(logger *slog.Logger, msg string, report *assetUsecase.EncryptionReport) {
	logger.Info(msg,
		slog.String("key_fingerprint", report.KeyFingerprint),
		slog.Int("scanned", report.Scanned),
		slog.Int("readable", report.Readable),
		slog.Int("unreadable", report.UnreadableTotal()),
		slog.Int("repaired", report.Repaired),
		slog.Int("rotated", report.Rotated),
		slog.Bool("dry_run", report.DryRun),
	)
}

func outputReport(writer io.Writer, title string, report *assetUsecase.EncryptionReport, format string) error {
	if format == "json" {
		return writeJSON(writer, report)
	}

	if report.DryRun {
		_, _ = fmt.Fprintf(writer, "%s (dry-run)\n", title)
	} else {
		_, _ = fmt.Fprintln(writer, title)
	}
	_, _ = fmt.Fprintf(writer, "Key fingerprint: %s\n", report.KeyFingerprint)
	_, _ = fmt.Fprintf(writer, "Scanned: %d\n", report.Scanned)
	_, _ = fmt.Fprintf(writer, "Readable: %d\n", report.Readable)
	_, _ = fmt.Fprintf(writer, "Unreadable: %d\n", report.UnreadableTotal())

	reasons := make([]string, 0, len(report.Unreadable))
	for reason := range report.Unreadable {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		_, _ = fmt.Fprintf(writer, "  %s: %d\n", reason, report.Unreadable[reason])
	}

	if report.Repaired > 0 {
		_, _ = fmt.Fprintf(writer, "Repaired: %d\n", report.Repaired)
	}
	if report.Rotated > 0 {
		_, _ = fmt.Fprintf(writer, "Rotated: %d\n", report.Rotated)
	}
	return nil
}
