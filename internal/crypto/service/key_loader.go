package service

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
)

// KeySource describes where the encryption key comes from.
type KeySource struct {
	// Encoded is the ENCRYPTION_KEY value.
	Encoded string
	// KMSProvider names the KMS in use; empty means Encoded is a plain base64 key.
	KMSProvider string
	// KMSKeyURI is the keeper URI used to unwrap Encoded.
	KMSKeyURI string
}

// LoadEncryptionKey decodes the configured key, unwrapping it through the KMS
// when a provider is configured. Any error is fatal at start-up.
func LoadEncryptionKey(
	ctx context.Context,
	kms KMSService,
	source KeySource,
	logger *slog.Logger,
) (*cryptoDomain.EncryptionKey, error) {
	if source.KMSProvider == "" {
		key, err := cryptoDomain.ParseEncryptionKey(source.Encoded)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Info("encryption key loaded", slog.Any("key", key))
		}
		return key, nil
	}

	if err := ValidateKMSConfig(source.KMSProvider, source.KMSKeyURI); err != nil {
		return nil, err
	}

	keeper, err := kms.OpenKeeper(ctx, source.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && logger != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	key, err := cryptoDomain.ParseWrappedEncryptionKey(ctx, keeper, source.Encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to load encryption key from %s: %w", source.KMSProvider, err)
	}

	if logger != nil {
		logger.Info("encryption key loaded",
			slog.Any("key", key),
			slog.String("kms_provider", source.KMSProvider),
		)
	}
	return key, nil
}
