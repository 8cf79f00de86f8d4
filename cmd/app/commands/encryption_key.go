package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
	cryptoService "github.com/allisson/assetvault/internal/crypto/service"
)

// RunCreateEncryptionKey prints a fresh AES-256 key for ENCRYPTION_KEY.
//
// When kmsProvider and kmsKeyURI are both set the key is wrapped by the KMS
// keeper and the printed value is the base64 KMS ciphertext. When both are empty
// the raw key is printed base64 encoded. Setting only one of them is an error.
//
// Output format:
//   - ENCRYPTION_KEY="<base64>"
//   - KMS_PROVIDER="<provider>" and KMS_KEY_URI="<uri>" in KMS mode
//
// Security: Never use localsecrets provider in production.
func RunCreateEncryptionKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf(
			"--kms-provider and --kms-key-uri must be used together\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"",
		)
	}

	var keeper cryptoDomain.KMSKeeper
	if kmsProvider != "" {
		if err := cryptoService.ValidateKMSConfig(kmsProvider, kmsKeyURI); err != nil {
			return err
		}

		var err error
		keeper, err = kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()
	}

	generated, err := cryptoDomain.GenerateEncryptionKey(ctx, keeper)
	if err != nil {
		return err
	}

	logger.Info("encryption key generated",
		slog.String("fingerprint", generated.Fingerprint),
		slog.Bool("kms", keeper != nil),
	)

	_, _ = fmt.Fprintln(writer, "# Encryption Key Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "# Fingerprint: %s\n", generated.Fingerprint)
	_, _ = fmt.Fprintln(writer)
	if keeper != nil {
		_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", generated.Encoded)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# When replacing an existing key, run rotate-encryption-key --old-key <previous ENCRYPTION_KEY>")

	return nil
}
