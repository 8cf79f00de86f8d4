package domain

import (
	"github.com/allisson/assetvault/internal/errors"
)

// Encryption key error definitions.
//
// All of them are start-up errors: the process refuses to run with a missing or
// malformed ENCRYPTION_KEY. They wrap errors.ErrInvalidInput so the CLI commands
// that accept keys as flags report them consistently.
var (
	// ErrEncryptionKeyNotSet indicates ENCRYPTION_KEY is empty.
	ErrEncryptionKeyNotSet = errors.Wrap(errors.ErrInvalidInput, "encryption key not set")

	// ErrInvalidEncryptionKeyBase64 indicates the configured key is not valid base64.
	ErrInvalidEncryptionKeyBase64 = errors.Wrap(errors.ErrInvalidInput, "invalid encryption key base64")

	// ErrInvalidKeySize indicates the decoded key is not exactly 32 bytes (AES-256).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeyClosed indicates the key material was already zeroed by Close.
	ErrKeyClosed = errors.New("encryption key closed")

	// ErrKMSKeyURIRequired indicates a KMS provider was configured without a key URI.
	ErrKMSKeyURIRequired = errors.Wrap(errors.ErrInvalidInput, "KMS_KEY_URI is required when KMS_PROVIDER is set")

	// ErrUnsupportedKMSProvider indicates KMS_PROVIDER names no known keeper.
	ErrUnsupportedKMSProvider = errors.Wrap(errors.ErrInvalidInput, "unsupported KMS provider")

	// ErrKMSProviderMismatch indicates KMS_KEY_URI uses a scheme of another provider.
	ErrKMSProviderMismatch = errors.Wrap(errors.ErrInvalidInput, "KMS_KEY_URI does not match KMS_PROVIDER")
)
