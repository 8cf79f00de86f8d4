// Package service provides the AES-256-GCM secret codec used to store asset
// credentials, plus KMS helpers for loading the encryption key.
package service

import (
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
)

// SecretCodec encrypts secrets into envelopes and decrypts them back.
type SecretCodec interface {
	// Encrypt seals plaintext under a fresh random nonce. It fails only when the
	// randomness source fails.
	Encrypt(plaintext string) (cryptoDomain.Envelope, error)

	// Decrypt opens an envelope. It never fails: unreadable envelopes produce an
	// unreadable DecryptResult.
	Decrypt(envelope cryptoDomain.Envelope) cryptoDomain.DecryptResult

	// Fingerprint identifies the key the codec encrypts with.
	Fingerprint() string
}

// DecryptObserver is notified of every decryption outcome. ReasonNone signals
// success. Implementations must be safe for concurrent use.
type DecryptObserver interface {
	ObserveDecrypt(reason cryptoDomain.FailureReason)
}
