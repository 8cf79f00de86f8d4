package domain

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/hkdf"
)

const fingerprintInfo = "assetvault encryption key fingerprint"

// EncryptionKey is the AES-256 key that protects every stored asset secret.
//
// The raw bytes never leave this package: the key hands out a ready AES-GCM
// cipher.AEAD through NewGCM and identifies itself with a short, non-reversible
// fingerprint. String and LogValue print only the fingerprint, so the key can be
// passed to fmt or slog safely.
//
// Thread safety: NewGCM, Fingerprint, String and LogValue are safe for concurrent
// use. Close must not race with NewGCM.
type EncryptionKey struct {
	mu          sync.RWMutex
	key         []byte
	fingerprint string
}

// NewEncryptionKey builds a key from raw bytes. The input is copied, so the
// caller may zero it afterwards.
//
// Returns ErrInvalidKeySize unless raw is exactly KeySize bytes.
func NewEncryptionKey(raw []byte) (*EncryptionKey, error) {
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(raw), KeySize)
	}

	key := make([]byte, KeySize)
	copy(key, raw)

	fp, err := fingerprint(key)
	if err != nil {
		Zero(key)
		return nil, err
	}

	return &EncryptionKey{key: key, fingerprint: fp}, nil
}

// ParseEncryptionKey decodes a base64 (standard alphabet) key as found in the
// ENCRYPTION_KEY configuration value.
//
// Returns:
//   - ErrEncryptionKeyNotSet if encoded is empty
//   - ErrInvalidEncryptionKeyBase64 if decoding fails
//   - ErrInvalidKeySize if the decoded key is not 32 bytes
func ParseEncryptionKey(encoded string) (*EncryptionKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrEncryptionKeyNotSet
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncryptionKeyBase64, err)
	}
	defer Zero(raw)

	return NewEncryptionKey(raw)
}

// ParseWrappedEncryptionKey decodes a base64 KMS ciphertext, unwraps it with the
// keeper and builds the key from the result.
func ParseWrappedEncryptionKey(
	ctx context.Context,
	keeper KMSKeeper,
	encoded string,
) (*EncryptionKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrEncryptionKeyNotSet
	}

	wrapped, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncryptionKeyBase64, err)
	}

	raw, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt encryption key with KMS: %w", err)
	}
	defer Zero(raw)

	return NewEncryptionKey(raw)
}

// GeneratedKey is a freshly generated encryption key in its configuration form.
type GeneratedKey struct {
	// Encoded is the value for ENCRYPTION_KEY: base64 of the raw key, or base64 of
	// the KMS ciphertext when a keeper was used.
	Encoded string
	// Fingerprint identifies the key in logs and reports.
	Fingerprint string
}

// GenerateEncryptionKey creates a random 32-byte key. When keeper is not nil the
// key is wrapped by the KMS before encoding. The raw key is zeroed before return.
func GenerateEncryptionKey(ctx context.Context, keeper KMSKeeper) (GeneratedKey, error) {
	raw := make([]byte, KeySize)
	defer Zero(raw)

	if _, err := rand.Read(raw); err != nil {
		return GeneratedKey{}, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	fp, err := fingerprint(raw)
	if err != nil {
		return GeneratedKey{}, err
	}

	if keeper == nil {
		return GeneratedKey{Encoded: base64.StdEncoding.EncodeToString(raw), Fingerprint: fp}, nil
	}

	wrapped, err := keeper.Encrypt(ctx, raw)
	if err != nil {
		return GeneratedKey{}, fmt.Errorf("failed to encrypt encryption key with KMS: %w", err)
	}

	return GeneratedKey{Encoded: base64.StdEncoding.EncodeToString(wrapped), Fingerprint: fp}, nil
}

// NewGCM returns an AES-256-GCM AEAD with the standard 12-byte nonce and 16-byte tag.
func (k *EncryptionKey) NewGCM() (cipher.AEAD, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.key == nil {
		return nil, ErrKeyClosed
	}

	block, err := aes.NewCipher(k.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aead, nil
}

// Fingerprint returns a short hex identifier derived from the key with HKDF-SHA256.
// Two processes configured with the same key report the same fingerprint.
func (k *EncryptionKey) Fingerprint() string {
	return k.fingerprint
}

// Equal reports whether both keys share the same fingerprint.
func (k *EncryptionKey) Equal(other *EncryptionKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.fingerprint == other.fingerprint
}

// Close zeroes the key material. AEADs already handed out keep working.
func (k *EncryptionKey) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()

	Zero(k.key)
	k.key = nil
}

// String implements fmt.Stringer without exposing key material.
func (k *EncryptionKey) String() string {
	return "EncryptionKey(" + k.fingerprint + ")"
}

// LogValue implements slog.LogValuer without exposing key material.
func (k *EncryptionKey) LogValue() slog.Value {
	return slog.GroupValue(slog.String("fingerprint", k.fingerprint))
}

func fingerprint(key []byte) (string, error) {
	out := make([]byte, 8)
	reader := hkdf.New(sha256.New, key, nil, []byte(fingerprintInfo))
	if _, err := io.ReadFull(reader, out); err != nil {
		return "", fmt.Errorf("failed to derive key fingerprint: %w", err)
	}
	return hex.EncodeToString(out), nil
}
