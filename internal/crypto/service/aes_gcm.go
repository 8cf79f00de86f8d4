package service

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
)

// AESGCMCodec implements SecretCodec using AES-256-GCM.
//
// Every envelope carries its own 12-byte random nonce and the 16-byte GCM tag is
// stored apart from the ciphertext. No additional authenticated data is used, so
// the envelope format matches rows written by earlier versions of the service.
//
// Decrypt checks the envelope shape before touching the cipher:
//  1. the tag must be valid base64 and decode to exactly 16 bytes
//  2. the IV must be valid base64 and decode to exactly 12 bytes
//  3. the ciphertext must be valid base64
//
// Only then is GCM authentication attempted. A short tag is never handed to the
// cipher, and a wrong-length nonce would make cipher.AEAD.Open panic.
//
// Thread safety:
//
//	The codec holds no mutable state after construction and is safe for
//	concurrent use. Each Encrypt call draws its own nonce.
//
// Example usage:
//
//	key, err := cryptoDomain.ParseEncryptionKey(cfg.EncryptionKey)
//	if err != nil {
//	    return err
//	}
//	codec, err := NewAESGCMCodec(key, WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	envelope, err := codec.Encrypt("ins2020idm#")
//	result := codec.Decrypt(envelope)
//	if plaintext, ok := result.Plaintext(); ok {
//	    // use plaintext
//	}
type AESGCMCodec struct {
	aead        cipher.AEAD
	fingerprint string
	logger      *slog.Logger
	observer    DecryptObserver
	random      io.Reader
}

// Option configures an AESGCMCodec.
type Option func(*AESGCMCodec)

// WithLogger sets the logger used for decryption failure warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *AESGCMCodec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDecryptObserver registers an observer for decryption outcomes.
func WithDecryptObserver(observer DecryptObserver) Option {
	return func(c *AESGCMCodec) {
		c.observer = observer
	}
}

// WithRandom replaces crypto/rand as the nonce source.
func WithRandom(r io.Reader) Option {
	return func(c *AESGCMCodec) {
		if r != nil {
			c.random = r
		}
	}
}

// NewAESGCMCodec creates a codec bound to key.
//
// The codec keeps its own expanded AES key, so the EncryptionKey may be closed
// once every codec that needs it has been built.
func NewAESGCMCodec(key *cryptoDomain.EncryptionKey, opts ...Option) (*AESGCMCodec, error) {
	if key == nil {
		return nil, cryptoDomain.ErrEncryptionKeyNotSet
	}

	aead, err := key.NewGCM()
	if err != nil {
		return nil, fmt.Errorf("failed to create secret codec: %w", err)
	}

	return newAESGCMCodec(aead, key.Fingerprint(), opts...)
}

func newAESGCMCodec(aead cipher.AEAD, fingerprint string, opts ...Option) (*AESGCMCodec, error) {
	if aead.NonceSize() != cryptoDomain.NonceSize || aead.Overhead() != cryptoDomain.TagSize {
		return nil, errors.New("secret codec requires a GCM cipher with 12-byte nonce and 16-byte tag")
	}

	c := &AESGCMCodec{
		aead:        aead,
		fingerprint: fingerprint,
		logger:      slog.New(slog.DiscardHandler),
		random:      rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Encrypt seals plaintext and returns the three base64 envelope fields.
//
// The empty string is a valid plaintext and produces an envelope with an empty
// CipherText and a regular IV and Tag.
func (c *AESGCMCodec) Encrypt(plaintext string) (cryptoDomain.Envelope, error) {
	nonce := make([]byte, cryptoDomain.NonceSize)
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(sealed) - cryptoDomain.TagSize

	return cryptoDomain.Envelope{
		CipherText: base64.StdEncoding.EncodeToString(sealed[:split]),
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Tag:        base64.StdEncoding.EncodeToString(sealed[split:]),
	}, nil
}

// Decrypt opens the envelope. Failures are logged at WARN with the reason and the
// key fingerprint, reported to the observer and returned as an unreadable result.
func (c *AESGCMCodec) Decrypt(envelope cryptoDomain.Envelope) cryptoDomain.DecryptResult {
	tag, err := decodeField(envelope.Tag)
	if err != nil {
		return c.fail(envelope, cryptoDomain.ReasonMalformedEncoding, "tag", err)
	}
	if len(tag) != cryptoDomain.TagSize {
		return c.fail(envelope, cryptoDomain.ReasonInvalidTagLength, "tag",
			fmt.Errorf("got %d bytes, want %d", len(tag), cryptoDomain.TagSize))
	}

	nonce, err := decodeField(envelope.IV)
	if err != nil {
		return c.fail(envelope, cryptoDomain.ReasonMalformedEncoding, "iv", err)
	}
	if len(nonce) != cryptoDomain.NonceSize {
		return c.fail(envelope, cryptoDomain.ReasonInvalidNonceLength, "iv",
			fmt.Errorf("got %d bytes, want %d", len(nonce), cryptoDomain.NonceSize))
	}

	ciphertext, err := decodeField(envelope.CipherText)
	if err != nil {
		return c.fail(envelope, cryptoDomain.ReasonMalformedEncoding, "cipher_text", err)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return c.fail(envelope, cryptoDomain.ReasonAuthenticationFailed, "", err)
	}

	c.observe(cryptoDomain.ReasonNone)
	return cryptoDomain.Decrypted(string(plaintext))
}

// Fingerprint returns the fingerprint of the key the codec was built with.
func (c *AESGCMCodec) Fingerprint() string {
	return c.fingerprint
}

func (c *AESGCMCodec) fail(
	envelope cryptoDomain.Envelope,
	reason cryptoDomain.FailureReason,
	field string,
	cause error,
) cryptoDomain.DecryptResult {
	attrs := []any{
		slog.String("reason", reason.String()),
		slog.Any("envelope", envelope),
		slog.String("key_fingerprint", c.fingerprint),
		slog.String("cause", cause.Error()),
	}
	if field != "" {
		attrs = append(attrs, slog.String("field", field))
	}
	c.logger.Warn("secret decryption failed", attrs...)

	c.observe(reason)
	return cryptoDomain.Unreadable(reason)
}

func (c *AESGCMCodec) observe(reason cryptoDomain.FailureReason) {
	if c.observer != nil {
		c.observer.ObserveDecrypt(reason)
	}
}

// decodeField decodes standard base64 and tolerates missing padding.
func decodeField(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
