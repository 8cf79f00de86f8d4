package domain

import "log/slog"

// Envelope is the stored form of an encrypted secret.
//
// All three fields are standard base64 strings and are persisted as independent
// text columns. They are produced together by a single Encrypt call and must be
// supplied back verbatim; mixing fields from different envelopes fails
// authentication.
//
// Fields:
//   - CipherText: AES-256-GCM ciphertext without the tag (same length as the plaintext)
//   - IV: the 12-byte nonce used for this encryption
//   - Tag: the 16-byte GCM authentication tag
type Envelope struct {
	CipherText string
	IV         string
	Tag        string
}

// IsZero reports whether no field of the envelope is set.
func (e Envelope) IsZero() bool {
	return e.CipherText == "" && e.IV == "" && e.Tag == ""
}

// LogValue renders only the encoded field lengths so an envelope can be passed to
// a logger without leaking ciphertext.
func (e Envelope) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("cipher_text_len", len(e.CipherText)),
		slog.Int("iv_len", len(e.IV)),
		slog.Int("tag_len", len(e.Tag)),
	)
}
