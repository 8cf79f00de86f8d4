package domain

// Sizes of the AES-256-GCM envelope components, in bytes after base64 decoding.
//
// The values are fixed by the storage format: every envelope ever written carries
// a 12-byte nonce and a 16-byte authentication tag, and the key is AES-256.
const (
	// KeySize is the length of the encryption key (AES-256).
	KeySize = 32

	// NonceSize is the length of the random GCM nonce stored in Envelope.IV.
	NonceSize = 12

	// TagSize is the length of the GCM authentication tag stored in Envelope.Tag.
	TagSize = 16
)

// Sentinel is the placeholder shown to API consumers instead of a secret that
// could not be decrypted. Clients compare against this exact string.
const Sentinel = "[Encrypted - Cannot Decrypt]"
