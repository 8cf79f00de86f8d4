package domain

// FailureReason classifies why an envelope could not be decrypted.
//
// The external representation of every failure is the same Sentinel string; the
// reason is kept for logs, metrics and the encryption maintenance commands, which
// treat structurally broken envelopes differently from envelopes that merely fail
// authentication (for example, rows written under a previous key).
type FailureReason int

const (
	// ReasonNone is the reason carried by a successful result.
	ReasonNone FailureReason = iota

	// ReasonMalformedEncoding means a field is not valid base64.
	ReasonMalformedEncoding

	// ReasonInvalidTagLength means the decoded tag is not exactly TagSize bytes.
	// Decryption is never attempted in this case.
	ReasonInvalidTagLength

	// ReasonInvalidNonceLength means the decoded IV is not exactly NonceSize bytes.
	ReasonInvalidNonceLength

	// ReasonAuthenticationFailed means GCM rejected the envelope: wrong key,
	// tampered data or fields taken from different envelopes.
	ReasonAuthenticationFailed
)

// FailureReasons lists every failure reason, in declaration order.
var FailureReasons = []FailureReason{
	ReasonMalformedEncoding,
	ReasonInvalidTagLength,
	ReasonInvalidNonceLength,
	ReasonAuthenticationFailed,
}

// String returns the diagnostic code used in logs, metrics and reports.
func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformedEncoding:
		return "malformed_encoding"
	case ReasonInvalidTagLength:
		return "invalid_tag_length"
	case ReasonInvalidNonceLength:
		return "invalid_nonce_length"
	case ReasonAuthenticationFailed:
		return "authentication_failed"
	default:
		return "unknown"
	}
}

// Structural reports whether the envelope is unreadable under any key.
//
// Authentication failures are not structural: the same envelope may still open
// with the key it was written under.
func (r FailureReason) Structural() bool {
	switch r {
	case ReasonMalformedEncoding, ReasonInvalidTagLength, ReasonInvalidNonceLength:
		return true
	default:
		return false
	}
}

// DecryptResult is the outcome of decrypting an Envelope: either the recovered
// plaintext or the reason it could not be recovered.
//
// Callers get the plaintext through Plaintext, which forces the failure case to
// be handled. Display is reserved for the outer JSON boundary. The zero value is
// an unreadable result.
type DecryptResult struct {
	plaintext string
	ok        bool
	reason    FailureReason
}

// Decrypted builds a successful result.
func Decrypted(plaintext string) DecryptResult {
	return DecryptResult{plaintext: plaintext, ok: true}
}

// Unreadable builds a failed result.
func Unreadable(reason FailureReason) DecryptResult {
	return DecryptResult{reason: reason}
}

// Plaintext returns the decrypted secret and true, or "" and false on failure.
func (r DecryptResult) Plaintext() (string, bool) {
	if !r.ok {
		return "", false
	}
	return r.plaintext, true
}

// Readable reports whether decryption succeeded.
func (r DecryptResult) Readable() bool {
	return r.ok
}

// Reason returns the failure reason, or ReasonNone on success. A failed result
// built without a reason reports ReasonAuthenticationFailed.
func (r DecryptResult) Reason() FailureReason {
	if r.ok {
		return ReasonNone
	}
	if r.reason == ReasonNone {
		return ReasonAuthenticationFailed
	}
	return r.reason
}

// Display returns the plaintext, or Sentinel when the envelope is unreadable.
func (r DecryptResult) Display() string {
	if !r.ok {
		return Sentinel
	}
	return r.plaintext
}
