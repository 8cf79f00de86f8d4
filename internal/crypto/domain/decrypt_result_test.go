package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecryptResult(t *testing.T) {
	t.Run("decrypted result exposes plaintext", func(t *testing.T) {
		result := Decrypted("ins2020idm#")

		plaintext, ok := result.Plaintext()
		assert.True(t, ok)
		assert.Equal(t, "ins2020idm#", plaintext)
		assert.True(t, result.Readable())
		assert.Equal(t, ReasonNone, result.Reason())
		assert.Equal(t, "ins2020idm#", result.Display())
	})

	t.Run("decrypted empty string is readable", func(t *testing.T) {
		result := Decrypted("")

		plaintext, ok := result.Plaintext()
		assert.True(t, ok)
		assert.Empty(t, plaintext)
		assert.Equal(t, "", result.Display())
	})

	t.Run("unreadable result hides plaintext behind sentinel", func(t *testing.T) {
		result := Unreadable(ReasonInvalidTagLength)

		plaintext, ok := result.Plaintext()
		assert.False(t, ok)
		assert.Empty(t, plaintext)
		assert.False(t, result.Readable())
		assert.Equal(t, ReasonInvalidTagLength, result.Reason())
		assert.Equal(t, "[Encrypted - Cannot Decrypt]", result.Display())
	})

	t.Run("zero value is unreadable", func(t *testing.T) {
		var result DecryptResult

		assert.False(t, result.Readable())
		assert.Equal(t, ReasonAuthenticationFailed, result.Reason())
		assert.Equal(t, Sentinel, result.Display())
	})

	t.Run("unreadable without reason reports authentication failure", func(t *testing.T) {
		result := Unreadable(ReasonNone)

		assert.False(t, result.Readable())
		assert.Equal(t, ReasonAuthenticationFailed, result.Reason())
	})
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		reason     FailureReason
		code       string
		structural bool
	}{
		{ReasonNone, "none", false},
		{ReasonMalformedEncoding, "malformed_encoding", true},
		{ReasonInvalidTagLength, "invalid_tag_length", true},
		{ReasonInvalidNonceLength, "invalid_nonce_length", true},
		{ReasonAuthenticationFailed, "authentication_failed", false},
		{FailureReason(99), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.reason.String())
			assert.Equal(t, tt.structural, tt.reason.Structural())
		})
	}

	assert.Len(t, FailureReasons, 4)
	assert.NotContains(t, FailureReasons, ReasonNone)
}

func TestEnvelope(t *testing.T) {
	t.Run("is zero", func(t *testing.T) {
		assert.True(t, Envelope{}.IsZero())
		assert.False(t, Envelope{Tag: "x"}.IsZero())
	})

	t.Run("log value exposes only lengths", func(t *testing.T) {
		env := Envelope{CipherText: "c2VjcmV0", IV: "aXZpdml2aXZpdml2", Tag: "dGFn"}

		value := env.LogValue().String()
		assert.NotContains(t, value, env.CipherText)
		assert.NotContains(t, value, env.IV)
		assert.Contains(t, value, "cipher_text_len=8")
		assert.Contains(t, value, "iv_len=16")
		assert.Contains(t, value, "tag_len=4")
	})
}
