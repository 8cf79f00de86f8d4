package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/assetvault/internal/errors"
)

func validPostmarkConfig() SenderConfig {
	return SenderConfig{
		Provider:             ProviderPostmark,
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderAddress:        "notifications@acme.com",
		SenderName:           "Asset Management Notifications",
	}
}

func TestNewSender(t *testing.T) {
	t.Run("Success_DefaultsToLog", func(t *testing.T) {
		sender, err := NewSender(SenderConfig{}, nil)
		require.NoError(t, err)
		assert.IsType(t, &LogSender{}, sender)
	})

	t.Run("Success_Postmark", func(t *testing.T) {
		sender, err := NewSender(validPostmarkConfig(), nil)
		require.NoError(t, err)
		assert.IsType(t, &PostmarkSender{}, sender)
	})

	t.Run("Error_UnknownProvider", func(t *testing.T) {
		_, err := NewSender(SenderConfig{Provider: "smtp"}, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	tests := []struct {
		name   string
		mutate func(*SenderConfig)
	}{
		{name: "missing server token", mutate: func(c *SenderConfig) { c.PostmarkServerToken = "" }},
		{name: "missing account token", mutate: func(c *SenderConfig) { c.PostmarkAccountToken = "" }},
		{name: "invalid sender", mutate: func(c *SenderConfig) { c.SenderAddress = "notifications" }},
	}
	for _, tt := range tests {
		t.Run("Error_Postmark_"+tt.name, func(t *testing.T) {
			cfg := validPostmarkConfig()
			tt.mutate(&cfg)

			_, err := NewSender(cfg, nil)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := sender.Send(context.Background(), Message{To: "ayse@acme.com", Subject: "hello", TextBody: "body"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"to":"ayse@acme.com"`)
	assert.Contains(t, buf.String(), `"subject":"hello"`)
}

func newPostmarkTestSender(t *testing.T, handler http.HandlerFunc) *PostmarkSender {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sender, err := NewPostmarkSender(validPostmarkConfig())
	require.NoError(t, err)
	sender.client.BaseURL = server.URL
	return sender
}

func TestPostmarkSender_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		var received map[string]any
		var token string
		sender := newPostmarkTestSender(t, func(w http.ResponseWriter, r *http.Request) {
			token = r.Header.Get("X-Postmark-Server-Token")
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"To":"ayse@acme.com","MessageID":"abc","ErrorCode":0,"Message":"OK"}`))
		})

		err := sender.Send(ctx, Message{
			To:       "ayse@acme.com",
			ToName:   "Ayse Yilmaz",
			Subject:  "Security Alert: Password Updated for https://acme.com",
			TextBody: "text",
			HTMLBody: "<p>html</p>",
			Tag:      "password-changed",
		})
		require.NoError(t, err)

		assert.Equal(t, "server-token", token)
		assert.Equal(t, `"Asset Management Notifications" <notifications@acme.com>`, received["From"])
		assert.Equal(t, `"Ayse Yilmaz" <ayse@acme.com>`, received["To"])
		assert.Equal(t, "Security Alert: Password Updated for https://acme.com", received["Subject"])
		assert.Equal(t, "password-changed", received["Tag"])
		assert.Equal(t, "text", received["TextBody"])
	})

	t.Run("Error_PostmarkErrorCode", func(t *testing.T) {
		sender := newPostmarkTestSender(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ErrorCode":406,"Message":"Inactive recipient"}`))
		})

		err := sender.Send(ctx, Message{To: "ayse@acme.com", Subject: "s", TextBody: "t"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "406")
	})
}
