// Package notification sends e-mail notifications for asset events.
package notification

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/allisson/assetvault/internal/errors"
)

// Supported e-mail providers.
const (
	ProviderLog      = "log"
	ProviderPostmark = "postmark"
)

// ErrInvalidConfig indicates the sender configuration is incomplete.
var ErrInvalidConfig = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid e-mail sender configuration")

// Message is a single e-mail.
type Message struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
	Tag      string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderConfig selects and configures a Sender.
type SenderConfig struct {
	Provider             string
	PostmarkServerToken  string
	PostmarkAccountToken string
	SenderAddress        string
	SenderName           string
}

// NewSender builds the Sender named by cfg.Provider.
func NewSender(cfg SenderConfig, logger *slog.Logger) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderLog:
		return NewLogSender(logger), nil
	case ProviderPostmark:
		return NewPostmarkSender(cfg)
	default:
		return nil, apperrors.Wrapf(ErrInvalidConfig, "unknown provider %q", cfg.Provider)
	}
}
