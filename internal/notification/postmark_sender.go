package notification

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/mrz1836/postmark"

	apperrors "github.com/allisson/assetvault/internal/errors"
)

// PostmarkSender delivers messages through the Postmark transactional API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

// NewPostmarkSender creates a PostmarkSender. Both tokens and a valid sender
// address are required.
func NewPostmarkSender(cfg SenderConfig) (*PostmarkSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, apperrors.Wrap(ErrInvalidConfig, "postmark server token is required")
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, apperrors.Wrap(ErrInvalidConfig, "postmark account token is required")
	}
	if _, err := mail.ParseAddress(cfg.SenderAddress); err != nil {
		return nil, apperrors.Wrap(ErrInvalidConfig, "sender address must be a valid e-mail address")
	}

	from := (&mail.Address{Name: cfg.SenderName, Address: cfg.SenderAddress}).String()

	return &PostmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:   from,
	}, nil
}

// Send implements Sender. Opens are tracked; links are not rewritten.
func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	to := msg.To
	if msg.ToName != "" {
		to = (&mail.Address{Name: msg.ToName, Address: msg.To}).String()
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.from,
		To:         to,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		TextBody:   msg.TextBody,
		HTMLBody:   msg.HTMLBody,
		TrackOpens: true,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to send e-mail")
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("failed to send e-mail: postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
