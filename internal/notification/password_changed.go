package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/google/uuid"

	assetDomain "github.com/allisson/assetvault/internal/asset/domain"
	apperrors "github.com/allisson/assetvault/internal/errors"
	outboxDomain "github.com/allisson/assetvault/internal/outbox/domain"
	userDomain "github.com/allisson/assetvault/internal/user/domain"
)

const unknownUserName = "Someone"

// UserRepository is the subset of the user repository notifications depend on.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
}

var passwordChangedHTML = template.Must(template.New("password_changed").Parse(`<h1>Security Alert</h1>
<p>A password has been changed for one of your assets.</p>
<p>Hi <strong>{{.Responsible}}</strong>,</p>
<p><strong>{{.Changer}}</strong> has updated the password for one of your managed assets.</p>
<h3>Asset URL</h3>
<p>{{.URL}}</p>
<h3>Username</h3>
<p>{{.Username}}</p>
<h3>Changed By</h3>
<p>{{.Changer}}</p>
<p>If you did not expect this change, please review immediately and contact your administrator.</p>
`))

type passwordChangedView struct {
	Responsible string
	Changer     string
	URL         string
	Username    string
}

// PasswordChangedHandler e-mails the responsible user of an asset when its
// password is replaced. It handles assetDomain.EventPasswordChanged events.
type PasswordChangedHandler struct {
	userRepo   UserRepository
	sender     Sender
	senderName string
	logger     *slog.Logger
}

// NewPasswordChangedHandler creates a PasswordChangedHandler. senderName signs
// the plain text body.
func NewPasswordChangedHandler(
	userRepo UserRepository,
	sender Sender,
	senderName string,
	logger *slog.Logger,
) *PasswordChangedHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PasswordChangedHandler{
		userRepo:   userRepo,
		sender:     sender,
		senderName: senderName,
		logger:     logger,
	}
}

// Handle decodes the event and sends the notification. Events without a
// responsible user, or whose responsible user no longer exists, are dropped.
// A payload that cannot be decoded is reported as invalid input so the event
// is not retried.
func (h *PasswordChangedHandler) Handle(ctx context.Context, event *outboxDomain.Event) error {
	var payload assetDomain.PasswordChangedEvent
	if err := event.DecodePayload(&payload); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid %s payload: %v", event.EventType, err)
	}

	if payload.ResponsibleUserID == nil {
		h.logger.Debug("password change without responsible user, skipping notification",
			slog.String("asset_id", payload.AssetID.String()))
		return nil
	}

	responsible, err := h.userRepo.GetByID(ctx, *payload.ResponsibleUserID)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			h.logger.Warn("responsible user not found, skipping notification",
				slog.String("asset_id", payload.AssetID.String()),
				slog.String("user_id", payload.ResponsibleUserID.String()),
			)
			return nil
		}
		return err
	}

	changer, err := h.changerName(ctx, payload.ChangedByID)
	if err != nil {
		return err
	}

	msg, err := h.buildMessage(responsible, changer, payload)
	if err != nil {
		return err
	}

	if err := h.sender.Send(ctx, msg); err != nil {
		return err
	}

	h.logger.Info("password change notification sent",
		slog.String("asset_id", payload.AssetID.String()),
		slog.String("user_id", responsible.ID.String()),
	)
	return nil
}

func (h *PasswordChangedHandler) changerName(ctx context.Context, id *uuid.UUID) (string, error) {
	if id == nil {
		return unknownUserName, nil
	}
	user, err := h.userRepo.GetByID(ctx, *id)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return unknownUserName, nil
		}
		return "", err
	}
	return user.Name, nil
}

func (h *PasswordChangedHandler) buildMessage(
	responsible *userDomain.User,
	changer string,
	payload assetDomain.PasswordChangedEvent,
) (Message, error) {
	view := passwordChangedView{
		Responsible: responsible.Name,
		Changer:     changer,
		URL:         payload.URL,
		Username:    payload.Username,
	}

	var html bytes.Buffer
	if err := passwordChangedHTML.Execute(&html, view); err != nil {
		return Message{}, apperrors.Wrap(err, "failed to render notification")
	}

	text := fmt.Sprintf(
		"Security Alert: Password Updated\n\nHi %s,\n\n%s updated the password for %s.\nUsername: %s\n\n"+
			"If you did not expect this change, please review immediately.\n\n%s",
		view.Responsible, view.Changer, view.URL, view.Username, h.senderName,
	)

	return Message{
		To:       responsible.Email,
		ToName:   responsible.Name,
		Subject:  "Security Alert: Password Updated for " + payload.URL,
		TextBody: text,
		HTMLBody: html.String(),
		Tag:      "password-changed",
	}, nil
}
