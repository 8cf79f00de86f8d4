package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	apperrors "github.com/allisson/assetvault/internal/errors"
	outboxDomain "github.com/allisson/assetvault/internal/outbox/domain"
	taskDomain "github.com/allisson/assetvault/internal/task/domain"
	userDomain "github.com/allisson/assetvault/internal/user/domain"
)

var taskAssignedHTML = template.Must(template.New("task_assigned").Parse(`<h1>New Task Assigned</h1>
<p>Hi <strong>{{.Recipient}}</strong>,</p>
<p><strong>{{.Actor}}</strong> has assigned a new task to you.</p>
<h3>Task Title</h3>
<p>{{.Title}}</p>
<h3>Description</h3>
<p>{{.Description}}</p>
<p>Please review this task and take the necessary actions.</p>
`))

type taskAssignedView struct {
	Recipient   string
	Actor       string
	Title       string
	Description string
}

// TaskAssignedHandler e-mails the recipient of a taskDomain.EventTaskAssigned
// event: the new handler on assignment, the creator when confirmation is awaited.
type TaskAssignedHandler struct {
	userRepo   UserRepository
	sender     Sender
	senderName string
	logger     *slog.Logger
}

// NewTaskAssignedHandler creates a TaskAssignedHandler.
func NewTaskAssignedHandler(
	userRepo UserRepository,
	sender Sender,
	senderName string,
	logger *slog.Logger,
) *TaskAssignedHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TaskAssignedHandler{
		userRepo:   userRepo,
		sender:     sender,
		senderName: senderName,
		logger:     logger,
	}
}

// Handle sends the notification. A recipient that no longer exists drops the event.
func (h *TaskAssignedHandler) Handle(ctx context.Context, event *outboxDomain.Event) error {
	var payload taskDomain.TaskAssignedEvent
	if err := event.DecodePayload(&payload); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "invalid %s payload: %v", event.EventType, err)
	}

	recipient, err := h.userRepo.GetByID(ctx, payload.RecipientID)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			h.logger.Warn("task recipient not found, skipping notification",
				slog.String("task_id", payload.TaskID.String()),
				slog.String("user_id", payload.RecipientID.String()),
			)
			return nil
		}
		return err
	}

	actor := unknownUserName
	user, err := h.userRepo.GetByID(ctx, payload.ActorID)
	switch {
	case err == nil:
		actor = user.Name
	case !apperrors.Is(err, userDomain.ErrUserNotFound):
		return err
	}

	view := taskAssignedView{
		Recipient:   recipient.Name,
		Actor:       actor,
		Title:       payload.Title,
		Description: payload.Description,
	}
	var html bytes.Buffer
	if err := taskAssignedHTML.Execute(&html, view); err != nil {
		return apperrors.Wrap(err, "failed to render notification")
	}

	text := fmt.Sprintf(
		"New Task Assigned: %s\n\nHi %s,\n\n%s has assigned a new task to you.\n\nTitle: %s\nDescription: %s\n\n%s",
		view.Title, view.Recipient, view.Actor, view.Title, view.Description, h.senderName,
	)

	msg := Message{
		To:       recipient.Email,
		ToName:   recipient.Name,
		Subject:  "New Task Assigned: " + payload.Title,
		TextBody: text,
		HTMLBody: html.String(),
		Tag:      "task-assigned",
	}
	if err := h.sender.Send(ctx, msg); err != nil {
		return err
	}

	h.logger.Info("task notification sent",
		slog.String("task_id", payload.TaskID.String()),
		slog.String("user_id", recipient.ID.String()),
	)
	return nil
}
