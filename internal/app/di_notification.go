package app

import (
	"fmt"

	assetDomain "github.com/allisson/assetvault/internal/asset/domain"
	"github.com/allisson/assetvault/internal/notification"
	outboxUsecase "github.com/allisson/assetvault/internal/outbox/usecase"
	taskDomain "github.com/allisson/assetvault/internal/task/domain"
)

// NotificationSender returns the e-mail sender selected by EMAIL_PROVIDER.
func (c *Container) NotificationSender() (notification.Sender, error) {
	var err error
	c.senderInit.Do(func() {
		c.sender, err = notification.NewSender(notification.SenderConfig{
			Provider:             c.config.EmailProvider,
			PostmarkServerToken:  c.config.PostmarkServerToken,
			PostmarkAccountToken: c.config.PostmarkAccountToken,
			SenderAddress:        c.config.EmailSenderAddress,
			SenderName:           c.config.EmailSenderName,
		}, c.Logger())
		if err != nil {
			c.initErrors["sender"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sender"]; exists {
		return nil, storedErr
	}
	return c.sender, nil
}

// EventRouter returns the outbox router with every event handler registered.
func (c *Container) EventRouter() (*outboxUsecase.Router, error) {
	var err error
	c.eventRouterInit.Do(func() {
		c.eventRouter, err = c.initEventRouter()
		if err != nil {
			c.initErrors["eventRouter"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRouter"]; exists {
		return nil, storedErr
	}
	return c.eventRouter, nil
}

func (c *Container) initEventRouter() (*outboxUsecase.Router, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for event router: %w", err)
	}

	sender, err := c.NotificationSender()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification sender for event router: %w", err)
	}

	router := outboxUsecase.NewRouter()
	router.Register(
		assetDomain.EventPasswordChanged,
		notification.NewPasswordChangedHandler(userRepo, sender, c.config.EmailSenderName, c.Logger()),
	)
	router.Register(
		taskDomain.EventTaskAssigned,
		notification.NewTaskAssignedHandler(userRepo, sender, c.config.EmailSenderName, c.Logger()),
	)
	return router, nil
}
