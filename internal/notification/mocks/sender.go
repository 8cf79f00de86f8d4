// Package mocks provides mock implementations of the notification dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/assetvault/internal/notification"
)

// MockSender is a mock implementation of notification.Sender.
type MockSender struct {
	mock.Mock
}

// Send mocks the Send method of Sender.
func (m *MockSender) Send(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
