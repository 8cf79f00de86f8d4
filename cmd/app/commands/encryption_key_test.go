package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
)

// Manual mocks for KMS since they might not be generated in all environments
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

var encryptionKeyLine = regexp.MustCompile(`ENCRYPTION_KEY="([^"]+)"`)

func TestRunCreateEncryptionKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("plain-key", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, nil, logger, &out, "", "")
		require.NoError(t, err)

		match := encryptionKeyLine.FindStringSubmatch(out.String())
		require.Len(t, match, 2)
		raw, err := base64.StdEncoding.DecodeString(match[1])
		require.NoError(t, err)
		require.Len(t, raw, cryptoDomain.KeySize)
		require.NotContains(t, out.String(), "KMS_PROVIDER")
		require.Contains(t, out.String(), "# Fingerprint: ")
	})

	t.Run("kms-key", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return([]byte("encrypted"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, mockService, logger, &out, "localsecrets", "base64key://...")
		require.NoError(t, err)
		require.Contains(t, out.String(), `KMS_PROVIDER="localsecrets"`)
		require.Contains(t, out.String(), `KMS_KEY_URI="base64key://..."`)
		require.Contains(t, out.String(),
			`ENCRYPTION_KEY="`+base64.StdEncoding.EncodeToString([]byte("encrypted"))+`"`)

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("only-one-kms-parameter", func(t *testing.T) {
		err := RunCreateEncryptionKey(ctx, nil, logger, nil, "localsecrets", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "must be used together")
	})

	t.Run("provider-uri-mismatch", func(t *testing.T) {
		err := RunCreateEncryptionKey(ctx, &MockKMSService{}, logger, &bytes.Buffer{}, "awskms", "base64key://...")
		require.ErrorIs(t, err, cryptoDomain.ErrKMSProviderMismatch)
	})

	t.Run("open-keeper-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "base64key://bad").Return(nil, errors.New("open error"))

		err := RunCreateEncryptionKey(ctx, mockService, logger, &bytes.Buffer{}, "localsecrets", "base64key://bad")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to open KMS keeper")
		mockService.AssertExpectations(t)
	})

	t.Run("encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.Anything).Return(nil, errors.New("encrypt error"))
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, mockService, logger, &out, "localsecrets", "base64key://...")
		require.Error(t, err)
		require.Empty(t, out.String())
		mockKeeper.AssertExpectations(t)
	})
}
