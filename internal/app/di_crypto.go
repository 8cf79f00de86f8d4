package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
	cryptoService "github.com/allisson/assetvault/internal/crypto/service"
	"github.com/allisson/assetvault/internal/metrics"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// EncryptionKey returns the key loaded from ENCRYPTION_KEY, unwrapped through
// the KMS when one is configured.
func (c *Container) EncryptionKey() (*cryptoDomain.EncryptionKey, error) {
	var err error
	c.encryptionKeyInit.Do(func() {
		c.encryptionKey, err = c.initEncryptionKey()
		if err != nil {
			c.initErrors["encryptionKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionKey"]; exists {
		return nil, storedErr
	}
	return c.encryptionKey, nil
}

// SecretCodec returns the codec protecting asset passwords under the current key.
func (c *Container) SecretCodec() (cryptoService.SecretCodec, error) {
	var err error
	c.codecInit.Do(func() {
		c.codec, err = c.initSecretCodec()
		if err != nil {
			c.initErrors["codec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["codec"]; exists {
		return nil, storedErr
	}
	return c.codec, nil
}

// PreviousSecretCodec builds a codec for a retired key, decoded the same way as
// ENCRYPTION_KEY. Its decrypt failures are expected during rotation, so it neither
// logs them nor feeds the decrypt metrics.
func (c *Container) PreviousSecretCodec(ctx context.Context, encoded string) (cryptoService.SecretCodec, error) {
	key, err := cryptoService.LoadEncryptionKey(ctx, c.KMSService(), cryptoService.KeySource{
		Encoded:     encoded,
		KMSProvider: c.config.KMSProvider,
		KMSKeyURI:   c.config.KMSKeyURI,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous encryption key: %w", err)
	}
	defer key.Close()

	return cryptoService.NewAESGCMCodec(key)
}

func (c *Container) initEncryptionKey() (*cryptoDomain.EncryptionKey, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()

	key, err := cryptoService.LoadEncryptionKey(ctx, c.KMSService(), cryptoService.KeySource{
		Encoded:     c.config.EncryptionKey,
		KMSProvider: c.config.KMSProvider,
		KMSKeyURI:   c.config.KMSKeyURI,
	}, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to load encryption key: %w", err)
	}
	return key, nil
}

func (c *Container) initSecretCodec() (cryptoService.SecretCodec, error) {
	key, err := c.EncryptionKey()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret codec: %w", err)
	}

	codec, err := cryptoService.NewAESGCMCodec(key,
		cryptoService.WithLogger(c.Logger()),
		cryptoService.WithDecryptObserver(metrics.NewDecryptObserver(businessMetrics)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret codec: %w", err)
	}
	return codec, nil
}
