package app

import (
	"fmt"

	assetHTTP "github.com/allisson/assetvault/internal/asset/http"
	assetRepository "github.com/allisson/assetvault/internal/asset/repository"
	assetUsecase "github.com/allisson/assetvault/internal/asset/usecase"
	"github.com/allisson/assetvault/internal/database"
)

// assetStore is implemented by both asset repositories.
type assetStore interface {
	assetUsecase.AssetRepository
	assetUsecase.EnvelopeRepository
}

// AssetRepository returns the asset repository for the configured driver.
func (c *Container) AssetRepository() (assetUsecase.AssetRepository, error) {
	return c.assetStore()
}

// EnvelopeRepository returns the asset repository as used by the encryption jobs.
func (c *Container) EnvelopeRepository() (assetUsecase.EnvelopeRepository, error) {
	return c.assetStore()
}

func (c *Container) assetStore() (assetStore, error) {
	var err error
	c.assetRepoInit.Do(func() {
		c.assetRepo, err = c.initAssetRepository()
		if err != nil {
			c.initErrors["assetRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["assetRepo"]; exists {
		return nil, storedErr
	}
	return c.assetRepo, nil
}

// AssetUseCase returns the asset use case wrapped with business metrics.
func (c *Container) AssetUseCase() (assetUsecase.AssetUseCase, error) {
	var err error
	c.assetUseCaseInit.Do(func() {
		c.assetUseCase, err = c.initAssetUseCase()
		if err != nil {
			c.initErrors["assetUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["assetUseCase"]; exists {
		return nil, storedErr
	}
	return c.assetUseCase, nil
}

// EncryptionUseCase returns the verify/repair/rotate jobs bound to the current key.
func (c *Container) EncryptionUseCase() (assetUsecase.EncryptionUseCase, error) {
	var err error
	c.encryptionUseCaseInit.Do(func() {
		c.encryptionUseCase, err = c.initEncryptionUseCase()
		if err != nil {
			c.initErrors["encryptionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.encryptionUseCase, nil
}

// AssetHandler returns a new asset HTTP handler.
func (c *Container) AssetHandler() (*assetHTTP.AssetHandler, error) {
	useCase, err := c.AssetUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get asset use case for asset handler: %w", err)
	}
	return assetHTTP.NewAssetHandler(useCase, c.Logger()), nil
}

func (c *Container) initAssetRepository() (assetStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for asset repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return assetRepository.NewMySQLAssetRepository(db), nil
	case database.DriverPostgres:
		return assetRepository.NewPostgreSQLAssetRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAssetUseCase() (assetUsecase.AssetUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for asset use case: %w", err)
	}

	assetRepo, err := c.AssetRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get asset repository for asset use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for asset use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for asset use case: %w", err)
	}

	codec, err := c.SecretCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret codec for asset use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for asset use case: %w", err)
	}

	useCase := assetUsecase.NewAssetUseCase(txManager, assetRepo, userRepo, outboxRepo, codec)
	return assetUsecase.NewAssetUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initEncryptionUseCase() (assetUsecase.EncryptionUseCase, error) {
	envelopeRepo, err := c.EnvelopeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope repository for encryption use case: %w", err)
	}

	codec, err := c.SecretCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret codec for encryption use case: %w", err)
	}

	return assetUsecase.NewEncryptionUseCase(envelopeRepo, codec, c.Logger()), nil
}
