package app

import (
	"fmt"

	"github.com/allisson/assetvault/internal/database"
	taskHTTP "github.com/allisson/assetvault/internal/task/http"
	taskRepository "github.com/allisson/assetvault/internal/task/repository"
	taskUsecase "github.com/allisson/assetvault/internal/task/usecase"
)

// TaskRepository returns the task repository for the configured driver.
func (c *Container) TaskRepository() (taskUsecase.TaskRepository, error) {
	var err error
	c.taskRepoInit.Do(func() {
		c.taskRepo, err = c.initTaskRepository()
		if err != nil {
			c.initErrors["taskRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskRepo"]; exists {
		return nil, storedErr
	}
	return c.taskRepo, nil
}

// TaskUseCase returns the task use case wrapped with business metrics.
func (c *Container) TaskUseCase() (taskUsecase.TaskUseCase, error) {
	var err error
	c.taskUseCaseInit.Do(func() {
		c.taskUseCase, err = c.initTaskUseCase()
		if err != nil {
			c.initErrors["taskUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskUseCase"]; exists {
		return nil, storedErr
	}
	return c.taskUseCase, nil
}

// TaskHandler returns a new task HTTP handler.
func (c *Container) TaskHandler() (*taskHTTP.TaskHandler, error) {
	useCase, err := c.TaskUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get task use case for task handler: %w", err)
	}
	return taskHTTP.NewTaskHandler(useCase, c.Logger()), nil
}

func (c *Container) initTaskRepository() (taskUsecase.TaskRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for task repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return taskRepository.NewMySQLTaskRepository(db), nil
	case database.DriverPostgres:
		return taskRepository.NewPostgreSQLTaskRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initTaskUseCase() (taskUsecase.TaskUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for task use case: %w", err)
	}

	taskRepo, err := c.TaskRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get task repository for task use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for task use case: %w", err)
	}

	assetRepo, err := c.AssetRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get asset repository for task use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for task use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for task use case: %w", err)
	}

	useCase := taskUsecase.NewTaskUseCase(txManager, taskRepo, userRepo, assetRepo, outboxRepo)
	return taskUsecase.NewTaskUseCaseWithMetrics(useCase, businessMetrics), nil
}
