package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	assetDomain "github.com/allisson/assetvault/internal/asset/domain"
	"github.com/allisson/assetvault/internal/database"
	apperrors "github.com/allisson/assetvault/internal/errors"
	outboxDomain "github.com/allisson/assetvault/internal/outbox/domain"
	"github.com/allisson/assetvault/internal/task/domain"
	userDomain "github.com/allisson/assetvault/internal/user/domain"
	appValidation "github.com/allisson/assetvault/internal/validation"
)

var fileRules = validation.Each(validation.Required, validation.Length(1, 2048))

// CreateTaskInput contains the input data for task creation
type CreateTaskInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	HandlerID   uuid.UUID     `json:"handler_id"`
	CreatedByID uuid.UUID     `json:"created_by_id"`
	AssetID     *uuid.UUID    `json:"asset_id"`
	DueDate     *time.Time    `json:"due_date"`
	Files       []string      `json:"files"`
	Status      domain.Status `json:"status"`
}

// Validate checks required fields and the status value.
func (i CreateTaskInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required, appValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&i.Description, validation.Required, appValidation.NotBlank),
		validation.Field(&i.HandlerID, appValidation.RequiredUUID),
		validation.Field(&i.CreatedByID, appValidation.RequiredUUID),
		validation.Field(&i.AssetID, appValidation.RequiredUUID),
		validation.Field(&i.Files, fileRules),
		validation.Field(&i.Status, appValidation.OneOf(domain.Statuses...)),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateTaskInput is a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	HandlerID   *uuid.UUID     `json:"handler_id"`
	AssetID     *uuid.UUID     `json:"asset_id"`
	DueDate     *time.Time     `json:"due_date"`
	Files       *[]string      `json:"files"`
	Status      *domain.Status `json:"status"`
}

// Validate checks the fields that are present.
func (i UpdateTaskInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.NilOrNotEmpty, appValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&i.Description, validation.NilOrNotEmpty, appValidation.NotBlank),
		validation.Field(&i.HandlerID, appValidation.RequiredUUID),
		validation.Field(&i.AssetID, appValidation.RequiredUUID),
		validation.Field(&i.Files, validation.By(func(value any) error {
			files, _ := value.(*[]string)
			if files == nil {
				return nil
			}
			return validation.Validate(*files, fileRules)
		})),
		validation.Field(&i.Status, validation.NilOrNotEmpty, appValidation.OneOf(domain.Statuses...)),
	)
	return appValidation.WrapValidationError(err)
}

func (i UpdateTaskInput) isEmpty() bool {
	return i.Title == nil && i.Description == nil && i.HandlerID == nil && i.AssetID == nil &&
		i.DueDate == nil && i.Files == nil && i.Status == nil
}

type taskUseCase struct {
	txManager  database.TxManager
	taskRepo   TaskRepository
	userRepo   UserRepository
	assetRepo  AssetRepository
	outboxRepo OutboxEventRepository
}

// NewTaskUseCase creates a TaskUseCase.
func NewTaskUseCase(
	txManager database.TxManager,
	taskRepo TaskRepository,
	userRepo UserRepository,
	assetRepo AssetRepository,
	outboxRepo OutboxEventRepository,
) TaskUseCase {
	return &taskUseCase{
		txManager:  txManager,
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		assetRepo:  assetRepo,
		outboxRepo: outboxRepo,
	}
}

// Create stores the task in the creator's company. The handler and the linked
// asset must belong to that company.
func (t *taskUseCase) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.StatusToDo
	}
	files := input.Files
	if files == nil {
		files = []string{}
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.Must(uuid.NewV7()),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		HandlerID:   input.HandlerID,
		CreatedByID: input.CreatedByID,
		AssetID:     input.AssetID,
		DueDate:     utcOptional(input.DueDate),
		Files:       files,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		creator, err := t.userRepo.GetByID(ctx, input.CreatedByID)
		if err != nil {
			if apperrors.Is(err, userDomain.ErrUserNotFound) {
				return domain.ErrCreatorNotFound
			}
			return err
		}
		task.CompanyID = creator.CompanyID
		task.CreatedBy = toContact(creator)

		handler, err := t.companyUser(ctx, task.CompanyID, input.HandlerID)
		if err != nil {
			return err
		}
		task.Handler = toContact(handler)

		if err := t.checkAsset(ctx, task.CompanyID, task.AssetID); err != nil {
			return err
		}

		if err := t.taskRepo.Create(ctx, task); err != nil {
			return err
		}
		return t.notify(ctx, task, task.HandlerID, task.CreatedByID, task.Description)
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Get returns the task.
func (t *taskUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return t.taskRepo.GetByID(ctx, id)
}

// ListByCompany returns the tasks of an existing company matching filter.
func (t *taskUseCase) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	filter domain.ListFilter,
	offset, limit int,
) ([]*domain.Task, error) {
	if filter.Status != nil {
		if err := validation.Validate(*filter.Status, appValidation.OneOf(domain.Statuses...)); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "status: %v", err)
		}
	}
	if _, err := t.userRepo.GetCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	return t.taskRepo.ListByCompany(ctx, companyID, filter, offset, limit)
}

// Update applies input to the task and queues the notifications it triggers.
func (t *taskUseCase) Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*domain.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.isEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	var task *domain.Task
	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		task, err = t.taskRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := t.checkAsset(ctx, task.CompanyID, input.AssetID); err != nil {
			return err
		}

		handlerChanged := input.HandlerID != nil && *input.HandlerID != task.HandlerID
		if handlerChanged {
			handler, err := t.companyUser(ctx, task.CompanyID, *input.HandlerID)
			if err != nil {
				return err
			}
			task.HandlerID = handler.ID
			task.Handler = toContact(handler)
		}

		awaitingConfirmation := input.Status != nil &&
			*input.Status == domain.StatusAwaitingConfirmation &&
			task.Status != domain.StatusAwaitingConfirmation

		applyUpdate(task, input)
		task.UpdatedAt = time.Now().UTC()

		if err := t.taskRepo.Update(ctx, task); err != nil {
			return err
		}

		if handlerChanged {
			if err := t.notify(ctx, task, task.HandlerID, task.CreatedByID, task.Description); err != nil {
				return err
			}
		}
		if awaitingConfirmation {
			return t.notify(ctx, task, task.CreatedByID, task.HandlerID, domain.AwaitingConfirmationNote)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (t *taskUseCase) notify(
	ctx context.Context,
	task *domain.Task,
	recipientID, actorID uuid.UUID,
	description string,
) error {
	event, err := outboxDomain.NewEvent(domain.EventTaskAssigned, domain.TaskAssignedEvent{
		TaskID:      task.ID,
		CompanyID:   task.CompanyID,
		Title:       task.Title,
		Description: description,
		RecipientID: recipientID,
		ActorID:     actorID,
	})
	if err != nil {
		return err
	}
	return t.outboxRepo.Create(ctx, event)
}

// companyUser loads a handler and checks it belongs to companyID.
func (t *taskUseCase) companyUser(ctx context.Context, companyID, userID uuid.UUID) (*userDomain.User, error) {
	user, err := t.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return nil, domain.ErrHandlerCompanyMismatch
		}
		return nil, err
	}
	if user.CompanyID != companyID {
		return nil, domain.ErrHandlerCompanyMismatch
	}
	return user, nil
}

func (t *taskUseCase) checkAsset(ctx context.Context, companyID uuid.UUID, assetID *uuid.UUID) error {
	if assetID == nil {
		return nil
	}
	asset, err := t.assetRepo.GetByID(ctx, *assetID)
	if err != nil {
		if apperrors.Is(err, assetDomain.ErrAssetNotFound) {
			return domain.ErrAssetCompanyMismatch
		}
		return err
	}
	if asset.CompanyID != companyID {
		return domain.ErrAssetCompanyMismatch
	}
	return nil
}

func applyUpdate(task *domain.Task, input UpdateTaskInput) {
	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.AssetID != nil {
		task.AssetID = input.AssetID
	}
	if input.DueDate != nil {
		task.DueDate = utcOptional(input.DueDate)
	}
	if input.Files != nil {
		task.Files = *input.Files
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
}

func toContact(user *userDomain.User) *domain.Contact {
	return &domain.Contact{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone}
}

func utcOptional(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
