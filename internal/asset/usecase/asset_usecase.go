package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/assetvault/internal/asset/domain"
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
	cryptoService "github.com/allisson/assetvault/internal/crypto/service"
	"github.com/allisson/assetvault/internal/database"
	apperrors "github.com/allisson/assetvault/internal/errors"
	outboxDomain "github.com/allisson/assetvault/internal/outbox/domain"
	userDomain "github.com/allisson/assetvault/internal/user/domain"
	appValidation "github.com/allisson/assetvault/internal/validation"
)

// CreateAssetInput contains the input data for asset creation
type CreateAssetInput struct {
	CompanyID         uuid.UUID              `json:"company_id"`
	Brand             *string                `json:"brand"`
	Type              domain.Type            `json:"type"`
	URL               string                 `json:"url"`
	Username          string                 `json:"username"`
	Email             string                 `json:"email"`
	Password          string                 `json:"password"`
	Status            domain.Status          `json:"status"`
	TwoFactorStatus   domain.TwoFactorStatus `json:"two_factor_status"`
	Priority          domain.Priority        `json:"priority"`
	ResponsibleUserID *uuid.UUID             `json:"responsible_user_id"`
}

// Validate checks required fields and enum values.
func (i CreateAssetInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.CompanyID, appValidation.RequiredUUID),
		validation.Field(&i.Brand, validation.Length(0, 255)),
		validation.Field(&i.Type, validation.Required, appValidation.OneOf(domain.Types...)),
		validation.Field(&i.URL, validation.Required, appValidation.URL, validation.Length(1, 2048)),
		validation.Field(&i.Username, validation.Required, appValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&i.Email, validation.Required, appValidation.Email, validation.Length(5, 255)),
		validation.Field(&i.Password, validation.Required, validation.Length(1, 1024)),
		validation.Field(&i.Status, validation.Required, appValidation.OneOf(domain.Statuses...)),
		validation.Field(&i.TwoFactorStatus, validation.Required, appValidation.OneOf(domain.TwoFactorStatuses...)),
		validation.Field(&i.Priority, validation.Required, appValidation.OneOf(domain.Priorities...)),
		validation.Field(&i.ResponsibleUserID, appValidation.RequiredUUID),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateAssetInput is a partial update. Nil fields are left unchanged, and so is
// the password when it is nil or empty.
type UpdateAssetInput struct {
	Brand             *string                 `json:"brand"`
	Type              *domain.Type            `json:"type"`
	URL               *string                 `json:"url"`
	Username          *string                 `json:"username"`
	Email             *string                 `json:"email"`
	Password          *string                 `json:"password"`
	Status            *domain.Status          `json:"status"`
	TwoFactorStatus   *domain.TwoFactorStatus `json:"two_factor_status"`
	Priority          *domain.Priority        `json:"priority"`
	ResponsibleUserID *uuid.UUID              `json:"responsible_user_id"`

	// ChangedByID identifies the user making the change, when known.
	ChangedByID *uuid.UUID `json:"-"`
}

// Validate checks the fields that are present.
func (i UpdateAssetInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Brand, validation.Length(0, 255)),
		validation.Field(&i.Type, validation.NilOrNotEmpty, appValidation.OneOf(domain.Types...)),
		validation.Field(&i.URL, validation.NilOrNotEmpty, appValidation.URL, validation.Length(1, 2048)),
		validation.Field(&i.Username, validation.NilOrNotEmpty, appValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&i.Email, validation.NilOrNotEmpty, appValidation.Email, validation.Length(5, 255)),
		validation.Field(&i.Password, validation.Length(0, 1024)),
		validation.Field(&i.Status, validation.NilOrNotEmpty, appValidation.OneOf(domain.Statuses...)),
		validation.Field(
			&i.TwoFactorStatus,
			validation.NilOrNotEmpty,
			appValidation.OneOf(domain.TwoFactorStatuses...),
		),
		validation.Field(&i.Priority, validation.NilOrNotEmpty, appValidation.OneOf(domain.Priorities...)),
		validation.Field(&i.ResponsibleUserID, appValidation.RequiredUUID),
	)
	return appValidation.WrapValidationError(err)
}

func (i UpdateAssetInput) isEmpty() bool {
	return i.Brand == nil && i.Type == nil && i.URL == nil && i.Username == nil && i.Email == nil &&
		!i.changesPassword() && i.Status == nil && i.TwoFactorStatus == nil && i.Priority == nil &&
		i.ResponsibleUserID == nil
}

func (i UpdateAssetInput) changesPassword() bool {
	return i.Password != nil && *i.Password != ""
}

type assetUseCase struct {
	txManager  database.TxManager
	assetRepo  AssetRepository
	userRepo   UserRepository
	outboxRepo OutboxEventRepository
	codec      cryptoService.SecretCodec
}

// NewAssetUseCase creates an AssetUseCase.
func NewAssetUseCase(
	txManager database.TxManager,
	assetRepo AssetRepository,
	userRepo UserRepository,
	outboxRepo OutboxEventRepository,
	codec cryptoService.SecretCodec,
) AssetUseCase {
	return &assetUseCase{
		txManager:  txManager,
		assetRepo:  assetRepo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		codec:      codec,
	}
}

// Create encrypts the password and stores a new asset. The company must exist and
// the responsible user, when given, must belong to it.
func (a *assetUseCase) Create(ctx context.Context, input CreateAssetInput) (*domain.Asset, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	envelope, err := a.codec.Encrypt(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt asset password")
	}

	now := time.Now().UTC()
	asset := &domain.Asset{
		ID:                uuid.Must(uuid.NewV7()),
		CompanyID:         input.CompanyID,
		Brand:             trimOptional(input.Brand),
		Type:              input.Type,
		URL:               strings.TrimSpace(input.URL),
		Username:          strings.TrimSpace(input.Username),
		Email:             strings.TrimSpace(input.Email),
		Password:          envelope,
		Status:            input.Status,
		TwoFactorStatus:   input.TwoFactorStatus,
		Priority:          input.Priority,
		ResponsibleUserID: input.ResponsibleUserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := a.userRepo.GetCompanyByID(ctx, asset.CompanyID); err != nil {
			return err
		}

		contact, err := a.responsibleContact(ctx, asset.CompanyID, asset.ResponsibleUserID)
		if err != nil {
			return err
		}
		asset.ResponsibleUser = contact

		return a.assetRepo.Create(ctx, asset)
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// Get returns the asset with the outcome of decrypting its password.
func (a *assetUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Details, error) {
	asset, err := a.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.Details{
		Asset:    asset,
		Password: a.codec.Decrypt(asset.Password),
	}, nil
}

// ListByCompany returns asset summaries of an existing company.
func (a *assetUseCase) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*domain.Asset, error) {
	if _, err := a.userRepo.GetCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	return a.assetRepo.ListByCompany(ctx, companyID, offset, limit)
}

// Update applies input to the asset. When the password changes, the new envelope,
// the change log and the notification event are written in one transaction.
func (a *assetUseCase) Update(ctx context.Context, id uuid.UUID, input UpdateAssetInput) (*domain.Asset, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.isEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	var envelope *cryptoDomain.Envelope
	if input.changesPassword() {
		encrypted, err := a.codec.Encrypt(*input.Password)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to encrypt asset password")
		}
		envelope = &encrypted
	}

	var asset *domain.Asset
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		asset, err = a.assetRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if input.ChangedByID != nil {
			if err := a.checkChangedBy(ctx, asset.CompanyID, *input.ChangedByID); err != nil {
				return err
			}
		}

		if input.ResponsibleUserID != nil {
			contact, err := a.responsibleContact(ctx, asset.CompanyID, input.ResponsibleUserID)
			if err != nil {
				return err
			}
			asset.ResponsibleUserID = input.ResponsibleUserID
			asset.ResponsibleUser = contact
		}

		applyUpdate(asset, input)
		if envelope != nil {
			asset.Password = *envelope
		}
		asset.UpdatedAt = time.Now().UTC()

		if err := a.assetRepo.Update(ctx, asset); err != nil {
			return err
		}

		if envelope == nil {
			return nil
		}
		return a.recordPasswordChange(ctx, asset, input.ChangedByID)
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// Delete removes the asset.
func (a *assetUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return a.assetRepo.Delete(ctx, id)
}

func (a *assetUseCase) recordPasswordChange(ctx context.Context, asset *domain.Asset, changedBy *uuid.UUID) error {
	changeLog := &domain.PasswordChangeLog{
		ID:          uuid.Must(uuid.NewV7()),
		AssetID:     asset.ID,
		ChangedByID: changedBy,
		CreatedAt:   asset.UpdatedAt,
	}
	if err := a.assetRepo.CreatePasswordChangeLog(ctx, changeLog); err != nil {
		return err
	}

	event, err := outboxDomain.NewEvent(domain.EventPasswordChanged, domain.PasswordChangedEvent{
		AssetID:           asset.ID,
		CompanyID:         asset.CompanyID,
		URL:               asset.URL,
		Username:          asset.Username,
		ResponsibleUserID: asset.ResponsibleUserID,
		ChangedByID:       changedBy,
	})
	if err != nil {
		return err
	}
	return a.outboxRepo.Create(ctx, event)
}

// responsibleContact loads the responsible user and checks it belongs to companyID.
func (a *assetUseCase) responsibleContact(
	ctx context.Context,
	companyID uuid.UUID,
	userID *uuid.UUID,
) (*domain.Contact, error) {
	if userID == nil {
		return nil, nil
	}

	user, err := a.userRepo.GetByID(ctx, *userID)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return nil, domain.ErrResponsibleUserCompanyMismatch
		}
		return nil, err
	}
	if user.CompanyID != companyID {
		return nil, domain.ErrResponsibleUserCompanyMismatch
	}

	return &domain.Contact{ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone}, nil
}

// checkChangedBy requires the changing user to exist in companyID.
func (a *assetUseCase) checkChangedBy(ctx context.Context, companyID, userID uuid.UUID) error {
	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return domain.ErrChangedByCompanyMismatch
		}
		return err
	}
	if user.CompanyID != companyID {
		return domain.ErrChangedByCompanyMismatch
	}
	return nil
}

func applyUpdate(asset *domain.Asset, input UpdateAssetInput) {
	if input.Brand != nil {
		asset.Brand = trimOptional(input.Brand)
	}
	if input.Type != nil {
		asset.Type = *input.Type
	}
	if input.URL != nil {
		asset.URL = strings.TrimSpace(*input.URL)
	}
	if input.Username != nil {
		asset.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		asset.Email = strings.TrimSpace(*input.Email)
	}
	if input.Status != nil {
		asset.Status = *input.Status
	}
	if input.TwoFactorStatus != nil {
		asset.TwoFactorStatus = *input.TwoFactorStatus
	}
	if input.Priority != nil {
		asset.Priority = *input.Priority
	}
}

// trimOptional trims s and maps blank values to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
