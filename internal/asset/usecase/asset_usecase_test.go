package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/assetvault/internal/asset/domain"
	"github.com/allisson/assetvault/internal/asset/usecase/mocks"
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
	cryptoService "github.com/allisson/assetvault/internal/crypto/service"
	databaseMocks "github.com/allisson/assetvault/internal/database/mocks"
	apperrors "github.com/allisson/assetvault/internal/errors"
	outboxDomain "github.com/allisson/assetvault/internal/outbox/domain"
	outboxMocks "github.com/allisson/assetvault/internal/outbox/usecase/mocks"
	userDomain "github.com/allisson/assetvault/internal/user/domain"
	userMocks "github.com/allisson/assetvault/internal/user/usecase/mocks"
)

type assetFixture struct {
	useCase    AssetUseCase
	codec      *cryptoService.AESGCMCodec
	txManager  *databaseMocks.MockTxManager
	assetRepo  *mocks.MockAssetRepository
	userRepo   *userMocks.MockUserRepository
	outboxRepo *outboxMocks.MockOutboxEventRepository
}

func newTestCodec(t *testing.T) *cryptoService.AESGCMCodec {
	t.Helper()
	raw := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(raw)
	require.NoError(t, err)

	key, err := cryptoDomain.NewEncryptionKey(raw)
	require.NoError(t, err)

	codec, err := cryptoService.NewAESGCMCodec(key)
	require.NoError(t, err)
	return codec
}

func newAssetFixture(t *testing.T) *assetFixture {
	t.Helper()
	f := &assetFixture{
		codec:      newTestCodec(t),
		txManager:  &databaseMocks.MockTxManager{},
		assetRepo:  &mocks.MockAssetRepository{},
		userRepo:   &userMocks.MockUserRepository{},
		outboxRepo: &outboxMocks.MockOutboxEventRepository{},
	}
	f.useCase = NewAssetUseCase(f.txManager, f.assetRepo, f.userRepo, f.outboxRepo, f.codec)
	return f
}

func validCreateInput(companyID uuid.UUID) CreateAssetInput {
	brand := " Acme Kozmetik "
	return CreateAssetInput{
		CompanyID:       companyID,
		Brand:           &brand,
		Type:            domain.TypeSocialMedia,
		URL:             "https://instagram.com/acme",
		Username:        "acme.official",
		Email:           "social@acme.com",
		Password:        "ins2020idm#",
		Status:          domain.StatusActive,
		TwoFactorStatus: domain.TwoFactorSMS,
		Priority:        domain.PriorityHigh,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestAssetUseCase_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		f := newAssetFixture(t)
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.userRepo.On("GetCompanyByID", ctx, companyID).Return(&userDomain.Company{ID: companyID}, nil)
		f.assetRepo.On("Create", ctx, mock.AnythingOfType("*domain.Asset")).Return(nil)

		asset, err := f.useCase.Create(ctx, validCreateInput(companyID))
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, asset.ID)
		assert.Equal(t, companyID, asset.CompanyID)
		require.NotNil(t, asset.Brand)
		assert.Equal(t, "Acme Kozmetik", *asset.Brand)
		assert.Nil(t, asset.ResponsibleUser)
		assert.NotEqual(t, "ins2020idm#", asset.Password.CipherText)

		plaintext, ok := f.codec.Decrypt(asset.Password).Plaintext()
		require.True(t, ok)
		assert.Equal(t, "ins2020idm#", plaintext)

		f.txManager.AssertExpectations(t)
		f.userRepo.AssertExpectations(t)
		f.assetRepo.AssertExpectations(t)
	})

	t.Run("Success_WithResponsibleUser", func(t *testing.T) {
		f := newAssetFixture(t)
		responsible := &userDomain.User{
			ID:        uuid.Must(uuid.NewV7()),
			CompanyID: companyID,
			Name:      "Ayşe Yılmaz",
			Email:     "ayse@acme.com",
			Phone:     ptr("+90 555 000 1122"),
		}
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.userRepo.On("GetCompanyByID", ctx, companyID).Return(&userDomain.Company{ID: companyID}, nil)
		f.userRepo.On("GetByID", ctx, responsible.ID).Return(responsible, nil)
		f.assetRepo.On("Create", ctx, mock.Anything).Return(nil)

		input := validCreateInput(companyID)
		input.ResponsibleUserID = &responsible.ID

		asset, err := f.useCase.Create(ctx, input)
		require.NoError(t, err)
		require.NotNil(t, asset.ResponsibleUser)
		assert.Equal(t, responsible.ID, asset.ResponsibleUser.ID)
		assert.Equal(t, "Ayşe Yılmaz", asset.ResponsibleUser.Name)
		assert.Equal(t, responsible.Phone, asset.ResponsibleUser.Phone)
	})

	t.Run("Error_ResponsibleUserFromOtherCompany", func(t *testing.T) {
		f := newAssetFixture(t)
		other := &userDomain.User{ID: uuid.Must(uuid.NewV7()), CompanyID: uuid.Must(uuid.NewV7())}
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.userRepo.On("GetCompanyByID", ctx, companyID).Return(&userDomain.Company{ID: companyID}, nil)
		f.userRepo.On("GetByID", ctx, other.ID).Return(other, nil)

		input := validCreateInput(companyID)
		input.ResponsibleUserID = &other.ID

		asset, err := f.useCase.Create(ctx, input)
		assert.Nil(t, asset)
		assert.ErrorIs(t, err, domain.ErrResponsibleUserCompanyMismatch)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		f.assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_ResponsibleUserNotFound", func(t *testing.T) {
		f := newAssetFixture(t)
		missing := uuid.Must(uuid.NewV7())
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.userRepo.On("GetCompanyByID", ctx, companyID).Return(&userDomain.Company{ID: companyID}, nil)
		f.userRepo.On("GetByID", ctx, missing).Return(nil, userDomain.ErrUserNotFound)

		input := validCreateInput(companyID)
		input.ResponsibleUserID = &missing

		_, err := f.useCase.Create(ctx, input)
		assert.ErrorIs(t, err, domain.ErrResponsibleUserCompanyMismatch)
	})

	t.Run("Error_CompanyNotFound", func(t *testing.T) {
		f := newAssetFixture(t)
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.userRepo.On("GetCompanyByID", ctx, companyID).Return(nil, userDomain.ErrCompanyNotFound)

		_, err := f.useCase.Create(ctx, validCreateInput(companyID))
		assert.ErrorIs(t, err, userDomain.ErrCompanyNotFound)
		f.assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		f := newAssetFixture(t)
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.userRepo.On("GetCompanyByID", ctx, companyID).Return(&userDomain.Company{ID: companyID}, nil)
		f.assetRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := f.useCase.Create(ctx, validCreateInput(companyID))
		assert.EqualError(t, err, "insert failed")
	})

	validationTests := []struct {
		name   string
		mutate func(*CreateAssetInput)
	}{
		{name: "missing company", mutate: func(in *CreateAssetInput) { in.CompanyID = uuid.Nil }},
		{name: "missing password", mutate: func(in *CreateAssetInput) { in.Password = "" }},
		{name: "invalid url", mutate: func(in *CreateAssetInput) { in.URL = "instagram" }},
		{name: "invalid email", mutate: func(in *CreateAssetInput) { in.Email = "social" }},
		{name: "blank username", mutate: func(in *CreateAssetInput) { in.Username = "  " }},
		{name: "unknown type", mutate: func(in *CreateAssetInput) { in.Type = "Oyun" }},
		{name: "unknown status", mutate: func(in *CreateAssetInput) { in.Status = "Pasif" }},
		{name: "unknown two factor", mutate: func(in *CreateAssetInput) { in.TwoFactorStatus = "Email" }},
		{name: "unknown priority", mutate: func(in *CreateAssetInput) { in.Priority = "Urgent" }},
		{name: "nil responsible user", mutate: func(in *CreateAssetInput) { in.ResponsibleUserID = ptr(uuid.Nil) }},
	}
	for _, tt := range validationTests {
		t.Run("Error_Validation_"+tt.name, func(t *testing.T) {
			f := newAssetFixture(t)
			input := validCreateInput(companyID)
			tt.mutate(&input)

			_, err := f.useCase.Create(ctx, input)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
		})
	}
}

func TestAssetUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Readable", func(t *testing.T) {
		f := newAssetFixture(t)
		envelope, err := f.codec.Encrypt("ins2020idm#")
		require.NoError(t, err)
		asset := &domain.Asset{ID: uuid.Must(uuid.NewV7()), Password: envelope}
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)

		details, err := f.useCase.Get(ctx, asset.ID)
		require.NoError(t, err)
		assert.Same(t, asset, details.Asset)
		assert.Equal(t, "ins2020idm#", details.Password.Display())
	})

	t.Run("Success_UnreadableIsNotAnError", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := &domain.Asset{
			ID:       uuid.Must(uuid.NewV7()),
			Password: cryptoDomain.Envelope{CipherText: "YWJj", IV: "AAAAAAAAAAAAAAAA", Tag: "c2hvcnQ="},
		}
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)

		details, err := f.useCase.Get(ctx, asset.ID)
		require.NoError(t, err)
		assert.False(t, details.Password.Readable())
		assert.Equal(t, cryptoDomain.ReasonInvalidTagLength, details.Password.Reason())
		assert.Equal(t, cryptoDomain.Sentinel, details.Password.Display())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newAssetFixture(t)
		id := uuid.Must(uuid.NewV7())
		f.assetRepo.On("GetByID", ctx, id).Return(nil, domain.ErrAssetNotFound)

		details, err := f.useCase.Get(ctx, id)
		assert.Nil(t, details)
		assert.ErrorIs(t, err, domain.ErrAssetNotFound)
	})
}

func TestAssetUseCase_ListByCompany(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		f := newAssetFixture(t)
		assets := []*domain.Asset{{ID: uuid.Must(uuid.NewV7())}, {ID: uuid.Must(uuid.NewV7())}}
		f.userRepo.On("GetCompanyByID", ctx, companyID).Return(&userDomain.Company{ID: companyID}, nil)
		f.assetRepo.On("ListByCompany", ctx, companyID, 0, 50).Return(assets, nil)

		got, err := f.useCase.ListByCompany(ctx, companyID, 0, 50)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Error_CompanyNotFound", func(t *testing.T) {
		f := newAssetFixture(t)
		f.userRepo.On("GetCompanyByID", ctx, companyID).Return(nil, userDomain.ErrCompanyNotFound)

		_, err := f.useCase.ListByCompany(ctx, companyID, 0, 50)
		assert.ErrorIs(t, err, userDomain.ErrCompanyNotFound)
		f.assetRepo.AssertNotCalled(t, "ListByCompany", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAssetUseCase_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.Must(uuid.NewV7())

	storedAsset := func(t *testing.T, f *assetFixture) *domain.Asset {
		t.Helper()
		envelope, err := f.codec.Encrypt("old-password")
		require.NoError(t, err)
		responsibleID := uuid.Must(uuid.NewV7())
		return &domain.Asset{
			ID:                uuid.Must(uuid.NewV7()),
			CompanyID:         companyID,
			Type:              domain.TypeWebsite,
			URL:               "https://acme.com/admin",
			Username:          "admin",
			Email:             "web@acme.com",
			Password:          envelope,
			Status:            domain.StatusActive,
			TwoFactorStatus:   domain.TwoFactorNone,
			Priority:          domain.PriorityLow,
			ResponsibleUserID: &responsibleID,
		}
	}

	t.Run("Success_FieldsOnly", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := storedAsset(t, f)
		oldEnvelope := asset.Password
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)
		f.assetRepo.On("Update", ctx, asset).Return(nil)

		input := UpdateAssetInput{
			Priority: ptr(domain.PriorityHigh),
			Username: ptr(" root "),
			Password: ptr(""),
		}
		got, err := f.useCase.Update(ctx, asset.ID, input)
		require.NoError(t, err)

		assert.Equal(t, domain.PriorityHigh, got.Priority)
		assert.Equal(t, "root", got.Username)
		assert.Equal(t, domain.TypeWebsite, got.Type)
		assert.Equal(t, oldEnvelope, got.Password)
		f.assetRepo.AssertNotCalled(t, "CreatePasswordChangeLog", mock.Anything, mock.Anything)
		f.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Success_PasswordChanged", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := storedAsset(t, f)
		oldEnvelope := asset.Password
		changedBy := uuid.Must(uuid.NewV7())

		var changeLog *domain.PasswordChangeLog
		var event *outboxDomain.Event
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)
		f.userRepo.On("GetByID", ctx, changedBy).
			Return(&userDomain.User{ID: changedBy, CompanyID: companyID}, nil)
		f.assetRepo.On("Update", ctx, asset).Return(nil)
		f.assetRepo.On("CreatePasswordChangeLog", ctx, mock.AnythingOfType("*domain.PasswordChangeLog")).
			Run(func(args mock.Arguments) { changeLog = args.Get(1).(*domain.PasswordChangeLog) }).
			Return(nil)
		f.outboxRepo.On("Create", ctx, mock.AnythingOfType("*domain.Event")).
			Run(func(args mock.Arguments) { event = args.Get(1).(*outboxDomain.Event) }).
			Return(nil)

		got, err := f.useCase.Update(ctx, asset.ID, UpdateAssetInput{
			Password:    ptr("new-password"),
			ChangedByID: &changedBy,
		})
		require.NoError(t, err)

		assert.NotEqual(t, oldEnvelope, got.Password)
		plaintext, ok := f.codec.Decrypt(got.Password).Plaintext()
		require.True(t, ok)
		assert.Equal(t, "new-password", plaintext)

		require.NotNil(t, changeLog)
		assert.Equal(t, asset.ID, changeLog.AssetID)
		assert.Equal(t, &changedBy, changeLog.ChangedByID)

		require.NotNil(t, event)
		assert.Equal(t, domain.EventPasswordChanged, event.EventType)
		var payload domain.PasswordChangedEvent
		require.NoError(t, event.DecodePayload(&payload))
		assert.Equal(t, asset.ID, payload.AssetID)
		assert.Equal(t, companyID, payload.CompanyID)
		assert.Equal(t, "https://acme.com/admin", payload.URL)
		assert.Equal(t, "admin", payload.Username)
		assert.Equal(t, asset.ResponsibleUserID, payload.ResponsibleUserID)
		assert.Equal(t, &changedBy, payload.ChangedByID)
	})

	t.Run("Success_ChangeResponsibleUser", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := storedAsset(t, f)
		newResponsible := &userDomain.User{ID: uuid.Must(uuid.NewV7()), CompanyID: companyID, Name: "Can"}
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)
		f.userRepo.On("GetByID", ctx, newResponsible.ID).Return(newResponsible, nil)
		f.assetRepo.On("Update", ctx, asset).Return(nil)

		got, err := f.useCase.Update(ctx, asset.ID, UpdateAssetInput{ResponsibleUserID: &newResponsible.ID})
		require.NoError(t, err)
		assert.Equal(t, &newResponsible.ID, got.ResponsibleUserID)
		require.NotNil(t, got.ResponsibleUser)
		assert.Equal(t, "Can", got.ResponsibleUser.Name)
	})

	t.Run("Error_ResponsibleUserFromOtherCompany", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := storedAsset(t, f)
		other := &userDomain.User{ID: uuid.Must(uuid.NewV7()), CompanyID: uuid.Must(uuid.NewV7())}
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)
		f.userRepo.On("GetByID", ctx, other.ID).Return(other, nil)

		_, err := f.useCase.Update(ctx, asset.ID, UpdateAssetInput{ResponsibleUserID: &other.ID})
		assert.ErrorIs(t, err, domain.ErrResponsibleUserCompanyMismatch)
		f.assetRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Error_ChangedByUnknownUser", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := storedAsset(t, f)
		unknown := uuid.Must(uuid.NewV7())
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)
		f.userRepo.On("GetByID", ctx, unknown).Return(nil, userDomain.ErrUserNotFound)

		got, err := f.useCase.Update(ctx, asset.ID, UpdateAssetInput{
			Password:    ptr("new-password"),
			ChangedByID: &unknown,
		})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrChangedByCompanyMismatch)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		f.assetRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.assetRepo.AssertNotCalled(t, "CreatePasswordChangeLog", mock.Anything, mock.Anything)
		f.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_ChangedByFromOtherCompany", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := storedAsset(t, f)
		other := &userDomain.User{ID: uuid.Must(uuid.NewV7()), CompanyID: uuid.Must(uuid.NewV7())}
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)
		f.userRepo.On("GetByID", ctx, other.ID).Return(other, nil)

		_, err := f.useCase.Update(ctx, asset.ID, UpdateAssetInput{
			Priority:    ptr(domain.PriorityHigh),
			ChangedByID: &other.ID,
		})
		assert.ErrorIs(t, err, domain.ErrChangedByCompanyMismatch)
		f.assetRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Error_ChangedByLookupFailure", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := storedAsset(t, f)
		changedBy := uuid.Must(uuid.NewV7())
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)
		f.userRepo.On("GetByID", ctx, changedBy).Return(nil, errors.New("connection reset"))

		_, err := f.useCase.Update(ctx, asset.ID, UpdateAssetInput{
			Password:    ptr("new-password"),
			ChangedByID: &changedBy,
		})
		assert.EqualError(t, err, "connection reset")
	})

	t.Run("Error_EmptyUpdate", func(t *testing.T) {
		f := newAssetFixture(t)

		_, err := f.useCase.Update(ctx, uuid.Must(uuid.NewV7()), UpdateAssetInput{Password: ptr("")})
		assert.ErrorIs(t, err, domain.ErrEmptyUpdate)
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("Error_Validation", func(t *testing.T) {
		f := newAssetFixture(t)

		_, err := f.useCase.Update(ctx, uuid.Must(uuid.NewV7()), UpdateAssetInput{URL: ptr("not a url")})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newAssetFixture(t)
		id := uuid.Must(uuid.NewV7())
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, id).Return(nil, domain.ErrAssetNotFound)

		_, err := f.useCase.Update(ctx, id, UpdateAssetInput{Priority: ptr(domain.PriorityHigh)})
		assert.ErrorIs(t, err, domain.ErrAssetNotFound)
	})

	t.Run("Error_OutboxFailure", func(t *testing.T) {
		f := newAssetFixture(t)
		asset := storedAsset(t, f)
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		f.assetRepo.On("GetByID", ctx, asset.ID).Return(asset, nil)
		f.assetRepo.On("Update", ctx, asset).Return(nil)
		f.assetRepo.On("CreatePasswordChangeLog", ctx, mock.Anything).Return(nil)
		f.outboxRepo.On("Create", ctx, mock.Anything).Return(errors.New("outbox insert failed"))

		got, err := f.useCase.Update(ctx, asset.ID, UpdateAssetInput{Password: ptr("new-password")})
		assert.Nil(t, got)
		assert.EqualError(t, err, "outbox insert failed")
	})
}

func TestAssetUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assetRepo.On("Delete", ctx, id).Return(nil)

		require.NoError(t, f.useCase.Delete(ctx, id))
		f.assetRepo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newAssetFixture(t)
		f.assetRepo.On("Delete", ctx, id).Return(domain.ErrAssetNotFound)

		assert.ErrorIs(t, f.useCase.Delete(ctx, id), domain.ErrAssetNotFound)
	})
}
