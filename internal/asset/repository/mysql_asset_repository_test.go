package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/assetvault/internal/asset/domain"
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
)

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLAssetRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMock(t)
		asset := newTestAsset()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assets")).
			WithArgs(
				mustBinary(t, asset.ID), mustBinary(t, asset.CompanyID), sqlmock.AnyArg(), "Sosyal Medya",
				asset.URL, asset.Username, asset.Email,
				asset.Password.CipherText, asset.Password.IV, asset.Password.Tag,
				"Aktif", "Authenticator App", "Medium", mustBinary(t, *asset.ResponsibleUserID),
				asset.CreatedAt, asset.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLAssetRepository(db).Create(ctx, asset))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_WithoutResponsibleUser", func(t *testing.T) {
		db, mock := setupMock(t)
		asset := newTestAsset()
		asset.ResponsibleUserID = nil
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assets")).
			WithArgs(
				mustBinary(t, asset.ID), mustBinary(t, asset.CompanyID), sqlmock.AnyArg(), "Sosyal Medya",
				asset.URL, asset.Username, asset.Email,
				asset.Password.CipherText, asset.Password.IV, asset.Password.Tag,
				"Aktif", "Authenticator App", "Medium", nil, asset.CreatedAt, asset.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLAssetRepository(db).Create(ctx, asset))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLAssetRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMock(t)
		asset := newTestAsset()
		mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = ?")).
			WithArgs(mustBinary(t, asset.ID)).
			WillReturnRows(sqlmock.NewRows(detailColumns).AddRow(
				mustBinary(t, asset.ID), mustBinary(t, asset.CompanyID), *asset.Brand, "Sosyal Medya", asset.URL,
				asset.Username, asset.Email,
				asset.Password.CipherText, asset.Password.IV, asset.Password.Tag,
				"Aktif", "Authenticator App", "Medium", mustBinary(t, *asset.ResponsibleUserID),
				asset.CreatedAt, asset.UpdatedAt,
				mustBinary(t, *asset.ResponsibleUserID), "Ayşe Yılmaz", "ayse@acme.com", nil,
			))

		got, err := NewMySQLAssetRepository(db).GetByID(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, asset.ID, got.ID)
		assert.Equal(t, asset.CompanyID, got.CompanyID)
		assert.Equal(t, asset.Password, got.Password)
		assert.Equal(t, asset.ResponsibleUserID, got.ResponsibleUserID)
		require.NotNil(t, got.ResponsibleUser)
		assert.Equal(t, "ayse@acme.com", got.ResponsibleUser.Email)
		assert.Nil(t, got.ResponsibleUser.Phone)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := setupMock(t)
		mock.ExpectQuery("FROM assets a").WillReturnError(sql.ErrNoRows)

		_, err := NewMySQLAssetRepository(db).GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrAssetNotFound)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		db, mock := setupMock(t)
		asset := newTestAsset()
		mock.ExpectQuery("FROM assets a").
			WillReturnRows(sqlmock.NewRows(detailColumns).AddRow(
				[]byte{0x01}, mustBinary(t, asset.CompanyID), nil, "Sosyal Medya", asset.URL,
				asset.Username, asset.Email, "", "", "",
				"Aktif", "SMS", "Low", nil, asset.CreatedAt, asset.UpdatedAt,
				nil, nil, nil, nil,
			))

		_, err := NewMySQLAssetRepository(db).GetByID(ctx, asset.ID)
		assert.ErrorContains(t, err, "failed to unmarshal asset id")
	})
}

func TestMySQLAssetRepository_ListByCompany(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMock(t)
	companyID := uuid.Must(uuid.NewV7())
	id := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT ? OFFSET ?")).
		WithArgs(mustBinary(t, companyID), 50, 0).
		WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(
			mustBinary(t, id), mustBinary(t, companyID), nil, "Emlak", "https://sahibinden.com", "acme",
			"emlak@acme.com", "Aktif", "SMS", "High", nil, now, now, nil, nil, nil, nil,
		))

	assets, err := NewMySQLAssetRepository(db).ListByCompany(ctx, companyID, 0, 50)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, id, assets[0].ID)
	assert.Equal(t, domain.TypeRealEstate, assets[0].Type)
	assert.Nil(t, assets[0].ResponsibleUser)
}

func TestMySQLAssetRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Update", func(t *testing.T) {
		db, mock := setupMock(t)
		asset := newTestAsset()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE assets SET brand = ?")).
			WithArgs(
				sqlmock.AnyArg(), "Sosyal Medya", asset.URL, asset.Username, asset.Email,
				asset.Password.CipherText, asset.Password.IV, asset.Password.Tag,
				"Aktif", "Authenticator App", "Medium", mustBinary(t, *asset.ResponsibleUserID),
				asset.UpdatedAt, mustBinary(t, asset.ID),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLAssetRepository(db).Update(ctx, asset))
	})

	t.Run("Error_DeleteNotFound", func(t *testing.T) {
		db, mock := setupMock(t)
		id := uuid.Must(uuid.NewV7())
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assets WHERE id = ?")).
			WithArgs(mustBinary(t, id)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, NewMySQLAssetRepository(db).Delete(ctx, id), domain.ErrAssetNotFound)
	})
}

func TestMySQLAssetRepository_CreatePasswordChangeLog(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMock(t)
	log := &domain.PasswordChangeLog{
		ID:        uuid.Must(uuid.NewV7()),
		AssetID:   uuid.Must(uuid.NewV7()),
		CreatedAt: time.Now().UTC(),
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO password_change_logs")).
		WithArgs(mustBinary(t, log.ID), mustBinary(t, log.AssetID), nil, log.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewMySQLAssetRepository(db).CreatePasswordChangeLog(ctx, log))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAssetRepository_Envelopes(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ListEnvelopes", func(t *testing.T) {
		db, mock := setupMock(t)
		after := uuid.Must(uuid.NewV7())
		id := uuid.Must(uuid.NewV7())
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id > ? ORDER BY id LIMIT ?")).
			WithArgs(mustBinary(t, after), 2).
			WillReturnRows(sqlmock.NewRows(envelopeColumns).AddRow(mustBinary(t, id), "YWJj", "aXY=", "dGFn"))

		envelopes, err := NewMySQLAssetRepository(db).ListEnvelopes(ctx, after, 2)
		require.NoError(t, err)
		require.Len(t, envelopes, 1)
		assert.Equal(t, id, envelopes[0].AssetID)
	})

	t.Run("Success_UpdatePassword", func(t *testing.T) {
		db, mock := setupMock(t)
		id := uuid.Must(uuid.NewV7())
		envelope := cryptoDomain.Envelope{CipherText: "YWJj", IV: "aXY=", Tag: "dGFn"}
		mock.ExpectExec(regexp.QuoteMeta("UPDATE assets SET password_ciphertext = ?")).
			WithArgs("YWJj", "aXY=", "dGFn", mustBinary(t, id)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLAssetRepository(db).UpdatePassword(ctx, id, envelope))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
