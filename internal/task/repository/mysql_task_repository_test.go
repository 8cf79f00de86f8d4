package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/assetvault/internal/task/domain"
)

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLTaskRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMock(t)
	task := newTestTask()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(
			mustBinary(t, task.ID), mustBinary(t, task.CompanyID), task.Title, task.Description, "In Progress",
			mustBinary(t, task.HandlerID), mustBinary(t, task.CreatedByID), mustBinary(t, *task.AssetID),
			*task.DueDate, `["https://files.acme.com/brief.pdf"]`, task.CreatedAt, task.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewMySQLTaskRepository(db).Create(ctx, task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLTaskRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMock(t)
		task := newTestTask()
		mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id = ?")).
			WithArgs(mustBinary(t, task.ID)).
			WillReturnRows(sqlmock.NewRows(taskColumnNames).AddRow(
				mustBinary(t, task.ID), mustBinary(t, task.CompanyID), task.Title, task.Description, "Done",
				mustBinary(t, task.HandlerID), mustBinary(t, task.CreatedByID), mustBinary(t, *task.AssetID),
				*task.DueDate, []byte(`["a.pdf","b.pdf"]`), task.CreatedAt, task.UpdatedAt,
				"Mehmet Kaya", "mehmet@acme.com", nil, "Ayşe Yılmaz", "ayse@acme.com", nil,
			))

		got, err := NewMySQLTaskRepository(db).GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, task.CompanyID, got.CompanyID)
		assert.Equal(t, task.AssetID, got.AssetID)
		assert.Equal(t, domain.StatusDone, got.Status)
		assert.Equal(t, []string{"a.pdf", "b.pdf"}, got.Files)
		assert.Equal(t, task.HandlerID, got.Handler.ID)
		assert.Equal(t, "ayse@acme.com", got.CreatedBy.Email)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := setupMock(t)
		mock.ExpectQuery("FROM tasks t").WillReturnError(sql.ErrNoRows)

		_, err := NewMySQLTaskRepository(db).GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("Error_InvalidHandlerID", func(t *testing.T) {
		db, mock := setupMock(t)
		task := newTestTask()
		mock.ExpectQuery("FROM tasks t").
			WillReturnRows(sqlmock.NewRows(taskColumnNames).AddRow(
				mustBinary(t, task.ID), mustBinary(t, task.CompanyID), task.Title, task.Description, "Done",
				[]byte{0x02}, mustBinary(t, task.CreatedByID), nil, nil, []byte(`[]`), task.CreatedAt, task.UpdatedAt,
				"Mehmet Kaya", "mehmet@acme.com", nil, "Ayşe Yılmaz", "ayse@acme.com", nil,
			))

		_, err := NewMySQLTaskRepository(db).GetByID(ctx, task.ID)
		assert.ErrorContains(t, err, "failed to unmarshal handler id")
	})
}

func TestMySQLTaskRepository_ListByCompany(t *testing.T) {
	ctx := context.Background()
	db, mock := setupMock(t)
	companyID := uuid.Must(uuid.NewV7())
	handlerID := uuid.Must(uuid.NewV7())
	status := domain.StatusAwaitingConfirmation

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.company_id = ? AND t.status = ? AND t.handler_id = ?")).
		WithArgs(mustBinary(t, companyID), "Awaiting Confirmation", mustBinary(t, handlerID), 20, 40).
		WillReturnRows(sqlmock.NewRows(taskColumnNames))

	tasks, err := NewMySQLTaskRepository(db).ListByCompany(
		ctx, companyID, domain.ListFilter{Status: &status, HandlerID: &handlerID}, 40, 20,
	)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLTaskRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupMock(t)
		task := newTestTask()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET")).
			WithArgs(
				task.Title, task.Description, "In Progress", mustBinary(t, task.HandlerID),
				mustBinary(t, *task.AssetID), *task.DueDate, `["https://files.acme.com/brief.pdf"]`,
				task.UpdatedAt, mustBinary(t, task.ID),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLTaskRepository(db).Update(ctx, task))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := setupMock(t)
		mock.ExpectExec("UPDATE tasks SET").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewMySQLTaskRepository(db).Update(ctx, newTestTask())
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}
