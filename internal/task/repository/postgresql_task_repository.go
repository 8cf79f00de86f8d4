// Package repository provides data persistence implementations for tasks.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/database"
	apperrors "github.com/allisson/assetvault/internal/errors"
	"github.com/allisson/assetvault/internal/task/domain"
)

// Handler and creator are both joined so reads return their contact fields.
const (
	taskColumns = `t.id, t.company_id, t.title, t.description, t.status, t.handler_id, t.created_by_id,
		t.asset_id, t.due_date, t.files, t.created_at, t.updated_at,
		h.name, h.email, h.phone, c.name, c.email, c.phone`

	taskJoin = `FROM tasks t
		JOIN users h ON h.id = t.handler_id
		JOIN users c ON c.id = t.created_by_id`
)

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLTaskRepository handles task persistence for PostgreSQL
type PostgreSQLTaskRepository struct {
	db *sql.DB
}

// NewPostgreSQLTaskRepository creates a new PostgreSQLTaskRepository
func NewPostgreSQLTaskRepository(db *sql.DB) *PostgreSQLTaskRepository {
	return &PostgreSQLTaskRepository{
		db: db,
	}
}

// Create inserts a new task
func (r *PostgreSQLTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	querier := database.GetTx(ctx, r.db)

	files, err := encodeFiles(task.Files)
	if err != nil {
		return err
	}

	query := `INSERT INTO tasks (id, company_id, title, description, status, handler_id, created_by_id,
			  asset_id, due_date, files, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		task.ID,
		task.CompanyID,
		task.Title,
		task.Description,
		string(task.Status),
		task.HandlerID,
		task.CreatedByID,
		nullUUID(task.AssetID),
		task.DueDate,
		files,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create task")
	}
	return nil
}

// GetByID retrieves a task with its handler and creator
func (r *PostgreSQLTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + taskColumns + ` ` + taskJoin + ` WHERE t.id = $1`

	task, err := scanPostgreSQLTask(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get task by id")
	}

	return task, nil
}

// ListByCompany retrieves the tasks of a company matching filter, most recently updated first
func (r *PostgreSQLTaskRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	filter domain.ListFilter,
	offset, limit int,
) ([]*domain.Task, error) {
	querier := database.GetTx(ctx, r.db)

	args := []any{companyID}
	conditions := []string{"t.company_id = $1"}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, "t.status = $"+strconv.Itoa(len(args)))
	}
	if filter.HandlerID != nil {
		args = append(args, *filter.HandlerID)
		conditions = append(conditions, "t.handler_id = $"+strconv.Itoa(len(args)))
	}
	args = append(args, limit, offset)

	query := `SELECT ` + taskColumns + ` ` + taskJoin + `
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY t.updated_at DESC, t.id DESC
			  LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tasks")
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanPostgreSQLTask(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan task")
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tasks")
	}

	return tasks, nil
}

// Update stores every mutable field of the task
func (r *PostgreSQLTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	querier := database.GetTx(ctx, r.db)

	files, err := encodeFiles(task.Files)
	if err != nil {
		return err
	}

	query := `UPDATE tasks SET title = $1, description = $2, status = $3, handler_id = $4, asset_id = $5,
			  due_date = $6, files = $7, updated_at = $8
			  WHERE id = $9`

	result, err := querier.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		string(task.Status),
		task.HandlerID,
		nullUUID(task.AssetID),
		task.DueDate,
		files,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update task")
	}
	return requireAffected(result)
}

func scanPostgreSQLTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status string
	var assetID uuid.NullUUID
	var dueDate sql.NullTime
	var files []byte
	handler := domain.Contact{}
	creator := domain.Contact{}

	err := row.Scan(
		&task.ID,
		&task.CompanyID,
		&task.Title,
		&task.Description,
		&status,
		&task.HandlerID,
		&task.CreatedByID,
		&assetID,
		&dueDate,
		&files,
		&task.CreatedAt,
		&task.UpdatedAt,
		&handler.Name,
		&handler.Email,
		&handler.Phone,
		&creator.Name,
		&creator.Email,
		&creator.Phone,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.Status(status)
	if assetID.Valid {
		task.AssetID = &assetID.UUID
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if task.Files, err = decodeFiles(files); err != nil {
		return nil, err
	}
	handler.ID = task.HandlerID
	creator.ID = task.CreatedByID
	task.Handler = &handler
	task.CreatedBy = &creator

	return &task, nil
}

// encodeFiles renders the file list as the JSON stored in the files column.
func encodeFiles(files []string) (string, error) {
	if files == nil {
		files = []string{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode task files")
	}
	return string(data), nil
}

func decodeFiles(data []byte) ([]string, error) {
	files := make([]string, 0)
	if len(data) == 0 {
		return files, nil
	}
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode task files")
	}
	return files, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update task")
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
