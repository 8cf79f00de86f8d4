package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/database"
	apperrors "github.com/allisson/assetvault/internal/errors"
	"github.com/allisson/assetvault/internal/task/domain"
)

// MySQLTaskRepository handles task persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLTaskRepository struct {
	db *sql.DB
}

// NewMySQLTaskRepository creates a new MySQLTaskRepository
func NewMySQLTaskRepository(db *sql.DB) *MySQLTaskRepository {
	return &MySQLTaskRepository{
		db: db,
	}
}

// Create inserts a new task
func (r *MySQLTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	querier := database.GetTx(ctx, r.db)

	ids, err := marshalIDs(task.ID, task.CompanyID, task.HandlerID, task.CreatedByID)
	if err != nil {
		return err
	}
	assetID, err := marshalNullableUUID(task.AssetID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal asset id")
	}
	files, err := encodeFiles(task.Files)
	if err != nil {
		return err
	}

	query := `INSERT INTO tasks (id, company_id, title, description, status, handler_id, created_by_id,
			  asset_id, due_date, files, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		ids[0],
		ids[1],
		task.Title,
		task.Description,
		string(task.Status),
		ids[2],
		ids[3],
		assetID,
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
func (r *MySQLTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + taskColumns + ` ` + taskJoin + ` WHERE t.id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal task id")
	}

	task, err := scanMySQLTask(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get task by id")
	}

	return task, nil
}

// ListByCompany retrieves the tasks of a company matching filter, most recently updated first
func (r *MySQLTaskRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	filter domain.ListFilter,
	offset, limit int,
) ([]*domain.Task, error) {
	querier := database.GetTx(ctx, r.db)

	companyIDBytes, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	args := []any{companyIDBytes}
	conditions := []string{"t.company_id = ?"}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, "t.status = ?")
	}
	if filter.HandlerID != nil {
		handlerID, err := filter.HandlerID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal handler id")
		}
		args = append(args, handlerID)
		conditions = append(conditions, "t.handler_id = ?")
	}
	args = append(args, limit, offset)

	query := `SELECT ` + taskColumns + ` ` + taskJoin + `
			  WHERE ` + strings.Join(conditions, " AND ") + `
			  ORDER BY t.updated_at DESC, t.id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tasks")
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanMySQLTask(rows)
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
func (r *MySQLTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	querier := database.GetTx(ctx, r.db)

	ids, err := marshalIDs(task.HandlerID, task.ID)
	if err != nil {
		return err
	}
	assetID, err := marshalNullableUUID(task.AssetID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal asset id")
	}
	files, err := encodeFiles(task.Files)
	if err != nil {
		return err
	}

	query := `UPDATE tasks SET title = ?, description = ?, status = ?, handler_id = ?, asset_id = ?,
			  due_date = ?, files = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		string(task.Status),
		ids[0],
		assetID,
		task.DueDate,
		files,
		task.UpdatedAt,
		ids[1],
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update task")
	}
	return requireAffected(result)
}

func scanMySQLTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var id, companyID, handlerID, createdByID, assetID []byte
	var status string
	var dueDate sql.NullTime
	var files []byte
	handler := domain.Contact{}
	creator := domain.Contact{}

	err := row.Scan(
		&id,
		&companyID,
		&task.Title,
		&task.Description,
		&status,
		&handlerID,
		&createdByID,
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

	if err := task.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal task id")
	}
	if err := task.CompanyID.UnmarshalBinary(companyID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}
	if err := task.HandlerID.UnmarshalBinary(handlerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal handler id")
	}
	if err := task.CreatedByID.UnmarshalBinary(createdByID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal creator id")
	}
	if assetID != nil {
		var linked uuid.UUID
		if err := linked.UnmarshalBinary(assetID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal asset id")
		}
		task.AssetID = &linked
	}

	task.Status = domain.Status(status)
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

func marshalIDs(ids ...uuid.UUID) ([][]byte, error) {
	out := make([][]byte, len(ids))
	for i, id := range ids {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal id")
		}
		out[i] = b
	}
	return out, nil
}

// marshalNullableUUID returns nil for a nil id so the column is stored as NULL.
func marshalNullableUUID(id *uuid.UUID) (any, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}
