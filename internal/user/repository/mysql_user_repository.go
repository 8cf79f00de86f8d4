package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/database"
	"github.com/allisson/assetvault/internal/user/domain"

	apperrors "github.com/allisson/assetvault/internal/errors"
)

// MySQLUserRepository handles company and user persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// CreateCompany inserts a new company
func (r *MySQLUserRepository) CreateCompany(ctx context.Context, company *domain.Company) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO companies (id, name, created_at) VALUES (?, ?, ?)`

	id, err := company.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	_, err = querier.ExecContext(ctx, query, id, company.Name, company.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create company")
	}
	return nil
}

// GetCompanyByID retrieves a company by ID
func (r *MySQLUserRepository) GetCompanyByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM companies WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	var rawID []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(&rawID, &company.Name, &company.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get company by id")
	}

	if err := company.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}

	return &company, nil
}

// Create inserts a new user
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, company_id, name, email, phone, role, password_hash, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}
	companyID, err := user.CompanyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		companyID,
		user.Name,
		user.Email,
		user.Phone,
		string(user.Role),
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, company_id, name, email, phone, role, password_hash, created_at, updated_at
			  FROM users WHERE id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	user, err := scanMySQLUser(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by id")
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, company_id, name, email, phone, role, password_hash, created_at, updated_at
			  FROM users WHERE email = ?`

	user, err := scanMySQLUser(querier.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by email")
	}

	return user, nil
}

// ListByCompany retrieves the users of a company ordered by name
func (r *MySQLUserRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, company_id, name, email, phone, role, password_hash, created_at, updated_at
			  FROM users WHERE company_id = ?
			  ORDER BY name ASC, id ASC
			  LIMIT ? OFFSET ?`

	companyIDBytes, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	rows, err := querier.QueryContext(ctx, query, companyIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanMySQLUser(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	return users, nil
}

func scanMySQLUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var id, companyID []byte
	var role string

	err := row.Scan(
		&id,
		&companyID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := user.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := user.CompanyID.UnmarshalBinary(companyID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}

	user.Role = domain.Role(role)
	return &user, nil
}
