// Package repository provides data persistence implementations for assets.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/assetvault/internal/asset/domain"
	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
	"github.com/allisson/assetvault/internal/database"

	apperrors "github.com/allisson/assetvault/internal/errors"
)

// Column lists shared by both drivers. The responsible user is joined so
// reads return its contact fields.
const (
	assetDetailColumns = `a.id, a.company_id, a.brand, a.type, a.url, a.username, a.email,
		a.password_ciphertext, a.password_iv, a.password_tag,
		a.status, a.two_factor_status, a.priority, a.responsible_user_id, a.created_at, a.updated_at,
		u.id, u.name, u.email, u.phone`

	assetSummaryColumns = `a.id, a.company_id, a.brand, a.type, a.url, a.username, a.email,
		a.status, a.two_factor_status, a.priority, a.responsible_user_id, a.created_at, a.updated_at,
		u.id, u.name, u.email, u.phone`

	assetJoin = `FROM assets a LEFT JOIN users u ON u.id = a.responsible_user_id`
)

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLAssetRepository handles asset persistence for PostgreSQL
type PostgreSQLAssetRepository struct {
	db *sql.DB
}

// NewPostgreSQLAssetRepository creates a new PostgreSQLAssetRepository
func NewPostgreSQLAssetRepository(db *sql.DB) *PostgreSQLAssetRepository {
	return &PostgreSQLAssetRepository{
		db: db,
	}
}

// Create inserts a new asset
func (r *PostgreSQLAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO assets (id, company_id, brand, type, url, username, email,
			  password_ciphertext, password_iv, password_tag, status, two_factor_status, priority,
			  responsible_user_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := querier.ExecContext(
		ctx,
		query,
		asset.ID,
		asset.CompanyID,
		asset.Brand,
		string(asset.Type),
		asset.URL,
		asset.Username,
		asset.Email,
		asset.Password.CipherText,
		asset.Password.IV,
		asset.Password.Tag,
		string(asset.Status),
		string(asset.TwoFactorStatus),
		string(asset.Priority),
		asset.ResponsibleUserID,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create asset")
	}
	return nil
}

// GetByID retrieves an asset with its password envelope
func (r *PostgreSQLAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + assetDetailColumns + ` ` + assetJoin + ` WHERE a.id = $1`

	asset, err := scanPostgreSQLAsset(querier.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get asset by id")
	}

	return asset, nil
}

// ListByCompany retrieves asset summaries of a company, most recently updated first
func (r *PostgreSQLAssetRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*domain.Asset, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + assetSummaryColumns + ` ` + assetJoin + `
			  WHERE a.company_id = $1
			  ORDER BY a.updated_at DESC, a.id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list assets")
	}
	defer func() {
		_ = rows.Close()
	}()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanPostgreSQLAsset(rows, false)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan asset")
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate assets")
	}

	return assets, nil
}

// Update stores every mutable field of the asset, including the envelope
func (r *PostgreSQLAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE assets SET brand = $1, type = $2, url = $3, username = $4, email = $5,
			  password_ciphertext = $6, password_iv = $7, password_tag = $8,
			  status = $9, two_factor_status = $10, priority = $11, responsible_user_id = $12, updated_at = $13
			  WHERE id = $14`

	result, err := querier.ExecContext(
		ctx,
		query,
		asset.Brand,
		string(asset.Type),
		asset.URL,
		asset.Username,
		asset.Email,
		asset.Password.CipherText,
		asset.Password.IV,
		asset.Password.Tag,
		string(asset.Status),
		string(asset.TwoFactorStatus),
		string(asset.Priority),
		asset.ResponsibleUserID,
		asset.UpdatedAt,
		asset.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update asset")
	}
	return requireAffected(result, "failed to update asset")
}

// Delete removes an asset; its password change logs go with it
func (r *PostgreSQLAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete asset")
	}
	return requireAffected(result, "failed to delete asset")
}

// CreatePasswordChangeLog inserts a password change log entry
func (r *PostgreSQLAssetRepository) CreatePasswordChangeLog(
	ctx context.Context,
	log *domain.PasswordChangeLog,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO password_change_logs (id, asset_id, changed_by_id, created_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, log.ID, log.AssetID, log.ChangedByID, log.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create password change log")
	}
	return nil
}

// ListEnvelopes returns up to limit envelopes with id greater than afterID, in id order
func (r *PostgreSQLAssetRepository) ListEnvelopes(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*domain.StoredEnvelope, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, password_ciphertext, password_iv, password_tag FROM assets
			  WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list asset envelopes")
	}
	defer func() {
		_ = rows.Close()
	}()

	envelopes := make([]*domain.StoredEnvelope, 0, limit)
	for rows.Next() {
		var stored domain.StoredEnvelope
		err := rows.Scan(
			&stored.AssetID,
			&stored.Envelope.CipherText,
			&stored.Envelope.IV,
			&stored.Envelope.Tag,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan asset envelope")
		}
		envelopes = append(envelopes, &stored)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate asset envelopes")
	}

	return envelopes, nil
}

// UpdatePassword replaces the envelope of an asset without touching updated_at
func (r *PostgreSQLAssetRepository) UpdatePassword(
	ctx context.Context,
	assetID uuid.UUID,
	envelope cryptoDomain.Envelope,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE assets SET password_ciphertext = $1, password_iv = $2, password_tag = $3 WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, envelope.CipherText, envelope.IV, envelope.Tag, assetID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update asset password")
	}
	return requireAffected(result, "failed to update asset password")
}

func scanPostgreSQLAsset(row rowScanner, withPassword bool) (*domain.Asset, error) {
	var asset domain.Asset
	var assetType, status, twoFactorStatus, priority string
	var responsibleUserID, contactID uuid.NullUUID
	var contact nullContact

	dest := []any{
		&asset.ID,
		&asset.CompanyID,
		&asset.Brand,
		&assetType,
		&asset.URL,
		&asset.Username,
		&asset.Email,
	}
	if withPassword {
		dest = append(dest, &asset.Password.CipherText, &asset.Password.IV, &asset.Password.Tag)
	}
	dest = append(dest,
		&status,
		&twoFactorStatus,
		&priority,
		&responsibleUserID,
		&asset.CreatedAt,
		&asset.UpdatedAt,
		&contactID,
		&contact.name,
		&contact.email,
		&contact.phone,
	)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	asset.Type = domain.Type(assetType)
	asset.Status = domain.Status(status)
	asset.TwoFactorStatus = domain.TwoFactorStatus(twoFactorStatus)
	asset.Priority = domain.Priority(priority)
	if responsibleUserID.Valid {
		asset.ResponsibleUserID = &responsibleUserID.UUID
	}
	if contactID.Valid {
		asset.ResponsibleUser = contact.toDomain(contactID.UUID)
	}

	return &asset, nil
}

// nullContact holds the joined user columns, which are NULL without a responsible user.
type nullContact struct {
	name  sql.NullString
	email sql.NullString
	phone *string
}

func (c nullContact) toDomain(id uuid.UUID) *domain.Contact {
	return &domain.Contact{
		ID:    id,
		Name:  c.name.String,
		Email: c.email.String,
		Phone: c.phone,
	}
}

func requireAffected(result sql.Result, msg string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, msg)
	}
	if affected == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}
