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

// MySQLAssetRepository handles asset persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLAssetRepository struct {
	db *sql.DB
}

// NewMySQLAssetRepository creates a new MySQLAssetRepository
func NewMySQLAssetRepository(db *sql.DB) *MySQLAssetRepository {
	return &MySQLAssetRepository{
		db: db,
	}
}

// Create inserts a new asset
func (r *MySQLAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO assets (id, company_id, brand, type, url, username, email,
			  password_ciphertext, password_iv, password_tag, status, two_factor_status, priority,
			  responsible_user_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := asset.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal asset id")
	}
	companyID, err := asset.CompanyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}
	responsibleUserID, err := marshalNullableUUID(asset.ResponsibleUserID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal responsible user id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		companyID,
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
		responsibleUserID,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create asset")
	}
	return nil
}

// GetByID retrieves an asset with its password envelope
func (r *MySQLAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + assetDetailColumns + ` ` + assetJoin + ` WHERE a.id = ?`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal asset id")
	}

	asset, err := scanMySQLAsset(querier.QueryRowContext(ctx, query, idBytes), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get asset by id")
	}

	return asset, nil
}

// ListByCompany retrieves asset summaries of a company, most recently updated first
func (r *MySQLAssetRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*domain.Asset, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + assetSummaryColumns + ` ` + assetJoin + `
			  WHERE a.company_id = ?
			  ORDER BY a.updated_at DESC, a.id DESC
			  LIMIT ? OFFSET ?`

	companyIDBytes, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	rows, err := querier.QueryContext(ctx, query, companyIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list assets")
	}
	defer func() {
		_ = rows.Close()
	}()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanMySQLAsset(rows, false)
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
func (r *MySQLAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE assets SET brand = ?, type = ?, url = ?, username = ?, email = ?,
			  password_ciphertext = ?, password_iv = ?, password_tag = ?,
			  status = ?, two_factor_status = ?, priority = ?, responsible_user_id = ?, updated_at = ?
			  WHERE id = ?`

	id, err := asset.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal asset id")
	}
	responsibleUserID, err := marshalNullableUUID(asset.ResponsibleUserID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal responsible user id")
	}

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
		responsibleUserID,
		asset.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update asset")
	}
	return requireAffected(result, "failed to update asset")
}

// Delete removes an asset; its password change logs go with it
func (r *MySQLAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal asset id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete asset")
	}
	return requireAffected(result, "failed to delete asset")
}

// CreatePasswordChangeLog inserts a password change log entry
func (r *MySQLAssetRepository) CreatePasswordChangeLog(ctx context.Context, log *domain.PasswordChangeLog) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO password_change_logs (id, asset_id, changed_by_id, created_at) VALUES (?, ?, ?, ?)`

	id, err := log.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal password change log id")
	}
	assetID, err := log.AssetID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal asset id")
	}
	changedByID, err := marshalNullableUUID(log.ChangedByID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal changed by id")
	}

	_, err = querier.ExecContext(ctx, query, id, assetID, changedByID, log.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create password change log")
	}
	return nil
}

// ListEnvelopes returns up to limit envelopes with id greater than afterID, in id order
func (r *MySQLAssetRepository) ListEnvelopes(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*domain.StoredEnvelope, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, password_ciphertext, password_iv, password_tag FROM assets
			  WHERE id > ? ORDER BY id LIMIT ?`

	afterIDBytes, err := afterID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal asset id")
	}

	rows, err := querier.QueryContext(ctx, query, afterIDBytes, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list asset envelopes")
	}
	defer func() {
		_ = rows.Close()
	}()

	envelopes := make([]*domain.StoredEnvelope, 0, limit)
	for rows.Next() {
		var stored domain.StoredEnvelope
		var id []byte
		err := rows.Scan(&id, &stored.Envelope.CipherText, &stored.Envelope.IV, &stored.Envelope.Tag)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan asset envelope")
		}
		if err := stored.AssetID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal asset id")
		}
		envelopes = append(envelopes, &stored)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate asset envelopes")
	}

	return envelopes, nil
}

// UpdatePassword replaces the envelope of an asset without touching updated_at
func (r *MySQLAssetRepository) UpdatePassword(
	ctx context.Context,
	assetID uuid.UUID,
	envelope cryptoDomain.Envelope,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE assets SET password_ciphertext = ?, password_iv = ?, password_tag = ? WHERE id = ?`

	id, err := assetID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal asset id")
	}

	result, err := querier.ExecContext(ctx, query, envelope.CipherText, envelope.IV, envelope.Tag, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update asset password")
	}
	return requireAffected(result, "failed to update asset password")
}

func scanMySQLAsset(row rowScanner, withPassword bool) (*domain.Asset, error) {
	var asset domain.Asset
	var id, companyID, responsibleUserID, contactID []byte
	var assetType, status, twoFactorStatus, priority string
	var contact nullContact

	dest := []any{
		&id,
		&companyID,
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

	if err := asset.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal asset id")
	}
	if err := asset.CompanyID.UnmarshalBinary(companyID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}
	if responsibleUserID != nil {
		var userID uuid.UUID
		if err := userID.UnmarshalBinary(responsibleUserID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal responsible user id")
		}
		asset.ResponsibleUserID = &userID
	}
	if contactID != nil {
		var userID uuid.UUID
		if err := userID.UnmarshalBinary(contactID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal responsible user id")
		}
		asset.ResponsibleUser = contact.toDomain(userID)
	}

	asset.Type = domain.Type(assetType)
	asset.Status = domain.Status(status)
	asset.TwoFactorStatus = domain.TwoFactorStatus(twoFactorStatus)
	asset.Priority = domain.Priority(priority)

	return &asset, nil
}

// marshalNullableUUID returns nil for a nil id so the column is stored as NULL.
func marshalNullableUUID(id *uuid.UUID) (any, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}
