package dto

import (
	"time"

	"github.com/allisson/assetvault/internal/asset/domain"
)

// ContactResponse is the responsible user shown with an asset.
type ContactResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

// AssetResponse is an asset summary. It never carries the password.
type AssetResponse struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"company_id"`
	Brand             *string          `json:"brand,omitempty"`
	Type              string           `json:"type"`
	URL               string           `json:"url"`
	Username          string           `json:"username"`
	Email             string           `json:"email"`
	Status            string           `json:"status"`
	TwoFactorStatus   string           `json:"two_factor_status"`
	Priority          string           `json:"priority"`
	ResponsibleUserID *string          `json:"responsible_user_id"`
	ResponsibleUser   *ContactResponse `json:"responsible_user"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// AssetDetailsResponse is an asset with its password. Password holds the
// decrypted value, or "[Encrypted - Cannot Decrypt]" when the stored envelope
// cannot be read.
type AssetDetailsResponse struct {
	AssetResponse
	Password string `json:"password"`
}

// ListAssetsResponse represents a paginated list of asset summaries.
type ListAssetsResponse struct {
	Data []AssetResponse `json:"data"`
}

// MapAssetToResponse converts a domain asset to a summary response.
func MapAssetToResponse(asset *domain.Asset) AssetResponse {
	response := AssetResponse{
		ID:              asset.ID.String(),
		CompanyID:       asset.CompanyID.String(),
		Brand:           asset.Brand,
		Type:            string(asset.Type),
		URL:             asset.URL,
		Username:        asset.Username,
		Email:           asset.Email,
		Status:          string(asset.Status),
		TwoFactorStatus: string(asset.TwoFactorStatus),
		Priority:        string(asset.Priority),
		CreatedAt:       asset.CreatedAt,
		UpdatedAt:       asset.UpdatedAt,
	}
	if asset.ResponsibleUserID != nil {
		id := asset.ResponsibleUserID.String()
		response.ResponsibleUserID = &id
	}
	if asset.ResponsibleUser != nil {
		response.ResponsibleUser = &ContactResponse{
			ID:    asset.ResponsibleUser.ID.String(),
			Name:  asset.ResponsibleUser.Name,
			Phone: asset.ResponsibleUser.Phone,
		}
	}
	return response
}

// MapDetailsToResponse converts asset details to a response including the password.
func MapDetailsToResponse(details *domain.Details) AssetDetailsResponse {
	return AssetDetailsResponse{
		AssetResponse: MapAssetToResponse(details.Asset),
		Password:      details.Password.Display(),
	}
}

// MapAssetsToListResponse converts a slice of domain assets to a list response.
func MapAssetsToListResponse(assets []*domain.Asset) ListAssetsResponse {
	data := make([]AssetResponse, 0, len(assets))
	for _, asset := range assets {
		data = append(data, MapAssetToResponse(asset))
	}
	return ListAssetsResponse{Data: data}
}
