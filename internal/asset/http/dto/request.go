// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/assetvault/internal/asset/domain"
	"github.com/allisson/assetvault/internal/asset/usecase"
	customValidation "github.com/allisson/assetvault/internal/validation"
)

// CreateAssetRequest contains the parameters for creating an asset.
// Enum and format rules are enforced by the use case.
type CreateAssetRequest struct {
	CompanyID         string  `json:"company_id"`
	Brand             *string `json:"brand"`
	Type              string  `json:"type"`
	URL               string  `json:"url"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Password          string  `json:"password"`
	Status            string  `json:"status"`
	TwoFactorStatus   string  `json:"two_factor_status"`
	Priority          string  `json:"priority"`
	ResponsibleUserID *string `json:"responsible_user_id"`
}

// Validate checks required fields and identifier formats.
func (r *CreateAssetRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CompanyID, validation.Required, customValidation.UUID),
		validation.Field(&r.Type, validation.Required),
		validation.Field(&r.URL, validation.Required),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Status, validation.Required),
		validation.Field(&r.TwoFactorStatus, validation.Required),
		validation.Field(&r.Priority, validation.Required),
		validation.Field(&r.ResponsibleUserID, validation.NilOrNotEmpty, customValidation.UUID),
	)
}

// ToInput converts the request to a use case input. Call Validate first.
func (r *CreateAssetRequest) ToInput() usecase.CreateAssetInput {
	return usecase.CreateAssetInput{
		CompanyID:         uuid.MustParse(r.CompanyID),
		Brand:             r.Brand,
		Type:              domain.Type(r.Type),
		URL:               r.URL,
		Username:          r.Username,
		Email:             r.Email,
		Password:          r.Password,
		Status:            domain.Status(r.Status),
		TwoFactorStatus:   domain.TwoFactorStatus(r.TwoFactorStatus),
		Priority:          domain.Priority(r.Priority),
		ResponsibleUserID: parseOptionalUUID(r.ResponsibleUserID),
	}
}

// UpdateAssetRequest contains the fields to change. Absent fields are kept, and
// an empty password leaves the stored password unchanged.
type UpdateAssetRequest struct {
	Brand             *string `json:"brand"`
	Type              *string `json:"type"`
	URL               *string `json:"url"`
	Username          *string `json:"username"`
	Email             *string `json:"email"`
	Password          *string `json:"password"`
	Status            *string `json:"status"`
	TwoFactorStatus   *string `json:"two_factor_status"`
	Priority          *string `json:"priority"`
	ResponsibleUserID *string `json:"responsible_user_id"`
	ChangedByID       *string `json:"changed_by_id"`
}

// Validate checks identifier formats.
func (r *UpdateAssetRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ResponsibleUserID, validation.NilOrNotEmpty, customValidation.UUID),
		validation.Field(&r.ChangedByID, validation.NilOrNotEmpty, customValidation.UUID),
	)
}

// ToInput converts the request to a use case input. Call Validate first.
func (r *UpdateAssetRequest) ToInput() usecase.UpdateAssetInput {
	return usecase.UpdateAssetInput{
		Brand:             r.Brand,
		Type:              convertOptional[domain.Type](r.Type),
		URL:               r.URL,
		Username:          r.Username,
		Email:             r.Email,
		Password:          r.Password,
		Status:            convertOptional[domain.Status](r.Status),
		TwoFactorStatus:   convertOptional[domain.TwoFactorStatus](r.TwoFactorStatus),
		Priority:          convertOptional[domain.Priority](r.Priority),
		ResponsibleUserID: parseOptionalUUID(r.ResponsibleUserID),
		ChangedByID:       parseOptionalUUID(r.ChangedByID),
	}
}

func convertOptional[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}

func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id := uuid.MustParse(*s)
	return &id
}
