package domain

import (
	"github.com/allisson/assetvault/internal/errors"
)

// Domain-specific errors for asset operations.
var (
	// ErrAssetNotFound indicates the requested asset does not exist.
	ErrAssetNotFound = errors.Wrap(errors.ErrNotFound, "asset not found")

	// ErrResponsibleUserCompanyMismatch indicates the responsible user does not
	// exist or belongs to a different company than the asset.
	ErrResponsibleUserCompanyMismatch = errors.Wrap(
		errors.ErrInvalidInput,
		"responsible user must belong to the same company",
	)

	// ErrChangedByCompanyMismatch indicates the user recorded as making a change
	// does not exist or belongs to a different company than the asset.
	ErrChangedByCompanyMismatch = errors.Wrap(
		errors.ErrInvalidInput,
		"changed by user must belong to the same company",
	)

	// ErrEmptyUpdate indicates an update request carried no fields.
	ErrEmptyUpdate = errors.Wrap(errors.ErrInvalidInput, "no fields to update")
)
