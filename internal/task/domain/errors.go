package domain

import (
	"github.com/allisson/assetvault/internal/errors"
)

// Domain-specific errors for task operations.
var (
	// ErrTaskNotFound indicates the requested task does not exist.
	ErrTaskNotFound = errors.Wrap(errors.ErrNotFound, "task not found")

	// ErrHandlerCompanyMismatch indicates the handler does not exist or belongs
	// to a different company than the task.
	ErrHandlerCompanyMismatch = errors.Wrap(errors.ErrInvalidInput, "handler must belong to the same company")

	// ErrAssetCompanyMismatch indicates the linked asset does not exist or belongs
	// to a different company than the task.
	ErrAssetCompanyMismatch = errors.Wrap(errors.ErrInvalidInput, "asset must belong to the same company")

	// ErrCreatorNotFound indicates the creating user does not exist.
	ErrCreatorNotFound = errors.Wrap(errors.ErrInvalidInput, "created by user not found")

	// ErrEmptyUpdate indicates an update request carried no fields.
	ErrEmptyUpdate = errors.Wrap(errors.ErrInvalidInput, "no fields to update")
)
