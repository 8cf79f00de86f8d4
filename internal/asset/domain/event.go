package domain

import (
	"github.com/google/uuid"
)

// EventPasswordChanged is the outbox event type written when an asset password
// is replaced.
const EventPasswordChanged = "asset.password_changed"

// PasswordChangedEvent is the outbox payload of EventPasswordChanged. It never
// carries the password.
type PasswordChangedEvent struct {
	AssetID           uuid.UUID  `json:"asset_id"`
	CompanyID         uuid.UUID  `json:"company_id"`
	URL               string     `json:"url"`
	Username          string     `json:"username"`
	ResponsibleUserID *uuid.UUID `json:"responsible_user_id,omitempty"`
	ChangedByID       *uuid.UUID `json:"changed_by_id,omitempty"`
}
