// Package domain defines assets: company-owned accounts (social media, web
// sites, ad accounts) whose password is stored as an encrypted envelope.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"
)

// Type categorizes an asset.
type Type string

const (
	TypeSocialMedia  Type = "Sosyal Medya"
	TypeWebsite      Type = "Web Sitesi"
	TypeAnalytics    Type = "Analitik"
	TypeAdvertising  Type = "Reklam"
	TypeIntegration  Type = "Entegrasyon"
	TypeRealEstate   Type = "Emlak"
	TypeProfessional Type = "Profesyonel"
)

// Types lists every supported asset type.
var Types = []Type{
	TypeSocialMedia,
	TypeWebsite,
	TypeAnalytics,
	TypeAdvertising,
	TypeIntegration,
	TypeRealEstate,
	TypeProfessional,
}

// Status tells whether the account is in use.
type Status string

const (
	StatusActive   Status = "Aktif"
	StatusInactive Status = "YOK"
)

// Statuses lists every supported status.
var Statuses = []Status{StatusActive, StatusInactive}

// TwoFactorStatus is the second factor configured on the account.
type TwoFactorStatus string

const (
	TwoFactorSMS           TwoFactorStatus = "SMS"
	TwoFactorNone          TwoFactorStatus = "Yok"
	TwoFactorAuthenticator TwoFactorStatus = "Authenticator App"
)

// TwoFactorStatuses lists every supported two-factor status.
var TwoFactorStatuses = []TwoFactorStatus{TwoFactorSMS, TwoFactorNone, TwoFactorAuthenticator}

// Priority ranks assets for follow-up work.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every supported priority.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Contact is the subset of a user shown next to an asset.
type Contact struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone *string
}

// Asset is a tracked account. Password holds the encrypted envelope as stored;
// list queries leave it zero.
type Asset struct {
	ID                uuid.UUID
	CompanyID         uuid.UUID
	Brand             *string
	Type              Type
	URL               string
	Username          string
	Email             string
	Password          cryptoDomain.Envelope
	Status            Status
	TwoFactorStatus   TwoFactorStatus
	Priority          Priority
	ResponsibleUserID *uuid.UUID
	ResponsibleUser   *Contact
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Details is an asset together with the outcome of decrypting its password.
type Details struct {
	Asset    *Asset
	Password cryptoDomain.DecryptResult
}

// PasswordChangeLog records a password replacement.
type PasswordChangeLog struct {
	ID          uuid.UUID
	AssetID     uuid.UUID
	ChangedByID *uuid.UUID
	CreatedAt   time.Time
}

// StoredEnvelope is an asset password envelope as seen by the encryption
// maintenance jobs.
type StoredEnvelope struct {
	AssetID  uuid.UUID
	Envelope cryptoDomain.Envelope
}
