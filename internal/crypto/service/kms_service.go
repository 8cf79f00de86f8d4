package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/assetvault/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsSchemes maps KMS_PROVIDER values to the URL scheme of their key URIs.
var kmsSchemes = map[string]string{
	"localsecrets":  "base64key",
	"gcpkms":        "gcpkms",
	"awskms":        "awskms",
	"azurekeyvault": "azurekeyvault",
	"hashivault":    "hashivault",
}

// KMSService opens keepers that wrap the encryption key.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI. Supported schemes: gcpkms://,
	// awskms://, azurekeyvault://, hashivault://, base64key://.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMS service backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper returns a *secrets.Keeper as a KMSKeeper.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// ValidateKMSConfig checks that provider is supported and that keyURI belongs
// to it, so a key wrapped by one KMS is never sent to another.
func ValidateKMSConfig(provider, keyURI string) error {
	scheme, ok := kmsSchemes[provider]
	if !ok {
		return fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedKMSProvider, provider)
	}
	if keyURI == "" {
		return cryptoDomain.ErrKMSKeyURIRequired
	}

	u, err := url.Parse(keyURI)
	if err != nil || u.Scheme != scheme {
		return fmt.Errorf("%w: %s keys use %s:// URIs", cryptoDomain.ErrKMSProviderMismatch, provider, scheme)
	}
	return nil
}
