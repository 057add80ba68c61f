package ports

import (
	"context"
	"time"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// ProviderProfile is the identity-provider view of a subject.
type ProviderProfile struct {
	Email string
	Role  domain.Role
}

// IdentityVerifier resolves a bearer credential to a profile via the remote
// identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*ProviderProfile, error)
}

// ManagementClient is the service-credential side of the identity provider:
// exchange our client credentials for a management token and enumerate users
// with it.
type ManagementClient interface {
	// ExchangeToken returns a fresh management token and how long it may be
	// cached before the provider considers it expired.
	ExchangeToken(ctx context.Context) (token string, ttl time.Duration, err error)
	CountUsers(ctx context.Context, token string) (int, error)
}

// TokenCache stores short-lived provider tokens. A miss is reported as an
// empty token, not an error.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
}
