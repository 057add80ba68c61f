// Package auth0 implements the identity-provider collaborators against an
// Auth0 tenant: bearer-token introspection through /userinfo and the
// client-credentials exchange used by the management API.
package auth0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// Custom claim namespaces the tenant rules attach to userinfo payloads.
const (
	roleClaim  = "https://role"
	emailClaim = "https://email"
)

const defaultTokenTTL = 24*time.Hour - time.Second

// Config carries the tenant settings.
type Config struct {
	// Domain is the tenant host, e.g. "smart-city-lviv.eu.auth0.com".
	Domain       string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	// BaseURL overrides the https://<Domain> base when non-empty. Tests point
	// it at a local server.
	BaseURL string
}

// Client talks to the Auth0 tenant. It implements both
// ports.IdentityVerifier and ports.ManagementClient.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}}
}

// Verify introspects credential against /userinfo. The profile is usable
// only when the tenant's custom role and email claims are both present;
// anything else is a provider error, with rate limiting reported separately
// so callers can advise a retry.
func (c *Client) Verify(ctx context.Context, credential string) (*ports.ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/userinfo"), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read userinfo: %v", domain.ErrProviderUnavailable, err)
	}

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrProviderRateLimited
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", domain.ErrProviderUnavailable, res.StatusCode)
	}

	var profile map[string]any
	if err := json.Unmarshal(body, &profile); err != nil {
		// Auth0 answers some throttled requests with a plain-text body.
		if bytes.Contains(body, []byte("Too Many Requests")) {
			return nil, domain.ErrProviderRateLimited
		}
		return nil, fmt.Errorf("%w: malformed userinfo payload", domain.ErrProviderUnavailable)
	}

	role, _ := profile[roleClaim].(string)
	email, _ := profile[emailClaim].(string)
	if role == "" || email == "" {
		return nil, domain.ErrIdentityMismatch
	}

	return &ports.ProviderProfile{Email: email, Role: domain.Role(role)}, nil
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Audience     string `json:"audience"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ExchangeToken performs the client-credentials grant for the management API.
// The returned TTL is taken from the token's own exp claim; when the token is
// opaque the tenant's 24h default applies.
func (c *Client) ExchangeToken(ctx context.Context) (string, time.Duration, error) {
	payload, err := json.Marshal(tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		Audience:     c.url("/api/v2/"),
	})
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/oauth/token"), bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", 0, wrapTransportErr(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: token exchange status %d", domain.ErrProviderUnavailable, res.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tr); err != nil || tr.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: malformed token response", domain.ErrProviderUnavailable)
	}

	return tr.AccessToken, tokenTTL(tr.AccessToken), nil
}

// CountUsers enumerates tenant users with a management token and returns how
// many there are.
func (c *Client) CountUsers(ctx context.Context, token string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/v2/users"), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return 0, wrapTransportErr(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: users status %d", domain.ErrProviderUnavailable, res.StatusCode)
	}

	var users []json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&users); err != nil {
		return 0, fmt.Errorf("%w: malformed users payload", domain.ErrProviderUnavailable)
	}
	return len(users), nil
}

func (c *Client) url(path string) string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL + path
	}
	return "https://" + c.cfg.Domain + path
}

// tokenTTL extracts the exp claim from a JWT access token without verifying
// the signature; only the provider's own expiry matters for cache lifetime.
func tokenTTL(token string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return defaultTokenTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return defaultTokenTTL
	}
	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return defaultTokenTTL
	}
	return ttl
}

func wrapTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrVerifyTimeout
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.ErrVerifyTimeout
	}
	return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
}
