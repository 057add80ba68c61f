package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

const mgmtTokenKey = "auth:mgmt-token"

// DirectoryService answers user-directory queries against the identity
// provider's management API, caching the client-credentials token until the
// provider expires it.
type DirectoryService struct {
	provider ports.ManagementClient
	tokens   ports.TokenCache
	log      zerolog.Logger
}

func NewDirectoryService(provider ports.ManagementClient, tokens ports.TokenCache, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{provider: provider, tokens: tokens, log: log}
}

func (s *DirectoryService) CountUsers(ctx context.Context) (int, error) {
	token, err := s.managementToken(ctx)
	if err != nil {
		return 0, err
	}
	return s.provider.CountUsers(ctx, token)
}

func (s *DirectoryService) managementToken(ctx context.Context) (string, error) {
	token, err := s.tokens.Get(ctx, mgmtTokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("token cache read failed, exchanging a fresh token")
	}
	if token != "" {
		return token, nil
	}

	token, ttl, err := s.provider.ExchangeToken(ctx)
	if err != nil {
		return "", fmt.Errorf("exchange management token: %w", err)
	}

	// Cache slightly under the provider's expiry so we never hand out a token
	// that dies mid-request.
	if ttl > time.Second {
		ttl -= time.Second
	}
	if err := s.tokens.Set(ctx, mgmtTokenKey, token, ttl); err != nil {
		s.log.Warn().Err(err).Msg("token cache write failed")
	}
	return token, nil
}
