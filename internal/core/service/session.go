package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

type sessionEntry struct {
	credential string
	role       domain.Role
}

// SessionCache resolves (username, credential) pairs to roles, remembering
// verified sessions so repeated requests skip the identity provider.
//
// Entries have no TTL: a role change upstream is not observed until the
// subject presents a different credential (token rotation evicts the stale
// entry) or the process restarts. Growth is bounded only by the number of
// distinct subjects, which is acceptable for this deployment's size.
type SessionCache struct {
	verifier   ports.IdentityVerifier
	guestToken string

	mu      sync.Mutex
	entries map[string]sessionEntry

	log zerolog.Logger
}

func NewSessionCache(verifier ports.IdentityVerifier, guestToken string, log zerolog.Logger) *SessionCache {
	return &SessionCache{
		verifier:   verifier,
		guestToken: guestToken,
		entries:    make(map[string]sessionEntry),
		log:        log,
	}
}

// Resolve establishes the caller's identity. The guest sentinel credential
// short-circuits to the guest role with no subject check and no cache entry.
// A cached entry is used only when the credential matches exactly; a
// mismatch evicts the entry and falls through to re-verification.
func (s *SessionCache) Resolve(ctx context.Context, username, credential string) (domain.Identity, error) {
	if credential == s.guestToken {
		return domain.Identity{Username: username, Role: domain.RoleGuest}, nil
	}
	if username == "" || credential == "" {
		return domain.Identity{}, domain.ErrMissingCredential
	}

	s.mu.Lock()
	if entry, ok := s.entries[username]; ok {
		if entry.credential == credential {
			s.mu.Unlock()
			return domain.Identity{Username: username, Role: entry.role}, nil
		}
		// Rotated credential: the stored session is stale.
		delete(s.entries, username)
		s.log.Debug().Str("username", username).Msg("session evicted on credential mismatch")
	}
	s.mu.Unlock()

	profile, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return domain.Identity{}, err
	}
	if profile.Email != username {
		return domain.Identity{}, domain.ErrIdentityMismatch
	}

	s.mu.Lock()
	s.entries[username] = sessionEntry{credential: credential, role: profile.Role}
	s.mu.Unlock()

	s.log.Info().Str("username", username).Str("role", string(profile.Role)).Msg("session established")
	return domain.Identity{Username: username, Role: profile.Role}, nil
}

// Len returns the number of cached sessions.
func (s *SessionCache) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
