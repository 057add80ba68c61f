package service

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// defaultBypassPrefixes are path classes exempt from access control: static
// assets and the operational endpoints that must answer before any identity
// exists. This is an explicit list, not a rule in the table.
var defaultBypassPrefixes = []string{
	"/static",
	"/health",
	"/metrics",
	"/swagger",
}

// AccessMatcher evaluates the rule table against incoming requests.
//
// A rule matches when each of its three fields is the wildcard or equals the
// request's method, path (per the table's match mode) and the identity's
// role. All rules grant access; none can veto another, so under PolicyAny
// and PolicyFirst the same requests are accepted; first-match merely stops
// scanning at the first hit.
type AccessMatcher struct {
	table  *RuleTable
	policy domain.MatchPolicy
	mode   domain.MatchMode
	bypass []string
	log    zerolog.Logger
}

func NewAccessMatcher(table *RuleTable, mode domain.MatchMode, policy domain.MatchPolicy, log zerolog.Logger) *AccessMatcher {
	return &AccessMatcher{
		table:  table,
		policy: policy,
		mode:   mode,
		bypass: defaultBypassPrefixes,
		log:    log,
	}
}

// Bypassed reports whether path is exempt from matching entirely.
func (m *AccessMatcher) Bypassed(path string) bool {
	for _, p := range m.bypass {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Authorize scans the current table snapshot and returns nil when a rule
// matches, domain.ErrForbidden otherwise. The error carries the subject,
// method and path for the diagnostic response.
func (m *AccessMatcher) Authorize(identity domain.Identity, method, path string) error {
	if m.Bypassed(path) {
		return nil
	}

	matched := false
	for _, cr := range m.table.snapshot() {
		if !m.matches(cr, identity.Role, method, path) {
			continue
		}
		matched = true
		if m.policy == domain.PolicyFirst {
			break
		}
	}

	if !matched {
		m.log.Debug().
			Str("username", identity.Username).
			Str("role", string(identity.Role)).
			Str("method", method).
			Str("path", path).
			Msg("access denied")
		return fmt.Errorf("%w %s %s %s", domain.ErrForbidden, identity.Username, method, path)
	}
	return nil
}

func (m *AccessMatcher) matches(cr compiledRule, role domain.Role, method, path string) bool {
	r := cr.rule
	if r.Method != domain.Wildcard && r.Method != method {
		return false
	}
	if string(r.Role) != domain.Wildcard && r.Role != role {
		return false
	}
	if r.Path == domain.Wildcard {
		return true
	}
	if m.mode == domain.MatchPrefix {
		return strings.HasPrefix(path, r.Path)
	}
	return cr.re != nil && cr.re.MatchString(path)
}
