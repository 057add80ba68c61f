package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

func newMatcher(t *testing.T, rules []domain.AccessRule, mode domain.MatchMode, policy domain.MatchPolicy) *AccessMatcher {
	t.Helper()
	repo := &stubRuleRepo{stored: rules}
	table := newTable(repo, mode)
	table.Load(context.Background())
	if len(table.Rules()) != len(rules) {
		t.Fatalf("test rules did not load cleanly")
	}
	return NewAccessMatcher(table, mode, policy, zerolog.Nop())
}

func TestAccessMatcher_GuestWildcardScenario(t *testing.T) {
	m := newMatcher(t, []domain.AccessRule{wildcardGuestRule}, domain.MatchRegex, domain.PolicyAny)

	if err := m.Authorize(domain.Identity{Username: "anon", Role: domain.RoleGuest}, "GET", "/api/news"); err != nil {
		t.Errorf("guest must be accepted by the wildcard guest rule: %v", err)
	}

	err := m.Authorize(domain.Identity{Username: "bob@x.com", Role: domain.RoleUser}, "GET", "/api/news")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("user must be rejected, got: %v", err)
	}
}

func TestAccessMatcher_ForbiddenCarriesContext(t *testing.T) {
	m := newMatcher(t, []domain.AccessRule{wildcardGuestRule}, domain.MatchRegex, domain.PolicyAny)

	err := m.Authorize(domain.Identity{Username: "bob@x.com", Role: domain.RoleUser}, "POST", "/api/projects")
	if err == nil {
		t.Fatal("expected Forbidden")
	}
	for _, want := range []string{"bob@x.com", "POST", "/api/projects"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("diagnostic should mention %q, got: %v", want, err)
		}
	}
}

func TestAccessMatcher_MethodAndPathMatching(t *testing.T) {
	rules := []domain.AccessRule{
		{Method: "GET", Path: "/api/news", Role: "*"},
		{Method: "POST", Path: "/api/projects/.*/likes", Role: "user"},
	}
	m := newMatcher(t, rules, domain.MatchRegex, domain.PolicyAny)
	user := domain.Identity{Username: "u@x.com", Role: domain.RoleUser}

	cases := []struct {
		method, path string
		allowed      bool
	}{
		{"GET", "/api/news", true},
		{"GET", "/api/news/abc", true}, // unanchored regex matches the prefix
		{"DELETE", "/api/news", false},
		{"POST", "/api/projects/42/likes", true},
		{"POST", "/api/projects/42/comments", false},
	}
	for _, tc := range cases {
		err := m.Authorize(user, tc.method, tc.path)
		if tc.allowed && err != nil {
			t.Errorf("%s %s: expected allow, got %v", tc.method, tc.path, err)
		}
		if !tc.allowed && !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s %s: expected Forbidden, got %v", tc.method, tc.path, err)
		}
	}
}

func TestAccessMatcher_PrefixMode(t *testing.T) {
	rules := []domain.AccessRule{
		{Method: "*", Path: "/api/news", Role: "*"},
	}
	m := newMatcher(t, rules, domain.MatchPrefix, domain.PolicyAny)
	id := domain.Identity{Username: "u@x.com", Role: domain.RoleUser}

	if err := m.Authorize(id, "GET", "/api/news/123"); err != nil {
		t.Errorf("prefix must match subpaths: %v", err)
	}
	if err := m.Authorize(id, "GET", "/api/projects"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-prefixed path must be rejected, got: %v", err)
	}
}

func TestAccessMatcher_Bypass(t *testing.T) {
	m := newMatcher(t, []domain.AccessRule{wildcardGuestRule}, domain.MatchRegex, domain.PolicyAny)

	for _, path := range []string{"/static/images/projects-1.png", "/health", "/metrics", "/swagger/index.html"} {
		if !m.Bypassed(path) {
			t.Errorf("%s must be bypassed", path)
		}
		// Even a zero identity passes on a bypassed path.
		if err := m.Authorize(domain.Identity{}, "GET", path); err != nil {
			t.Errorf("bypassed path must always authorize: %v", err)
		}
	}
	if m.Bypassed("/api/news") {
		t.Error("/api/news must not be bypassed")
	}
}

func TestAccessMatcher_EmptyTableDeniesAll(t *testing.T) {
	m := newMatcher(t, nil, domain.MatchRegex, domain.PolicyAny)

	err := m.Authorize(domain.Identity{Username: "root@x.com", Role: domain.RoleRoot}, "GET", "/api/news")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("empty table must deny everything, got: %v", err)
	}
}

// referenceMatch is the naive O(n) matcher the real one is cross-checked
// against: accept iff at least one rule matches under wildcard semantics.
func referenceMatch(rules []domain.AccessRule, role domain.Role, method, path string) bool {
	for _, r := range rules {
		methodOK := r.Method == "*" || r.Method == method
		roleOK := string(r.Role) == "*" || r.Role == role
		pathOK := r.Path == "*" || regexp.MustCompile(r.Path).MatchString(path)
		if methodOK && roleOK && pathOK {
			return true
		}
	}
	return false
}

func TestAccessMatcher_RandomisedAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	methods := []string{"GET", "POST", "PUT", "PATCH", "DELETE", "*"}
	roles := []string{"root", "investor", "user", "guest", "*"}
	paths := []string{"*", "/api/news", "/api/projects", "/api/messages", "/api/.*", "/api/news/.*/likes"}
	reqPaths := []string{"/api/news", "/api/projects", "/api/messages", "/api/news/42/likes", "/api/users/count"}

	for _, policy := range []domain.MatchPolicy{domain.PolicyAny, domain.PolicyFirst} {
		for i := 0; i < 200; i++ {
			n := rng.Intn(5)
			rules := make([]domain.AccessRule, n)
			for j := range rules {
				rules[j] = domain.AccessRule{
					Method: methods[rng.Intn(len(methods))],
					Path:   paths[rng.Intn(len(paths))],
					Role:   domain.Role(roles[rng.Intn(len(roles))]),
				}
			}
			m := newMatcher(t, rules, domain.MatchRegex, policy)

			method := methods[rng.Intn(len(methods)-1)] // no wildcard requests
			role := domain.Role(roles[rng.Intn(len(roles)-1)])
			path := reqPaths[rng.Intn(len(reqPaths))]

			want := referenceMatch(rules, role, method, path)
			err := m.Authorize(domain.Identity{Username: "p@x.com", Role: role}, method, path)
			if want && err != nil {
				t.Fatalf("policy=%s rules=%v: reference accepts (%s %s %s) but matcher denied: %v",
					policy, rules, method, path, role, err)
			}
			if !want && err == nil {
				t.Fatalf("policy=%s rules=%v: reference denies (%s %s %s) but matcher accepted",
					policy, rules, method, path, role)
			}
		}
	}
}

// Rule replacement must be visible to an already-constructed matcher: the
// matcher reads the table snapshot per call.
func TestAccessMatcher_SeesReplacedTable(t *testing.T) {
	repo := &stubRuleRepo{stored: []domain.AccessRule{wildcardGuestRule}}
	table := newTable(repo, domain.MatchRegex)
	table.Load(context.Background())
	m := NewAccessMatcher(table, domain.MatchRegex, domain.PolicyAny, zerolog.Nop())

	user := domain.Identity{Username: "u@x.com", Role: domain.RoleUser}
	if err := m.Authorize(user, "GET", "/api/news"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user must start rejected, got: %v", err)
	}

	if err := table.Replace(context.Background(), []domain.AccessRule{
		{Method: "*", Path: "*", Role: "user"},
	}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if err := m.Authorize(user, "GET", "/api/news"); err != nil {
		t.Errorf("user must be accepted after replace: %v", err)
	}
}

func BenchmarkAccessMatcher_Authorize(b *testing.B) {
	rules := make([]domain.AccessRule, 0, 20)
	for i := 0; i < 20; i++ {
		rules = append(rules, domain.AccessRule{
			Method: "GET",
			Path:   fmt.Sprintf("/api/projects/%d", i),
			Role:   domain.RoleUser,
		})
	}
	repo := &stubRuleRepo{stored: rules}
	table := newTable(repo, domain.MatchRegex)
	table.Load(context.Background())
	m := NewAccessMatcher(table, domain.MatchRegex, domain.PolicyAny, zerolog.Nop())
	id := domain.Identity{Username: "u@x.com", Role: domain.RoleUser}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Authorize(id, "GET", "/api/projects/19")
	}
}
