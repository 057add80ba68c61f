package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubRuleRepo struct {
	stored     []domain.AccessRule
	loadErr    error
	replaceErr error
	replaces   int
}

func (r *stubRuleRepo) Load(_ context.Context) ([]domain.AccessRule, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.stored, nil
}

func (r *stubRuleRepo) Replace(_ context.Context, rules []domain.AccessRule) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.replaces++
	r.stored = rules
	return nil
}

func newTable(repo *stubRuleRepo, mode domain.MatchMode) *RuleTable {
	return NewRuleTable(repo, mode, zerolog.Nop())
}

var wildcardGuestRule = domain.AccessRule{Method: "*", Path: "*", Role: "guest"}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRuleTable_Load(t *testing.T) {
	repo := &stubRuleRepo{stored: []domain.AccessRule{
		wildcardGuestRule,
		{Method: "POST", Path: "/api/projects", Role: "root"},
	}}

	table := newTable(repo, domain.MatchRegex)
	table.Load(context.Background())

	if got := len(table.Rules()); got != 2 {
		t.Fatalf("expected 2 rules, got %d", got)
	}
}

func TestRuleTable_LoadFailureLeavesTableEmpty(t *testing.T) {
	repo := &stubRuleRepo{loadErr: errors.New("mongo unreachable")}

	table := newTable(repo, domain.MatchRegex)
	table.Load(context.Background())

	if got := len(table.Rules()); got != 0 {
		t.Fatalf("expected empty table on load failure, got %d rules", got)
	}
}

func TestRuleTable_LoadSkipsBadStoredPattern(t *testing.T) {
	repo := &stubRuleRepo{stored: []domain.AccessRule{
		{Method: "GET", Path: "/api/projects[", Role: "user"}, // broken regex
		wildcardGuestRule,
	}}

	table := newTable(repo, domain.MatchRegex)
	table.Load(context.Background())

	rules := table.Rules()
	if len(rules) != 1 || rules[0] != wildcardGuestRule {
		t.Fatalf("expected only the valid rule to survive, got %v", rules)
	}
}

func TestRuleTable_ReplaceEmptyRejected(t *testing.T) {
	repo := &stubRuleRepo{stored: []domain.AccessRule{wildcardGuestRule}}
	table := newTable(repo, domain.MatchRegex)
	table.Load(context.Background())

	err := table.Replace(context.Background(), nil)
	if !errors.Is(err, domain.ErrInvalidRuleSet) {
		t.Fatalf("expected ErrInvalidRuleSet, got: %v", err)
	}
	if got := len(table.Rules()); got != 1 {
		t.Errorf("table must be unchanged after rejected replace, got %d rules", got)
	}
	if repo.replaces != 0 {
		t.Errorf("nothing should be persisted for a rejected replace")
	}
}

func TestRuleTable_ReplaceMalformedRuleRejected(t *testing.T) {
	cases := []struct {
		name string
		rule domain.AccessRule
	}{
		{"bad method", domain.AccessRule{Method: "FETCH", Path: "*", Role: "guest"}},
		{"bad path shape", domain.AccessRule{Method: "GET", Path: "/news", Role: "guest"}},
		{"bad regex", domain.AccessRule{Method: "GET", Path: "/api/(", Role: "guest"}},
		{"bad role", domain.AccessRule{Method: "GET", Path: "*", Role: "superadmin"}},
		{"empty fields", domain.AccessRule{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := newTable(&stubRuleRepo{}, domain.MatchRegex)
			err := table.Replace(context.Background(), []domain.AccessRule{tc.rule})
			if !errors.Is(err, domain.ErrInvalidRuleSet) {
				t.Fatalf("expected ErrInvalidRuleSet, got: %v", err)
			}
		})
	}
}

func TestRuleTable_ReplaceBadRegexAllowedInPrefixMode(t *testing.T) {
	table := newTable(&stubRuleRepo{}, domain.MatchPrefix)
	err := table.Replace(context.Background(), []domain.AccessRule{
		{Method: "GET", Path: "/api/(", Role: "guest"},
	})
	if err != nil {
		t.Fatalf("prefix mode must not compile patterns, got: %v", err)
	}
}

func TestRuleTable_ReplaceSwapsAndPersists(t *testing.T) {
	repo := &stubRuleRepo{}
	table := newTable(repo, domain.MatchRegex)

	newRules := []domain.AccessRule{
		{Method: "GET", Path: "/api/news", Role: "*"},
		{Method: "*", Path: "*", Role: "root"},
	}
	if err := table.Replace(context.Background(), newRules); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.replaces != 1 {
		t.Errorf("expected one persist call, got %d", repo.replaces)
	}
	got := table.Rules()
	if len(got) != 2 || got[0] != newRules[0] || got[1] != newRules[1] {
		t.Errorf("table not swapped, got %v", got)
	}
}

func TestRuleTable_ReplacePersistFailureLeavesTable(t *testing.T) {
	repo := &stubRuleRepo{stored: []domain.AccessRule{wildcardGuestRule}}
	table := newTable(repo, domain.MatchRegex)
	table.Load(context.Background())

	repo.replaceErr = errors.New("mongo unreachable")
	err := table.Replace(context.Background(), []domain.AccessRule{
		{Method: "*", Path: "*", Role: "root"},
	})
	if err == nil {
		t.Fatal("expected persist error to propagate")
	}

	rules := table.Rules()
	if len(rules) != 1 || rules[0] != wildcardGuestRule {
		t.Errorf("table must keep previous rules after persist failure, got %v", rules)
	}
}
