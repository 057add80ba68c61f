package service

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// compiledRule is an AccessRule with its path pattern pre-compiled for the
// active match mode. re is nil in prefix mode and for the wildcard path.
type compiledRule struct {
	rule domain.AccessRule
	re   *regexp.Regexp
}

// RuleTable holds the current access rules behind an atomic pointer so
// readers always observe a complete table. The table is loaded from the
// repository at startup and replaced wholesale via Replace; it is never
// mutated in place.
type RuleTable struct {
	repo  ports.RuleRepository
	mode  domain.MatchMode
	table atomic.Pointer[[]compiledRule]
	log   zerolog.Logger
}

func NewRuleTable(repo ports.RuleRepository, mode domain.MatchMode, log zerolog.Logger) *RuleTable {
	t := &RuleTable{repo: repo, mode: mode, log: log}
	empty := []compiledRule{}
	t.table.Store(&empty)
	return t
}

// Load reads the persisted table. A load failure leaves the current table in
// place (empty on first load, which denies everything) and is logged rather
// than propagated: a booting process with an unreachable store must come up
// deny-all, not crash.
func (t *RuleTable) Load(ctx context.Context) {
	rules, err := t.repo.Load(ctx)
	if err != nil {
		t.log.Error().Err(err).Msg("rule table load failed, keeping current table")
		return
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr, err := t.compile(r)
		if err != nil {
			t.log.Warn().Err(err).Str("path", r.Path).Msg("skipping stored rule with bad pattern")
			continue
		}
		compiled = append(compiled, cr)
	}
	t.table.Store(&compiled)
	t.log.Info().Int("rules", len(compiled)).Msg("rule table loaded")
}

// Replace validates rules, persists them, and atomically swaps the in-memory
// table. On any failure the existing table is left untouched.
func (t *RuleTable) Replace(ctx context.Context, rules []domain.AccessRule) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: rule table cannot be empty", domain.ErrInvalidRuleSet)
	}

	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		cr, err := t.compile(r)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		compiled = append(compiled, cr)
	}

	if err := t.repo.Replace(ctx, rules); err != nil {
		return fmt.Errorf("persist rule table: %w", err)
	}

	t.table.Store(&compiled)
	t.log.Info().Int("rules", len(compiled)).Msg("rule table replaced")
	return nil
}

// Rules returns a copy of the current table in rule order.
func (t *RuleTable) Rules() []domain.AccessRule {
	snap := *t.table.Load()
	rules := make([]domain.AccessRule, len(snap))
	for i, cr := range snap {
		rules[i] = cr.rule
	}
	return rules
}

// snapshot returns the current compiled table for matching. Callers must not
// mutate it.
func (t *RuleTable) snapshot() []compiledRule {
	return *t.table.Load()
}

func (t *RuleTable) compile(r domain.AccessRule) (compiledRule, error) {
	if err := r.Validate(t.mode); err != nil {
		return compiledRule{}, err
	}
	cr := compiledRule{rule: r}
	if t.mode == domain.MatchRegex && r.Path != domain.Wildcard {
		// Validate already compiled it once; this cannot fail here.
		cr.re = regexp.MustCompile(r.Path)
	}
	return cr, nil
}
