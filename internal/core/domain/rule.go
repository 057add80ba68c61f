package domain

import (
	"fmt"
	"regexp"
)

// MatchMode selects how a rule's path pattern is applied to a request path.
// Exactly one mode is active per deployment; rules are validated against the
// active mode when the table is replaced.
type MatchMode string

const (
	// MatchRegex treats the rule path as a regular expression source.
	MatchRegex MatchMode = "regex"
	// MatchPrefix treats the rule path as an exact path prefix.
	MatchPrefix MatchMode = "prefix"
)

// MatchPolicy selects the table scan strategy. With allow-only rules both
// policies accept the same requests; first-match just stops scanning early.
type MatchPolicy string

const (
	PolicyAny   MatchPolicy = "any"
	PolicyFirst MatchPolicy = "first"
)

// AccessRule grants access when its method, path pattern and role all match
// an incoming request. Each field may carry the "*" wildcard.
type AccessRule struct {
	Method string `json:"method" bson:"method"`
	Path   string `json:"path" bson:"path"`
	Role   Role   `json:"role" bson:"role"`
}

var ruleMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "PATCH": {}, "DELETE": {}, Wildcard: {},
}

// rulePathShape mirrors the shape the admin UI submits: either the wildcard
// or a pattern anchored under /api.
var rulePathShape = regexp.MustCompile(`^(/api|[*])`)

// Validate checks that the rule is fully populated and well formed for the
// given match mode.
func (r AccessRule) Validate(mode MatchMode) error {
	if _, ok := ruleMethods[r.Method]; !ok {
		return fmt.Errorf("%w: method %q", ErrInvalidRuleSet, r.Method)
	}
	if !rulePathShape.MatchString(r.Path) {
		return fmt.Errorf("%w: path %q must be %q or start with /api", ErrInvalidRuleSet, r.Path, Wildcard)
	}
	if mode == MatchRegex && r.Path != Wildcard {
		if _, err := regexp.Compile(r.Path); err != nil {
			return fmt.Errorf("%w: path %q: %v", ErrInvalidRuleSet, r.Path, err)
		}
	}
	if string(r.Role) != Wildcard && !ValidRole(string(r.Role)) {
		return fmt.Errorf("%w: role %q", ErrInvalidRuleSet, r.Role)
	}
	return nil
}
