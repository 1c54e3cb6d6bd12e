// Package gpu resolves raw hardware identifiers into canonical GPU identities.
package gpu

import (
	"fmt"
	"regexp"

	"gpuhunt/internal/logger"
	"gpuhunt/internal/models"
)

// Rule maps identifiers matching Pattern to a GPU model. Example is a sample
// identifier the rule is expected to claim.
type Rule struct {
	Memory  *float64
	Pattern string
	Name    string
	Vendor  models.AcceleratorVendor
	Example string
}

// Identity is a resolved GPU model. Memory is nil when the series does not pin it.
type Identity struct {
	Memory *float64
	Name   string
	Vendor models.AcceleratorVendor
}

type compiledRule struct {
	re   *regexp.Regexp
	rule Rule
}

// Resolver scans an ordered rule table; the first matching rule wins.
type Resolver struct {
	log   *logger.Logger
	rules []compiledRule
}

// NewResolver compiles rules, anchoring each pattern with template
// (for example "^Standard_%s$").
func NewResolver(template string, rules []Rule, log *logger.Logger) (*Resolver, error) {
	compiled := make([]compiledRule, 0, len(rules))

	for i, rule := range rules {
		re, err := regexp.Compile(fmt.Sprintf(template, rule.Pattern))
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.Pattern, err)
		}

		compiled = append(compiled, compiledRule{re: re, rule: rule})
	}

	return &Resolver{log: log, rules: compiled}, nil
}

// MustResolver is NewResolver for the built-in tables; it panics on a bad pattern.
func MustResolver(template string, rules []Rule, log *logger.Logger) *Resolver {
	r, err := NewResolver(template, rules, log)
	if err != nil {
		panic(err)
	}

	return r
}

// Resolve returns the identity of id. Unknown identifiers are logged and
// reported with ok == false.
func (r *Resolver) Resolve(id string) (Identity, bool) {
	idx := r.Match(id)
	if idx < 0 {
		r.log.Warn("unknown gpu series", "identifier", id)

		return Identity{}, false
	}

	rule := r.rules[idx].rule

	return Identity{
		Name:   rule.Name,
		Memory: rule.Memory,
		Vendor: rule.Vendor,
	}, true
}

// Match returns the index of the first rule matching id, or -1.
func (r *Resolver) Match(id string) int {
	for i, cr := range r.rules {
		if cr.re.MatchString(id) {
			return i
		}
	}

	return -1
}

// Rules returns the rule table in priority order.
func (r *Resolver) Rules() []Rule {
	rules := make([]Rule, len(r.rules))
	for i, cr := range r.rules {
		rules[i] = cr.rule
	}

	return rules
}

func mem(gb float64) *float64 {
	return &gb
}
