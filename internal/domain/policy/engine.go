package policy

import (
	"sort"
	"strings"

	"github.com/atelier-store/atelier/internal/domain/user"
)

// Engine evaluates requests against an ordered rule table.
// The table is immutable after construction, so Decide is safe for
// concurrent use without locking; only the decision cache synchronizes.
type Engine struct {
	rules []Rule
	cache *DecisionCache
}

// NewEngine creates an Engine over the given rules. Rules are sorted by
// descending prefix length so the most specific applicable pattern wins;
// ties keep their given order. Paths matching no rule default to
// authenticated-any-role.
func NewEngine(rules []Rule, cacheSize int) *Engine {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].PathPrefix) > len(sorted[j].PathPrefix)
	})
	e := &Engine{rules: sorted}
	if cacheSize > 0 {
		e.cache = NewDecisionCache(cacheSize)
	}
	return e
}

// Decide returns the access decision for the path and method given the
// resolved caller, or nil for an anonymous caller.
func (e *Engine) Decide(path, method string, u *user.User) Decision {
	// The empty role marks an anonymous caller in the cache key. It can never
	// collide with an authenticated identity: every stored user carries one of
	// the four named roles, GUEST included.
	var role user.Role
	if u != nil {
		role = u.Role
	}

	var key uint64
	if e.cache != nil {
		key = cacheKey(method, path, role)
		if d, ok := e.cache.Get(key); ok {
			return d
		}
	}

	d := e.decide(path, method, u)
	if e.cache != nil {
		e.cache.Put(key, d)
	}
	return d
}

func (e *Engine) decide(path, method string, u *user.User) Decision {
	rule := e.match(path, method)

	switch rule.Require {
	case RequireNone:
		return Permit
	case RequireAuthenticated:
		if u == nil {
			return Unauthorized
		}
		return Permit
	default:
		if u == nil {
			return Unauthorized
		}
		if rule.allowsRole(u.Role) {
			return Permit
		}
		return Forbidden
	}
}

// match returns the first applicable rule, or the default rule.
func (e *Engine) match(path, method string) Rule {
	for i := range e.rules {
		r := &e.rules[i]
		if strings.HasPrefix(path, r.PathPrefix) && r.matchesMethod(method) {
			return *r
		}
	}
	return Rule{Require: RequireAuthenticated}
}
