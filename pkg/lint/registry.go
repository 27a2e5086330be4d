package lint

import (
	"cmp"
	"maps"
	"slices"
	"sync"
)

// Registry holds lint rules, addressable by ID or name.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Rule
	byName map[string]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]Rule),
		byName: make(map[string]Rule),
	}
}

// Register adds rule, replacing any rule with the same ID.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byID[rule.ID()]; ok {
		delete(r.byName, old.Name())
	}

	r.byID[rule.ID()] = rule
	r.byName[rule.Name()] = rule
}

// Get looks a rule up by ID, then by name.
func (r *Registry) Get(key string) (Rule, bool) {
	_, rule, ok := r.Resolve(key)

	return rule, ok
}

// GetByID looks a rule up by ID only.
func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.byID[id]

	return rule, ok
}

// Resolve maps an ID or name to the canonical ID and its rule.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[key]; ok {
		return rule.ID(), rule, true
	}

	if rule, ok := r.byName[key]; ok {
		return rule.ID(), rule, true
	}

	return "", nil, false
}

// Suggest returns the ID or name closest to an unknown key, or "".
func (r *Registry) Suggest(key string) string {
	r.mu.RLock()
	keys := slices.AppendSeq(slices.Collect(maps.Keys(r.byID)), maps.Keys(r.byName))
	r.mu.RUnlock()

	slices.Sort(keys)

	return ClosestMatch(key, keys)
}

// Rules returns every rule sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Collect(maps.Values(r.byID))
	slices.SortFunc(out, func(a, b Rule) int { return cmp.Compare(a.ID(), b.ID()) })

	return out
}

// IDs returns every rule ID, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.byID))
}

// DefaultRegistry holds the built-in rules. The rules package fills it in init.
//
//nolint:gochecknoglobals // rule registration
var DefaultRegistry = NewRegistry()
