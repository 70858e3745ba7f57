package suites

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSuite   = errors.New("suites: unknown suite")
	ErrDuplicateSuite = errors.New("suites: duplicate suite")
)

// Registry maps suite names to suites and remembers insertion order.
// It is not safe for concurrent writes; build it once at startup.
type Registry struct {
	order  []string
	byName map[string]*Suite
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Suite)}
}

func (r *Registry) Add(s *Suite) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("suites: suite has no name")
	}
	if _, ok := r.byName[s.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSuite, s.Name)
	}
	r.byName[s.Name] = s
	r.order = append(r.order, s.Name)
	return nil
}

func (r *Registry) Get(name string) (*Suite, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names returns the suite names in insertion order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Len() int {
	return len(r.order)
}

// All returns every suite in insertion order.
func (r *Registry) All() []*Suite {
	out := make([]*Suite, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Select returns the named suites in the order the names are given.
func (r *Registry) Select(names ...string) ([]*Suite, error) {
	out := make([]*Suite, 0, len(names))
	for _, name := range names {
		s, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSuite, name)
		}
		out = append(out, s)
	}
	return out, nil
}
