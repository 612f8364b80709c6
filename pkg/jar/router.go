// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/singlejar/singlejar/pkg/combiner"
)

// Router maps exact archive paths to the combiner that owns them. Every jar
// visited through the same Router feeds the same combiner instance.
type Router struct {
	routes map[string]combiner.Combiner
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]combiner.Combiner)}
}

// Handle routes entries called name to c. Registering a name twice is an error.
func (r *Router) Handle(name string, c combiner.Combiner) error {
	if name == "" {
		return errors.New("route name cannot be empty")
	}
	if _, ok := r.routes[name]; ok {
		return fmt.Errorf("route %q already registered", name)
	}
	r.routes[name] = c
	return nil
}

// Lookup returns the combiner registered for name.
func (r *Router) Lookup(name string) (combiner.Combiner, bool) {
	c, ok := r.routes[name]
	return c, ok
}

// Names returns the routed paths in ascending order.
func (r *Router) Names() []string {
	return slices.Sorted(maps.Keys(r.routes))
}

// Finalize calls OutputEntry on every routed combiner, in Names order.
func (r *Router) Finalize(compress bool) ([]*combiner.OutputEntry, error) {
	entries := make([]*combiner.OutputEntry, 0, len(r.routes))
	for _, name := range r.Names() {
		e, err := r.routes[name].OutputEntry(compress)
		if err != nil {
			return nil, fmt.Errorf("failed to finalize %s: %w", name, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close closes every routed combiner and returns the joined errors.
func (r *Router) Close() error {
	var errs []error
	for _, name := range r.Names() {
		if err := r.routes[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
