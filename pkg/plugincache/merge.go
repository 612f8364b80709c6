// SPDX-License-Identifier: MPL-2.0

package plugincache

type (
	// FoldEvent describes what Fold did with one incoming entry.
	FoldEvent int

	// FoldObserver is called once per incoming entry after Fold has decided to
	// apply it. Previous is the zero value unless Event is FoldReplaced.
	FoldObserver func(event FoldEvent, entry, previous PluginEntry)

	// FoldStats summarizes one Fold call.
	FoldStats struct {
		Added    int
		Replaced int
	}

	foldOptions struct {
		observer FoldObserver
	}

	// FoldOption configures Fold.
	FoldOption func(*foldOptions)
)

// Fold events.
const (
	// FoldAdded means the key was new to the accumulator.
	FoldAdded FoldEvent = iota + 1
	// FoldReplaced means the incoming entry replaced an accumulated one.
	FoldReplaced
)

// String returns a short name for the event.
func (e FoldEvent) String() string {
	switch e {
	case FoldAdded:
		return "added"
	case FoldReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// WithObserver registers a callback invoked for every applied entry.
func WithObserver(fn FoldObserver) FoldOption {
	return func(o *foldOptions) {
		o.observer = fn
	}
}

// Fold merges incoming into acc and returns acc.
//
// When strict is true, any (category, key) of incoming that acc already holds
// fails with a *DuplicatePluginError. The whole of incoming is checked before
// anything is written, so a failed Fold leaves acc exactly as it was.
// When strict is false, incoming entries replace accumulated ones.
//
// incoming is never aliased: categories that acc lacks are copied in.
func Fold(acc, incoming *Catalog, strict bool, opts ...FoldOption) (*Catalog, FoldStats, error) {
	var o foldOptions
	for _, opt := range opts {
		opt(&o)
	}

	if strict {
		if err := firstCollision(acc, incoming); err != nil {
			return acc, FoldStats{}, err
		}
	}

	var stats FoldStats
	for _, name := range incoming.CategoryNames() {
		in := incoming.categories[name]
		cat := acc.ensure(name)
		for _, e := range in.Entries() {
			prev, existed := cat.entries[e.Key]
			cat.put(e)
			event := FoldAdded
			if existed {
				event = FoldReplaced
				stats.Replaced++
			} else {
				stats.Added++
			}
			if o.observer != nil {
				o.observer(event, cat.entries[e.Key], prev)
			}
		}
	}
	return acc, stats, nil
}

// firstCollision returns the first (category, key) of incoming, in canonical
// order, that acc already holds.
func firstCollision(acc, incoming *Catalog) error {
	for _, name := range incoming.CategoryNames() {
		cat, ok := acc.categories[name]
		if !ok {
			continue
		}
		for _, key := range incoming.categories[name].Keys() {
			if _, dup := cat.entries[key]; dup {
				return &DuplicatePluginError{Category: name, Key: key}
			}
		}
	}
	return nil
}
