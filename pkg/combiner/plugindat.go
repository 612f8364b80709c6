// SPDX-License-Identifier: MPL-2.0

package combiner

import (
	"fmt"
	"log/slog"

	"github.com/singlejar/singlejar/pkg/plugincache"
)

// State is the lifecycle state of a PluginDatCombiner.
type State int

const (
	// StateEmpty means no entry has been merged yet.
	StateEmpty State = iota
	// StateAccumulating means at least one entry has been merged.
	StateAccumulating
	// StateFinalized means OutputEntry has been called. It is terminal.
	StateFinalized
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAccumulating:
		return "accumulating"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type (
	// PluginDatCombiner merges Log4j2 plugin caches from every input jar into
	// one cache whose layout is independent of the order jars were visited in.
	//
	// The accumulated catalog is owned by the combiner and never shared. A
	// PluginDatCombiner is not safe for concurrent use; see Synchronized.
	PluginDatCombiner struct {
		out         EntryWriter
		strict      bool
		logger      *slog.Logger
		newInflater func() Inflater
		inflater    Inflater

		catalog *plugincache.Catalog
		state   State
		merged  int
	}

	// PluginDatOption configures a PluginDatCombiner.
	PluginDatOption func(*PluginDatCombiner)
)

var _ Combiner = (*PluginDatCombiner)(nil)

// WithStrict makes a plugin contributed by two jars a fatal error instead of
// letting the later one replace the earlier one.
func WithStrict(strict bool) PluginDatOption {
	return func(c *PluginDatCombiner) {
		c.strict = strict
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) PluginDatOption {
	return func(c *PluginDatCombiner) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInflaterFactory overrides how the combiner's Inflater is created. The
// factory is called at most once, on the first deflated entry.
func WithInflaterFactory(fn func() Inflater) PluginDatOption {
	return func(c *PluginDatCombiner) {
		if fn != nil {
			c.newInflater = fn
		}
	}
}

// NewPluginDatCombiner returns an empty combiner that appends its result to out.
func NewPluginDatCombiner(out EntryWriter, opts ...PluginDatOption) *PluginDatCombiner {
	c := &PluginDatCombiner{
		out:         out,
		logger:      slog.Default(),
		newInflater: NewInflater,
		catalog:     plugincache.NewCatalog(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *PluginDatCombiner) State() State { return c.state }

// Strict reports whether duplicate plugins are rejected.
func (c *PluginDatCombiner) Strict() bool { return c.strict }

// Catalog returns a copy of the accumulated catalog.
func (c *PluginDatCombiner) Catalog() *plugincache.Catalog { return c.catalog.Clone() }

// Merge decodes one plugin cache entry and folds it into the accumulated
// catalog. Stored entries are used as they are, deflated entries are inflated,
// and any other method fails with *UnsupportedCompressionMethodError. On any
// error the accumulated catalog is left unchanged.
func (c *PluginDatCombiner) Merge(meta EntryMetadata, raw []byte) error {
	if c.state == StateFinalized {
		return ErrFinalized
	}

	var tb TransientBytes
	var err error
	switch method := meta.CompressionMethod(); method {
	case MethodStored:
		err = tb.ReadEntryContents(meta, raw)
	case MethodDeflated:
		if c.inflater == nil {
			c.inflater = c.newInflater()
		}
		err = tb.DecompressEntryContents(meta, raw, c.inflater)
	default:
		return &UnsupportedCompressionMethodError{Entry: meta.Name(), Method: method}
	}
	if err != nil {
		return &MergeError{Entry: meta.Name(), Err: err}
	}

	data := make([]byte, tb.DataSize())
	tb.CopyOut(data)
	incoming, err := plugincache.Decode(data)
	if err != nil {
		return &MergeError{Entry: meta.Name(), Err: err}
	}

	_, stats, err := plugincache.Fold(c.catalog, incoming, c.strict,
		plugincache.WithObserver(func(ev plugincache.FoldEvent, e, prev plugincache.PluginEntry) {
			if ev == plugincache.FoldReplaced {
				c.logger.Debug("plugin replaced by later jar",
					"category", e.Category, "key", e.Key,
					"previous", prev.ClassName, "class", e.ClassName)
			}
		}))
	if err != nil {
		return &MergeError{Entry: meta.Name(), Err: err}
	}

	c.merged++
	c.state = StateAccumulating
	c.logger.Debug("merged plugin cache",
		"entry", meta.Name(), "method", meta.CompressionMethod(),
		"categories", incoming.Len(), "added", stats.Added, "replaced", stats.Replaced)
	return nil
}

// OutputEntry encodes the accumulated catalog, appends it to the EntryWriter,
// and returns the resulting entry. It is the terminal transition: later calls
// to Merge or OutputEntry fail with ErrFinalized.
func (c *PluginDatCombiner) OutputEntry(compress bool) (*OutputEntry, error) {
	if c.state == StateFinalized {
		return nil, ErrFinalized
	}

	data, err := plugincache.Encode(c.catalog)
	if err != nil {
		return nil, err
	}
	c.out.Append(data)
	c.state = StateFinalized

	entry, err := c.out.OutputEntry(compress)
	if err != nil {
		return nil, err
	}
	c.logger.Info("combined plugin cache",
		"entry", entry.Name, "sources", c.merged,
		"categories", c.catalog.Len(), "plugins", c.catalog.EntryCount(),
		"digest", entry.Digest.String())
	return entry, nil
}

// Close releases the inflater, if one was created. It is safe to call more
// than once.
func (c *PluginDatCombiner) Close() error {
	if c.inflater == nil {
		return nil
	}
	err := c.inflater.Close()
	c.inflater = nil
	return err
}
