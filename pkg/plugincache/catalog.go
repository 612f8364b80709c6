// SPDX-License-Identifier: MPL-2.0

package plugincache

import (
	"maps"
	"slices"
)

type (
	// PluginEntry describes one plugin. It is a value type: replacing an entry
	// stores a new value and never mutates one that another catalog holds.
	PluginEntry struct {
		// Key identifies the plugin within its category (usually the lower-cased name).
		Key string
		// ClassName is the fully-qualified implementing class.
		ClassName string
		// Name is the display name of the plugin.
		Name string
		// Printable reports whether the plugin is printable.
		Printable bool
		// Defer reports whether child element creation is deferred.
		Defer bool
		// Category is the name of the category that holds this entry.
		Category string
	}

	// Category is a named group of plugin entries with unique keys.
	Category struct {
		name    string
		entries map[string]PluginEntry
	}

	// Catalog maps category names to categories. A Catalog is not safe for
	// concurrent use.
	Catalog struct {
		categories map[string]*Category
	}
)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{categories: make(map[string]*Category)}
}

func newCategory(name string) *Category {
	return &Category{name: name, entries: make(map[string]PluginEntry)}
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// Len returns the number of entries in the category.
func (c *Category) Len() int { return len(c.entries) }

// Lookup returns the entry stored under key.
func (c *Category) Lookup(key string) (PluginEntry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Keys returns the entry keys in ascending order.
func (c *Category) Keys() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Entries returns the entries in ascending key order.
func (c *Category) Entries() []PluginEntry {
	keys := c.Keys()
	out := make([]PluginEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.entries[k])
	}
	return out
}

// put stores e under its key, overwriting any previous entry. The category
// back-reference is rewritten so it always matches the holder.
func (c *Category) put(e PluginEntry) (replaced bool) {
	e.Category = c.name
	_, replaced = c.entries[e.Key]
	c.entries[e.Key] = e
	return replaced
}

// putIfAbsent stores e only when its key is not yet present.
func (c *Category) putIfAbsent(e PluginEntry) (stored bool) {
	if _, ok := c.entries[e.Key]; ok {
		return false
	}
	c.put(e)
	return true
}

func (c *Category) clone() *Category {
	out := &Category{name: c.name, entries: make(map[string]PluginEntry, len(c.entries))}
	maps.Copy(out.entries, c.entries)
	return out
}

// Put stores e in the category named e.Category, creating the category if needed.
// An existing entry with the same key is replaced. It reports whether a
// replacement happened.
func (c *Catalog) Put(e PluginEntry) bool {
	return c.ensure(e.Category).put(e)
}

func (c *Catalog) ensure(name string) *Category {
	cat, ok := c.categories[name]
	if !ok {
		cat = newCategory(name)
		c.categories[name] = cat
	}
	return cat
}

// Category returns the category with the given name.
func (c *Catalog) Category(name string) (*Category, bool) {
	cat, ok := c.categories[name]
	return cat, ok
}

// Lookup returns the entry stored under (category, key).
func (c *Catalog) Lookup(category, key string) (PluginEntry, bool) {
	cat, ok := c.categories[category]
	if !ok {
		return PluginEntry{}, false
	}
	return cat.Lookup(key)
}

// CategoryNames returns the category names in ascending order.
func (c *Catalog) CategoryNames() []string {
	return slices.Sorted(maps.Keys(c.categories))
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.categories) }

// EntryCount returns the total number of entries across all categories.
func (c *Catalog) EntryCount() int {
	n := 0
	for _, cat := range c.categories {
		n += cat.Len()
	}
	return n
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{categories: make(map[string]*Category, len(c.categories))}
	for name, cat := range c.categories {
		out.categories[name] = cat.clone()
	}
	return out
}

// Equal reports whether both catalogs hold the same categories and entries,
// independent of insertion order.
func (c *Catalog) Equal(other *Catalog) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.categories) != len(other.categories) {
		return false
	}
	for name, cat := range c.categories {
		o, ok := other.categories[name]
		if !ok || !maps.Equal(cat.entries, o.entries) {
			return false
		}
	}
	return true
}
