// SPDX-License-Identifier: MPL-2.0

package plugincache

import (
	"slices"
	"testing"
)

func TestPutRewritesCategoryBackReference(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	if replaced := c.Put(appenderEntry()); replaced {
		t.Error("Put() on empty catalog reported a replacement")
	}
	cat, ok := c.Category("Core")
	if !ok {
		t.Fatal("Category(Core) missing")
	}
	for _, e := range cat.Entries() {
		if e.Category != cat.Name() {
			t.Errorf("entry %q Category = %q, want %q", e.Key, e.Category, cat.Name())
		}
	}
	if replaced := c.Put(appenderEntry()); !replaced {
		t.Error("second Put() did not report a replacement")
	}
}

func TestOrderedAccessors(t *testing.T) {
	t.Parallel()

	c := catalogOf(
		PluginEntry{Category: "b", Key: "z"},
		PluginEntry{Category: "a", Key: "y"},
		PluginEntry{Category: "b", Key: "m"},
		PluginEntry{Category: "B", Key: "q"},
	)

	if got, want := c.CategoryNames(), []string{"B", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("CategoryNames() = %v, want %v", got, want)
	}
	b, _ := c.Category("b")
	if got, want := b.Keys(), []string{"m", "z"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	c := catalogOf(appenderEntry())
	clone := c.Clone()
	clone.Put(PluginEntry{Category: "Core", Key: "Other"})
	clone.Put(PluginEntry{Category: "New", Key: "k"})

	if c.EntryCount() != 1 || c.Len() != 1 {
		t.Errorf("original changed after mutating clone: %d categories, %d entries", c.Len(), c.EntryCount())
	}
	if !c.Equal(catalogOf(appenderEntry())) {
		t.Error("original no longer equals its initial content")
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	changed := appenderEntry()
	changed.Defer = true

	tests := []struct {
		name string
		a, b *Catalog
		want bool
	}{
		{name: "both empty", a: NewCatalog(), b: NewCatalog(), want: true},
		{name: "same content", a: catalogOf(appenderEntry()), b: catalogOf(appenderEntry()), want: true},
		{name: "different flag", a: catalogOf(appenderEntry()), b: catalogOf(changed), want: false},
		{name: "extra category", a: catalogOf(appenderEntry()), b: catalogOf(appenderEntry(), PluginEntry{Category: "X"}), want: false},
		{name: "nil and empty", a: nil, b: NewCatalog(), want: false},
		{name: "both nil", a: nil, b: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
