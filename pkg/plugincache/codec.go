// SPDX-License-Identifier: MPL-2.0

package plugincache

import (
	"fmt"
	"io"
)

// Smallest possible encodings, used to reject counts that cannot fit in the
// bytes that remain.
const (
	minCategorySize = 2 + 4             // empty name + entryCount
	minEntrySize    = 2 + 2 + 2 + 1 + 1 // three empty strings + two flags
)

// Decode parses a plugin cache. Every field read is bounds-checked; malformed
// input fails with a *FormatError.
//
// A (category, key) pair repeated inside data keeps its first occurrence,
// as the runtime loader does. This de-duplication is local to one buffer and
// never fails, whatever the duplicate policy used when folding catalogs
// together.
func Decode(data []byte) (*Catalog, error) {
	r := &wireReader{buf: data}
	c := NewCatalog()

	categories, err := r.readCount("categoryCount", minCategorySize)
	if err != nil {
		return nil, err
	}
	for range categories {
		name, err := r.readUTF("categoryName")
		if err != nil {
			return nil, err
		}
		entries, err := r.readCount("entryCount", minEntrySize)
		if err != nil {
			return nil, err
		}
		cat := c.ensure(name)
		for range entries {
			e, err := decodeEntry(r)
			if err != nil {
				return nil, err
			}
			cat.putIfAbsent(e)
		}
	}
	// Stricter than the runtime loader, which stops reading after the last
	// declared category and ignores whatever follows.
	if r.remaining() != 0 {
		return nil, &FormatError{Reason: ReasonTrailingData, Offset: r.off}
	}
	return c, nil
}

func decodeEntry(r *wireReader) (e PluginEntry, err error) {
	if e.Key, err = r.readUTF("key"); err != nil {
		return e, err
	}
	if e.ClassName, err = r.readUTF("className"); err != nil {
		return e, err
	}
	if e.Name, err = r.readUTF("name"); err != nil {
		return e, err
	}
	if e.Printable, err = r.readBool("printable"); err != nil {
		return e, err
	}
	if e.Defer, err = r.readBool("defer"); err != nil {
		return e, err
	}
	return e, nil
}

// Encode serializes c with categories in ascending name order and entries in
// ascending key order. It fails with a *FormatError only when a string is
// longer than the u16 length prefix allows.
func Encode(c *Catalog) ([]byte, error) {
	w := &wireWriter{buf: make([]byte, 0, encodedSizeHint(c))}
	if err := w.writeCount(c.Len(), "categoryCount"); err != nil {
		return nil, err
	}
	for _, name := range c.CategoryNames() {
		cat := c.categories[name]
		if err := w.writeUTF(name, "categoryName"); err != nil {
			return nil, err
		}
		if err := w.writeCount(cat.Len(), "entryCount"); err != nil {
			return nil, err
		}
		for _, e := range cat.Entries() {
			if err := encodeEntry(w, e); err != nil {
				return nil, fmt.Errorf("plugin %s.%s: %w", name, e.Key, err)
			}
		}
	}
	return w.buf, nil
}

func encodeEntry(w *wireWriter, e PluginEntry) error {
	if err := w.writeUTF(e.Key, "key"); err != nil {
		return err
	}
	if err := w.writeUTF(e.ClassName, "className"); err != nil {
		return err
	}
	if err := w.writeUTF(e.Name, "name"); err != nil {
		return err
	}
	w.writeBool(e.Printable)
	w.writeBool(e.Defer)
	return nil
}

// EncodeTo writes the encoded catalog to w.
func EncodeTo(w io.Writer, c *Catalog) (int, error) {
	data, err := Encode(c)
	if err != nil {
		return 0, err
	}
	return w.Write(data)
}

func encodedSizeHint(c *Catalog) int {
	n := 4
	for _, cat := range c.categories {
		n += minCategorySize + len(cat.name)
		for _, e := range cat.entries {
			n += minEntrySize + len(e.Key) + len(e.ClassName) + len(e.Name)
		}
	}
	return n
}
