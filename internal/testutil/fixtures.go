// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"bytes"
	"hash/crc32"
	"io"
	"testing"

	"github.com/klauspost/compress/flate"

	"github.com/singlejar/singlejar/pkg/plugincache"
)

// JarEntry describes one archive member written by WriteJar.
type JarEntry struct {
	Name   string
	Data   []byte
	Method uint16
}

// CacheOf encodes a plugin cache holding the given entries.
func CacheOf(t testing.TB, entries ...plugincache.PluginEntry) []byte {
	t.Helper()

	c := plugincache.NewCatalog()
	for _, e := range entries {
		c.Put(e)
	}
	data, err := plugincache.Encode(c)
	if err != nil {
		t.Fatalf("failed to encode plugin cache: %v", err)
	}
	return data
}

// WriteJar writes a jar at path holding entries, compressing each with its
// method. Deflated members go through klauspost/compress.
func WriteJar(t testing.TB, path string, entries ...JarEntry) {
	t.Helper()

	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: e.Method})
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			t.Fatalf("failed to write %s: %v", e.Name, err)
		}
	}
	MustClose(t, zw)
	MustWriteFile(t, path, b.Bytes())
}

// WriteRawJar writes a jar at path holding a single member whose bytes are
// stored verbatim under the given method, so tests can produce entries with
// methods no reader supports.
func WriteRawJar(t testing.TB, path, name string, data []byte, method uint16) {
	t.Helper()

	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               name,
		Method:             method,
		CRC32:              crc32.ChecksumIEEE(data),
		CompressedSize64:   uint64(len(data)),
		UncompressedSize64: uint64(len(data)),
	})
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	MustClose(t, zw)
	MustWriteFile(t, path, b.Bytes())
}
