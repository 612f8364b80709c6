// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"io"
	"path/filepath"
	"testing"

	"github.com/singlejar/singlejar/pkg/plugincache"
)

func TestCacheOf(t *testing.T) {
	t.Parallel()

	data := CacheOf(t, plugincache.PluginEntry{Category: "Core", Key: "Console", ClassName: "x.Console", Name: "Console"})
	c, err := plugincache.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, ok := c.Lookup("Core", "Console"); !ok {
		t.Error("Lookup(Core, Console) ok = false")
	}
}

func TestWriteJar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method uint16
		raw    bool
	}{
		{name: "stored", method: zip.Store},
		{name: "deflated", method: zip.Deflate},
		{name: "raw stored", method: zip.Store, raw: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "nested", "a.jar")
			data := []byte("plugin cache bytes")
			if tt.raw {
				WriteRawJar(t, path, "a.dat", data, tt.method)
			} else {
				WriteJar(t, path, JarEntry{Name: "a.dat", Data: data, Method: tt.method})
			}

			zr, err := zip.OpenReader(path)
			if err != nil {
				t.Fatalf("OpenReader() error = %v", err)
			}
			defer DeferClose(t, zr)()

			if len(zr.File) != 1 || zr.File[0].Method != tt.method {
				t.Fatalf("jar members = %+v", zr.File)
			}
			rc, err := zr.File[0].Open()
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			got, err := io.ReadAll(rc)
			MustClose(t, rc)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != string(data) {
				t.Errorf("member contents = %q, want %q", got, data)
			}
		})
	}
}
