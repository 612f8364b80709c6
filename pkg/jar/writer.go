// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/singlejar/singlejar/pkg/combiner"
)

// WriteEntries writes a jar holding entries to w. Entry data is copied as-is,
// so the method, CRC and sizes chosen by each combiner end up in the archive.
func WriteEntries(w io.Writer, entries []*combiner.OutputEntry) (err error) {
	zw := zip.NewWriter(w)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, e := range entries {
		fw, createErr := zw.CreateRaw(e.FileHeader())
		if createErr != nil {
			return fmt.Errorf("failed to create entry %s: %w", e.Name, createErr)
		}
		if _, writeErr := fw.Write(e.Data); writeErr != nil {
			return fmt.Errorf("failed to write entry %s: %w", e.Name, writeErr)
		}
	}
	return nil
}

// WriteFile writes entries to a new jar at path. On failure the partial file
// is removed.
func WriteFile(path string, entries []*combiner.OutputEntry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create jar: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path) // Best-effort cleanup
		}
	}()

	return WriteEntries(f, entries)
}
