// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/compress/flate"

	"github.com/singlejar/singlejar/pkg/combiner"
)

// ErrEntryNotFound is returned by ReadEntry when the jar has no such entry.
var ErrEntryNotFound = errors.New("entry not found")

// Stats summarizes a MergeJars run.
type Stats struct {
	Jars    int
	Routed  int
	Skipped int
}

// MergeJars visits the jars at paths in order and passes every entry that r
// routes to its combiner, as raw stored bytes together with the entry's
// central directory header. Other entries are counted as skipped. The context
// is checked between jars.
func MergeJars(ctx context.Context, r *Router, paths []string) (Stats, error) {
	var stats Stats
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		routed, skipped, err := mergeJar(r, path)
		stats.Routed += routed
		stats.Skipped += skipped
		if err != nil {
			return stats, fmt.Errorf("%s: %w", path, err)
		}
		stats.Jars++
		slog.Debug("visited jar", "path", path, "routed", routed, "skipped", skipped)
	}
	return stats, nil
}

func mergeJar(r *Router, path string) (routed, skipped int, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open jar: %w", err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, f := range zr.File {
		c, ok := r.Lookup(f.Name)
		if !ok {
			skipped++
			continue
		}
		raw, readErr := readRaw(f)
		if readErr != nil {
			return routed, skipped, readErr
		}
		if mergeErr := c.Merge(combiner.FileHeaderMetadata{Header: &f.FileHeader}, raw); mergeErr != nil {
			return routed, skipped, mergeErr
		}
		routed++
	}
	return routed, skipped, nil
}

func readRaw(f *zip.File) ([]byte, error) {
	rd, err := f.OpenRaw()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return raw, nil
}

// ReadEntry returns the uncompressed contents of the entry called name in the
// jar at path.
func ReadEntry(path, name string) (data []byte, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open jar: %w", err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, openErr := f.Open()
		if openErr != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, openErr)
		}
		defer func() {
			if closeErr := rc.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		data, err = io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
}
