// SPDX-License-Identifier: MPL-2.0

package combiner

import (
	"archive/zip"
	"bytes"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/opencontainers/go-digest"
)

// DefaultModified is the timestamp written on combined entries so that output
// jars are reproducible. It matches the DOS date singlejar uses for every entry.
var DefaultModified = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

type (
	// EntryWriter is the archive-writing collaborator a combiner appends its
	// serialized output to.
	EntryWriter interface {
		Append(p []byte)
		OutputEntry(compress bool) (*OutputEntry, error)
	}

	// OutputEntry is a finalized archive entry, ready to be written with
	// zip.Writer.CreateRaw.
	OutputEntry struct {
		Name             string
		Method           uint16
		CRC32            uint32
		CompressedSize   uint64
		UncompressedSize uint64
		Modified         time.Time
		// Data holds the entry bytes as they go into the archive (compressed
		// when Method is MethodDeflated).
		Data []byte
		// Digest identifies the uncompressed contents.
		Digest digest.Digest
	}

	// Concatenator is an append-only EntryWriter that keeps its contents in
	// memory.
	Concatenator struct {
		name     string
		level    int
		modified time.Time
		buf      bytes.Buffer
	}

	// ConcatenatorOption configures a Concatenator.
	ConcatenatorOption func(*Concatenator)
)

// WithLevel sets the deflate level used when compression is requested.
func WithLevel(level int) ConcatenatorOption {
	return func(c *Concatenator) {
		c.level = level
	}
}

// WithModified sets the modification time recorded on the output entry.
func WithModified(t time.Time) ConcatenatorOption {
	return func(c *Concatenator) {
		c.modified = t
	}
}

// NewConcatenator returns an EntryWriter for the entry called name.
func NewConcatenator(name string, opts ...ConcatenatorOption) *Concatenator {
	c := &Concatenator{
		name:     name,
		level:    flate.BestCompression,
		modified: DefaultModified,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Append adds p to the entry contents.
func (c *Concatenator) Append(p []byte) {
	c.buf.Write(p)
}

// Len returns the number of bytes appended so far.
func (c *Concatenator) Len() int { return c.buf.Len() }

// OutputEntry produces the archive entry for the appended bytes. When compress
// is true the contents are deflated, unless deflating does not make them
// smaller, in which case they are stored.
func (c *Concatenator) OutputEntry(compress bool) (*OutputEntry, error) {
	data := c.buf.Bytes()
	e := &OutputEntry{
		Name:             c.name,
		Method:           MethodStored,
		CRC32:            crc32.ChecksumIEEE(data),
		CompressedSize:   uint64(len(data)),
		UncompressedSize: uint64(len(data)),
		Modified:         c.modified,
		Data:             bytes.Clone(data),
		Digest:           digest.FromBytes(data),
	}
	if !compress {
		return e, nil
	}

	var out bytes.Buffer
	fw, err := flate.NewWriter(&out, c.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create deflater: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to deflate %s: %w", c.name, err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("failed to deflate %s: %w", c.name, err)
	}
	if out.Len() < len(data) {
		e.Method = MethodDeflated
		e.Data = out.Bytes()
		e.CompressedSize = uint64(out.Len())
	}
	return e, nil
}

// FileHeader returns the zip header describing e, suitable for
// zip.Writer.CreateRaw.
func (e *OutputEntry) FileHeader() *zip.FileHeader {
	h := &zip.FileHeader{
		Name:               e.Name,
		Method:             e.Method,
		CRC32:              e.CRC32,
		CompressedSize64:   e.CompressedSize,
		UncompressedSize64: e.UncompressedSize,
		Modified:           e.Modified,
	}
	h.SetMode(0o644)
	return h
}
