// SPDX-License-Identifier: MPL-2.0

package combiner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/flate"
)

// maxPrealloc caps how much memory is reserved up front from a declared size.
const maxPrealloc = 16 << 20

type (
	// Inflater decompresses raw deflate streams. An Inflater is reused across
	// entries and is not safe for concurrent use.
	Inflater interface {
		// Inflate decompresses compressed. size is the declared uncompressed
		// size; at most size+1 bytes are produced so that callers can detect
		// entries that inflate past their declaration.
		Inflate(compressed []byte, size uint64) ([]byte, error)
		Close() error
	}

	flateInflater struct {
		rc     io.ReadCloser
		closed bool
	}
)

// NewInflater returns an Inflater backed by a single reusable flate decompressor.
func NewInflater() Inflater {
	return &flateInflater{}
}

func (f *flateInflater) Inflate(compressed []byte, size uint64) ([]byte, error) {
	if f.closed {
		return nil, errors.New("inflater is closed")
	}
	src := bytes.NewReader(compressed)
	if f.rc == nil {
		f.rc = flate.NewReader(src)
	} else if err := f.rc.(flate.Resetter).Reset(src, nil); err != nil {
		return nil, fmt.Errorf("failed to reset inflater: %w", err)
	}

	out := bytes.NewBuffer(make([]byte, 0, min(size, maxPrealloc)))
	limit := int64(math.MaxInt64)
	if size < math.MaxInt64 {
		limit = int64(size) + 1
	}
	if _, err := io.Copy(out, io.LimitReader(f.rc, limit)); err != nil {
		return nil, fmt.Errorf("failed to inflate: %w", err)
	}
	return out.Bytes(), nil
}

func (f *flateInflater) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.rc == nil {
		return nil
	}
	return f.rc.Close()
}
