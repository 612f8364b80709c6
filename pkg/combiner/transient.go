// SPDX-License-Identifier: MPL-2.0

package combiner

import (
	"fmt"
	"hash/crc32"
)

// TransientBytes holds the uncompressed contents of one source entry together
// with their CRC-32. It lives only for the duration of a single Merge.
type TransientBytes struct {
	data []byte
	crc  uint32
}

// ReadEntryContents loads a stored (uncompressed) entry.
func (t *TransientBytes) ReadEntryContents(meta EntryMetadata, raw []byte) error {
	t.data = raw
	t.crc = crc32.ChecksumIEEE(raw)
	return t.verify(meta)
}

// DecompressEntryContents loads a deflated entry through inflater.
func (t *TransientBytes) DecompressEntryContents(meta EntryMetadata, raw []byte, inflater Inflater) error {
	if uint64(len(raw)) != meta.CompressedSize() {
		return fmt.Errorf("%w: %s: compressed size %d, header declares %d",
			ErrCorruptEntry, meta.Name(), len(raw), meta.CompressedSize())
	}
	data, err := inflater.Inflate(raw, meta.UncompressedSize())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptEntry, meta.Name(), err)
	}
	t.data = data
	t.crc = crc32.ChecksumIEEE(data)
	return t.verify(meta)
}

func (t *TransientBytes) verify(meta EntryMetadata) error {
	if uint64(len(t.data)) != meta.UncompressedSize() {
		return fmt.Errorf("%w: %s: size %d, header declares %d",
			ErrCorruptEntry, meta.Name(), len(t.data), meta.UncompressedSize())
	}
	if want := meta.CRC32(); want != 0 && want != t.crc {
		return fmt.Errorf("%w: %s: crc32 %08x, header declares %08x",
			ErrCorruptEntry, meta.Name(), t.crc, want)
	}
	return nil
}

// DataSize returns the number of uncompressed bytes held.
func (t *TransientBytes) DataSize() uint64 { return uint64(len(t.data)) }

// Checksum returns the CRC-32 of the held bytes.
func (t *TransientBytes) Checksum() uint32 { return t.crc }

// CopyOut copies the held bytes into dst and returns the number of bytes
// copied and their CRC-32.
func (t *TransientBytes) CopyOut(dst []byte) (int, uint32) {
	return copy(dst, t.data), t.crc
}
