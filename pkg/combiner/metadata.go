// SPDX-License-Identifier: MPL-2.0

package combiner

import "archive/zip"

type (
	// FileHeaderMetadata adapts a zip central directory header to EntryMetadata.
	FileHeaderMetadata struct {
		Header *zip.FileHeader
	}

	// Metadata is a plain EntryMetadata value, for pipelines that parse headers
	// themselves.
	Metadata struct {
		EntryName    string
		Method       uint16
		Compressed   uint64
		Uncompressed uint64
		Checksum     uint32
	}
)

// Name returns the entry path.
func (m FileHeaderMetadata) Name() string { return m.Header.Name }

// CompressionMethod returns the zip compression method.
func (m FileHeaderMetadata) CompressionMethod() uint16 { return m.Header.Method }

// CompressedSize returns the size of the entry as stored.
func (m FileHeaderMetadata) CompressedSize() uint64 { return m.Header.CompressedSize64 }

// UncompressedSize returns the size of the entry contents.
func (m FileHeaderMetadata) UncompressedSize() uint64 { return m.Header.UncompressedSize64 }

// CRC32 returns the CRC-32 of the entry contents.
func (m FileHeaderMetadata) CRC32() uint32 { return m.Header.CRC32 }

// Name returns the entry path.
func (m Metadata) Name() string { return m.EntryName }

// CompressionMethod returns the compression method.
func (m Metadata) CompressionMethod() uint16 { return m.Method }

// CompressedSize returns the size of the entry as stored.
func (m Metadata) CompressedSize() uint64 { return m.Compressed }

// UncompressedSize returns the size of the entry contents.
func (m Metadata) UncompressedSize() uint64 { return m.Uncompressed }

// CRC32 returns the CRC-32 of the entry contents, or 0 if unknown.
func (m Metadata) CRC32() uint32 { return m.Checksum }
