// SPDX-License-Identifier: MPL-2.0

package plugincache

import (
	"encoding/binary"
	"math"
)

// maxUTFLength is the largest string the u16 length prefix can describe.
const maxUTFLength = math.MaxUint16

// maxCount is the largest category or entry count the Log4j2 loader accepts;
// it writes and reads counts as a signed 32-bit int.
const maxCount = math.MaxInt32

// wireReader reads big-endian fields from a byte slice. Every read checks the
// remaining length first and fails with a FormatError instead of reading past
// the end.
type wireReader struct {
	buf []byte
	off int
}

func (r *wireReader) remaining() int { return len(r.buf) - r.off }

func (r *wireReader) take(n int, field string) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, &FormatError{Reason: ReasonTruncated, Offset: r.off, Field: field}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *wireReader) readUint8(field string) (uint8, error) {
	b, err := r.take(1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *wireReader) readBool(field string) (bool, error) {
	b, err := r.readUint8(field)
	return b != 0, err
}

func (r *wireReader) readUint16(field string) (uint16, error) {
	b, err := r.take(2, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *wireReader) readUint32(field string) (uint32, error) {
	b, err := r.take(4, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// readCount reads a u32 count and rejects values the loader could not have
// written, and values that cannot fit in the bytes left given minRecord bytes
// per record.
func (r *wireReader) readCount(field string, minRecord int) (int, error) {
	start := r.off
	v, err := r.readUint32(field)
	if err != nil {
		return 0, err
	}
	if v > maxCount {
		return 0, &FormatError{Reason: ReasonCountRange, Offset: start, Field: field}
	}
	n := int(v)
	if minRecord > 0 && n > r.remaining()/minRecord {
		return 0, &FormatError{Reason: ReasonTruncated, Offset: r.off, Field: field}
	}
	return n, nil
}

// readUTF reads a u16-length-prefixed string. The bytes are kept as they are;
// no modified-UTF-8 decoding is applied.
func (r *wireReader) readUTF(field string) (string, error) {
	n, err := r.readUint16(field)
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n), field)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// wireWriter appends big-endian fields to a growing buffer.
type wireWriter struct {
	buf []byte
}

func (w *wireWriter) writeBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

func (w *wireWriter) writeUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *wireWriter) writeCount(n int, field string) error {
	if n < 0 || n > maxCount {
		return &FormatError{Reason: ReasonEntryTooLarge, Offset: -1, Field: field}
	}
	w.writeUint32(uint32(n))
	return nil
}

func (w *wireWriter) writeUTF(s, field string) error {
	if len(s) > maxUTFLength {
		return &FormatError{Reason: ReasonEntryTooLarge, Offset: -1, Field: field}
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}
