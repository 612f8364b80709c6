// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError is a CUE error reformatted one line per underlying error.
// Unwrap returns the original CUE error.
type ValidationError struct {
	Filename string
	Lines    []string
	Err      error
}

func (e *ValidationError) Error() string {
	if len(e.Lines) == 1 {
		return e.Filename + ": " + e.Lines[0]
	}
	return e.Filename + ": validation failed:\n  " + strings.Join(e.Lines, "\n  ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FormatError rewrites a CUE error as a *ValidationError reading
// "<file>: <path>: <message>". Errors that are not CUE errors are prefixed
// with the file name and wrapped.
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		path := strings.Join(errors.Path(e), ".")
		msg := e.Error()
		if path != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	return &ValidationError{Filename: filename, Lines: lines, Err: err}
}

// CheckFileSize fails when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
