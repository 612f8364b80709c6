// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"

	"github.com/singlejar/singlejar/internal/issue"
	"github.com/singlejar/singlejar/pkg/combiner"
	"github.com/singlejar/singlejar/pkg/plugincache"
	"github.com/singlejar/singlejar/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classify maps a merge failure to its exit code and help page.
func classify(err error) (types.ExitCode, issue.Id) {
	switch {
	case err == nil:
		return types.ExitOK, 0
	case errors.Is(err, combiner.ErrUnsupportedCompressionMethod):
		return types.ExitUnsupported, issue.UnsupportedCompressionId
	case errors.Is(err, plugincache.ErrDuplicatePlugin):
		return types.ExitFailure, issue.DuplicatePluginId
	case errors.Is(err, plugincache.ErrFormat):
		return types.ExitFailure, issue.MalformedPluginCacheId
	case errors.Is(err, combiner.ErrCorruptEntry):
		return types.ExitFailure, issue.CorruptEntryId
	case errors.Is(err, zip.ErrFormat), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return types.ExitFailure, issue.JarOpenFailedId
	default:
		return types.ExitFailure, 0
	}
}

// failure wraps err for the top-level boundary: an ActionableError linked to
// the matching help page, inside an ExitError carrying the exit code.
func failure(err error, operation, resource string, suggestions ...string) error {
	if err == nil {
		return nil
	}
	code, id := classify(err)
	ae := issue.WrapWithContext(err, operation, resource)
	ae.Issue = id
	ae.Suggestions = suggestions
	return &ExitError{Code: code, Err: ae}
}

// exitCodeOf returns the process status for the error returned by the root
// command. Errors that do not carry a failing ExitError exit with ExitFailure.
func exitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && !exitErr.Code.IsSuccess() {
		return exitErr.Code
	}
	return types.ExitFailure
}
