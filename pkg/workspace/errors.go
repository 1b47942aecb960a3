package workspace

import (
	"errors"
	"fmt"
)

// Code is a stable error code identifying the failure class.
type Code string

const (
	// CodeBuildFailed indicates the initial workspace build aborted,
	// either at the confirmation gate or on a write failure. Partial
	// workspaces are not cleaned up automatically.
	CodeBuildFailed Code = "BuildFailed"

	// CodeMemberAlreadyExists indicates the requested member directory
	// already exists. The operation aborts with zero filesystem changes.
	CodeMemberAlreadyExists Code = "MemberAlreadyExists"

	// CodeTemplateMissing indicates the canonical template member is
	// absent from the workspace.
	CodeTemplateMissing Code = "TemplateMissing"

	// CodePartialWrite indicates a failure mid-clone or mid-rewrite. The
	// partial member directory is rolled back before this surfaces.
	CodePartialWrite Code = "PartialWrite"

	// CodeInvalidWorkspace indicates the workspace root is missing
	// required configuration files or declared shared packages.
	CodeInvalidWorkspace Code = "InvalidWorkspace"

	// CodeInvalidName indicates the member name violates the naming
	// rules or collides with the canonical template.
	CodeInvalidName Code = "InvalidName"
)

// Error is the engine error type. Path carries the filesystem path
// involved, when one exists; it is included in the rendered message so a
// single-line failure reason always names the offending path.
type Error struct {
	Code Code
	Msg  string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Msg)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, msg, path string, err error) *Error {
	return &Error{Code: code, Msg: msg, Path: path, Err: err}
}

// CodeOf extracts the error code, or the empty string if err does not
// wrap a workspace Error.
func CodeOf(err error) Code {
	var we *Error
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

// IsCode reports whether err wraps a workspace Error with the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
