// Package errors defines the terminal error kinds the fat12 utilities and the
// underlying volume driver can raise. Every kind in section 7 of the
// specification this module implements (BadUsage, IoOpen, NotFound,
// LocalExists, DuplicateName, RootFull, NoDirectoryFound, NoSpace) has a
// constant here so callers can compare with errors.Is instead of matching on
// message text.
package errors

import "fmt"

// DriverError is the interface every error this package produces satisfies:
// a plain error plus the ability to attach a detail message or wrap a lower
// cause, while staying comparable against a FatError constant via errors.Is.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
}

// FatError is a sentinel error kind. Like syscall.Errno, comparing against one
// of these constants with errors.Is tells a caller what went wrong without
// needing to inspect a message string.
type FatError string

func (e FatError) Error() string {
	return string(e)
}

// WithMessage attaches a detail string to e, keeping e itself as the cause so
// errors.Is(result, e) still holds.
func (e FatError) WithMessage(message string) DriverError {
	return &detailedError{kind: e, text: fmt.Sprintf("%s: %s", e.Error(), message)}
}

// WrapError attaches a lower-level cause to e. The returned error's message
// includes err's text, but e remains the error errors.Is matches against,
// not err — a wrapped os.PathError never masks the FatError kind it occurred
// under.
func (e FatError) WrapError(err error) DriverError {
	return &detailedError{kind: e, text: fmt.Sprintf("%s: %s", e.Error(), err.Error()), cause: err}
}

// detailedError carries a FatError kind plus the extra text or wrapped cause
// that produced it. Unwrap always returns kind, so errors.Is against the
// original FatError constant holds no matter how much detail was layered on.
type detailedError struct {
	kind  FatError
	text  string
	cause error
}

func (e *detailedError) Error() string {
	return e.text
}

func (e *detailedError) WithMessage(message string) DriverError {
	return &detailedError{kind: e.kind, text: fmt.Sprintf("%s: %s", e.text, message), cause: e.cause}
}

func (e *detailedError) WrapError(err error) DriverError {
	return &detailedError{kind: e.kind, text: fmt.Sprintf("%s: %s", e.text, err.Error()), cause: err}
}

func (e *detailedError) Unwrap() error {
	return e.kind
}

const (
	// ErrBadUsage means the command line was malformed: wrong number of
	// arguments, or similar.
	ErrBadUsage = FatError("bad usage")
	// ErrIoOpen means the image or a host file could not be opened.
	ErrIoOpen = FatError("failed to open file")
	// ErrNotFound means a named file was not present where it was expected:
	// in the volume's root directory (get), or on the host (put).
	ErrNotFound = FatError("file not found")
	// ErrLocalExists means a host-side file already occupies the name an
	// extract would create.
	ErrLocalExists = FatError("local file already exists")
	// ErrDuplicateName means a file of the same 8.3 name already exists
	// somewhere in the volume's directory tree.
	ErrDuplicateName = FatError("duplicate name in disk image")
	// ErrRootFull means the destination directory of an insertion (the root,
	// or the named subdirectory) has no free or deleted slot to reuse for a
	// new entry.
	ErrRootFull = FatError("root directory is full")
	// ErrNoDirectoryFound means a named destination subdirectory was not
	// found while resolving an insertion target.
	ErrNoDirectoryFound = FatError("directory not found")
	// ErrNoSpace means the volume's free-cluster count cannot hold the file
	// being inserted.
	ErrNoSpace = FatError("not enough free space on volume")
	// ErrFileSystemCorrupted means the on-disk structures violate an
	// invariant the driver relies on (e.g. a FAT chain that never reaches an
	// end-of-chain marker).
	ErrFileSystemCorrupted = FatError("file system structure is corrupted")
)
