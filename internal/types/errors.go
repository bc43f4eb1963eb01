package types

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	ErrEmptyInput        = xerrors.New("empty file: no header row")
	ErrDuplicateLanguage = xerrors.New("duplicate language column")
	ErrRowLength         = xerrors.New("row length does not match header")
	ErrUnsupportedFormat = xerrors.New("unsupported file type")
	ErrNoInput           = xerrors.New("no input file given")
)

// InputError reports an input file that is missing, unreadable or not
// parseable as a table.
type InputError struct {
	Path string
	Line int
	Err  error
}

func (e *InputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("input %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// OutputError reports an output directory or file that could not be
// created or written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// FormatError reports a structurally malformed table, such as a row whose
// length differs from the header in strict mode.
type FormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("format %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("format %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
