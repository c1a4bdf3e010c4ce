package backup

import "fmt"

// ValidationError reports a missing or malformed pipeline argument.
type ValidationError struct {
	Field  string // "source", "destination" or "pattern"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("no %s given", e.Field)
}

// PathNotFoundError reports a directory that does not exist.
type PathNotFoundError struct {
	Role string // "source", "destination" or "scan"
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("%s directory does not exist: %s", e.Role, e.Path)
}

// InvalidNameError reports a file name without a base name or an extension.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid file name %q: %s", e.Name, e.Reason)
}

// EmptyResultError reports a stage whose input or output sequence is empty.
type EmptyResultError struct {
	Stage string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: no files", e.Stage)
}

// IOError wraps a failed filesystem operation on a single path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
