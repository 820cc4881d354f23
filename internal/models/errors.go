package models

import "fmt"

// SchemaError reports a required column missing from an input table. It is
// raised once at the load boundary; the transformation core assumes columns
// are present.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s: required column %q missing", e.Table, e.Column)
}

// ValueError reports a timestamp or geometry value that cannot be parsed.
type ValueError struct {
	Table string
	Field string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("table %s: field %s: cannot parse %q: %v", e.Table, e.Field, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// PathError reports a missing or unreadable input/output directory. Reads
// catch it at the I/O boundary and continue with an empty table set.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }
