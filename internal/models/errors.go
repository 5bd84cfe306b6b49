package models

import "errors"

var (
	// ErrNotFound is returned when a tag or event id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownField is returned when an edit names a field outside EditableFields.
	ErrUnknownField = errors.New("unknown tag field")

	// ErrNothingSelected is the user-facing rejection for the "show selected only" filter.
	ErrNothingSelected = errors.New("no tags are selected")

	// ErrNothingToExport is returned when a sheet export has no tags to print.
	ErrNothingToExport = errors.New("no tags to export")
)
