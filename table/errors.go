package table

import "errors"

var (
	// ErrMissingColumn is returned when a named column is absent from a table.
	ErrMissingColumn = errors.New("missing column")

	// ErrDuplicateColumn is returned when a table would hold two columns with
	// the same name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrColumnCollision is returned when a join or rename would overwrite an
	// existing column.
	ErrColumnCollision = errors.New("column name collision")

	// ErrDuplicateKey is returned when a join key is not unique, which would
	// otherwise multiply rows.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrRowLength is returned when a row does not have one cell per column.
	ErrRowLength = errors.New("row length mismatch")
)
