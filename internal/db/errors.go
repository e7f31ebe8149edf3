package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrIndexNotFound   = errors.New("db: index not found")
	ErrIndexExists     = errors.New("db: index already exists")
	ErrTableNotFound   = errors.New("db: table not found")
	ErrUnknownRelation = errors.New("db: unknown relation")
	ErrInvalidQuery    = errors.New("db: invalid query")
)

// Op constants name the backend operation for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHSet        = "HSET"
	OpPing        = "PING"
	OpSelect      = "SELECT"
	OpCount       = "COUNT"
	OpScan        = "SCAN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
