package database

import "errors"

// ErrNotFound is returned by Get* when no row matches the given id.
var ErrNotFound = errors.New("database: record not found")

// ErrDuplicate names a unique-constraint violation. No function in this
// package returns it: Insert* returns the driver's constraint error, wrapped.
var ErrDuplicate = errors.New("database: duplicate record")

// ErrSchemaVersionUnsupported is returned when the stored schema_version is
// newer than anything this binary's migration sequence knows how to read.
var ErrSchemaVersionUnsupported = errors.New("database: schema version unsupported by this binary")
