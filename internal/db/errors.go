package db

import "errors"

// ErrNotConfigured is returned when a connection is needed but no
// connection string was configured.
var ErrNotConfigured = errors.New("database connection string is not configured (set MONGODB_URI)")

// ErrManagerClosed is returned by Manager.Store after Manager.Close.
var ErrManagerClosed = errors.New("database manager is closed")

var errStoreClosed = errors.New("store is closed")

// ConnectionError reports that the store could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "connect to database: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PersistenceError reports that the store rejected a read or a write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }
