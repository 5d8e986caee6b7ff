package repository

import "fmt"

// StorageErrorKind tells reads and writes apart.
type StorageErrorKind string

const (
	// StorageReadError covers access and decode failures on read.
	StorageReadError StorageErrorKind = "read"
	// StorageWriteError covers encode and access failures on write.
	StorageWriteError StorageErrorKind = "write"
)

// StorageError describes a failed access to the key-value store.
// Repositories log and swallow it; it is never returned to callers.
type StorageError struct {
	Kind StorageErrorKind
	Key  string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Kind, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
