package store

import "errors"

// Sentinel errors returned by store implementations. The model layer maps
// these onto user-facing AppErrors.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("store: record not found")

	// ErrDuplicate indicates a uniqueness violation, e.g. a second invite
	// for the same (trip, guest email) pair.
	ErrDuplicate = errors.New("store: duplicate record")

	// ErrVersionConflict indicates a lost compare-and-swap: the document
	// version submitted with a replacement no longer matches the stored one.
	ErrVersionConflict = errors.New("store: version conflict")
)
