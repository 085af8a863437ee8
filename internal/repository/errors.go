package repository

import "errors"

var (
	// ErrStoreWrite wraps any failure to persist a submission.
	ErrStoreWrite = errors.New("store write failed")

	// ErrCorrupt is returned by List when a fallback file exists but does not
	// hold a JSON array. Append treats such a file as empty instead.
	ErrCorrupt = errors.New("fallback file is not a JSON array")

	// ErrUnknownKind is returned for a submission kind with no fallback file.
	ErrUnknownKind = errors.New("unknown submission kind")
)
