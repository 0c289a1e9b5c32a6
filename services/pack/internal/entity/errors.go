package entity

import "errors"

var (
	// ErrAccountNotFound means the owner identifier did not resolve to an
	// existing account; nothing is uploaded or persisted.
	ErrAccountNotFound = errors.New("account not found")

	// ErrImageUpload covers any failed upload among the thumbnail, list image
	// and item images. Already-uploaded blobs may be orphaned remotely but are
	// never referenced by the catalog.
	ErrImageUpload = errors.New("image upload failed")

	// ErrPersistenceConflict is a uniqueness or constraint violation at commit
	// time, most commonly a duplicate pack title.
	ErrPersistenceConflict = errors.New("pack conflicts with an existing record")

	// ErrStorageUnavailable is a catalog backend outage; the whole ingest call
	// can be retried safely.
	ErrStorageUnavailable = errors.New("catalog storage unavailable")

	// ErrPackNotFound is returned by read paths.
	ErrPackNotFound = errors.New("pack not found")

	// ErrInvalidTransition means the requested examine-state change is not
	// allowed by the state machine.
	ErrInvalidTransition = errors.New("invalid examine state transition")
)
