// Package common defines shared sentinel errors used across the brewlog
// engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrCorrupt            = errors.New("corrupt record")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Sync-level errors (flow control, never thrown across the public API).
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrUnauthorized   = errors.New("no authenticated user")
	ErrOffline        = errors.New("network unavailable")
	ErrNothingToSync  = errors.New("no valid drafts to sync")
)
