package models

import "time"

// ConflictKind classifies why a draft collided with remote state.
type ConflictKind string

const (
	ConflictKindVersion   ConflictKind = "version"
	ConflictKindData      ConflictKind = "data"
	ConflictKindOwnership ConflictKind = "ownership"
)

// ConflictRecord captures a disagreement discovered during sync. It is
// keyed by the draft id, survives restarts, and is removed only by an
// explicit resolution from the caller.
type ConflictRecord struct {
	DraftID    string       `json:"draft_id"`
	Local      Draft        `json:"local"`
	Remote     *RemoteBrew  `json:"remote,omitempty"`
	Kind       ConflictKind `json:"kind"`
	Message    string       `json:"message"`
	DetectedAt time.Time    `json:"detected_at"`
}
