// Package models defines the data types shared by the brewlog offline
// engine: locally persisted drafts, remote records, conflicts and
// diagnostic snapshots.
package models

import "time"

// BrewPayload carries the domain fields of a brew as the remote API
// expects them. The sync engine treats everything here as opaque except
// BaristaID (ownership filter) and the reference fields used to correlate
// batch responses back to drafts.
type BrewPayload struct {
	Name         string     `json:"name"`
	MachineID    int64      `json:"machine_id"`
	BagID        int64      `json:"bag_id"`
	GrinderID    int64      `json:"grinder_id"`
	BaristaID    string     `json:"barista_id"`
	BrewTime     *float64   `json:"brew_time,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	Dose         *float64   `json:"dose,omitempty"`
	Yield        *float64   `json:"yield,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	TastingNotes string     `json:"tasting_notes,omitempty"`
	Reflections  string     `json:"reflections,omitempty"`
}

// Draft is a client-authored brew awaiting confirmation by the server.
//
// Id is generated on first save and never changes afterwards; it is the
// correlation key across the draft store, the sync queue and the conflict
// store. Saving an existing id is a full replace.
type Draft struct {
	Id         string      `json:"id"`
	Payload    BrewPayload `json:"payload"`
	CreatedAt  time.Time   `json:"created_at"`
	ModifiedAt time.Time   `json:"modified_at"`
}

// RemoteBrew is a brew as created by the server. The server assigns its
// own numeric identity; there is no echo of the client draft id.
type RemoteBrew struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	MachineID    int64      `json:"machine_id"`
	BagID        int64      `json:"bag_id"`
	GrinderID    int64      `json:"grinder_id"`
	BaristaID    string     `json:"barista_id"`
	BrewTime     *float64   `json:"brew_time"`
	Timestamp    *time.Time `json:"timestamp"`
	Dose         *float64   `json:"dose"`
	Yield        *float64   `json:"yield"`
	Rating       *int       `json:"rating"`
	TastingNotes string     `json:"tasting_notes"`
	Reflections  string     `json:"reflections"`
}

// StorageInfo is a read-only diagnostic snapshot; it is derived on demand
// and never persisted.
type StorageInfo struct {
	DraftCount    int
	PendingCount  int
	ConflictCount int
	LastSyncedAt  time.Time
	BackendKind   string
}
