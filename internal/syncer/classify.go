package syncer

import (
	"strings"

	"github.com/openbrew/brewlog/internal/models"
)

// conflict markers in remote error text. The remote API guarantees no
// structured error codes, so classification is a keyword heuristic on the
// message it surfaces.
var conflictMarkers = []string{"conflict", "duplicate", "version", "already exists"}

// classify decides whether a delivery error is a conflict and, if so,
// which kind. Unmatched errors stay generic failures: defaulting to
// conflict would mask real errors behind the conflict store.
func classify(err error) (bool, models.ConflictKind) {
	msg := strings.ToLower(err.Error())

	conflict := false
	for _, marker := range conflictMarkers {
		if strings.Contains(msg, marker) {
			conflict = true
			break
		}
	}
	if !conflict {
		return false, ""
	}

	switch {
	case strings.Contains(msg, "version"), strings.Contains(msg, "modified"):
		return true, models.ConflictKindVersion
	case strings.Contains(msg, "ownership"), strings.Contains(msg, "permission"):
		return true, models.ConflictKindOwnership
	default:
		return true, models.ConflictKindData
	}
}
