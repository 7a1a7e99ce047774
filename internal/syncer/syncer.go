// Package syncer implements the synchronization orchestrator: the
// single-flight coordinator that drains the pending queue against the
// remote brew service with a batch-first, individual-fallback strategy,
// filing conflicts instead of dropping or overwriting data.
package syncer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/openbrew/brewlog/internal/common"
	"github.com/openbrew/brewlog/internal/conflicts"
	"github.com/openbrew/brewlog/internal/drafts"
	"github.com/openbrew/brewlog/internal/logging"
	"github.com/openbrew/brewlog/internal/models"
)

// Remote is the delivery collaborator: the two create operations of the
// brew service. Batch responses carry no client ids, so correlation back
// to drafts is heuristic.
type Remote interface {
	CreateBrew(ctx context.Context, p models.BrewPayload) (*models.RemoteBrew, error)
	CreateBrews(ctx context.Context, ps []models.BrewPayload) ([]models.RemoteBrew, error)
}

// Identity resolves the owning barista; implementations report
// common.ErrUnauthorized when no identity is available.
type Identity interface {
	CurrentBaristaID(ctx context.Context) (string, error)
}

// Connectivity is the reachability check consulted before any delivery.
type Connectivity interface {
	Check(ctx context.Context) bool
}

// DraftError attributes a delivery failure to one draft.
type DraftError struct {
	DraftID string
	Err     string
}

// Result is what every sync attempt resolves to. Sync never returns a Go
// error across the public API: callers poll the result instead of
// wrapping every call in error handling.
type Result struct {
	Success     bool
	InProgress  bool
	SyncedCount int
	Synced      []models.RemoteBrew
	Conflicts   int
	Failed      []DraftError
	Error       string
}

// Syncer coordinates one sync run at a time. It owns no storage: every
// mutation goes through the draft store or the conflict store, keeping a
// single choke point for their invariants.
type Syncer struct {
	drafts    *drafts.Store
	conflicts *conflicts.Store
	monitor   Connectivity
	remote    Remote
	identity  Identity
	log       logging.Logger

	inFlight atomic.Bool
	registry *registry
}

// Config wires a Syncer. All collaborators are required except Logger.
type Config struct {
	Drafts    *drafts.Store
	Conflicts *conflicts.Store
	Monitor   Connectivity
	Remote    Remote
	Identity  Identity
	Logger    logging.Logger
}

func New(cfg Config) *Syncer {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Syncer{
		drafts:    cfg.Drafts,
		conflicts: cfg.Conflicts,
		monitor:   cfg.Monitor,
		remote:    cfg.Remote,
		identity:  cfg.Identity,
		log:       log,
		registry:  newRegistry(log),
	}
}

// Subscribe registers a status listener for started/completed/error
// events. The returned function removes exactly this listener.
func (s *Syncer) Subscribe(fn func(StatusEvent)) func() {
	return s.registry.add(fn)
}

// InProgress reports whether a run is currently executing.
func (s *Syncer) InProgress() bool {
	return s.inFlight.Load()
}

// Sync drains the pending queue. Re-entrant calls while a run is in
// flight return an InProgress result without side effects.
func (s *Syncer) Sync(ctx context.Context) Result {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Result{InProgress: true, Error: common.ErrSyncInProgress.Error()}
	}
	defer s.inFlight.Store(false)

	pending, err := s.drafts.ToSync(ctx)
	if err != nil {
		return s.fail(ctx, 0, fmt.Errorf("failed to read pending drafts: %w", err))
	}
	if len(pending) == 0 {
		return Result{Success: true}
	}

	baristaID, err := s.identity.CurrentBaristaID(ctx)
	if err != nil {
		return s.fail(ctx, len(pending), common.ErrUnauthorized)
	}

	// Drafts labelled with another barista are stale leftovers from an
	// earlier session on this device; they are held back, not deleted.
	mine := make([]models.Draft, 0, len(pending))
	for _, d := range pending {
		if d.Payload.BaristaID == baristaID {
			mine = append(mine, d)
		}
	}
	if len(mine) == 0 {
		return s.fail(ctx, len(pending), common.ErrNothingToSync)
	}

	if !s.monitor.Check(ctx) {
		return s.fail(ctx, len(mine), common.ErrOffline)
	}

	s.registry.notify(ctx, StatusEvent{Status: StatusStarted, Pending: len(mine)})
	s.log.Info(ctx, "sync started", "pending", len(mine))

	result := s.deliver(ctx, mine)

	s.registry.notify(ctx, StatusEvent{
		Status:    StatusCompleted,
		Pending:   len(mine),
		Synced:    result.SyncedCount,
		Failed:    len(result.Failed),
		Conflicts: result.Conflicts,
		Error:     result.Error,
	})
	s.log.Info(ctx, "sync completed",
		"synced", result.SyncedCount, "failed", len(result.Failed), "conflicts", result.Conflicts)
	return result
}

// fail resolves a run that could not attempt delivery at all.
func (s *Syncer) fail(ctx context.Context, pending int, err error) Result {
	s.log.Warn(ctx, "sync aborted", "error", err)
	s.registry.notify(ctx, StatusEvent{Status: StatusError, Pending: pending, Error: err.Error()})
	return Result{Error: err.Error()}
}

// deliver tries the batch path first and degrades to sequential
// individual creates when the batch itself fails.
func (s *Syncer) deliver(ctx context.Context, mine []models.Draft) Result {
	payloads := make([]models.BrewPayload, len(mine))
	for i, d := range mine {
		payloads[i] = d.Payload
	}

	created, err := s.remote.CreateBrews(ctx, payloads)
	if err == nil {
		return s.correlateBatch(ctx, mine, created)
	}

	s.log.Warn(ctx, "batch sync failed, falling back to individual delivery", "error", err)
	return s.deliverIndividually(ctx, mine)
}

// correlateBatch matches created records back to source drafts by their
// non-identity fields, since the batch response does not echo client ids.
// Two queued drafts with identical fields can mis-correlate; the match is
// first-unmatched-wins in queue order. Uncorrelated drafts stay queued.
func (s *Syncer) correlateBatch(ctx context.Context, mine []models.Draft, created []models.RemoteBrew) Result {
	result := Result{Success: true}
	matched := make(map[string]bool, len(mine))

	for _, record := range created {
		for _, d := range mine {
			if matched[d.Id] || !payloadMatches(d, record) {
				continue
			}
			if err := s.drafts.MarkSynced(ctx, d.Id); err != nil {
				s.log.Error(ctx, "failed to mark draft synced", "draft_id", d.Id, "error", err)
				break
			}
			matched[d.Id] = true
			result.SyncedCount++
			result.Synced = append(result.Synced, record)
			break
		}
	}

	for _, d := range mine {
		if !matched[d.Id] {
			s.log.Warn(ctx, "batch response did not correlate to draft, leaving queued", "draft_id", d.Id)
		}
	}
	return result
}

// deliverIndividually walks the drafts strictly one at a time: error
// attribution stays simple and the remote sees bounded load. Conflicts
// are filed and kept out of automatic retry; other failures stay queued
// for the next run.
func (s *Syncer) deliverIndividually(ctx context.Context, mine []models.Draft) Result {
	var result Result

	for _, d := range mine {
		created, err := s.remote.CreateBrew(ctx, d.Payload)
		if err == nil {
			if err := s.drafts.MarkSynced(ctx, d.Id); err != nil {
				result.Failed = append(result.Failed, DraftError{DraftID: d.Id, Err: err.Error()})
				continue
			}
			result.SyncedCount++
			result.Synced = append(result.Synced, *created)
			continue
		}

		if isConflict, kind := classify(err); isConflict {
			record := &models.ConflictRecord{
				DraftID:    d.Id,
				Local:      d,
				Kind:       kind,
				Message:    err.Error(),
				DetectedAt: time.Now().UTC(),
			}
			if ferr := s.conflicts.File(ctx, record); ferr != nil {
				// Filing failed: keep it as a plain failure so the draft
				// is retried rather than lost in limbo.
				result.Failed = append(result.Failed, DraftError{DraftID: d.Id, Err: ferr.Error()})
				continue
			}
			result.Conflicts++
			s.log.Warn(ctx, "delivery conflict filed", "draft_id", d.Id, "kind", kind)
			continue
		}

		result.Failed = append(result.Failed, DraftError{DraftID: d.Id, Err: err.Error()})
		s.log.Warn(ctx, "delivery failed, draft stays queued", "draft_id", d.Id, "error", err)
	}

	result.Success = len(result.Failed) == 0
	if len(result.Failed) > 0 {
		result.Error = fmt.Sprintf("%d of %d drafts failed", len(result.Failed), len(mine))
	}
	return result
}

// payloadMatches compares the fields the batch correlation relies on.
func payloadMatches(d models.Draft, r models.RemoteBrew) bool {
	p := d.Payload
	if p.Name != r.Name || p.MachineID != r.MachineID || p.BagID != r.BagID || p.GrinderID != r.GrinderID {
		return false
	}
	return floatPtrEqual(p.Dose, r.Dose)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Info assembles the diagnostic snapshot shown by the UI: counts, queue
// length, conflict count, last sync time and the active backend.
func (s *Syncer) Info(ctx context.Context) (models.StorageInfo, error) {
	all, err := s.drafts.GetAll(ctx)
	if err != nil {
		return models.StorageInfo{}, err
	}
	pending, err := s.drafts.PendingIDs(ctx)
	if err != nil {
		return models.StorageInfo{}, err
	}
	conflictCount, err := s.conflicts.Count(ctx)
	if err != nil {
		return models.StorageInfo{}, err
	}
	lastSync, err := s.drafts.LastSyncedAt(ctx)
	if err != nil {
		return models.StorageInfo{}, err
	}

	return models.StorageInfo{
		DraftCount:    len(all),
		PendingCount:  len(pending),
		ConflictCount: conflictCount,
		LastSyncedAt:  lastSync,
		BackendKind:   string(s.drafts.BackendKind()),
	}, nil
}
