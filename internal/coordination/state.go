// Package coordination holds the three process-local, non-durable records
// the Lifecycle Coordinator uses to enforce at-most-one-interaction-per-player
// and two-phase report/confirm/rematch semantics. Each wraps a map behind a
// mutex the same way the push hub guards its client map; only
// insert-if-absent primitives are exposed where duplicate submissions must
// be rejected rather than silently overwritten.
package coordination

import "sync"

// PlayerLocks tracks which handles are currently engaged in an interaction
// (invite, active match, or rematch window), mapped to that interaction's id.
type PlayerLocks struct {
	mu   sync.Mutex
	byHandle map[string]string
}

// NewPlayerLocks creates an empty lock table.
func NewPlayerLocks() *PlayerLocks {
	return &PlayerLocks{byHandle: make(map[string]string)}
}

// ClaimPair atomically claims both handles for interactionID iff neither is
// currently held. Returns false, mutating nothing, if either is already
// held — callers must treat that as Busy.
func (p *PlayerLocks) ClaimPair(a, b, interactionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byHandle[a]; ok {
		return false
	}
	if _, ok := p.byHandle[b]; ok {
		return false
	}

	p.byHandle[a] = interactionID
	p.byHandle[b] = interactionID
	return true
}

// Get returns the interaction id a handle is currently locked to, if any.
func (p *PlayerLocks) Get(handle string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.byHandle[handle]
	return id, ok
}

// Release unconditionally frees both handles, regardless of which
// interaction they are currently bound to. These are soft locks: Release
// never checks the caller's interaction id against the one stored.
func (p *PlayerLocks) Release(a, b string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byHandle, a)
	delete(p.byHandle, b)
}

// Rebind moves both handles onto a new interaction id without releasing
// them in between, used when a rematch carries the lock into a new match.
func (p *PlayerLocks) Rebind(a, b, newInteractionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byHandle[a] = newInteractionID
	p.byHandle[b] = newInteractionID
}

// PendingReport is the first-report-wins record created by report() and
// consumed by confirm().
type PendingReport struct {
	ReporterHandle string
	ClaimedWinner  string
}

// PendingReports is a concurrent insert-if-absent table keyed by match id.
type PendingReports struct {
	mu    sync.Mutex
	byMatch map[string]PendingReport
}

// NewPendingReports creates an empty table.
func NewPendingReports() *PendingReports {
	return &PendingReports{byMatch: make(map[string]PendingReport)}
}

// InsertIfAbsent stores report for matchID iff no report is already pending
// for it. Returns false without mutating state if one already exists.
func (p *PendingReports) InsertIfAbsent(matchID string, report PendingReport) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byMatch[matchID]; exists {
		return false
	}
	p.byMatch[matchID] = report
	return true
}

// Get returns the pending report for matchID, if any.
func (p *PendingReports) Get(matchID string) (PendingReport, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.byMatch[matchID]
	return r, ok
}

// Remove deletes the pending report for matchID, if present.
func (p *PendingReports) Remove(matchID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byMatch, matchID)
}

// PendingRematch is the two-phase rematch-acceptance record created on
// match finalization.
type PendingRematch struct {
	Participant1 string
	Participant2 string
	Accepted     map[string]bool
}

// PendingRematches is a concurrent insert-if-absent table keyed by match id.
type PendingRematches struct {
	mu    sync.Mutex
	byMatch map[string]*PendingRematch
}

// NewPendingRematches creates an empty table.
func NewPendingRematches() *PendingRematches {
	return &PendingRematches{byMatch: make(map[string]*PendingRematch)}
}

// InsertIfAbsent stores a fresh rematch window for matchID iff one does not
// already exist.
func (p *PendingRematches) InsertIfAbsent(matchID, p1, p2 string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byMatch[matchID]; exists {
		return false
	}
	p.byMatch[matchID] = &PendingRematch{
		Participant1: p1,
		Participant2: p2,
		Accepted:     make(map[string]bool),
	}
	return true
}

// Get returns a snapshot of the rematch window for matchID, if any.
func (p *PendingRematches) Get(matchID string) (PendingRematch, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.byMatch[matchID]
	if !ok {
		return PendingRematch{}, false
	}

	accepted := make(map[string]bool, len(r.Accepted))
	for k, v := range r.Accepted {
		accepted[k] = v
	}
	return PendingRematch{Participant1: r.Participant1, Participant2: r.Participant2, Accepted: accepted}, true
}

// Accept records responder's acceptance and returns the resulting accepted
// count, or ok=false if matchID has no pending window or responder had
// already accepted.
func (p *PendingRematches) Accept(matchID, responder string) (count int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, exists := p.byMatch[matchID]
	if !exists {
		return 0, false
	}
	if r.Accepted[responder] {
		return 0, false
	}

	r.Accepted[responder] = true
	return len(r.Accepted), true
}

// Remove deletes the rematch window for matchID, if present, and reports
// whether it existed.
func (p *PendingRematches) Remove(matchID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byMatch[matchID]; !exists {
		return false
	}
	delete(p.byMatch, matchID)
	return true
}
