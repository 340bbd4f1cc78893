// Package coordinator implements the Lifecycle Coordinator: the state
// machine over a directed player-pair interaction, wiring the coordination
// maps, the match store, the rating engine, identity resolution, pool
// lookups, and push delivery into the seven transitions the REST surface
// exposes.
package coordinator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/duelcore/matchcore/internal/coordination"
	"github.com/duelcore/matchcore/internal/events"
	"github.com/duelcore/matchcore/internal/identity"
	"github.com/duelcore/matchcore/internal/matches"
	"github.com/duelcore/matchcore/internal/pool"
	"github.com/duelcore/matchcore/internal/push"
	"github.com/duelcore/matchcore/internal/ratings"
	apierr "github.com/duelcore/matchcore/pkg/errors"
	"github.com/duelcore/matchcore/pkg/logging"
	"github.com/duelcore/matchcore/pkg/metrics"
)

// RatingEngine applies a finalized match result to both participants'
// character ratings. Satisfied by *ratings.Engine; declared locally so the
// coordinator can be tested against a fake instead of a live database
// transaction.
type RatingEngine interface {
	ApplyMatchResult(ctx context.Context, p1, p2 ratings.Participant) (ratings.Result, error)
}

// EventPublisher emits the finalization event for a completed match.
// Satisfied by *events.Publisher; declared locally for the same reason as
// RatingEngine.
type EventPublisher interface {
	Publish(event events.MatchFinalized)
}

// Coordinator holds every collaborator a transition needs: in-memory
// coordination state, durable storage, the rating engine, the two lookups
// an accept needs (identity, pool), outbound push, and the finalization
// event publisher.
type Coordinator struct {
	locks     *coordination.PlayerLocks
	reports   *coordination.PendingReports
	rematches *coordination.PendingRematches

	store    matches.Store
	engine   RatingEngine
	identity identity.Resolver
	pool     pool.Adapter
	hub      *push.Hub
	events   EventPublisher
	metrics  *metrics.Metrics
	logger   logging.Logger

	rematchWindow time.Duration
}

// New builds a Lifecycle Coordinator. rematchWindow is how long a
// REMATCH_OFFERED window stays open before it is treated as a decline.
func New(
	store matches.Store,
	engine RatingEngine,
	resolver identity.Resolver,
	poolAdapter pool.Adapter,
	hub *push.Hub,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger logging.Logger,
	rematchWindow time.Duration,
) *Coordinator {
	return &Coordinator{
		locks:         coordination.NewPlayerLocks(),
		reports:       coordination.NewPendingReports(),
		rematches:     coordination.NewPendingRematches(),
		store:         store,
		engine:        engine,
		identity:      resolver,
		pool:          poolAdapter,
		hub:           hub,
		events:        publisher,
		metrics:       m,
		logger:        logger,
		rematchWindow: rematchWindow,
	}
}

// Invite claims both handles for a fresh interaction and notifies target.
// Fails Busy if either handle is already engaged.
func (c *Coordinator) Invite(ctx context.Context, challenger, target string) (string, error) {
	if challenger == target {
		return "", apierr.Validation("challenger and target must differ")
	}

	interactionID := uuid.NewString()
	if !c.locks.ClaimPair(challenger, target, interactionID) {
		return "", apierr.Busy("challenger or target is already engaged in an interaction")
	}

	c.metrics.IncrementInvitesSent()
	c.logger.Info("invite sent", logging.InteractionID(interactionID), logging.PlayerHandle(challenger))

	c.sendInvite(target, push.InviteStatusPending, interactionID, challenger)
	return interactionID, nil
}

// Accept resolves identities and checked-in characters, persists a fresh
// ACTIVE match, and starts it for both participants.
func (c *Coordinator) Accept(ctx context.Context, interactionID, challenger, opponent string) (string, error) {
	lockedID, ok := c.locks.Get(challenger)
	if !ok || lockedID != interactionID {
		return "", apierr.InvalidState("stale or unknown interaction id")
	}

	challengerID, _, err := c.identity.IdentifierForHandle(ctx, challenger)
	if err != nil {
		return "", apierr.Wrap(err, apierr.CodeInternal, "identity lookup failed")
	}
	opponentID, _, err := c.identity.IdentifierForHandle(ctx, opponent)
	if err != nil {
		return "", apierr.Wrap(err, apierr.CodeInternal, "identity lookup failed")
	}

	challengerCharacter, err := c.pool.CheckedInCharacter(ctx, challenger)
	if err != nil {
		return "", apierr.Wrap(err, apierr.CodeInternal, "pool lookup failed")
	}
	opponentCharacter, err := c.pool.CheckedInCharacter(ctx, opponent)
	if err != nil {
		return "", apierr.Wrap(err, apierr.CodeInternal, "pool lookup failed")
	}

	match := &matches.Match{
		ID:               uuid.NewString(),
		Player1Username:  challenger,
		Player2Username:  opponent,
		Player1Character: challengerCharacter,
		Player2Character: opponentCharacter,
		Status:           matches.StatusActive,
		PlayedAt:         time.Now(),
	}
	if challengerID != "" {
		match.Player1ID = &challengerID
	}
	if opponentID != "" {
		match.Player2ID = &opponentID
	}

	if err := c.store.Insert(ctx, match); err != nil {
		return "", apierr.Wrap(err, apierr.CodeInternal, "failed to persist new match")
	}

	c.metrics.IncrementInvitesAccepted()
	c.metrics.IncrementMatchesStarted()
	c.logger.Info("match started", logging.MatchID(match.ID), logging.PlayerHandle(challenger), logging.PlayerHandle(opponent))

	env := c.baseMatchEnvelope(match)
	env.Status = push.StatusStarted
	c.sendMatchUpdate(challenger, env)
	c.sendMatchUpdate(opponent, env)

	return match.ID, nil
}

// Decline releases both locks unconditionally; only a participant of the
// interaction may call it.
func (c *Coordinator) Decline(ctx context.Context, callerHandle, interactionID, challenger, opponent string) error {
	if callerHandle != challenger && callerHandle != opponent {
		return apierr.Forbidden("caller is not a participant of this interaction")
	}

	c.locks.Release(challenger, opponent)
	c.metrics.IncrementInvitesDeclined()

	env := push.Envelope{Kind: push.InboxMatchUpdates, Status: push.StatusDeclined, Player1: challenger, Player2: opponent}
	c.sendMatchUpdate(challenger, env)
	return nil
}

// Cancel releases both locks iff the challenger is still locked to
// interactionID.
func (c *Coordinator) Cancel(ctx context.Context, interactionID, challenger, opponent string) error {
	lockedID, ok := c.locks.Get(challenger)
	if !ok || lockedID != interactionID {
		return apierr.Busy("mismatched interaction id")
	}

	c.locks.Release(challenger, opponent)
	c.metrics.IncrementMatchesCancelled()

	c.sendInvite(opponent, push.InviteStatusCancelled, interactionID, challenger)
	return nil
}

// Report records the first claim for a match and notifies both
// participants. A second report for the same match is rejected without
// overwriting the first.
func (c *Coordinator) Report(ctx context.Context, matchID, reporter, claimedWinner string) error {
	match, err := c.store.FindByID(ctx, matchID)
	if err != nil {
		return apierr.Wrap(err, apierr.CodeInternal, "failed to load match")
	}
	if match == nil {
		return apierr.NotFound("match not found")
	}
	if !match.IsParticipant(claimedWinner) {
		return apierr.Validation("claimed winner is not a participant of this match")
	}

	report := coordination.PendingReport{ReporterHandle: reporter, ClaimedWinner: claimedWinner}
	if !c.reports.InsertIfAbsent(matchID, report) {
		return apierr.Busy("a report is already pending for this match")
	}

	c.metrics.IncrementMatchesReported()

	env := c.baseMatchEnvelope(match)
	env.Status = push.StatusAwaitingConfirmation
	env.ReporterUsername = reporter
	env.ClaimedWinner = claimedWinner
	c.sendMatchUpdate(match.Player1Username, env)
	c.sendMatchUpdate(match.Player2Username, env)

	return nil
}

// Confirm resolves the pending report against the confirmer's own claim,
// finalizes or disputes the match, opens the rematch window, and notifies
// both participants.
func (c *Coordinator) Confirm(ctx context.Context, matchID, confirmer, claimedWinner string) (string, error) {
	match, err := c.store.FindByID(ctx, matchID)
	if err != nil {
		return "", apierr.Wrap(err, apierr.CodeInternal, "failed to load match")
	}
	if match == nil {
		return "", apierr.NotFound("match not found")
	}
	if !match.IsParticipant(confirmer) {
		return "", apierr.Forbidden("caller is not a participant of this match")
	}
	if !match.IsParticipant(claimedWinner) {
		return "", apierr.Validation("claimed winner is not a participant of this match")
	}

	pending, ok := c.reports.Get(matchID)
	if !ok {
		return "", apierr.NotFound("no pending report for this match")
	}
	if pending.ReporterHandle == confirmer {
		return "", apierr.Busy("you already reported this match")
	}

	agreed := pending.ClaimedWinner == claimedWinner
	var result ratings.Result

	if agreed {
		p1Won := match.Player1Username == pending.ClaimedWinner
		p1, p2, err := c.participantsFor(match, p1Won)
		if err != nil {
			return "", err
		}

		result, err = c.engine.ApplyMatchResult(ctx, p1, p2)
		if err != nil {
			c.metrics.IncrementRatingUpdateRetries()
			return "", err
		}

		winner := pending.ClaimedWinner
		match.Status = matches.StatusCompleted
		match.WinnerUsername = &winner
		if p1Won {
			match.WinnerID = match.Player1ID
		} else {
			match.WinnerID = match.Player2ID
		}

		p1Before, p1After, p1K := result.Side1.RatingBefore, result.Side1.RatingAfter, result.Side1.KFactor
		p2Before, p2After, p2K := result.Side2.RatingBefore, result.Side2.RatingAfter, result.Side2.KFactor
		match.Player1EloBefore, match.Player1EloAfter, match.Player1KFactor = &p1Before, &p1After, &p1K
		match.Player2EloBefore, match.Player2EloAfter, match.Player2KFactor = &p2Before, &p2After, &p2K

		if err := c.store.Update(ctx, match); err != nil {
			return "", apierr.Wrap(err, apierr.CodeInternal, "failed to persist finalized match")
		}
		// PendingReport is removed only after the rating transaction and the
		// match update have both committed, so a failed confirm can be retried.
		c.reports.Remove(matchID)

		c.metrics.IncrementMatchesConfirmed()
		c.metrics.IncrementRatingUpdatesApplied()
	} else {
		match.Status = matches.StatusDisputed
		match.WinnerUsername = nil
		match.WinnerID = nil

		if err := c.store.Update(ctx, match); err != nil {
			return "", apierr.Wrap(err, apierr.CodeInternal, "failed to persist disputed match")
		}
		c.reports.Remove(matchID)

		c.metrics.IncrementMatchesDisputed()
	}

	c.rematches.InsertIfAbsent(matchID, match.Player1Username, match.Player2Username)
	c.metrics.IncrementRematchesOffered()
	c.scheduleRematchExpiry(matchID, match.Player1Username, match.Player2Username)

	env := c.baseMatchEnvelope(match)
	env.Status = push.StatusRematchOffered
	env.Result = match.Status
	if match.WinnerUsername != nil {
		env.ClaimedWinner = *match.WinnerUsername
	}
	if agreed {
		env.Player1EloDelta = &result.Side1.Delta
		env.Player2EloDelta = &result.Side2.Delta
		env.Player1NewElo = &result.Side1.RatingAfter
		env.Player2NewElo = &result.Side2.RatingAfter
	}
	c.sendMatchUpdate(match.Player1Username, env)
	c.sendMatchUpdate(match.Player2Username, env)

	if agreed {
		c.events.Publish(events.MatchFinalized{
			MatchID: match.ID,
			Winner:  *match.WinnerUsername,
			Side1: events.SideOutcome{
				Handle: match.Player1Username, Character: match.Player1Character,
				RatingBefore: result.Side1.RatingBefore, RatingAfter: result.Side1.RatingAfter, Delta: result.Side1.Delta,
			},
			Side2: events.SideOutcome{
				Handle: match.Player2Username, Character: match.Player2Character,
				RatingBefore: result.Side2.RatingBefore, RatingAfter: result.Side2.RatingAfter, Delta: result.Side2.Delta,
			},
		})
	}

	return match.Status, nil
}

// participantsFor maps a match row's two participants into Rating Engine
// inputs, with player1Won selecting which side is the winner.
func (c *Coordinator) participantsFor(match *matches.Match, player1Won bool) (ratings.Participant, ratings.Participant, error) {
	if match.Player1ID == nil || match.Player2ID == nil {
		return ratings.Participant{}, ratings.Participant{}, apierr.Internal("match is missing a participant identifier")
	}
	p1 := ratings.Participant{
		PlayerID: *match.Player1ID, Handle: match.Player1Username, Character: match.Player1Character, Won: player1Won,
	}
	p2 := ratings.Participant{
		PlayerID: *match.Player2ID, Handle: match.Player2Username, Character: match.Player2Character, Won: !player1Won,
	}
	return p1, p2, nil
}

// Rematch resolves one participant's response to an open rematch window.
// A decline (by either party) or the window's expiry tears the window down
// and releases both locks; a second accept creates the new match.
func (c *Coordinator) Rematch(ctx context.Context, matchID, responder string, accept bool) (string, error) {
	window, ok := c.rematches.Get(matchID)
	if !ok {
		return "", apierr.NotFound("no rematch offer pending for this match")
	}
	if responder != window.Participant1 && responder != window.Participant2 {
		return "", apierr.Forbidden("caller is not a participant of this match")
	}

	if !accept {
		if !c.rematches.Remove(matchID) {
			return "", apierr.NotFound("rematch offer already resolved")
		}
		c.locks.Release(window.Participant1, window.Participant2)
		c.emitRematchDeclined(window.Participant1, window.Participant2)
		return "", nil
	}

	count, ok := c.rematches.Accept(matchID, responder)
	if !ok {
		return "", apierr.Busy("rematch offer already resolved or already accepted")
	}

	if count == 1 {
		c.sendMatchUpdate(responder, push.Envelope{Kind: push.InboxMatchUpdates, MatchID: matchID, Status: push.StatusRematchWaiting})
		return "", nil
	}

	if !c.rematches.Remove(matchID) {
		return "", apierr.NotFound("rematch offer already resolved")
	}

	previous, err := c.store.FindByID(ctx, matchID)
	if err != nil {
		return "", apierr.Wrap(err, apierr.CodeInternal, "failed to load previous match")
	}
	if previous == nil {
		return "", apierr.NotFound("previous match not found")
	}

	newMatch := &matches.Match{
		ID:               uuid.NewString(),
		Player1Username:  previous.Player1Username,
		Player2Username:  previous.Player2Username,
		Player1ID:        previous.Player1ID,
		Player2ID:        previous.Player2ID,
		Player1Character: previous.Player1Character,
		Player2Character: previous.Player2Character,
		Status:           matches.StatusActive,
		PlayedAt:         time.Now(),
	}
	if err := c.store.Insert(ctx, newMatch); err != nil {
		return "", apierr.Wrap(err, apierr.CodeInternal, "failed to persist rematch")
	}

	c.locks.Rebind(window.Participant1, window.Participant2, newMatch.ID)
	c.metrics.IncrementRematchesAccepted()
	c.metrics.IncrementMatchesStarted()

	env := c.baseMatchEnvelope(newMatch)
	env.Status = push.StatusStarted
	c.sendMatchUpdate(window.Participant1, env)
	c.sendMatchUpdate(window.Participant2, env)

	return newMatch.ID, nil
}

// scheduleRematchExpiry treats an un-resolved rematch window as a decline
// once the configured window elapses.
func (c *Coordinator) scheduleRematchExpiry(matchID, p1, p2 string) {
	time.AfterFunc(c.rematchWindow, func() {
		if c.rematches.Remove(matchID) {
			c.locks.Release(p1, p2)
			c.emitRematchDeclined(p1, p2)
		}
	})
}

func (c *Coordinator) emitRematchDeclined(p1, p2 string) {
	env := push.Envelope{Kind: push.InboxMatchUpdates, Status: push.StatusRematchDeclined, Player1: p1, Player2: p2}
	c.sendMatchUpdate(p1, env)
	c.sendMatchUpdate(p2, env)
}

func (c *Coordinator) baseMatchEnvelope(match *matches.Match) push.Envelope {
	return push.Envelope{
		Kind:             push.InboxMatchUpdates,
		MatchID:          match.ID,
		Player1:          match.Player1Username,
		Player2:          match.Player2Username,
		Player1Character: match.Player1Character,
		Player2Character: match.Player2Character,
	}
}

func (c *Coordinator) sendMatchUpdate(handle string, env push.Envelope) {
	env.Kind = push.InboxMatchUpdates
	if !c.hub.Send(handle, &env) {
		c.logger.Debug("match update not delivered, recipient offline", logging.PlayerHandle(handle), logging.String("status", env.Status))
	}
}

func (c *Coordinator) sendInvite(handle, status, inviteID, from string) {
	env := push.Envelope{Kind: push.InboxInvites, InviteID: inviteID, From: from, Status: status}
	if !c.hub.Send(handle, &env) {
		c.logger.Debug("invite envelope not delivered, recipient offline", logging.PlayerHandle(handle), logging.String("status", status))
	}
}
