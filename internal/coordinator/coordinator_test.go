package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duelcore/matchcore/internal/events"
	"github.com/duelcore/matchcore/internal/matches"
	"github.com/duelcore/matchcore/internal/push"
	"github.com/duelcore/matchcore/internal/ratings"
	apierr "github.com/duelcore/matchcore/pkg/errors"
	"github.com/duelcore/matchcore/pkg/logging"
	"github.com/duelcore/matchcore/pkg/metrics"
)

// fakeStore is an in-memory matches.Store for coordinator tests; no
// read-projection method is exercised by the Lifecycle Coordinator itself.
type fakeStore struct {
	byID map[string]*matches.Match
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]*matches.Match)}
}

func (s *fakeStore) Insert(ctx context.Context, m *matches.Match) error {
	s.byID[m.ID] = m
	return nil
}

func (s *fakeStore) FindByID(ctx context.Context, id string) (*matches.Match, error) {
	return s.byID[id], nil
}

func (s *fakeStore) Update(ctx context.Context, m *matches.Match) error {
	s.byID[m.ID] = m
	return nil
}

func (s *fakeStore) RecentByParticipant(ctx context.Context, handle string, limit int) ([]*matches.Match, error) {
	return nil, nil
}

func (s *fakeStore) RecentByParticipantAndCharacter(ctx context.Context, handle, character string, limit int) ([]*matches.Match, error) {
	return nil, nil
}

func (s *fakeStore) CountByParticipant(ctx context.Context, handle string) (int64, error) {
	return 0, nil
}

// fakeResolver maps handles to a deterministic identifier ("id-"+handle).
type fakeResolver struct{}

func (fakeResolver) IdentifierForHandle(ctx context.Context, handle string) (string, bool, error) {
	return "id-" + handle, true, nil
}

func (fakeResolver) HandleForIdentifier(ctx context.Context, id string) (string, bool, error) {
	return id, true, nil
}

// fakePool always reports the same checked-in character, regardless of handle.
type fakePool struct {
	character string
}

func (p fakePool) CheckedInCharacter(ctx context.Context, handle string) (string, error) {
	return p.character, nil
}

// fakeEngine stands in for the rating engine's locking transaction, applying
// a fixed delta without touching a database.
type fakeEngine struct {
	delta int
	err   error
}

func (e fakeEngine) ApplyMatchResult(ctx context.Context, p1, p2 ratings.Participant) (ratings.Result, error) {
	if e.err != nil {
		return ratings.Result{}, e.err
	}

	side := func(p ratings.Participant) ratings.SideResult {
		before := 1200
		after := before + e.delta
		if !p.Won {
			after = before - e.delta
		}
		return ratings.SideResult{
			Handle: p.Handle, Character: p.Character,
			RatingBefore: before, RatingAfter: after, Delta: after - before, KFactor: 40,
		}
	}
	return ratings.Result{Side1: side(p1), Side2: side(p2)}, nil
}

// fakePublisher records finalization events instead of publishing to a
// broker.
type fakePublisher struct {
	events []events.MatchFinalized
}

func (p *fakePublisher) Publish(event events.MatchFinalized) {
	p.events = append(p.events, event)
}

// testMetrics is registered once for the whole test binary; promauto
// registers against the default registry, so a fresh *metrics.Metrics per
// test case would collide on the second call.
var testMetrics = metrics.New("coordinator-test")

func newTestCoordinator(t *testing.T, engine RatingEngine) (*Coordinator, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	hub := push.NewHub(logging.Get())
	c := New(store, engine, fakeResolver{}, fakePool{character: "Ryu"}, hub, &fakePublisher{}, testMetrics, logging.Get(), 5*time.Second)
	return c, store
}

func TestInvite_ClaimsBothHandles(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})

	interactionID, err := c.Invite(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.NotEmpty(t, interactionID)

	_, err = c.Invite(context.Background(), "alice", "carol")
	assert.True(t, apierr.IsCode(err, apierr.CodeBusy))

	_, err = c.Invite(context.Background(), "dave", "bob")
	assert.True(t, apierr.IsCode(err, apierr.CodeBusy))
}

func TestInvite_RejectsSelfChallenge(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})

	_, err := c.Invite(context.Background(), "alice", "alice")
	assert.True(t, apierr.IsCode(err, apierr.CodeValidation))
}

func TestAccept_PersistsActiveMatch(t *testing.T) {
	c, store := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)

	matchID, err := c.Accept(ctx, interactionID, "alice", "bob")
	require.NoError(t, err)

	match := store.byID[matchID]
	require.NotNil(t, match)
	assert.Equal(t, matches.StatusActive, match.Status)
	assert.Equal(t, "alice", match.Player1Username)
	assert.Equal(t, "bob", match.Player2Username)
	assert.Equal(t, "Ryu", match.Player1Character)
}

func TestAccept_RejectsStaleInteractionID(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	_, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = c.Accept(ctx, "not-the-real-id", "alice", "bob")
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidState))
}

func TestDecline_RejectsNonParticipant(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	_, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)

	err = c.Decline(ctx, "mallory", "irrelevant", "alice", "bob")
	assert.True(t, apierr.IsCode(err, apierr.CodeForbidden))
}

func TestDecline_ReleasesLocks(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)

	require.NoError(t, c.Decline(ctx, "bob", interactionID, "alice", "bob"))

	// Both handles are free again.
	_, err = c.Invite(ctx, "alice", "carol")
	assert.NoError(t, err)
	_, err = c.Invite(ctx, "bob", "dave")
	assert.NoError(t, err)
}

func TestCancel_RejectsMismatchedInteractionID(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	_, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)

	err = c.Cancel(ctx, "wrong-id", "alice", "bob")
	assert.True(t, apierr.IsCode(err, apierr.CodeBusy))
}

func reportAndConfirm(t *testing.T, c *Coordinator, matchID, reporter, confirmer, winner string) (string, error) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.Report(ctx, matchID, reporter, winner))
	return c.Confirm(ctx, matchID, confirmer, winner)
}

func TestReport_SecondReportRejected(t *testing.T) {
	c, store := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)
	matchID, err := c.Accept(ctx, interactionID, "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, store.byID[matchID])

	require.NoError(t, c.Report(ctx, matchID, "alice", "alice"))

	err = c.Report(ctx, matchID, "bob", "bob")
	assert.True(t, apierr.IsCode(err, apierr.CodeBusy))
}

func TestConfirm_AgreedFinalizesAndAppliesRatings(t *testing.T) {
	c, store := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)
	matchID, err := c.Accept(ctx, interactionID, "alice", "bob")
	require.NoError(t, err)

	status, err := reportAndConfirm(t, c, matchID, "alice", "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, matches.StatusCompleted, status)

	match := store.byID[matchID]
	require.NotNil(t, match.WinnerUsername)
	assert.Equal(t, "alice", *match.WinnerUsername)
	require.NotNil(t, match.Player1EloAfter)
	assert.Equal(t, 1220, *match.Player1EloAfter)
}

func TestConfirm_DisagreedDisputesWithoutRatingUpdate(t *testing.T) {
	c, store := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)
	matchID, err := c.Accept(ctx, interactionID, "alice", "bob")
	require.NoError(t, err)

	require.NoError(t, c.Report(ctx, matchID, "alice", "alice"))
	status, err := c.Confirm(ctx, matchID, "bob", "bob")
	require.NoError(t, err)
	assert.Equal(t, matches.StatusDisputed, status)

	match := store.byID[matchID]
	assert.Nil(t, match.WinnerUsername)
	assert.Nil(t, match.Player1EloAfter)
}

func TestConfirm_RejectsWhenReporterAlsoConfirms(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)
	matchID, err := c.Accept(ctx, interactionID, "alice", "bob")
	require.NoError(t, err)

	require.NoError(t, c.Report(ctx, matchID, "alice", "alice"))
	_, err = c.Confirm(ctx, matchID, "alice", "alice")
	assert.True(t, apierr.IsCode(err, apierr.CodeBusy))
}

func TestRematch_BothAcceptStartsNewMatch(t *testing.T) {
	c, store := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)
	matchID, err := c.Accept(ctx, interactionID, "alice", "bob")
	require.NoError(t, err)

	_, err = reportAndConfirm(t, c, matchID, "alice", "bob", "alice")
	require.NoError(t, err)

	newMatchID, err := c.Rematch(ctx, matchID, "alice", true)
	require.NoError(t, err)
	assert.Empty(t, newMatchID)

	newMatchID, err = c.Rematch(ctx, matchID, "bob", true)
	require.NoError(t, err)
	require.NotEmpty(t, newMatchID)

	newMatch := store.byID[newMatchID]
	require.NotNil(t, newMatch)
	assert.Equal(t, matches.StatusActive, newMatch.Status)
	assert.Equal(t, "alice", newMatch.Player1Username)
}

func TestRematch_DeclineReleasesLocksWithoutNewMatch(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)
	matchID, err := c.Accept(ctx, interactionID, "alice", "bob")
	require.NoError(t, err)

	_, err = reportAndConfirm(t, c, matchID, "alice", "bob", "alice")
	require.NoError(t, err)

	newMatchID, err := c.Rematch(ctx, matchID, "bob", false)
	require.NoError(t, err)
	assert.Empty(t, newMatchID)

	// Locks were released by the decline, so a fresh invite succeeds.
	_, err = c.Invite(ctx, "alice", "carol")
	assert.NoError(t, err)
}

func TestRematch_RejectsNonParticipant(t *testing.T) {
	c, _ := newTestCoordinator(t, fakeEngine{delta: 20})
	ctx := context.Background()

	interactionID, err := c.Invite(ctx, "alice", "bob")
	require.NoError(t, err)
	matchID, err := c.Accept(ctx, interactionID, "alice", "bob")
	require.NoError(t, err)

	_, err = reportAndConfirm(t, c, matchID, "alice", "bob", "alice")
	require.NoError(t, err)

	_, err = c.Rematch(ctx, matchID, "mallory", true)
	assert.True(t, apierr.IsCode(err, apierr.CodeForbidden))
}
