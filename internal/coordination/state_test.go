package coordination

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerLocks_ClaimPair(t *testing.T) {
	locks := NewPlayerLocks()

	require.True(t, locks.ClaimPair("alice", "bob", "i1"))

	id, ok := locks.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "i1", id)

	id, ok = locks.Get("bob")
	require.True(t, ok)
	assert.Equal(t, "i1", id)
}

func TestPlayerLocks_ClaimPair_RejectsIfEitherHandleHeld(t *testing.T) {
	locks := NewPlayerLocks()
	require.True(t, locks.ClaimPair("alice", "bob", "i1"))

	// A held handle on either side of the new pair rejects the claim.
	assert.False(t, locks.ClaimPair("alice", "carol", "i2"))
	assert.False(t, locks.ClaimPair("dave", "bob", "i2"))

	// bob's lock was not disturbed by the rejected claims.
	id, _ := locks.Get("bob")
	assert.Equal(t, "i1", id)
}

func TestPlayerLocks_ReleaseThenReclaim(t *testing.T) {
	locks := NewPlayerLocks()
	require.True(t, locks.ClaimPair("alice", "bob", "i1"))

	locks.Release("alice", "bob")
	_, ok := locks.Get("alice")
	assert.False(t, ok)

	assert.True(t, locks.ClaimPair("alice", "bob", "i2"))
}

func TestPlayerLocks_Rebind(t *testing.T) {
	locks := NewPlayerLocks()
	require.True(t, locks.ClaimPair("alice", "bob", "i1"))

	locks.Rebind("alice", "bob", "i2")

	id, _ := locks.Get("alice")
	assert.Equal(t, "i2", id)
	id, _ = locks.Get("bob")
	assert.Equal(t, "i2", id)
}

func TestPlayerLocks_ClaimPair_ConcurrentOnlyOneWins(t *testing.T) {
	locks := NewPlayerLocks()

	const attempts = 50
	var wins int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if locks.ClaimPair("alice", "bob", "race") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestPendingReports_InsertIfAbsent(t *testing.T) {
	reports := NewPendingReports()

	ok := reports.InsertIfAbsent("m1", PendingReport{ReporterHandle: "alice", ClaimedWinner: "alice"})
	require.True(t, ok)

	// Second report for the same match is rejected without overwriting.
	ok = reports.InsertIfAbsent("m1", PendingReport{ReporterHandle: "bob", ClaimedWinner: "bob"})
	assert.False(t, ok)

	pending, found := reports.Get("m1")
	require.True(t, found)
	assert.Equal(t, "alice", pending.ReporterHandle)
}

func TestPendingReports_RemoveThenReinsert(t *testing.T) {
	reports := NewPendingReports()
	require.True(t, reports.InsertIfAbsent("m1", PendingReport{ReporterHandle: "alice", ClaimedWinner: "alice"}))

	reports.Remove("m1")
	_, found := reports.Get("m1")
	assert.False(t, found)

	assert.True(t, reports.InsertIfAbsent("m1", PendingReport{ReporterHandle: "bob", ClaimedWinner: "bob"}))
}

func TestPendingRematches_AcceptRequiresBothParticipants(t *testing.T) {
	rematches := NewPendingRematches()
	require.True(t, rematches.InsertIfAbsent("m1", "alice", "bob"))

	count, ok := rematches.Accept("m1", "alice")
	require.True(t, ok)
	assert.Equal(t, 1, count)

	// Same participant accepting twice does not double-count.
	count, ok = rematches.Accept("m1", "alice")
	assert.False(t, ok)
	assert.Equal(t, 0, count)

	count, ok = rematches.Accept("m1", "bob")
	require.True(t, ok)
	assert.Equal(t, 2, count)
}

func TestPendingRematches_AcceptUnknownMatch(t *testing.T) {
	rematches := NewPendingRematches()
	_, ok := rematches.Accept("missing", "alice")
	assert.False(t, ok)
}

func TestPendingRematches_RemoveReportsExistence(t *testing.T) {
	rematches := NewPendingRematches()
	require.True(t, rematches.InsertIfAbsent("m1", "alice", "bob"))

	assert.True(t, rematches.Remove("m1"))
	assert.False(t, rematches.Remove("m1"))
}

func TestPendingRematches_GetReturnsIndependentSnapshot(t *testing.T) {
	rematches := NewPendingRematches()
	require.True(t, rematches.InsertIfAbsent("m1", "alice", "bob"))
	_, _ = rematches.Accept("m1", "alice")

	snapshot, ok := rematches.Get("m1")
	require.True(t, ok)
	assert.True(t, snapshot.Accepted["alice"])

	// Mutating the snapshot must not leak back into the table.
	snapshot.Accepted["bob"] = true
	fresh, _ := rematches.Get("m1")
	assert.False(t, fresh.Accepted["bob"])
}
