package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedScore_EvenMatch(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 0.0001)
}

func TestExpectedScore_Favorite(t *testing.T) {
	// A 400 point gap means the favorite is expected to win 10x more often.
	expected := ExpectedScore(1600, 1200)
	assert.InDelta(t, 0.909, expected, 0.001)
}

func TestKFactor(t *testing.T) {
	cases := []struct {
		gamesPlayed int
		want        int
	}{
		{0, 40},
		{29, 40},
		{30, 20},
		{99, 20},
		{100, 10},
		{500, 10},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, KFactor(tc.gamesPlayed), "gamesPlayed=%d", tc.gamesPlayed)
	}
}

func TestNewRating_Win(t *testing.T) {
	// Even match, win: full K applied against the 0.5 expectation.
	got := NewRating(1500, 40, 0.5, OutcomeWin)
	assert.Equal(t, 1520, got)
}

func TestNewRating_Loss(t *testing.T) {
	got := NewRating(1500, 40, 0.5, OutcomeLoss)
	assert.Equal(t, 1480, got)
}

func TestNewRating_FloorsAtRatingFloor(t *testing.T) {
	got := NewRating(120, 40, 0.95, OutcomeLoss)
	assert.Equal(t, ratingFloor, got)
}

func TestNewRating_RoundsHalfAwayFromZero(t *testing.T) {
	// delta = 10 * (1 - 0.55) = 4.5 -> rounds to 5, not 4.
	got := NewRating(1000, 10, 0.55, OutcomeWin)
	assert.Equal(t, 1005, got)
}

func TestDelta(t *testing.T) {
	assert.Equal(t, 20, Delta(1500, 1520))
	assert.Equal(t, -20, Delta(1520, 1500))
}
