package matches

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMatch() *Match {
	return &Match{
		Player1Username:  "alice",
		Player2Username:  "bob",
		Player1Character: "Ryu",
		Player2Character: "Ken",
	}
}

func TestMatch_IsParticipant(t *testing.T) {
	m := testMatch()

	assert.True(t, m.IsParticipant("alice"))
	assert.True(t, m.IsParticipant("bob"))
	assert.False(t, m.IsParticipant("mallory"))
}

func TestMatch_OtherParticipant(t *testing.T) {
	m := testMatch()

	username, character, ok := m.OtherParticipant("alice")
	assert.True(t, ok)
	assert.Equal(t, "bob", username)
	assert.Equal(t, "Ken", character)

	username, character, ok = m.OtherParticipant("bob")
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "Ryu", character)

	_, _, ok = m.OtherParticipant("mallory")
	assert.False(t, ok)
}
