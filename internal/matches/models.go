// Package matches implements the Match Store: durable persistence for match
// rows over gorm/Postgres, following a repository-per-entity pattern.
package matches

import "time"

// Status values a match row can hold. Status never transitions away from a
// terminal value (COMPLETED, DISPUTED).
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusDisputed  = "DISPUTED"
)

// Match is the persisted row for a single played interaction between two
// participants. Column names follow spec.md's "Persisted match row" list.
type Match struct {
	ID string `gorm:"primaryKey;type:varchar(64)"`

	Player1Username string `gorm:"column:player1_username;index;not null"`
	Player2Username string `gorm:"column:player2_username;index;not null"`
	WinnerUsername  *string `gorm:"column:winner_username"`

	Player1ID *string `gorm:"column:player1_id;type:uuid"`
	Player2ID *string `gorm:"column:player2_id;type:uuid"`
	WinnerID  *string `gorm:"column:winner_id;type:uuid"`

	Player1Character string `gorm:"column:player1_character;not null"`
	Player2Character string `gorm:"column:player2_character;not null"`

	Status string `gorm:"column:status;index;not null"`

	PlayedAt time.Time `gorm:"column:played_at;not null"`

	Player1EloBefore *int `gorm:"column:player1_elo_before"`
	Player2EloBefore *int `gorm:"column:player2_elo_before"`
	Player1EloAfter  *int `gorm:"column:player1_elo_after"`
	Player2EloAfter  *int `gorm:"column:player2_elo_after"`
	Player1KFactor   *int `gorm:"column:player1_k_factor"`
	Player2KFactor   *int `gorm:"column:player2_k_factor"`
}

// TableName pins the gorm table name.
func (Match) TableName() string {
	return "matches"
}

// OtherParticipant returns the username and character of whichever
// participant is not `handle`, or ("", "", false) if handle is not a
// participant of this match.
func (m *Match) OtherParticipant(handle string) (username, character string, ok bool) {
	switch handle {
	case m.Player1Username:
		return m.Player2Username, m.Player2Character, true
	case m.Player2Username:
		return m.Player1Username, m.Player1Character, true
	default:
		return "", "", false
	}
}

// IsParticipant reports whether handle is one of the two participants.
func (m *Match) IsParticipant(handle string) bool {
	return handle == m.Player1Username || handle == m.Player2Username
}
