package ratings

import "time"

// CharacterRating is the per-(player, character) rating row. A freshly
// created row starts at rating=1200, peak=1200, 0-0, independent of the
// player's other characters or global rating.
type CharacterRating struct {
	PlayerID  string `gorm:"column:player_id;primaryKey;type:uuid"`
	Character string `gorm:"column:character;primaryKey"`

	Rating int `gorm:"column:rating;not null;default:1200"`
	Peak   int `gorm:"column:peak_rating;not null;default:1200"`
	Wins   int `gorm:"column:wins;not null;default:0"`
	Losses int `gorm:"column:losses;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName pins the gorm table name.
func (CharacterRating) TableName() string {
	return "character_ratings"
}

// GamesPlayed returns the total completed games recorded on this row.
func (c *CharacterRating) GamesPlayed() int {
	return c.Wins + c.Losses
}

const initialRating = 1200

// NewCharacterRating returns a fresh rating row for playerID/character.
func NewCharacterRating(playerID, character string) *CharacterRating {
	return &CharacterRating{
		PlayerID:  playerID,
		Character: character,
		Rating:    initialRating,
		Peak:      initialRating,
	}
}
