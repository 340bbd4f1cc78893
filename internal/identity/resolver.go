// Package identity implements the Identity Resolver: two pure lookups
// between a player's stable UUID and their handle, plus the denormalized
// player aggregate row the Rating Engine maintains.
package identity

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Player is the denormalized per-player aggregate: rating is the max over
// that player's per-character rating rows, refreshed after every
// finalization.
type Player struct {
	ID      string `gorm:"primaryKey;type:uuid"`
	Handle  string `gorm:"column:handle;uniqueIndex;not null"`
	Rating  int    `gorm:"column:rating;not null;default:1200"`
	Peak    int    `gorm:"column:peak_rating;not null;default:1200"`
	Wins    int    `gorm:"column:wins;not null;default:0"`
	Losses  int    `gorm:"column:losses;not null;default:0"`
}

// TableName pins the gorm table name.
func (Player) TableName() string {
	return "players"
}

// Resolver resolves between a player's handle and their stable identifier.
// Handle comparisons are case-insensitive; callers route push envelopes by
// handle and persist by identifier.
type Resolver interface {
	IdentifierForHandle(ctx context.Context, handle string) (id string, found bool, err error)
	HandleForIdentifier(ctx context.Context, id string) (handle string, found bool, err error)
}

type gormResolver struct {
	db *gorm.DB
}

// NewResolver builds a gorm-backed Identity Resolver over the players table.
func NewResolver(db *gorm.DB) Resolver {
	return &gormResolver{db: db}
}

func (r *gormResolver) IdentifierForHandle(ctx context.Context, handle string) (string, bool, error) {
	var player Player
	result := r.db.WithContext(ctx).Where("lower(handle) = lower(?)", handle).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, result.Error
	}
	return player.ID, true, nil
}

func (r *gormResolver) HandleForIdentifier(ctx context.Context, id string) (string, bool, error) {
	var player Player
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, result.Error
	}
	return player.Handle, true, nil
}
