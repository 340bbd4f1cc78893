package matches

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store is the Match Store contract: insert/find-by-id/update for the core,
// plus the read projections spec.md §4.F names for external consumers.
type Store interface {
	Insert(ctx context.Context, match *Match) error
	FindByID(ctx context.Context, id string) (*Match, error)
	Update(ctx context.Context, match *Match) error

	RecentByParticipant(ctx context.Context, handle string, limit int) ([]*Match, error)
	RecentByParticipantAndCharacter(ctx context.Context, handle, character string, limit int) ([]*Match, error)
	CountByParticipant(ctx context.Context, handle string) (int64, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore builds a gorm-backed Match Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Insert(ctx context.Context, match *Match) error {
	return s.db.WithContext(ctx).Create(match).Error
}

func (s *gormStore) FindByID(ctx context.Context, id string) (*Match, error) {
	var match Match
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&match)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &match, nil
}

func (s *gormStore) Update(ctx context.Context, match *Match) error {
	return s.db.WithContext(ctx).Save(match).Error
}

func (s *gormStore) RecentByParticipant(ctx context.Context, handle string, limit int) ([]*Match, error) {
	var rows []*Match
	err := s.db.WithContext(ctx).
		Where("player1_username = ? OR player2_username = ?", handle, handle).
		Order("played_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *gormStore) RecentByParticipantAndCharacter(ctx context.Context, handle, character string, limit int) ([]*Match, error) {
	var rows []*Match
	err := s.db.WithContext(ctx).
		Where(
			"(player1_username = ? AND player1_character = ?) OR (player2_username = ? AND player2_character = ?)",
			handle, character, handle, character,
		).
		Order("played_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *gormStore) CountByParticipant(ctx context.Context, handle string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Match{}).
		Where("player1_username = ? OR player2_username = ?", handle, handle).
		Count(&count).Error
	return count, err
}
