package ratings

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apierr "github.com/duelcore/matchcore/pkg/errors"
)

// Participant is one side of a finalized match, as seen by the Rating
// Engine: who played, which character, and whether they won.
type Participant struct {
	PlayerID  string
	Handle    string
	Character string
	Won       bool
}

// SideResult reports the before/after rating for one participant.
type SideResult struct {
	Handle        string
	Character     string
	RatingBefore  int
	RatingAfter   int
	Delta         int
	KFactor       int
}

// Result is the outcome of a single applyMatchResult call.
type Result struct {
	Side1 SideResult
	Side2 SideResult
}

// Engine atomically updates two per-character rating rows and their
// players' denormalized aggregate rating under pessimistic locking.
type Engine struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewEngine builds a Rating Engine bound to db, bounding row-lock waits by
// lockTimeout (defaulting to 5 seconds).
func NewEngine(db *gorm.DB, lockTimeout time.Duration) *Engine {
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &Engine{db: db, lockTimeout: lockTimeout}
}

// ApplyMatchResult runs the full §4.B contract: lock both rating rows in
// ascending (player_id, character) order, recompute each side's new rating
// from their own pre-image and game count against the opponent's pre-image
// rating, persist the updated rows and both players' aggregates, and return
// the audit trail the caller stamps onto the match row.
//
// A row lock that cannot be acquired within the configured timeout fails
// the whole operation with ResourceBusy; no rows are mutated.
func (e *Engine) ApplyMatchResult(ctx context.Context, p1, p2 Participant) (Result, error) {
	first, second := p1, p2
	if lockKey(p2) < lockKey(p1) {
		first, second = p2, p1
	}

	lockCtx, cancel := context.WithTimeout(ctx, e.lockTimeout)
	defer cancel()

	var result Result
	err := e.db.WithContext(lockCtx).Transaction(func(tx *gorm.DB) error {
		firstRow, err := lockOrCreateRow(tx, first.PlayerID, first.Character)
		if err != nil {
			return err
		}
		secondRow, err := lockOrCreateRow(tx, second.PlayerID, second.Character)
		if err != nil {
			return err
		}

		firstOutcome, secondOutcome := OutcomeLoss, OutcomeLoss
		if first.Won {
			firstOutcome = OutcomeWin
		}
		if second.Won {
			secondOutcome = OutcomeWin
		}

		firstSide := settle(firstRow, firstOutcome, secondRow.Rating)
		secondSide := settle(secondRow, secondOutcome, firstRow.Rating)

		if err := tx.Save(firstRow).Error; err != nil {
			return err
		}
		if err := tx.Save(secondRow).Error; err != nil {
			return err
		}

		if err := refreshPlayerAggregate(tx, first.PlayerID, first.Won); err != nil {
			return err
		}
		if err := refreshPlayerAggregate(tx, second.PlayerID, second.Won); err != nil {
			return err
		}

		firstSide.Handle = first.Handle
		secondSide.Handle = second.Handle

		if first == p1 {
			result = Result{Side1: firstSide, Side2: secondSide}
		} else {
			result = Result{Side1: secondSide, Side2: firstSide}
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, apierr.ResourceBusy("timed out acquiring rating row lock")
		}
		return Result{}, apierr.Wrap(err, apierr.CodeInternal, "rating engine transaction failed")
	}

	return result, nil
}

// lockKey is the ascending sort key every lock site must agree on.
func lockKey(p Participant) string {
	return p.PlayerID + "\x00" + p.Character
}

// lockOrCreateRow ensures a (player, character) row exists, then locks it
// for update within the caller's transaction.
func lockOrCreateRow(tx *gorm.DB, playerID, character string) (*CharacterRating, error) {
	fresh := NewCharacterRating(playerID, character)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
		return nil, err
	}

	var row CharacterRating
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("player_id = ? AND character = ?", playerID, character).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// settle computes and applies a side's rating update in place, returning
// its audit entry. opponentPreRating is the opponent's locked pre-image.
func settle(row *CharacterRating, outcome Outcome, opponentPreRating int) SideResult {
	before := row.Rating
	k := KFactor(row.GamesPlayed())
	expected := ExpectedScore(before, opponentPreRating)
	after := NewRating(before, k, expected, outcome)

	row.Rating = after
	if after > row.Peak {
		row.Peak = after
	}
	if outcome == OutcomeWin {
		row.Wins++
	} else {
		row.Losses++
	}

	return SideResult{
		Character:    row.Character,
		RatingBefore: before,
		RatingAfter:  after,
		Delta:        Delta(before, after),
		KFactor:      k,
	}
}

// refreshPlayerAggregate recomputes a player's denormalized rating as the
// max over their character rows (including the row just updated in this
// transaction) and bumps their aggregate win/loss counters.
func refreshPlayerAggregate(tx *gorm.DB, playerID string, won bool) error {
	var rows []CharacterRating
	if err := tx.Where("player_id = ?", playerID).Find(&rows).Error; err != nil {
		return err
	}

	maxRating := initialRating
	maxPeak := initialRating
	for i, r := range rows {
		if i == 0 || r.Rating > maxRating {
			maxRating = r.Rating
		}
		if i == 0 || r.Peak > maxPeak {
			maxPeak = r.Peak
		}
	}

	updates := map[string]interface{}{
		"rating":      maxRating,
		"peak_rating": maxPeak,
	}
	if won {
		updates["wins"] = gorm.Expr("wins + 1")
	} else {
		updates["losses"] = gorm.Expr("losses + 1")
	}

	return tx.Table("players").Where("id = ?", playerID).Updates(updates).Error
}
