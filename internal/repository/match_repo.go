package repository

import (
	"context"
	"errors"

	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"

	"gorm.io/gorm"
)

// MatchRepository provides data access for matches. Pairs are stored
// normalized (user1_id < user2_id) with a unique index on the pair.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// normalizePair orders two user ids so user1 < user2.
func normalizePair(a, b uint64) (uint64, uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

// CreateOrGet creates the match for an unordered pair, or returns the
// existing one.
//
// Behavior:
//   - Two concurrent likes in opposite directions can both observe
//     reciprocity and race into creation. The unique index on
//     (user1_id, user2_id) lets exactly one insert win; the loser sees
//     gorm.ErrDuplicatedKey and re-reads the winner's row.
//   - The boolean return is true when this call created the match.
func (r *MatchRepository) CreateOrGet(ctx context.Context, userA, userB uint64) (db.Match, bool, error) {
	user1, user2 := normalizePair(userA, userB)

	var existing db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", user1, user2).
		First(&existing).Error
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Match{}, false, err
	}

	match := db.Match{User1ID: user1, User2ID: user2}
	err = r.db.WithContext(ctx).Create(&match).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// someone else created it between our read and write
		err = r.db.WithContext(ctx).
			Where("user1_id = ? AND user2_id = ?", user1, user2).
			First(&existing).Error
		return existing, false, err
	}
	if err != nil {
		return db.Match{}, false, err
	}
	return match, true, nil
}

// GetByID looks up a match by primary key. Missing rows map to ErrNotFound.
func (r *MatchRepository) GetByID(ctx context.Context, matchID uint64) (db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).First(&match, matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Match{}, apperrors.ErrNotFound
	}
	return match, err
}

// ListForUser returns every match containing the user, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}
