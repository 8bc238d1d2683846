package repository

import (
	"context"
	"errors"

	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"

	"gorm.io/gorm"
)

// SwipeRepository provides data access for the swipe ledger.
// The ledger is append-only and write-once per ordered (from, to) pair.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Create records a directional decision from -> to.
//
// Behavior:
//   - Inserts a new swipe row; never updates an existing one.
//   - The unique index on (from_user_id, to_user_id) rejects a second
//     decision for the pair regardless of type; that violation is surfaced
//     as ErrDuplicateDecision. Relying on the index instead of a prior
//     SELECT keeps concurrent identical requests from both landing.
//
// Example:
//
//	repo.Create(ctx, 1, 2, db.SwipeLike) // user 1 liked user 2
func (r *SwipeRepository) Create(ctx context.Context, fromUserID, toUserID uint64, swipeType string) (db.Swipe, error) {
	swipe := db.Swipe{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Type:       swipeType,
	}
	err := r.db.WithContext(ctx).Create(&swipe).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return db.Swipe{}, apperrors.ErrDuplicateDecision
	}
	if err != nil {
		return db.Swipe{}, err
	}
	return swipe, nil
}

// HasLiked reports whether a Swipe(from -> to, like) exists.
func (r *SwipeRepository) HasLiked(ctx context.Context, fromUserID, toUserID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("from_user_id = ? AND to_user_id = ? AND type = ?", fromUserID, toUserID, db.SwipeLike).
		Count(&count).Error
	return count > 0, err
}

// SwipedTargetIDs returns every user id the given user has already swiped,
// likes and dislikes alike. Used to exclude already-seen users from
// candidate listings.
func (r *SwipeRepository) SwipedTargetIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("from_user_id = ?", userID).
		Pluck("to_user_id", &ids).Error
	return ids, err
}

// CountLikersOf returns how many users liked the given user.
// Used in conjunction with the Redis counter (DB is the fallback).
func (r *SwipeRepository) CountLikersOf(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("to_user_id = ? AND type = ?", userID, db.SwipeLike).
		Count(&count).Error
	return count, err
}
