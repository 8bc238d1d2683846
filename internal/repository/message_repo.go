package repository

import (
	"context"
	"errors"

	"github.com/cardswipe/cardswipe/internal/db"

	"gorm.io/gorm"
)

// MessageRepository provides data access for match messages.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Append stores a message on a match.
func (r *MessageRepository) Append(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByMatch returns all messages for a match in chronological order.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID uint64) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// LatestByMatch returns the most recent message for a match, or nil if the
// conversation is empty.
func (r *MessageRepository) LatestByMatch(ctx context.Context, matchID uint64) (*db.Message, error) {
	var msg db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
