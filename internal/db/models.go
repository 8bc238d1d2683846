package db

import (
	"time"
)

// Swipe types. A swipe is one-shot: the first decision on an ordered
// (from, to) pair is final.
const (
	SwipeLike    = "like"
	SwipeDislike = "dislike"
)

// User table. Rows are created by the auth flow; everything else in the
// system treats users as lookup targets.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"size:40;not null"`
	Email        string    `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	City         string    `gorm:"size:80"`
	AvatarURL    string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Card is a catalog item identity. Two cards with the same
// (name, set_name, rarity) are the same card; resolution happens through
// find-or-create, never by inserting blindly.
type Card struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:120;not null;index:idx_card_identity,priority:1"`
	SetName   string    `gorm:"size:120;index:idx_card_identity,priority:2"`
	Rarity    string    `gorm:"size:60;index:idx_card_identity,priority:3"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// UserCard ties a user to a card they own. A user may own the same card
// several times; ranking collapses duplicates per card.
type UserCard struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;index"`
	CardID     uint64    `gorm:"not null;index"`
	PhotoURL   string    `gorm:"size:500"`
	Language   string    `gorm:"size:30"`
	Condition  string    `gorm:"size:30"`
	IsForTrade bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	Card Card `gorm:"foreignKey:CardID"`
}

// WishlistEntry ties a user to a card they want.
//
// Unique index on (user_id, card_id): wishing for the same card twice is a
// conflict, not an update.
type WishlistEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_wishlist_user_card,priority:1"`
	CardID    uint64    `gorm:"not null;uniqueIndex:idx_wishlist_user_card,priority:2"`
	Priority  int       `gorm:"not null;default:3"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Card Card `gorm:"foreignKey:CardID"`
}

// Swipe is a directional like/dislike decision.
//
// Unique index on (from_user_id, to_user_id): the ledger is write-once per
// ordered pair. Enforced by the database, not by check-then-write, so two
// concurrent identical requests cannot both land.
type Swipe struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FromUserID uint64    `gorm:"not null;uniqueIndex:idx_swipe_from_to,priority:1"`
	ToUserID   uint64    `gorm:"not null;uniqueIndex:idx_swipe_from_to,priority:2;index"`
	Type       string    `gorm:"size:10;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Match is an unordered pairing stored normalized: User1ID < User2ID.
//
// Unique index on (user1_id, user2_id) makes match creation idempotent under
// concurrent mutual likes: the loser of the race reads the winner's row.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1;index"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message belongs to a match. Read here for previews and history; delivery
// is someone else's problem.
type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID    uint64    `gorm:"not null;index"`
	FromUserID uint64    `gorm:"not null"`
	ToUserID   uint64    `gorm:"not null"`
	Text       string    `gorm:"size:1000;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
