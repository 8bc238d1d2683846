package repository

import (
	"context"
	"errors"

	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"

	"gorm.io/gorm"
)

// InventoryRepository provides data access for the card catalog, ownership
// records and wishlists. The read side (id sets and overlap scans) feeds the
// candidate ranker; the write side backs the cards/wishlist endpoints.
type InventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new repository bound to the given DB connection.
func NewInventoryRepository(database *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: database}
}

// OwnedForTradeCardIDs returns the distinct card ids the user owns and has
// marked for trade. Storage failures propagate; an empty set is only ever a
// real empty set.
func (r *InventoryRepository) OwnedForTradeCardIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.UserCard{}).
		Distinct("card_id").
		Where("user_id = ? AND is_for_trade = ?", userID, true).
		Pluck("card_id", &ids).Error
	return ids, err
}

// WishedCardIDs returns the distinct card ids on the user's wishlist.
func (r *InventoryRepository) WishedCardIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.WishlistEntry{}).
		Distinct("card_id").
		Where("user_id = ?", userID).
		Pluck("card_id", &ids).Error
	return ids, err
}

// OwnersOfCards finds ownership records (with cards preloaded) for the given
// card ids, owned for trade by anyone except the viewer and the excluded ids.
// This is the "they have what I want" scan.
func (r *InventoryRepository) OwnersOfCards(ctx context.Context, cardIDs []uint64, viewerID uint64, excludeUserIDs []uint64) ([]db.UserCard, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).
		Preload("Card").
		Where("card_id IN ?", cardIDs).
		Where("user_id <> ?", viewerID).
		Where("is_for_trade = ?", true)
	if len(excludeUserIDs) > 0 {
		query = query.Where("user_id NOT IN ?", excludeUserIDs)
	}
	var rows []db.UserCard
	err := query.Find(&rows).Error
	return rows, err
}

// WishersOfCards finds wishlist entries (with cards preloaded) for the given
// card ids, wished by anyone except the viewer and the excluded ids.
// This is the "they want what I have" scan.
func (r *InventoryRepository) WishersOfCards(ctx context.Context, cardIDs []uint64, viewerID uint64, excludeUserIDs []uint64) ([]db.WishlistEntry, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).
		Preload("Card").
		Where("card_id IN ?", cardIDs).
		Where("user_id <> ?", viewerID)
	if len(excludeUserIDs) > 0 {
		query = query.Where("user_id NOT IN ?", excludeUserIDs)
	}
	var rows []db.WishlistEntry
	err := query.Find(&rows).Error
	return rows, err
}

// ResolveOrCreateCard returns the card with the given identity, creating it
// if absent. Idempotent: equal (name, setName, rarity) always resolves to
// the same card id.
func (r *InventoryRepository) ResolveOrCreateCard(ctx context.Context, name, setName, rarity string) (db.Card, error) {
	var card db.Card
	// explicit conditions: struct conditions would drop empty set/rarity
	err := r.db.WithContext(ctx).
		Where("name = ? AND set_name = ? AND rarity = ?", name, setName, rarity).
		Attrs(db.Card{Name: name, SetName: setName, Rarity: rarity}).
		FirstOrCreate(&card).Error
	return card, err
}

// GetCard looks up a card by id.
func (r *InventoryRepository) GetCard(ctx context.Context, cardID uint64) (db.Card, error) {
	var card db.Card
	err := r.db.WithContext(ctx).First(&card, cardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Card{}, apperrors.ErrNotFound
	}
	return card, err
}

// --- ownership records ---

// ListUserCards returns the user's ownership records with cards preloaded,
// newest first.
func (r *InventoryRepository) ListUserCards(ctx context.Context, userID uint64) ([]db.UserCard, error) {
	var rows []db.UserCard
	err := r.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// AddUserCard attaches an ownership record. Duplicates of the same card are
// allowed; the ranker collapses them.
func (r *InventoryRepository) AddUserCard(ctx context.Context, row *db.UserCard) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// GetUserCard fetches an ownership record owned by the given user.
func (r *InventoryRepository) GetUserCard(ctx context.Context, id, userID uint64) (db.UserCard, error) {
	var row db.UserCard
	err := r.db.WithContext(ctx).
		Preload("Card").
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.UserCard{}, apperrors.ErrNotFound
	}
	return row, err
}

// SetUserCardForTrade flips the for-trade flag on an ownership record.
func (r *InventoryRepository) SetUserCardForTrade(ctx context.Context, id, userID uint64, isForTrade bool) error {
	res := r.db.WithContext(ctx).
		Model(&db.UserCard{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_for_trade", isForTrade)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteUserCard removes an ownership record owned by the given user.
func (r *InventoryRepository) DeleteUserCard(ctx context.Context, id, userID uint64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&db.UserCard{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- wishlist ---

// ListWishlist returns the user's wishlist entries with cards preloaded,
// newest first.
func (r *InventoryRepository) ListWishlist(ctx context.Context, userID uint64) ([]db.WishlistEntry, error) {
	var rows []db.WishlistEntry
	err := r.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// AddWishlistEntry inserts a wishlist entry. The unique index on
// (user_id, card_id) rejects wishing for the same card twice.
func (r *InventoryRepository) AddWishlistEntry(ctx context.Context, row *db.WishlistEntry) error {
	err := r.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateWish
	}
	return err
}

// DeleteWishlistEntry removes a wishlist entry owned by the given user.
func (r *InventoryRepository) DeleteWishlistEntry(ctx context.Context, id, userID uint64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&db.WishlistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
