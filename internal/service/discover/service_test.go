package discover_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cardswipe/cardswipe/internal/app"
	"github.com/cardswipe/cardswipe/internal/cache"
	"github.com/cardswipe/cardswipe/internal/config"
	"github.com/cardswipe/cardswipe/internal/db"
	"github.com/cardswipe/cardswipe/internal/service/discover"
)

// setupService spins up an in-memory SQLite DB and wires a discover service.
// Each test gets its own isolated DB; data is seeded by the test itself.
func setupService(t *testing.T) (*discover.Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	redisCache := cache.NewRedisCache(cfg)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(dbase, redisCache, logger)
	return discover.NewService(appCtx), dbase
}

func seedUsers(t *testing.T, gdb *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, gdb.Create(&db.User{
			ID:           uint64(i),
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("u%d@test.com", i),
			PasswordHash: "x",
		}).Error)
	}
}

// TestRankOwnerOfWantedCardFirst covers the canonical scenario: the viewer
// wishes a card one candidate owns for trade, another candidate owns
// nothing. The owner ranks first with score 2; the other still appears with
// score 0.
func TestRankOwnerOfWantedCardFirst(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setupService(t)
	seedUsers(t, gdb, 3)

	card := db.Card{ID: 10, Name: "Charizard", SetName: "Base Set", Rarity: "holo"}
	require.NoError(t, gdb.Create(&card).Error)
	require.NoError(t, gdb.Create(&db.WishlistEntry{UserID: 1, CardID: card.ID, Priority: 3}).Error)
	require.NoError(t, gdb.Create(&db.UserCard{UserID: 2, CardID: card.ID, IsForTrade: true}).Error)

	page, total, err := svc.RankCandidates(ctx, 1, 10, 0, true)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, page, 2)

	assert.Equal(t, uint64(2), page[0].User.ID)
	assert.Equal(t, 2, page[0].Score)
	require.Len(t, page[0].TheyHaveINeed, 1)
	assert.Equal(t, card.ID, page[0].TheyHaveINeed[0].ID)
	assert.Equal(t, "Charizard", page[0].TheyHaveINeed[0].Name)

	assert.Equal(t, uint64(3), page[1].User.ID)
	assert.Equal(t, 0, page[1].Score)
	assert.Empty(t, page[1].TheyHaveINeed)
	assert.Empty(t, page[1].TheyNeedIHave)
}

// TestRankBothDirections checks the 2*A + B weighting when a candidate both
// owns a wanted card and wants an owned card.
func TestRankBothDirections(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setupService(t)
	seedUsers(t, gdb, 3)

	wanted := db.Card{ID: 10, Name: "Charizard"}
	owned := db.Card{ID: 11, Name: "Pikachu"}
	require.NoError(t, gdb.Create(&wanted).Error)
	require.NoError(t, gdb.Create(&owned).Error)

	// viewer 1 wants Charizard and trades Pikachu
	require.NoError(t, gdb.Create(&db.WishlistEntry{UserID: 1, CardID: wanted.ID}).Error)
	require.NoError(t, gdb.Create(&db.UserCard{UserID: 1, CardID: owned.ID, IsForTrade: true}).Error)

	// user 2 has Charizard for trade and wants Pikachu: 2*1 + 1 = 3
	require.NoError(t, gdb.Create(&db.UserCard{UserID: 2, CardID: wanted.ID, IsForTrade: true}).Error)
	require.NoError(t, gdb.Create(&db.WishlistEntry{UserID: 2, CardID: owned.ID}).Error)

	// user 3 only wants Pikachu: score 1
	require.NoError(t, gdb.Create(&db.WishlistEntry{UserID: 3, CardID: owned.ID}).Error)

	page, total, err := svc.RankCandidates(ctx, 1, 10, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 2)

	assert.Equal(t, uint64(2), page[0].User.ID)
	assert.Equal(t, 3, page[0].Score)
	assert.Equal(t, uint64(3), page[1].User.ID)
	assert.Equal(t, 1, page[1].Score)
}

// TestRankCompletenessWithEmptyInventory ensures a viewer with nothing
// listed still sees every other user, all at score 0, ordered by id.
func TestRankCompletenessWithEmptyInventory(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setupService(t)
	seedUsers(t, gdb, 5)

	page, total, err := svc.RankCandidates(ctx, 1, 10, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 4)
	for i, cand := range page {
		assert.Equal(t, uint64(i+2), cand.User.ID)
		assert.Equal(t, 0, cand.Score)
	}
}

// TestIncludeSwipedToggle verifies already-swiped users are excluded only
// when include_swiped is false.
func TestIncludeSwipedToggle(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setupService(t)
	seedUsers(t, gdb, 3)

	require.NoError(t, gdb.Create(&db.Swipe{FromUserID: 1, ToUserID: 2, Type: db.SwipeLike}).Error)

	page, total, err := svc.RankCandidates(ctx, 1, 10, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, uint64(3), page[0].User.ID)

	page, total, err = svc.RankCandidates(ctx, 1, 10, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 2)
}

// TestDuplicateCopiesCollapsePreferringPhoto ensures a candidate owning the
// same card twice contributes it once, keeping the photo-bearing copy.
func TestDuplicateCopiesCollapsePreferringPhoto(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setupService(t)
	seedUsers(t, gdb, 2)

	card := db.Card{ID: 10, Name: "Gengar"}
	require.NoError(t, gdb.Create(&card).Error)
	require.NoError(t, gdb.Create(&db.WishlistEntry{UserID: 1, CardID: card.ID}).Error)

	require.NoError(t, gdb.Create(&db.UserCard{UserID: 2, CardID: card.ID, IsForTrade: true}).Error)
	require.NoError(t, gdb.Create(&db.UserCard{UserID: 2, CardID: card.ID, IsForTrade: true, PhotoURL: "/uploads/gengar.jpg"}).Error)

	page, _, err := svc.RankCandidates(ctx, 1, 10, 0, true)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Len(t, page[0].TheyHaveINeed, 1)
	assert.Equal(t, "/uploads/gengar.jpg", page[0].TheyHaveINeed[0].PhotoURL)
	assert.Equal(t, 2, page[0].Score)
}

// TestPaginationOverSortedSet checks offset/limit slicing and that total
// reflects the full candidate count, not the page.
func TestPaginationOverSortedSet(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setupService(t)
	seedUsers(t, gdb, 6)

	page, total, err := svc.RankCandidates(ctx, 1, 2, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(2), page[0].User.ID)
	assert.Equal(t, uint64(3), page[1].User.ID)

	page, total, err = svc.RankCandidates(ctx, 1, 2, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 1)
	assert.Equal(t, uint64(6), page[0].User.ID)

	// offset past the end yields an empty page, never an error
	page, total, err = svc.RankCandidates(ctx, 1, 2, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)
}

// TestNotForTradeCardsDoNotCount verifies the owned-for-trade filter on
// both sides of the scan.
func TestNotForTradeCardsDoNotCount(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setupService(t)
	seedUsers(t, gdb, 2)

	card := db.Card{ID: 10, Name: "Mewtwo"}
	require.NoError(t, gdb.Create(&card).Error)
	require.NoError(t, gdb.Create(&db.WishlistEntry{UserID: 1, CardID: card.ID}).Error)
	require.NoError(t, gdb.Create(&db.UserCard{UserID: 2, CardID: card.ID, IsForTrade: false}).Error)

	page, total, err := svc.RankCandidates(ctx, 1, 10, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, 0, page[0].Score)
	assert.Empty(t, page[0].TheyHaveINeed)
}
