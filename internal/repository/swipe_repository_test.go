package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"
	"github.com/cardswipe/cardswipe/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestCreateSwipeIsWriteOnce(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	swipe, err := repo.Create(ctx, 1, 2, db.SwipeLike)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), swipe.FromUserID)
	assert.Equal(t, uint64(2), swipe.ToUserID)
	assert.Equal(t, db.SwipeLike, swipe.Type)

	// second decision on the same ordered pair fails, even with another type
	_, err = repo.Create(ctx, 1, 2, db.SwipeDislike)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateDecision)

	// reverse direction is a different pair
	_, err = repo.Create(ctx, 2, 1, db.SwipeDislike)
	assert.NoError(t, err)

	var count int64
	dbase.Model(&db.Swipe{}).Where("from_user_id = ? AND to_user_id = ?", 1, 2).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestHasLiked(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	_, err := repo.Create(ctx, 1, 2, db.SwipeLike)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 1, 3, db.SwipeDislike)
	require.NoError(t, err)

	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	// a dislike is not a like
	liked, err = repo.HasLiked(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, liked)

	// never swiped
	liked, err = repo.HasLiked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestSwipedTargetIDs(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	_, _ = repo.Create(ctx, 1, 2, db.SwipeLike)
	_, _ = repo.Create(ctx, 1, 3, db.SwipeDislike)
	_, _ = repo.Create(ctx, 2, 1, db.SwipeLike)

	ids, err := repo.SwipedTargetIDs(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{2, 3}, ids)
}

func TestCountLikersOf(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	_, _ = repo.Create(ctx, 2, 1, db.SwipeLike)
	_, _ = repo.Create(ctx, 3, 1, db.SwipeLike)
	_, _ = repo.Create(ctx, 4, 1, db.SwipeDislike)

	count, err := repo.CountLikersOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
