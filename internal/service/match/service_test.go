package match_test

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
	apperrors "github.com/cardswipe/cardswipe/internal/errors"
	"github.com/cardswipe/cardswipe/internal/service/match"
)

// setupService wires a match service over an isolated in-memory DB with
// three users and one match (1, 2) already formed.
func setupService(t *testing.T) (*match.Service, *gorm.DB, db.Match) {
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

	users := []db.User{
		{ID: 1, Username: "ana", Email: "ana@test.com", PasswordHash: "x", City: "Madrid"},
		{ID: 2, Username: "bruno", Email: "bruno@test.com", PasswordHash: "x", City: "Valencia"},
		{ID: 3, Username: "carla", Email: "carla@test.com", PasswordHash: "x"},
	}
	require.NoError(t, dbase.Create(&users).Error)

	formed := db.Match{User1ID: 1, User2ID: 2}
	require.NoError(t, dbase.Create(&formed).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	redisCache := cache.NewRedisCache(cfg)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(dbase, redisCache, logger)
	return match.NewService(appCtx), dbase, formed
}

func TestListMatchesResolvesOtherParty(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	entries, err := svc.ListMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(2), entries[0].OtherUser.ID)
	assert.Equal(t, "bruno", entries[0].OtherUser.Username)
	assert.Nil(t, entries[0].LastMessage)

	// the same match seen from the other side resolves the other way
	entries, err = svc.ListMatches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(1), entries[0].OtherUser.ID)

	// a user with no matches gets an empty list, not an error
	entries, err = svc.ListMatches(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListMatchesAttachesLastMessage(t *testing.T) {
	ctx := context.Background()
	svc, _, formed := setupService(t)

	first, err := svc.AppendMessage(ctx, formed.ID, 1, "hey!")
	require.NoError(t, err)
	second, err := svc.AppendMessage(ctx, formed.ID, 2, "hi there")
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	entries, err := svc.ListMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].LastMessage)
	assert.Equal(t, "hi there", entries[0].LastMessage.Text)
}

func TestGetMatchAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, _, formed := setupService(t)

	m, other, err := svc.GetMatch(ctx, formed.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, formed.ID, m.ID)
	assert.Equal(t, uint64(2), other.ID)

	// non-participant is rejected without leaking details
	_, _, err = svc.GetMatch(ctx, formed.ID, 3)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// unknown match
	_, _, err = svc.GetMatch(ctx, 999, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListMessagesChronological(t *testing.T) {
	ctx := context.Background()
	svc, _, formed := setupService(t)

	_, err := svc.AppendMessage(ctx, formed.ID, 1, "first")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, formed.ID, 2, "second")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, formed.ID, 1, "third")
	require.NoError(t, err)

	msgs, err := svc.ListMessages(ctx, formed.ID, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, "third", msgs[2].Text)
	assert.Equal(t, uint64(2), msgs[0].ToUserID)

	_, err = svc.ListMessages(ctx, formed.ID, 3)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAppendMessageValidation(t *testing.T) {
	ctx := context.Background()
	svc, gdb, formed := setupService(t)

	_, err := svc.AppendMessage(ctx, formed.ID, 1, "   ")
	require.Error(t, err)

	_, err = svc.AppendMessage(ctx, formed.ID, 3, "let me in")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	var count int64
	gdb.Model(&db.Message{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
