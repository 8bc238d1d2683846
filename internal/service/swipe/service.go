package swipe

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardswipe/cardswipe/internal/app"
	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"
	"github.com/cardswipe/cardswipe/internal/repository"
	"github.com/cardswipe/cardswipe/internal/service/auth"
)

// Service implements the swipe API: recording one-shot like/dislike
// decisions and forming matches when likes are mutual.
type Service struct {
	appCtx    *app.AppContext
	swipeRepo *repository.SwipeRepository
	matchRepo *repository.MatchRepository
}

// NewService creates the swipe service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
	}
}

type decisionRequest struct {
	ToUserID uint64 `json:"toUserId"`
}

// MatchPayload is the match slice returned when a like completes a pair.
type MatchPayload struct {
	ID      uint64 `json:"id"`
	User1ID uint64 `json:"user1Id"`
	User2ID uint64 `json:"user2Id"`
}

// LikeResult carries the recorded swipe and the match, if one formed.
type LikeResult struct {
	Recorded db.Swipe
	Match    *db.Match
}

// PostLike handles POST /swipes/like.
func (s *Service) PostLike(c *gin.Context) {
	fromUserID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.ErrInvalidTarget)
		return
	}

	result, err := s.Like(c.Request.Context(), fromUserID, req.ToUserID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	var match *MatchPayload
	if result.Match != nil {
		match = &MatchPayload{ID: result.Match.ID, User1ID: result.Match.User1ID, User2ID: result.Match.User2ID}
	}
	c.JSON(http.StatusCreated, gin.H{
		"liked": true,
		"match": match,
	})
}

// PostDislike handles POST /swipes/dislike.
func (s *Service) PostDislike(c *gin.Context) {
	fromUserID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.ErrInvalidTarget)
		return
	}

	if err := s.Dislike(c.Request.Context(), fromUserID, req.ToUserID); err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"disliked": true})
}

// LikedCount handles GET /swipes/liked-count.
//
// Cache-first: reads the Redis counter, falls back to the swipe ledger on a
// miss and writes the count back with a fresh TTL.
func (s *Service) LikedCount(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	ctx := c.Request.Context()

	if count, hit, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID); err == nil && hit {
		c.JSON(http.StatusOK, gin.H{"count": count})
		return
	}

	count, err := s.swipeRepo.CountLikersOf(ctx, userID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	if err := s.appCtx.RedisCache.UpdateLikeCount(ctx, userID, count); err != nil {
		s.appCtx.Logger.Warn("failed to refresh like count cache", "user", userID, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Like records a like and forms a match if the target already liked back.
//
// Behavior:
//   - Validates the target (present, not self) before any write.
//   - The ledger insert propagates ErrDuplicateDecision untouched; the
//     first decision on an ordered pair is final.
//   - On reciprocity, match creation goes through the normalized-pair
//     unique index, so redundant or concurrent detections resolve to the
//     same match row.
//   - A prior dislike from the target blocks matching forever: the reverse
//     "like" row simply never exists, and the target can't re-swipe.
func (s *Service) Like(ctx context.Context, fromUserID, toUserID uint64) (LikeResult, error) {
	if toUserID == 0 || toUserID == fromUserID {
		return LikeResult{}, apperrors.ErrInvalidTarget
	}

	recorded, err := s.swipeRepo.Create(ctx, fromUserID, toUserID, db.SwipeLike)
	if err != nil {
		return LikeResult{}, err
	}

	// like count is a best-effort counter; losing an increment only means
	// a stale value until the next read-through
	if err := s.appCtx.RedisCache.IncrLikeCount(ctx, toUserID); err != nil {
		s.appCtx.Logger.Warn("failed to bump like count", "user", toUserID, "err", err)
	}

	mutual, err := s.swipeRepo.HasLiked(ctx, toUserID, fromUserID)
	if err != nil {
		return LikeResult{}, err
	}
	if !mutual {
		return LikeResult{Recorded: recorded}, nil
	}

	match, created, err := s.matchRepo.CreateOrGet(ctx, fromUserID, toUserID)
	if err != nil {
		return LikeResult{}, err
	}
	if created {
		s.appCtx.Logger.Info("match formed", "match", match.ID, "user1", match.User1ID, "user2", match.User2ID)
	}
	return LikeResult{Recorded: recorded, Match: &match}, nil
}

// Dislike records a dislike. It never forms a match, and the write-once
// ledger means the pair can never convert to a like later.
func (s *Service) Dislike(ctx context.Context, fromUserID, toUserID uint64) error {
	if toUserID == 0 || toUserID == fromUserID {
		return apperrors.ErrInvalidTarget
	}
	_, err := s.swipeRepo.Create(ctx, fromUserID, toUserID, db.SwipeDislike)
	return err
}
