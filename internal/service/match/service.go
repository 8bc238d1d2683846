package match

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cardswipe/cardswipe/internal/app"
	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"
	"github.com/cardswipe/cardswipe/internal/repository"
	"github.com/cardswipe/cardswipe/internal/service/auth"
)

const maxMessageLen = 1000

// Service implements the read-side match API: listing a user's matches with
// the other participant resolved, match detail, and message history. It also
// appends messages, which is the only write this surface owns.
type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
}

// NewService creates the match service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
	}
}

// OtherUser is the resolved counterparty of a match — never the caller.
type OtherUser struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	City      string `json:"city,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// MessagePreview annotates a match with its latest message.
type MessagePreview struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchEntry is one row of the matches list.
type MatchEntry struct {
	ID          uint64          `json:"id"`
	OtherUser   OtherUser       `json:"otherUser"`
	LastMessage *MessagePreview `json:"lastMessage"`
}

// MessagePayload is a full message in a conversation.
type MessagePayload struct {
	ID         uint64    `json:"id"`
	MatchID    uint64    `json:"matchId"`
	FromUserID uint64    `json:"fromUserId"`
	ToUserID   uint64    `json:"toUserId"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// List handles GET /matches.
func (s *Service) List(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}

	entries, err := s.ListMatches(c.Request.Context(), userID)
	if err != nil {
		s.appCtx.Logger.Error("ListMatches failed", "user", userID, "err", err)
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": entries})
}

// Get handles GET /matches/:matchId.
func (s *Service) Get(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	matchID, err := strconv.ParseUint(c.Param("matchId"), 10, 64)
	if err != nil {
		apperrors.Abort(c, apperrors.Validation("matchId must be a valid id"))
		return
	}

	match, other, err := s.GetMatch(c.Request.Context(), matchID, userID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": gin.H{"id": match.ID, "otherUser": other}})
}

// Messages handles GET /matches/:matchId/messages.
func (s *Service) Messages(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	matchID, err := strconv.ParseUint(c.Param("matchId"), 10, 64)
	if err != nil {
		apperrors.Abort(c, apperrors.Validation("matchId must be a valid id"))
		return
	}

	msgs, err := s.ListMessages(c.Request.Context(), matchID, userID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessage handles POST /matches/:matchId/messages.
func (s *Service) SendMessage(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	matchID, err := strconv.ParseUint(c.Param("matchId"), 10, 64)
	if err != nil {
		apperrors.Abort(c, apperrors.Validation("matchId must be a valid id"))
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.Validation("invalid request body"))
		return
	}

	msg, err := s.AppendMessage(c.Request.Context(), matchID, userID, req.Text)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListMatches returns every match containing the user, newest first, with
// the other participant resolved and the latest message attached.
func (s *Service) ListMatches(ctx context.Context, userID uint64) ([]MatchEntry, error) {
	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]uint64, 0, len(matches))
	for _, m := range matches {
		otherIDs = append(otherIDs, otherParticipant(m, userID))
	}
	others, err := s.userRepo.GetByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	othersByID := make(map[uint64]db.User, len(others))
	for _, u := range others {
		othersByID[u.ID] = u
	}

	entries := make([]MatchEntry, 0, len(matches))
	for _, m := range matches {
		entry := MatchEntry{ID: m.ID, OtherUser: toOtherUser(othersByID[otherParticipant(m, userID)])}

		last, err := s.messageRepo.LatestByMatch(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			entry.LastMessage = &MessagePreview{ID: last.ID, Text: last.Text, CreatedAt: last.CreatedAt}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetMatch returns a match with the other participant resolved. Callers who
// are not participants get ErrForbidden; the response never distinguishes
// whose match it is beyond that.
func (s *Service) GetMatch(ctx context.Context, matchID, userID uint64) (db.Match, OtherUser, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return db.Match{}, OtherUser{}, err
	}
	if match.User1ID != userID && match.User2ID != userID {
		return db.Match{}, OtherUser{}, apperrors.ErrForbidden
	}
	other, err := s.userRepo.GetByID(ctx, otherParticipant(match, userID))
	if err != nil {
		return db.Match{}, OtherUser{}, err
	}
	return match, toOtherUser(other), nil
}

// ListMessages returns the match's messages in chronological order after
// the participant check.
func (s *Service) ListMessages(ctx context.Context, matchID, userID uint64) ([]MessagePayload, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.User1ID != userID && match.User2ID != userID {
		return nil, apperrors.ErrForbidden
	}

	msgs, err := s.messageRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	payload := make([]MessagePayload, 0, len(msgs))
	for _, m := range msgs {
		payload = append(payload, MessagePayload{
			ID:         m.ID,
			MatchID:    m.MatchID,
			FromUserID: m.FromUserID,
			ToUserID:   m.ToUserID,
			Text:       m.Text,
			CreatedAt:  m.CreatedAt,
		})
	}
	return payload, nil
}

// AppendMessage stores a message from a participant to the other party.
func (s *Service) AppendMessage(ctx context.Context, matchID, fromUserID uint64, text string) (MessagePayload, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return MessagePayload{}, apperrors.Validation("text must not be empty")
	}
	if len(text) > maxMessageLen {
		return MessagePayload{}, apperrors.Validation("text too long")
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MessagePayload{}, err
	}
	if match.User1ID != fromUserID && match.User2ID != fromUserID {
		return MessagePayload{}, apperrors.ErrForbidden
	}

	msg := db.Message{
		MatchID:    matchID,
		FromUserID: fromUserID,
		ToUserID:   otherParticipant(match, fromUserID),
		Text:       text,
	}
	if err := s.messageRepo.Append(ctx, &msg); err != nil {
		return MessagePayload{}, err
	}
	return MessagePayload{
		ID:         msg.ID,
		MatchID:    msg.MatchID,
		FromUserID: msg.FromUserID,
		ToUserID:   msg.ToUserID,
		Text:       msg.Text,
		CreatedAt:  msg.CreatedAt,
	}, nil
}

func otherParticipant(m db.Match, userID uint64) uint64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

func toOtherUser(u db.User) OtherUser {
	return OtherUser{ID: u.ID, Username: u.Username, City: u.City, AvatarURL: u.AvatarURL}
}
