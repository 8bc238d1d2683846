package inventory

import (
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

const defaultWishPriority = 3

// Service implements the inventory collaborator: a user's owned cards and
// wishlist. Card identity is resolved by find-or-create on
// (name, setName, rarity); the ranking path only ever consumes the
// resulting ids.
type Service struct {
	appCtx        *app.AppContext
	inventoryRepo *repository.InventoryRepository
}

// NewService creates the inventory service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:        appCtx,
		inventoryRepo: repository.NewInventoryRepository(appCtx.DB),
	}
}

// CardPayload is the catalog identity of a card.
type CardPayload struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	SetName string `json:"setName,omitempty"`
	Rarity  string `json:"rarity,omitempty"`
}

// OwnedCardPayload is one ownership record with its card resolved.
type OwnedCardPayload struct {
	ID         uint64      `json:"id"`
	Card       CardPayload `json:"card"`
	PhotoURL   string      `json:"photoUrl,omitempty"`
	Language   string      `json:"language,omitempty"`
	Condition  string      `json:"condition,omitempty"`
	IsForTrade bool        `json:"isForTrade"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// WishPayload is one wishlist entry with its card resolved.
type WishPayload struct {
	ID        uint64      `json:"id"`
	Card      CardPayload `json:"card"`
	Priority  int         `json:"priority"`
	CreatedAt time.Time   `json:"createdAt"`
}

// MyCards handles GET /cards/my.
func (s *Service) MyCards(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	rows, err := s.inventoryRepo.ListUserCards(c.Request.Context(), userID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	cards := make([]OwnedCardPayload, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, toOwnedCardPayload(row))
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

type addCardRequest struct {
	Name       string `json:"name"`
	SetName    string `json:"setName"`
	Rarity     string `json:"rarity"`
	IsForTrade bool   `json:"isForTrade"`
}

// AddCard handles POST /cards/add. The card identity is resolved or created
// first; the ownership record then points at the stable card id.
func (s *Service) AddCard(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.Validation("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		apperrors.Abort(c, apperrors.Validation("name is required"))
		return
	}

	ctx := c.Request.Context()
	card, err := s.inventoryRepo.ResolveOrCreateCard(ctx, req.Name, strings.TrimSpace(req.SetName), strings.TrimSpace(req.Rarity))
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	row := db.UserCard{
		UserID:     userID,
		CardID:     card.ID,
		IsForTrade: req.IsForTrade,
	}
	if err := s.inventoryRepo.AddUserCard(ctx, &row); err != nil {
		apperrors.Abort(c, err)
		return
	}
	row.Card = card
	c.JSON(http.StatusCreated, gin.H{"userCard": toOwnedCardPayload(row)})
}

type updateCardRequest struct {
	IsForTrade *bool `json:"isForTrade"`
}

// UpdateCard handles PATCH /cards/my/:id (for-trade flag only).
func (s *Service) UpdateCard(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.Abort(c, apperrors.Validation("id must be a valid id"))
		return
	}
	var req updateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.Validation("invalid request body"))
		return
	}

	ctx := c.Request.Context()
	if req.IsForTrade != nil {
		if err := s.inventoryRepo.SetUserCardForTrade(ctx, id, userID, *req.IsForTrade); err != nil {
			apperrors.Abort(c, err)
			return
		}
	}
	row, err := s.inventoryRepo.GetUserCard(ctx, id, userID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "card": toOwnedCardPayload(row)})
}

// DeleteCard handles DELETE /cards/my/:id.
func (s *Service) DeleteCard(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.Abort(c, apperrors.Validation("id must be a valid id"))
		return
	}
	if err := s.inventoryRepo.DeleteUserCard(c.Request.Context(), id, userID); err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Wishlist handles GET /wishlist.
func (s *Service) Wishlist(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	rows, err := s.inventoryRepo.ListWishlist(c.Request.Context(), userID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	items := make([]WishPayload, 0, len(rows))
	for _, row := range rows {
		items = append(items, toWishPayload(row))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type addWishRequest struct {
	CardID   uint64 `json:"cardId"`
	Name     string `json:"name"`
	SetName  string `json:"setName"`
	Rarity   string `json:"rarity"`
	Priority *int   `json:"priority"`
}

// AddWish handles POST /wishlist/add. Accepts either an existing cardId or
// a (name, setName, rarity) identity to resolve-or-create.
func (s *Service) AddWish(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	var req addWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.Validation("invalid request body"))
		return
	}

	ctx := c.Request.Context()
	var card db.Card
	var err error
	if req.CardID != 0 {
		card, err = s.inventoryRepo.GetCard(ctx, req.CardID)
	} else {
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			apperrors.Abort(c, apperrors.Validation("name or cardId is required"))
			return
		}
		card, err = s.inventoryRepo.ResolveOrCreateCard(ctx, req.Name, strings.TrimSpace(req.SetName), strings.TrimSpace(req.Rarity))
	}
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	priority := defaultWishPriority
	if req.Priority != nil {
		priority = *req.Priority
	}
	entry := db.WishlistEntry{UserID: userID, CardID: card.ID, Priority: priority}
	if err := s.inventoryRepo.AddWishlistEntry(ctx, &entry); err != nil {
		apperrors.Abort(c, err)
		return
	}
	entry.Card = card
	c.JSON(http.StatusCreated, gin.H{"item": toWishPayload(entry)})
}

// DeleteWish handles DELETE /wishlist/:id.
func (s *Service) DeleteWish(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.Abort(c, apperrors.Validation("id must be a valid id"))
		return
	}
	if err := s.inventoryRepo.DeleteWishlistEntry(c.Request.Context(), id, userID); err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func toCardPayload(card db.Card) CardPayload {
	return CardPayload{ID: card.ID, Name: card.Name, SetName: card.SetName, Rarity: card.Rarity}
}

func toOwnedCardPayload(row db.UserCard) OwnedCardPayload {
	return OwnedCardPayload{
		ID:         row.ID,
		Card:       toCardPayload(row.Card),
		PhotoURL:   row.PhotoURL,
		Language:   row.Language,
		Condition:  row.Condition,
		IsForTrade: row.IsForTrade,
		CreatedAt:  row.CreatedAt,
	}
}

func toWishPayload(row db.WishlistEntry) WishPayload {
	return WishPayload{
		ID:        row.ID,
		Card:      toCardPayload(row.Card),
		Priority:  row.Priority,
		CreatedAt: row.CreatedAt,
	}
}
