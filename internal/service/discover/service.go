package discover

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/cardswipe/cardswipe/internal/app"
	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"
	"github.com/cardswipe/cardswipe/internal/repository"
	"github.com/cardswipe/cardswipe/internal/service/auth"
	"github.com/cardswipe/cardswipe/internal/utils/pagination"
)

// Scoring weights: a card the viewer wants counts double a card the
// candidate wants, since the viewer's own desire is the stronger signal.
const (
	weightTheyHaveINeed = 2
	weightTheyNeedIHave = 1
)

// Service implements the candidate ranking API. It combines the inventory
// index with the swipe ledger to produce a scored, paginated candidate list
// for a viewer.
type Service struct {
	appCtx        *app.AppContext
	swipeRepo     *repository.SwipeRepository
	inventoryRepo *repository.InventoryRepository
	userRepo      *repository.UserRepository
}

// NewService creates the discover service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:        appCtx,
		swipeRepo:     repository.NewSwipeRepository(appCtx.DB),
		inventoryRepo: repository.NewInventoryRepository(appCtx.DB),
		userRepo:      repository.NewUserRepository(appCtx.DB),
	}
}

// CandidateCard is a card in a candidate's overlap lists.
type CandidateCard struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	SetName    string `json:"setName,omitempty"`
	Rarity     string `json:"rarity,omitempty"`
	PhotoURL   string `json:"photoUrl,omitempty"`
	UserCardID uint64 `json:"userCardId,omitempty"`
}

// CandidateUser is the public slice of a user shown in candidate lists.
type CandidateUser struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	City      string `json:"city,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Candidate is one ranked entry: another user, the two overlap directions,
// and the resulting score.
type Candidate struct {
	User          CandidateUser   `json:"user"`
	TheyHaveINeed []CandidateCard `json:"theyHaveINeed"`
	TheyNeedIHave []CandidateCard `json:"theyNeedIHave"`
	Score         int             `json:"score"`
}

// Candidates handles GET /swipes/candidates.
//
// Query params: limit (clamped to [1,30]), offset (clamped to >= 0),
// include_swiped (default true, matching the discovery feed's historical
// behavior of re-showing seen users).
func (s *Service) Candidates(c *gin.Context) {
	viewerID, ok := auth.UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}

	limit := pagination.ClampLimit(c.Query("limit"))
	offset := pagination.ClampOffset(c.Query("offset"))
	includeSwiped := true
	if raw := c.Query("include_swiped"); raw != "" {
		includeSwiped = raw == "true"
	}

	s.appCtx.Logger.Debug("Candidates called",
		"viewer", viewerID, "limit", limit, "offset", offset, "include_swiped", includeSwiped)

	page, total, err := s.RankCandidates(c.Request.Context(), viewerID, limit, offset, includeSwiped)
	if err != nil {
		s.appCtx.Logger.Error("RankCandidates failed", "viewer", viewerID, "err", err)
		apperrors.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": page,
		"total":      total,
		"offset":     offset,
	})
}

// RankCandidates computes the full scored candidate set for the viewer and
// returns the requested page plus the pre-pagination total.
//
// The pool always contains every other eligible user: users with no overlap
// (or no inventory at all) appear with empty lists and score 0, so discovery
// never starves users who have nothing listed yet.
func (s *Service) RankCandidates(ctx context.Context, viewerID uint64, limit, offset int, includeSwiped bool) ([]Candidate, int, error) {
	var excluded []uint64
	if !includeSwiped {
		ids, err := s.swipeRepo.SwipedTargetIDs(ctx, viewerID)
		if err != nil {
			return nil, 0, err
		}
		excluded = ids
	}

	myOwned, err := s.inventoryRepo.OwnedForTradeCardIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	myWanted, err := s.inventoryRepo.WishedCardIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}

	// Direction A: they have something I want.
	ownerRows, err := s.inventoryRepo.OwnersOfCards(ctx, myWanted, viewerID, excluded)
	if err != nil {
		return nil, 0, err
	}
	// Direction B: they want something I have.
	wisherRows, err := s.inventoryRepo.WishersOfCards(ctx, myOwned, viewerID, excluded)
	if err != nil {
		return nil, 0, err
	}

	byUser := make(map[uint64]*Candidate)
	var order []uint64

	ensure := func(userID uint64) *Candidate {
		if cand, ok := byUser[userID]; ok {
			return cand
		}
		cand := &Candidate{
			User:          CandidateUser{ID: userID},
			TheyHaveINeed: []CandidateCard{},
			TheyNeedIHave: []CandidateCard{},
		}
		byUser[userID] = cand
		order = append(order, userID)
		return cand
	}

	for _, row := range ownerRows {
		cand := ensure(row.UserID)
		cand.TheyHaveINeed = append(cand.TheyHaveINeed, CandidateCard{
			ID:         row.Card.ID,
			Name:       row.Card.Name,
			SetName:    row.Card.SetName,
			Rarity:     row.Card.Rarity,
			PhotoURL:   row.PhotoURL,
			UserCardID: row.ID,
		})
	}
	for _, row := range wisherRows {
		cand := ensure(row.UserID)
		cand.TheyNeedIHave = append(cand.TheyNeedIHave, CandidateCard{
			ID:      row.Card.ID,
			Name:    row.Card.Name,
			SetName: row.Card.SetName,
			Rarity:  row.Card.Rarity,
		})
	}

	// Fill-in pass: union in every remaining user with empty lists.
	allOthers, err := s.userRepo.ListOthers(ctx, viewerID, excluded)
	if err != nil {
		return nil, 0, err
	}
	userByID := make(map[uint64]db.User, len(allOthers))
	for _, u := range allOthers {
		userByID[u.ID] = u
		ensure(u.ID)
	}

	candidates := make([]Candidate, 0, len(order))
	for _, userID := range order {
		cand := byUser[userID]
		if u, ok := userByID[userID]; ok {
			cand.User = CandidateUser{ID: u.ID, Username: u.Username, City: u.City, AvatarURL: u.AvatarURL}
		}
		cand.TheyHaveINeed = dedupeCards(cand.TheyHaveINeed)
		cand.TheyNeedIHave = dedupeCards(cand.TheyNeedIHave)
		cand.Score = weightTheyHaveINeed*len(cand.TheyHaveINeed) + weightTheyNeedIHave*len(cand.TheyNeedIHave)
		candidates = append(candidates, *cand)
	}

	// Score descending; equal scores ordered by user id ascending so the
	// ranking is deterministic for a fixed snapshot.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].User.ID < candidates[j].User.ID
	})

	total := len(candidates)
	return pagination.Page(candidates, offset, limit), total, nil
}

// dedupeCards collapses duplicate cards per candidate. When a user owns the
// same card more than once, the copy carrying a photo wins; otherwise the
// first copy is kept.
func dedupeCards(cards []CandidateCard) []CandidateCard {
	seen := make(map[uint64]int, len(cards))
	out := make([]CandidateCard, 0, len(cards))
	for _, card := range cards {
		if idx, ok := seen[card.ID]; ok {
			if card.PhotoURL != "" && out[idx].PhotoURL == "" {
				out[idx] = card
			}
			continue
		}
		seen[card.ID] = len(out)
		out = append(out, card)
	}
	return out
}
