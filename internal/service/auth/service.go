package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cardswipe/cardswipe/internal/app"
	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"
	"github.com/cardswipe/cardswipe/internal/repository"
)

// contextUserKey is where the middleware stores the authenticated user id.
const contextUserKey = "authUserID"

const minPasswordLen = 6

// Service implements registration, login and token verification. Every
// other service trusts the user id this one injects into the request
// context.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates the auth service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, secret string, ttl time.Duration) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	City      string `json:"city,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Register handles POST /auth/register.
func (s *Service) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.Validation("invalid request body"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		apperrors.Abort(c, apperrors.Validation("username, email and password are required"))
		return
	}
	if len(req.Password) < minPasswordLen {
		apperrors.Abort(c, apperrors.Validation("password must be at least 6 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	user := db.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		City:         strings.TrimSpace(req.City),
	}
	if err := s.userRepo.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		s.appCtx.Logger.Error("failed to create user", "err", err)
		apperrors.Abort(c, err)
		return
	}

	token, err := s.GenerateToken(user.ID, user.Email)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  toUserPayload(user),
	})
}

// Login handles POST /auth/login.
func (s *Service) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Abort(c, apperrors.Validation("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		apperrors.Abort(c, apperrors.Validation("email and password are required"))
		return
	}

	user, err := s.userRepo.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			apperrors.Abort(c, apperrors.ErrInvalidCredentials)
			return
		}
		apperrors.Abort(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		apperrors.Abort(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := s.GenerateToken(user.ID, user.Email)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toUserPayload(user),
	})
}

// Me handles GET /users/me.
func (s *Service) Me(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		apperrors.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	user, err := s.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserPayload(user)})
}

// GenerateToken signs an HS256 token whose subject is the user id.
func (s *Service) GenerateToken(userID uint64, email string) (string, error) {
	now := s.now().UTC()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken parses and validates a signed token, returning the user id.
func (s *Service) VerifyToken(token string) (uint64, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, apperrors.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}

// Middleware authenticates Bearer tokens and injects the trusted user id.
// Requests without a valid token are rejected before touching storage.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apperrors.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		userID, err := s.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apperrors.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		c.Set(contextUserKey, userID)
		c.Next()
	}
}

// UserID extracts the authenticated user id set by Middleware.
func UserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return 0, false
	}
	userID, ok := v.(uint64)
	return userID, ok
}

func toUserPayload(u db.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		City:      u.City,
		AvatarURL: u.AvatarURL,
	}
}
