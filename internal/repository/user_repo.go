package repository

import (
	"context"
	"errors"

	"github.com/cardswipe/cardswipe/internal/db"
	apperrors "github.com/cardswipe/cardswipe/internal/errors"

	"gorm.io/gorm"
)

// UserRepository provides data access for user rows.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a user. A duplicate email surfaces as gorm.ErrDuplicatedKey
// for the auth service to translate.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID looks up a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, userID uint64) (db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.User{}, apperrors.ErrNotFound
	}
	return user, err
}

// GetByEmail looks up a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.User{}, apperrors.ErrNotFound
	}
	return user, err
}

// GetByIDs returns the users with the given ids, in no particular order.
func (r *UserRepository) GetByIDs(ctx context.Context, userIDs []uint64) ([]db.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var users []db.User
	err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

// ListOthers returns every user except the viewer and the excluded ids,
// ordered by id ascending so the fill-in pass is deterministic.
func (r *UserRepository) ListOthers(ctx context.Context, viewerID uint64, excludeUserIDs []uint64) ([]db.User, error) {
	query := r.db.WithContext(ctx).Where("id <> ?", viewerID)
	if len(excludeUserIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeUserIDs)
	}
	var users []db.User
	err := query.Order("id ASC").Find(&users).Error
	return users, err
}
