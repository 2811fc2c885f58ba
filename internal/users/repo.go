package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all accounts ordered by username.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePasswordHash overwrites the stored credential for the account.
func (r *Repository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("password_hash", hash).Error
}

// UpdateProfile applies the provided column updates to the account.
func (r *Repository) UpdateProfile(ctx context.Context, username string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Updates(updates).Error
}

// UpdateAvatar replaces the stored avatar bytes.
func (r *Repository) UpdateAvatar(ctx context.Context, username string, avatar []byte) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("avatar", avatar).Error
}

// Count returns the number of registered accounts.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
