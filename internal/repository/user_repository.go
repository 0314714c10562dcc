package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return errors.WithStack(r.db.WithContext(ctx).Create(user).Error)
}

// First returns the oldest user
func (r *GormUserRepository) First(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Order("id").First(&user).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return &user, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, errors.WithStack(err)
	}
	return &user, nil
}
