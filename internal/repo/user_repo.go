package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/domain"
)

// CreateUser inserts u. PasswordHash must already be set.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return db.WithContext(ctx).Create(u).Error
}

// GetUser fetches a user by id, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByLogin fetches a user by login, or ErrNotFound.
func GetUserByLogin(ctx context.Context, db *gorm.DB, login string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "login = ?", login).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UserTaken reports whether an account already uses login or email.
func UserTaken(ctx context.Context, db *gorm.DB, login, email string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.User{}).
		Where("login = ? OR email = ?", login, email).
		Count(&n).Error
	return n > 0, err
}
