package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/domain"
)

// AppendAuthorship records that userID performed action on dish d. The
// dish name is copied so the row stays readable once the dish is gone.
func AppendAuthorship(ctx context.Context, db *gorm.DB, d *domain.Dish, userID uint, action string) (*domain.Authorship, error) {
	id := d.ID
	a := &domain.Authorship{
		DishID:   &id,
		DishName: d.Name,
		UserID:   userID,
		Action:   action,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// ListDishAuthorships returns the authorship rows of a dish with their
// user, oldest first.
func ListDishAuthorships(ctx context.Context, db *gorm.DB, dishID uint) ([]domain.Authorship, error) {
	var out []domain.Authorship
	err := db.WithContext(ctx).
		Preload("User").
		Where("dish_id = ?", dishID).
		Order("at asc").Order("id asc").
		Find(&out).Error
	return out, err
}

// DetachAuthorships clears the dish reference of every authorship row of
// dishID, keeping the rows and their name snapshot.
func DetachAuthorships(ctx context.Context, db *gorm.DB, dishID uint) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.Authorship{}).
		Where("dish_id = ?", dishID).
		Update("dish_id", nil)
	return res.RowsAffected, res.Error
}
