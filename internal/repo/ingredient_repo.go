package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/domain"
)

// CreateIngredient inserts i and fills its ID and timestamps.
func CreateIngredient(ctx context.Context, db *gorm.DB, i *domain.Ingredient) error {
	return db.WithContext(ctx).Create(i).Error
}

// GetIngredient fetches an ingredient by id, or ErrNotFound.
func GetIngredient(ctx context.Context, db *gorm.DB, id uint) (*domain.Ingredient, error) {
	var i domain.Ingredient
	if err := db.WithContext(ctx).First(&i, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// ListIngredients returns every ingredient ordered by name.
func ListIngredients(ctx context.Context, db *gorm.DB) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// ListIngredientsByCategory returns the ingredients of one category ordered
// by name.
func ListIngredientsByCategory(ctx context.Context, db *gorm.DB, category string) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	err := db.WithContext(ctx).
		Where("category = ?", category).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// IngredientNameTaken reports whether an ingredient named name exists.
func IngredientNameTaken(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Ingredient{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

// SearchIngredientsByName returns one page of ingredients whose name
// contains kw, ordered by name, and the total number of matches.
func SearchIngredientsByName(ctx context.Context, db *gorm.DB, kw string, offset, limit int) ([]domain.Ingredient, int64, error) {
	q := db.WithContext(ctx).Model(&domain.Ingredient{}).
		Where("name LIKE ?", like(kw)).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Ingredient
	if total == 0 {
		return out, 0, nil
	}
	err := q.Order("name asc").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}
