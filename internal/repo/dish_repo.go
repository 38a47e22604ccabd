// Package repo implements the data persistence layer for the catalog.
// This file provides repository functions for the Dish model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no validation or business rules, only persistence and query
// composition.
//
// Error semantics:
//   - When a dish is not found, functions return gorm.ErrRecordNotFound
//     (exported here as ErrNotFound).
//   - Other DB errors, including unique-constraint violations, are
//     propagated as-is; see IsDuplicate.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/domain"
)

// CreateDish inserts d and fills its ID and timestamps.
func CreateDish(ctx context.Context, db *gorm.DB, d *domain.Dish) error {
	return db.WithContext(ctx).Create(d).Error
}

// GetDish fetches a dish by id, or ErrNotFound.
func GetDish(ctx context.Context, db *gorm.DB, id uint) (*domain.Dish, error) {
	var d domain.Dish
	if err := db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDishes returns every dish ordered by name.
func ListDishes(ctx context.Context, db *gorm.DB) ([]domain.Dish, error) {
	var out []domain.Dish
	err := db.WithContext(ctx).Order("name asc").Order("id asc").Find(&out).Error
	return out, err
}

// ListDishesByCategory returns the dishes of one category ordered by name.
func ListDishesByCategory(ctx context.Context, db *gorm.DB, category string) ([]domain.Dish, error) {
	var out []domain.Dish
	err := db.WithContext(ctx).
		Where("category = ?", category).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// DishTaken reports whether another dish (id != excludeID) already uses
// name or recipe link. Empty values never match. Pass excludeID 0 on
// creation.
func DishTaken(ctx context.Context, db *gorm.DB, name, link string, excludeID uint) (bool, error) {
	if name == "" && link == "" {
		return false, nil
	}
	q := db.WithContext(ctx).Model(&domain.Dish{})
	switch {
	case name != "" && link != "":
		q = q.Where("name = ? OR recipe_link = ?", name, link)
	case name != "":
		q = q.Where("name = ?", name)
	default:
		q = q.Where("recipe_link = ?", link)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// SearchDishesByName returns one page of dishes whose name contains kw,
// ordered by name, and the total number of matches.
func SearchDishesByName(ctx context.Context, db *gorm.DB, kw string, offset, limit int) ([]domain.Dish, int64, error) {
	q := db.WithContext(ctx).Model(&domain.Dish{}).Where("name LIKE ?", like(kw))
	return pageDishes(q, "name asc", offset, limit)
}

// SearchDishesByGuests matches kw against the decimal text of the guest
// count, so "1" finds 1, 10 and 12.
func SearchDishesByGuests(ctx context.Context, db *gorm.DB, kw string, offset, limit int) ([]domain.Dish, int64, error) {
	q := db.WithContext(ctx).Model(&domain.Dish{}).Where("CAST(guests AS TEXT) LIKE ?", like(kw))
	return pageDishes(q, "guests asc, name asc", offset, limit)
}

// ListDishesPage pages through all dishes by id, or through the name
// matches of q when q is not empty.
func ListDishesPage(ctx context.Context, db *gorm.DB, q string, offset, limit int) ([]domain.Dish, int64, error) {
	base := db.WithContext(ctx).Model(&domain.Dish{})
	if q != "" {
		base = base.Where("name LIKE ?", like(q))
	}
	return pageDishes(base, "id asc", offset, limit)
}

// UpdateDish writes the given columns of dish id. It returns ErrNotFound
// when no row matched.
func UpdateDish(ctx context.Context, db *gorm.DB, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := db.WithContext(ctx).Model(&domain.Dish{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDish removes dish id. It returns ErrNotFound when no row matched.
func DeleteDish(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Dish{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func pageDishes(q *gorm.DB, order string, offset, limit int) ([]domain.Dish, int64, error) {
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Dish
	if total == 0 {
		return out, 0, nil
	}
	err := q.Order(order).Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// like wraps kw for a substring LIKE match. LIKE wildcards typed by the
// user keep their meaning.
func like(kw string) string { return "%" + kw + "%" }
