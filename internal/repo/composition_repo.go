package repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/domain"
)

// IngredientLine is one composition row of a dish joined with its
// ingredient.
type IngredientLine struct {
	CompositionID uint              `json:"composition_id"`
	Quantity      string            `json:"quantity"`
	Ingredient    domain.Ingredient `json:"ingredient"`
}

type ingredientLineRow struct {
	CompositionID uint
	Quantity      string
	IngredientID  uint
	Name          string
	Category      string
}

// CreateComposition inserts c. Unknown dish or ingredient ids fail with the
// store's foreign-key error.
func CreateComposition(ctx context.Context, db *gorm.DB, c *domain.Composition) error {
	return db.WithContext(ctx).Create(c).Error
}

// DishIngredientLines returns the ingredient lines of a dish in insertion
// order, quantities exactly as stored.
func DishIngredientLines(ctx context.Context, db *gorm.DB, dishID uint) ([]IngredientLine, error) {
	query, args, err := sq.
		Select(
			"c.id AS composition_id",
			"c.quantity AS quantity",
			"i.id AS ingredient_id",
			"i.name AS name",
			"i.category AS category",
		).
		From("compositions c").
		Join("ingredients i ON i.id = c.ingredient_id").
		Where(sq.Eq{"c.dish_id": dishID}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	rows := make([]ingredientLineRow, 0)
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]IngredientLine, 0, len(rows))
	for _, r := range rows {
		out = append(out, IngredientLine{
			CompositionID: r.CompositionID,
			Quantity:      r.Quantity,
			Ingredient:    domain.Ingredient{ID: r.IngredientID, Name: r.Name, Category: r.Category},
		})
	}
	return out, nil
}

// IngredientDishes returns the distinct dishes using an ingredient, ordered
// by name.
func IngredientDishes(ctx context.Context, db *gorm.DB, ingredientID uint) ([]domain.Dish, error) {
	query, args, err := sq.
		Select("d.id", "d.name", "d.recipe_link", "d.category", "d.guests").
		Distinct().
		From("dishes d").
		Join("compositions c ON c.dish_id = d.id").
		Where(sq.Eq{"c.ingredient_id": ingredientID}).
		OrderBy("d.name").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	dishes := make([]domain.Dish, 0)
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

// DeleteDishCompositions removes every composition of a dish and returns
// how many rows went away.
func DeleteDishCompositions(ctx context.Context, db *gorm.DB, dishID uint) (int64, error) {
	res := db.WithContext(ctx).Where("dish_id = ?", dishID).Delete(&domain.Composition{})
	return res.RowsAffected, res.Error
}
