package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/observability"
	"github.com/tbourn/recettes/internal/repo"
)

var compositionMessages = map[string]string{
	"IngredientID.required": "L'ingrédient est manquant",
	"DishID.required":       "L'id de la recette est manquant",
	"Quantity.required":     "La quantité de l'ingrédient est manquante",
}

// CompositionInput carries one ingredient line of a dish.
type CompositionInput struct {
	IngredientID uint   `validate:"required"`
	DishID       uint   `validate:"required"`
	Quantity     string `validate:"required"`
}

// Line is one row of the "add ingredients" form.
type Line struct {
	IngredientID uint
	Quantity     string
}

func (l Line) blank() bool { return l.IngredientID == 0 && trim(l.Quantity) == "" }

// CompositionService records which ingredients, in which quantity, make up
// a dish. Lines are only checked for presence; the same ingredient may be
// added to a dish more than once.
type CompositionService struct {
	DB *gorm.DB
}

// NewCompositionService constructs a CompositionService.
func NewCompositionService(db *gorm.DB) *CompositionService {
	return &CompositionService{DB: db}
}

// Create validates and stores one composition line. Unknown dish or
// ingredient ids surface as a commit failure carrying the store error.
func (s *CompositionService) Create(ctx context.Context, in CompositionInput) (c *domain.Composition, err error) {
	ctx, end := observability.StartSpan(ctx, "CompositionService", "Create",
		attribute.Int64("dish.id", int64(in.DishID)), attribute.Int64("ingredient.id", int64(in.IngredientID)))
	defer end(&err)
	defer func() { recordWrite("composition", "create", err) }()

	in.Quantity = trim(in.Quantity)
	if msgs := check(in, compositionMessages); len(msgs) > 0 {
		return nil, rejected(msgs...)
	}

	c = &domain.Composition{DishID: in.DishID, IngredientID: in.IngredientID, Quantity: in.Quantity}
	if err := repo.CreateComposition(ctx, s.DB, c); err != nil {
		return nil, commitFailed(err)
	}
	return c, nil
}

// AddLines stores the lines of the "add ingredients" form for one dish.
// Fully blank rows are skipped. Valid lines are stored even when others
// fail; the failures are returned together as a *ValidationError along
// with the number of lines stored.
func (s *CompositionService) AddLines(ctx context.Context, dishID uint, lines []Line) (added int, err error) {
	if _, err := repo.GetDish(ctx, s.DB, dishID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrDishNotFound
		}
		return 0, err
	}

	var msgs []string
	var cause error
	for _, l := range lines {
		if l.blank() {
			continue
		}
		_, err := s.Create(ctx, CompositionInput{IngredientID: l.IngredientID, DishID: dishID, Quantity: l.Quantity})
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) && ve.Err != nil && cause == nil {
				cause = ve.Err
			}
			msgs = append(msgs, Messages(err)...)
			continue
		}
		added++
	}
	if len(msgs) > 0 {
		return added, &ValidationError{Messages: msgs, Err: cause}
	}
	return added, nil
}
