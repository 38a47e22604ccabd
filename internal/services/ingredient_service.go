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

const msgIngredientTaken = "Cet ingrédient est déjà inscrit dans notre base de données."

var ingredientMessages = map[string]string{
	"Name.required":     "Le nom de l'ingrédient est manquant",
	"Category.required": "Le type de l'ingrédient est manquant",
}

// IngredientInput carries the fields of a new ingredient.
type IngredientInput struct {
	Name     string `validate:"required"`
	Category string `validate:"required"`
}

// IngredientService provides ingredient-level operations.
type IngredientService struct {
	DB       *gorm.DB
	PageSize int
}

// NewIngredientService constructs an IngredientService. A non-positive page
// size defaults to 10.
func NewIngredientService(db *gorm.DB, pageSize int) *IngredientService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &IngredientService{DB: db, PageSize: pageSize}
}

// Create validates in and stores a new ingredient. Known categories are
// stored with their canonical spelling; other labels are kept as typed.
func (s *IngredientService) Create(ctx context.Context, in IngredientInput) (i *domain.Ingredient, err error) {
	ctx, end := observability.StartSpan(ctx, "IngredientService", "Create")
	defer end(&err)
	defer func() { recordWrite("ingredient", "create", err) }()

	in.Name = trim(in.Name)
	in.Category, _ = domain.CanonicalIngredientCategory(in.Category)

	msgs := check(in, ingredientMessages)
	if in.Name != "" {
		taken, err := repo.IngredientNameTaken(ctx, s.DB, in.Name)
		if err != nil {
			return nil, commitFailed(err)
		}
		if taken {
			msgs = append(msgs, msgIngredientTaken)
		}
	}
	if len(msgs) > 0 {
		return nil, rejected(msgs...)
	}

	i = &domain.Ingredient{Name: in.Name, Category: in.Category}
	if err := repo.CreateIngredient(ctx, s.DB, i); err != nil {
		if repo.IsDuplicate(err) {
			return nil, &ValidationError{Messages: []string{msgIngredientTaken}, Err: err}
		}
		return nil, commitFailed(err)
	}
	return i, nil
}

// Get returns ingredient id or ErrIngredientNotFound.
func (s *IngredientService) Get(ctx context.Context, id uint) (i *domain.Ingredient, err error) {
	ctx, end := observability.StartSpan(ctx, "IngredientService", "Get", attribute.Int64("ingredient.id", int64(id)))
	defer end(&err)

	i, err = repo.GetIngredient(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	return i, err
}

// List returns every ingredient ordered by name.
func (s *IngredientService) List(ctx context.Context) (items []domain.Ingredient, err error) {
	ctx, end := observability.StartSpan(ctx, "IngredientService", "List")
	defer end(&err)

	return repo.ListIngredients(ctx, s.DB)
}

// SearchByName returns one page of the ingredients whose name contains kw.
func (s *IngredientService) SearchByName(ctx context.Context, kw string, page int) (p Page[domain.Ingredient], err error) {
	ctx, end := observability.StartSpan(ctx, "IngredientService", "SearchByName",
		attribute.String("keyword", kw), attribute.Int("page", page))
	defer end(&err)

	offset, limit := window(page, s.PageSize)
	items, total, err := repo.SearchIngredientsByName(ctx, s.DB, kw, offset, limit)
	if err != nil {
		return p, err
	}
	return newPage(items, max(page, 1), s.PageSize, total)
}

// ByCategory returns one bucket per ingredient category, in vocabulary
// order, each sorted by name. Ingredients filed under a label outside the
// vocabulary appear in no bucket.
func (s *IngredientService) ByCategory(ctx context.Context) (out []Bucket[domain.Ingredient], err error) {
	ctx, end := observability.StartSpan(ctx, "IngredientService", "ByCategory")
	defer end(&err)

	out = make([]Bucket[domain.Ingredient], 0, len(domain.IngredientCategories))
	for _, cat := range domain.IngredientCategories {
		items, err := repo.ListIngredientsByCategory(ctx, s.DB, cat)
		if err != nil {
			return nil, err
		}
		out = append(out, Bucket[domain.Ingredient]{Category: cat, Items: items})
	}
	return out, nil
}

// Dishes returns the distinct dishes using an ingredient, ordered by name.
func (s *IngredientService) Dishes(ctx context.Context, ingredientID uint) (dishes []domain.Dish, err error) {
	ctx, end := observability.StartSpan(ctx, "IngredientService", "Dishes",
		attribute.Int64("ingredient.id", int64(ingredientID)))
	defer end(&err)

	return repo.IngredientDishes(ctx, s.DB, ingredientID)
}
