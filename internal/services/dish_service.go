// Package services – DishService
//
// This file implements the DishService: validated creation of dishes, the
// read-side queries behind the dish pages and the JSON API (listing,
// searches, category buckets, ingredient lines, authorship trail), and the
// update and delete operations. Every write records an authorship row for
// the acting user inside the same transaction.
//
// Observability: public methods are OpenTelemetry-instrumented; spans are
// named after the method on the tracer "services/DishService".
package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/observability"
	"github.com/tbourn/recettes/internal/repo"
)

const (
	msgDishTaken = "Le lien vers cette recette ou cette recette est déjà inscrit dans notre base de données."

	msgNameUpdated     = "Le nom de la recette a bien été modifié."
	msgLinkUpdated     = "Le lien vers la recette a bien été modifié."
	msgCategoryUpdated = "Le type de la recette a bien été modifié."
	msgGuestsUpdated   = "Le nombre de convives de la recette a bien été modifié."
)

var dishMessages = map[string]string{
	"Name.required":         "Le nom de la recette est manquant",
	"RecipeLink.required":   "Le lien vers la recette est manquant",
	"RecipeLink.max":        "Le lien vers la recette ne doit pas dépasser 100 caractères",
	"Category.required":     "Le type de la recette est manquant",
	"Category.dishcategory": "Le type de la recette n'est pas reconnu",
	"Guests.required":       "L'indication du nombre de convives est manquant",
	"Guests.gt":             "Le nombre de convives doit être un entier positif",
}

// IngredientLine is one ingredient of a dish with its quantity.
type IngredientLine = repo.IngredientLine

// DishInput carries the fields of a new dish. Field order is the order in
// which validation messages are reported.
type DishInput struct {
	Name       string `validate:"required"`
	RecipeLink string `validate:"required,max=100"`
	Category   string `validate:"required,dishcategory"`
	Guests     int    `validate:"required,gt=0"`
}

// DishPatch lists the fields to change on a dish; nil means unchanged.
// Blank strings count as absent.
type DishPatch struct {
	Name       *string
	RecipeLink *string
	Category   *string
	Guests     *int
}

// DishService provides dish-level operations.
type DishService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// PageSize is the number of dishes per page in searches and listings.
	PageSize int
}

// NewDishService constructs a DishService. A non-positive page size
// defaults to 10.
func NewDishService(db *gorm.DB, pageSize int) *DishService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &DishService{DB: db, PageSize: pageSize}
}

// Create validates in and stores a new dish. Every failing field yields one
// message; a name or link already in use adds the uniqueness message.
// When actorID is not zero a "creation" authorship row is stored in the
// same transaction.
func (s *DishService) Create(ctx context.Context, in DishInput, actorID uint) (d *domain.Dish, err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "Create", attribute.Int64("actor.id", int64(actorID)))
	defer end(&err)
	defer func() { recordWrite("dish", "create", err) }()

	in.Name, in.RecipeLink, in.Category = trim(in.Name), trim(in.RecipeLink), trim(in.Category)
	if c, ok := domain.CanonicalDishCategory(in.Category); ok {
		in.Category = c
	}

	msgs := check(in, dishMessages)
	taken, err := repo.DishTaken(ctx, s.DB, in.Name, in.RecipeLink, 0)
	if err != nil {
		return nil, commitFailed(err)
	}
	if taken {
		msgs = append(msgs, msgDishTaken)
	}
	if len(msgs) > 0 {
		return nil, rejected(msgs...)
	}

	d = &domain.Dish{Name: in.Name, RecipeLink: in.RecipeLink, Category: in.Category, Guests: in.Guests}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateDish(ctx, tx, d); err != nil {
			return err
		}
		if actorID == 0 {
			return nil
		}
		_, err := repo.AppendAuthorship(ctx, tx, d, actorID, domain.ActionCreate)
		return err
	})
	if err != nil {
		return nil, dishCommitError(err)
	}
	return d, nil
}

// Get returns dish id or ErrDishNotFound.
func (s *DishService) Get(ctx context.Context, id uint) (d *domain.Dish, err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "Get", attribute.Int64("dish.id", int64(id)))
	defer end(&err)

	d, err = repo.GetDish(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDishNotFound
	}
	return d, err
}

// List returns every dish ordered by name.
func (s *DishService) List(ctx context.Context) (dishes []domain.Dish, err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "List")
	defer end(&err)

	return repo.ListDishes(ctx, s.DB)
}

// SearchByName returns one page of the dishes whose name contains kw.
func (s *DishService) SearchByName(ctx context.Context, kw string, page int) (p Page[domain.Dish], err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "SearchByName",
		attribute.String("keyword", kw), attribute.Int("page", page))
	defer end(&err)

	offset, limit := window(page, s.PageSize)
	items, total, err := repo.SearchDishesByName(ctx, s.DB, kw, offset, limit)
	if err != nil {
		return p, err
	}
	return newPage(items, max(page, 1), s.PageSize, total)
}

// SearchByGuests returns one page of the dishes whose guest count, written
// in decimal, contains kw.
func (s *DishService) SearchByGuests(ctx context.Context, kw string, page int) (p Page[domain.Dish], err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "SearchByGuests",
		attribute.String("keyword", kw), attribute.Int("page", page))
	defer end(&err)

	offset, limit := window(page, s.PageSize)
	items, total, err := repo.SearchDishesByGuests(ctx, s.DB, kw, offset, limit)
	if err != nil {
		return p, err
	}
	return newPage(items, max(page, 1), s.PageSize, total)
}

// Browse pages through all dishes by id, or through the name matches of q
// when q is not empty.
func (s *DishService) Browse(ctx context.Context, q string, page int) (p Page[domain.Dish], err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "Browse",
		attribute.String("q", q), attribute.Int("page", page))
	defer end(&err)

	offset, limit := window(page, s.PageSize)
	items, total, err := repo.ListDishesPage(ctx, s.DB, q, offset, limit)
	if err != nil {
		return p, err
	}
	return newPage(items, max(page, 1), s.PageSize, total)
}

// ByCategory returns one bucket per dish category, in vocabulary order,
// each sorted by name. Empty buckets are kept.
func (s *DishService) ByCategory(ctx context.Context) (out []Bucket[domain.Dish], err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "ByCategory")
	defer end(&err)

	out = make([]Bucket[domain.Dish], 0, len(domain.DishCategories))
	for _, cat := range domain.DishCategories {
		items, err := repo.ListDishesByCategory(ctx, s.DB, cat)
		if err != nil {
			return nil, err
		}
		out = append(out, Bucket[domain.Dish]{Category: cat, Items: items})
	}
	return out, nil
}

// Ingredients returns the ingredient lines of a dish in insertion order.
func (s *DishService) Ingredients(ctx context.Context, dishID uint) (lines []IngredientLine, err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "Ingredients", attribute.Int64("dish.id", int64(dishID)))
	defer end(&err)

	return repo.DishIngredientLines(ctx, s.DB, dishID)
}

// Editions returns the authorship trail of a dish with each author, oldest
// first.
func (s *DishService) Editions(ctx context.Context, dishID uint) (editions []domain.Authorship, err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "Editions", attribute.Int64("dish.id", int64(dishID)))
	defer end(&err)

	return repo.ListDishAuthorships(ctx, s.DB, dishID)
}

// Stats returns the dish count and the latest update time, for ETags.
func (s *DishService) Stats(ctx context.Context) (count int64, last *time.Time, err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "Stats")
	defer end(&err)

	return repo.DishesStats(ctx, s.DB)
}

// Update applies every field present in patch, in the order name, link,
// category, guests, and returns one confirmation per field whose value
// changed. Present fields follow the creation rules, and the new name and
// link must not belong to another dish. A "modification" authorship row is
// stored with the change. A patch that changes nothing is a no-op.
func (s *DishService) Update(ctx context.Context, id uint, patch DishPatch, actorID uint) (confirmations []string, err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "Update",
		attribute.Int64("dish.id", int64(id)), attribute.Int64("actor.id", int64(actorID)))
	defer end(&err)
	defer func() { recordWrite("dish", "update", err) }()

	d, err := repo.GetDish(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, err
	}

	next := DishInput{Name: d.Name, RecipeLink: d.RecipeLink, Category: d.Category, Guests: d.Guests}
	fields := map[string]any{}
	var newName, newLink string

	if v, ok := present(patch.Name); ok && v != d.Name {
		next.Name, newName = v, v
		fields["name"] = v
		confirmations = append(confirmations, msgNameUpdated)
	}
	if v, ok := present(patch.RecipeLink); ok && v != d.RecipeLink {
		next.RecipeLink, newLink = v, v
		fields["recipe_link"] = v
		confirmations = append(confirmations, msgLinkUpdated)
	}
	if v, ok := present(patch.Category); ok {
		if c, known := domain.CanonicalDishCategory(v); known {
			v = c
		}
		if v != d.Category {
			next.Category = v
			fields["category"] = v
			confirmations = append(confirmations, msgCategoryUpdated)
		}
	}
	if patch.Guests != nil && *patch.Guests != d.Guests {
		next.Guests = *patch.Guests
		fields["guests"] = *patch.Guests
		confirmations = append(confirmations, msgGuestsUpdated)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	msgs := check(next, dishMessages)
	taken, err := repo.DishTaken(ctx, s.DB, newName, newLink, id)
	if err != nil {
		return nil, commitFailed(err)
	}
	if taken {
		msgs = append(msgs, msgDishTaken)
	}
	if len(msgs) > 0 {
		return nil, rejected(msgs...)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpdateDish(ctx, tx, id, fields); err != nil {
			return err
		}
		if actorID == 0 {
			return nil
		}
		d.Name = next.Name
		_, err := repo.AppendAuthorship(ctx, tx, d, actorID, domain.ActionUpdate)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, dishCommitError(err)
	}
	return confirmations, nil
}

// Delete removes dish id in one transaction: a "suppression" authorship row
// is appended, every composition of the dish is deleted, the authorship
// rows are detached from the dish (keeping its name), and the dish goes.
func (s *DishService) Delete(ctx context.Context, id uint, actorID uint) (err error) {
	ctx, end := observability.StartSpan(ctx, "DishService", "Delete",
		attribute.Int64("dish.id", int64(id)), attribute.Int64("actor.id", int64(actorID)))
	defer end(&err)
	defer func() { recordWrite("dish", "delete", err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := repo.GetDish(ctx, tx, id)
		if err != nil {
			return err
		}
		if actorID != 0 {
			if _, err := repo.AppendAuthorship(ctx, tx, d, actorID, domain.ActionDelete); err != nil {
				return err
			}
		}
		if _, err := repo.DeleteDishCompositions(ctx, tx, id); err != nil {
			return err
		}
		if _, err := repo.DetachAuthorships(ctx, tx, id); err != nil {
			return err
		}
		return repo.DeleteDish(ctx, tx, id)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrDishNotFound
	}
	return err
}

// ParseGuests reads a guest count typed in a form. Anything that is not an
// integer reads as 0, which validation reports as missing.
func ParseGuests(s string) int {
	n, err := strconv.Atoi(trim(s))
	if err != nil {
		return 0
	}
	return n
}

func dishCommitError(err error) error {
	if repo.IsDuplicate(err) {
		return &ValidationError{Messages: []string{msgDishTaken}, Err: err}
	}
	return commitFailed(err)
}

func present(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := trim(*p)
	return v, v != ""
}
