package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/domain"
)

// ---------- Create ----------

func TestDishService_Create_RoundTripAndAuthorship(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	u := c.user(t, "alice")

	d, err := c.dishes.Create(ctx, DishInput{
		Name: "Ratatouille", RecipeLink: "https://r/ratatouille", Category: "Plat principal", Guests: 4,
	}, u.ID)
	require.NoError(t, err)

	got, err := c.dishes.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ratatouille", got.Name)
	assert.Equal(t, "https://r/ratatouille", got.RecipeLink)
	assert.Equal(t, "Plat principal", got.Category)
	assert.Equal(t, 4, got.Guests)

	eds, err := c.dishes.Editions(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, eds, 1)
	assert.Equal(t, domain.ActionCreate, eds[0].Action)
	assert.Equal(t, u.ID, eds[0].UserID)
	require.NotNil(t, eds[0].User)
	assert.Equal(t, "Alice Durand", eds[0].User.DisplayName())
}

func TestDishService_Create_CanonicalCategoryAndTrim(t *testing.T) {
	c := newCatalog(t)
	d, err := c.dishes.Create(context.Background(), DishInput{
		Name: "  Crêpes ", RecipeLink: " https://r/crepes ", Category: " dessert ", Guests: 8,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Crêpes", d.Name)
	assert.Equal(t, "https://r/crepes", d.RecipeLink)
	assert.Equal(t, "Dessert", d.Category)
}

func TestDishService_Create_DuplicateLinkRejectedAndNotPersisted(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	c.dish(t, "Soupe", "https://r/soupe", "Entrée", 4)

	_, err := c.dishes.Create(ctx, DishInput{Name: "Velouté", RecipeLink: "https://r/soupe", Category: "Entrée", Guests: 2}, 0)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{msgDishTaken}, ve.Messages)

	var n int64
	require.NoError(t, c.db.Model(&domain.Dish{}).Where("name = ?", "Velouté").Count(&n).Error)
	assert.Zero(t, n)
}

func TestDishService_Create_TwoMissingFieldsTwoMessagesInOrder(t *testing.T) {
	c := newCatalog(t)
	_, err := c.dishes.Create(context.Background(), DishInput{RecipeLink: "https://r/x", Category: "Dessert"}, 0)
	assert.Equal(t, []string{
		"Le nom de la recette est manquant",
		"L'indication du nombre de convives est manquant",
	}, Messages(err))
}

func TestDishService_Create_Messages(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	long := "https://r/" + strings.Repeat("x", 100)

	cases := []struct {
		name string
		in   DishInput
		want []string
	}{
		{"everything missing", DishInput{Name: "  "}, []string{
			"Le nom de la recette est manquant",
			"Le lien vers la recette est manquant",
			"Le type de la recette est manquant",
			"L'indication du nombre de convives est manquant",
		}},
		{"link too long", DishInput{Name: "a", RecipeLink: long, Category: "Dessert", Guests: 1}, []string{
			"Le lien vers la recette ne doit pas dépasser 100 caractères",
		}},
		{"unknown category", DishInput{Name: "a", RecipeLink: "l", Category: "Goûter", Guests: 1}, []string{
			"Le type de la recette n'est pas reconnu",
		}},
		{"negative guests", DishInput{Name: "a", RecipeLink: "l", Category: "Autre", Guests: -2}, []string{
			"Le nombre de convives doit être un entier positif",
		}},
	}
	for _, tc := range cases {
		_, err := c.dishes.Create(ctx, tc.in, 0)
		assert.Equal(t, tc.want, Messages(err), tc.name)
	}

	var n int64
	require.NoError(t, c.db.Model(&domain.Dish{}).Count(&n).Error)
	assert.Zero(t, n, "rejected inputs must not be written")
}

func TestDishService_Create_ValidationAndUniquenessTogether(t *testing.T) {
	c := newCatalog(t)
	c.dish(t, "Soupe", "https://r/soupe", "Entrée", 4)

	_, err := c.dishes.Create(context.Background(), DishInput{Name: "Soupe", RecipeLink: "https://r/new"}, 0)
	assert.Equal(t, []string{
		"Le type de la recette est manquant",
		"L'indication du nombre de convives est manquant",
		msgDishTaken,
	}, Messages(err))
}

func TestDishService_Create_UnknownActorIsCommitFailure(t *testing.T) {
	c := newCatalog(t)
	_, err := c.dishes.Create(context.Background(), DishInput{Name: "a", RecipeLink: "l", Category: "Autre", Guests: 1}, 999)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Error(t, ve.Err, "commit failure keeps the store error")
	assert.Equal(t, []string{ve.Err.Error()}, ve.Messages)

	var n int64
	require.NoError(t, c.db.Model(&domain.Dish{}).Count(&n).Error)
	assert.Zero(t, n, "transaction must roll back the dish")
}

func TestDishCommitError(t *testing.T) {
	err := dishCommitError(gorm.ErrDuplicatedKey)
	assert.Equal(t, []string{msgDishTaken}, Messages(err))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	other := errors.New("disk full")
	err = dishCommitError(other)
	assert.Equal(t, []string{"disk full"}, Messages(err))
	assert.ErrorIs(t, err, other)
}

// ---------- reads ----------

func TestDishService_Get_NotFound(t *testing.T) {
	c := newCatalog(t)
	_, err := c.dishes.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrDishNotFound)
}

func TestDishService_Searches(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	c.dish(t, "Tarte aux pommes", "l1", "Dessert", 6)
	c.dish(t, "Tarte au citron", "l2", "Dessert", 8)
	c.dish(t, "Tartiflette", "l3", "Plat principal", 4)
	c.dish(t, "Soupe", "l4", "Entrée", 12)

	p, err := c.dishes.SearchByName(ctx, "Tart", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Total)
	assert.Equal(t, 2, p.Pages())
	assert.True(t, p.HasNext())
	assert.Len(t, p.Items, 2)

	p, err = c.dishes.SearchByName(ctx, "Tart", 2)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Tartiflette", p.Items[0].Name)
	assert.False(t, p.HasNext())

	_, err = c.dishes.SearchByName(ctx, "Tart", 3)
	assert.ErrorIs(t, err, ErrPageOutOfRange)

	p, err = c.dishes.SearchByName(ctx, "nothing", 1)
	require.NoError(t, err, "an empty first page is not out of range")
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)

	p, err = c.dishes.SearchByGuests(ctx, "1", 1)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Soupe", p.Items[0].Name)

	p, err = c.dishes.Browse(ctx, "", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.Total)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "Tartiflette", p.Items[0].Name)

	p, err = c.dishes.Browse(ctx, "pommes", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	require.Len(t, p.Items, 1)

	all, err := c.dishes.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Soupe", all[0].Name)
}

func TestDishService_Browse_HugePageIsOutOfRange(t *testing.T) {
	c := newCatalog(t)
	c.dish(t, "A", "l1", "Dessert", 2)
	c.dish(t, "B", "l2", "Dessert", 2)
	c.dish(t, "C", "l3", "Dessert", 2)

	p, err := c.dishes.Browse(context.Background(), "", math.MaxInt/2+2)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	assert.Empty(t, p.Items)
}

func TestDishService_ByCategory_AllBucketsInOrder(t *testing.T) {
	c := newCatalog(t)
	c.dish(t, "Tarte", "l1", "Dessert", 6)
	c.dish(t, "Crêpes", "l2", "Dessert", 8)
	c.dish(t, "Soupe", "l3", "Entrée", 4)

	buckets, err := c.dishes.ByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, len(domain.DishCategories))
	for i, b := range buckets {
		assert.Equal(t, domain.DishCategories[i], b.Category)
	}
	assert.Empty(t, buckets[0].Items)
	require.Len(t, buckets[1].Items, 2)
	assert.Equal(t, "Crêpes", buckets[1].Items[0].Name)
	require.Len(t, buckets[2].Items, 1)
}

func TestDishService_Stats(t *testing.T) {
	c := newCatalog(t)
	n, last, err := c.dishes.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, last)

	c.dish(t, "Tarte", "l1", "Dessert", 6)
	n, last, err = c.dishes.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotNil(t, last)
}

// ---------- Update ----------

func TestDishService_Update_AppliesEveryPresentField(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	u := c.user(t, "alice")
	d := c.dish(t, "Soupe", "https://r/soupe", "Entrée", 4)

	conf, err := c.dishes.Update(ctx, d.ID, DishPatch{
		Name:       ptr("Velouté"),
		RecipeLink: ptr("https://r/veloute"),
		Category:   ptr("plat principal"),
		Guests:     ptr(6),
	}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{msgNameUpdated, msgLinkUpdated, msgCategoryUpdated, msgGuestsUpdated}, conf)

	got, err := c.dishes.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Velouté", got.Name)
	assert.Equal(t, "https://r/veloute", got.RecipeLink)
	assert.Equal(t, "Plat principal", got.Category)
	assert.Equal(t, 6, got.Guests)

	eds, err := c.dishes.Editions(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, eds, 1)
	assert.Equal(t, domain.ActionUpdate, eds[0].Action)
	assert.Equal(t, "Velouté", eds[0].DishName)
}

func TestDishService_Update_OnlyChangedFieldsConfirmed(t *testing.T) {
	c := newCatalog(t)
	d := c.dish(t, "Soupe", "https://r/soupe", "Entrée", 4)

	conf, err := c.dishes.Update(context.Background(), d.ID, DishPatch{
		Name:     ptr("Soupe"),
		Guests:   ptr(5),
		Category: ptr("  "),
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{msgGuestsUpdated}, conf)

	conf, err = c.dishes.Update(context.Background(), d.ID, DishPatch{}, 0)
	require.NoError(t, err)
	assert.Empty(t, conf)
}

func TestDishService_Update_Rejections(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	c.dish(t, "Tarte", "https://r/tarte", "Dessert", 6)
	d := c.dish(t, "Soupe", "https://r/soupe", "Entrée", 4)

	_, err := c.dishes.Update(ctx, d.ID, DishPatch{Name: ptr("Tarte")}, 0)
	assert.Equal(t, []string{msgDishTaken}, Messages(err))

	_, err = c.dishes.Update(ctx, d.ID, DishPatch{Category: ptr("Goûter"), Guests: ptr(-1)}, 0)
	assert.Equal(t, []string{
		"Le type de la recette n'est pas reconnu",
		"Le nombre de convives doit être un entier positif",
	}, Messages(err))

	got, err := c.dishes.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soupe", got.Name)
	assert.Equal(t, 4, got.Guests)

	_, err = c.dishes.Update(ctx, 999, DishPatch{Name: ptr("x")}, 0)
	assert.ErrorIs(t, err, ErrDishNotFound)
}

// ---------- Delete ----------

func TestDishService_Delete_Cascade(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	u := c.user(t, "alice")
	d, err := c.dishes.Create(ctx, DishInput{Name: "Soupe", RecipeLink: "l1", Category: "Entrée", Guests: 4}, u.ID)
	require.NoError(t, err)
	keep := c.dish(t, "Gratin", "l2", "Accompagnement", 4)
	poireau := c.ingredient(t, "Poireau", "Légume")

	c1, err := c.comps.Create(ctx, CompositionInput{IngredientID: poireau.ID, DishID: d.ID, Quantity: "2"})
	require.NoError(t, err)
	c2, err := c.comps.Create(ctx, CompositionInput{IngredientID: poireau.ID, DishID: d.ID, Quantity: "1"})
	require.NoError(t, err)
	_, err = c.comps.Create(ctx, CompositionInput{IngredientID: poireau.ID, DishID: keep.ID, Quantity: "3"})
	require.NoError(t, err)

	require.NoError(t, c.dishes.Delete(ctx, d.ID, u.ID))

	_, err = c.dishes.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDishNotFound)
	for _, id := range []uint{c1.ID, c2.ID} {
		var comp domain.Composition
		assert.ErrorIs(t, c.db.First(&comp, id).Error, gorm.ErrRecordNotFound)
	}
	lines, err := c.dishes.Ingredients(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	var trail []domain.Authorship
	require.NoError(t, c.db.Order("id").Find(&trail).Error)
	require.Len(t, trail, 2)
	assert.Equal(t, domain.ActionCreate, trail[0].Action)
	assert.Equal(t, domain.ActionDelete, trail[1].Action)
	for _, a := range trail {
		assert.Nil(t, a.DishID)
		assert.Equal(t, "Soupe", a.DishName)
	}

	assert.ErrorIs(t, c.dishes.Delete(ctx, d.ID, u.ID), ErrDishNotFound)
}

// ---------- scenario ----------

func TestScenario_TarteAuxPommes(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	tarte, err := c.dishes.Create(ctx, DishInput{Name: "Tarte aux pommes", RecipeLink: "http://x/tarte", Category: "Dessert", Guests: 6}, 0)
	require.NoError(t, err)

	_, err = c.dishes.Create(ctx, DishInput{Name: "Tarte aux pommes", RecipeLink: "http://y/other", Category: "Dessert", Guests: 4}, 0)
	assert.Equal(t, []string{msgDishTaken}, Messages(err))

	pomme := c.ingredient(t, "Pomme", "Fruit")
	_, err = c.comps.Create(ctx, CompositionInput{IngredientID: pomme.ID, DishID: tarte.ID, Quantity: "500g"})
	require.NoError(t, err)

	lines, err := c.dishes.Ingredients(ctx, tarte.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "500g", lines[0].Quantity)
	assert.Equal(t, pomme.ID, lines[0].Ingredient.ID)
	assert.Equal(t, "Pomme", lines[0].Ingredient.Name)
}

func TestParseGuests(t *testing.T) {
	assert.Equal(t, 6, ParseGuests(" 6 "))
	assert.Equal(t, -2, ParseGuests("-2"))
	assert.Equal(t, 0, ParseGuests("six"))
	assert.Equal(t, 0, ParseGuests(""))
}
