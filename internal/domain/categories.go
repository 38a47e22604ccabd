package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// DishCategories is the fixed, ordered set of dish categories.
var DishCategories = []string{
	"Plat principal",
	"Dessert",
	"Entrée",
	"Accompagnement",
	"Autre",
}

// IngredientCategories is the ordered set of ingredient categories offered
// by the forms and the faceted listing. Ingredients may carry other labels.
var IngredientCategories = []string{
	"Alcool",
	"Aromate",
	"Condiment",
	"Eau",
	"Epice",
	"Fromage",
	"Fruit",
	"Fruit de mer",
	"Féculent",
	"Ingrédient préparé",
	"Laitage",
	"Légume",
	"Oeuf",
	"Viande",
}

// CanonicalDishCategory returns the canonical spelling of s when it names a
// known dish category, ignoring case and surrounding whitespace.
func CanonicalDishCategory(s string) (string, bool) {
	return canonical(DishCategories, s)
}

// CanonicalIngredientCategory is CanonicalDishCategory for ingredient labels.
// Unknown labels are returned trimmed with ok=false.
func CanonicalIngredientCategory(s string) (string, bool) {
	return canonical(IngredientCategories, s)
}

func canonical(set []string, s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	fold := cases.Fold()
	key := fold.String(s)
	for _, c := range set {
		if fold.String(c) == key {
			return c, true
		}
	}
	return s, false
}
