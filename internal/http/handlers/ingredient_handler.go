package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/http/flash"
	"github.com/tbourn/recettes/internal/http/views"
	"github.com/tbourn/recettes/internal/services"
	"github.com/tbourn/recettes/internal/utils"
)

const msgIngredientNotFound = "Cet ingrédient n'existe pas."

type ingredientForm struct {
	Name     string
	Category string
}

// Ingredients lists every ingredient.
func (h *Handlers) Ingredients(c *gin.Context) {
	items, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "ingredient.html", gin.H{"Title": "Tous les ingrédients", "Ingredients": items})
}

// ShowIngredient renders one ingredient and the dishes using it.
func (h *Handlers) ShowIngredient(c *gin.Context) {
	ctx := c.Request.Context()
	id, valid := utils.ParseID(c.Param("id"))
	if !valid {
		flash.Add(c, flash.Error, msgIngredientNotFound)
		redirect(c, "/ingredients/all")
		return
	}
	ing, err := h.ingredients.Get(ctx, id)
	switch {
	case errors.Is(err, services.ErrIngredientNotFound):
		flash.Add(c, flash.Error, msgIngredientNotFound)
		redirect(c, "/ingredients/all")
		return
	case err != nil:
		serverError(c, err)
		return
	}
	dishes, err := h.ingredients.Dishes(ctx, id)
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "ingredient_info.html", gin.H{"Title": ing.Name, "Ingredient": ing, "Dishes": dishes})
}

// SearchIngredients runs the paginated ingredient name search.
func (h *Handlers) SearchIngredients(c *gin.Context) {
	kw := formValue(c, "keyword")
	data := gin.H{"Title": "Recherche parmi les ingrédients", "Keyword": kw}
	if kw != "" {
		p, err := h.ingredients.SearchByName(c.Request.Context(), kw, utils.ParsePage(c.Query("page")))
		if err != nil && !errors.Is(err, services.ErrPageOutOfRange) {
			serverError(c, err)
			return
		}
		data["Title"] = "Résultat pour la recherche '" + kw + "'"
		data["Total"] = p.Total
		data["Results"] = p.Items
		data["Pager"] = views.NewPager("/recherche_ingredient", url.Values{"keyword": {kw}},
			p.Page, p.HasPrev(), p.HasNext(), p.Numbers())
	}
	render(c, http.StatusOK, "recherche_ingredient.html", data)
}

// IngredientsByCategory renders one section per ingredient category.
func (h *Handlers) IngredientsByCategory(c *gin.Context) {
	buckets, err := h.ingredients.ByCategory(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "recherche_ingredient_type.html", gin.H{"Title": "Les ingrédients par type", "Buckets": buckets})
}

// NewIngredient renders the empty ingredient form.
func (h *Handlers) NewIngredient(c *gin.Context) {
	render(c, http.StatusOK, "ajout_ingredient.html", gin.H{
		"Title":      "Ajouter un ingrédient",
		"Form":       ingredientForm{},
		"Categories": domain.IngredientCategories,
	})
}

// CreateIngredient stores the posted ingredient (fields ingredient,
// typologie).
func (h *Handlers) CreateIngredient(c *gin.Context) {
	in := services.IngredientInput{Name: c.PostForm("ingredient"), Category: c.PostForm("typologie")}
	_, err := h.ingredients.Create(c.Request.Context(), in)
	if err == nil {
		flash.Add(c, flash.Success, msgSaved)
		redirect(c, "/ingredients/all")
		return
	}

	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		serverError(c, err)
		return
	}
	flashErrors(c, err)
	render(c, http.StatusUnprocessableEntity, "ajout_ingredient.html", gin.H{
		"Title":      "Ajouter un ingrédient",
		"Form":       ingredientForm{Name: in.Name, Category: in.Category},
		"Categories": domain.IngredientCategories,
	})
}
