// Dish pages.
//
// This file serves the dish side of the site:
//   - GET       /, /plat                        (listings)
//   - GET|POST  /plats/:id                      (dish with its ingredient lines)
//   - GET       /recherche_plat                 (name search, paginated)
//   - GET|POST  /recherche_plat_convives        (guest-count search, paginated)
//   - GET       /recherche_plat_type            (one section per dish category)
//   - GET|POST  /ajout_recette                  (create, login required)
//   - GET|POST  /plats/:id/adding_ingredients   (ingredient form, login required)
//   - POST      /add_ingredients                (store lines, login required)
//   - GET|POST  /edition_recette/:id            (edit form, login required)
//   - POST      /editer_recette                 (apply edit, login required)
//   - GET|POST  /supprimer/:id, /supprimer      (confirm, delete; login required)
//
// Writes answer with a redirect and flash messages; a rejected creation
// re-renders the form with 422 so the visitor keeps what they typed.
package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/http/flash"
	"github.com/tbourn/recettes/internal/http/middleware"
	"github.com/tbourn/recettes/internal/http/views"
	"github.com/tbourn/recettes/internal/services"
	"github.com/tbourn/recettes/internal/utils"
)

const (
	msgDishDeleted      = "Le plat a bien été supprimé"
	msgDishDeleteFailed = "L'application n'a pas réussi à supprimer ce plat"
	msgDishUpdateFailed = "L'application n'a pas réussi à modifier la/les information(s) de ce plat"
	msgNothingChanged   = "Aucune modification n'a été demandée."

	// ingredientRows is the number of blank rows of the add-ingredients form.
	ingredientRows = 5
)

// formValue reads key from the posted form, falling back to the query
// string. Search forms are reachable both ways.
func formValue(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(c.Query(key))
}

func dishPath(id uint) string {
	return "/plats/" + strconv.FormatUint(uint64(id), 10)
}

// loadDish resolves the :id parameter. Unknown or malformed ids flash an
// error and redirect to /plat; ok is false when the response is done.
func (h *Handlers) loadDish(c *gin.Context, raw string) (*domain.Dish, bool) {
	id, valid := utils.ParseID(raw)
	if !valid {
		flash.Add(c, flash.Error, msgDishNotFound)
		redirect(c, "/plat")
		return nil, false
	}
	d, err := h.dishes.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrDishNotFound):
		flash.Add(c, flash.Error, msgDishNotFound)
		redirect(c, "/plat")
		return nil, false
	case err != nil:
		serverError(c, err)
		return nil, false
	}
	return d, true
}

// Home renders the landing page.
func (h *Handlers) Home(c *gin.Context) {
	dishes, err := h.dishes.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "accueil.html", gin.H{"Dishes": dishes})
}

// Dishes lists every dish by name.
func (h *Handlers) Dishes(c *gin.Context) {
	dishes, err := h.dishes.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "plat.html", gin.H{"Title": "Tous les plats", "Dishes": dishes})
}

// ShowDish renders one dish with its ingredient lines and history.
func (h *Handlers) ShowDish(c *gin.Context) {
	d, ok := h.loadDish(c, c.Param("id"))
	if !ok {
		return
	}
	ctx := c.Request.Context()
	lines, err := h.dishes.Ingredients(ctx, d.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	editions, err := h.dishes.Editions(ctx, d.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "plat_info.html", gin.H{
		"Title":    d.Name,
		"Dish":     d,
		"Lines":    lines,
		"Editions": editions,
	})
}

// searchDishes renders recherche_plat.html for one of the dish searches.
// Nothing is queried until a keyword is given; a page past the end shows
// an empty result.
func (h *Handlers) searchDishes(c *gin.Context, action, title, placeholder string, titleFor func(string) string,
	run func(kw string, page int) (services.Page[domain.Dish], error)) {
	kw := formValue(c, "keyword")
	data := gin.H{
		"Title":       title,
		"Action":      action,
		"Keyword":     kw,
		"Placeholder": placeholder,
	}
	if kw != "" {
		p, err := run(kw, utils.ParsePage(c.Query("page")))
		if err != nil && !errors.Is(err, services.ErrPageOutOfRange) {
			serverError(c, err)
			return
		}
		data["Title"] = titleFor(kw)
		data["Total"] = p.Total
		data["Results"] = p.Items
		data["Pager"] = views.NewPager(action, url.Values{"keyword": {kw}}, p.Page, p.HasPrev(), p.HasNext(), p.Numbers())
	}
	render(c, http.StatusOK, "recherche_plat.html", data)
}

// SearchDishes runs the paginated name search.
func (h *Handlers) SearchDishes(c *gin.Context) {
	ctx := c.Request.Context()
	h.searchDishes(c, "/recherche_plat", "Recherche parmi les plats", "Nom du plat",
		func(kw string) string { return "Résultat pour la recherche '" + kw + "'" },
		func(kw string, page int) (services.Page[domain.Dish], error) {
			return h.dishes.SearchByName(ctx, kw, page)
		})
}

// SearchDishesByGuests runs the paginated guest-count search.
func (h *Handlers) SearchDishesByGuests(c *gin.Context) {
	ctx := c.Request.Context()
	h.searchDishes(c, "/recherche_plat_convives", "Recherche par nombre de convives", "Nombre de convives",
		func(kw string) string { return "Résultats pour la recherche : '" + kw + "' convive(s)" },
		func(kw string, page int) (services.Page[domain.Dish], error) {
			return h.dishes.SearchByGuests(ctx, kw, page)
		})
}

// DishesByCategory renders one section per dish category.
func (h *Handlers) DishesByCategory(c *gin.Context) {
	buckets, err := h.dishes.ByCategory(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "recherche_plat_type.html", gin.H{"Title": "Les plats par type", "Buckets": buckets})
}

// NewDish renders the empty dish form.
func (h *Handlers) NewDish(c *gin.Context) {
	render(c, http.StatusOK, "ajout_recette.html", gin.H{"Title": "Ajouter une recette", "Form": newDishForm(nil)})
}

// CreateDish stores the posted dish (fields nom, recette, type, nombre).
func (h *Handlers) CreateDish(c *gin.Context) {
	in := services.DishInput{
		Name:       c.PostForm("nom"),
		RecipeLink: c.PostForm("recette"),
		Category:   c.PostForm("type"),
		Guests:     services.ParseGuests(c.PostForm("nombre")),
	}
	_, err := h.dishes.Create(c.Request.Context(), in, middleware.CurrentUserID(c))
	if err == nil {
		flash.Add(c, flash.Success, msgSaved)
		redirect(c, "/")
		return
	}

	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		serverError(c, err)
		return
	}
	flashErrors(c, err)
	form := newDishForm(nil)
	form.Name, form.RecipeLink, form.Category, form.Guests = in.Name, in.RecipeLink, in.Category, in.Guests
	render(c, http.StatusUnprocessableEntity, "ajout_recette.html", gin.H{"Title": "Ajouter une recette", "Form": form})
}

// AddIngredientsForm renders the ingredient-lines form of a dish.
func (h *Handlers) AddIngredientsForm(c *gin.Context) {
	d, ok := h.loadDish(c, c.Param("id"))
	if !ok {
		return
	}
	ingredients, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "adding_ingredients.html", gin.H{
		"Title":       "Ingrédients de " + d.Name,
		"Dish":        d,
		"Ingredients": ingredients,
		"Rows":        ingredientRows,
	})
}

// AddIngredients stores the posted lines (ingredient[], quantity[]) on the
// dish named by keyword.
func (h *Handlers) AddIngredients(c *gin.Context) {
	id, valid := utils.ParseID(c.PostForm("keyword"))
	if !valid {
		redirect(c, "/plat")
		return
	}

	ids, qtys := c.PostFormArray("ingredient[]"), c.PostFormArray("quantity[]")
	lines := make([]services.Line, max(len(ids), len(qtys)))
	for i := range lines {
		if i < len(ids) {
			lines[i].IngredientID, _ = utils.ParseID(strings.TrimSpace(ids[i]))
		}
		if i < len(qtys) {
			lines[i].Quantity = qtys[i]
		}
	}

	added, err := h.compositions.AddLines(c.Request.Context(), id, lines)
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrDishNotFound):
		flash.Add(c, flash.Error, msgDishNotFound)
		redirect(c, "/plat")
		return
	case err != nil && !errors.As(err, &ve):
		serverError(c, err)
		return
	}
	if added > 0 {
		flash.Add(c, flash.Success, msgSaved)
	}
	if err != nil {
		flashErrors(c, err)
	}
	redirect(c, dishPath(id))
}

// EditDishForm renders the edit form of a dish.
func (h *Handlers) EditDishForm(c *gin.Context) {
	d, ok := h.loadDish(c, c.Param("id"))
	if !ok {
		return
	}
	render(c, http.StatusOK, "edition_recette.html", gin.H{
		"Title": "Modifier " + d.Name,
		"Dish":  d,
		"Form":  newDishForm(d),
	})
}

// EditDish applies the posted changes to the dish named by keyword. Every
// non-blank field among nom, recette, type and nombre is applied.
func (h *Handlers) EditDish(c *gin.Context) {
	id, valid := utils.ParseID(c.PostForm("keyword"))
	if !valid {
		redirect(c, "/plat")
		return
	}

	var patch services.DishPatch
	if v, ok := c.GetPostForm("nom"); ok {
		patch.Name = &v
	}
	if v, ok := c.GetPostForm("recette"); ok {
		patch.RecipeLink = &v
	}
	if v, ok := c.GetPostForm("type"); ok {
		patch.Category = &v
	}
	if v, ok := c.GetPostForm("nombre"); ok && strings.TrimSpace(v) != "" {
		n := services.ParseGuests(v)
		patch.Guests = &n
	}

	confirmations, err := h.dishes.Update(c.Request.Context(), id, patch, middleware.CurrentUserID(c))
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrDishNotFound):
		flash.Add(c, flash.Error, msgDishNotFound)
		redirect(c, "/plat")
		return
	case errors.As(err, &ve):
		flash.Add(c, flash.Error, msgDishUpdateFailed)
		flashErrors(c, err)
		redirect(c, "/edition_recette/"+strconv.FormatUint(uint64(id), 10))
		return
	case err != nil:
		serverError(c, err)
		return
	}

	if len(confirmations) == 0 {
		flash.Add(c, flash.Info, msgNothingChanged)
	}
	for _, m := range confirmations {
		flash.Add(c, flash.Success, m)
	}
	redirect(c, dishPath(id))
}

// ConfirmDelete renders the deletion confirmation page.
func (h *Handlers) ConfirmDelete(c *gin.Context) {
	d, ok := h.loadDish(c, c.Param("id"))
	if !ok {
		return
	}
	render(c, http.StatusOK, "suppression.html", gin.H{"Title": "Supprimer " + d.Name, "Dish": d})
}

// DeleteDish deletes the dish named by the keyword query parameter together
// with its ingredient lines.
func (h *Handlers) DeleteDish(c *gin.Context) {
	id, valid := utils.ParseID(strings.TrimSpace(c.Query("keyword")))
	if !valid {
		flash.Add(c, flash.Error, msgDishDeleteFailed)
		redirect(c, "/")
		return
	}
	if err := h.dishes.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		if !errors.Is(err, services.ErrDishNotFound) {
			middleware.LoggerFrom(c).Error().Err(err).Uint("dish_id", id).Msg("delete dish failed")
		}
		flash.Add(c, flash.Error, msgDishDeleteFailed)
		redirect(c, "/")
		return
	}
	flash.Add(c, flash.Success, msgDishDeleted)
	redirect(c, "/")
}
