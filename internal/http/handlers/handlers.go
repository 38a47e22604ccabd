// Package handlers wires the catalog services to HTTP.
//
// HTML handlers render the embedded templates of package views and report
// outcomes through flash messages; JSON handlers (api_handler.go) serve the
// JSON:API documents under the API base path. Handlers are transport-thin:
// they read the form or query, call a service, and translate the result.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/http/flash"
	"github.com/tbourn/recettes/internal/http/middleware"
	"github.com/tbourn/recettes/internal/services"
)

//
// Service contracts (context-aware)
//

// DishService defines the dish operations consumed by the handlers.
type DishService interface {
	Create(ctx context.Context, in services.DishInput, actorID uint) (*domain.Dish, error)
	Get(ctx context.Context, id uint) (*domain.Dish, error)
	List(ctx context.Context) ([]domain.Dish, error)
	SearchByName(ctx context.Context, kw string, page int) (services.Page[domain.Dish], error)
	SearchByGuests(ctx context.Context, kw string, page int) (services.Page[domain.Dish], error)
	Browse(ctx context.Context, q string, page int) (services.Page[domain.Dish], error)
	ByCategory(ctx context.Context) ([]services.Bucket[domain.Dish], error)
	Ingredients(ctx context.Context, dishID uint) ([]services.IngredientLine, error)
	Editions(ctx context.Context, dishID uint) ([]domain.Authorship, error)
	// Stats returns the dish count and the latest update time, for ETags.
	Stats(ctx context.Context) (int64, *time.Time, error)
	Update(ctx context.Context, id uint, patch services.DishPatch, actorID uint) ([]string, error)
	Delete(ctx context.Context, id uint, actorID uint) error
}

// IngredientService defines the ingredient operations consumed by the
// handlers.
type IngredientService interface {
	Create(ctx context.Context, in services.IngredientInput) (*domain.Ingredient, error)
	Get(ctx context.Context, id uint) (*domain.Ingredient, error)
	List(ctx context.Context) ([]domain.Ingredient, error)
	SearchByName(ctx context.Context, kw string, page int) (services.Page[domain.Ingredient], error)
	ByCategory(ctx context.Context) ([]services.Bucket[domain.Ingredient], error)
	Dishes(ctx context.Context, ingredientID uint) ([]domain.Dish, error)
}

// CompositionService attaches ingredient lines to dishes.
type CompositionService interface {
	AddLines(ctx context.Context, dishID uint, lines []services.Line) (int, error)
}

// UserService registers and identifies accounts.
type UserService interface {
	Create(ctx context.Context, in services.UserInput) (*domain.User, error)
	Identify(ctx context.Context, login, password string) (*domain.User, error)
}

// Sessions opens and closes the session cookie.
type Sessions interface {
	Login(w http.ResponseWriter, userID uint) error
	Logout(w http.ResponseWriter)
}

//
// Handler wiring
//

// Handlers groups the HTML and JSON endpoints.
type Handlers struct {
	dishes       DishService
	ingredients  IngredientService
	compositions CompositionService
	users        UserService
	sessions     Sessions
	apiBase      string
}

// New constructs Handlers. apiBase is the path prefix of the JSON API, used
// to build document links.
func New(dishes DishService, ingredients IngredientService, compositions CompositionService,
	users UserService, sessions Sessions, apiBase string) *Handlers {
	return &Handlers{
		dishes:       dishes,
		ingredients:  ingredients,
		compositions: compositions,
		users:        users,
		sessions:     sessions,
		apiBase:      strings.TrimRight(apiBase, "/"),
	}
}

// Flash texts shared by several pages.
const (
	msgSaved        = "Enregistrement effectué."
	msgErrorsPrefix = "Les erreurs suivantes ont été rencontrées : "
	msgDishNotFound = "Ce plat n'existe pas."
	msgUnavailable  = "Le service est momentanément indisponible."
)

// render writes page with data plus the fields every page reads: pending
// flashes and the current user.
func render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = flash.Pop(c)
	data["User"] = middleware.CurrentUser(c)
	c.HTML(status, page, data)
}

// redirect sends the browser to path with a 302, the way form posts are
// answered.
func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, path)
}

// flashErrors flashes the rejection list of a failed write.
func flashErrors(c *gin.Context, err error) {
	flash.Add(c, flash.Error, msgErrorsPrefix+strings.Join(services.Messages(err), ","))
}

// serverError logs err and shows the error page. It is used for store
// failures that leave nothing sensible to render.
func serverError(c *gin.Context, err error) {
	middleware.LoggerFrom(c).Error().Err(err).Msg("page failed")
	_ = c.Error(err)
	flash.Add(c, flash.Error, msgUnavailable)
	render(c, http.StatusInternalServerError, "erreur.html", gin.H{"Title": "Erreur"})
}

// NotFound answers unknown routes: the 404 page for browsers, the not-found
// document for the API.
func (h *Handlers) NotFound(c *gin.Context) {
	if middleware.IsAPI(c) {
		notFoundJSON(c)
		return
	}
	render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Page introuvable"})
}

// MethodNotAllowed answers a known route called with the wrong verb.
func (h *Handlers) MethodNotAllowed(c *gin.Context) {
	if middleware.IsAPI(c) {
		fail(c, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	c.String(http.StatusMethodNotAllowed, "Méthode non autorisée")
}

// dishForm is the data of the dish create and edit forms.
type dishForm struct {
	Name       string
	RecipeLink string
	Category   string
	Guests     int
	Categories []string
}

func newDishForm(d *domain.Dish) dishForm {
	f := dishForm{Categories: domain.DishCategories}
	if d != nil {
		f.Name, f.RecipeLink, f.Category, f.Guests = d.Name, d.RecipeLink, d.Category, d.Guests
	}
	return f
}
