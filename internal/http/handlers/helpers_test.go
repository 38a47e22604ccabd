package handlers

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/recettes/internal/auth"
	"github.com/tbourn/recettes/internal/domain"
	"github.com/tbourn/recettes/internal/http/flash"
	"github.com/tbourn/recettes/internal/http/middleware"
	"github.com/tbourn/recettes/internal/http/views"
	"github.com/tbourn/recettes/internal/services"
)

// ---------- test DB + app ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type env struct {
	r           *gin.Engine
	db          *gorm.DB
	dishes      *services.DishService
	ingredients *services.IngredientService
	comps       *services.CompositionService
	users       *services.UserService
	sessions    *auth.SessionManager
}

// newEnv wires real services over a fresh in-memory database, with a page
// size of 2 so pagination shows up with a handful of rows.
func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newHandlerDB(t)
	e := &env{
		db:          db,
		dishes:      services.NewDishService(db, 2),
		ingredients: services.NewIngredientService(db, 2),
		comps:       services.NewCompositionService(db),
		users:       services.NewUserService(db, auth.NewHasher(bcrypt.MinCost)),
	}
	e.sessions, _ = auth.NewSessionManager("test-secret", time.Hour, false)
	h := New(e.dishes, e.ingredients, e.comps, e.users, e.sessions, "/api/")

	r := gin.New()
	r.SetHTMLTemplate(views.MustParse())
	r.Use(middleware.RequestID(), middleware.APIScope("/api"), middleware.Session(e.sessions, e.users))

	r.GET("/", h.Home)
	r.GET("/plat", h.Dishes)
	r.Match([]string{http.MethodGet, http.MethodPost}, "/plats/:id", h.ShowDish)
	r.GET("/recherche_plat", h.SearchDishes)
	r.GET("/recherche_plat_type", h.DishesByCategory)
	r.Match([]string{http.MethodGet, http.MethodPost}, "/recherche_plat_convives", h.SearchDishesByGuests)
	r.GET("/ingredients/all", h.Ingredients)
	r.GET("/ingredients/:id", h.ShowIngredient)
	r.GET("/recherche_ingredient", h.SearchIngredients)
	r.GET("/recherche_ingredient_type", h.IngredientsByCategory)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.Match([]string{http.MethodGet, http.MethodPost}, "/connexion", h.Login)
	r.Match([]string{http.MethodGet, http.MethodPost}, "/deconnexion", h.Logout)

	w := r.Group("/", middleware.RequireLogin())
	w.GET("/ajout_recette", h.NewDish)
	w.POST("/ajout_recette", h.CreateDish)
	w.Match([]string{http.MethodGet, http.MethodPost}, "/plats/:id/adding_ingredients", h.AddIngredientsForm)
	w.POST("/add_ingredients", h.AddIngredients)
	w.Match([]string{http.MethodGet, http.MethodPost}, "/edition_recette/:id", h.EditDishForm)
	w.POST("/editer_recette", h.EditDish)
	w.Match([]string{http.MethodGet, http.MethodPost}, "/supprimer/:id", h.ConfirmDelete)
	w.Match([]string{http.MethodGet, http.MethodPost}, "/supprimer", h.DeleteDish)
	w.Match([]string{http.MethodGet, http.MethodPost}, "/vers_ajout_ingredient", h.NewIngredient)
	w.GET("/ajout_ingredient", h.NewIngredient)
	w.POST("/ajout_ingredient", h.CreateIngredient)

	r.GET("/api/plats", h.APIListDishes)
	r.GET("/api/plats/:id", h.APIGetDish)
	r.NoRoute(h.NotFound)

	e.r = r
	return e
}

// do sends one request. A non-nil form is posted url-encoded.
func (e *env) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range cookies {
		if ck != nil {
			req.AddCookie(ck)
		}
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

// follow performs the redirect of w, carrying its flash cookie.
func (e *env) follow(t *testing.T, w *httptest.ResponseRecorder, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if w.Code != http.StatusFound {
		t.Fatalf("expected a redirect, got %d: %s", w.Code, w.Body.String())
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == flash.CookieName && ck.Value != "" {
			cookies = append(cookies, ck)
		}
	}
	return e.do(http.MethodGet, w.Header().Get("Location"), nil, cookies...)
}

// login creates an account and returns a valid session cookie for it.
func (e *env) login(t *testing.T, login string) (*domain.User, *http.Cookie) {
	t.Helper()
	u, err := e.users.Create(context.Background(), services.UserInput{
		Login: login, Email: login + "@example.org", Surname: "Durand", FirstName: "Alice", Password: "pw-" + login,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tok, err := e.sessions.Issue(u.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return u, &http.Cookie{Name: auth.CookieName, Value: tok}
}

func (e *env) dish(t *testing.T, name, link, category string, guests int, actor uint) *domain.Dish {
	t.Helper()
	d, err := e.dishes.Create(context.Background(),
		services.DishInput{Name: name, RecipeLink: link, Category: category, Guests: guests}, actor)
	if err != nil {
		t.Fatalf("create dish: %v", err)
	}
	return d
}

func (e *env) ingredient(t *testing.T, name, category string) *domain.Ingredient {
	t.Helper()
	i, err := e.ingredients.Create(context.Background(), services.IngredientInput{Name: name, Category: category})
	if err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	return i
}

// assertPage fails unless the rendered body contains every text, compared
// after HTML escaping.
func assertPage(t *testing.T, w *httptest.ResponseRecorder, texts ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range texts {
		if !strings.Contains(body, html.EscapeString(s)) {
			t.Fatalf("page does not contain %q:\n%s", s, body)
		}
	}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// assertMarkup is assertPage for raw HTML fragments.
func assertMarkup(t *testing.T, w *httptest.ResponseRecorder, fragments ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range fragments {
		if !strings.Contains(body, s) {
			t.Fatalf("page does not contain %q:\n%s", s, body)
		}
	}
}
