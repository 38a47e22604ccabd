package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/recettes/internal/auth"
	"github.com/tbourn/recettes/internal/domain"
)

// ---------- test helpers ----------

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

type catalog struct {
	db          *gorm.DB
	dishes      *DishService
	ingredients *IngredientService
	comps       *CompositionService
	users       *UserService
}

func newCatalog(t *testing.T) catalog {
	t.Helper()
	db := newTestDB(t)
	return catalog{
		db:          db,
		dishes:      NewDishService(db, 2),
		ingredients: NewIngredientService(db, 2),
		comps:       NewCompositionService(db),
		users:       NewUserService(db, auth.NewHasher(bcrypt.MinCost)),
	}
}

func (c catalog) user(t *testing.T, login string) *domain.User {
	t.Helper()
	u, err := c.users.Create(context.Background(), UserInput{
		Login: login, Email: login + "@example.org", Surname: "Durand", FirstName: "Alice", Password: "pw-" + login,
	})
	require.NoError(t, err)
	return u
}

func (c catalog) dish(t *testing.T, name, link, category string, guests int) *domain.Dish {
	t.Helper()
	d, err := c.dishes.Create(context.Background(), DishInput{Name: name, RecipeLink: link, Category: category, Guests: guests}, 0)
	require.NoError(t, err)
	return d
}

func (c catalog) ingredient(t *testing.T, name, category string) *domain.Ingredient {
	t.Helper()
	i, err := c.ingredients.Create(context.Background(), IngredientInput{Name: name, Category: category})
	require.NoError(t, err)
	return i
}

func ptr[T any](v T) *T { return &v }
