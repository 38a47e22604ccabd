// Package domain defines the persistence models of the recipe catalog:
// dishes, ingredients, the compositions linking them, user accounts and the
// authorship trail of user actions on dishes. These types are mapped with
// GORM and form the core data layer of the application.
package domain

import "time"

// Dish is a recipe entry ("plat") with an external recipe link, a category
// and the number of guests it serves.
//
// Fields:
//   - ID: auto-incremented primary key.
//   - Name: recipe name; unique across all dishes.
//   - RecipeLink: URL of the recipe (max 100 chars); unique across all dishes.
//   - Category: one of DishCategories (indexed for faceted listings).
//   - Guests: number of guests the recipe serves.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Dish struct {
	ID         uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name"        gorm:"type:text;not null;uniqueIndex:ux_dishes_name"`
	RecipeLink string    `json:"recipe_link" gorm:"type:varchar(100);not null;uniqueIndex:ux_dishes_recipe_link"`
	Category   string    `json:"category"    gorm:"type:varchar(45);not null;index:idx_dishes_category"`
	Guests     int       `json:"guests"      gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for Dish.
func (Dish) TableName() string { return "dishes" }

// Ingredient is a named, categorized item usable in dishes.
//
// Fields:
//   - ID: auto-incremented primary key.
//   - Name: ingredient name; unique.
//   - Category: free-text label, usually one of IngredientCategories.
type Ingredient struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"       gorm:"type:text;not null;uniqueIndex:ux_ingredients_name"`
	Category  string    `json:"category"   gorm:"type:text;not null;index:idx_ingredients_category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Ingredient.
func (Ingredient) TableName() string { return "ingredients" }

// Composition is one ingredient line of one dish: which ingredient, and how
// much of it. Nothing prevents the same (dish, ingredient) pair from being
// recorded twice.
//
// Compositions are owned by their dish and are removed with it.
type Composition struct {
	ID           uint      `json:"id"            gorm:"primaryKey;autoIncrement"`
	DishID       uint      `json:"dish_id"       gorm:"not null;index:idx_compositions_dish"`
	IngredientID uint      `json:"ingredient_id" gorm:"not null;index:idx_compositions_ingredient"`
	Quantity     string    `json:"quantity"      gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at"`

	Dish       *Dish       `json:"-" gorm:"foreignKey:DishID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Ingredient *Ingredient `json:"-" gorm:"foreignKey:IngredientID;references:ID"`
}

// TableName returns the database table name for Composition.
func (Composition) TableName() string { return "compositions" }

// User is an account able to author dishes. PasswordHash holds a bcrypt
// digest and is never serialized.
//
// Fields:
//   - Surname / FirstName: "nom" and "prenom" in forms.
//   - Login: unique identifier used to sign in (max 45 chars).
//   - Email: unique contact address.
type User struct {
	ID           uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Surname      string    `json:"surname"    gorm:"type:text;not null"`
	FirstName    string    `json:"first_name" gorm:"type:text;not null"`
	Login        string    `json:"login"      gorm:"type:varchar(45);not null;uniqueIndex:ux_users_login"`
	Email        string    `json:"email"      gorm:"type:text;not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(64);not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// DisplayName is the name shown for a user in authorship listings.
func (u User) DisplayName() string {
	if u.FirstName == "" {
		return u.Surname
	}
	return u.FirstName + " " + u.Surname
}

// Authorship actions.
const (
	ActionCreate = "creation"
	ActionUpdate = "modification"
	ActionDelete = "suppression"
)

// Authorship records which user performed which action on which dish, and
// when. Rows are append-only. When the dish is deleted DishID becomes NULL
// and DishName keeps the record readable.
type Authorship struct {
	ID       uint      `json:"id"        gorm:"primaryKey;autoIncrement"`
	DishID   *uint     `json:"dish_id"   gorm:"index:idx_authorships_dish"`
	DishName string    `json:"dish_name" gorm:"type:text;not null;default:''"`
	UserID   uint      `json:"user_id"   gorm:"not null;index:idx_authorships_user"`
	Action   string    `json:"action"    gorm:"type:varchar(16);not null"`
	At       time.Time `json:"at"        gorm:"not null;autoCreateTime"`

	Dish *Dish `json:"-"              gorm:"foreignKey:DishID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the database table name for Authorship.
func (Authorship) TableName() string { return "authorships" }

// Models lists every persisted model, in migration order.
func Models() []any {
	return []any{&Dish{}, &Ingredient{}, &User{}, &Composition{}, &Authorship{}}
}
