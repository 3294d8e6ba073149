// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/batchpricer/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// MutateFunc computes the patch for a recipe from its current state.
// Returning false leaves the recipe untouched.
type MutateFunc func(recipe *models.Recipe) (models.RecipePatch, bool)

// RecipeStore defines the recipe persistence operations.
// The store is the single source of truth for recipes and the only place
// concurrent edits to the same recipe are serialized.
type RecipeStore interface {
	// CreateRecipe persists a new recipe.
	// The recipe.ID, CreatedAt and UpdatedAt fields are populated by the store when empty.
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error

	// GetRecipe retrieves a recipe with its selling units in display order.
	// Returns an error wrapping ErrNotFound if the recipe does not exist.
	GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error)

	// ListRecipes retrieves all recipes, newest first.
	ListRecipes(ctx context.Context) ([]*models.Recipe, error)

	// UpdateRecipe applies a partial update atomically: either every field in the
	// patch is persisted or none is.
	// Returns an error wrapping ErrNotFound if the recipe does not exist.
	UpdateRecipe(ctx context.Context, recipeID string, patch models.RecipePatch) error

	// MutateRecipe loads a recipe, passes it to fn and writes the returned patch,
	// all in one transaction. Two mutations of the same recipe never interleave,
	// so neither can overwrite the other's selling units.
	// Returns an error wrapping ErrNotFound if the recipe does not exist; fn is
	// not called in that case.
	MutateRecipe(ctx context.Context, recipeID string, fn MutateFunc) error

	// DeleteRecipe removes a recipe and its selling units.
	// Returns an error wrapping ErrNotFound if the recipe does not exist.
	DeleteRecipe(ctx context.Context, recipeID string) error
}

// UserStore defines operator account persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error when no user has the ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the full storage backend.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	RecipeStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
