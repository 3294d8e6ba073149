// Package sellingunit turns a recipe's batch cost and yield into priced selling
// units, and manages the recipe's list of units.
//
// Reads are pure functions over a loaded recipe (WithPricing, BatchesNeeded,
// Validate). Mutations go through an Engine, which hands the store a function
// that computes the new unit list from the current recipe. The store runs the
// read and the write as one unit. The Engine holds no state of its own.
package sellingunit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/batchpricer/internal/models"
	"github.com/mmynk/batchpricer/internal/storage"
)

// RecipeStore is the recipe persistence the Engine mutates.
type RecipeStore interface {
	// MutateRecipe returns an error wrapping storage.ErrNotFound for unknown recipes.
	MutateRecipe(ctx context.Context, recipeID string, fn storage.MutateFunc) error
}

// IDGenerator produces unique identifiers for new selling units.
type IDGenerator interface {
	NewID() string
}

// Recorder observes the outcome of each mutation.
type Recorder interface {
	RecordMutation(operation, result string)
}

// Mutation outcomes passed to a Recorder.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Engine applies selling-unit mutations to recipes held in a RecipeStore.
type Engine struct {
	store    RecipeStore
	ids      IDGenerator
	recorder Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder reports every mutation outcome to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// NewEngine creates an Engine over the given store and ID generator.
func NewEngine(store RecipeStore, ids IDGenerator, opts ...Option) *Engine {
	e := &Engine{store: store, ids: ids}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultSellingUnits builds preset units for batchUnit using the engine's ID generator.
func (e *Engine) DefaultSellingUnits(batchUnit string) []models.SellingUnit {
	return DefaultSellingUnits(e.ids, batchUnit)
}

// AddSellingUnit appends a new unit to the recipe and returns it with its assigned ID.
// If the new unit is the default, every other unit loses its default flag.
// Returns nil and no error when the recipe does not exist.
func (e *Engine) AddSellingUnit(ctx context.Context, recipeID string, data models.SellingUnit) (*models.SellingUnit, error) {
	const op = "add"

	unit := data
	unit.ID = e.ids.NewID()
	if data.PriceOverride != nil {
		price := *data.PriceOverride
		unit.PriceOverride = &price
	}

	found, err := e.mutate(ctx, recipeID, func(recipe *models.Recipe) (models.RecipePatch, bool) {
		units := append(cloneUnits(recipe.SellingUnits), unit)
		if unit.IsDefault {
			markDefault(units, len(units)-1)
		}
		return models.RecipePatch{SellingUnits: &units}, true
	})
	e.recordResult(op, found, err)
	if err != nil || !found {
		return nil, err
	}

	slog.Debug("Selling unit added",
		"recipe_id", recipeID,
		"unit_id", unit.ID,
		"name", unit.Name,
		"is_default", unit.IsDefault,
	)
	return &unit, nil
}

// UpdateSellingUnit merges updates into an existing unit. Setting IsDefault to
// true clears the flag on every sibling.
// Returns false when the recipe or the unit does not exist.
func (e *Engine) UpdateSellingUnit(ctx context.Context, recipeID, unitID string, updates models.SellingUnitUpdate) (bool, error) {
	const op = "update"

	unitFound := false
	found, err := e.mutate(ctx, recipeID, func(recipe *models.Recipe) (models.RecipePatch, bool) {
		idx := recipe.FindSellingUnit(unitID)
		if idx < 0 {
			return models.RecipePatch{}, false
		}
		unitFound = true

		units := cloneUnits(recipe.SellingUnits)
		units[idx] = updates.Apply(units[idx])
		if updates.IsDefault != nil && *updates.IsDefault {
			markDefault(units, idx)
		}
		return models.RecipePatch{SellingUnits: &units}, true
	})
	found = found && unitFound
	e.recordResult(op, found, err)
	if err == nil && found {
		slog.Debug("Selling unit updated", "recipe_id", recipeID, "unit_id", unitID)
	}
	return found, err
}

// RemoveSellingUnit deletes a unit from the recipe. When the removed unit was the
// default and other units remain, the first remaining unit becomes the default.
// Removing an unknown unit from an existing recipe is a no-op that returns true.
// Returns false when the recipe does not exist.
func (e *Engine) RemoveSellingUnit(ctx context.Context, recipeID, unitID string) (bool, error) {
	const op = "remove"

	remaining := -1
	found, err := e.mutate(ctx, recipeID, func(recipe *models.Recipe) (models.RecipePatch, bool) {
		idx := recipe.FindSellingUnit(unitID)
		if idx < 0 {
			return models.RecipePatch{}, false
		}

		wasDefault := recipe.SellingUnits[idx].IsDefault
		units := cloneUnits(recipe.SellingUnits)
		units = append(units[:idx], units[idx+1:]...)
		if wasDefault {
			ensureDefault(units)
		}
		remaining = len(units)
		return models.RecipePatch{SellingUnits: &units}, true
	})
	e.recordResult(op, found, err)
	if err == nil && found && remaining >= 0 {
		slog.Debug("Selling unit removed",
			"recipe_id", recipeID,
			"unit_id", unitID,
			"remaining", remaining,
		)
	}
	return found, err
}

// SetBatchYield sets the recipe's batch yield and unit. Existing selling units are
// neither rescaled nor revalidated.
// Returns false when the recipe does not exist.
func (e *Engine) SetBatchYield(ctx context.Context, recipeID string, yield float64, batchUnit string) (bool, error) {
	const op = "set_batch_yield"

	found, err := e.mutate(ctx, recipeID, func(*models.Recipe) (models.RecipePatch, bool) {
		return models.RecipePatch{
			BatchYield: &yield,
			BatchUnit:  &batchUnit,
		}, true
	})
	e.recordResult(op, found, err)
	if err == nil && found {
		slog.Debug("Batch yield set", "recipe_id", recipeID, "yield", yield, "batch_unit", batchUnit)
	}
	return found, err
}

// InitializeBatchSizes sets the batch yield and unit and replaces every selling
// unit with the presets for batchUnit. Previously configured units are discarded.
// Returns false when the recipe does not exist.
func (e *Engine) InitializeBatchSizes(ctx context.Context, recipeID string, yield float64, batchUnit string) (bool, error) {
	const op = "initialize"

	units := e.DefaultSellingUnits(batchUnit)
	discarded := 0
	found, err := e.mutate(ctx, recipeID, func(recipe *models.Recipe) (models.RecipePatch, bool) {
		discarded = len(recipe.SellingUnits)
		return models.RecipePatch{
			BatchYield:   &yield,
			BatchUnit:    &batchUnit,
			SellingUnits: &units,
		}, true
	})
	e.recordResult(op, found, err)
	if err == nil && found {
		slog.Debug("Batch sizes initialized",
			"recipe_id", recipeID,
			"yield", yield,
			"batch_unit", batchUnit,
			"discarded_units", discarded,
		)
	}
	return found, err
}

// mutate runs fn against the stored recipe, reporting false when it does not exist.
func (e *Engine) mutate(ctx context.Context, recipeID string, fn storage.MutateFunc) (bool, error) {
	err := e.store.MutateRecipe(ctx, recipeID, fn)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update recipe %s: %w", recipeID, err)
	}
	return true, nil
}

func (e *Engine) recordResult(op string, found bool, err error) {
	if e.recorder == nil {
		return
	}
	switch {
	case err != nil:
		e.recorder.RecordMutation(op, ResultError)
	case !found:
		e.recorder.RecordMutation(op, ResultNotFound)
	default:
		e.recorder.RecordMutation(op, ResultOK)
	}
}
