package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/batchpricer/internal/models"
	"github.com/mmynk/batchpricer/internal/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const recipeColumns = `id, name, total_cost, batch_yield, batch_unit, servings, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	err := row.Scan(&recipe.ID, &recipe.Name, &recipe.TotalCost, &recipe.BatchYield, &recipe.BatchUnit,
		&recipe.Servings, &recipe.CreatedBy, &recipe.CreatedAt, &recipe.UpdatedAt)
	return recipe, err
}

// CreateRecipe persists a new recipe with its selling units.
func (s *SQLiteStore) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = s.ids.NewID()
	}
	now := time.Now().Unix()
	if recipe.CreatedAt == 0 {
		recipe.CreatedAt = now
	}
	if recipe.UpdatedAt == 0 {
		recipe.UpdatedAt = recipe.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recipes (`+recipeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID, recipe.Name, recipe.TotalCost, recipe.BatchYield, recipe.BatchUnit,
		recipe.Servings, recipe.CreatedBy, recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	if err := insertSellingUnits(ctx, tx, recipe.ID, recipe.SellingUnits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRecipe retrieves a recipe by ID, including its selling units in order.
func (s *SQLiteStore) GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error) {
	return getRecipe(ctx, s.db, recipeID)
}

// ListRecipes retrieves all recipes with their selling units, newest first.
func (s *SQLiteStore) ListRecipes(ctx context.Context) ([]*models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY created_at DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	// The pool has one connection; release it before loading units.
	rows.Close()

	for _, recipe := range recipes {
		units, err := sellingUnits(ctx, s.db, recipe.ID)
		if err != nil {
			return nil, err
		}
		recipe.SellingUnits = units
	}

	return recipes, nil
}

// UpdateRecipe applies a partial update in a single transaction.
func (s *SQLiteStore) UpdateRecipe(ctx context.Context, recipeID string, patch models.RecipePatch) error {
	return s.MutateRecipe(ctx, recipeID, func(*models.Recipe) (models.RecipePatch, bool) {
		return patch, true
	})
}

// MutateRecipe reads the recipe and writes fn's patch inside one transaction.
// The store keeps a single connection, so the transaction also excludes every
// other reader and writer until it ends.
func (s *SQLiteStore) MutateRecipe(ctx context.Context, recipeID string, fn storage.MutateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	recipe, err := getRecipe(ctx, tx, recipeID)
	if err != nil {
		return err
	}

	patch, write := fn(recipe)
	if !write {
		return nil
	}

	if err := applyPatch(ctx, tx, recipe, patch); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteRecipe removes a recipe; its selling units are removed by cascade.
func (s *SQLiteStore) DeleteRecipe(ctx context.Context, recipeID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", recipeID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: recipe %s", storage.ErrNotFound, recipeID)
	}

	return nil
}

func getRecipe(ctx context.Context, q querier, recipeID string) (*models.Recipe, error) {
	recipe, err := scanRecipe(q.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`,
		recipeID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: recipe %s", storage.ErrNotFound, recipeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	units, err := sellingUnits(ctx, q, recipeID)
	if err != nil {
		return nil, err
	}
	recipe.SellingUnits = units

	return recipe, nil
}

// applyPatch merges patch into recipe and writes the result.
func applyPatch(ctx context.Context, tx *sql.Tx, recipe *models.Recipe, patch models.RecipePatch) error {
	if patch.Name != nil {
		recipe.Name = *patch.Name
	}
	if patch.TotalCost != nil {
		recipe.TotalCost = *patch.TotalCost
	}
	if patch.Servings != nil {
		recipe.Servings = *patch.Servings
	}
	if patch.BatchYield != nil {
		recipe.BatchYield = *patch.BatchYield
	}
	if patch.BatchUnit != nil {
		recipe.BatchUnit = *patch.BatchUnit
	}
	recipe.UpdatedAt = time.Now().Unix()

	_, err := tx.ExecContext(ctx,
		`UPDATE recipes
		 SET name = ?, total_cost = ?, batch_yield = ?, batch_unit = ?, servings = ?, updated_at = ?
		 WHERE id = ?`,
		recipe.Name, recipe.TotalCost, recipe.BatchYield, recipe.BatchUnit, recipe.Servings,
		recipe.UpdatedAt, recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if patch.SellingUnits != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM selling_units WHERE recipe_id = ?", recipe.ID); err != nil {
			return fmt.Errorf("failed to clear selling units: %w", err)
		}
		if err := insertSellingUnits(ctx, tx, recipe.ID, *patch.SellingUnits); err != nil {
			return err
		}
	}

	return nil
}

func insertSellingUnits(ctx context.Context, tx *sql.Tx, recipeID string, units []models.SellingUnit) error {
	for i, unit := range units {
		var price sql.NullFloat64
		if unit.PriceOverride != nil {
			price = sql.NullFloat64{Float64: *unit.PriceOverride, Valid: true}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO selling_units (recipe_id, id, position, name, quantity, unit, price_override, is_default)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			recipeID, unit.ID, i, unit.Name, unit.Quantity, unit.Unit, price, unit.IsDefault,
		)
		if err != nil {
			return fmt.Errorf("failed to insert selling unit %s: %w", unit.ID, err)
		}
	}
	return nil
}

func sellingUnits(ctx context.Context, q querier, recipeID string) ([]models.SellingUnit, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, quantity, unit, price_override, is_default
		 FROM selling_units WHERE recipe_id = ? ORDER BY position`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get selling units: %w", err)
	}
	defer rows.Close()

	units := []models.SellingUnit{}
	for rows.Next() {
		var unit models.SellingUnit
		var price sql.NullFloat64
		if err := rows.Scan(&unit.ID, &unit.Name, &unit.Quantity, &unit.Unit, &price, &unit.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan selling unit: %w", err)
		}
		if price.Valid {
			p := price.Float64
			unit.PriceOverride = &p
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selling units: %w", err)
	}

	return units, nil
}
