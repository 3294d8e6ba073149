package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/batchpricer/internal/calculator"
	"github.com/mmynk/batchpricer/internal/middleware"
	"github.com/mmynk/batchpricer/internal/models"
	"github.com/mmynk/batchpricer/internal/sellingunit"
	"github.com/mmynk/batchpricer/internal/storage"
)

// RecipeService implements the Connect RecipeService.
// It owns the recipe records the selling-unit engine reads and writes.
type RecipeService struct {
	store         storage.RecipeStore
	defaultMarkup calculator.Strategy
}

// NewRecipeService creates a new RecipeService with the given storage backend.
func NewRecipeService(store storage.RecipeStore, defaultMarkup calculator.Strategy) *RecipeService {
	return &RecipeService{store: store, defaultMarkup: defaultMarkup}
}

// CreateRecipe creates a recipe with no selling units.
func (s *RecipeService) CreateRecipe(ctx context.Context, req *connect.Request[CreateRecipeRequest]) (*connect.Response[CreateRecipeResponse], error) {
	msg := req.Msg
	slog.Info("CreateRecipe request received", "name", msg.Name, "total_cost", msg.TotalCost)

	if err := validateRecipeFields(&msg.Name, &msg.TotalCost, &msg.Servings); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := validateYield(msg.BatchYield); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	recipe := &models.Recipe{
		Name:         strings.TrimSpace(msg.Name),
		TotalCost:    msg.TotalCost,
		Servings:     msg.Servings,
		BatchYield:   msg.BatchYield,
		BatchUnit:    strings.TrimSpace(msg.BatchUnit),
		CreatedBy:    middleware.OperatorID(ctx),
		SellingUnits: []models.SellingUnit{},
	}
	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		slog.Error("CreateRecipe failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Recipe created", "recipe_id", recipe.ID, "created_by", recipe.CreatedBy)

	return connect.NewResponse(&CreateRecipeResponse{Recipe: toRecipe(recipe)}), nil
}

// GetRecipe retrieves a recipe with its selling units priced at the requested markup.
func (s *RecipeService) GetRecipe(ctx context.Context, req *connect.Request[GetRecipeRequest]) (*connect.Response[GetRecipeResponse], error) {
	slog.Info("GetRecipe request received", "recipe_id", req.Msg.RecipeID)

	markup, err := resolveMarkup(req.Msg.Pricing, s.defaultMarkup)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	recipe, err := getRecipe(ctx, s.store, req.Msg.RecipeID)
	if err != nil {
		return nil, err
	}

	priced, err := pricedUnits(recipe, markup)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&GetRecipeResponse{
		Recipe:      toRecipe(recipe),
		PricedUnits: priced,
		Markup:      markup,
	}), nil
}

// ListRecipes retrieves all recipes.
func (s *RecipeService) ListRecipes(ctx context.Context, req *connect.Request[ListRecipesRequest]) (*connect.Response[ListRecipesResponse], error) {
	slog.Info("ListRecipes request received")

	recipes, err := s.store.ListRecipes(ctx)
	if err != nil {
		slog.Error("ListRecipes failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = toRecipe(r)
	}

	slog.Info("ListRecipes successful", "count", len(out))

	return connect.NewResponse(&ListRecipesResponse{Recipes: out}), nil
}

// UpdateRecipe changes a recipe's name, total cost or servings.
// Batch yield and selling units are managed by the SellingUnitService.
func (s *RecipeService) UpdateRecipe(ctx context.Context, req *connect.Request[UpdateRecipeRequest]) (*connect.Response[UpdateRecipeResponse], error) {
	msg := req.Msg
	slog.Info("UpdateRecipe request received", "recipe_id", msg.RecipeID)

	if err := validateRecipeFields(msg.Name, msg.TotalCost, msg.Servings); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	patch := models.RecipePatch{
		TotalCost: msg.TotalCost,
		Servings:  msg.Servings,
	}
	if msg.Name != nil {
		name := strings.TrimSpace(*msg.Name)
		patch.Name = &name
	}

	if err := s.store.UpdateRecipe(ctx, msg.RecipeID, patch); err != nil {
		return nil, storeError("UpdateRecipe", msg.RecipeID, err)
	}

	recipe, err := getRecipe(ctx, s.store, msg.RecipeID)
	if err != nil {
		return nil, err
	}

	slog.Info("Recipe updated", "recipe_id", recipe.ID)

	return connect.NewResponse(&UpdateRecipeResponse{Recipe: toRecipe(recipe)}), nil
}

// DeleteRecipe removes a recipe and its selling units.
func (s *RecipeService) DeleteRecipe(ctx context.Context, req *connect.Request[DeleteRecipeRequest]) (*connect.Response[DeleteRecipeResponse], error) {
	slog.Info("DeleteRecipe request received", "recipe_id", req.Msg.RecipeID)

	if err := s.store.DeleteRecipe(ctx, req.Msg.RecipeID); err != nil {
		return nil, storeError("DeleteRecipe", req.Msg.RecipeID, err)
	}

	slog.Info("Recipe deleted", "recipe_id", req.Msg.RecipeID)

	return connect.NewResponse(&DeleteRecipeResponse{}), nil
}

// Upper bounds on caller-supplied amounts, far above any real batch, that keep
// every derived price finite.
const (
	maxTotalCost = 1e12
	maxMarkup    = 1000
)

var (
	errNameRequired  = errors.New("name is required")
	errNegativeCost  = errors.New("total cost cannot be negative")
	errCostTooLarge  = fmt.Errorf("total cost cannot exceed %g", float64(maxTotalCost))
	errNegativeServe = errors.New("servings cannot be negative")
	errNegativeYield = errors.New("batch yield cannot be negative")
)

// validateRecipeFields checks the fields that are set.
func validateRecipeFields(name *string, totalCost *float64, servings *int) error {
	if name != nil && strings.TrimSpace(*name) == "" {
		return errNameRequired
	}
	if totalCost != nil && *totalCost < 0 {
		return errNegativeCost
	}
	if totalCost != nil && !(*totalCost <= maxTotalCost) {
		return errCostTooLarge
	}
	if servings != nil && *servings < 0 {
		return errNegativeServe
	}
	return nil
}

// getRecipe loads a recipe and maps storage errors to Connect errors.
func getRecipe(ctx context.Context, store storage.RecipeStore, recipeID string) (*models.Recipe, error) {
	if recipeID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("recipe_id required"))
	}
	recipe, err := store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, storeError("GetRecipe", recipeID, err)
	}
	return recipe, nil
}

func storeError(op, recipeID string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn(op+" failed - recipe not found", "recipe_id", recipeID)
		return connect.NewError(connect.CodeNotFound, fmt.Errorf("recipe %s not found", recipeID))
	}
	slog.Error(op+" failed", "recipe_id", recipeID, "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

func validateYield(yield float64) error {
	if yield < 0 {
		return errNegativeYield
	}
	return nil
}

// pricedUnits prices a recipe's units for the wire. Figures that overflow
// cannot be encoded, so they are reported instead of returned.
func pricedUnits(recipe *models.Recipe, markup float64) ([]PricedSellingUnit, error) {
	priced := sellingunit.WithPricing(recipe, markup)
	for _, p := range priced {
		if !sellingunit.Finite(p) {
			slog.Warn("Pricing out of range", "recipe_id", recipe.ID, "unit_id", p.ID, "markup", markup)
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("selling unit %s of recipe %s prices out of range at markup %g", p.ID, recipe.ID, markup))
		}
	}
	return toPricedUnits(priced), nil
}

// resolveMarkup picks the markup multiplier for a pricing request.
func resolveMarkup(p Pricing, fallback calculator.Strategy) (float64, error) {
	if p.Markup < 0 {
		return 0, fmt.Errorf("markup cannot be negative")
	}
	if p.Markup > maxMarkup || math.IsNaN(p.Markup) {
		return 0, fmt.Errorf("markup cannot exceed %d", maxMarkup)
	}
	if p.Markup > 0 {
		return p.Markup, nil
	}
	if p.Strategy != "" {
		s, ok := calculator.StrategyByName(p.Strategy)
		if !ok {
			return 0, fmt.Errorf("unknown pricing strategy %q", p.Strategy)
		}
		return s.Multiplier, nil
	}
	return fallback.Multiplier, nil
}
