package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/batchpricer/internal/calculator"
	"github.com/mmynk/batchpricer/internal/models"
	"github.com/mmynk/batchpricer/internal/sellingunit"
	"github.com/mmynk/batchpricer/internal/storage"
)

// SellingUnitService implements the Connect SellingUnitService on top of the
// selling-unit engine. It validates user input before any mutation reaches the engine.
type SellingUnitService struct {
	store         storage.RecipeStore
	engine        *sellingunit.Engine
	defaultMarkup calculator.Strategy
}

// NewSellingUnitService creates a new SellingUnitService.
func NewSellingUnitService(store storage.RecipeStore, engine *sellingunit.Engine, defaultMarkup calculator.Strategy) *SellingUnitService {
	return &SellingUnitService{
		store:         store,
		engine:        engine,
		defaultMarkup: defaultMarkup,
	}
}

// GetSellingUnitsWithPricing prices every selling unit of a recipe.
func (s *SellingUnitService) GetSellingUnitsWithPricing(ctx context.Context, req *connect.Request[GetSellingUnitsWithPricingRequest]) (*connect.Response[GetSellingUnitsWithPricingResponse], error) {
	slog.Info("GetSellingUnitsWithPricing request received", "recipe_id", req.Msg.RecipeID)

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

	return connect.NewResponse(&GetSellingUnitsWithPricingResponse{
		Units:  priced,
		Markup: markup,
	}), nil
}

// AddSellingUnit validates and appends a selling unit.
func (s *SellingUnitService) AddSellingUnit(ctx context.Context, req *connect.Request[AddSellingUnitRequest]) (*connect.Response[AddSellingUnitResponse], error) {
	msg := req.Msg
	slog.Info("AddSellingUnit request received", "recipe_id", msg.RecipeID, "name", msg.Unit.Name)

	recipe, err := getRecipe(ctx, s.store, msg.RecipeID)
	if err != nil {
		return nil, err
	}

	data := msg.Unit.model()
	data.Name = strings.TrimSpace(data.Name)
	if err := invalid(sellingunit.Validate(data, sellingunit.YieldOf(recipe))); err != nil {
		return nil, err
	}
	if err := s.checkPriceable(recipe, data); err != nil {
		return nil, err
	}

	unit, err := s.engine.AddSellingUnit(ctx, msg.RecipeID, data)
	if err != nil {
		slog.Error("AddSellingUnit failed", "recipe_id", msg.RecipeID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if unit == nil {
		return nil, recipeNotFound(msg.RecipeID)
	}

	slog.Info("Selling unit added", "recipe_id", msg.RecipeID, "unit_id", unit.ID)

	return connect.NewResponse(&AddSellingUnitResponse{Unit: toSellingUnit(*unit)}), nil
}

// UpdateSellingUnit validates the merged unit and applies the update.
func (s *SellingUnitService) UpdateSellingUnit(ctx context.Context, req *connect.Request[UpdateSellingUnitRequest]) (*connect.Response[UpdateSellingUnitResponse], error) {
	msg := req.Msg
	slog.Info("UpdateSellingUnit request received", "recipe_id", msg.RecipeID, "unit_id", msg.UnitID)

	recipe, err := getRecipe(ctx, s.store, msg.RecipeID)
	if err != nil {
		return nil, err
	}
	idx := recipe.FindSellingUnit(msg.UnitID)
	if idx < 0 {
		return nil, unitNotFound(msg.RecipeID, msg.UnitID)
	}

	updates := msg.update()
	if updates.Name != nil {
		name := strings.TrimSpace(*updates.Name)
		updates.Name = &name
	}
	merged := updates.Apply(recipe.SellingUnits[idx])
	if err := invalid(sellingunit.Validate(merged, sellingunit.YieldOf(recipe))); err != nil {
		return nil, err
	}
	if err := s.checkPriceable(recipe, merged); err != nil {
		return nil, err
	}

	ok, err := s.engine.UpdateSellingUnit(ctx, msg.RecipeID, msg.UnitID, updates)
	if err != nil {
		slog.Error("UpdateSellingUnit failed", "recipe_id", msg.RecipeID, "unit_id", msg.UnitID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if !ok {
		return nil, unitNotFound(msg.RecipeID, msg.UnitID)
	}

	updated, err := getRecipe(ctx, s.store, msg.RecipeID)
	if err != nil {
		return nil, err
	}
	idx = updated.FindSellingUnit(msg.UnitID)
	if idx < 0 {
		return nil, unitNotFound(msg.RecipeID, msg.UnitID)
	}

	slog.Info("Selling unit updated", "recipe_id", msg.RecipeID, "unit_id", msg.UnitID)

	return connect.NewResponse(&UpdateSellingUnitResponse{Unit: toSellingUnit(updated.SellingUnits[idx])}), nil
}

// RemoveSellingUnit deletes a selling unit. Removing an unknown unit succeeds.
func (s *SellingUnitService) RemoveSellingUnit(ctx context.Context, req *connect.Request[RemoveSellingUnitRequest]) (*connect.Response[RemoveSellingUnitResponse], error) {
	msg := req.Msg
	slog.Info("RemoveSellingUnit request received", "recipe_id", msg.RecipeID, "unit_id", msg.UnitID)

	ok, err := s.engine.RemoveSellingUnit(ctx, msg.RecipeID, msg.UnitID)
	if err != nil {
		slog.Error("RemoveSellingUnit failed", "recipe_id", msg.RecipeID, "unit_id", msg.UnitID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if !ok {
		return nil, recipeNotFound(msg.RecipeID)
	}

	return connect.NewResponse(&RemoveSellingUnitResponse{}), nil
}

// SetBatchYield records a recipe's batch yield and unit.
func (s *SellingUnitService) SetBatchYield(ctx context.Context, req *connect.Request[SetBatchYieldRequest]) (*connect.Response[SetBatchYieldResponse], error) {
	msg := req.Msg
	slog.Info("SetBatchYield request received", "recipe_id", msg.RecipeID, "yield", msg.BatchYield, "batch_unit", msg.BatchUnit)

	if err := validateYield(msg.BatchYield); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	ok, err := s.engine.SetBatchYield(ctx, msg.RecipeID, msg.BatchYield, strings.TrimSpace(msg.BatchUnit))
	if err != nil {
		slog.Error("SetBatchYield failed", "recipe_id", msg.RecipeID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if !ok {
		return nil, recipeNotFound(msg.RecipeID)
	}

	recipe, err := getRecipe(ctx, s.store, msg.RecipeID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&SetBatchYieldResponse{Recipe: toRecipe(recipe)}), nil
}

// InitializeBatchSizes sets the batch yield and replaces the recipe's selling
// units with presets for the batch unit.
func (s *SellingUnitService) InitializeBatchSizes(ctx context.Context, req *connect.Request[InitializeBatchSizesRequest]) (*connect.Response[InitializeBatchSizesResponse], error) {
	msg := req.Msg
	slog.Info("InitializeBatchSizes request received", "recipe_id", msg.RecipeID, "yield", msg.BatchYield, "batch_unit", msg.BatchUnit)

	if err := validateYield(msg.BatchYield); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	recipe, err := getRecipe(ctx, s.store, msg.RecipeID)
	if err != nil {
		return nil, err
	}
	if len(recipe.SellingUnits) > 0 && !msg.ConfirmReplace {
		slog.Warn("InitializeBatchSizes refused - recipe has selling units",
			"recipe_id", msg.RecipeID,
			"units", len(recipe.SellingUnits),
		)
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("recipe %s already has %d selling units; set confirmReplace to replace them", msg.RecipeID, len(recipe.SellingUnits)))
	}

	ok, err := s.engine.InitializeBatchSizes(ctx, msg.RecipeID, msg.BatchYield, strings.TrimSpace(msg.BatchUnit))
	if err != nil {
		slog.Error("InitializeBatchSizes failed", "recipe_id", msg.RecipeID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if !ok {
		return nil, recipeNotFound(msg.RecipeID)
	}

	recipe, err = getRecipe(ctx, s.store, msg.RecipeID)
	if err != nil {
		return nil, err
	}

	slog.Info("Batch sizes initialized", "recipe_id", msg.RecipeID, "units", len(recipe.SellingUnits))

	return connect.NewResponse(&InitializeBatchSizesResponse{Recipe: toRecipe(recipe)}), nil
}

// CalculateBatchesNeeded returns how many whole batches cover an order.
func (s *SellingUnitService) CalculateBatchesNeeded(ctx context.Context, req *connect.Request[CalculateBatchesNeededRequest]) (*connect.Response[CalculateBatchesNeededResponse], error) {
	msg := req.Msg

	if msg.OrderQuantity < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("order quantity cannot be negative"))
	}

	recipe, err := getRecipe(ctx, s.store, msg.RecipeID)
	if err != nil {
		return nil, err
	}

	quantity := msg.Quantity
	if msg.UnitID != "" {
		idx := recipe.FindSellingUnit(msg.UnitID)
		if idx < 0 {
			return nil, unitNotFound(msg.RecipeID, msg.UnitID)
		}
		quantity = recipe.SellingUnits[idx].Quantity
	}
	if !(quantity > 0) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("unit quantity must be greater than zero"))
	}

	if required := sellingunit.BatchesRequired(recipe, quantity, msg.OrderQuantity); !(required <= maxBatches) {
		slog.Warn("CalculateBatchesNeeded refused - order too large",
			"recipe_id", msg.RecipeID,
			"unit_quantity", quantity,
			"order_quantity", msg.OrderQuantity,
		)
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("order needs more than %d batches", maxBatches))
	}

	batches := sellingunit.BatchesNeeded(recipe, quantity, msg.OrderQuantity)
	slog.Info("CalculateBatchesNeeded successful",
		"recipe_id", msg.RecipeID,
		"unit_quantity", quantity,
		"order_quantity", msg.OrderQuantity,
		"batches", batches,
	)

	return connect.NewResponse(&CalculateBatchesNeededResponse{Batches: batches}), nil
}

// PreviewDefaultSellingUnits returns the presets for a batch unit without saving them.
func (s *SellingUnitService) PreviewDefaultSellingUnits(ctx context.Context, req *connect.Request[PreviewDefaultSellingUnitsRequest]) (*connect.Response[PreviewDefaultSellingUnitsResponse], error) {
	units := s.engine.DefaultSellingUnits(req.Msg.BatchUnit)
	return connect.NewResponse(&PreviewDefaultSellingUnitsResponse{Units: toSellingUnits(units)}), nil
}

// ValidateSellingUnit reports every rule a candidate unit breaks.
func (s *SellingUnitService) ValidateSellingUnit(ctx context.Context, req *connect.Request[ValidateSellingUnitRequest]) (*connect.Response[ValidateSellingUnitResponse], error) {
	msg := req.Msg

	yield := msg.BatchYield
	if msg.RecipeID != "" {
		recipe, err := getRecipe(ctx, s.store, msg.RecipeID)
		if err != nil {
			return nil, err
		}
		yield = sellingunit.YieldOf(recipe)
	}

	result := sellingunit.Validate(msg.Unit.model(), yield)
	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	return connect.NewResponse(&ValidateSellingUnitResponse{Valid: result.Valid, Errors: errs}), nil
}

// ListPricingStrategies returns the markup presets and the server default.
func (s *SellingUnitService) ListPricingStrategies(ctx context.Context, req *connect.Request[ListPricingStrategiesRequest]) (*connect.Response[ListPricingStrategiesResponse], error) {
	return connect.NewResponse(&ListPricingStrategiesResponse{
		Strategies: toStrategies(calculator.Strategies()),
		Default:    s.defaultMarkup.Name,
	}), nil
}

// maxBatches caps CalculateBatchesNeeded so the count always fits the wire int.
const maxBatches = 1_000_000_000

// checkPriceable rejects a unit whose figures would overflow at the default markup.
func (s *SellingUnitService) checkPriceable(recipe *models.Recipe, unit models.SellingUnit) error {
	if sellingunit.Finite(sellingunit.PriceUnit(recipe, unit, s.defaultMarkup.Multiplier)) {
		return nil
	}
	return connect.NewError(connect.CodeInvalidArgument,
		fmt.Errorf("selling unit %q prices out of range for recipe %s", unit.Name, recipe.ID))
}

func invalid(result sellingunit.ValidationResult) error {
	if result.Valid {
		return nil
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(result.Errors, "; ")))
}

func recipeNotFound(recipeID string) error {
	slog.Warn("Recipe not found", "recipe_id", recipeID)
	return connect.NewError(connect.CodeNotFound, fmt.Errorf("recipe %s not found", recipeID))
}

func unitNotFound(recipeID, unitID string) error {
	slog.Warn("Selling unit not found", "recipe_id", recipeID, "unit_id", unitID)
	return connect.NewError(connect.CodeNotFound, fmt.Errorf("selling unit %s not found in recipe %s", unitID, recipeID))
}
