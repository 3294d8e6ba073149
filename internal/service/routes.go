package service

import (
	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
)

// Register mounts every RecipeService procedure on r.
func (s *RecipeService) Register(r chi.Router, opts ...connect.HandlerOption) {
	opts = handlerOptions(opts)
	r.Handle(CreateRecipeProcedure, connect.NewUnaryHandler(CreateRecipeProcedure, s.CreateRecipe, opts...))
	r.Handle(GetRecipeProcedure, connect.NewUnaryHandler(GetRecipeProcedure, s.GetRecipe, opts...))
	r.Handle(ListRecipesProcedure, connect.NewUnaryHandler(ListRecipesProcedure, s.ListRecipes, opts...))
	r.Handle(UpdateRecipeProcedure, connect.NewUnaryHandler(UpdateRecipeProcedure, s.UpdateRecipe, opts...))
	r.Handle(DeleteRecipeProcedure, connect.NewUnaryHandler(DeleteRecipeProcedure, s.DeleteRecipe, opts...))
}

// Register mounts every SellingUnitService procedure on r.
func (s *SellingUnitService) Register(r chi.Router, opts ...connect.HandlerOption) {
	opts = handlerOptions(opts)
	r.Handle(GetSellingUnitsWithPricingProcedure, connect.NewUnaryHandler(GetSellingUnitsWithPricingProcedure, s.GetSellingUnitsWithPricing, opts...))
	r.Handle(AddSellingUnitProcedure, connect.NewUnaryHandler(AddSellingUnitProcedure, s.AddSellingUnit, opts...))
	r.Handle(UpdateSellingUnitProcedure, connect.NewUnaryHandler(UpdateSellingUnitProcedure, s.UpdateSellingUnit, opts...))
	r.Handle(RemoveSellingUnitProcedure, connect.NewUnaryHandler(RemoveSellingUnitProcedure, s.RemoveSellingUnit, opts...))
	r.Handle(SetBatchYieldProcedure, connect.NewUnaryHandler(SetBatchYieldProcedure, s.SetBatchYield, opts...))
	r.Handle(InitializeBatchSizesProcedure, connect.NewUnaryHandler(InitializeBatchSizesProcedure, s.InitializeBatchSizes, opts...))
	r.Handle(CalculateBatchesNeededProcedure, connect.NewUnaryHandler(CalculateBatchesNeededProcedure, s.CalculateBatchesNeeded, opts...))
	r.Handle(PreviewDefaultSellingUnitsProcedure, connect.NewUnaryHandler(PreviewDefaultSellingUnitsProcedure, s.PreviewDefaultSellingUnits, opts...))
	r.Handle(ValidateSellingUnitProcedure, connect.NewUnaryHandler(ValidateSellingUnitProcedure, s.ValidateSellingUnit, opts...))
	r.Handle(ListPricingStrategiesProcedure, connect.NewUnaryHandler(ListPricingStrategiesProcedure, s.ListPricingStrategies, opts...))
}

// Register mounts every AuthService procedure on r.
func (s *AuthService) Register(r chi.Router, opts ...connect.HandlerOption) {
	opts = handlerOptions(opts)
	r.Handle(RegisterProcedure, connect.NewUnaryHandler(RegisterProcedure, s.RegisterUser, opts...))
	r.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, s.Login, opts...))
}
