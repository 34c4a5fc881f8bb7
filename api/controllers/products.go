package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/api/responses"
	"github.com/lucasferreira/fornada-backend/api/validators"
	"github.com/lucasferreira/fornada-backend/internal/inventory"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/logger"
)

type createProductRequest struct {
	SKU            string              `json:"sku" validate:"required"`
	Name           string              `json:"name" validate:"required"`
	Stock          decimal.Decimal     `json:"stock"`
	IsManufactured bool                `json:"is_manufactured"`
	PriceCents     int                 `json:"price_cents" validate:"min=0"`
	RecipeLines    []recipeLineRequest `json:"recipe_lines,omitempty" validate:"omitempty,dive"`
}

type recipeLineRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	QtyPerUnit   decimal.Decimal `json:"qty_per_unit"`
}

func (req createProductRequest) toInput(storeID uuid.UUID) (inventory.CreateProductInput, error) {
	input := inventory.CreateProductInput{
		StoreID:        storeID,
		SKU:            strings.TrimSpace(req.SKU),
		Name:           strings.TrimSpace(req.Name),
		Stock:          req.Stock,
		IsManufactured: req.IsManufactured,
		PriceCents:     req.PriceCents,
	}
	if req.Stock.IsNegative() {
		return inventory.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	for _, line := range req.RecipeLines {
		ingredientID, err := uuid.Parse(line.IngredientID)
		if err != nil {
			return inventory.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id")
		}
		if !line.QtyPerUnit.IsPositive() {
			return inventory.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "recipe quantity must be positive")
		}
		input.RecipeLines = append(input.RecipeLines, inventory.RecipeLineInput{
			IngredientID: ingredientID,
			QtyPerUnit:   line.QtyPerUnit,
		})
	}
	return input, nil
}

func CreateProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(act.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func GetProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ListProducts(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := inventory.ProductFilters{
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
			ActiveOnly: r.URL.Query().Get("active") == "true",
		}
		switch r.URL.Query().Get("manufactured") {
		case "true":
			v := true
			filters.IsManufactured = &v
		case "false":
			v := false
			filters.IsManufactured = &v
		}

		list, err := svc.ListProducts(r.Context(), act.StoreID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type adjustStockRequest struct {
	Qty    decimal.Decimal `json:"qty"`
	Reason string          `json:"reason" validate:"required"`
}

func AdjustStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Qty.IsZero() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "adjustment quantity cannot be zero"))
			return
		}

		movement, err := svc.AdjustStock(r.Context(), inventory.AdjustStockInput{
			ProductID:   productID,
			Qty:         payload.Qty,
			Reason:      strings.TrimSpace(payload.Reason),
			ActorUserID: act.UserID,
			ActorRole:   act.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, movement)
	}
}

func ListStockMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMovements(r.Context(), productID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
