package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/api/responses"
	"github.com/lucasferreira/fornada-backend/api/validators"
	"github.com/lucasferreira/fornada-backend/internal/production"
	"github.com/lucasferreira/fornada-backend/pkg/db/models"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/logger"
)

type createProductionRequest struct {
	ProductID    string          `json:"product_id" validate:"required,uuid"`
	QtyRequested decimal.Decimal `json:"qty_requested"`
}

type createProductionResponse struct {
	Entry     *models.ProductionEntry    `json:"entry"`
	Shortages []inventoryShortagePayload `json:"shortages,omitempty"`
}

type inventoryShortagePayload struct {
	IngredientID uuid.UUID       `json:"ingredient_id"`
	QtyRequested decimal.Decimal `json:"qty_requested"`
	QtyApplied   decimal.Decimal `json:"qty_applied"`
}

// CreateProductionEntry registers internal production not tied to an order.
func CreateProductionEntry(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		if !payload.QtyRequested.IsPositive() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "requested quantity must be positive"))
			return
		}

		entry, shortages, err := svc.Create(r.Context(), production.CreateEntryInput{
			StoreID:      act.StoreID,
			ProductID:    productID,
			QtyRequested: payload.QtyRequested,
			ActorUserID:  act.UserID,
			ActorRole:    act.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := createProductionResponse{Entry: entry}
		for _, shortage := range shortages {
			resp.Shortages = append(resp.Shortages, inventoryShortagePayload(shortage))
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

func GetProductionEntry(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryID, err := pathUUID(r, "entryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Get(r.Context(), entryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

func ListProductionEntries(svc production.Service, logg *logger.Logger) http.HandlerFunc {
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

		filters := production.EntryFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProductionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		productID, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.ProductID = productID

		list, err := svc.List(r.Context(), act.StoreID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func productionTransitionInput(r *http.Request) (production.TransitionInput, error) {
	act, err := actorFromRequest(r)
	if err != nil {
		return production.TransitionInput{}, err
	}
	entryID, err := pathUUID(r, "entryID")
	if err != nil {
		return production.TransitionInput{}, err
	}
	return production.TransitionInput{
		EntryID:      entryID,
		ActorUserID:  act.UserID,
		ActorStoreID: act.StoreID,
		ActorRole:    act.Role,
	}, nil
}

func StartProductionEntry(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := productionTransitionInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Start(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"entry_id": input.EntryID.String()})
	}
}

type completeProductionRequest struct {
	QtyProduced decimal.Decimal `json:"qty_produced"`
}

func CompleteProductionEntry(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := productionTransitionInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload completeProductionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.Complete(r.Context(), production.CompleteInput{
			EntryID:      input.EntryID,
			QtyProduced:  payload.QtyProduced,
			ActorUserID:  input.ActorUserID,
			ActorStoreID: input.ActorStoreID,
			ActorRole:    input.ActorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"entry_id": input.EntryID.String()})
	}
}

func ApproveProductionEntry(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := productionTransitionInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Approve(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"entry_id": input.EntryID.String()})
	}
}
