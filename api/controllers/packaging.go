package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/api/responses"
	"github.com/lucasferreira/fornada-backend/api/validators"
	"github.com/lucasferreira/fornada-backend/internal/packaging"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/logger"
)

func GetPackagingEntry(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
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

func ListPackagingEntries(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
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

		filters := packaging.EntryFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePackagingStatus(raw)
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
		orderID, err := validators.ParseQueryUUID(r, "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.OrderID = orderID

		list, err := svc.List(r.Context(), act.StoreID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func packagingTransitionInput(r *http.Request) (packaging.TransitionInput, error) {
	act, err := actorFromRequest(r)
	if err != nil {
		return packaging.TransitionInput{}, err
	}
	entryID, err := pathUUID(r, "entryID")
	if err != nil {
		return packaging.TransitionInput{}, err
	}
	return packaging.TransitionInput{
		EntryID:      entryID,
		ActorUserID:  act.UserID,
		ActorStoreID: act.StoreID,
		ActorRole:    act.Role,
	}, nil
}

func StartPackagingEntry(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := packagingTransitionInput(r)
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

type completePackagingRequest struct {
	QtyPackaged    decimal.Decimal `json:"qty_packaged"`
	QualityChecked bool            `json:"quality_checked"`
}

func CompletePackagingEntry(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := packagingTransitionInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload completePackagingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.Complete(r.Context(), packaging.CompleteInput{
			EntryID:        input.EntryID,
			QtyPackaged:    payload.QtyPackaged,
			QualityChecked: payload.QualityChecked,
			ActorUserID:    input.ActorUserID,
			ActorStoreID:   input.ActorStoreID,
			ActorRole:      input.ActorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"entry_id": input.EntryID.String()})
	}
}

func ApprovePackagingEntry(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := packagingTransitionInput(r)
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

func RejectPackagingEntry(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := packagingTransitionInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Reject(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"entry_id": input.EntryID.String()})
	}
}
