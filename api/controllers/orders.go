package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferreira/fornada-backend/api/responses"
	"github.com/lucasferreira/fornada-backend/api/validators"
	"github.com/lucasferreira/fornada-backend/internal/orders"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/logger"
)

type createOrderRequest struct {
	ClientID   string                   `json:"client_id" validate:"required,uuid"`
	ClientName string                   `json:"client_name" validate:"required"`
	Notes      *string                  `json:"notes,omitempty"`
	Items      []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Qty       decimal.Decimal `json:"qty"`
}

func (req createOrderRequest) toInput(act actor) (orders.CreateOrderInput, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid client id")
	}

	input := orders.CreateOrderInput{
		StoreID:     act.StoreID,
		ClientID:    clientID,
		ClientName:  strings.TrimSpace(req.ClientName),
		Notes:       req.Notes,
		ActorUserID: act.UserID,
		ActorRole:   act.Role,
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		if !item.Qty.IsPositive() {
			return orders.CreateOrderInput{}, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		input.Items = append(input.Items, orders.CreateOrderItemInput{
			ProductID: productID,
			Qty:       item.Qty,
		})
	}
	return input, nil
}

func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(act)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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

		filters := orders.OrderFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		clientID, err := validators.ParseQueryUUID(r, "client_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.ClientID = clientID
		if raw := strings.TrimSpace(r.URL.Query().Get("date_from")); raw != "" {
			from, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_from"))
				return
			}
			filters.DateFrom = &from
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("date_to")); raw != "" {
			to, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_to"))
				return
			}
			filters.DateTo = &to
		}

		list, err := svc.List(r.Context(), act.StoreID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// RouteOrder runs stock-or-production routing for every item of a pending order.
func RouteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Route(r.Context(), orders.RouteOrderInput{
			OrderID:      orderID,
			ActorUserID:  act.UserID,
			ActorStoreID: act.StoreID,
			ActorRole:    act.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func orderTransitionHandler(logg *logger.Logger, fn func(r *http.Request, input orders.TransitionInput) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.TransitionInput{
			OrderID:      orderID,
			ActorUserID:  act.UserID,
			ActorStoreID: act.StoreID,
			ActorRole:    act.Role,
		}
		if err := fn(r, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"order_id": orderID.String()})
	}
}

func StartOrderDelivery(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransitionHandler(logg, func(r *http.Request, input orders.TransitionInput) error {
		return svc.StartDelivery(r.Context(), input)
	})
}

func MarkOrderDelivered(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransitionHandler(logg, func(r *http.Request, input orders.TransitionInput) error {
		return svc.MarkDelivered(r.Context(), input)
	})
}

func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransitionHandler(logg, func(r *http.Request, input orders.TransitionInput) error {
		return svc.Cancel(r.Context(), input)
	})
}
