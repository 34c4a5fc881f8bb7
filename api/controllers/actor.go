package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lucasferreira/fornada-backend/api/middleware"
	"github.com/lucasferreira/fornada-backend/api/validators"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/pagination"
)

// actor is the authenticated request identity resolved from the context.
type actor struct {
	UserID  uuid.UUID
	StoreID uuid.UUID
	Role    string
}

func actorFromRequest(r *http.Request) (actor, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	storeID := middleware.StoreIDFromContext(r.Context())
	if storeID == "" {
		return actor{}, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return actor{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return actor{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}

	return actor{UserID: uid, StoreID: sid, Role: middleware.RoleFromContext(r.Context())}, nil
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	value, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid path parameter").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}
