package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// ----- Handler: GET /admin/rides/{ride_id}/actions -----

func (handler *AdminHTTPHandler) handleListRideActions(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	rideID := strings.TrimSpace(r.PathValue("ride_id"))
	if rideID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "ride_id is required", errors.New("missing ride_id"))
		return
	}
	ctx = handler.logger.WithRideID(ctx, rideID)

	actor, err := actorFrom(r)
	if err != nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", err)
		return
	}
	ctx = handler.logger.WithUserID(ctx, actor.UserID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.ListRideActions(ctxWithTimeout, actor, rideID, intQuery(r, "page", 1), intQuery(r, "limit", 10))
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- Handler: GET /admin/actions -----

func (handler *AdminHTTPHandler) handleListAdminActions(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	actor, err := actorFrom(r)
	if err != nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", err)
		return
	}
	ctx = handler.logger.WithUserID(ctx, actor.UserID)

	// admin_id defaults to the caller in the service layer
	adminID := r.URL.Query().Get("admin_id")

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.ListAdminActions(ctxWithTimeout, actor, adminID, intQuery(r, "page", 1), intQuery(r, "limit", 10))
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
