package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"corpride/internal/ports"
)

// ----- Handler: GET /admin/rides -----

func (handler *AdminHTTPHandler) handleListRides(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	actor, err := actorFrom(r)
	if err != nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", err)
		return
	}
	ctx = handler.logger.WithUserID(ctx, actor.UserID)

	q := ports.AdminRideQuery{
		Status:      r.URL.Query().Get("status"),
		RideType:    r.URL.Query().Get("ride_type"),
		Purpose:     r.URL.Query().Get("purpose"),
		RequesterID: r.URL.Query().Get("user_id"),
		Page:        intQuery(r, "page", 1),
		Limit:       intQuery(r, "limit", 10),
	}

	if from, ok := dateQuery(r, "date_from"); ok {
		q.DateFrom = &from
	}
	if to, ok := dateQuery(r, "date_to"); ok {
		q.DateTo = &to
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.ListAllRides(ctxWithTimeout, actor, q)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// dateQuery parses a YYYY-MM-DD query parameter.
func dateQuery(r *http.Request, key string) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
