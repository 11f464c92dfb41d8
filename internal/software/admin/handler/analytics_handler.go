package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"corpride/internal/ports"
)

// ----- Handler: GET /admin/analytics -----

func (handler *AdminHTTPHandler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	actor, err := actorFrom(r)
	if err != nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", err)
		return
	}
	ctx = handler.logger.WithUserID(ctx, actor.UserID)

	start, okStart := dateQuery(r, "start_date")
	end, okEnd := dateQuery(r, "end_date")
	if !okStart || !okEnd {
		handler.httpError(ctx, w, http.StatusBadRequest,
			"start_date and end_date are required in YYYY-MM-DD format", errors.New("bad date range"))
		return
	}

	in := ports.AnalyticsInput{
		StartDate: start,
		EndDate:   end,
		GroupBy:   r.URL.Query().Get("group_by"),
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := handler.svc.GetAnalytics(ctxWithTimeout, actor, in)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
