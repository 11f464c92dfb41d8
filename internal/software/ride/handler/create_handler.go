package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"corpride/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type createRideRequest struct {
	Pickup        ports.LocationInput `json:"pickup"`
	Drop          ports.LocationInput `json:"drop"`
	RideDate      time.Time           `json:"ride_date"`
	PickupTime    string              `json:"pickup_time"`
	DropTime      string              `json:"drop_time"`
	RideType      string              `json:"ride_type"`
	RecurringDays []string            `json:"recurring_days,omitempty"`
	Purpose       string              `json:"purpose,omitempty"`
	Priority      string              `json:"priority,omitempty"`
	Notes         string              `json:"notes,omitempty"`
}

// ----- Handler: POST /rides -----

func (handler *RideHTTPHandler) handleCreateRide(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	// decode strictly
	var req createRideRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return
	}

	actor, err := actorFrom(r)
	if err != nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", err)
		return
	}
	ctx = handler.logger.WithUserID(ctx, actor.UserID)

	in := ports.CreateRideInput{
		Pickup:        req.Pickup,
		Drop:          req.Drop,
		RideDate:      req.RideDate,
		PickupTime:    req.PickupTime,
		DropTime:      req.DropTime,
		RideType:      req.RideType,
		RecurringDays: req.RecurringDays,
		Purpose:       req.Purpose,
		Priority:      req.Priority,
		Notes:         req.Notes,
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.CreateRide(ctxWithTimeout, actor, in)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}
	ctxWithTimeout = handler.logger.WithRideID(ctxWithTimeout, res.RideID)

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}
