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

type assignDriverRequest struct {
	DriverID      string `json:"driver_id"`
	DriverName    string `json:"driver_name"`
	VehicleNumber string `json:"vehicle_number"`
	PhoneNumber   string `json:"phone_number"`
}

// ----- Handler: POST /admin/rides/{ride_id}/driver -----

func (handler *AdminHTTPHandler) handleAssignDriver(w http.ResponseWriter, r *http.Request) {
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

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 256<<10) // 256 KiB
	defer r.Body.Close()

	// decode strictly
	var req assignDriverRequest
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

	in := ports.AssignDriverInput{
		RideID:        rideID,
		DriverID:      req.DriverID,
		DriverName:    req.DriverName,
		VehicleNumber: req.VehicleNumber,
		PhoneNumber:   req.PhoneNumber,
		Request:       requestContext(r),
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.AssignDriver(ctxWithTimeout, actor, in)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
