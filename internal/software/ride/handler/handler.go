package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"corpride/internal/domain/ride"
	"corpride/internal/domain/user"
	"corpride/internal/general/jwt"
	"corpride/internal/general/logger"
	"corpride/internal/general/websocket"
	"corpride/internal/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// RideHTTPHandler adapts HTTP requests to the RideService.
type RideHTTPHandler struct {
	svc      ports.RideService
	logger   *logger.Logger
	auth     *jwt.Manager
	notifier *websocket.Notifier
}

// NewRideHTTPHandler wires an HTTP handler around the RideService.
func NewRideHTTPHandler(
	svc ports.RideService,
	log *logger.Logger,
	auth *jwt.Manager,
	notifier *websocket.Notifier,
) *RideHTTPHandler {
	return &RideHTTPHandler{svc: svc, logger: log, auth: auth, notifier: notifier}
}

// RegisterRoutes mounts ride endpoints on the provided mux.
func (handler *RideHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := jwt.AuthMiddlewareFunc(handler.auth, user.RoleEmployee, user.RoleAdmin)

	mux.HandleFunc("POST /rides", authed(handler.handleCreateRide))
	mux.HandleFunc("GET /rides/user", authed(handler.handleListUserRides))
	mux.HandleFunc("GET /rides/{ride_id}", authed(handler.handleGetRide))
	mux.HandleFunc("DELETE /rides/{ride_id}", authed(handler.handleCancelRide))

	// the websocket endpoint authenticates on its own (token via query param)
	mux.HandleFunc("GET /ws/rides", handler.notifier.Connect)

	mux.HandleFunc("GET /rides/health", handler.handleHealth)
}

func (handler *RideHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok", "service": "ride-service"})
}

// ----- general helpers -----

// actorFrom builds the service-level actor identity from validated JWT claims.
func actorFrom(r *http.Request) (ports.Actor, error) {
	claims := jwt.RequireClaims(r)
	if claims == nil {
		return ports.Actor{}, errors.New("missing auth claims")
	}
	return ports.Actor{UserID: claims.Subject, Role: claims.Role}, nil
}

// jsonResponse encodes data to the HTTP response, with a controlled status on failure.
func (handler *RideHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *RideHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusUnsupportedMediaType {
		action = "unsupported_media_type"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// serviceError maps domain errors to HTTP statuses and writes the response.
func (handler *RideHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	handler.httpError(ctx, w, statusForError(err), err.Error(), err)
}

// statusForError distinguishes not-found, forbidden, conflict, policy and
// storage failures so callers get the right response semantics.
func statusForError(err error) int {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, ride.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ride.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ride.ErrInvalidTransition), errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict
	case errors.As(err, &pgErr):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *RideHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
