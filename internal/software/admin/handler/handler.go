package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"corpride/internal/domain/ride"
	"corpride/internal/domain/user"
	"corpride/internal/general/jwt"
	"corpride/internal/general/logger"
	"corpride/internal/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// AdminHTTPHandler adapts HTTP requests to the AdminService.
type AdminHTTPHandler struct {
	svc    ports.AdminService
	logger *logger.Logger
	auth   *jwt.Manager
}

// NewAdminHTTPHandler wires an HTTP handler around the AdminService.
func NewAdminHTTPHandler(svc ports.AdminService, log *logger.Logger, auth *jwt.Manager) *AdminHTTPHandler {
	return &AdminHTTPHandler{svc: svc, logger: log, auth: auth}
}

// RegisterRoutes mounts admin endpoints on the provided mux. Every route is
// admin-only; the service layer re-checks the role on each call.
func (handler *AdminHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	adminOnly := jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)

	mux.HandleFunc("GET /admin/rides", adminOnly(handler.handleListRides))
	mux.HandleFunc("PATCH /admin/rides/{ride_id}/status", adminOnly(handler.handleUpdateStatus))
	mux.HandleFunc("POST /admin/rides/{ride_id}/driver", adminOnly(handler.handleAssignDriver))
	mux.HandleFunc("GET /admin/rides/{ride_id}/actions", adminOnly(handler.handleListRideActions))
	mux.HandleFunc("GET /admin/actions", adminOnly(handler.handleListAdminActions))
	mux.HandleFunc("GET /admin/analytics", adminOnly(handler.handleAnalytics))

	mux.HandleFunc("GET /admin/health", handler.handleHealth)
}

func (handler *AdminHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok", "service": "admin-service"})
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

// requestContext captures the caller's network details for the audit ledger.
func requestContext(r *http.Request) ports.RequestContext {
	ip := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	return ports.RequestContext{IPAddress: ip, UserAgent: r.UserAgent()}
}

// jsonResponse encodes data to the HTTP response, with a controlled status on failure.
func (handler *AdminHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
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
func (handler *AdminHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// serviceError maps domain errors to HTTP statuses and writes the response.
func (handler *AdminHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	handler.httpError(ctx, w, statusForError(err), err.Error(), err)
}

func statusForError(err error) int {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, ride.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ride.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ride.ErrInvalidTransition):
		return http.StatusConflict
	case errors.As(err, &pgErr):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *AdminHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
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

// intQuery parses a positive integer query parameter with a fallback.
func intQuery(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
