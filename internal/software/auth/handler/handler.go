package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"corpride/internal/domain/user"
	"corpride/internal/general/logger"
	"corpride/internal/ports"
	authservice "corpride/internal/software/auth/service"
)

// AuthHTTPHandler exposes registration and login endpoints. Both are
// unauthenticated; everything else in the system requires the token these
// endpoints hand out.
type AuthHTTPHandler struct {
	svc    ports.AuthService
	logger *logger.Logger
}

// NewAuthHTTPHandler wires an HTTP handler around the AuthService.
func NewAuthHTTPHandler(svc ports.AuthService, log *logger.Logger) *AuthHTTPHandler {
	return &AuthHTTPHandler{svc: svc, logger: log}
}

// RegisterRoutes mounts auth endpoints on the provided mux.
func (handler *AuthHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", handler.handleRegister)
	mux.HandleFunc("POST /auth/login", handler.handleLogin)
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	EmployeeID string `json:"employee_id,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ----- Handler: POST /auth/register -----

func (handler *AuthHTTPHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req registerRequest
	if !handler.decode(ctx, w, r, &req) {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.Register(ctxWithTimeout, ports.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		EmployeeID: req.EmployeeID,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}

// ----- Handler: POST /auth/login -----

func (handler *AuthHTTPHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req loginRequest
	if !handler.decode(ctx, w, r, &req) {
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.Login(ctxWithTimeout, ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}

// ----- general helpers -----

// decode reads a strict JSON body into dst. Writes the error response itself
// and reports whether decoding succeeded.
func (handler *AuthHTTPHandler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, 256<<10) // 256 KiB
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return false
	}
	return true
}

// jsonResponse encodes data to the HTTP response, with a controlled status on failure.
func (handler *AuthHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
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
func (handler *AuthHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
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

// serviceError maps auth errors to HTTP statuses and writes the response.
func (handler *AuthHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	handler.httpError(ctx, w, statusForError(err), err.Error(), err)
}

// statusForError keeps credential failures indistinguishable (401) while
// surfacing duplicate registrations as conflicts.
func statusForError(err error) int {
	switch {
	case errors.Is(err, authservice.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, authservice.ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *AuthHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
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
