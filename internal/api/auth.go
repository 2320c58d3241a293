package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/daybook/internal/account"
	"github.com/starford/daybook/internal/apperr"
)

// AuthHandler holds the registration and login handlers.
type AuthHandler struct {
	accounts *account.DB
	sessions *account.Sessions
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *account.DB, sessions *account.Sessions) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.accounts.Register(req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, errorBody("username is taken"))
		case errors.Is(err, apperr.ErrInvalidArgument):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("register failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Login handles POST /auth/login and issues a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.accounts.Authenticate(req.Username, req.Password); err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
			return
		}
		slog.Error("login failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	token, err := h.sessions.Issue(req.Username)
	if err != nil {
		slog.Error("issue token failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(sessions *account.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); len(auth) > 7 {
			sessions.Revoke(auth[7:])
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
