package handlers

import (
	"errors"
	"net/http"

	"github.com/dherslof/racing-companion/internal/auth"
	"github.com/dherslof/racing-companion/internal/models"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login exchanges the configured passphrase for a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var loginReq models.LoginRequest
	if err := readJSON(r, &loginReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if loginReq.Passphrase == "" {
		http.Error(w, "Passphrase is required", http.StatusBadRequest)
		return
	}

	if err := h.authService.CheckPassphrase(loginReq.Passphrase); err != nil {
		if errors.Is(err, auth.ErrNoPassphrase) {
			http.Error(w, "Authentication is disabled", http.StatusNotFound)
			return
		}
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, exp, err := h.authService.GenerateToken()
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, ExpiresAt: exp.Unix()})
}
