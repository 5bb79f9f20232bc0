// internal/handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
	"github.com/tocpharma/packing-be/internal/core/services"
)

// AuthHandler handles login against the upstream account table.
type AuthHandler struct {
	directory ports.DirectoryService
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewAuthHandler(directory ports.DirectoryService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		directory: directory,
		validate:  validator.New(),
		logger:    logger.With(slog.String("handler", "auth")),
	}
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	token, err := h.directory.Login(ctx, req.Username, req.Password)
	if err != nil {
		var badReq *domain.BadRequestError
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			h.logger.WarnContext(ctx, "login rejected",
				slog.String("username", req.Username))
			h.respondError(w, http.StatusUnauthorized, "Invalid username or password")
		case errors.As(err, &badReq):
			h.respondError(w, http.StatusBadRequest, badReq.Error())
		default:
			h.logger.ErrorContext(ctx, "login failed",
				slog.String("username", req.Username),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *AuthHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *AuthHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
