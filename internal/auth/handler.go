package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	logger "github.com/sebuszqo/FinanceDRE/internal/log"
	"github.com/sebuszqo/FinanceDRE/internal/user"
)

type Handler struct {
	authService Service
}

func NewHandler(authService Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type userPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

// respondToken writes the bare {token, user} body shared by register and login.
func respondToken(w http.ResponseWriter, u *user.User, token string) {
	respondJSON(w, http.StatusOK, tokenResponse{
		Token: token,
		User:  userPayload{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	newUser, token, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case user.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrEmailAlreadyExists):
			respondError(w, http.StatusConflict, err.Error())
		default:
			logger.FromContext(r.Context()).Error("Could not register user", logger.FieldError, err)
			respondError(w, http.StatusServiceUnavailable, "Could not register user")
		}
		return
	}

	respondToken(w, newUser, token)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existingUser, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
		case user.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			logger.FromContext(r.Context()).Error("Could not log user in", logger.FieldError, err)
			respondError(w, http.StatusServiceUnavailable, "Could not log in")
		}
		return
	}

	respondToken(w, existingUser, token)
}
