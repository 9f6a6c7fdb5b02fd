package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/atelier-store/atelier/internal/domain/user"
	"github.com/atelier-store/atelier/internal/service"
)

// UserHandler serves the self-service account endpoints under /api/users.
type UserHandler struct {
	users    *service.UserService
	validate *validator.Validate
	metrics  *Metrics
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, validate *validator.Validate, metrics *Metrics) *UserHandler {
	return &UserHandler{users: users, validate: validate, metrics: metrics}
}

// Register handles POST /api/users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, formatRequestErrors(err))
		return
	}

	var gender user.Gender
	if req.Gender != "" {
		g, err := user.ParseGender(req.Gender)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		gender = g
	}

	u, err := h.users.Register(r.Context(), service.RegisterInput{
		Number:   req.Number,
		Password: req.Password,
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		VkID:     req.VkID,
		Gender:   gender,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.UsersRegistered.Inc()
	}
	respondJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/users/login. On success the signed token is
// returned in the Authorization response header with an empty body.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, formatRequestErrors(err))
		return
	}

	tok, err := h.users.Authenticate(r.Context(), req.Number, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		respondDomainError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}
	w.Header().Set("Authorization", "Bearer "+tok)
	w.WriteHeader(http.StatusOK)
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// Logout handles POST /api/users/logout. Tokens are stateless and not
// revocable server-side; the client discards its copy.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	LoggerFromContext(r.Context()).Info("user logged out", "number", u.MaskedNumber())
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// UpdatePassword handles PUT /api/users/updatePassword.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updatePasswordRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, formatRequestErrors(err))
		return
	}

	if err := h.users.UpdatePassword(r.Context(), u.Number, req.OldPassword, req.NewPassword); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// CanReset handles GET /api/users/canReset: whether the caller has an email
// on file for password reset delivery.
func (h *UserHandler) CanReset(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"canReset": u.CanResetPassword()})
}
