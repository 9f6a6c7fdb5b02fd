package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/atelier-store/atelier/internal/domain/user"
	"github.com/atelier-store/atelier/internal/service"
)

// AdminHandler serves the account administration endpoints under /api/admin.
// The policy layer restricts these routes to ADMIN.
type AdminHandler struct {
	users    *service.UserService
	validate *validator.Validate
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(users *service.UserService, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{users: users, validate: validate}
}

// GetByID handles GET /api/admin/userId/{userId}.
func (h *AdminHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), pathParam(r, "userId"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// GetByNumber handles GET /api/admin/userNumber/{userNumber}.
func (h *AdminHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByNumber(r.Context(), pathParam(r, "userNumber"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// List handles GET /api/admin/getAllUsers.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Update handles PUT /api/admin/updateUser/{id}. Only the fields present in
// the body change; the rest keep their stored values.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, formatRequestErrors(err))
		return
	}

	u, err := h.users.Update(r.Context(), pathParam(r, "id"), service.UpdateInput{
		Name:     req.Name,
		LastName: req.LastName,
		Number:   req.Number,
		Email:    req.Email,
		VkID:     req.VkID,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /api/admin/deleteUser/{id}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), pathParam(r, "id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ChangeRole handles POST /api/admin/changeRole/{userId}?role=R.
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	role, err := user.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	u, err := h.users.ChangeRole(r.Context(), pathParam(r, "userId"), role)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
