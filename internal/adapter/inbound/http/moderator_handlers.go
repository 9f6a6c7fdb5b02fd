package http

import (
	"net/http"

	"github.com/atelier-store/atelier/internal/service"
)

// ModeratorHandler serves the user-status endpoints under /api/moderator.
// The policy layer restricts these routes to MODERATOR or ADMIN.
type ModeratorHandler struct {
	users *service.UserService
}

// NewModeratorHandler creates a ModeratorHandler.
func NewModeratorHandler(users *service.UserService) *ModeratorHandler {
	return &ModeratorHandler{users: users}
}

// GetStatus handles GET /api/moderator/getStatus/{userNumber}.
func (h *ModeratorHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByNumber(r.Context(), pathParam(r, "userNumber"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": u.Status()})
}

// CanReset handles GET /api/moderator/canReset/{userNumber}.
func (h *ModeratorHandler) CanReset(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByNumber(r.Context(), pathParam(r, "userNumber"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"canReset": u.CanResetPassword()})
}

// Block handles POST /api/moderator/blockUser/{userNumber}.
func (h *ModeratorHandler) Block(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Block(r.Context(), pathParam(r, "userNumber")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "blocked"})
}

// Unblock handles POST /api/moderator/unblockUser/{userNumber}.
func (h *ModeratorHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Unblock(r.Context(), pathParam(r, "userNumber")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "unblocked"})
}

// GetByID handles GET /api/moderator/userId/{userId}.
func (h *ModeratorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), pathParam(r, "userId"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// GetByNumber handles GET /api/moderator/userNumber/{userNumber}.
func (h *ModeratorHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByNumber(r.Context(), pathParam(r, "userNumber"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
