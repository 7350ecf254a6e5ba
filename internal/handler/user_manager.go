// internal/handler/user_manager.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"

	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/serializer"
	"github.com/teamlattice/lattice/internal/service"
)

// UserManagerHandler serves the user-centric routes: the managers
// collection over a managed user.
type UserManagerHandler struct {
	roleService *service.ManagerRoleService
}

func NewUserManagerHandler(roleService *service.ManagerRoleService) *UserManagerHandler {
	return &UserManagerHandler{roleService: roleService}
}

// ListManagers returns the managers of the user named in the path.
func (h *UserManagerHandler) ListManagers(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	roles, err := h.roleService.ListManagers(r.Context(), identifier)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.NewManagerViews(roles))
}

// AddManager records a manager (by email) for the user named in the path.
func (h *UserManagerHandler) AddManager(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	var input service.AddManagerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	role, err := h.roleService.AddManager(r.Context(), identifier, input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.NewManagerView(role))
}

// RemoveManagers deletes the managers of the user named in the path; the
// optional ?manager= query narrows the deletion to one manager. Always
// replies 204.
func (h *UserManagerHandler) RemoveManagers(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	managerFilter := r.URL.Query().Get("manager")

	if err := h.roleService.RemoveManagers(r.Context(), identifier, managerFilter); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserManagerHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "user manager request failed",
			"error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
