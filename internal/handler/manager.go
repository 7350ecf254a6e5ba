// internal/handler/manager.go
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"

	"github.com/teamlattice/lattice/internal/domain"
	"github.com/teamlattice/lattice/internal/serializer"
	"github.com/teamlattice/lattice/internal/service"
)

// ManagerHandler serves the manager-centric routes: the global manager
// listing and the reports collection under a manager.
type ManagerHandler struct {
	roleService *service.ManagerRoleService
}

func NewManagerHandler(roleService *service.ManagerRoleService) *ManagerHandler {
	return &ManagerHandler{roleService: roleService}
}

// ListManagers returns every distinct manager across all relationships.
func (h *ManagerHandler) ListManagers(w http.ResponseWriter, r *http.Request) {
	projections, err := h.roleService.DistinctManagers(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.NewManagerViewsFromProjections(projections))
}

// ListReports returns the users managed by the manager named in the path.
func (h *ManagerHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	roles, err := h.roleService.ListReports(r.Context(), identifier)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.NewReportViews(roles))
}

// AddReports places one or more users under the manager named in the path.
// A JSON object is a single add (201); a JSON array is a bulk add with
// per-item error accumulation (202).
func (h *ManagerHandler) AddReports(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if isJSONArray(body) {
		var inputs []service.ReportTargetInput
		if err := json.Unmarshal(body, &inputs); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		out, err := h.roleService.AddReports(r.Context(), identifier, inputs)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusAccepted, serializer.NewBulkReportView(out))
		return
	}

	var input service.ReportTargetInput
	if err := json.Unmarshal(body, &input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	role, err := h.roleService.AddReport(r.Context(), identifier, input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.NewReportView(role))
}

// RemoveReports deletes reports under the manager named in the path; the
// optional ?user= query narrows the deletion to a single managed user.
// Always replies 204, whether or not anything matched.
func (h *ManagerHandler) RemoveReports(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	userFilter := r.URL.Query().Get("user")

	if err := h.roleService.RemoveReports(r.Context(), identifier, userFilter); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ManagerHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "manager request failed",
			"error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// isJSONArray reports whether the payload's first JSON token opens an array.
func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
