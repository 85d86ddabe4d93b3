package handlers

import (
	"net/http"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/assignment"
)

// AdminHandler handles the admin override and dashboard endpoints.
type AdminHandler struct {
	usecase adminUsecase
	logger  logx.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(logger logx.Logger, uc adminUsecase) *AdminHandler {
	return &AdminHandler{usecase: uc, logger: logger}
}

// Sweep handles POST /admin/assignments/sweep.
func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	report, err := h.usecase.Sweep(r.Context(), actor)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, sweepResponse{
		Assigned:   report.Assigned,
		Unassigned: report.Unassigned,
		Failed:     report.Failed,
		Errors:     report.Errors,
	})
}

// ManualAssign handles POST /admin/assignments.
func (h *AdminHandler) ManualAssign(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	var req manualAssignRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.usecase.ManualAssign(r.Context(), req.OrderID, req.RiderID, actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "assigned"})
}

// Reassign handles POST /admin/assignments/reassign.
func (h *AdminHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	var req manualAssignRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.usecase.Reassign(r.Context(), req.OrderID, req.RiderID, actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "reassigned"})
}

// Overview handles GET /admin/dashboard.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	d, err := h.usecase.Overview(r.Context(), actor)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, d)
}

// GetSettings handles GET /admin/assignments/settings.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	s, err := h.usecase.CurrentSettings(r.Context(), actor)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, s)
}

// UpdateSettings handles PUT /admin/assignments/settings.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	var req assignment.Settings
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.usecase.UpdateSettings(r.Context(), req, actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "updated"})
}
