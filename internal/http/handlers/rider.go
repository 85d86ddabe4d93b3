package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

// RiderHandler handles the rider-side assignment actions.
type RiderHandler struct {
	usecase riderUsecase
	logger  logx.Logger
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(logger logx.Logger, uc riderUsecase) *RiderHandler {
	return &RiderHandler{usecase: uc, logger: logger}
}

// Accept handles POST /riders/orders/{id}/accept.
func (h *RiderHandler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	if err := h.usecase.Accept(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "accepted"})
}

// Pickup handles POST /riders/orders/{id}/pickup.
func (h *RiderHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	if err := h.usecase.MarkPickedUp(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "picked_up"})
}

// Deliver handles POST /riders/orders/{id}/deliver.
func (h *RiderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	var req deliverRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.usecase.MarkDelivered(r.Context(), chi.URLParam(r, "id"), actor, req.ProofRef); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "delivered"})
}

// VerifyCOD handles POST /riders/orders/{id}/verify-cod.
func (h *RiderHandler) VerifyCOD(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	if err := h.usecase.VerifyCODPayment(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "verified"})
}

// Availability handles PUT /riders/{id}/availability.
func (h *RiderHandler) Availability(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	var req availabilityRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if err := h.usecase.SetAvailability(r.Context(), chi.URLParam(r, "id"), req.Available, actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "updated"})
}

// Location handles PUT /riders/{id}/location.
func (h *RiderHandler) Location(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	var req locationRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	p := domain.Point{Lat: req.Lat, Lng: req.Lng}
	if err := h.usecase.UpdateLocation(r.Context(), chi.URLParam(r, "id"), p, actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "updated"})
}

// Assignments handles GET /riders/{id}/assignments.
func (h *RiderHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	list, err := h.usecase.ActiveAssignments(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	out := make([]assignmentDTO, 0, len(list))
	for _, a := range list {
		out = append(out, assignmentToDTO(a))
	}
	writeJSON(h.logger, w, r, http.StatusOK, out)
}
