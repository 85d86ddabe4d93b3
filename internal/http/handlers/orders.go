package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

// OrderHandler handles HTTP requests for order lifecycle operations.
type OrderHandler struct {
	usecase lifecycleUsecase
	logger  logx.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(logger logx.Logger, uc lifecycleUsecase) *OrderHandler {
	return &OrderHandler{usecase: uc, logger: logger}
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.usecase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// Transition handles POST /orders/{id}/status.
func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	target, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "unknown status")
		return
	}

	o, err := h.usecase.Transition(r.Context(), chi.URLParam(r, "id"), target, actor, req.Notes)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// Cancel handles POST /orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	var req cancelRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	o, err := h.usecase.Cancel(r.Context(), chi.URLParam(r, "id"), req.Reason, actor)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// VerifyPayment handles POST /orders/{id}/verify-payment.
func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(h.logger, w, r)
	if !ok {
		return
	}
	if err := h.usecase.VerifyPayment(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, statusResponse{Status: "verified"})
}
