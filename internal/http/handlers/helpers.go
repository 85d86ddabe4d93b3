package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("json encode error",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	logger.Warn("http error",
		logx.String("req_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	)
	writeJSON(logger, w, r, status, ErrorResponse{Error: msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Expected
// outcomes keep their display-ready message; everything else collapses to
// a generic 500.
func writeDomainError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeError(logger, w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		writeError(logger, w, r, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(logger, w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrPermission):
		writeError(logger, w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrExternal):
		writeError(logger, w, r, http.StatusBadGateway, err.Error())
	default:
		logger.Error("internal error",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
		writeError(logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

const bodyLimit = 1 << 20

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

// actorFromRequest builds the acting identity from the gateway-injected
// headers. Authentication itself happens upstream; these headers only
// feed the audit trail and actor/resource checks.
func actorFromRequest(r *http.Request) (domain.Actor, bool) {
	id := r.Header.Get("X-Actor-Id")
	if id == "" {
		return domain.Actor{}, false
	}
	role, ok := domain.ParseRole(r.Header.Get("X-Actor-Role"))
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: role}, true
}

func requireActor(logger logx.Logger, w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeError(logger, w, r, http.StatusBadRequest, "missing or invalid actor headers")
	}
	return actor, ok
}
