package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleDevAuth handles POST /v1/auth/dev
func (h *Handlers) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	var req DevAuthRequest
	if r.Body != nil {
		if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}
	}

	resp, err := h.service.SignInDev(r.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrDevAuthOff):
			writeError(w, http.StatusNotFound, "not_found", "Dev auth is disabled")
		case errors.Is(err, ErrInvalidUserID):
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be 1-64 characters of [A-Za-z0-9._:@-]")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
