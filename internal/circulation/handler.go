// internal/circulation/handler.go
package circulation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"libralend/internal/catalog"
	"libralend/internal/membership"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"user_id"`
		MediaID string `json:"media_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := h.service.Borrow(r.Context(), req.UserID, req.MediaID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(loan)
}

func (h *Handler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	fine, err := h.service.Return(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		// A missing media or user here means the loan references a record
		// that no longer exists, which is corruption rather than bad input.
		status := http.StatusInternalServerError
		if errors.Is(err, ErrLoanNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	json.NewEncoder(w).Encode(struct {
		Fine decimal.Decimal `json:"fine"`
	}{Fine: fine})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrLoanNotFound),
		errors.Is(err, membership.ErrUserNotFound),
		errors.Is(err, catalog.ErrMediaNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOutstandingFines),
		errors.Is(err, ErrOverdueLoan),
		errors.Is(err, ErrMediaUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
