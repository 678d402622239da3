// internal/fines/handler.go
package fines

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"libralend/internal/membership"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandlePayFine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string          `json:"user_id"`
		Amount decimal.Decimal `json:"amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	balance, err := h.service.PayFine(r.Context(), req.UserID, req.Amount)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(struct {
		Balance decimal.Decimal `json:"balance"`
	}{Balance: balance})
}

func (h *Handler) HandleOverdueReport(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "missing user parameter", http.StatusBadRequest)
		return
	}

	report, err := h.service.GenerateOverdueReport(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(report)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, membership.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPaymentAmount):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoOutstandingFines),
		errors.Is(err, ErrPaymentExceedsBalance):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
