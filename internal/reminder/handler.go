// internal/reminder/handler.go
package reminder

import (
	"encoding/json"
	"net/http"

	"libralend/internal/membership"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// HandleRun triggers the daily reminder sweep. Admin only.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	sess, ok := membership.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	if !sess.IsAdmin() {
		http.Error(w, membership.ErrAdminRequired.Error(), http.StatusForbidden)
		return
	}

	notified, err := h.service.SendDailyReminders(r.Context())
	if err != nil {
		// Some observers may have failed; the sweep itself still ran.
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	json.NewEncoder(w).Encode(struct {
		Notified []*membership.User `json:"notified"`
	}{Notified: notified})
}
