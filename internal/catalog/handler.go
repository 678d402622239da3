// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"libralend/internal/membership"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleAddBook(w http.ResponseWriter, r *http.Request) {
	sess, ok := membership.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		ISBN   string `json:"isbn"`
		Copies int    `json:"copies"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	media, err := h.service.AddBook(r.Context(), sess, req.Title, req.Author, req.ISBN, req.Copies)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(media)
}

func (h *Handler) HandleAddCD(w http.ResponseWriter, r *http.Request) {
	sess, ok := membership.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		Title  string `json:"title"`
		Artist string `json:"artist"`
		Copies int    `json:"copies"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	media, err := h.service.AddCD(r.Context(), sess, req.Title, req.Artist, req.Copies)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(media)
}

func (h *Handler) HandleGetMedia(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.GetMedia(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(media)
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		media, err := h.service.ListByCategory(r.Context(), Category(category))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		json.NewEncoder(w).Encode(media)
		return
	}

	media, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	json.NewEncoder(w).Encode(media)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrMediaNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCopyCount):
		return http.StatusBadRequest
	case errors.Is(err, membership.ErrAdminRequired):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
