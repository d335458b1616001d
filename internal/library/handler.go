// internal/library/handler.go
package library

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"libris/internal/catalog"
	"libris/internal/liberr"
	"libris/internal/membership"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the circulation desk API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.handleListItems)
		r.Post("/", h.handleAddItem)
		r.Get("/search", h.handleSearchMedia)
		r.Delete("/{id}", h.handleRemoveItem)
		r.Get("/{id}/loan", h.handleFindOpenLoan)
		r.Post("/{id}/return", h.handleReturn)
		r.Post("/{id}/reservations", h.handleReserve)
		r.Post("/{id}/fulfill", h.handleFulfill)
	})

	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.handleListMembers)
		r.Post("/", h.handleRegisterMember)
		r.Get("/search", h.handleSearchMembers)
		r.Delete("/{id}", h.handleRemoveMember)
		r.Post("/{id}/deactivate", h.handleDeactivateMember)
	})

	r.Post("/login", h.handleLogin)
	r.Post("/loans", h.handleLoan)
	r.Delete("/reservations/{id}", h.handleCancelReservation)

	r.Route("/librarians", func(r chi.Router) {
		r.Get("/", h.handleListLibrarians)
		r.Post("/", h.handleAddLibrarian)
	})

	return r
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind            catalog.Kind `json:"kind"`
		Title           string       `json:"title"`
		Authors         []string     `json:"authors"`
		Publisher       string       `json:"publisher"`
		Year            int          `json:"year"`
		Categories      []string     `json:"categories"`
		DurationMinutes int          `json:"duration_minutes"`
		AgeRating       string       `json:"age_rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		item *catalog.Item
		err  error
	)
	switch req.Kind {
	case catalog.KindBook:
		item, err = catalog.NewBook(req.Title, req.Authors, req.Year, req.Categories)
	case catalog.KindDVD:
		item, err = catalog.NewDVD(req.Title, req.DurationMinutes, req.AgeRating, req.Categories)
	case catalog.KindMagazine:
		item, err = catalog.NewMagazine(req.Title, req.Publisher, req.Year, req.Categories)
	default:
		http.Error(w, "unknown media kind", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	added, err := h.service.AddItem(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListItems(r.Context()))
}

func (h *Handler) handleSearchMedia(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.SearchMedia(r.Context(), r.URL.Query().Get("q")))
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleFindOpenLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	loan, err := h.service.FindOpenLoan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *Handler) handleLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID uuid.UUID `json:"member_id"`
		MediaID  uuid.UUID `json:"media_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := h.service.LoanItem(r.Context(), req.MemberID, req.MediaID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	loan, err := h.service.ReturnItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		MemberID uuid.UUID `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reservation, err := h.service.PlaceReservation(r.Context(), req.MemberID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *Handler) handleFulfill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	fulfilled, err := h.service.FulfillReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"fulfilled": fulfilled})
}

func (h *Handler) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reservation, err := h.service.CancelReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *Handler) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.service.RegisterMember(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListMembers(r.Context()))
}

func (h *Handler) handleSearchMembers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.SearchMembers(r.Context(), r.URL.Query().Get("q")))
}

func (h *Handler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveMember(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeactivateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	member, err := h.service.DeactivateMember(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *Handler) handleAddLibrarian(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	librarian, err := membership.NewLibrarian(req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	added, err := h.service.AddLibrarian(r.Context(), librarian)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (h *Handler) handleListLibrarians(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListLibrarians(r.Context()))
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps error kinds onto HTTP status codes so the presentation
// layer can recover and re-prompt.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, liberr.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, liberr.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, liberr.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
