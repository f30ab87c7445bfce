package handler

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/delcom/watchlist/internal/watchlist/domain"
	"github.com/delcom/watchlist/internal/watchlist/service"
	"github.com/delcom/watchlist/pkg/auth"
	"github.com/delcom/watchlist/pkg/errors"
	"github.com/delcom/watchlist/pkg/interfaces"
	"github.com/delcom/watchlist/pkg/storage"
)

const maxCoverBytes = 5 << 20

// WatchlistHandler exposes the watchlist service over REST.
type WatchlistHandler struct {
	service service.Service
	covers  storage.CoverStorage
	logger  interfaces.Logger
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(svc service.Service, covers storage.CoverStorage, logger interfaces.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: svc,
		covers:  covers,
		logger:  logger,
	}
}

// Register mounts the watchlist routes on the given router. The router is
// expected to already carry the bearer-token middleware.
func (h *WatchlistHandler) Register(r *mux.Router) {
	r.HandleFunc("/watchlists", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/watchlists", h.List).Methods(http.MethodGet)
	r.HandleFunc("/watchlists/genres", h.ListGenres).Methods(http.MethodGet)
	r.HandleFunc("/watchlists/statistics", h.Statistics).Methods(http.MethodGet)
	r.HandleFunc("/watchlists/type/{type}", h.ListByType).Methods(http.MethodGet)
	r.HandleFunc("/watchlists/status/{status}", h.ListByStatus).Methods(http.MethodGet)
	r.HandleFunc("/watchlists/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/watchlists/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/watchlists/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/watchlists/{id}/status", h.CycleStatus).Methods(http.MethodPatch)
	r.HandleFunc("/watchlists/{id}/cover", h.UploadCover).Methods(http.MethodPost)
	r.HandleFunc("/watchlists/{id}/cover", h.GetCover).Methods(http.MethodGet)
}

type entryRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Genre       string `json:"genre"`
	Rating      int    `json:"rating"`
	ReleaseYear int    `json:"releaseYear"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

func (req entryRequest) candidate() domain.Candidate {
	return domain.Candidate{
		Title:       req.Title,
		Type:        req.Type,
		Genre:       req.Genre,
		Rating:      req.Rating,
		ReleaseYear: req.ReleaseYear,
		Status:      req.Status,
		Notes:       req.Notes,
	}
}

type entryResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Genre       string    `json:"genre"`
	Rating      int       `json:"rating"`
	ReleaseYear int       `json:"releaseYear"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	Cover       string    `json:"cover,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toEntryResponse(e *domain.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Title:       e.Title,
		Type:        string(e.Type),
		Genre:       e.Genre,
		Rating:      e.Rating,
		ReleaseYear: e.ReleaseYear,
		Status:      string(e.Status),
		Notes:       e.Notes,
		Cover:       e.Cover,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEntryResponses(entries []*domain.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

// Create adds a new entry to the caller's watchlist.
// POST /api/watchlists
func (h *WatchlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.Create(r.Context(), userID, req.candidate())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "watchlist entry created", toEntryResponse(entry))
}

// List returns the caller's entries, optionally filtered by ?search=.
// GET /api/watchlists
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entries, err := h.service.List(r.Context(), userID, r.URL.Query().Get("search"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "watchlist entries", toEntryResponses(entries))
}

// Get returns a single entry owned by the caller.
// GET /api/watchlists/{id}
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "watchlist entry", toEntryResponse(entry))
}

// ListByType returns the caller's entries of the given media type.
// GET /api/watchlists/type/{type}
func (h *WatchlistHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entries, err := h.service.ListByType(r.Context(), userID, mux.Vars(r)["type"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "watchlist entries", toEntryResponses(entries))
}

// ListByStatus returns the caller's entries with the given status.
// GET /api/watchlists/status/{status}
func (h *WatchlistHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entries, err := h.service.ListByStatus(r.Context(), userID, mux.Vars(r)["status"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "watchlist entries", toEntryResponses(entries))
}

// ListGenres returns the distinct genres across the caller's watchlist.
// GET /api/watchlists/genres
func (h *WatchlistHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	genres, err := h.service.ListGenres(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "watchlist genres", genres)
}

// Statistics returns per-genre, per-status and per-type counts.
// GET /api/watchlists/statistics
func (h *WatchlistHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.service.Statistics(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "watchlist statistics", map[string]map[string]int64{
		"genres":   stats.GenreCounts,
		"statuses": stats.StatusCounts,
		"types":    stats.TypeCounts,
	})
}

// Update replaces the mutable fields of an entry owned by the caller.
// PUT /api/watchlists/{id}
func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.Update(r.Context(), userID, id, req.candidate())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "watchlist entry updated", toEntryResponse(entry))
}

// Delete removes an entry owned by the caller.
// DELETE /api/watchlists/{id}
func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "watchlist entry not found")
		return
	}

	writeJSON(w, http.StatusOK, "watchlist entry deleted", nil)
}

// CycleStatus advances an entry to its next watch status.
// PATCH /api/watchlists/{id}/status
func (h *WatchlistHandler) CycleStatus(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	entry, err := h.service.CycleStatus(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "watchlist status updated", toEntryResponse(entry))
}

// UploadCover stores a cover image for an entry and records its reference.
// The entry must exist and belong to the caller before anything is stored.
// POST /api/watchlists/{id}/cover
func (h *WatchlistHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Get(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxCoverBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing cover file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCoverBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable cover file")
		return
	}

	ref, err := h.covers.Save(id, data)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotAnImage) {
			writeError(w, http.StatusBadRequest, "cover must be an image")
			return
		}
		h.logger.Error("failed to store cover", interfaces.String("entry_id", id.String()), interfaces.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store cover")
		return
	}

	if err := h.service.SetCover(r.Context(), id, ref); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "cover updated", map[string]string{"cover": ref})
}

// GetCover streams the stored cover image for an entry owned by the caller.
// GET /api/watchlists/{id}/cover
func (h *WatchlistHandler) GetCover(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if entry.Cover == "" {
		writeError(w, http.StatusNotFound, "entry has no cover")
		return
	}

	cover, err := h.covers.Open(entry.Cover)
	if err != nil {
		writeError(w, http.StatusNotFound, "cover not found")
		return
	}
	defer cover.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, cover); err != nil {
		h.logger.Error("failed to stream cover", interfaces.String("entry_id", id.String()), interfaces.Error(err))
	}
}

func (h *WatchlistHandler) identityAndID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *WatchlistHandler) writeServiceError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	switch {
	case stderrors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, vErr.Message, map[string]string{"field": vErr.Field})
	case errors.IsNotFound(err):
		writeError(w, http.StatusNotFound, "watchlist entry not found")
	case errors.IsUnauthorized(err):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.IsBadRequest(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("watchlist request failed", interfaces.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
