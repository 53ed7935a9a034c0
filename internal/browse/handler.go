package browse

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/casklist/casklist/internal/prefs"
	"github.com/casklist/casklist/internal/server"
	"github.com/casklist/casklist/pkg/models"
)

// Handler serves the browsing action API: festival selection, refresh,
// and preference mutations.
type Handler struct {
	state     *State
	festivals []models.Festival
	logger    *zap.Logger
}

// NewHandler creates a browsing API handler. festivals is the known
// festival list, remote or embedded.
func NewHandler(state *State, festivals []models.Festival, logger *zap.Logger) *Handler {
	return &Handler{state: state, festivals: festivals, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/festivals", h.handleFestivals)
	mux.HandleFunc("PUT /api/v1/festivals/selected", h.handleSelectFestival)
	mux.HandleFunc("POST /api/v1/refresh", h.handleRefresh)
	mux.HandleFunc("GET /api/v1/favorites", h.handleFavorites)
	mux.HandleFunc("POST /api/v1/drinks/{id}/favorite", h.handleToggleFavorite)
	mux.HandleFunc("POST /api/v1/drinks/{id}/tries", h.handleMarkTasted)
	mux.HandleFunc("DELETE /api/v1/drinks/{id}/tries", h.handleDeleteTry)
	mux.HandleFunc("PUT /api/v1/drinks/{id}/notes", h.handleUpdateNotes)
	mux.HandleFunc("PUT /api/v1/drinks/{id}/rating", h.handleSetRating)
	mux.HandleFunc("DELETE /api/v1/drinks/{id}/rating", h.handleRemoveRating)
	mux.HandleFunc("GET /api/v1/settings", h.handleGetSettings)
	mux.HandleFunc("PUT /api/v1/settings", h.handlePutSettings)
}

// FestivalsResponse is the response for GET /api/v1/festivals.
type FestivalsResponse struct {
	Festivals []models.Festival `json:"festivals"`
	Selected  string            `json:"selected"`
}

// handleFestivals lists the known festivals and the current selection.
//
//	@Summary		List festivals
//	@Tags			festivals
//	@Produce		json
//	@Success		200 {object} FestivalsResponse
//	@Router			/festivals [get]
func (h *Handler) handleFestivals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FestivalsResponse{
		Festivals: h.festivals,
		Selected:  h.state.Festival().ID,
	})
}

// handleSelectFestival persists a new festival selection and reloads
// the drink list for it.
//
//	@Summary		Select a festival
//	@Tags			festivals
//	@Accept			json
//	@Produce		json
//	@Param			body body object true "JSON object with the festival id"
//	@Success		200 {object} map[string]any
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/festivals/selected [put]
func (h *Handler) handleSelectFestival(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		server.BadRequest(w, "body must be a JSON object with an id", r.URL.Path)
		return
	}

	var fest *models.Festival
	for i := range h.festivals {
		if h.festivals[i].ID == req.ID {
			fest = &h.festivals[i]
			break
		}
	}
	if fest == nil {
		server.NotFound(w, "no festival with id "+strconv.Quote(req.ID), r.URL.Path)
		return
	}

	if err := h.state.SelectFestival(r.Context(), *fest); err != nil {
		// The selection persisted and the state switched; the fetch
		// failure is already recorded as the user-facing message.
		h.logger.Warn("load after festival selection failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selected": fest.ID,
		"error":    h.state.ErrorMessage(),
	})
}

// handleRefresh refetches the drink list for the current festival.
//
//	@Summary		Refresh the drink list
//	@Description	Refetches every configured category. A failed fetch keeps the previous list and reports the user-facing message.
//	@Tags			drinks
//	@Produce		json
//	@Success		200 {object} map[string]any
//	@Router			/refresh [post]
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.state.Load(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":    false,
			"error": h.state.ErrorMessage(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"count": len(h.state.Drinks()),
	})
}

// handleFavorites returns the stored favorite entries for the current
// festival.
//
//	@Summary		List favorite entries
//	@Tags			favorites
//	@Produce		json
//	@Success		200 {object} map[string]prefs.FavoriteEntry
//	@Failure		500 {object} server.Problem
//	@Router			/favorites [get]
func (h *Handler) handleFavorites(w http.ResponseWriter, r *http.Request) {
	entries, err := h.state.FavoriteEntries(r.Context())
	if err != nil {
		h.logger.Error("loading favorites failed", zap.Error(err))
		server.InternalError(w, "failed to load favorites", r.URL.Path)
		return
	}
	if entries == nil {
		entries = map[string]prefs.FavoriteEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleToggleFavorite flips a drink's favorite state.
//
//	@Summary		Toggle a favorite
//	@Tags			favorites
//	@Produce		json
//	@Param			id path string true "Product ID"
//	@Success		200 {object} map[string]bool
//	@Failure		500 {object} server.Problem
//	@Router			/drinks/{id}/favorite [post]
func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	fav, err := h.state.ToggleFavorite(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writePrefsError(w, r, err, "toggling favorite")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"favorite": fav})
}

// handleMarkTasted records a try at the current time.
//
//	@Summary		Mark a drink tasted
//	@Tags			favorites
//	@Param			id path string true "Product ID"
//	@Success		204
//	@Failure		500 {object} server.Problem
//	@Router			/drinks/{id}/tries [post]
func (h *Handler) handleMarkTasted(w http.ResponseWriter, r *http.Request) {
	if err := h.state.MarkTasted(r.Context(), r.PathValue("id")); err != nil {
		h.writePrefsError(w, r, err, "marking tasted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteTry removes one recorded try by its exact timestamp.
//
//	@Summary		Delete a recorded try
//	@Tags			favorites
//	@Accept			json
//	@Param			id path string true "Product ID"
//	@Param			body body object true "JSON object with the RFC 3339 try timestamp"
//	@Success		204
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/drinks/{id}/tries [delete]
func (h *Handler) handleDeleteTry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		At time.Time `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.At.IsZero() {
		server.BadRequest(w, "body must be a JSON object with an RFC 3339 at", r.URL.Path)
		return
	}
	if err := h.state.DeleteTry(r.Context(), r.PathValue("id"), req.At); err != nil {
		h.writePrefsError(w, r, err, "deleting try")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateNotes replaces a drink's tasting notes.
//
//	@Summary		Update tasting notes
//	@Tags			favorites
//	@Accept			json
//	@Param			id path string true "Product ID"
//	@Param			body body object true "JSON object with the notes text; empty clears them"
//	@Success		204
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/drinks/{id}/notes [put]
func (h *Handler) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "body must be a JSON object with notes", r.URL.Path)
		return
	}
	if err := h.state.UpdateNotes(r.Context(), r.PathValue("id"), req.Notes); err != nil {
		h.writePrefsError(w, r, err, "updating notes")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetRating stores a 1-5 rating for a drink.
//
//	@Summary		Set a rating
//	@Tags			ratings
//	@Accept			json
//	@Param			id path string true "Product ID"
//	@Param			body body object true "JSON object with a rating between 1 and 5"
//	@Success		204
//	@Failure		400 {object} server.Problem
//	@Router			/drinks/{id}/rating [put]
func (h *Handler) handleSetRating(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "body must be a JSON object with a rating", r.URL.Path)
		return
	}
	if err := h.state.SetRating(r.Context(), r.PathValue("id"), req.Rating); err != nil {
		h.writePrefsError(w, r, err, "setting rating")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveRating clears a drink's rating.
//
//	@Summary		Remove a rating
//	@Tags			ratings
//	@Param			id path string true "Product ID"
//	@Success		204
//	@Failure		404 {object} server.Problem
//	@Router			/drinks/{id}/rating [delete]
func (h *Handler) handleRemoveRating(w http.ResponseWriter, r *http.Request) {
	if err := h.state.RemoveRating(r.Context(), r.PathValue("id")); err != nil {
		h.writePrefsError(w, r, err, "removing rating")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SettingsResponse is the response for GET /api/v1/settings.
type SettingsResponse struct {
	SelectedFestival string `json:"selected_festival"`
	HideUnavailable  bool   `json:"hide_unavailable"`
	Theme            string `json:"theme"`
}

// handleGetSettings returns the persisted UI preferences.
//
//	@Summary		Get settings
//	@Tags			settings
//	@Produce		json
//	@Success		200 {object} SettingsResponse
//	@Failure		500 {object} server.Problem
//	@Router			/settings [get]
func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	theme, err := h.state.Theme(r.Context())
	if err != nil {
		h.logger.Error("loading theme failed", zap.Error(err))
		server.InternalError(w, "failed to load settings", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{
		SelectedFestival: h.state.Festival().ID,
		HideUnavailable:  h.state.Query().HideUnavailable,
		Theme:            theme,
	})
}

// handlePutSettings applies a partial settings update.
//
//	@Summary		Update settings
//	@Tags			settings
//	@Accept			json
//	@Param			body body object true "JSON object with optional hide_unavailable and theme"
//	@Success		204
//	@Failure		400 {object} server.Problem
//	@Router			/settings [put]
func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HideUnavailable *bool   `json:"hide_unavailable"`
		Theme           *string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "body must be a JSON settings object", r.URL.Path)
		return
	}
	if req.HideUnavailable != nil {
		if err := h.state.SetHideUnavailable(r.Context(), *req.HideUnavailable); err != nil {
			h.writePrefsError(w, r, err, "updating settings")
			return
		}
	}
	if req.Theme != nil {
		if err := h.state.SetTheme(r.Context(), *req.Theme); err != nil {
			h.writePrefsError(w, r, err, "updating settings")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// writePrefsError maps preference-store errors onto problem responses.
func (h *Handler) writePrefsError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, prefs.ErrNotFound):
		server.NotFound(w, "no such entry", r.URL.Path)
	case errors.Is(err, prefs.ErrRatingRange):
		server.BadRequest(w, "rating must be between 1 and 5", r.URL.Path)
	default:
		h.logger.Error(action+" failed", zap.Error(err))
		server.InternalError(w, "preference store failure", r.URL.Path)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
