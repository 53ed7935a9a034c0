package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/casklist/casklist/pkg/models"
)

// Source supplies the current drink snapshot. The browse state
// implements it; the handler never mutates what it is given.
type Source interface {
	Drinks() []models.Drink
}

// DrinkListResponse is the response for GET /api/v1/drinks.
type DrinkListResponse struct {
	Count  int            `json:"count"`
	Drinks []models.Drink `json:"drinks"`
}

// MetaResponse is the response for GET /api/v1/drinks/meta.
type MetaResponse struct {
	Categories []models.Category       `json:"categories"`
	Counts     map[models.Category]int `json:"counts"`
	Styles     []string                `json:"styles"`
}

// Handler serves the read-only drinks API.
type Handler struct {
	source Source
	logger *zap.Logger
}

// NewHandler creates a new drinks API handler.
func NewHandler(source Source, logger *zap.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/drinks", h.handleList)
	mux.HandleFunc("GET /api/v1/drinks/meta", h.handleMeta)
	mux.HandleFunc("GET /api/v1/drinks/{id}/similar", h.handleSimilar)
}

var sortKeys = map[SortKey]bool{
	SortNameAsc:  true,
	SortNameDesc: true,
	SortABVHigh:  true,
	SortABVLow:   true,
	SortBrewery:  true,
	SortStyle:    true,
}

// handleList returns the drinks matching the query parameters, in the
// requested order. Unfiltered when no parameters are given.
//
//	@Summary		List drinks
//	@Description	Returns the drinks passing the given filters, sorted by the requested key. No parameters returns the full list in feed order.
//	@Tags			drinks
//	@Produce		json
//	@Param			category query string false "Beverage category (beer, cider, perry, mead, wine)"
//	@Param			style query []string false "Style labels, OR semantics" collectionFormat(multi)
//	@Param			q query string false "Case-insensitive search over name, brewery, style, and notes"
//	@Param			sort query string false "Sort key (name_asc, name_desc, abv_high, abv_low, brewery, style)"
//	@Param			favorites query bool false "Only favorited drinks"
//	@Param			hide_unavailable query bool false "Drop sold-out and not-yet-available drinks"
//	@Success		200 {object} DrinkListResponse
//	@Failure		400 {object} map[string]any
//	@Router			/drinks [get]
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := Query{
		Category: models.Category(params.Get("category")),
		Styles:   params["style"],
		Search:   params.Get("q"),
		Sort:     SortKey(params.Get("sort")),
	}
	if q.Sort != "" && !sortKeys[q.Sort] {
		writeError(w, http.StatusBadRequest, "unknown sort key "+strconv.Quote(string(q.Sort)))
		return
	}

	var err error
	if q.FavoritesOnly, err = boolParam(params.Get("favorites")); err != nil {
		writeError(w, http.StatusBadRequest, "favorites must be true or false")
		return
	}
	if q.HideUnavailable, err = boolParam(params.Get("hide_unavailable")); err != nil {
		writeError(w, http.StatusBadRequest, "hide_unavailable must be true or false")
		return
	}

	drinks := Visible(h.source.Drinks(), q)
	writeJSON(w, http.StatusOK, DrinkListResponse{
		Count:  len(drinks),
		Drinks: drinks,
	})
}

// handleMeta returns the category chips and the style picker contents.
// The optional category parameter scopes the style list; counts always
// cover the whole set.
//
//	@Summary		Drink list metadata
//	@Description	Returns distinct categories, unfiltered per-category counts, and the style picker contents for an optional category scope.
//	@Tags			drinks
//	@Produce		json
//	@Param			category query string false "Scope the style list to one category"
//	@Success		200 {object} MetaResponse
//	@Router			/drinks/meta [get]
func (h *Handler) handleMeta(w http.ResponseWriter, r *http.Request) {
	drinks := h.source.Drinks()
	category := models.Category(r.URL.Query().Get("category"))

	categories := Categories(drinks)
	if categories == nil {
		categories = []models.Category{}
	}
	styles := Styles(drinks, category)
	if styles == nil {
		styles = []string{}
	}

	writeJSON(w, http.StatusOK, MetaResponse{
		Categories: categories,
		Counts:     CategoryCounts(drinks),
		Styles:     styles,
	})
}

// handleSimilar returns drinks related to the one named in the path,
// capped by the optional limit parameter.
//
//	@Summary		Similar drinks
//	@Description	Returns drinks sharing the reference drink's style at a similar strength, or from the same brewery, ordered by ABV proximity.
//	@Tags			drinks
//	@Produce		json
//	@Param			id path string true "Product ID"
//	@Param			limit query int false "Cap the result list"
//	@Success		200 {array} SimilarDrink
//	@Failure		400 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Router			/drinks/{id}/similar [get]
func (h *Handler) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	drinks := h.source.Drinks()
	var ref *models.Drink
	for i := range drinks {
		if drinks[i].ID == id {
			ref = &drinks[i]
			break
		}
	}
	if ref == nil {
		writeError(w, http.StatusNotFound, "no drink with id "+strconv.Quote(id))
		return
	}

	similar := Similar(drinks, *ref)
	if limit > 0 && len(similar) > limit {
		similar = similar[:limit]
	}
	if similar == nil {
		similar = []SimilarDrink{}
	}

	writeJSON(w, http.StatusOK, similar)
}

func boolParam(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://casklist.dev/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
