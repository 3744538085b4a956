package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"cinefeed/models"
	catalogpkg "cinefeed/services/catalog"
)

type catalogService interface {
	TrendingMovies(context.Context, string) ([]models.CatalogItem, error)
	TrendingAll(context.Context) ([]models.CatalogItem, error)
	PopularMovies(context.Context, int) ([]models.CatalogItem, error)
	NowPlaying(context.Context, int) ([]models.CatalogItem, error)
	DiscoverStreaming(context.Context, int) ([]models.CatalogItem, error)
	TopRatedMovies(context.Context) ([]models.CatalogItem, error)
	PopularTV(context.Context) ([]models.CatalogItem, error)
	PopularPeople(context.Context) ([]models.CatalogItem, error)
	SearchTV(context.Context, string) ([]models.CatalogItem, error)
	ClearCache()
}

var _ catalogService = (*catalogpkg.Service)(nil)

// ListingResponse wraps catalog items with their count.
type ListingResponse struct {
	Items []models.CatalogItem `json:"items"`
	Total int                  `json:"total"`
}

type CatalogHandler struct {
	Service catalogService
}

func NewCatalogHandler(s catalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	window := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("window")))
	items, err := h.Service.TrendingMovies(r.Context(), window)
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) TrendingAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.TrendingAll(r.Context())
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) Popular(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.PopularMovies(r.Context(), queryPage(r))
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.NowPlaying(r.Context(), queryPage(r))
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) Streaming(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.DiscoverStreaming(r.Context(), queryPage(r))
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.TopRatedMovies(r.Context())
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) PopularTV(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.PopularTV(r.Context())
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) PopularPeople(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.PopularPeople(r.Context())
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) SearchTV(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.SearchTV(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeListingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListingResponse{Items: items, Total: len(items)})
}

func (h *CatalogHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.Service.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// writeListingError maps service failures onto listing responses: bad input
// is the caller's fault, a missing credential is a server misconfiguration,
// anything else is an upstream problem.
func writeListingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogpkg.ErrQueryRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, catalogpkg.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		log.Printf("[api] listing failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

func queryPage(r *http.Request) int {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}
