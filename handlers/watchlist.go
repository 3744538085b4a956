package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"cinefeed/models"
	watchlistpkg "cinefeed/services/watchlist"
)

type watchlistService interface {
	List() []models.WatchlistEntry
	Add(models.WatchlistEntry) []models.WatchlistEntry
	Remove(mediaType string, id int64) []models.WatchlistEntry
	Clear()
}

var _ watchlistService = (*watchlistpkg.Service)(nil)

// WatchlistResponse carries the full saved sequence, newest first.
type WatchlistResponse struct {
	Items []models.WatchlistEntry `json:"items"`
	Total int                     `json:"total"`
}

type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(s watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: s}
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Service.List()
	writeJSON(w, http.StatusOK, WatchlistResponse{Items: items, Total: len(items)})
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var entry models.WatchlistEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	entry.MediaType = strings.ToLower(strings.TrimSpace(entry.MediaType))
	if entry.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}
	if entry.MediaType != models.MediaTypeMovie && entry.MediaType != models.MediaTypeTV {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "media type must be movie or tv"})
		return
	}

	items := h.Service.Add(entry)
	writeJSON(w, http.StatusOK, WatchlistResponse{Items: items, Total: len(items)})
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mediaType := strings.ToLower(strings.TrimSpace(vars["mediaType"]))
	id := pathID(r)
	if mediaType == "" || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "media type and id are required"})
		return
	}

	items := h.Service.Remove(mediaType, id)
	writeJSON(w, http.StatusOK, WatchlistResponse{Items: items, Total: len(items)})
}

func (h *WatchlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Service.Clear()
	writeJSON(w, http.StatusOK, WatchlistResponse{Items: []models.WatchlistEntry{}, Total: 0})
}
