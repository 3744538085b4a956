package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cinefeed/models"
	catalogpkg "cinefeed/services/catalog"
)

type detailsService interface {
	MovieDetails(context.Context, int64) (*models.TitleDetails, error)
	TVDetails(context.Context, int64) (*models.TitleDetails, error)
	PersonDetails(context.Context, int64) (*models.PersonDetails, error)
}

var _ detailsService = (*catalogpkg.Service)(nil)

type DetailsHandler struct {
	Service detailsService
}

func NewDetailsHandler(s detailsService) *DetailsHandler {
	return &DetailsHandler{Service: s}
}

// Movie serves the movie detail view model. Any failure in the underlying
// joined fetches renders as not-found; the client never receives a partial
// detail page.
func (h *DetailsHandler) Movie(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	details, err := h.Service.MovieDetails(r.Context(), id)
	if err != nil {
		writeNotFound(w, "movie", id, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// TV serves the show detail view model with the same failure mapping as Movie.
func (h *DetailsHandler) TV(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	details, err := h.Service.TVDetails(r.Context(), id)
	if err != nil {
		writeNotFound(w, "tv", id, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// Person serves the artist detail view model.
func (h *DetailsHandler) Person(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	details, err := h.Service.PersonDetails(r.Context(), id)
	if err != nil {
		writeNotFound(w, "person", id, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func writeNotFound(w http.ResponseWriter, kind string, id int64, err error) {
	log.Printf("[api] %s details id=%d unavailable: %v", kind, id, err)
	writeJSON(w, http.StatusNotFound, map[string]string{"error": kind + " not found"})
}

func pathID(r *http.Request) int64 {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
