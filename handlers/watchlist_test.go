package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"cinefeed/handlers"
	"cinefeed/models"
	"cinefeed/services/watchlist"
)

func newWatchlistHandler(t *testing.T) *handlers.WatchlistHandler {
	t.Helper()
	svc, err := watchlist.NewService(afero.NewMemMapFs(), "data")
	if err != nil {
		t.Fatalf("failed to create watchlist service: %v", err)
	}
	return handlers.NewWatchlistHandler(svc)
}

func TestWatchlistAddAndList(t *testing.T) {
	h := newWatchlistHandler(t)

	payload, _ := json.Marshal(models.WatchlistEntry{ID: 603, MediaType: "movie", Title: "The Matrix"})
	req := httptest.NewRequest(http.MethodPost, "/api/watchlist", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Add(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	reqList := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	recList := httptest.NewRecorder()
	h.List(recList, reqList)

	var resp handlers.WatchlistResponse
	if err := json.Unmarshal(recList.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %+v", resp)
	}
	if resp.Items[0].Title != "The Matrix" || resp.Items[0].MediaType != "movie" {
		t.Fatalf("unexpected item: %+v", resp.Items[0])
	}
}

func TestWatchlistAddValidation(t *testing.T) {
	h := newWatchlistHandler(t)

	cases := []models.WatchlistEntry{
		{ID: 0, MediaType: "movie", Title: "No ID"},
		{ID: 1, MediaType: "person", Title: "Wrong type"},
	}
	for _, c := range cases {
		payload, _ := json.Marshal(c)
		req := httptest.NewRequest(http.MethodPost, "/api/watchlist", bytes.NewReader(payload))
		rec := httptest.NewRecorder()
		h.Add(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %+v, got %d", c, rec.Code)
		}
	}
}

func TestWatchlistRemove(t *testing.T) {
	h := newWatchlistHandler(t)

	for _, e := range []models.WatchlistEntry{
		{ID: 1, MediaType: "movie", Title: "A"},
		{ID: 2, MediaType: "tv", Title: "B"},
	} {
		payload, _ := json.Marshal(e)
		req := httptest.NewRequest(http.MethodPost, "/api/watchlist", bytes.NewReader(payload))
		h.Add(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/watchlist/movie/1", nil)
	req = mux.SetURLVars(req, map[string]string{"mediaType": "movie", "id": "1"})
	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp handlers.WatchlistResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode remove response: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].ID != 2 {
		t.Fatalf("expected only B to remain, got %+v", resp)
	}
}

func TestWatchlistClear(t *testing.T) {
	h := newWatchlistHandler(t)

	payload, _ := json.Marshal(models.WatchlistEntry{ID: 1, MediaType: "movie", Title: "A"})
	h.Add(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/watchlist", bytes.NewReader(payload)))

	rec := httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodDelete, "/api/watchlist", nil))

	var resp handlers.WatchlistResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode clear response: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("expected empty list after clear, got %+v", resp)
	}
}
