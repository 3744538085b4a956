package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinefeed/models"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewService("test-token", "en-US", "ID", 0, 0)
	s.client.baseURL = srv.URL
	s.client.httpc = srv.Client()
	return s
}

func movieDetailMux(failVideos bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"overview": "A hacker learns the truth.",
			"status": "Released",
			"genres": [{"id": 28, "name": "Action"}],
			"runtime": 136,
			"release_date": "1999-03-30",
			"poster_path": "/matrix.jpg",
			"backdrop_path": "/matrix-bd.jpg",
			"vote_average": 8.2,
			"budget": 63000000,
			"revenue": 463517383,
			"production_companies": [{"id": 79, "name": "Village Roadshow Pictures"}]
		}`))
	})
	mux.HandleFunc("/movie/603/credits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 603,
			"cast": [
				{"id": 1, "name": "Keanu Reeves", "character": "Neo", "credit_id": "c1", "order": 0, "profile_path": "/keanu.jpg"}
			],
			"crew": [
				{"id": 2, "name": "Lana Wachowski", "job": "Director", "department": "Directing", "credit_id": "c2"},
				{"id": 3, "name": "Lilly Wachowski", "job": "Writer", "department": "Writing", "credit_id": "c3"}
			]
		}`))
	})
	mux.HandleFunc("/movie/603/recommendations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[{"id":604,"title":"Reloaded","poster_path":"/r.jpg","release_date":"2003-05-15"}]}`))
	})
	mux.HandleFunc("/movie/603/videos", func(w http.ResponseWriter, r *http.Request) {
		if failVideos {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id":603,"results":[{"name":"Official Trailer","key":"vKQi3bBA1y8","site":"YouTube","type":"Trailer","official":true}]}`))
	})
	return mux
}

func TestMovieDetailsBuildsViewModel(t *testing.T) {
	s := newTestService(t, movieDetailMux(false))

	details, err := s.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if details.Title != "The Matrix" || details.Year != "1999" {
		t.Fatalf("unexpected title/year: %q %q", details.Title, details.Year)
	}
	if details.RuntimeText != "2h 16m" {
		t.Fatalf("unexpected runtime text: %q", details.RuntimeText)
	}
	if details.TrailerKey != "vKQi3bBA1y8" {
		t.Fatalf("unexpected trailer key: %q", details.TrailerKey)
	}
	if details.TrailerURL != "https://www.youtube.com/watch?v=vKQi3bBA1y8" {
		t.Fatalf("unexpected trailer url: %q", details.TrailerURL)
	}
	if details.Director == nil || details.Director.Name != "Lana Wachowski" {
		t.Fatalf("unexpected director: %+v", details.Director)
	}
	if len(details.Writers) != 1 || details.Writers[0].Name != "Lilly Wachowski" {
		t.Fatalf("unexpected writers: %+v", details.Writers)
	}
	if len(details.TopCast) != 1 || details.TopCast[0].Character != "Neo" {
		t.Fatalf("unexpected cast: %+v", details.TopCast)
	}
	if len(details.Recommendations) != 1 || details.Recommendations[0].ID != 604 {
		t.Fatalf("unexpected recommendations: %+v", details.Recommendations)
	}
	if details.PosterURL != tmdbImageBaseURL+defaultImageSize+"/matrix.jpg" {
		t.Fatalf("unexpected poster url: %q", details.PosterURL)
	}
}

func TestMovieDetailsFailsAsUnit(t *testing.T) {
	s := newTestService(t, movieDetailMux(true))

	details, err := s.MovieDetails(context.Background(), 603)
	if err == nil {
		t.Fatalf("expected error when one fetch fails")
	}
	if details != nil {
		t.Fatalf("expected no partial view model, got %+v", details)
	}
}

func TestMovieDetailsInvalidID(t *testing.T) {
	s := newTestService(t, http.NewServeMux())
	if _, err := s.MovieDetails(context.Background(), 0); !errors.Is(err, ErrTitleNotFound) {
		t.Fatalf("expected ErrTitleNotFound, got %v", err)
	}
}

func TestTVDetailsBuildsViewModel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 1396,
			"name": "Breaking Bad",
			"overview": "A chemistry teacher turns to crime.",
			"status": "Ended",
			"genres": [{"id": 18, "name": "Drama"}],
			"episode_run_time": [47, 60],
			"first_air_date": "2008-01-20",
			"poster_path": "/bb.jpg",
			"backdrop_path": "/bb-bd.jpg",
			"vote_average": 8.9,
			"number_of_seasons": 5,
			"number_of_episodes": 62,
			"networks": [{"id": 174, "name": "AMC"}],
			"created_by": [{"id": 66633, "name": "Vince Gilligan"}]
		}`))
	})
	mux.HandleFunc("/tv/1396/credits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1396,"cast":[],"crew":[{"id":9,"name":"Writer Person","job":"Staff Writer","department":"Writing","credit_id":"c9"}]}`))
	})
	mux.HandleFunc("/tv/1396/recommendations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[]}`))
	})
	mux.HandleFunc("/tv/1396/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1396,"results":[]}`))
	})

	s := newTestService(t, mux)
	details, err := s.TVDetails(context.Background(), 1396)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if details.MediaType != models.MediaTypeTV || details.Title != "Breaking Bad" {
		t.Fatalf("unexpected identity: %+v", details)
	}
	if details.RuntimeText != "47m / ep" {
		t.Fatalf("unexpected runtime text: %q", details.RuntimeText)
	}
	if details.SeasonCount != 5 || details.EpisodeCount != 62 {
		t.Fatalf("unexpected counts: %d/%d", details.SeasonCount, details.EpisodeCount)
	}
	if len(details.CreatedBy) != 1 || details.CreatedBy[0] != "Vince Gilligan" {
		t.Fatalf("unexpected creators: %+v", details.CreatedBy)
	}
	if len(details.Writers) != 1 || details.Writers[0].Name != "Writer Person" {
		t.Fatalf("unexpected writers: %+v", details.Writers)
	}
	if details.TrailerKey != "" {
		t.Fatalf("expected no trailer, got %q", details.TrailerKey)
	}
}

func TestPersonDetailsComputesAge(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/person/6384", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 6384,
			"name": "Keanu Reeves",
			"biography": "Canadian actor.",
			"birthday": "1964-09-02",
			"deathday": "",
			"place_of_birth": "Beirut, Lebanon",
			"known_for_department": "Acting",
			"popularity": 50.5,
			"profile_path": "/keanu.jpg"
		}`))
	})

	s := newTestService(t, mux)
	s.now = func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) }

	person, err := s.PersonDetails(context.Background(), 6384)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if person.Age == nil || *person.Age != 61 {
		t.Fatalf("unexpected age: %v", person.Age)
	}
	if person.ProfileURL != tmdbImageBaseURL+defaultImageSize+"/keanu.jpg" {
		t.Fatalf("unexpected profile url: %q", person.ProfileURL)
	}
}

func TestPersonDetailsNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/person/999", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":0}`))
	})

	s := newTestService(t, mux)
	if _, err := s.PersonDetails(context.Background(), 999); !errors.Is(err, ErrPersonNotFound) {
		t.Fatalf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestTrendingAllDropsItemsWithoutArtwork(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trending/all/day", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[
			{"id":1,"media_type":"movie","title":"No Art"},
			{"id":2,"media_type":"tv","name":"Has Art","poster_path":"/p.jpg","first_air_date":"2020-02-02"}
		]}`))
	})

	s := newTestService(t, mux)
	items, err := s.TrendingAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].MediaType != models.MediaTypeTV || items[0].Title != "Has Art" || items[0].Year != "2020" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestSearchTVRequiresQuery(t *testing.T) {
	s := newTestService(t, http.NewServeMux())
	if _, err := s.SearchTV(context.Background(), "   "); !errors.Is(err, ErrQueryRequired) {
		t.Fatalf("expected ErrQueryRequired, got %v", err)
	}
}

func TestListingsRequireToken(t *testing.T) {
	s := NewService("", "en-US", "", 0, 0)
	if _, err := s.TrendingMovies(context.Background(), "day"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := s.MovieDetails(context.Background(), 1); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for details, got %v", err)
	}
}

func TestMapListItemPersonKnownFor(t *testing.T) {
	raw := tmdbListItem{
		ID:          100,
		Name:        "Famous Person",
		ProfilePath: "/fp.jpg",
		KnownFor: []tmdbKnownFor{
			{Title: "Movie One"},
			{Name: "Show Two"},
			{Title: "Movie Three"},
		},
	}
	got := mapListItem(raw, models.MediaTypePerson)
	if got.Title != "Famous Person" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
	if len(got.KnownFor) != 2 || got.KnownFor[0] != "Movie One" || got.KnownFor[1] != "Show Two" {
		t.Fatalf("unexpected known-for: %+v", got.KnownFor)
	}
	if got.ProfileURL != tmdbImageBaseURL+defaultImageSize+"/fp.jpg" {
		t.Fatalf("unexpected profile url: %q", got.ProfileURL)
	}
}
