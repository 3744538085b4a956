package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"cinefeed/handlers"
)

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	catalogHandler *handlers.CatalogHandler,
	detailsHandler *handlers.DetailsHandler,
	watchlistHandler *handlers.WatchlistHandler,
) {
	api := r.PathPrefix("/api").Subrouter()

	api.Use(corsMiddleware)
	api.Use(requestIDMiddleware)

	// Listings
	api.HandleFunc("/catalog/trending", catalogHandler.Trending).Methods(http.MethodGet)
	api.HandleFunc("/catalog/trending", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/trending-all", catalogHandler.TrendingAll).Methods(http.MethodGet)
	api.HandleFunc("/catalog/trending-all", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/movies/popular", catalogHandler.Popular).Methods(http.MethodGet)
	api.HandleFunc("/catalog/movies/popular", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/movies/now-playing", catalogHandler.NowPlaying).Methods(http.MethodGet)
	api.HandleFunc("/catalog/movies/now-playing", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/movies/streaming", catalogHandler.Streaming).Methods(http.MethodGet)
	api.HandleFunc("/catalog/movies/streaming", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/movies/top-rated", catalogHandler.TopRated).Methods(http.MethodGet)
	api.HandleFunc("/catalog/movies/top-rated", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/tv/popular", catalogHandler.PopularTV).Methods(http.MethodGet)
	api.HandleFunc("/catalog/tv/popular", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/tv/search", catalogHandler.SearchTV).Methods(http.MethodGet)
	api.HandleFunc("/catalog/tv/search", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/people/popular", catalogHandler.PopularPeople).Methods(http.MethodGet)
	api.HandleFunc("/catalog/people/popular", handleOptions).Methods(http.MethodOptions)

	// Detail pages. Static listing paths above register first so they are
	// not swallowed by the {id} routes.
	api.HandleFunc("/catalog/movies/{id:[0-9]+}", detailsHandler.Movie).Methods(http.MethodGet)
	api.HandleFunc("/catalog/movies/{id:[0-9]+}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/tv/{id:[0-9]+}", detailsHandler.TV).Methods(http.MethodGet)
	api.HandleFunc("/catalog/tv/{id:[0-9]+}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/catalog/people/{id:[0-9]+}", detailsHandler.Person).Methods(http.MethodGet)
	api.HandleFunc("/catalog/people/{id:[0-9]+}", handleOptions).Methods(http.MethodOptions)

	// Watch list
	api.HandleFunc("/watchlist", watchlistHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/watchlist", watchlistHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/watchlist", watchlistHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/watchlist", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/watchlist/{mediaType}/{id:[0-9]+}", watchlistHandler.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/watchlist/{mediaType}/{id:[0-9]+}", handleOptions).Methods(http.MethodOptions)

	// Admin
	api.HandleFunc("/admin/cache/clear", catalogHandler.ClearCache).Methods(http.MethodPost)
	api.HandleFunc("/admin/cache/clear", handleOptions).Methods(http.MethodOptions)

	// Version endpoint (public)
	versionHandler := handlers.NewVersionHandler()
	api.HandleFunc("/version", versionHandler.GetVersion).Methods(http.MethodGet, http.MethodOptions)
}
