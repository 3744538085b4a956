package models

import "strconv"

// WatchlistEntry is one saved title. The JSON field names are the persisted
// wire format and must not change: the stored value is a plain array of these
// objects, newest first.
type WatchlistEntry struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"` // movie | tv
	Title        string  `json:"title"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  *string `json:"release_date"`
}

// Key returns the identity of the entry within the watch list.
func (e WatchlistEntry) Key() string {
	return e.MediaType + ":" + strconv.FormatInt(e.ID, 10)
}
