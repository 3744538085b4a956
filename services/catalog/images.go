package catalog

const (
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/"
	// w500 is plenty for poster cards; detail backdrops use w1280.
	defaultImageSize  = "w500"
	backdropImageSize = "w1280"
	castImageSize     = "w300"

	placeholderImage = "/placeholder.png"
)

// resolveImageURL maps an optional upstream image path and a size token to a
// fully qualified URL. An absent path resolves to the local placeholder. The
// path is appended verbatim (upstream paths carry their own leading slash).
func resolveImageURL(path, size string) string {
	if path == "" {
		return placeholderImage
	}
	if size == "" {
		size = defaultImageSize
	}
	return tmdbImageBaseURL + size + path
}
