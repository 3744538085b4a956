package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

// UpstreamError reports a non-2xx response from the metadata API.
type UpstreamError struct {
	StatusCode int
	Path       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tmdb %d %s", e.StatusCode, e.Path)
}

// TransportError reports a request that could not be sent or timed out.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tmdb request %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// tmdbClient issues authenticated GET requests against the metadata API and
// memoizes successful payloads. Failures propagate immediately; there is no
// retry policy.
type tmdbClient struct {
	baseURL  string
	token    string
	language string
	region   string
	httpc    *http.Client
	cache    *responseCache

	defaultTTL  time.Duration
	trendingTTL time.Duration
}

func newTMDBClient(token, language, region string, httpc *http.Client, cache *responseCache) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if cache == nil {
		cache = newResponseCache()
	}
	return &tmdbClient{
		baseURL:     tmdbBaseURL,
		token:       strings.TrimSpace(token),
		language:    language,
		region:      region,
		httpc:       httpc,
		cache:       cache,
		defaultTTL:  30 * time.Minute,
		trendingTTL: time.Hour,
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.token != ""
}

// fetchResource performs a single authenticated GET against path, returning
// the raw JSON payload. Identical (path, params) requests within ttl are
// served from the cache without a network round-trip.
func (c *tmdbClient) fetchResource(ctx context.Context, path string, params url.Values, ttl time.Duration) (json.RawMessage, error) {
	encoded := params.Encode()
	key := cacheKey(path, encoded)
	if payload, ok := c.cache.get(key); ok {
		return payload, nil
	}

	endpoint := c.baseURL + path
	if encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Path: path}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	c.cache.set(key, payload, ttl)
	return payload, nil
}

func (c *tmdbClient) fetchInto(ctx context.Context, path string, params url.Values, ttl time.Duration, v any) error {
	payload, err := c.fetchResource(ctx, path, params, ttl)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, v)
}

// invalidate drops the cached payload for a single (path, params) pair.
func (c *tmdbClient) invalidate(path string, params url.Values) {
	c.cache.invalidate(cacheKey(path, params.Encode()))
}

func (c *tmdbClient) clearCache() {
	c.cache.clear()
}

func (c *tmdbClient) baseParams() url.Values {
	params := url.Values{}
	if lang := strings.TrimSpace(c.language); lang != "" {
		params.Set("language", lang)
	} else {
		params.Set("language", "en-US")
	}
	return params
}

func (c *tmdbClient) regionParams() url.Values {
	params := c.baseParams()
	if region := strings.TrimSpace(c.region); region != "" {
		params.Set("region", region)
	}
	return params
}

// Raw upstream payload shapes. Field names follow the wire format.

type tmdbListPayload struct {
	Page    int            `json:"page"`
	Results []tmdbListItem `json:"results"`
}

type tmdbListItem struct {
	ID                 int64          `json:"id"`
	Title              string         `json:"title"`
	Name               string         `json:"name"`
	OriginalTitle      string         `json:"original_title"`
	OriginalName       string         `json:"original_name"`
	MediaType          string         `json:"media_type"`
	PosterPath         string         `json:"poster_path"`
	BackdropPath       string         `json:"backdrop_path"`
	ProfilePath        string         `json:"profile_path"`
	ReleaseDate        string         `json:"release_date"`
	FirstAirDate       string         `json:"first_air_date"`
	Popularity         float64        `json:"popularity"`
	VoteAverage        float64        `json:"vote_average"`
	KnownForDepartment string         `json:"known_for_department"`
	KnownFor           []tmdbKnownFor `json:"known_for"`
}

type tmdbKnownFor struct {
	Title string `json:"title"`
	Name  string `json:"name"`
}

type tmdbGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbCompany struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbCreator struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbMovieDetail struct {
	ID                  int64         `json:"id"`
	Title               string        `json:"title"`
	OriginalTitle       string        `json:"original_title"`
	Overview            string        `json:"overview"`
	Status              string        `json:"status"`
	Genres              []tmdbGenre   `json:"genres"`
	Runtime             *int          `json:"runtime"`
	ReleaseDate         string        `json:"release_date"`
	PosterPath          string        `json:"poster_path"`
	BackdropPath        string        `json:"backdrop_path"`
	VoteAverage         float64       `json:"vote_average"`
	Budget              int64         `json:"budget"`
	Revenue             int64         `json:"revenue"`
	ProductionCompanies []tmdbCompany `json:"production_companies"`
}

type tmdbTVDetail struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	OriginalName     string        `json:"original_name"`
	Overview         string        `json:"overview"`
	Status           string        `json:"status"`
	Genres           []tmdbGenre   `json:"genres"`
	EpisodeRunTime   []int         `json:"episode_run_time"`
	FirstAirDate     string        `json:"first_air_date"`
	PosterPath       string        `json:"poster_path"`
	BackdropPath     string        `json:"backdrop_path"`
	VoteAverage      float64       `json:"vote_average"`
	NumberOfSeasons  int           `json:"number_of_seasons"`
	NumberOfEpisodes int           `json:"number_of_episodes"`
	Networks         []tmdbCompany `json:"networks"`
	CreatedBy        []tmdbCreator `json:"created_by"`
}

type tmdbPersonDetail struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	Birthday           string  `json:"birthday"`
	Deathday           string  `json:"deathday"`
	PlaceOfBirth       string  `json:"place_of_birth"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        string  `json:"profile_path"`
}

type tmdbCreditsPayload struct {
	ID   int64           `json:"id"`
	Cast []tmdbCastEntry `json:"cast"`
	Crew []tmdbCrewEntry `json:"crew"`
}

type tmdbCastEntry struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	CreditID    string `json:"credit_id"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path"`
}

type tmdbCrewEntry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
	CreditID   string `json:"credit_id"`
}

type tmdbVideosPayload struct {
	ID      int64       `json:"id"`
	Results []tmdbVideo `json:"results"`
}

type tmdbVideo struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Listing endpoints.

func (c *tmdbClient) trendingMovies(ctx context.Context, window string) (tmdbListPayload, error) {
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/trending/movie/"+window, c.regionParams(), c.trendingTTL, &payload)
	return payload, err
}

func (c *tmdbClient) trendingAll(ctx context.Context) (tmdbListPayload, error) {
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/trending/all/day", c.regionParams(), c.trendingTTL, &payload)
	return payload, err
}

func (c *tmdbClient) popularMovies(ctx context.Context, page int) (tmdbListPayload, error) {
	params := c.regionParams()
	params.Set("page", strconv.Itoa(page))
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/movie/popular", params, c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) nowPlaying(ctx context.Context, page int) (tmdbListPayload, error) {
	params := c.regionParams()
	params.Set("page", strconv.Itoa(page))
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/movie/now_playing", params, c.defaultTTL, &payload)
	return payload, err
}

// discoverStreaming lists popular titles currently on streaming services in
// the configured watch region.
func (c *tmdbClient) discoverStreaming(ctx context.Context, page int) (tmdbListPayload, error) {
	params := c.regionParams()
	if region := strings.TrimSpace(c.region); region != "" {
		params.Set("watch_region", region)
	}
	params.Set("with_watch_monetization_types", "flatrate,free,ads")
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(page))
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/discover/movie", params, c.trendingTTL, &payload)
	return payload, err
}

func (c *tmdbClient) topRatedMovies(ctx context.Context, page int) (tmdbListPayload, error) {
	params := c.baseParams()
	params.Set("page", strconv.Itoa(page))
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/movie/top_rated", params, c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) popularTV(ctx context.Context, page int) (tmdbListPayload, error) {
	params := c.baseParams()
	params.Set("page", strconv.Itoa(page))
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/tv/popular", params, c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) popularPeople(ctx context.Context, page int) (tmdbListPayload, error) {
	params := c.baseParams()
	params.Set("page", strconv.Itoa(page))
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/person/popular", params, c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) searchTV(ctx context.Context, query string, page int) (tmdbListPayload, error) {
	params := c.baseParams()
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/search/tv", params, c.defaultTTL, &payload)
	return payload, err
}

// Detail endpoints.

func (c *tmdbClient) movieDetails(ctx context.Context, id int64) (tmdbMovieDetail, error) {
	var payload tmdbMovieDetail
	err := c.fetchInto(ctx, "/movie/"+strconv.FormatInt(id, 10), c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) movieCredits(ctx context.Context, id int64) (tmdbCreditsPayload, error) {
	var payload tmdbCreditsPayload
	err := c.fetchInto(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/credits", c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) movieRecommendations(ctx context.Context, id int64) (tmdbListPayload, error) {
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/recommendations", c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) movieVideos(ctx context.Context, id int64) (tmdbVideosPayload, error) {
	var payload tmdbVideosPayload
	err := c.fetchInto(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/videos", c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) tvDetails(ctx context.Context, id int64) (tmdbTVDetail, error) {
	var payload tmdbTVDetail
	err := c.fetchInto(ctx, "/tv/"+strconv.FormatInt(id, 10), c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) tvCredits(ctx context.Context, id int64) (tmdbCreditsPayload, error) {
	var payload tmdbCreditsPayload
	err := c.fetchInto(ctx, "/tv/"+strconv.FormatInt(id, 10)+"/credits", c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) tvRecommendations(ctx context.Context, id int64) (tmdbListPayload, error) {
	var payload tmdbListPayload
	err := c.fetchInto(ctx, "/tv/"+strconv.FormatInt(id, 10)+"/recommendations", c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) tvVideos(ctx context.Context, id int64) (tmdbVideosPayload, error) {
	var payload tmdbVideosPayload
	err := c.fetchInto(ctx, "/tv/"+strconv.FormatInt(id, 10)+"/videos", c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}

func (c *tmdbClient) personDetails(ctx context.Context, id int64) (tmdbPersonDetail, error) {
	var payload tmdbPersonDetail
	err := c.fetchInto(ctx, "/person/"+strconv.FormatInt(id, 10), c.baseParams(), c.defaultTTL, &payload)
	return payload, err
}
