package catalog

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"cinefeed/models"
)

var (
	ErrNotConfigured  = errors.New("tmdb bearer token not configured")
	ErrTitleNotFound  = errors.New("title not found")
	ErrPersonNotFound = errors.New("person not found")
	ErrQueryRequired  = errors.New("search query is required")
)

const (
	// Listing pages fetched per aggregated view. Search issues fewer pages
	// since result quality drops off quickly.
	listingPageCount = 5
	searchPageCount  = 2
)

// Service exposes catalog listings and detail view models backed by the
// upstream metadata API.
type Service struct {
	client *tmdbClient
	now    func() time.Time
}

// NewService constructs a catalog service. The bearer token is the only
// credential; it is threaded explicitly rather than read from the process
// environment.
func NewService(bearerToken, language, region string, responseTTL, trendingTTL time.Duration) *Service {
	client := newTMDBClient(bearerToken, language, region, &http.Client{Timeout: 15 * time.Second}, newResponseCache())
	if responseTTL > 0 {
		client.defaultTTL = responseTTL
	}
	if trendingTTL > 0 {
		client.trendingTTL = trendingTTL
	}
	return &Service{client: client, now: time.Now}
}

// ClearCache drops all memoized upstream payloads.
func (s *Service) ClearCache() {
	s.client.clearCache()
	log.Printf("[catalog] response cache cleared")
}

// TrendingMovies returns the trending movie listing for "day" or "week".
func (s *Service) TrendingMovies(ctx context.Context, window string) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	if window != "week" {
		window = "day"
	}
	payload, err := s.client.trendingMovies(ctx, window)
	if err != nil {
		return nil, err
	}
	return mapListing(payload.Results, models.MediaTypeMovie), nil
}

// TrendingAll returns the cross-media trending listing used for the hero row.
// Items without any artwork are dropped.
func (s *Service) TrendingAll(ctx context.Context) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	payload, err := s.client.trendingAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.CatalogItem, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.PosterPath == "" && r.BackdropPath == "" {
			continue
		}
		items = append(items, mapListItem(r, r.MediaType))
	}
	return items, nil
}

// PopularMovies returns one page of the popular movie listing.
func (s *Service) PopularMovies(ctx context.Context, page int) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}
	payload, err := s.client.popularMovies(ctx, page)
	if err != nil {
		return nil, err
	}
	return mapListing(payload.Results, models.MediaTypeMovie), nil
}

// NowPlaying returns one page of movies currently in theaters.
func (s *Service) NowPlaying(ctx context.Context, page int) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}
	payload, err := s.client.nowPlaying(ctx, page)
	if err != nil {
		return nil, err
	}
	return mapListing(payload.Results, models.MediaTypeMovie), nil
}

// DiscoverStreaming returns one page of popular titles available on
// streaming services in the configured watch region.
func (s *Service) DiscoverStreaming(ctx context.Context, page int) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}
	payload, err := s.client.discoverStreaming(ctx, page)
	if err != nil {
		return nil, err
	}
	return mapListing(payload.Results, models.MediaTypeMovie), nil
}

// TopRatedMovies aggregates the first five pages of the top-rated listing.
func (s *Service) TopRatedMovies(ctx context.Context) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	return aggregatePages(ctx, listingPageCount, func(ctx context.Context, page int) ([]models.CatalogItem, error) {
		payload, err := s.client.topRatedMovies(ctx, page)
		if err != nil {
			return nil, err
		}
		return mapRawListing(payload.Results, models.MediaTypeMovie), nil
	})
}

// PopularTV aggregates the first five pages of the popular TV listing.
func (s *Service) PopularTV(ctx context.Context) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	return aggregatePages(ctx, listingPageCount, func(ctx context.Context, page int) ([]models.CatalogItem, error) {
		payload, err := s.client.popularTV(ctx, page)
		if err != nil {
			return nil, err
		}
		return mapRawListing(payload.Results, models.MediaTypeTV), nil
	})
}

// PopularPeople aggregates the first five pages of the popular people
// listing. People without a profile image are dropped.
func (s *Service) PopularPeople(ctx context.Context) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	return aggregatePages(ctx, listingPageCount, func(ctx context.Context, page int) ([]models.CatalogItem, error) {
		payload, err := s.client.popularPeople(ctx, page)
		if err != nil {
			return nil, err
		}
		return mapRawListing(payload.Results, models.MediaTypePerson), nil
	})
}

// SearchTV aggregates two pages of free-text TV search results.
func (s *Service) SearchTV(ctx context.Context, query string) ([]models.CatalogItem, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	return aggregatePages(ctx, searchPageCount, func(ctx context.Context, page int) ([]models.CatalogItem, error) {
		payload, err := s.client.searchTV(ctx, query, page)
		if err != nil {
			return nil, err
		}
		return mapRawListing(payload.Results, models.MediaTypeTV), nil
	})
}

// MovieDetails fetches a movie's record, credits, recommendations and videos
// concurrently and derives the detail view model. Any one of the four calls
// failing fails the whole build; callers never see a partial view model.
func (s *Service) MovieDetails(ctx context.Context, id int64) (*models.TitleDetails, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	if id <= 0 {
		return nil, ErrTitleNotFound
	}

	var (
		detail  tmdbMovieDetail
		credits tmdbCreditsPayload
		recs    tmdbListPayload
		videos  tmdbVideosPayload
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		detail, err = s.client.movieDetails(ctx, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		credits, err = s.client.movieCredits(ctx, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		recs, err = s.client.movieRecommendations(ctx, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		videos, err = s.client.movieVideos(ctx, id)
		return err
	})
	if err := p.Wait(); err != nil {
		log.Printf("[catalog] movie details fetch failed id=%d: %v", id, err)
		return nil, err
	}

	if detail.ID <= 0 {
		return nil, ErrTitleNotFound
	}
	return buildMovieDetails(detail, credits, recs, videos), nil
}

// TVDetails is the show counterpart of MovieDetails with the same
// all-or-nothing join semantics.
func (s *Service) TVDetails(ctx context.Context, id int64) (*models.TitleDetails, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	if id <= 0 {
		return nil, ErrTitleNotFound
	}

	var (
		detail  tmdbTVDetail
		credits tmdbCreditsPayload
		recs    tmdbListPayload
		videos  tmdbVideosPayload
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		detail, err = s.client.tvDetails(ctx, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		credits, err = s.client.tvCredits(ctx, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		recs, err = s.client.tvRecommendations(ctx, id)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		videos, err = s.client.tvVideos(ctx, id)
		return err
	})
	if err := p.Wait(); err != nil {
		log.Printf("[catalog] tv details fetch failed id=%d: %v", id, err)
		return nil, err
	}

	if detail.ID <= 0 {
		return nil, ErrTitleNotFound
	}
	return buildTVDetails(detail, credits, recs, videos), nil
}

// PersonDetails fetches a person's record and derives the artist view model.
func (s *Service) PersonDetails(ctx context.Context, id int64) (*models.PersonDetails, error) {
	if !s.client.isConfigured() {
		return nil, ErrNotConfigured
	}
	if id <= 0 {
		return nil, ErrPersonNotFound
	}

	person, err := s.client.personDetails(ctx, id)
	if err != nil {
		log.Printf("[catalog] person details fetch failed id=%d: %v", id, err)
		return nil, err
	}
	if person.ID <= 0 {
		return nil, ErrPersonNotFound
	}

	return &models.PersonDetails{
		ID:                 person.ID,
		Name:               person.Name,
		Biography:          person.Biography,
		Birthday:           person.Birthday,
		Deathday:           person.Deathday,
		Age:                calcAge(person.Birthday, person.Deathday, s.now()),
		PlaceOfBirth:       person.PlaceOfBirth,
		KnownForDepartment: person.KnownForDepartment,
		Popularity:         person.Popularity,
		ProfilePath:        person.ProfilePath,
		ProfileURL:         resolveImageURL(person.ProfilePath, defaultImageSize),
	}, nil
}

// mapRawListing converts upstream list items without filtering; the
// aggregator applies the image filter after the merge.
func mapRawListing(results []tmdbListItem, mediaType string) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(results))
	for _, r := range results {
		items = append(items, mapListItem(r, mediaType))
	}
	return items
}

// mapListing converts upstream list items for single-page listings, dropping
// titles without a poster.
func mapListing(results []tmdbListItem, mediaType string) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(results))
	for _, r := range results {
		if r.PosterPath == "" {
			continue
		}
		items = append(items, mapListItem(r, mediaType))
	}
	return items
}

func mapListItem(r tmdbListItem, mediaType string) models.CatalogItem {
	if mediaType == "" {
		mediaType = models.MediaTypeMovie
	}

	item := models.CatalogItem{
		ID:           r.ID,
		MediaType:    mediaType,
		Title:        pickTitle(r),
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		ProfilePath:  r.ProfilePath,
		ReleaseDate:  pickDate(r),
		Popularity:   r.Popularity,
		VoteAverage:  r.VoteAverage,
	}

	if r.OriginalTitle != "" && r.OriginalTitle != item.Title {
		item.OriginalTitle = r.OriginalTitle
	} else if r.OriginalName != "" && r.OriginalName != item.Title {
		item.OriginalTitle = r.OriginalName
	}
	if item.ReleaseDate != "" {
		item.Year = yearOf(item.ReleaseDate)
	}
	if item.PosterPath != "" {
		item.PosterURL = resolveImageURL(item.PosterPath, defaultImageSize)
	}
	if item.BackdropPath != "" {
		item.BackdropURL = resolveImageURL(item.BackdropPath, backdropImageSize)
	}
	if item.ProfilePath != "" {
		item.ProfileURL = resolveImageURL(item.ProfilePath, defaultImageSize)
	}

	if mediaType == models.MediaTypePerson {
		item.KnownFor = knownForTitles(r.KnownFor)
		if len(item.KnownFor) == 0 && r.KnownForDepartment != "" {
			item.KnownFor = []string{r.KnownForDepartment}
		}
	}

	return item
}

// pickTitle prefers the localized title, then the show name, then originals.
func pickTitle(r tmdbListItem) string {
	for _, candidate := range []string{r.Title, r.Name, r.OriginalTitle, r.OriginalName} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func pickDate(r tmdbListItem) string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// knownForTitles keeps the first two named known-for credits.
func knownForTitles(entries []tmdbKnownFor) []string {
	titles := make([]string, 0, 2)
	for _, k := range entries {
		name := k.Title
		if name == "" {
			name = k.Name
		}
		if name == "" {
			continue
		}
		titles = append(titles, name)
		if len(titles) == 2 {
			break
		}
	}
	return titles
}

func buildMovieDetails(d tmdbMovieDetail, credits tmdbCreditsPayload, recs tmdbListPayload, videos tmdbVideosPayload) *models.TitleDetails {
	crew := mapCrew(credits.Crew)
	vids := mapVideos(videos.Results)

	details := &models.TitleDetails{
		ID:                  d.ID,
		MediaType:           models.MediaTypeMovie,
		Title:               d.Title,
		Overview:            d.Overview,
		Status:              d.Status,
		Genres:              genreNames(d.Genres),
		ReleaseDate:         d.ReleaseDate,
		Year:                yearOf(d.ReleaseDate),
		RuntimeText:         formatRuntime(d.Runtime),
		VoteAverage:         d.VoteAverage,
		PosterPath:          d.PosterPath,
		PosterURL:           resolveImageURL(d.PosterPath, defaultImageSize),
		BackdropPath:        d.BackdropPath,
		BackdropURL:         resolveImageURL(d.BackdropPath, backdropImageSize),
		Budget:              d.Budget,
		Revenue:             d.Revenue,
		ProductionCompanies: companyNames(d.ProductionCompanies),
		Director:            pickDirector(crew),
		Writers:             pickMovieWriters(crew),
		TopCast:             limitCast(mapCast(credits.Cast)),
		Recommendations:     limitRecommendations(mapRawListing(recs.Results, models.MediaTypeMovie)),
	}

	if key := pickTrailer(vids); key != "" {
		details.TrailerKey = key
		details.TrailerURL = "https://www.youtube.com/watch?v=" + key
	}

	return details
}

func buildTVDetails(d tmdbTVDetail, credits tmdbCreditsPayload, recs tmdbListPayload, videos tmdbVideosPayload) *models.TitleDetails {
	crew := mapCrew(credits.Crew)
	vids := mapVideos(videos.Results)

	details := &models.TitleDetails{
		ID:              d.ID,
		MediaType:       models.MediaTypeTV,
		Title:           d.Name,
		Overview:        d.Overview,
		Status:          d.Status,
		Genres:          genreNames(d.Genres),
		ReleaseDate:     d.FirstAirDate,
		Year:            yearOf(d.FirstAirDate),
		RuntimeText:     formatEpisodeRuntime(d.EpisodeRunTime),
		VoteAverage:     d.VoteAverage,
		PosterPath:      d.PosterPath,
		PosterURL:       resolveImageURL(d.PosterPath, defaultImageSize),
		BackdropPath:    d.BackdropPath,
		BackdropURL:     resolveImageURL(d.BackdropPath, backdropImageSize),
		SeasonCount:     d.NumberOfSeasons,
		EpisodeCount:    d.NumberOfEpisodes,
		Networks:        companyNames(d.Networks),
		CreatedBy:       creatorNames(d.CreatedBy),
		Director:        pickDirector(crew),
		Writers:         pickShowWriters(crew),
		TopCast:         limitCast(mapCast(credits.Cast)),
		Recommendations: limitRecommendations(mapRawListing(recs.Results, models.MediaTypeTV)),
	}

	if key := pickTrailer(vids); key != "" {
		details.TrailerKey = key
		details.TrailerURL = "https://www.youtube.com/watch?v=" + key
	}

	return details
}

func mapCast(entries []tmdbCastEntry) []models.CastMember {
	cast := make([]models.CastMember, 0, len(entries))
	for _, e := range entries {
		cast = append(cast, models.CastMember{
			ID:         e.ID,
			Name:       e.Name,
			Character:  e.Character,
			CreditID:   e.CreditID,
			Order:      e.Order,
			ProfileURL: resolveImageURL(e.ProfilePath, castImageSize),
		})
	}
	return cast
}

func mapCrew(entries []tmdbCrewEntry) []models.CrewMember {
	crew := make([]models.CrewMember, 0, len(entries))
	for _, e := range entries {
		crew = append(crew, models.CrewMember{
			ID:         e.ID,
			Name:       e.Name,
			Job:        e.Job,
			Department: e.Department,
			CreditID:   e.CreditID,
		})
	}
	return crew
}

func mapVideos(entries []tmdbVideo) []models.Video {
	videos := make([]models.Video, 0, len(entries))
	for _, e := range entries {
		videos = append(videos, models.Video{
			Site:     e.Site,
			Type:     e.Type,
			Official: e.Official,
			Name:     e.Name,
			Key:      e.Key,
		})
	}
	return videos
}

func genreNames(genres []tmdbGenre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

func companyNames(companies []tmdbCompany) []string {
	names := make([]string, 0, len(companies))
	for _, c := range companies {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

func creatorNames(creators []tmdbCreator) []string {
	names := make([]string, 0, creatorsLimit)
	for _, c := range creators {
		if c.Name == "" {
			continue
		}
		names = append(names, c.Name)
		if len(names) == creatorsLimit {
			break
		}
	}
	return names
}
