package models

// Media types used throughout the catalog API.
const (
	MediaTypeMovie  = "movie"
	MediaTypeTV     = "tv"
	MediaTypePerson = "person"
)

// CatalogItem is the minimal movie/TV/person record used in listing views.
// ID and MediaType together form the identity key within any listing.
type CatalogItem struct {
	ID            int64    `json:"id"`
	MediaType     string   `json:"mediaType"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"originalTitle,omitempty"`
	PosterPath    string   `json:"posterPath,omitempty"`
	PosterURL     string   `json:"posterUrl,omitempty"`
	BackdropPath  string   `json:"backdropPath,omitempty"`
	BackdropURL   string   `json:"backdropUrl,omitempty"`
	ProfilePath   string   `json:"profilePath,omitempty"`
	ProfileURL    string   `json:"profileUrl,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
	Year          string   `json:"year,omitempty"`
	Popularity    float64  `json:"popularity,omitempty"`
	VoteAverage   float64  `json:"voteAverage,omitempty"`
	KnownFor      []string `json:"knownFor,omitempty"`
}

// CastMember is one cast credit on a title.
type CastMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Character  string `json:"character"`
	CreditID   string `json:"creditId"`
	Order      int    `json:"order"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

// CrewMember is one crew credit on a title.
type CrewMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
	CreditID   string `json:"creditId"`
}

// Video is a single upstream video record (trailer, teaser, clip).
type Video struct {
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
	Name     string `json:"name"`
	Key      string `json:"key"`
}

// TitleDetails is the display-ready view model for a movie or TV detail page.
type TitleDetails struct {
	ID           int64    `json:"id"`
	MediaType    string   `json:"mediaType"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	Status       string   `json:"status,omitempty"`
	Genres       []string `json:"genres"`
	ReleaseDate  string   `json:"releaseDate,omitempty"`
	Year         string   `json:"year"`
	RuntimeText  string   `json:"runtimeText"`
	VoteAverage  float64  `json:"voteAverage,omitempty"`
	PosterPath   string   `json:"posterPath,omitempty"`
	PosterURL    string   `json:"posterUrl"`
	BackdropPath string   `json:"backdropPath,omitempty"`
	BackdropURL  string   `json:"backdropUrl"`

	// Movie only.
	Budget              int64    `json:"budget,omitempty"`
	Revenue             int64    `json:"revenue,omitempty"`
	ProductionCompanies []string `json:"productionCompanies,omitempty"`

	// Show only.
	SeasonCount  int      `json:"seasonCount,omitempty"`
	EpisodeCount int      `json:"episodeCount,omitempty"`
	Networks     []string `json:"networks,omitempty"`
	CreatedBy    []string `json:"createdBy,omitempty"`

	TrailerKey      string        `json:"trailerKey,omitempty"`
	TrailerURL      string        `json:"trailerUrl,omitempty"`
	Director        *CrewMember   `json:"director,omitempty"`
	Writers         []CrewMember  `json:"writers"`
	TopCast         []CastMember  `json:"topCast"`
	Recommendations []CatalogItem `json:"recommendations"`
}

// PersonDetails is the display-ready view model for an artist page.
type PersonDetails struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography,omitempty"`
	Birthday           string  `json:"birthday,omitempty"`
	Deathday           string  `json:"deathday,omitempty"`
	Age                *int    `json:"age,omitempty"`
	PlaceOfBirth       string  `json:"placeOfBirth,omitempty"`
	KnownForDepartment string  `json:"knownForDepartment,omitempty"`
	Popularity         float64 `json:"popularity,omitempty"`
	ProfilePath        string  `json:"profilePath,omitempty"`
	ProfileURL         string  `json:"profileUrl"`
}
