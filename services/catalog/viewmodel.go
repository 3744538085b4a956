package catalog

import (
	"fmt"
	"regexp"
	"time"

	"cinefeed/models"
)

const (
	topCastLimit         = 10
	recommendationsLimit = 10
	writersLimit         = 3
	creatorsLimit        = 3
)

var officialNameRe = regexp.MustCompile(`(?i)official`)

// formatRuntime renders minutes as "{h}h {m}m", omitting the hour component
// when zero. Unknown runtime renders as a dash.
func formatRuntime(minutes *int) string {
	if minutes == nil {
		return "-"
	}
	h := *minutes / 60
	m := *minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatEpisodeRuntime renders the first per-episode runtime entry, suffixed
// " / ep". An empty list renders as a dash.
func formatEpisodeRuntime(runtimes []int) string {
	if len(runtimes) == 0 {
		return "-"
	}
	return formatRuntime(&runtimes[0]) + " / ep"
}

// pickTrailer selects the provider key of the best video, preferring a
// YouTube Trailer that is flagged official or whose title matches /official/i,
// then any YouTube Trailer, then any YouTube video. Ties within a tier break
// by list order. The name-regex fallback mirrors long-standing behavior and
// is deliberately not extended.
func pickTrailer(videos []models.Video) string {
	for _, v := range videos {
		if v.Site == "YouTube" && v.Type == "Trailer" && (v.Official || officialNameRe.MatchString(v.Name)) {
			return v.Key
		}
	}
	for _, v := range videos {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return v.Key
		}
	}
	for _, v := range videos {
		if v.Site == "YouTube" {
			return v.Key
		}
	}
	return ""
}

// pickDirector returns the first crew member with job "Director", falling
// back to the first in the "Directing" department.
func pickDirector(crew []models.CrewMember) *models.CrewMember {
	for i := range crew {
		if crew[i].Job == "Director" {
			return &crew[i]
		}
	}
	for i := range crew {
		if crew[i].Department == "Directing" {
			return &crew[i]
		}
	}
	return nil
}

// pickMovieWriters returns up to three crew members credited as Writer,
// Screenplay or Story, in upstream order.
func pickMovieWriters(crew []models.CrewMember) []models.CrewMember {
	writers := make([]models.CrewMember, 0, writersLimit)
	for _, c := range crew {
		switch c.Job {
		case "Writer", "Screenplay", "Story":
			writers = append(writers, c)
		}
		if len(writers) == writersLimit {
			break
		}
	}
	return writers
}

// pickShowWriters returns up to three crew members from the Writing
// department, in upstream order.
func pickShowWriters(crew []models.CrewMember) []models.CrewMember {
	writers := make([]models.CrewMember, 0, writersLimit)
	for _, c := range crew {
		if c.Department == "Writing" {
			writers = append(writers, c)
		}
		if len(writers) == writersLimit {
			break
		}
	}
	return writers
}

func limitCast(cast []models.CastMember) []models.CastMember {
	if len(cast) > topCastLimit {
		cast = cast[:topCastLimit]
	}
	return cast
}

func limitRecommendations(items []models.CatalogItem) []models.CatalogItem {
	if len(items) > recommendationsLimit {
		items = items[:recommendationsLimit]
	}
	return items
}

// calcAge computes whole years between birthday and deathday (or now when
// deathday is empty), counting the anniversary day as completing the year.
// Returns nil when the birthday is absent or unparsable.
func calcAge(birthday, deathday string, now time.Time) *int {
	if birthday == "" {
		return nil
	}
	birth, err := time.Parse("2006-01-02", birthday)
	if err != nil {
		return nil
	}

	end := now
	if deathday != "" {
		if t, err := time.Parse("2006-01-02", deathday); err == nil {
			end = t
		}
	}

	age := end.Year() - birth.Year()
	if end.Month() < birth.Month() || (end.Month() == birth.Month() && end.Day() < birth.Day()) {
		age--
	}
	return &age
}

// yearOf returns the leading year of an ISO date string, or "-" when absent.
func yearOf(date string) string {
	if len(date) < 4 {
		return "-"
	}
	return date[:4]
}
