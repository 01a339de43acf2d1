// Package models defines data structures for TMDB API responses and trending records.
package models

import "time"

// Movie is a single result of a search or discover request. Nullable
// fields are pointers so a missing value is distinct from a zero value.
type Movie struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	PosterPath       *string  `json:"poster_path"`
	VoteAverage      *float64 `json:"vote_average"`
	ReleaseDate      *string  `json:"release_date"`
	OriginalLanguage string   `json:"original_language"`
}

// MoviePage is the paginated envelope returned by /search/movie and /discover/movie.
type MoviePage struct {
	Page         int     `json:"page"`
	TotalResults int     `json:"total_results"`
	TotalPages   int     `json:"total_pages"`
	Results      []Movie `json:"results"`
}

// ReleaseTime parses the release date, returning false when absent or malformed.
func (m Movie) ReleaseTime() (time.Time, bool) {
	if m.ReleaseDate == nil || *m.ReleaseDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", *m.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Poster returns the poster path or an empty string.
func (m Movie) Poster() string {
	if m.PosterPath == nil {
		return ""
	}
	return *m.PosterPath
}
