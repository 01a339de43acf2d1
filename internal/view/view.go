// Package view turns controller state and store records into the data a
// client renders: movie cards, the result list and the trending row.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/amaumene/gomovies/internal/constants"
	"github.com/amaumene/gomovies/internal/controller"
	"github.com/amaumene/gomovies/internal/models"
)

const notAvailable = "N/A"

// MovieCard is a single result as displayed.
type MovieCard struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	PosterURL    string `json:"poster_url"`
	Rating       string `json:"rating"`
	Language     string `json:"language"`
	LanguageName string `json:"language_name,omitempty"`
	Year         string `json:"year"`
}

// LoadMoreButton is present only while further pages exist.
type LoadMoreButton struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// List is the "All Movies" section.
type List struct {
	Input       string          `json:"input"`
	Term        string          `json:"term"`
	Page        int             `json:"page"`
	TotalPages  int             `json:"total_pages"`
	ShowSpinner bool            `json:"show_spinner"`
	Error       string          `json:"error,omitempty"`
	Movies      []MovieCard     `json:"movies"`
	LoadMore    *LoadMoreButton `json:"load_more,omitempty"`
}

// TrendingItem is one numbered poster of the trending row.
type TrendingItem struct {
	Rank       int    `json:"rank"`
	ID         string `json:"id"`
	SearchTerm string `json:"search_term"`
	Title      string `json:"title"`
	PosterURL  string `json:"poster_url"`
}

// Renderer builds image URLs against a TMDB image host.
type Renderer struct {
	ImageBaseURL string
	NoPosterURL  string
}

func NewRenderer(imageBaseURL, noPosterURL string) Renderer {
	if imageBaseURL == "" {
		imageBaseURL = constants.DefaultImageBaseURL
	}
	if noPosterURL == "" {
		noPosterURL = constants.DefaultNoPosterURL
	}
	return Renderer{ImageBaseURL: strings.TrimRight(imageBaseURL, "/"), NoPosterURL: noPosterURL}
}

// ImageURL joins a TMDB file path to the image host at the given size.
func (r Renderer) ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.ImageBaseURL + "/" + size + path
}

// Card renders one movie.
func (r Renderer) Card(m models.Movie) MovieCard {
	card := MovieCard{
		ID:           m.ID,
		Title:        m.Title,
		PosterURL:    r.ImageURL(constants.PosterSizeCard, m.Poster()),
		Rating:       FormatRating(m.VoteAverage),
		Language:     m.OriginalLanguage,
		LanguageName: LanguageName(m.OriginalLanguage),
		Year:         notAvailable,
	}
	if card.PosterURL == "" {
		card.PosterURL = r.NoPosterURL
	}
	if released, ok := m.ReleaseTime(); ok {
		card.Year = strconv.Itoa(released.Year())
	}
	return card
}

// List renders the result section. The spinner replaces the list only
// while the first page loads; an error message replaces the list.
func (r Renderer) List(s controller.State) List {
	out := List{
		Input:      s.Input,
		Term:       s.Term,
		Page:       s.Page,
		TotalPages: s.TotalPages,
		Movies:     []MovieCard{},
	}

	switch {
	case s.Loading && s.Page == 1:
		out.ShowSpinner = true
	case s.Error != "":
		out.Error = s.Error
	default:
		for _, m := range s.Movies {
			out.Movies = append(out.Movies, r.Card(m))
		}
		if s.CanLoadMore() {
			out.LoadMore = &LoadMoreButton{Label: constants.LabelLoadMore}
			if s.Loading {
				out.LoadMore = &LoadMoreButton{Label: constants.LabelLoading, Disabled: true}
			}
		}
	}

	return out
}

// Trending renders the leaderboard, numbered from 1.
func (r Renderer) Trending(entries []models.TrendingEntry) []TrendingItem {
	items := make([]TrendingItem, 0, len(entries))
	for i, e := range entries {
		items = append(items, TrendingItem{
			Rank:       i + 1,
			ID:         e.ID,
			SearchTerm: e.SearchTerm,
			Title:      e.Title,
			PosterURL:  r.ImageURL(constants.PosterSizeTrending, e.PosterURL),
		})
	}
	return items
}

// FormatRating shows one decimal, ties rounded up, or N/A when the rating
// is missing or zero.
func FormatRating(v *float64) string {
	if v == nil || *v == 0 {
		return notAvailable
	}
	return fmt.Sprintf("%.1f", math.Round(*v*10)/10)
}

// LanguageName returns the English name of an ISO 639-1 code, or "".
func LanguageName(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}
