package controller

import (
	"slices"

	"github.com/amaumene/gomovies/internal/constants"
	"github.com/amaumene/gomovies/internal/models"
)

// State is a snapshot of the query and its results.
type State struct {
	Input      string         `json:"input"`
	Term       string         `json:"term"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Loading    bool           `json:"loading"`
	Error      string         `json:"error,omitempty"`
	Movies     []models.Movie `json:"movies"`
}

// CanLoadMore reports whether another page exists for the current term.
func (s State) CanLoadMore() bool {
	return s.Page < s.TotalPages
}

func (s State) clone() State {
	s.Movies = slices.Clone(s.Movies)
	return s
}

// Apply folds the outcome of fetching page into s. Page 1 replaces the
// result list and later pages append to it. Failures and empty results
// clear the list and set the user-facing message.
func Apply(s State, page int, resp *models.MoviePage, err error) State {
	s.Page = page

	switch {
	case err != nil || resp == nil:
		s.Movies = nil
		s.TotalPages = 0
		s.Error = constants.MsgFetchError
	case resp.TotalResults == 0:
		s.Movies = nil
		s.TotalPages = 0
		s.Error = constants.MsgNoMovies
	default:
		if page == 1 {
			s.Movies = slices.Clone(resp.Results)
		} else {
			s.Movies = append(slices.Clone(s.Movies), resp.Results...)
		}
		s.TotalPages = resp.TotalPages
		s.Error = ""
	}

	return s
}

// TopResult returns the movie to record against term, or nil when the
// request was a discovery, failed, or came back empty.
func TopResult(term string, resp *models.MoviePage, err error) *models.Movie {
	if term == "" || err != nil || resp == nil || len(resp.Results) == 0 {
		return nil
	}
	top := resp.Results[0]
	return &top
}
