package models

import "time"

// TrendingEntry is one row of the trending leaderboard.
type TrendingEntry struct {
	ID         string    `json:"id"`
	SearchTerm string    `json:"search_term"`
	Count      int       `json:"count"`
	MovieID    int       `json:"movie_id"`
	PosterURL  string    `json:"poster_url"`
	Title      string    `json:"title"`
	UpdatedAt  time.Time `json:"updated_at"`
}
