// Package constants defines application-wide constants and default values.
package constants

const (
	// Application metadata
	AppName        = "gomovies"
	AppVersion     = "1.0.0"
	AppDescription = "Find movies you'll enjoy without the hassle"

	// Default configuration values
	DefaultPort         = "5000"
	DefaultLogLevel     = "info"
	DefaultStoreBackend = "bolt"
	DefaultDatabasePath = "./data.db"

	// TMDB endpoints
	DefaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultNoPosterURL  = "/no-movie.png"
	DiscoverSortOrder   = "popularity.desc"

	// Poster sizes used by the list and the trending section
	PosterSizeCard     = "w500"
	PosterSizeTrending = "w185"

	// Cache settings
	DefaultCacheSize = 500
	DefaultCacheTTL  = 10 // minutes

	// Rate limiting
	TMDBRateCapacity = 20 // burst capacity
	TMDBRateRefill   = 5  // tokens per second

	// Trending leaderboard size
	TrendingLimit = 5

	// Session registry
	DefaultMaxSessions = 1000
)

// Messages shown to the user. Nothing else is ever surfaced.
const (
	MsgNoMovies   = "No movies found"
	MsgFetchError = "Error fetching movies. Please try again later."
	LabelLoadMore = "Load More"
	LabelLoading  = "Loading..."
)
