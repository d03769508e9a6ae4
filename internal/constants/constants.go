// Package constants defines application-wide constants and default values.
package constants

const (
	// Application metadata
	AppName    = "moviehub-review"
	AppVersion = "1.0.0"

	// Default configuration values
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// TMDB API defaults
	DefaultTMDBBaseURL = "https://api.themoviedb.org/3"
	ImageBaseURL       = "https://image.tmdb.org/t/p"
	PosterSize         = "w500"
	BackdropSize       = "w1280"
	ProfileSize        = "w185"

	// Catalog filter defaults: Telugu-language releases in the Indian region.
	DefaultLanguage = "te"
	DefaultRegion   = "IN"

	// Cache settings
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 24 // hours

	// Rate limiting for outbound TMDB calls
	TMDBRateLimit = 20 // requests per second
	TMDBRateBurst = 5  // burst capacity
)

// Default genre tags applied to imported records.
var DefaultImportGenres = []string{"Telugu", "Indian Cinema"}

// WatchProviderRegions lists the regions scanned for streaming availability.
var WatchProviderRegions = []string{"IN", "US"}
