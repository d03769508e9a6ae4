// Package models defines data structures for TMDB API responses.
package models

// TMDBMovie is one discover search result. Fields may be absent in the
// provider payload; zero values are safe.
type TMDBMovie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	ReleaseDate   string  `json:"release_date"`
	GenreIDs      []int   `json:"genre_ids"`
	Popularity    float64 `json:"popularity"`
}

// TMDBPageResponse is one page of discover results.
type TMDBPageResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// ApplyDefaults normalizes a sparse provider payload: missing paging fields
// default to a single page with zero results, never to null.
func (r *TMDBPageResponse) ApplyDefaults(requestedPage int) {
	if r.Page == 0 {
		r.Page = requestedPage
	}
	if r.TotalPages == 0 {
		r.TotalPages = 1
	}
	if r.Results == nil {
		r.Results = []TMDBMovie{}
	}
}

// TMDBCastCredit is one cast entry from the credits sub-document.
type TMDBCastCredit struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	Gender      int    `json:"gender"`
	ProfilePath string `json:"profile_path"`
}

// TMDBCrewCredit is one crew entry from the credits sub-document.
type TMDBCrewCredit struct {
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// TMDBCredits holds the cast and crew of a movie.
type TMDBCredits struct {
	Cast []TMDBCastCredit `json:"cast"`
	Crew []TMDBCrewCredit `json:"crew"`
}

// TMDBWatchOffer is one provider offer inside a region.
type TMDBWatchOffer struct {
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// TMDBRegionOffers groups offers by type within one region.
type TMDBRegionOffers struct {
	Flatrate []TMDBWatchOffer `json:"flatrate"`
	Rent     []TMDBWatchOffer `json:"rent"`
	Buy      []TMDBWatchOffer `json:"buy"`
}

// TMDBWatchProviders is the watch/providers sub-document keyed by region code.
type TMDBWatchProviders struct {
	Results map[string]TMDBRegionOffers `json:"results"`
}

// TMDBMovieDetails is the full detail record fetched for a confirmed-new
// candidate, with credits and watch providers appended.
type TMDBMovieDetails struct {
	ID             int                `json:"id"`
	ImdbID         string             `json:"imdb_id"`
	Title          string             `json:"title"`
	OriginalTitle  string             `json:"original_title"`
	Overview       string             `json:"overview"`
	PosterPath     string             `json:"poster_path"`
	BackdropPath   string             `json:"backdrop_path"`
	ReleaseDate    string             `json:"release_date"`
	Runtime        int                `json:"runtime"`
	Genres         []TMDBGenre        `json:"genres"`
	Credits        *TMDBCredits       `json:"credits"`
	WatchProviders *TMDBWatchProviders `json:"watch/providers"`
}

// TMDBGenre is a provider genre tag.
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
