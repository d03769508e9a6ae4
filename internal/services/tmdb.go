package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/moviehub/review/internal/cache"
	"github.com/moviehub/review/internal/constants"
	apperrors "github.com/moviehub/review/internal/errors"
	"github.com/moviehub/review/internal/models"
	"github.com/moviehub/review/pkg/httputil"
	"github.com/moviehub/review/pkg/logger"
	"github.com/moviehub/review/pkg/ratelimiter"
)

// CatalogClient wraps outbound calls to the TMDB catalog provider.
type CatalogClient interface {
	FetchDiscoverPage(ctx context.Context, year, page int) (*models.TMDBPageResponse, error)
	FetchMovieDetails(ctx context.Context, tmdbID string) (*models.TMDBMovieDetails, error)
}

// TMDB implements CatalogClient against the TMDB HTTP API. Transport-level
// failures come back as retryable errors; well-formed error responses are
// fatal and propagate immediately.
type TMDB struct {
	apiKey       string
	baseURL      string
	language     string
	region       string
	cache        *cache.LRUCache
	rateLimiter  ratelimiter.RateLimiter
	listClient   *http.Client
	detailClient *http.Client
	logger       logger.Logger
}

// NewTMDB creates a TMDB client. The list and detail clients carry separate
// timeouts because detail responses with appended credits are much larger.
func NewTMDB(apiKey, baseURL string, memCache *cache.LRUCache) *TMDB {
	if baseURL == "" {
		baseURL = constants.DefaultTMDBBaseURL
	}

	return &TMDB{
		apiKey:       apiKey,
		baseURL:      baseURL,
		language:     constants.DefaultLanguage,
		region:       constants.DefaultRegion,
		cache:        memCache,
		rateLimiter:  ratelimiter.NewTokenBucket(constants.TMDBRateLimit, constants.TMDBRateBurst),
		listClient:   httputil.NewHTTPClient(constants.DiscoverPageTimeout),
		detailClient: httputil.NewHTTPClient(constants.MovieDetailsTimeout),
		logger:       logger.New(),
	}
}

// SetAPIKey replaces the configured API key.
func (t *TMDB) SetAPIKey(apiKey string) {
	t.apiKey = apiKey
}

// SetFilter replaces the original-language and region filters used for
// discover queries.
func (t *TMDB) SetFilter(language, region string) {
	if language != "" {
		t.language = language
	}
	if region != "" {
		t.region = region
	}
}

// FetchDiscoverPage fetches one page of discover results for a release year.
// Missing paging fields in the response default to one page, zero results.
func (t *TMDB) FetchDiscoverPage(ctx context.Context, year, page int) (*models.TMDBPageResponse, error) {
	if t.apiKey == "" {
		return nil, apperrors.NewFatalRunError("TMDB API key not configured")
	}

	params := url.Values{}
	params.Set("api_key", t.apiKey)
	params.Set("with_original_language", t.language)
	params.Set("region", t.region)
	params.Set("primary_release_year", strconv.Itoa(year))
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))

	requestURL := fmt.Sprintf("%s/discover/movie?%s", t.baseURL, params.Encode())

	var pageResp models.TMDBPageResponse
	if err := t.doJSON(ctx, t.listClient, requestURL, &pageResp); err != nil {
		return nil, err
	}

	pageResp.ApplyDefaults(page)

	if len(pageResp.Results) > 0 {
		t.logger.Debugf("[TMDB] year %d - page %d/%d - %d movies",
			year, pageResp.Page, pageResp.TotalPages, len(pageResp.Results))
	}

	return &pageResp, nil
}

// FetchMovieDetails fetches the full detail record for a movie, with credits
// and watch providers appended. Responses are cached by tmdb id.
func (t *TMDB) FetchMovieDetails(ctx context.Context, tmdbID string) (*models.TMDBMovieDetails, error) {
	if t.apiKey == "" {
		return nil, apperrors.NewFatalRunError("TMDB API key not configured")
	}

	cacheKey := fmt.Sprintf("tmdb:details:%s", tmdbID)
	if t.cache != nil {
		if data, found := t.cache.Get(cacheKey); found {
			return data.(*models.TMDBMovieDetails), nil
		}
	}

	requestURL := fmt.Sprintf("%s/movie/%s?api_key=%s&append_to_response=%s",
		t.baseURL, url.PathEscape(tmdbID), t.apiKey, url.QueryEscape("credits,watch/providers"))

	t.logger.Debugf("[TMDB] fetching details for movie %s", tmdbID)

	var details models.TMDBMovieDetails
	if err := t.doJSON(ctx, t.detailClient, requestURL, &details); err != nil {
		return nil, err
	}

	if t.cache != nil {
		t.cache.Set(cacheKey, &details)
	}

	return &details, nil
}

// doJSON performs a rate-limited GET and decodes the JSON body into out.
func (t *TMDB) doJSON(ctx context.Context, client *http.Client, requestURL string, out interface{}) error {
	t.rateLimiter.Wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return apperrors.NewAPIFailureError("failed to build TMDB request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		// Connection resets, timeouts and context deadlines all surface here.
		return apperrors.NewRetryableError("TMDB request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewAPIFailureError(
			fmt.Sprintf("TMDB API error: status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewAPIFailureError("failed to decode TMDB response", err)
	}

	return nil
}
