package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviehub/review/internal/cache"
	"github.com/moviehub/review/internal/database"
	"github.com/moviehub/review/internal/models"
	"github.com/moviehub/review/internal/services"
	"github.com/moviehub/review/pkg/logger"
)

// newTestRouter wires a full router over a real bolt store in a temp dir.
// The catalog client carries no API key, so sync stays inert.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewBolt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog := services.NewTMDB("", "", cache.New(10, time.Minute))
	container := &services.Container{
		Catalog: catalog,
		Sync:    services.NewSync(db, catalog, false),
		Movies:  services.NewMovieService(db),
		Reviews: services.NewReviewService(db),
		Cache:   cache.New(10, time.Minute),
		DB:      db,
		Logger:  logger.New(),
	}

	r := gin.New()
	New(container).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createMovie(t *testing.T, r *gin.Engine, title string) models.Movie {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/movies", gin.H{
		"title":       title,
		"genre":       []string{"Telugu", "Drama"},
		"releaseDate": "2022-03-25",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var movie models.Movie
	decodeBody(t, w, &movie)
	require.NotEmpty(t, movie.ID)
	return movie
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestMovieCRUDRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	created := createMovie(t, r, "RRR")
	assert.True(t, created.Released)
	assert.Equal(t, 2022, created.ReleaseYear)

	w := doRequest(t, r, http.MethodGet, "/api/movies/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Movie
	decodeBody(t, w, &fetched)
	assert.Equal(t, "RRR", fetched.Title)
	assert.NotNil(t, fetched.Cast)

	w = doRequest(t, r, http.MethodPut, "/api/movies/"+created.ID, gin.H{
		"overview": "Rise Roar Revolt",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Movie
	decodeBody(t, w, &updated)
	assert.Equal(t, "Rise Roar Revolt", updated.Overview)
	assert.Equal(t, "RRR", updated.Title)

	w = doRequest(t, r, http.MethodDelete, "/api/movies/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/movies/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateMovieValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/movies", gin.H{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/movies", gin.H{
		"title":       "Badly Dated",
		"releaseDate": "25-03-2022",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMoviesAndGenreFilter(t *testing.T) {
	r := newTestRouter(t)

	createMovie(t, r, "Drama Piece")
	createMovie(t, r, "Another One")

	w := doRequest(t, r, http.MethodGet, "/api/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Movie
	decodeBody(t, w, &all)
	assert.Len(t, all, 2)

	w = doRequest(t, r, http.MethodGet, "/api/movies/genre/drama", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var drama []models.Movie
	decodeBody(t, w, &drama)
	assert.Len(t, drama, 2)

	w = doRequest(t, r, http.MethodGet, "/api/movies/genre/western", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var none []models.Movie
	decodeBody(t, w, &none)
	assert.Empty(t, none)
}

func TestSearchMoviesEndpoint(t *testing.T) {
	r := newTestRouter(t)

	createMovie(t, r, "Pushpa: The Rise")
	createMovie(t, r, "Pushpa 2: The Rule")
	createMovie(t, r, "Unrelated")

	w := doRequest(t, r, http.MethodGet, "/api/movies/search?title=pushpa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var matched []models.Movie
	decodeBody(t, w, &matched)
	assert.Len(t, matched, 2)

	w = doRequest(t, r, http.MethodGet, "/api/movies/search?title=pushpa&year=2022", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &matched)
	assert.Len(t, matched, 2)

	w = doRequest(t, r, http.MethodGet, "/api/movies/search?title=pushpa&year=1999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &matched)
	assert.Empty(t, matched)

	w = doRequest(t, r, http.MethodGet, "/api/movies/search?year=not-a-year", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMovieAverageRatingEndpoint(t *testing.T) {
	r := newTestRouter(t)
	movie := createMovie(t, r, "Rated Movie")

	w := doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{
		"movieId": movie.ID,
		"userId":  "user-1",
		"rating":  4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/movies/"+movie.ID+"/average-rating", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		MovieID       string  `json:"movieId"`
		AverageRating float64 `json:"averageRating"`
	}
	decodeBody(t, w, &body)
	assert.Equal(t, movie.ID, body.MovieID)
	assert.InDelta(t, 4.0, body.AverageRating, 1e-9)

	w = doRequest(t, r, http.MethodGet, "/api/movies/missing/average-rating", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewLifecycleUpdatesMovieAggregate(t *testing.T) {
	r := newTestRouter(t)
	movie := createMovie(t, r, "Rated Movie")

	w := doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{
		"movieId": movie.ID,
		"userId":  "user-1",
		"rating":  4,
		"comment": "good",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.Review
	decodeBody(t, w, &first)
	assert.Equal(t, movie.ID, first.MovieID)

	w = doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{
		"movieId": "rated movie", // title reference resolves to the same movie
		"userId":  "user-2",
		"rating":  5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/movies/"+movie.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rated models.Movie
	decodeBody(t, w, &rated)
	assert.InDelta(t, 4.5, rated.AverageRating, 1e-9)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/movies/%s/reviews", movie.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []models.Review
	decodeBody(t, w, &reviews)
	assert.Len(t, reviews, 2)

	w = doRequest(t, r, http.MethodDelete, "/api/reviews/"+first.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/movies/"+movie.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &rated)
	assert.InDelta(t, 5.0, rated.AverageRating, 1e-9)
}

func TestCreateReviewErrorMapping(t *testing.T) {
	r := newTestRouter(t)
	movie := createMovie(t, r, "Rated Movie")

	w := doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{
		"movieId": movie.ID,
		"userId":  "user-1",
		"rating":  9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{
		"movieId": "no-such-movie",
		"userId":  "user-1",
		"rating":  3,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReviewRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	movie := createMovie(t, r, "Rated Movie")

	w := doRequest(t, r, http.MethodPost, "/api/reviews", gin.H{
		"movieId": movie.ID,
		"userId":  "user-1",
		"rating":  2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var review models.Review
	decodeBody(t, w, &review)

	w = doRequest(t, r, http.MethodPut, "/api/reviews/"+review.ID, gin.H{
		"rating":  5,
		"comment": "changed my mind",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Review
	decodeBody(t, w, &updated)
	assert.Equal(t, 5, updated.Rating)

	w = doRequest(t, r, http.MethodGet, "/api/movies/"+movie.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rated models.Movie
	decodeBody(t, w, &rated)
	assert.InDelta(t, 5.0, rated.AverageRating, 1e-9)
}

func TestGetUnknownReviewIsNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/reviews/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTriggerSyncAcknowledgesImmediately(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/sync", nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
}
