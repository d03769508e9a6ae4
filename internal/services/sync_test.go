package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviehub/review/internal/cache"
	"github.com/moviehub/review/internal/database"
	apperrors "github.com/moviehub/review/internal/errors"
	"github.com/moviehub/review/internal/models"
)

// newSyncForTest builds a sync service against a fake TMDB server with
// near-zero pacing delays and a fast retry policy.
func newSyncForTest(db database.Database, serverURL string) *SyncService {
	client := NewTMDB("test-key", serverURL, cache.New(100, time.Hour))
	s := NewSync(db, client, true)
	s.retry = newRetryPolicy(2, time.Millisecond)
	s.enricher = NewEnricher(client, s.retry, nil)
	s.pageDelay = time.Millisecond
	s.yearDelay = time.Millisecond
	return s
}

// tmdbRecorder tracks which discover pages and detail records were requested.
type tmdbRecorder struct {
	mu      sync.Mutex
	pages   []int
	details []string
}

func (rec *tmdbRecorder) recordPage(page int) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.pages = append(rec.pages, page)
}

func (rec *tmdbRecorder) recordDetail(id string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.details = append(rec.details, id)
}

func discoverJSON(page, totalPages, totalResults int, candidates ...string) string {
	return fmt.Sprintf(`{"page": %d, "total_pages": %d, "total_results": %d, "results": [%s]}`,
		page, totalPages, totalResults, strings.Join(candidates, ","))
}

func candidateJSON(id int, title string) string {
	return fmt.Sprintf(`{"id": %d, "title": %q, "original_title": %q}`, id, title, title)
}

func detailJSON(id int, title string) string {
	return fmt.Sprintf(`{"id": %d, "title": %q, "original_title": %q, "release_date": "2021-03-01"}`, id, title, title)
}

func TestWalkYearEmptyYearMakesSingleRequest(t *testing.T) {
	rec := &tmdbRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		rec.recordPage(1)
		fmt.Fprint(w, discoverJSON(1, 1, 0))
	}))
	defer server.Close()

	s := newSyncForTest(newFakeDB(), server.URL)

	var yielded int
	err := s.walkYear(context.Background(), 1993, func(models.TMDBMovie) { yielded++ })

	require.NoError(t, err)
	assert.Equal(t, []int{1}, rec.pages)
	assert.Zero(t, yielded)
}

func TestWalkYearFetchesPagesInOrder(t *testing.T) {
	rec := &tmdbRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			rec.recordPage(1)
			fmt.Fprint(w, discoverJSON(1, 3, 42, candidateJSON(1, "First")))
		case "2":
			rec.recordPage(2)
			fmt.Fprint(w, discoverJSON(2, 3, 42, candidateJSON(2, "Second")))
		case "3":
			rec.recordPage(3)
			fmt.Fprint(w, discoverJSON(3, 3, 42, candidateJSON(3, "Third")))
		default:
			t.Errorf("unexpected page request: %s", page)
		}
	}))
	defer server.Close()

	s := newSyncForTest(newFakeDB(), server.URL)

	var titles []string
	err := s.walkYear(context.Background(), 2021, func(c models.TMDBMovie) {
		titles = append(titles, c.Title)
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, rec.pages)
	assert.Equal(t, []string{"First", "Second", "Third"}, titles)
}

func TestWalkYearSkipsPageThatExhaustsRetries(t *testing.T) {
	rec := &tmdbRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			rec.recordPage(1)
			fmt.Fprint(w, discoverJSON(1, 3, 42, candidateJSON(1, "First")))
		case "2":
			// Transport-level failure on every attempt: drop the connection.
			rec.recordPage(2)
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("response writer does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack failed: %v", err)
				return
			}
			conn.Close()
		case "3":
			rec.recordPage(3)
			fmt.Fprint(w, discoverJSON(3, 3, 42, candidateJSON(3, "Third")))
		}
	}))
	defer server.Close()
	// Force a fresh connection per request so the transport's transparent
	// replay of an idempotent GET that dies on a reused connection can't
	// inflate the page-2 hit count.
	server.Config.SetKeepAlivesEnabled(false)

	s := newSyncForTest(newFakeDB(), server.URL)

	var titles []string
	err := s.walkYear(context.Background(), 2021, func(c models.TMDBMovie) {
		titles = append(titles, c.Title)
	})

	require.NoError(t, err)
	// Page 2 was attempted through the retry bound, then the walk moved on.
	assert.Equal(t, []int{1, 2, 2, 3}, rec.pages)
	assert.Equal(t, []string{"First", "Third"}, titles)
}

func TestWalkYearFirstPageFailureAbortsYear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := newSyncForTest(newFakeDB(), server.URL)

	err := s.walkYear(context.Background(), 2021, func(models.TMDBMovie) {
		t.Error("no candidates expected")
	})

	require.Error(t, err)
	var syncErr *apperrors.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, apperrors.ErrorTypeFatalYear, syncErr.Type)
}

func TestImportCandidateSkipsExistingTmdbIDWithoutDetailFetch(t *testing.T) {
	rec := &tmdbRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/movie/") {
			id := strings.TrimPrefix(r.URL.Path, "/movie/")
			rec.recordDetail(id)
			fmt.Fprint(w, detailJSON(102, "Brand New"))
			return
		}
		t.Errorf("unexpected request: %s", r.URL.Path)
	}))
	defer server.Close()

	db := newFakeDB()
	db.mustSeedMovie("Already Here", "101")

	s := newSyncForTest(db, server.URL)

	outcome := s.importCandidate(context.Background(), models.TMDBMovie{ID: 101, Title: "Renamed Elsewhere"})
	assert.Equal(t, outcomeDuplicate, outcome)

	outcome = s.importCandidate(context.Background(), models.TMDBMovie{ID: 102, Title: "Brand New"})
	assert.Equal(t, outcomeImported, outcome)

	assert.Equal(t, []string{"102"}, rec.details, "only the new candidate may be detail-fetched")
}

func TestImportCandidateSkipsTitleCollisionWithDifferentTmdbID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no network call expected, got %s", r.URL.Path)
	}))
	defer server.Close()

	db := newFakeDB()
	db.mustSeedMovie("Shared Title", "101")

	s := newSyncForTest(db, server.URL)

	outcome := s.importCandidate(context.Background(), models.TMDBMovie{ID: 999, Title: "  SHARED title "})
	assert.Equal(t, outcomeDuplicate, outcome)
}

func TestImportCandidateRejectsBlankTitleWithoutLookups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no network call expected, got %s", r.URL.Path)
	}))
	defer server.Close()

	db := newFakeDB()
	s := newSyncForTest(db, server.URL)

	outcome := s.importCandidate(context.Background(), models.TMDBMovie{ID: 7, Title: "   "})

	assert.Equal(t, outcomeRejected, outcome)
	assert.Zero(t, db.findByTmdbIDCalls, "blank title must not reach the dedup store")
	assert.Zero(t, db.findByTitleCalls)
}

func TestRunSyncWithoutAPIKeyShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no network call expected, got %s", r.URL.Path)
	}))
	defer server.Close()

	client := NewTMDB("", server.URL, cache.New(10, time.Hour))
	s := NewSync(newFakeDB(), client, false)

	err := s.RunSync(context.Background(), 2020, 2021)

	require.Error(t, err)
	assert.True(t, apperrors.IsFatalRun(err))
}

func TestSyncServiceCanRestartAfterStop(t *testing.T) {
	client := NewTMDB("", "", cache.New(10, time.Hour))
	s := NewSync(newFakeDB(), client, false)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	s.Stop()

	require.NoError(t, s.Start(ctx))

	// A restarted service must not observe the previous run's closed channel.
	select {
	case <-s.stopChan:
		t.Fatal("stop channel closed right after restart")
	default:
	}

	s.Stop()
}

func TestRunSyncImportsYearRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/movie/") {
			id := strings.TrimPrefix(r.URL.Path, "/movie/")
			switch id {
			case "11":
				fmt.Fprint(w, detailJSON(11, "Movie Eleven"))
			case "22":
				fmt.Fprint(w, detailJSON(22, "Movie Twenty Two"))
			default:
				t.Errorf("unexpected detail request: %s", id)
			}
			return
		}

		year := r.URL.Query().Get("primary_release_year")
		switch year {
		case "2020":
			fmt.Fprint(w, discoverJSON(1, 1, 1, candidateJSON(11, "Movie Eleven")))
		case "2021":
			fmt.Fprint(w, discoverJSON(1, 1, 1, candidateJSON(22, "Movie Twenty Two")))
		default:
			t.Errorf("unexpected year request: %s", year)
		}
	}))
	defer server.Close()

	db := newFakeDB()
	s := newSyncForTest(db, server.URL)

	err := s.RunSync(context.Background(), 2020, 2021)
	require.NoError(t, err)

	movies, err := db.GetAllMovies()
	require.NoError(t, err)
	require.Len(t, movies, 2)

	byTitle := map[string]models.Movie{}
	for _, movie := range movies {
		byTitle[movie.Title] = movie
	}

	eleven, ok := byTitle["Movie Eleven"]
	require.True(t, ok)
	assert.Equal(t, "11", eleven.TmdbID)
	assert.True(t, eleven.Released)
	assert.Equal(t, 2021, byTitle["Movie Twenty Two"].ReleaseYear)
}
