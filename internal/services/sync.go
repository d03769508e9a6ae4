package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/moviehub/review/internal/constants"
	"github.com/moviehub/review/internal/database"
	apperrors "github.com/moviehub/review/internal/errors"
	"github.com/moviehub/review/internal/models"
	"github.com/moviehub/review/pkg/logger"
)

// importOutcome tracks how far a candidate progressed through the
// per-record pipeline: candidate -> checked -> fetched/mapped -> persisted.
type importOutcome int

const (
	outcomeRejected  importOutcome = iota // failed data-quality check, no lookups done
	outcomeDuplicate                      // dedup gate matched an existing movie
	outcomeFailed                         // enrichment or persistence failed
	outcomeImported                       // persisted as a new movie
)

// SyncService drives the periodic catalog import: it splits the configured
// year range into batches, walks each year's paginated discover results,
// dedups candidates against storage and persists enriched records.
// Traversal is deliberately sequential; the provider rate limit is the
// bottleneck, not throughput.
type SyncService struct {
	db       database.Database
	client   CatalogClient
	enricher *Enricher
	retry    *retryPolicy
	logger   logger.Logger

	enabled   bool
	startYear int
	interval  time.Duration
	batchSize int
	pageDelay time.Duration
	yearDelay time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewSync creates a sync service. enabled reflects whether provider
// credentials are configured; a disabled service refuses runs before any
// network call.
func NewSync(db database.Database, client CatalogClient, enabled bool) *SyncService {
	retry := newRetryPolicy(constants.MaxFetchAttempts, constants.RetryBaseDelay)

	return &SyncService{
		db:        db,
		client:    client,
		enricher:  NewEnricher(client, retry, nil),
		retry:     retry,
		logger:    logger.New(),
		enabled:   enabled,
		startYear: constants.DefaultSyncStartYear,
		interval:  constants.DefaultSyncInterval,
		batchSize: constants.YearBatchSize,
		pageDelay: constants.PageFetchDelay,
		yearDelay: constants.YearSyncDelay,
		stopChan:  make(chan struct{}),
	}
}

// SetStartYear sets the first year covered by a full sync.
func (s *SyncService) SetStartYear(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startYear = year
}

// SetInterval sets how often the background sync runs.
func (s *SyncService) SetInterval(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
}

// Start begins the background sync loop. The first run happens immediately,
// subsequent runs on every interval tick.
func (s *SyncService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	// A fresh channel per start so a stopped service can be started again.
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	if !s.enabled {
		s.logger.Warnf("[Sync] TMDB API key not configured, catalog sync disabled")
		return nil
	}

	s.logger.Infof("[Sync] starting catalog sync service with interval %v", s.interval)

	go s.syncLoop(ctx, stop)

	return nil
}

// Stop stops the background sync loop. An in-flight run finishes naturally;
// the service can be started again afterwards.
func (s *SyncService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	close(s.stopChan)
	s.logger.Infof("[Sync] catalog sync service stopped")
}

func (s *SyncService) syncLoop(ctx context.Context, stop <-chan struct{}) {
	if err := s.SyncNow(ctx); err != nil {
		s.logger.Errorf("[Sync] catalog sync failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-stop:
			return
		case <-ticker.C:
			if err := s.SyncNow(ctx); err != nil {
				s.logger.Errorf("[Sync] catalog sync failed: %v", err)
			}
		}
	}
}

// SyncNow runs one full sync over the configured year range, from the
// configured start year through the future-year window.
func (s *SyncService) SyncNow(ctx context.Context) error {
	endYear := time.Now().Year() + constants.FutureYearWindow
	return s.RunSync(ctx, s.startYear, endYear)
}

// RunSync imports the inclusive year range [startYear, endYear] in
// fixed-size batches. Batches and years run strictly sequentially; record
// and year failures are contained and the run continues past them.
func (s *SyncService) RunSync(ctx context.Context, startYear, endYear int) error {
	if !s.enabled {
		s.logger.Warnf("[Sync] TMDB API key not configured, skipping catalog sync")
		return apperrors.NewFatalRunError("TMDB API key not configured")
	}

	years := make([]int, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		years = append(years, year)
	}

	s.logger.Infof("[Sync] syncing catalog from %d to %d (%d years)", startYear, endYear, len(years))

	for batchStart := 0; batchStart < len(years); batchStart += s.batchSize {
		batchEnd := batchStart + s.batchSize
		if batchEnd > len(years) {
			batchEnd = len(years)
		}
		batch := years[batchStart:batchEnd]

		s.logger.Debugf("[Sync] processing batch %d: years %v", batchStart/s.batchSize+1, batch)

		for _, year := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := s.syncYear(ctx, year); err != nil {
				// A year-level failure never aborts the batch.
				s.logger.Errorf("[Sync] error processing year %d: %v", year, err)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.yearDelay):
			}
		}
	}

	s.logger.Infof("[Sync] catalog sync finished (%d-%d)", startYear, endYear)
	return nil
}

// syncYear walks one year's discover results and runs every candidate
// through the import pipeline. Returns a fatal-year error only when the
// first page cannot be fetched at all.
func (s *SyncService) syncYear(ctx context.Context, year int) error {
	var imported, duplicates, failed int

	err := s.walkYear(ctx, year, func(candidate models.TMDBMovie) {
		switch s.importCandidate(ctx, candidate) {
		case outcomeImported:
			imported++
		case outcomeDuplicate:
			duplicates++
		case outcomeRejected, outcomeFailed:
			failed++
		}
	})
	if err != nil {
		return err
	}

	if imported > 0 || failed > 0 {
		s.logger.Infof("[Sync] year %d completed: %d imported, %d duplicates, %d skipped",
			year, imported, duplicates, failed)
	}
	return nil
}

// walkYear traverses one year of paginated discover results, invoking fn for
// every candidate. Pages are fetched in increasing order with an inter-page
// delay. A page that exhausts retries is skipped; the walk continues.
func (s *SyncService) walkYear(ctx context.Context, year int, fn func(models.TMDBMovie)) error {
	firstPage, err := fetchWithRetry(ctx, s.retry, func(ctx context.Context) (*models.TMDBPageResponse, error) {
		return s.client.FetchDiscoverPage(ctx, year, 1)
	})
	if err != nil {
		return apperrors.NewFatalYearError(year, err)
	}

	if firstPage.TotalResults == 0 {
		s.logger.Debugf("[Sync] year %d: no movies found, skipping", year)
		return nil
	}

	s.logger.Debugf("[Sync] year %d: found %d movies across %d pages",
		year, firstPage.TotalResults, firstPage.TotalPages)

	for _, candidate := range firstPage.Results {
		fn(candidate)
	}

	for page := 2; page <= firstPage.TotalPages; page++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pageDelay):
		}

		pageResp, err := fetchWithRetry(ctx, s.retry, func(ctx context.Context) (*models.TMDBPageResponse, error) {
			return s.client.FetchDiscoverPage(ctx, year, page)
		})
		if err != nil {
			s.logger.Warnf("[Sync] year %d: skipping page %d: %v", year, page, err)
			continue
		}

		for _, candidate := range pageResp.Results {
			fn(candidate)
		}
	}

	return nil
}

// importCandidate runs one candidate through the record pipeline:
// data-quality check, dedup gate, detail enrichment, persistence. Failures
// are contained here so a single record never aborts its page or year.
func (s *SyncService) importCandidate(ctx context.Context, candidate models.TMDBMovie) importOutcome {
	tmdbID := strconv.Itoa(candidate.ID)
	title := candidate.OriginalTitle
	if title == "" {
		title = candidate.Title
	}

	// Data-quality rejection: no dedup lookup, no detail fetch, no retry.
	if models.NormalizeTitle(title) == "" {
		s.logger.Debugf("[Sync] skipping candidate with empty title (tmdb id %s)", tmdbID)
		return outcomeRejected
	}

	isNew, err := s.isNewCandidate(tmdbID, title)
	if err != nil {
		s.logger.Errorf("[Sync] duplicate check failed for tmdb id %s: %v", tmdbID, err)
		return outcomeFailed
	}
	if !isNew {
		s.logger.Debugf("[Sync] movie already exists - title: %s, tmdb id: %s", title, tmdbID)
		return outcomeDuplicate
	}

	movie, err := s.enricher.Enrich(ctx, tmdbID)
	if err != nil {
		s.logger.Errorf("[Sync] failed to enrich movie %s: %v", tmdbID, err)
		return outcomeFailed
	}

	if err := s.db.SaveMovie(movie); err != nil {
		s.logger.Errorf("[Sync] failed to save movie %s: %v", tmdbID, err)
		return outcomeFailed
	}

	s.logger.Debugf("[Sync] imported new movie: %s", movie.Title)
	return outcomeImported
}

// isNewCandidate is the dedup gate. A candidate is a duplicate when a stored
// movie matches its external id or its normalized title; either alone is
// sufficient to skip re-import.
func (s *SyncService) isNewCandidate(tmdbID, title string) (bool, error) {
	byTmdbID, err := s.db.FindMovieByTmdbID(tmdbID)
	if err != nil {
		return false, err
	}
	if byTmdbID != nil {
		return false, nil
	}

	byTitle, err := s.db.FindMovieByTitle(title)
	if err != nil {
		return false, err
	}

	return byTitle == nil, nil
}
