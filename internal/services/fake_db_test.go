package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moviehub/review/internal/models"
)

// fakeDB is an in-memory Database used by service tests. It mirrors the
// bolt implementation's semantics: lookups return (nil, nil) when missing,
// saves assign ids and maintain the normalized title.
type fakeDB struct {
	mu      sync.Mutex
	movies  map[string]models.Movie
	reviews map[string]models.Review

	saveMovieErr error

	findByTmdbIDCalls int
	findByTitleCalls  int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		movies:  make(map[string]models.Movie),
		reviews: make(map[string]models.Review),
	}
}

func (f *fakeDB) GetMovie(id string) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if movie, ok := f.movies[id]; ok {
		return &movie, nil
	}
	return nil, nil
}

func (f *fakeDB) GetAllMovies() ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	movies := make([]models.Movie, 0, len(f.movies))
	for _, movie := range f.movies {
		movies = append(movies, movie)
	}
	return movies, nil
}

func (f *fakeDB) FindMovieByTmdbID(tmdbID string) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findByTmdbIDCalls++
	if tmdbID == "" {
		return nil, nil
	}
	for _, movie := range f.movies {
		if movie.TmdbID == tmdbID {
			found := movie
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) FindMovieByTitle(title string) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findByTitleCalls++
	normalized := models.NormalizeTitle(title)
	if normalized == "" {
		return nil, nil
	}
	for _, movie := range f.movies {
		if movie.TitleNormalized == normalized {
			found := movie
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) SaveMovie(movie *models.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveMovieErr != nil {
		return f.saveMovieErr
	}

	if movie.ID == "" {
		movie.ID = uuid.NewString()
		movie.CreatedAt = time.Now()
	}
	movie.UpdatedAt = time.Now()
	movie.TitleNormalized = models.NormalizeTitle(movie.Title)
	movie.EnsureCollections()

	f.movies[movie.ID] = *movie
	return nil
}

func (f *fakeDB) DeleteMovie(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.movies, id)
	return nil
}

func (f *fakeDB) GetReview(id string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if review, ok := f.reviews[id]; ok {
		return &review, nil
	}
	return nil, nil
}

func (f *fakeDB) GetAllReviews() ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reviews := make([]models.Review, 0, len(f.reviews))
	for _, review := range f.reviews {
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (f *fakeDB) FindReviewsByMovieID(movieID string) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reviews := []models.Review{}
	for _, review := range f.reviews {
		if review.MovieID == movieID {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

func (f *fakeDB) SaveReview(review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.NewString()
		review.CreatedAt = time.Now()
	}
	review.UpdatedAt = time.Now()

	f.reviews[review.ID] = *review
	return nil
}

func (f *fakeDB) DeleteReview(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.reviews, id)
	return nil
}

func (f *fakeDB) Close() error {
	return nil
}

// mustSeedMovie stores a released movie directly and returns its id.
func (f *fakeDB) mustSeedMovie(title, tmdbID string) string {
	movie := &models.Movie{Title: title, TmdbID: tmdbID, Released: true}
	if err := f.SaveMovie(movie); err != nil {
		panic(err)
	}
	return movie.ID
}
