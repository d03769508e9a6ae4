package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/timshannon/bolthold"

	"github.com/moviehub/review/internal/models"
)

const (
	// Default database file permissions
	dbFileMode = 0600
	dbDirMode  = 0755

	// Default database filename
	defaultDBFile = "moviehub.db"
)

// BoltDB implements the Database interface using BoltHold over BoltDB.
// Documents are stored as JSON so records written by older schema versions
// decode with missing fields instead of failing.
type BoltDB struct {
	store *bolthold.Store
}

// NewBolt creates a new BoltDB database instance.
// If dbPath is empty, uses the default database file in current directory.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := bolthold.Open(dbPath, dbFileMode, &bolthold.Options{
		Encoder: json.Marshal,
		Decoder: json.Unmarshal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	return &BoltDB{store: store}, nil
}

// Close closes the database connection.
func (db *BoltDB) Close() error {
	return db.store.Close()
}

// GetMovie retrieves a movie by its storage id.
// Returns nil if not found, without error.
func (db *BoltDB) GetMovie(id string) (*models.Movie, error) {
	var movie models.Movie
	err := db.store.Get(id, &movie)
	if err == bolthold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return &movie, nil
}

// GetAllMovies retrieves every stored movie.
func (db *BoltDB) GetAllMovies() ([]models.Movie, error) {
	var movies []models.Movie
	err := db.store.Find(&movies, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	return movies, nil
}

// FindMovieByTmdbID retrieves a movie by its external catalog id.
// Returns nil if not found, without error.
func (db *BoltDB) FindMovieByTmdbID(tmdbID string) (*models.Movie, error) {
	if tmdbID == "" {
		return nil, nil
	}

	var movies []models.Movie
	err := db.store.Find(&movies, bolthold.Where("TmdbID").Eq(tmdbID).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find movie by tmdb id: %w", err)
	}
	if len(movies) == 0 {
		return nil, nil
	}

	return &movies[0], nil
}

// FindMovieByTitle retrieves a movie by case-insensitive title match.
// The lookup runs against the persisted normalized title.
// Returns nil if not found, without error.
func (db *BoltDB) FindMovieByTitle(title string) (*models.Movie, error) {
	normalized := models.NormalizeTitle(title)
	if normalized == "" {
		return nil, nil
	}

	var movies []models.Movie
	err := db.store.Find(&movies, bolthold.Where("TitleNormalized").Eq(normalized).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find movie by title: %w", err)
	}
	if len(movies) == 0 {
		return nil, nil
	}

	return &movies[0], nil
}

// SaveMovie inserts or updates a movie. An empty id gets a generated one.
// The normalized title and timestamps are maintained here so every write
// path produces dedup-queryable records.
func (db *BoltDB) SaveMovie(movie *models.Movie) error {
	if movie.ID == "" {
		movie.ID = uuid.NewString()
		movie.CreatedAt = time.Now()
	}
	movie.UpdatedAt = time.Now()
	movie.TitleNormalized = models.NormalizeTitle(movie.Title)
	movie.EnsureCollections()

	err := db.store.Upsert(movie.ID, movie)
	if err != nil {
		return fmt.Errorf("failed to store movie: %w", err)
	}

	return nil
}

// DeleteMovie removes a movie by id.
// Returns nil if the movie doesn't exist.
func (db *BoltDB) DeleteMovie(id string) error {
	err := db.store.Delete(id, models.Movie{})
	if err == bolthold.ErrNotFound {
		return nil // Already deleted, not an error
	}
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	return nil
}

// GetReview retrieves a review by id.
// Returns nil if not found, without error.
func (db *BoltDB) GetReview(id string) (*models.Review, error) {
	var review models.Review
	err := db.store.Get(id, &review)
	if err == bolthold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

// GetAllReviews retrieves every stored review.
func (db *BoltDB) GetAllReviews() ([]models.Review, error) {
	var reviews []models.Review
	err := db.store.Find(&reviews, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// FindReviewsByMovieID retrieves all reviews referencing a movie.
func (db *BoltDB) FindReviewsByMovieID(movieID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.store.Find(&reviews, bolthold.Where("MovieID").Eq(movieID))
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews by movie id: %w", err)
	}

	return reviews, nil
}

// SaveReview inserts or updates a review. An empty id gets a generated one.
func (db *BoltDB) SaveReview(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
		review.CreatedAt = time.Now()
	}
	review.UpdatedAt = time.Now()

	err := db.store.Upsert(review.ID, review)
	if err != nil {
		return fmt.Errorf("failed to store review: %w", err)
	}

	return nil
}

// DeleteReview removes a review by id.
// Returns nil if the review doesn't exist.
func (db *BoltDB) DeleteReview(id string) error {
	err := db.store.Delete(id, models.Review{})
	if err == bolthold.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return nil
}
