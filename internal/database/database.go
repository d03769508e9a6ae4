// Package database provides data persistence for movies and reviews using BoltDB.
package database

import (
	"github.com/moviehub/review/internal/models"
)

// Database defines the interface for data persistence operations.
// Lookup methods return (nil, nil) when the entity does not exist; callers
// decide whether absence is an error.
type Database interface {
	// GetMovie retrieves a movie by its storage id
	GetMovie(id string) (*models.Movie, error)
	// GetAllMovies retrieves every stored movie
	GetAllMovies() ([]models.Movie, error)
	// FindMovieByTmdbID retrieves a movie by its external catalog id
	FindMovieByTmdbID(tmdbID string) (*models.Movie, error)
	// FindMovieByTitle retrieves a movie by case-insensitive title match
	FindMovieByTitle(title string) (*models.Movie, error)
	// SaveMovie inserts or updates a movie, assigning an id when empty
	SaveMovie(movie *models.Movie) error
	// DeleteMovie removes a movie by id
	DeleteMovie(id string) error

	// GetReview retrieves a review by id
	GetReview(id string) (*models.Review, error)
	// GetAllReviews retrieves every stored review
	GetAllReviews() ([]models.Review, error)
	// FindReviewsByMovieID retrieves all reviews referencing a movie
	FindReviewsByMovieID(movieID string) ([]models.Review, error)
	// SaveReview inserts or updates a review, assigning an id when empty
	SaveReview(review *models.Review) error
	// DeleteReview removes a review by id
	DeleteReview(id string) error

	// Close closes the database connection
	Close() error
}
