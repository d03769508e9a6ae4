package services

import (
	"fmt"
	"strings"

	"github.com/moviehub/review/internal/constants"
	"github.com/moviehub/review/internal/database"
	apperrors "github.com/moviehub/review/internal/errors"
	"github.com/moviehub/review/internal/models"
	"github.com/moviehub/review/pkg/logger"
)

// ReviewService implements review CRUD and keeps the movie's denormalized
// average rating in sync. Every mutation recomputes the aggregate as its
// final step; an aggregate-write failure is the mutation's failure.
type ReviewService struct {
	db     database.Database
	logger logger.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(db database.Database) *ReviewService {
	return &ReviewService{
		db:     db,
		logger: logger.New(),
	}
}

// CreateReview validates and persists a review, then recomputes the movie
// aggregate. movieRef may be a movie id or an exact case-insensitive title;
// only the resolved id is ever stored. Movies that are not yet released
// cannot be reviewed.
func (r *ReviewService) CreateReview(movieRef, userID string, rating int, comment string) (*models.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	movie, err := r.resolveMovie(movieRef)
	if err != nil {
		return nil, err
	}

	if !movie.Released {
		return nil, apperrors.NewValidationError("reviews are not allowed before the movie is released")
	}

	review := &models.Review{
		MovieID: movie.ID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}

	if err := r.db.SaveReview(review); err != nil {
		r.logger.Errorf("[ReviewService] failed to save review for movie %s: %v", movie.ID, err)
		return nil, err
	}

	if _, err := r.RecomputeAverageRating(movie.ID); err != nil {
		return nil, err
	}

	r.logger.Infof("[ReviewService] created review %s for movie %s", review.ID, movie.ID)
	return review, nil
}

// GetReview retrieves a review by id.
func (r *ReviewService) GetReview(id string) (*models.Review, error) {
	review, err := r.db.GetReview(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, apperrors.NewNotFoundError("review", id)
	}
	return review, nil
}

// GetAllReviews retrieves every stored review.
func (r *ReviewService) GetAllReviews() ([]models.Review, error) {
	return r.db.GetAllReviews()
}

// GetReviewsByMovie retrieves all reviews for one movie.
func (r *ReviewService) GetReviewsByMovie(movieID string) ([]models.Review, error) {
	movie, err := r.db.GetMovie(movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperrors.NewNotFoundError("movie", movieID)
	}

	return r.db.FindReviewsByMovieID(movieID)
}

// UpdateReview changes a review's rating and comment, then recomputes the
// movie aggregate.
func (r *ReviewService) UpdateReview(id string, rating int, comment string) (*models.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	review, err := r.GetReview(id)
	if err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Comment = comment

	if err := r.db.SaveReview(review); err != nil {
		r.logger.Errorf("[ReviewService] failed to update review %s: %v", id, err)
		return nil, err
	}

	if _, err := r.RecomputeAverageRating(review.MovieID); err != nil {
		return nil, err
	}

	r.logger.Infof("[ReviewService] updated review %s", id)
	return review, nil
}

// DeleteReview removes a review, then recomputes the movie aggregate.
func (r *ReviewService) DeleteReview(id string) error {
	review, err := r.GetReview(id)
	if err != nil {
		return err
	}

	if err := r.db.DeleteReview(id); err != nil {
		r.logger.Errorf("[ReviewService] failed to delete review %s: %v", id, err)
		return err
	}

	if _, err := r.RecomputeAverageRating(review.MovieID); err != nil {
		return err
	}

	r.logger.Infof("[ReviewService] deleted review %s", id)
	return nil
}

// RecomputeAverageRating reads the full current review set for a movie and
// writes the arithmetic mean back to the movie record. An empty set yields
// exactly 0.0, not an error.
func (r *ReviewService) RecomputeAverageRating(movieID string) (float64, error) {
	movie, err := r.db.GetMovie(movieID)
	if err != nil {
		return 0, err
	}
	if movie == nil {
		return 0, apperrors.NewNotFoundError("movie", movieID)
	}

	reviews, err := r.db.FindReviewsByMovieID(movieID)
	if err != nil {
		return 0, err
	}

	average := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		average = float64(sum) / float64(len(reviews))
	}

	movie.AverageRating = average
	if err := r.db.SaveMovie(movie); err != nil {
		r.logger.Errorf("[ReviewService] failed to write aggregate for movie %s: %v", movieID, err)
		return 0, fmt.Errorf("failed to update movie rating: %w", err)
	}

	r.logger.Debugf("[ReviewService] movie %s average rating now %.2f over %d reviews",
		movieID, average, len(reviews))
	return average, nil
}

// resolveMovie resolves a review's movie reference, which may be the
// movie's id or its exact case-insensitive title.
func (r *ReviewService) resolveMovie(movieRef string) (*models.Movie, error) {
	ref := strings.TrimSpace(movieRef)
	if ref == "" {
		return nil, apperrors.NewValidationError("movie reference must not be blank")
	}

	movie, err := r.db.GetMovie(ref)
	if err != nil {
		return nil, err
	}
	if movie != nil {
		return movie, nil
	}

	movie, err = r.db.FindMovieByTitle(ref)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperrors.NewNotFoundError("movie", ref)
	}

	return movie, nil
}

func validateRating(rating int) error {
	if rating < constants.MinRating || rating > constants.MaxRating {
		return apperrors.NewValidationError(
			fmt.Sprintf("rating must be between %d and %d", constants.MinRating, constants.MaxRating))
	}
	return nil
}
