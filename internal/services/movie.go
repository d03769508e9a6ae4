package services

import (
	"strings"
	"time"

	"github.com/moviehub/review/internal/database"
	apperrors "github.com/moviehub/review/internal/errors"
	"github.com/moviehub/review/internal/models"
	"github.com/moviehub/review/pkg/logger"
)

// MovieService implements interactive movie CRUD. The released flag is
// computed once at write time against the current date and is intentionally
// not re-derived on read; an upcoming movie does not flip to released on
// its own.
type MovieService struct {
	db     database.Database
	logger logger.Logger
}

// NewMovieService creates a MovieService.
func NewMovieService(db database.Database) *MovieService {
	return &MovieService{
		db:     db,
		logger: logger.New(),
	}
}

// CreateMovie persists a new movie. A missing release date defaults to
// January 1 of the release year.
func (m *MovieService) CreateMovie(movie *models.Movie) (*models.Movie, error) {
	if strings.TrimSpace(movie.Title) == "" {
		return nil, apperrors.NewValidationError("movie title must not be blank")
	}

	m.logger.Infof("[MovieService] creating movie: %s", movie.Title)

	movie.ID = ""
	movie.AverageRating = 0.0

	if movie.ReleaseDate == nil && movie.ReleaseYear > 0 {
		defaultDate := time.Date(movie.ReleaseYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		movie.ReleaseDate = &defaultDate
	}
	freezeReleased(movie)

	if err := m.db.SaveMovie(movie); err != nil {
		m.logger.Errorf("[MovieService] failed to create movie %s: %v", movie.Title, err)
		return nil, err
	}

	m.logger.Infof("[MovieService] created movie %s with id %s", movie.Title, movie.ID)
	return movie, nil
}

// GetMovie retrieves a movie by id.
func (m *MovieService) GetMovie(id string) (*models.Movie, error) {
	movie, err := m.db.GetMovie(id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperrors.NewNotFoundError("movie", id)
	}

	movie.EnsureCollections()
	return movie, nil
}

// GetAllMovies retrieves every stored movie.
func (m *MovieService) GetAllMovies() ([]models.Movie, error) {
	movies, err := m.db.GetAllMovies()
	if err != nil {
		return nil, err
	}

	for i := range movies {
		movies[i].EnsureCollections()
	}
	return movies, nil
}

// UpdateMovie applies title, genre and release changes to an existing movie.
// The released flag is re-frozen against today using the new release date.
func (m *MovieService) UpdateMovie(id string, updates *models.Movie) (*models.Movie, error) {
	existing, err := m.GetMovie(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(updates.Title) != "" {
		existing.Title = updates.Title
	}
	if updates.Genre != nil {
		existing.Genre = updates.Genre
	}
	if updates.Overview != "" {
		existing.Overview = updates.Overview
	}
	if updates.ReleaseDate != nil {
		existing.ReleaseDate = updates.ReleaseDate
		existing.ReleaseYear = updates.ReleaseDate.Year()
	} else if updates.ReleaseYear > 0 {
		defaultDate := time.Date(updates.ReleaseYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		existing.ReleaseDate = &defaultDate
		existing.ReleaseYear = updates.ReleaseYear
	}
	freezeReleased(existing)

	if err := m.db.SaveMovie(existing); err != nil {
		m.logger.Errorf("[MovieService] failed to update movie %s: %v", id, err)
		return nil, err
	}

	m.logger.Infof("[MovieService] updated movie %s", id)
	return existing, nil
}

// DeleteMovie removes a movie by id.
func (m *MovieService) DeleteMovie(id string) error {
	movie, err := m.db.GetMovie(id)
	if err != nil {
		return err
	}
	if movie == nil {
		return apperrors.NewNotFoundError("movie", id)
	}

	if err := m.db.DeleteMovie(id); err != nil {
		m.logger.Errorf("[MovieService] failed to delete movie %s: %v", id, err)
		return err
	}

	m.logger.Infof("[MovieService] deleted movie %s", id)
	return nil
}

// FindMoviesByGenre retrieves movies whose genre tags contain the given
// genre, case-insensitively.
func (m *MovieService) FindMoviesByGenre(genre string) ([]models.Movie, error) {
	all, err := m.GetAllMovies()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(genre)
	matched := []models.Movie{}
	for _, movie := range all {
		for _, tag := range movie.Genre {
			if strings.Contains(strings.ToLower(tag), needle) {
				matched = append(matched, movie)
				break
			}
		}
	}

	return matched, nil
}

// SearchMovies retrieves movies whose title contains the given fragment,
// case-insensitively. A positive year restricts matches to that release year;
// an empty fragment matches every title.
func (m *MovieService) SearchMovies(title string, year int) ([]models.Movie, error) {
	all, err := m.GetAllMovies()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(title))
	matched := []models.Movie{}
	for _, movie := range all {
		if needle != "" && !strings.Contains(strings.ToLower(movie.Title), needle) {
			continue
		}
		if year > 0 && movie.ReleaseYear != year {
			continue
		}
		matched = append(matched, movie)
	}

	return matched, nil
}

// freezeReleased evaluates the released flag once against today.
func freezeReleased(movie *models.Movie) {
	if movie.ReleaseDate == nil {
		movie.Released = false
		return
	}
	movie.Released = !movie.ReleaseDate.After(time.Now())
}
