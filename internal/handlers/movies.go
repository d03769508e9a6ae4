package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/moviehub/review/internal/errors"
	"github.com/moviehub/review/internal/models"
)

// movieRequest is the inbound payload for movie create/update.
type movieRequest struct {
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Genre       []string `json:"genre"`
	ReleaseYear int      `json:"releaseYear"`
	ReleaseDate string   `json:"releaseDate"`
}

// toMovie converts the request into a movie, parsing the optional
// YYYY-MM-DD release date.
func (req *movieRequest) toMovie() (*models.Movie, error) {
	movie := &models.Movie{
		Title:       req.Title,
		Overview:    req.Overview,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
	}

	if req.ReleaseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			return nil, apperrors.NewValidationError("releaseDate must be formatted YYYY-MM-DD")
		}
		movie.ReleaseDate = &parsed
		movie.ReleaseYear = parsed.Year()
	}

	return movie, nil
}

func (h *Handler) handleListMovies(c *gin.Context) {
	movies, err := h.services.Movies.GetAllMovies()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movies)
}

func (h *Handler) handleGetMovie(c *gin.Context) {
	movie, err := h.services.Movies.GetMovie(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movie)
}

func (h *Handler) handleCreateMovie(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	movie, err := req.toMovie()
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.services.Movies.CreateMovie(movie)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) handleUpdateMovie(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updates, err := req.toMovie()
	if err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.services.Movies.UpdateMovie(c.Param("id"), updates)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) handleDeleteMovie(c *gin.Context) {
	if err := h.services.Movies.DeleteMovie(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleMoviesByGenre(c *gin.Context) {
	movies, err := h.services.Movies.FindMoviesByGenre(c.Param("genre"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movies)
}

func (h *Handler) handleMovieAverageRating(c *gin.Context) {
	movie, err := h.services.Movies.GetMovie(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movieId":       movie.ID,
		"averageRating": movie.AverageRating,
	})
}

func (h *Handler) handleSearchMovies(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(c, apperrors.NewValidationError("year must be a number"))
			return
		}
		year = parsed
	}

	movies, err := h.services.Movies.SearchMovies(c.Query("title"), year)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movies)
}

func (h *Handler) handleMovieReviews(c *gin.Context) {
	reviews, err := h.services.Reviews.GetReviewsByMovie(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
