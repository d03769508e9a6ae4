// Package handlers implements HTTP request handlers for the movie-review API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moviehub/review/internal/constants"
	apperrors "github.com/moviehub/review/internal/errors"
	"github.com/moviehub/review/internal/services"
)

// Handler handles HTTP requests for the movie-review API.
type Handler struct {
	services *services.Container
}

// New creates a new Handler with the provided services.
func New(services *services.Container) *Handler {
	return &Handler{
		services: services,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/movies", h.handleListMovies)
		api.POST("/movies", h.handleCreateMovie)
		api.GET("/movies/:id", h.handleGetMovie)
		api.PUT("/movies/:id", h.handleUpdateMovie)
		api.DELETE("/movies/:id", h.handleDeleteMovie)
		api.GET("/movies/:id/reviews", h.handleMovieReviews)
		api.GET("/movies/:id/average-rating", h.handleMovieAverageRating)
		api.GET("/movies/genre/:genre", h.handleMoviesByGenre)
		api.GET("/movies/search", h.handleSearchMovies)

		api.GET("/reviews", h.handleListReviews)
		api.POST("/reviews", h.handleCreateReview)
		api.GET("/reviews/:id", h.handleGetReview)
		api.PUT("/reviews/:id", h.handleUpdateReview)
		api.DELETE("/reviews/:id", h.handleDeleteReview)

		api.POST("/sync", h.handleTriggerSync)
	}
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    constants.AppName,
		"version": constants.AppVersion,
	})
}

// handleTriggerSync starts a full catalog sync in the background. The sync
// runs to natural completion; the request only acknowledges the start.
func (h *Handler) handleTriggerSync(c *gin.Context) {
	go func() {
		if err := h.services.Sync.SyncNow(context.Background()); err != nil {
			h.services.Logger.Errorf("[Handler] manual sync failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "sync started"})
}

// respondError maps the error taxonomy onto HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.services.Logger.Errorf("[Handler] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
