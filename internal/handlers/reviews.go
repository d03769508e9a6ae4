package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// reviewRequest is the inbound payload for review create/update. movieId
// accepts either a movie id or an exact case-insensitive title; the service
// resolves it to an id before anything is stored.
type reviewRequest struct {
	MovieID string `json:"movieId"`
	UserID  string `json:"userId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) handleListReviews(c *gin.Context) {
	reviews, err := h.services.Reviews.GetAllReviews()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *Handler) handleGetReview(c *gin.Context) {
	review, err := h.services.Reviews.GetReview(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *Handler) handleCreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.services.Reviews.CreateReview(req.MovieID, req.UserID, req.Rating, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *Handler) handleUpdateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.services.Reviews.UpdateReview(c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *Handler) handleDeleteReview(c *gin.Context) {
	if err := h.services.Reviews.DeleteReview(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
