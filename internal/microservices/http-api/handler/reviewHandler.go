package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/middleware"
	"novelhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes mounts review endpoints under the novels group.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, authService service.AuthService) {
	rg.GET("/:novel_id/reviews", h.ListByNovel)
	rg.GET("/:novel_id/rating", h.GetAverageRating)
	rg.POST("/:novel_id/reviews", middleware.AuthMiddleware(authService), h.Create)
	rg.PUT("/:novel_id/reviews/:review_id", middleware.AuthMiddleware(authService), h.Update)
	rg.DELETE("/:novel_id/reviews/:review_id", middleware.AuthMiddleware(authService), h.Delete)
}

func (h *ReviewHandler) ListByNovel(c *gin.Context) {
	novelID := c.Param("novel_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reviews, err := h.svc.GetNovelReviews(ctx, novelID)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "novel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  reviews,
		"total": len(reviews),
	})
}

// GetAverageRating returns the derived mean rating (one decimal, 0 when
// the novel has no reviews) together with the review count.
func (h *ReviewHandler) GetAverageRating(c *gin.Context) {
	novelID := c.Param("novel_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	average, count, err := h.svc.GetNovelAverageRating(ctx, novelID)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "novel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"novel_id":       novelID,
		"average_rating": average,
		"review_count":   count,
	})
}

func (h *ReviewHandler) Create(c *gin.Context) {
	novelID := c.Param("novel_id")
	userID := c.GetString("userID")

	var in dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	review, err := h.svc.CreateReview(ctx, userID, novelID, in)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "novel not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Update edits a review. Only the author can change their own review.
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID := c.Param("review_id")
	userID := c.GetString("userID")

	var in dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	review, err := h.svc.UpdateReview(ctx, userID, reviewID, in)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete removes a review. Only the author can remove their own review;
// anyone else's attempt leaves the row untouched and reads as not found.
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID := c.Param("review_id")
	userID := c.GetString("userID")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeleteReview(ctx, userID, reviewID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
