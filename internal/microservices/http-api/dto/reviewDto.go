package dto

import (
	"time"

	"novelhub/internal/microservices/http-api/models"
)

// CreateReviewDTO for posting a review on a novel
type CreateReviewDTO struct {
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Title     string `json:"title" binding:"required,max=200"`
	Content   string `json:"content" binding:"required"`
	IsSpoiler bool   `json:"is_spoiler"`
}

// UpdateReviewDTO for editing an existing review; absent fields keep
// their stored values
type UpdateReviewDTO struct {
	Rating    *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Title     *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Content   *string `json:"content,omitempty"`
	IsSpoiler *bool   `json:"is_spoiler,omitempty"`
}

// ReviewResponse for returning review information (list view)
type ReviewResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsSpoiler bool      `json:"is_spoiler"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        review.ID,
		Username:  review.User.Username,
		Rating:    review.Rating,
		Title:     review.Title,
		Content:   review.Content,
		IsSpoiler: review.IsSpoiler,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
