package repository

import (
	"context"
	"errors"

	"novelhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, userID, reviewID string) error
	GetByID(ctx context.Context, reviewID string) (*models.Review, error)
	GetByNovel(ctx context.Context, novelID string) ([]models.Review, error)
	CalculateAverageRating(ctx context.Context, novelID string) (float64, error)
	CountReviews(ctx context.Context, novelID string) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create a new review
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Update an existing review
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete a review; only the author may remove their own review
func (r *reviewRepository) Delete(ctx context.Context, userID, reviewID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("review not found")
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, reviewID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&review, "id = ?", reviewID).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByNovel retrieves all reviews for a novel, newest first, with the
// author joined for username display.
func (r *reviewRepository) GetByNovel(ctx context.Context, novelID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("novel_id = ?", novelID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// CalculateAverageRating calculates the average review rating for a novel.
// Returns 0 when the novel has no reviews.
func (r *reviewRepository) CalculateAverageRating(ctx context.Context, novelID string) (float64, error) {
	var avg struct {
		Average float64
	}

	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Where("novel_id = ?", novelID).
		Scan(&avg).Error

	if err != nil {
		return 0, err
	}

	return avg.Average, nil
}

// CountReviews counts the total number of reviews for a novel
func (r *reviewRepository) CountReviews(ctx context.Context, novelID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Where("novel_id = ?", novelID).Count(&count).Error
	return count, err
}
