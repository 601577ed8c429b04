package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

// novelGetter is the slice of the novel repository the review and
// reading-list services need for existence checks.
type novelGetter interface {
	GetByID(ctx context.Context, id string) (*models.Novel, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, userID, novelID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	UpdateReview(ctx context.Context, userID, reviewID string, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	DeleteReview(ctx context.Context, userID, reviewID string) error
	GetNovelReviews(ctx context.Context, novelID string) ([]dto.ReviewResponse, error)
	GetNovelAverageRating(ctx context.Context, novelID string) (float64, int64, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	novelRepo  novelGetter
}

func NewReviewService(reviewRepo repository.ReviewRepository, novelRepo novelGetter) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		novelRepo:  novelRepo,
	}
}

// CreateReview records a review by userID on novelID. Repeated reviews
// by the same user on the same novel are accepted; there is no
// uniqueness rule on (user, novel).
func (s *reviewService) CreateReview(ctx context.Context, userID, novelID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	// Check if novel exists
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, errors.New("review title and content required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	review := &models.Review{
		UserID:    userID,
		NovelID:   novelID,
		Rating:    in.Rating,
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		IsSpoiler: in.IsSpoiler,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	// Reload with author joined for the response
	created, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(created), nil
}

// UpdateReview edits an existing review. Only the author may change
// their own review; anyone else's attempt reads as not found.
func (s *reviewService) UpdateReview(ctx context.Context, userID, reviewID string, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, ErrReviewNotFound
	}
	if review.UserID != userID {
		return nil, ErrReviewNotFound
	}

	if in.Rating != nil {
		if *in.Rating < 1 || *in.Rating > 5 {
			return nil, errors.New("rating must be between 1 and 5")
		}
		review.Rating = *in.Rating
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, errors.New("review title required")
		}
		review.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, errors.New("review content required")
		}
		review.Content = strings.TrimSpace(*in.Content)
	}
	if in.IsSpoiler != nil {
		review.IsSpoiler = *in.IsSpoiler
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID string) error {
	if err := s.reviewRepo.Delete(ctx, userID, reviewID); err != nil {
		return ErrReviewNotFound
	}
	return nil
}

func (s *reviewService) GetNovelReviews(ctx context.Context, novelID string) ([]dto.ReviewResponse, error) {
	// Check if novel exists
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.GetByNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return responses, nil
}

// GetNovelAverageRating returns the mean rating (one decimal, 0 when no
// reviews) and the review count, computed as SQL aggregates so the
// rating endpoint never loads review rows.
func (s *reviewService) GetNovelAverageRating(ctx context.Context, novelID string) (float64, int64, error) {
	// Check if novel exists
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrNovelNotFound
		}
		return 0, 0, err
	}

	average, err := s.reviewRepo.CalculateAverageRating(ctx, novelID)
	if err != nil {
		return 0, 0, err
	}
	count, err := s.reviewRepo.CountReviews(ctx, novelID)
	if err != nil {
		return 0, 0, err
	}

	return math.Round(average*10) / 10, count, nil
}
