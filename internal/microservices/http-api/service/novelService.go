package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var ErrNovelNotFound = errors.New("novel not found")

// CatalogFilter is one filter selection over the catalog. Empty fields
// impose no constraint (pass-through).
type CatalogFilter struct {
	Term      string
	RegionIDs []int64
	Statuses  []string
	GenreIDs  []int64
}

type NovelService interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Novel, int64, error)
	GetByID(ctx context.Context, id string) (*models.Novel, error)
	GetDetail(ctx context.Context, id string) (*dto.NovelDetailResponse, error)
	Create(ctx context.Context, n *models.Novel) error
	Update(ctx context.Context, id string, n *models.Novel) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter CatalogFilter) ([]models.Novel, error)
	ReplaceGenresForNovel(ctx context.Context, novelID string, genreIDs []int64) error
}

type novelService struct {
	repo       *repository.NovelRepo
	reviewRepo repository.ReviewRepository
}

func NewNovelService(r *repository.NovelRepo, reviewRepo repository.ReviewRepository) NovelService {
	return &novelService{repo: r, reviewRepo: reviewRepo}
}

func (s *novelService) GetAll(ctx context.Context, page, pageSize int) ([]models.Novel, int64, error) {
	return s.repo.GetAll(ctx, page, pageSize)
}

func (s *novelService) GetByID(ctx context.Context, id string) (*models.Novel, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}
	return n, nil
}

// GetDetail assembles one novel (region and genres included) together
// with all its reviews and the derived mean rating. A lookup miss
// returns ErrNovelNotFound so the handler can render a distinct
// not-found state rather than an empty detail view.
func (s *novelService) GetDetail(ctx context.Context, id string) (*dto.NovelDetailResponse, error) {
	novel, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.GetByNovel(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewResponses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		reviewResponses = append(reviewResponses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return &dto.NovelDetailResponse{
		Novel:         dto.FromModelToResponse(*novel),
		Reviews:       reviewResponses,
		ReviewCount:   int64(len(reviews)),
		AverageRating: MeanRating(reviews),
	}, nil
}

func (s *novelService) Create(ctx context.Context, n *models.Novel) error {
	// basic validation
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(n.Author) == "" {
		return errors.New("author is required")
	}
	if !models.ValidNovelStatus(n.Status) {
		return fmt.Errorf("invalid status: %s", n.Status)
	}

	n.Title = strings.TrimSpace(n.Title)
	n.Author = strings.TrimSpace(n.Author)

	return s.repo.Create(ctx, n)
}

func (s *novelService) Update(ctx context.Context, id string, n *models.Novel) error {
	// ensure exists
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNovelNotFound
		}
		return err
	}

	// Apply fields that are non-zero in n to existing
	if strings.TrimSpace(n.Title) != "" {
		existing.Title = strings.TrimSpace(n.Title)
	}
	if strings.TrimSpace(n.Author) != "" {
		existing.Author = strings.TrimSpace(n.Author)
	}
	if n.RegionID != 0 {
		existing.RegionID = n.RegionID
	}
	if n.Status != "" {
		if !models.ValidNovelStatus(n.Status) {
			return fmt.Errorf("invalid status: %s", n.Status)
		}
		existing.Status = n.Status
	}
	if n.Summary != "" {
		existing.Summary = n.Summary
	}
	if n.AlternativeTitles != nil {
		existing.AlternativeTitles = n.AlternativeTitles
	}
	if n.CoverImageURL != nil {
		existing.CoverImageURL = n.CoverImageURL
	}
	if n.PublicationYear != nil {
		existing.PublicationYear = n.PublicationYear
	}
	if n.TotalChapters != nil {
		existing.TotalChapters = n.TotalChapters
	}
	if n.OfficialLinks != nil {
		existing.OfficialLinks = n.OfficialLinks
	}
	if n.TranslationLinks != nil {
		existing.TranslationLinks = n.TranslationLinks
	}

	return s.repo.Update(ctx, id, existing)
}

func (s *novelService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Search produces the visible catalog from one filter selection. The
// repository narrows by term, region and status; the genre
// intersection (a join-table relation) and the remaining guarantees
// come from the pure FilterNovels pass over the candidates.
func (s *novelService) Search(ctx context.Context, filter CatalogFilter) ([]models.Novel, error) {
	candidates, err := s.repo.Search(ctx, strings.TrimSpace(filter.Term), filter.RegionIDs, filter.Statuses)
	if err != nil {
		return nil, err
	}
	return FilterNovels(candidates, filter), nil
}

func (s *novelService) ReplaceGenresForNovel(ctx context.Context, novelID string, genreIDs []int64) error {
	for _, id := range genreIDs {
		if id <= 0 {
			return fmt.Errorf("invalid genre id: %d", id)
		}
	}
	return s.repo.ReplaceGenres(ctx, novelID, genreIDs)
}

// FilterNovels returns the subset of candidates matching ALL of: the
// term is a case-insensitive substring of title OR author; the region
// id is in the selected set; the status is in the selected set; the
// genre list intersects the selected genre set. Empty selections pass
// through. The result preserves candidate order and the function is
// pure: repeated application with the same filter is a no-op.
func FilterNovels(candidates []models.Novel, filter CatalogFilter) []models.Novel {
	term := strings.ToLower(strings.TrimSpace(filter.Term))

	regionSet := make(map[int64]struct{}, len(filter.RegionIDs))
	for _, id := range filter.RegionIDs {
		regionSet[id] = struct{}{}
	}
	statusSet := make(map[string]struct{}, len(filter.Statuses))
	for _, st := range filter.Statuses {
		statusSet[st] = struct{}{}
	}
	genreSet := make(map[int64]struct{}, len(filter.GenreIDs))
	for _, id := range filter.GenreIDs {
		genreSet[id] = struct{}{}
	}

	out := make([]models.Novel, 0, len(candidates))
	for _, n := range candidates {
		if term != "" &&
			!strings.Contains(strings.ToLower(n.Title), term) &&
			!strings.Contains(strings.ToLower(n.Author), term) {
			continue
		}
		if len(regionSet) > 0 {
			if _, ok := regionSet[n.RegionID]; !ok {
				continue
			}
		}
		if len(statusSet) > 0 {
			if _, ok := statusSet[n.Status]; !ok {
				continue
			}
		}
		if len(genreSet) > 0 && !genresIntersect(n.Genres, genreSet) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func genresIntersect(genres []models.Genre, selected map[int64]struct{}) bool {
	for _, g := range genres {
		if _, ok := selected[g.ID]; ok {
			return true
		}
	}
	return false
}

// MeanRating is the arithmetic mean of review ratings rounded to one
// decimal, 0 when there are no reviews.
func MeanRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}
