package service

import (
	"context"
	"errors"
	"strings"

	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/repository"
)

// GenreService and RegionService serve the static reference data behind
// the filter panel. Reads go through the Redis read-through cache.

type GenreService interface {
	GetAll(ctx context.Context) ([]models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	GetNovelsByGenre(ctx context.Context, genreID int64) ([]models.Novel, error)
}

type genreService struct {
	repo  *repository.GenreRepo
	cache *repository.ReferenceCache
}

func NewGenreService(r *repository.GenreRepo, cache *repository.ReferenceCache) GenreService {
	return &genreService{repo: r, cache: cache}
}

func (s *genreService) GetAll(ctx context.Context) ([]models.Genre, error) {
	if s.cache != nil {
		return s.cache.GetGenres(ctx)
	}
	return s.repo.GetAll(ctx)
}

func (s *genreService) Create(ctx context.Context, g *models.Genre) error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("genre name required")
	}
	g.Name = strings.TrimSpace(g.Name)
	if err := s.repo.Create(ctx, g); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

func (s *genreService) GetNovelsByGenre(ctx context.Context, genreID int64) ([]models.Novel, error) {
	return s.repo.GetNovelsByGenre(ctx, genreID)
}

type RegionService interface {
	GetAll(ctx context.Context) ([]models.Region, error)
	Create(ctx context.Context, region *models.Region) error
}

type regionService struct {
	repo  *repository.RegionRepo
	cache *repository.ReferenceCache
}

func NewRegionService(r *repository.RegionRepo, cache *repository.ReferenceCache) RegionService {
	return &regionService{repo: r, cache: cache}
}

func (s *regionService) GetAll(ctx context.Context) ([]models.Region, error) {
	if s.cache != nil {
		return s.cache.GetRegions(ctx)
	}
	return s.repo.GetAll(ctx)
}

func (s *regionService) Create(ctx context.Context, region *models.Region) error {
	if strings.TrimSpace(region.Name) == "" || strings.TrimSpace(region.Code) == "" {
		return errors.New("region name and code required")
	}
	region.Name = strings.TrimSpace(region.Name)
	region.Code = strings.ToUpper(strings.TrimSpace(region.Code))
	if err := s.repo.Create(ctx, region); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}
