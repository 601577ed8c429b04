package repository

import (
	"context"
	"fmt"

	"novelhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type NovelRepo struct {
	db *gorm.DB
}

func NewNovelRepo(db *gorm.DB) *NovelRepo {
	return &NovelRepo{db: db}
}

func (r *NovelRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Novel, int64, error) {
	var list []models.Novel
	var total int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&models.Novel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Calculate offset
	offset := (page - 1) * pageSize

	// Fetch paginated results, newest first
	if err := r.db.WithContext(ctx).
		Preload("Region").
		Preload("Genres").
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *NovelRepo) GetByID(ctx context.Context, id string) (*models.Novel, error) {
	var n models.Novel
	if err := r.db.WithContext(ctx).
		Preload("Region").
		Preload("Genres").
		First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NovelRepo) Create(ctx context.Context, n *models.Novel) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create novel: %w", err)
	}
	// GORM will populate n.ID and n.CreatedAt
	return nil
}

func (r *NovelRepo) Update(ctx context.Context, id string, n *models.Novel) error {
	// ensure ID set for Save
	n.ID = id
	if err := r.db.WithContext(ctx).Omit("Region", "Genres").Save(n).Error; err != nil {
		return fmt.Errorf("update novel: %w", err)
	}
	return nil
}

func (r *NovelRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Novel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete novel: %w", err)
	}
	return nil
}

// Search fetches the candidate set for the catalog filter. The free-text
// term is a case-insensitive substring match on title OR author; region
// and status selections translate to IN clauses when non-empty. Empty
// selections impose no constraint. Genre intersection happens in the
// service on the preloaded genre lists (join-table relation).
// Results keep the catalog order: created_at desc.
func (r *NovelRepo) Search(ctx context.Context, term string, regionIDs []int64, statuses []string) ([]models.Novel, error) {
	var list []models.Novel
	db := r.db.WithContext(ctx).
		Preload("Region").
		Preload("Genres")

	if term != "" {
		p := "%" + term + "%"
		db = db.Where("title ILIKE ? OR author ILIKE ?", p, p)
	}
	if len(regionIDs) > 0 {
		db = db.Where("region_id IN ?", regionIDs)
	}
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}

	if err := db.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search novels: %w", err)
	}
	return list, nil
}

func (r *NovelRepo) GetGenresByNovel(ctx context.Context, novelID string) ([]models.Genre, error) {
	var n models.Novel
	if err := r.db.WithContext(ctx).Preload("Genres").First(&n, "id = ?", novelID).Error; err != nil {
		return nil, fmt.Errorf("get novel: %w", err)
	}
	return n.Genres, nil
}

// ReplaceGenres swaps the full genre set of a novel inside one transaction.
func (r *NovelRepo) ReplaceGenres(ctx context.Context, novelID string, genreIDs []int64) error {
	tx := r.db.WithContext(ctx).Begin()
	var n models.Novel
	if err := tx.First(&n, "id = ?", novelID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("novel not found: %w", err)
	}
	genres := make([]models.Genre, 0, len(genreIDs))
	for _, id := range genreIDs {
		genres = append(genres, models.Genre{ID: id})
	}
	if err := tx.Model(&n).Association("Genres").Replace(&genres); err != nil {
		tx.Rollback()
		return fmt.Errorf("replace genres: %w", err)
	}
	return tx.Commit().Error
}
