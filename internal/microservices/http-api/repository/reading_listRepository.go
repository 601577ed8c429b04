package repository

import (
	"context"
	"fmt"

	"novelhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReadingListRepository interface {
	Upsert(ctx context.Context, entry *models.ReadingListEntry) error
	Remove(ctx context.Context, userID, novelID string) error
	List(ctx context.Context, userID string) ([]models.ReadingListEntry, error)
	Get(ctx context.Context, userID, novelID string) (*models.ReadingListEntry, error)
}

type readingListRepository struct {
	db *gorm.DB
}

func NewReadingListRepository(db *gorm.DB) ReadingListRepository {
	return &readingListRepository{db: db}
}

// Upsert writes the entry keyed by (user_id, novel_id): a repeated call
// with a different status overwrites the existing row, never duplicates.
func (r *readingListRepository) Upsert(ctx context.Context, entry *models.ReadingListEntry) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "novel_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "rating", "current_chapter", "notes", "updated_at",
			}),
		}).
		Create(entry).Error; err != nil {
		return fmt.Errorf("upsert reading list entry: %w", err)
	}
	return nil
}

func (r *readingListRepository) Remove(ctx context.Context, userID, novelID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		Delete(&models.ReadingListEntry{})

	if result.Error != nil {
		return fmt.Errorf("remove from reading list: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("novel not found in reading list")
	}

	return nil
}

func (r *readingListRepository) List(ctx context.Context, userID string) ([]models.ReadingListEntry, error) {
	var list []models.ReadingListEntry

	if err := r.db.WithContext(ctx).
		Preload("Novel").
		Preload("Novel.Region").
		Preload("Novel.Genres").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list reading list: %w", err)
	}

	return list, nil
}

func (r *readingListRepository) Get(ctx context.Context, userID, novelID string) (*models.ReadingListEntry, error) {
	var entry models.ReadingListEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
