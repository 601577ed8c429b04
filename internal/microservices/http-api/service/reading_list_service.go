package service

import (
	"context"
	"errors"
	"fmt"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var ErrNotInReadingList = errors.New("novel not in reading list")

type ReadingListService interface {
	Upsert(ctx context.Context, userID, novelID string, in dto.UpsertReadingListRequest) (*dto.ReadingListEntryResponse, error)
	Remove(ctx context.Context, userID, novelID string) error
	List(ctx context.Context, userID string) ([]models.ReadingListEntry, error)
}

type readingListService struct {
	repo      repository.ReadingListRepository
	novelRepo novelGetter
}

func NewReadingListService(repo repository.ReadingListRepository, novelRepo novelGetter) ReadingListService {
	return &readingListService{
		repo:      repo,
		novelRepo: novelRepo,
	}
}

// Upsert records or updates the (user, novel) relationship. A repeated
// call with a different status overwrites the stored entry rather than
// duplicating it.
func (s *readingListService) Upsert(ctx context.Context, userID, novelID string, in dto.UpsertReadingListRequest) (*dto.ReadingListEntryResponse, error) {
	// Check if novel exists
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}

	if !models.ValidReadingStatus(in.Status) {
		return nil, fmt.Errorf("invalid reading status: %s", in.Status)
	}

	entry := &models.ReadingListEntry{
		UserID:         userID,
		NovelID:        novelID,
		Status:         in.Status,
		Rating:         in.Rating,
		CurrentChapter: in.CurrentChapter,
		Notes:          in.Notes,
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	// Re-read so the response carries the persisted row (the upsert path
	// keeps the original entry id on conflict).
	stored, err := s.repo.Get(ctx, userID, novelID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToReadingListEntryResponse(*stored)
	return &resp, nil
}

func (s *readingListService) Remove(ctx context.Context, userID, novelID string) error {
	if err := s.repo.Remove(ctx, userID, novelID); err != nil {
		return ErrNotInReadingList
	}
	return nil
}

func (s *readingListService) List(ctx context.Context, userID string) ([]models.ReadingListEntry, error) {
	return s.repo.List(ctx, userID)
}
