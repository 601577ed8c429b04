package dto

import (
	"time"

	"novelhub/internal/microservices/http-api/models"
)

// UpsertReadingListRequest: payload to add or update a reading-list entry.
// The operation is keyed by (user, novel); repeating with a different
// status overwrites the stored entry.
type UpsertReadingListRequest struct {
	Status         string  `json:"status" binding:"required"`
	Rating         *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	CurrentChapter *int    `json:"current_chapter,omitempty" binding:"omitempty,min=0"`
	Notes          *string `json:"notes,omitempty"`
}

// ReadingListEntryResponse: response for one reading-list entry
type ReadingListEntryResponse struct {
	ID             string         `json:"id"`
	NovelID        string         `json:"novel_id"`
	Status         string         `json:"status"`
	Rating         *int           `json:"rating,omitempty"`
	CurrentChapter *int           `json:"current_chapter,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	Novel          *NovelResponse `json:"novel,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ReadingListResponse: list of reading-list entries
type ReadingListResponse struct {
	Items []ReadingListEntryResponse `json:"items"`
	Total int                        `json:"total"`
}

func FromModelToReadingListEntryResponse(e models.ReadingListEntry) ReadingListEntryResponse {
	resp := ReadingListEntryResponse{
		ID:             e.ID,
		NovelID:        e.NovelID,
		Status:         e.Status,
		Rating:         e.Rating,
		CurrentChapter: e.CurrentChapter,
		Notes:          e.Notes,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.Novel != nil {
		novel := FromModelToResponse(*e.Novel)
		resp.Novel = &novel
	}
	return resp
}
