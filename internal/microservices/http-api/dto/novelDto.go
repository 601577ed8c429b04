package dto

import (
	"time"

	"novelhub/internal/microservices/http-api/models"
)

// CreateNovelDTO used for POST /api/novels
type CreateNovelDTO struct {
	Title             string             `json:"title" binding:"required"`
	AlternativeTitles []string           `json:"alternative_titles,omitempty"`
	Author            string             `json:"author" binding:"required"`
	RegionID          int64              `json:"region_id" binding:"required"`
	Summary           string             `json:"summary"`
	CoverImageURL     *string            `json:"cover_image_url,omitempty"`
	Status            string             `json:"status" binding:"required"`
	PublicationYear   *int               `json:"publication_year,omitempty"`
	TotalChapters     *int               `json:"total_chapters,omitempty"`
	OfficialLinks     []models.NovelLink `json:"official_links,omitempty"`
	TranslationLinks  []models.NovelLink `json:"translation_links,omitempty"`
	GenreIDs          []int64            `json:"genre_ids,omitempty"`
}

// UpdateNovelDTO used for PUT /api/novels/:id (partial updates allowed)
type UpdateNovelDTO struct {
	Title             *string             `json:"title,omitempty"`
	AlternativeTitles *[]string           `json:"alternative_titles,omitempty"`
	Author            *string             `json:"author,omitempty"`
	RegionID          *int64              `json:"region_id,omitempty"`
	Summary           *string             `json:"summary,omitempty"`
	CoverImageURL     *string             `json:"cover_image_url,omitempty"`
	Status            *string             `json:"status,omitempty"`
	PublicationYear   *int                `json:"publication_year,omitempty"`
	TotalChapters     *int                `json:"total_chapters,omitempty"`
	OfficialLinks     *[]models.NovelLink `json:"official_links,omitempty"`
	TranslationLinks  *[]models.NovelLink `json:"translation_links,omitempty"`
	GenreIDs          []int64             `json:"genre_ids,omitempty"`
}

// NovelResponse DTO for detail responses
type NovelResponse struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	AlternativeTitles []string           `json:"alternative_titles,omitempty"`
	Author            string             `json:"author"`
	Region            *RegionResponse    `json:"region,omitempty"`
	Summary           string             `json:"summary"`
	CoverImageURL     *string            `json:"cover_image_url,omitempty"`
	Status            string             `json:"status"`
	PublicationYear   *int               `json:"publication_year,omitempty"`
	TotalChapters     *int               `json:"total_chapters,omitempty"`
	OfficialLinks     []models.NovelLink `json:"official_links,omitempty"`
	TranslationLinks  []models.NovelLink `json:"translation_links,omitempty"`
	Genres            []GenreResponse    `json:"genres"`
	CreatedAt         time.Time          `json:"created_at"`
}

// NovelBasicResponse DTO for catalog list/search rows
type NovelBasicResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	RegionID      int64           `json:"region_id"`
	Status        string          `json:"status"`
	CoverImageURL *string         `json:"cover_image_url,omitempty"`
	TotalChapters *int            `json:"total_chapters,omitempty"`
	Genres        []GenreResponse `json:"genres"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NovelDetailResponse aggregates one novel with its reviews and the
// derived mean rating (0 when there are no reviews).
type NovelDetailResponse struct {
	Novel         NovelResponse    `json:"novel"`
	Reviews       []ReviewResponse `json:"reviews"`
	ReviewCount   int64            `json:"review_count"`
	AverageRating float64          `json:"average_rating"`
}

// Converters
func (d CreateNovelDTO) ToModel() models.Novel {
	return models.Novel{
		Title:             d.Title,
		AlternativeTitles: models.StringList(d.AlternativeTitles),
		Author:            d.Author,
		RegionID:          d.RegionID,
		Summary:           d.Summary,
		CoverImageURL:     d.CoverImageURL,
		Status:            d.Status,
		PublicationYear:   d.PublicationYear,
		TotalChapters:     d.TotalChapters,
		OfficialLinks:     models.NovelLinks(d.OfficialLinks),
		TranslationLinks:  models.NovelLinks(d.TranslationLinks),
	}
}

func (d UpdateNovelDTO) ApplyTo(n *models.Novel) {
	if d.Title != nil {
		n.Title = *d.Title
	}
	if d.AlternativeTitles != nil {
		n.AlternativeTitles = models.StringList(*d.AlternativeTitles)
	}
	if d.Author != nil {
		n.Author = *d.Author
	}
	if d.RegionID != nil {
		n.RegionID = *d.RegionID
	}
	if d.Summary != nil {
		n.Summary = *d.Summary
	}
	if d.CoverImageURL != nil {
		n.CoverImageURL = d.CoverImageURL
	}
	if d.Status != nil {
		n.Status = *d.Status
	}
	if d.PublicationYear != nil {
		n.PublicationYear = d.PublicationYear
	}
	if d.TotalChapters != nil {
		n.TotalChapters = d.TotalChapters
	}
	if d.OfficialLinks != nil {
		n.OfficialLinks = models.NovelLinks(*d.OfficialLinks)
	}
	if d.TranslationLinks != nil {
		n.TranslationLinks = models.NovelLinks(*d.TranslationLinks)
	}
}

func FromModelToResponse(n models.Novel) NovelResponse {
	genres := make([]GenreResponse, 0, len(n.Genres))
	for _, g := range n.Genres {
		genres = append(genres, GenreFromModel(g))
	}
	resp := NovelResponse{
		ID:                n.ID,
		Title:             n.Title,
		AlternativeTitles: n.AlternativeTitles,
		Author:            n.Author,
		Summary:           n.Summary,
		CoverImageURL:     n.CoverImageURL,
		Status:            n.Status,
		PublicationYear:   n.PublicationYear,
		TotalChapters:     n.TotalChapters,
		OfficialLinks:     n.OfficialLinks,
		TranslationLinks:  n.TranslationLinks,
		Genres:            genres,
		CreatedAt:         n.CreatedAt,
	}
	if n.Region.ID != 0 {
		region := RegionFromModel(n.Region)
		resp.Region = &region
	}
	return resp
}

func FromModelToBasicResponse(n models.Novel) NovelBasicResponse {
	genres := make([]GenreResponse, 0, len(n.Genres))
	for _, g := range n.Genres {
		genres = append(genres, GenreFromModel(g))
	}
	return NovelBasicResponse{
		ID:            n.ID,
		Title:         n.Title,
		Author:        n.Author,
		RegionID:      n.RegionID,
		Status:        n.Status,
		CoverImageURL: n.CoverImageURL,
		TotalChapters: n.TotalChapters,
		Genres:        genres,
		CreatedAt:     n.CreatedAt,
	}
}
