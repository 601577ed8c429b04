package dto

import "novelhub/internal/microservices/http-api/models"

// CreateGenreDTO for POST /api/genres
type CreateGenreDTO struct {
	Name string `json:"name" binding:"required"`
}

type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{
		ID:   g.ID,
		Name: g.Name,
	}
}

// CreateRegionDTO for POST /api/regions
type CreateRegionDTO struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required,max=8"`
}

type RegionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func RegionFromModel(r models.Region) RegionResponse {
	return RegionResponse{
		ID:   r.ID,
		Name: r.Name,
		Code: r.Code,
	}
}
