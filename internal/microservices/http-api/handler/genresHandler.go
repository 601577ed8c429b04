package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/middleware"
	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// GenreHandler and RegionHandler expose the reference data behind the
// catalog filter panel.

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup, authService service.AuthService) {
	rg.GET("/", h.List)
	rg.POST("/", middleware.AuthMiddleware(authService), middleware.RequireAdmin(), h.Create)
	rg.GET("/:id/novels", h.GetNovelsByGenre)
}

func (h *GenreHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GenreHandler) Create(c *gin.Context) {
	var in dto.CreateGenreDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model := models.Genre{Name: in.Name}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Create(ctx, &model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(model))
}

// GetNovelsByGenre handles GET /api/genres/:id/novels
func (h *GenreHandler) GetNovelsByGenre(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid genre id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetNovelsByGenre(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.NovelBasicResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, dto.FromModelToBasicResponse(n))
	}
	c.JSON(http.StatusOK, resp)
}

type RegionHandler struct {
	svc service.RegionService
}

func NewRegionHandler(svc service.RegionService) *RegionHandler {
	return &RegionHandler{svc: svc}
}

func (h *RegionHandler) RegisterRoutes(rg *gin.RouterGroup, authService service.AuthService) {
	rg.GET("/", h.List)
	rg.POST("/", middleware.AuthMiddleware(authService), middleware.RequireAdmin(), h.Create)
}

func (h *RegionHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]dto.RegionResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, dto.RegionFromModel(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegionHandler) Create(c *gin.Context) {
	var in dto.CreateRegionDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model := models.Region{Name: in.Name, Code: in.Code}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Create(ctx, &model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.RegionFromModel(model))
}
