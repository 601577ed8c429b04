package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/middleware"
	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NovelHandler struct {
	svc service.NovelService
}

func NewNovelHandler(svc service.NovelService) *NovelHandler {
	return &NovelHandler{svc: svc}
}

func (h *NovelHandler) RegisterRoutes(rg *gin.RouterGroup, authService service.AuthService) {
	// Public routes
	rg.GET("/", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/:novel_id", h.Get)

	// Admin-only routes
	rg.POST("/", middleware.AuthMiddleware(authService), middleware.RequireAdmin(), h.Create)
	rg.PUT("/:novel_id", middleware.AuthMiddleware(authService), middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:novel_id", middleware.AuthMiddleware(authService), middleware.RequireAdmin(), h.Delete)
}

func (h *NovelHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Parse pagination parameters
	page := 1
	pageSize := 20

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	list, total, err := h.svc.GetAll(ctx, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Use basic response with only essential fields
	resp := make([]dto.NovelBasicResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, dto.FromModelToBasicResponse(n))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resp,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// Get handles GET /api/novels/:novel_id and returns the aggregated detail
// view: the novel, all its reviews and the mean rating. A missing novel is
// a distinct 404, never an empty detail body.
func (h *NovelHandler) Get(c *gin.Context) {
	id := c.Param("novel_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	detail, err := h.svc.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "novel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Search handles GET /api/novels/search with the catalog filter
// parameters: q (substring over title or author), regions, statuses and
// genres as comma-separated lists. Absent parameters impose no
// constraint.
func (h *NovelHandler) Search(c *gin.Context) {
	var filter service.CatalogFilter
	filter.Term = strings.TrimSpace(c.Query("q"))

	if regionsStr := strings.TrimSpace(c.Query("regions")); regionsStr != "" {
		for _, part := range strings.Split(regionsStr, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid regions parameter"})
				return
			}
			filter.RegionIDs = append(filter.RegionIDs, id)
		}
	}

	if statusesStr := strings.TrimSpace(c.Query("statuses")); statusesStr != "" {
		for _, part := range strings.Split(statusesStr, ",") {
			status := strings.ToLower(strings.TrimSpace(part))
			if !models.ValidNovelStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status, must be one of: ongoing, completed, hiatus, dropped"})
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	if genresStr := strings.TrimSpace(c.Query("genres")); genresStr != "" {
		for _, part := range strings.Split(genresStr, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid genres parameter"})
				return
			}
			filter.GenreIDs = append(filter.GenreIDs, id)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.Search(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.NovelBasicResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, dto.FromModelToBasicResponse(n))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  resp,
		"total": len(resp),
	})
}

func (h *NovelHandler) Create(c *gin.Context) {
	var in dto.CreateNovelDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model := in.ToModel()
	if userID := c.GetString("userID"); userID != "" {
		model.CreatedBy = &userID
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Create novel
	if err := h.svc.Create(ctx, &model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Assign genres if provided
	if len(in.GenreIDs) > 0 {
		if err := h.svc.ReplaceGenresForNovel(ctx, model.ID, in.GenreIDs); err != nil {
			c.JSON(http.StatusCreated, gin.H{
				"novel":   dto.FromModelToResponse(model),
				"warning": "Novel created but failed to assign some genres: " + err.Error(),
			})
			return
		}
	}

	// Fetch the novel with genres to return complete data
	created, err := h.svc.GetByID(ctx, model.ID)
	if err != nil {
		c.JSON(http.StatusCreated, dto.FromModelToResponse(model))
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToResponse(*created))
}

func (h *NovelHandler) Update(c *gin.Context) {
	id := c.Param("novel_id")

	var in dto.UpdateNovelDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// prepare model with provided fields only
	var n models.Novel
	in.ApplyTo(&n)

	if err := h.svc.Update(ctx, id, &n); err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "novel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Replace genres if provided
	if in.GenreIDs != nil {
		if err := h.svc.ReplaceGenresForNovel(ctx, id, in.GenreIDs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Novel updated but failed to update genres: " + err.Error(),
				"novel": id,
			})
			return
		}
	}

	// Fetch updated novel with genres
	updated, err := h.svc.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToResponse(*updated))
}

func (h *NovelHandler) Delete(c *gin.Context) {
	id := c.Param("novel_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
