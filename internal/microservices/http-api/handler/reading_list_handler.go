package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/middleware"
	"novelhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReadingListHandler struct {
	svc service.ReadingListService
}

func NewReadingListHandler(svc service.ReadingListService) *ReadingListHandler {
	return &ReadingListHandler{svc: svc}
}

// RegisterRoutes mounts the reading-list endpoints. All of them require
// an authenticated user; the list is always scoped to the caller.
func (h *ReadingListHandler) RegisterRoutes(rg *gin.RouterGroup, authService service.AuthService) {
	rg.Use(middleware.AuthMiddleware(authService))
	rg.GET("/", h.List)
	rg.PUT("/:novel_id", h.Upsert)
	rg.DELETE("/:novel_id", h.Remove)
}

func (h *ReadingListHandler) List(c *gin.Context) {
	userID := c.GetString("userID")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.svc.List(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.ReadingListEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.FromModelToReadingListEntryResponse(e))
	}
	c.JSON(http.StatusOK, dto.ReadingListResponse{
		Items: items,
		Total: len(items),
	})
}

// Upsert handles PUT /api/reading-list/:novel_id. The entry is keyed by
// (user, novel): a second PUT with a different status overwrites the
// stored entry instead of adding a duplicate.
func (h *ReadingListHandler) Upsert(c *gin.Context) {
	userID := c.GetString("userID")
	novelID := c.Param("novel_id")

	var in dto.UpsertReadingListRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.svc.Upsert(ctx, userID, novelID, in)
	if err != nil {
		if errors.Is(err, service.ErrNovelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "novel not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ReadingListHandler) Remove(c *gin.Context) {
	userID := c.GetString("userID")
	novelID := c.Param("novel_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Remove(ctx, userID, novelID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "novel not in reading list"})
		return
	}
	c.Status(http.StatusNoContent)
}
