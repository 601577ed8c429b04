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

// ChatHandler serves the room directory and the bounded history fetch.
// Live traffic goes over the WebSocket endpoint, not through here.
type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup, authService service.AuthService) {
	rg.GET("/rooms", h.ListRooms)
	rg.GET("/rooms/:room_id", h.GetRoom)
	rg.GET("/rooms/:room_id/messages", h.GetHistory)
	rg.POST("/rooms", middleware.AuthMiddleware(authService), middleware.RequireAdmin(), h.CreateRoom)
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.svc.ListRooms(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rooms, "total": len(rooms)})
}

func (h *ChatHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("room_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	room, err := h.svc.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, room)
}

// GetHistory returns the most recent window of room messages in
// ascending created_at order.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	roomID := c.Param("room_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	messages, err := h.svc.GetHistory(ctx, roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room_id": roomID,
		"data":    messages,
		"total":   len(messages),
	})
}

func (h *ChatHandler) CreateRoom(c *gin.Context) {
	var in dto.CreateChatRoomDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var createdBy *string
	if userID := c.GetString("userID"); userID != "" {
		createdBy = &userID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	room, err := h.svc.CreateRoom(ctx, in, createdBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, room)
}
