package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrRoomNotFound   = errors.New("chat room not found")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message exceeds the allowed length")
)

// HistoryLimit caps the bounded history window per room.
const HistoryLimit = 100

// MessageNotifier publishes a persisted message so every server instance's
// hub can fan it out. Backed by Postgres NOTIFY in production.
type MessageNotifier interface {
	Publish(ctx context.Context, payload []byte) error
}

type ChatService interface {
	ListRooms(ctx context.Context) ([]dto.ChatRoomResponse, error)
	GetRoom(ctx context.Context, roomID string) (*dto.ChatRoomResponse, error)
	CreateRoom(ctx context.Context, input dto.CreateChatRoomDTO, createdBy *string) (*dto.ChatRoomResponse, error)
	GetHistory(ctx context.Context, roomID string) ([]dto.ChatMessageResponse, error)
	SaveMessage(ctx context.Context, roomID string, userID *string, username *string, content string) (*dto.ChatMessageResponse, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	notifier MessageNotifier
}

func NewChatService(chatRepo repository.ChatRepository, notifier MessageNotifier) ChatService {
	return &chatService{chatRepo: chatRepo, notifier: notifier}
}

func (s *chatService) ListRooms(ctx context.Context) ([]dto.ChatRoomResponse, error) {
	rooms, err := s.chatRepo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChatRoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, dto.ChatRoomFromModel(room))
	}
	return out, nil
}

func (s *chatService) GetRoom(ctx context.Context, roomID string) (*dto.ChatRoomResponse, error) {
	room, err := s.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	resp := dto.ChatRoomFromModel(*room)
	return &resp, nil
}

func (s *chatService) CreateRoom(ctx context.Context, input dto.CreateChatRoomDTO, createdBy *string) (*dto.ChatRoomResponse, error) {
	switch input.Type {
	case models.RoomTypeGeneral, models.RoomTypeRegion, models.RoomTypeNovel:
	default:
		return nil, fmt.Errorf("invalid room type %q", input.Type)
	}

	room := &models.ChatRoom{
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		RegionID:    input.RegionID,
		NovelID:     input.NovelID,
		CreatedBy:   createdBy,
	}
	if err := s.chatRepo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	resp := dto.ChatRoomFromModel(*room)
	return &resp, nil
}

func (s *chatService) GetHistory(ctx context.Context, roomID string) ([]dto.ChatMessageResponse, error) {
	if _, err := s.chatRepo.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	messages, err := s.chatRepo.GetRecentMessages(ctx, roomID, HistoryLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.ChatMessageFromModel(m))
	}
	return out, nil
}

// ValidateMessageContent applies the send contract shared by the HTTP and
// WebSocket paths: content is trimmed, empty content is rejected, and the
// ceiling depends on whether the sender is authenticated.
func ValidateMessageContent(content string, authenticated bool) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	limit := models.MaxAnonymousMessageLen
	if authenticated {
		limit = models.MaxAuthenticatedMessageLen
	}
	if len([]rune(trimmed)) > limit {
		return "", ErrMessageTooLong
	}
	return trimmed, nil
}

// SaveMessage validates, persists and publishes a chat message. A nil
// userID means anonymous: the row keeps a NULL user reference and the
// shorter content ceiling applies. Rejected messages are never persisted.
func (s *chatService) SaveMessage(ctx context.Context, roomID string, userID *string, username *string, content string) (*dto.ChatMessageResponse, error) {
	if _, err := s.chatRepo.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	trimmed, err := ValidateMessageContent(content, userID != nil)
	if err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		RoomID:      roomID,
		UserID:      userID,
		Content:     trimmed,
		IsAnonymous: userID == nil,
	}
	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	resp := dto.ChatMessageFromModel(*message)
	if !resp.IsAnonymous && username != nil {
		resp.Username = username
	}

	if s.notifier != nil {
		payload, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("marshal message payload: %w", err)
		}
		if err := s.notifier.Publish(ctx, payload); err != nil {
			// The row is committed; listeners on other instances miss it
			// but history stays correct.
			return &resp, fmt.Errorf("publish message: %w", err)
		}
	}

	return &resp, nil
}
