package websocket

// Central hub managing all connections and rooms.
// Each WebSocket connection runs in its own goroutines but all room
// membership changes flow through the hub's channels, so membership
// state is only ever touched from the run loop.

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/service"
)

const historyFetchTimeout = 5 * time.Second

type joinRequest struct {
	client *Client
	roomID string
}

// historyDelivery carries a fetched history frame back into the run
// loop. The frame is only forwarded if the client still sits in the room
// it was fetched for; a client that switched rooms mid-fetch never sees
// the stale window.
type historyDelivery struct {
	client *Client
	roomID string
	frame  []byte
}

// joinResolved carries a room lookup result back into the run loop. The
// lookup runs off-loop so a slow query never stalls broadcasts; the
// result only applies if the client still has that room pending.
type joinResolved struct {
	client *Client
	roomID string
	room   *dto.ChatRoomResponse
	err    error
}

type Hub struct {
	rooms   map[string]*Room
	clients map[*Client]bool
	pending map[*Client]string // in-flight join target per client

	Register   chan *Client
	Unregister chan *Client
	Join       chan joinRequest
	Leave      chan *Client
	Broadcast  chan *Message // live messages from the changefeed

	joins   chan joinResolved
	history chan historyDelivery

	chatService service.ChatService
	logger      *slog.Logger
}

func NewHub(chatService service.ChatService, logger *slog.Logger) *Hub {
	return &Hub{
		rooms:       make(map[string]*Room),
		clients:     make(map[*Client]bool),
		pending:     make(map[*Client]string),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		Join:        make(chan joinRequest),
		Leave:       make(chan *Client),
		Broadcast:   make(chan *Message, 256),
		joins:       make(chan joinResolved, 64),
		history:     make(chan historyDelivery, 64),
		chatService: chatService,
		logger:      logger,
	}
}

// Run processes hub events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub shutting down")
			for client := range h.clients {
				h.removeClient(client)
			}
			return

		case client := <-h.Register:
			h.clients[client] = true
			h.logger.Debug("client registered", "client_id", client.ID, "anonymous", client.UserID == nil)

		case client := <-h.Unregister:
			if h.clients[client] {
				h.removeClient(client)
			}

		case req := <-h.Join:
			h.handleJoin(req)

		case res := <-h.joins:
			h.completeJoin(res)

		case client := <-h.Leave:
			h.leaveCurrentRoom(client, true)

		case msg := <-h.Broadcast:
			h.routeToRoom(msg)

		case d := <-h.history:
			// stale-response guard: drop the window if the client moved on
			if h.clients[d.client] && d.client.Room() == d.roomID {
				d.client.Send(d.frame)
			}
		}
	}
}

// handleJoin records the client's join target and resolves the room
// off-loop. A newer join overwrites the pending target, so a lookup that
// resolves late simply gets discarded.
func (h *Hub) handleJoin(req joinRequest) {
	client, roomID := req.client, req.roomID
	if !h.clients[client] {
		return
	}
	if client.Room() == roomID {
		// already there; cancel any in-flight switch
		delete(h.pending, client)
		return
	}

	h.pending[client] = roomID
	go h.resolveJoin(client, roomID)
}

func (h *Hub) resolveJoin(client *Client, roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), historyFetchTimeout)
	defer cancel()

	room, err := h.chatService.GetRoom(ctx, roomID)
	h.joins <- joinResolved{client: client, roomID: roomID, room: room, err: err}
}

// completeJoin applies a resolved join: the previous membership is torn
// down before the new one is established, then the bounded history is
// fetched off-loop and delivered tagged with the room id. A result for a
// room the client no longer has pending is dropped.
func (h *Hub) completeJoin(res joinResolved) {
	client := res.client
	if !h.clients[client] || h.pending[client] != res.roomID {
		return
	}
	delete(h.pending, client)

	if res.err != nil {
		content := "unable to join room"
		if errors.Is(res.err, service.ErrRoomNotFound) {
			content = "room not found"
		}
		client.SendMessage(NewErrorMessage(res.roomID, content))
		return
	}

	h.leaveCurrentRoom(client, false)

	room := h.rooms[res.roomID]
	if room == nil {
		room = NewRoom(res.room.ID, res.room.Name)
		h.rooms[res.roomID] = room
	}
	room.AddUser(client)
	client.setRoom(res.roomID)

	client.SendMessage(NewSystemMessage(res.roomID, "joined "+res.room.Name))

	go h.fetchHistory(client, res.roomID)
}

func (h *Hub) fetchHistory(client *Client, roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), historyFetchTimeout)
	defer cancel()

	messages, err := h.chatService.GetHistory(ctx, roomID)
	if err != nil {
		h.logger.Warn("history fetch failed", "room_id", roomID, "error", err)
		messages = []dto.ChatMessageResponse{}
	}
	frame, err := NewHistoryMessage(roomID, messages).ToJSON()
	if err != nil {
		return
	}
	h.history <- historyDelivery{client: client, roomID: roomID, frame: frame}
}

func (h *Hub) leaveCurrentRoom(client *Client, notify bool) {
	roomID := client.Room()
	if roomID == "" {
		return
	}
	if room := h.rooms[roomID]; room != nil {
		room.RemoveUser(client)
		if room.GetUserCount() == 0 {
			delete(h.rooms, roomID)
		}
	}
	client.setRoom("")
	if notify {
		client.SendMessage(NewSystemMessage(roomID, "left room"))
	}
}

// routeToRoom fans a live message out to the matching room only. Rooms
// with no members simply drop the message; history remains the source of
// record.
func (h *Hub) routeToRoom(msg *Message) {
	room := h.rooms[msg.RoomID]
	if room == nil {
		return
	}
	frame, err := msg.ToJSON()
	if err != nil {
		return
	}
	room.Broadcast(frame)
}

func (h *Hub) removeClient(client *Client) {
	h.leaveCurrentRoom(client, false)
	delete(h.pending, client)
	delete(h.clients, client)
	close(client.SendChannel)
	h.logger.Debug("client unregistered", "client_id", client.ID)
}
