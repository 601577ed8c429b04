package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"novelhub/internal/microservices/http-api/service"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Individual client connection handler

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send pings at 90% of the pong window to leave room for jitter
	MaxMessageSize = 4096                // maximum frame size allowed from peer
	sendBufferSize = 64
)

type Client struct {
	ID          string          // unique client ID
	UserID      *string         // nil for anonymous visitors
	UserName    string          // from JWT claims, "anonymous" otherwise
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // channel for outbound messages
	Hub         *Hub            // reference to the central Hub

	limiter *rate.Limiter // per-connection token bucket for sends

	mu     sync.RWMutex
	roomID string // current room, "" when not subscribed
}

// constructor new client
func NewClient(id string, userID *string, userName string, conn *websocket.Conn, hub *Hub, limiter *rate.Limiter) *Client {
	return &Client{
		ID:          id,
		UserID:      userID,
		UserName:    userName,
		Conn:        conn,
		SendChannel: make(chan []byte, sendBufferSize),
		Hub:         hub,
		limiter:     limiter,
	}
}

// Room returns the client's current room id ("" when unsubscribed).
func (c *Client) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *Client) setRoom(roomID string) {
	c.mu.Lock()
	c.roomID = roomID
	c.mu.Unlock()
}

// ReadPump reads frames from the peer and dispatches them. One goroutine
// per connection; exits on read error and unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := MessageFromJSON(data)
		if err != nil {
			c.SendMessage(NewErrorMessage("", "malformed frame"))
			continue
		}

		switch msg.Type {
		case TypeJoin:
			if msg.RoomID == "" {
				c.SendMessage(NewErrorMessage("", "room_id required"))
				continue
			}
			c.Hub.Join <- joinRequest{client: c, roomID: msg.RoomID}

		case TypeLeave:
			c.Hub.Leave <- c

		case TypeChat:
			c.handleChat(msg)

		default:
			c.SendMessage(NewErrorMessage(msg.RoomID, "unsupported message type"))
		}
	}
}

// handleChat validates and persists a send. The frame's room tag must
// match the client's current room; a frame for a room the client already
// left is rejected instead of leaking into the wrong room.
func (c *Client) handleChat(msg *Message) {
	current := c.Room()
	if current == "" || msg.RoomID != current {
		c.SendMessage(NewErrorMessage(msg.RoomID, "join the room before sending"))
		return
	}

	if !c.limiter.Allow() {
		c.SendMessage(NewErrorMessage(current, "sending too fast, slow down"))
		return
	}

	var username *string
	if c.UserID != nil {
		username = &c.UserName
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.Hub.chatService.SaveMessage(ctx, current, c.UserID, username, msg.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.SendMessage(NewErrorMessage(current, "message is empty"))
		case errors.Is(err, service.ErrMessageTooLong):
			c.SendMessage(NewErrorMessage(current, "message exceeds the allowed length"))
		default:
			c.SendMessage(NewErrorMessage(current, "message could not be delivered"))
		}
	}
	// accepted messages come back through the changefeed fan-out
}

// WritePump writes outbound frames and keeps the heartbeat going. One
// goroutine per connection; exits when SendChannel closes.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a raw frame, dropping it if the buffer is full.
func (c *Client) Send(frame []byte) {
	select {
	case c.SendChannel <- frame:
	default:
	}
}

// SendMessage marshals and queues one protocol message.
func (c *Client) SendMessage(msg *Message) {
	frame, err := msg.ToJSON()
	if err != nil {
		return
	}
	c.Send(frame)
}
