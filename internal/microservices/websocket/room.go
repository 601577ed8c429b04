package websocket

import (
	"log/slog"
	"sync"
)

// Room = one chat room (general, per-region or per-novel) for multiple clients
type Room struct {
	ID      string             // chat room ID (uuid)
	Name    string             // room display name
	Clients map[string]*Client // map[clientID] -> *Client
	mu      sync.RWMutex       // mutex for concurrent access
}

// NewRoom creates a new chat Room
func NewRoom(id, name string) *Room {
	return &Room{
		ID:      id,
		Name:    name,
		Clients: make(map[string]*Client),
	}
}

// AddUser: adds new client to the room
func (r *Room) AddUser(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Clients[c.ID] == nil {
		slog.Debug("Client added to room", "room_id", r.ID, "client_id", c.ID)
		r.Clients[c.ID] = c
	} else {
		slog.Warn("Client already in room", "room_id", r.ID, "client_id", c.ID)
	}
}

// RemoveUser: removes client from the room
func (r *Room) RemoveUser(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Clients[c.ID] != nil {
		slog.Debug("Client removed from room", "room_id", r.ID, "client_id", c.ID)
		delete(r.Clients, c.ID)
	}
}

// Broadcast: broadcasts a frame to all clients in the room. A client
// whose send buffer is full is skipped rather than blocking the room.
func (r *Room) Broadcast(frame []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, client := range r.Clients {
		select {
		case client.SendChannel <- frame:
		default:
			slog.Warn("Client send buffer full, dropping frame", "room_id", r.ID, "client_id", client.ID)
		}
	}
}

// GetUserCount: returns the number of clients in the room
func (r *Room) GetUserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients)
}

// GetClients: returns copy of clients list in the room
func (r *Room) GetClients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.Clients))
	for _, client := range r.Clients {
		clients = append(clients, client)
	}
	return clients
}
