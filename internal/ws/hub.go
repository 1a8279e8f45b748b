package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks which sessions are subscribed to which room and fans events out
// to them. Delivery is at-most-once per connected peer: no retry, no
// buffering of missed events. A reconnecting client pulls full state.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Session]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*Session]struct{}),
	}
}

// Join subscribes the session to the room. Callers must have passed the
// membership guard first.
func (h *Hub) Join(roomID uuid.UUID, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions, ok := h.rooms[roomID]
	if !ok {
		sessions = make(map[*Session]struct{})
		h.rooms[roomID] = sessions
	}
	sessions[s] = struct{}{}
}

func (h *Hub) Leave(roomID uuid.UUID, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(roomID, s)
}

// RemoveSession drops the session from every room. Called on disconnect.
func (h *Hub) RemoveSession(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID := range h.rooms {
		h.leaveLocked(roomID, s)
	}
}

func (h *Hub) leaveLocked(roomID uuid.UUID, s *Session) {
	sessions, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(sessions, s)
	if len(sessions) == 0 {
		delete(h.rooms, roomID)
	}
}

// RoomSize returns the number of sessions currently subscribed to the room
func (h *Hub) RoomSize(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast delivers the message to every session in the room except the
// optionally-excluded originator. A peer whose send buffer is full misses
// the message; it will catch up through a full-state pull.
func (h *Hub) Broadcast(roomID uuid.UUID, msg Message, exclude *Session) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: failed to marshal %s broadcast: %v", msg.Event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.rooms[roomID] {
		if s == exclude {
			continue
		}
		select {
		case s.send <- data:
		default:
			log.Printf("ws: dropping %s for slow session %s", msg.Event, s.userID)
		}
	}
}
