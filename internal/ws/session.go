package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/mutation"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/repository"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Session is the per-connection state: the authenticated identity, the set
// of joined rooms, and the inbound event handlers.
type Session struct {
	hub       *Hub
	processor *mutation.Processor
	conn      *websocket.Conn
	userID    uuid.UUID
	send      chan []byte

	mu     sync.Mutex
	joined map[uuid.UUID]struct{}
}

func NewSession(hub *Hub, processor *mutation.Processor, conn *websocket.Conn, userID uuid.UUID) *Session {
	return &Session{
		hub:       hub,
		processor: processor,
		conn:      conn,
		userID:    userID,
		send:      make(chan []byte, sendBufferSize),
		joined:    make(map[uuid.UUID]struct{}),
	}
}

// Run starts the read and write pumps and blocks until the connection
// closes. On exit the session is removed from every room.
func (s *Session) Run(ctx context.Context) {
	go s.writePump()
	s.readPump(ctx)
}

func (s *Session) readPump(ctx context.Context) {
	defer func() {
		s.hub.RemoveSession(s)
		close(s.send)
		s.conn.Close()
	}()
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: session %s read error: %v", s.userID, err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError("Invalid message format")
			continue
		}
		s.handleMessage(ctx, msg)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) handleMessage(ctx context.Context, msg Message) {
	switch msg.Event {
	case EventJoinRoom:
		s.handleJoinRoom(ctx, msg.Data)
	case EventLeaveRoom:
		s.handleLeaveRoom(msg.Data)
	case EventCreateTask:
		s.handleCreateTask(ctx, msg.Data)
	case EventUpdateTask:
		s.handleUpdateTask(ctx, msg.Data)
	case EventDeleteTask:
		s.handleDeleteTask(ctx, msg.Data)
	case EventGetAllTasks:
		s.handleGetAllTasks(ctx, msg.Data)
	case EventGetEnums:
		s.handleGetEnums(ctx, msg.Data)
	default:
		s.sendError("Unknown event: " + msg.Event)
	}
}

// handleJoinRoom subscribes the connection to a room after the membership
// guard approves, and replies with the current member snapshot.
func (s *Session) handleJoinRoom(ctx context.Context, data json.RawMessage) {
	roomID, ok := s.parseRoom(data)
	if !ok {
		return
	}
	members, err := s.processor.Members(ctx, s.userID, roomID)
	if err != nil {
		s.sendMutationError(err)
		return
	}
	s.hub.Join(roomID, s)
	s.mu.Lock()
	s.joined[roomID] = struct{}{}
	s.mu.Unlock()
	s.sendEvent(EventRoomJoined, RoomJoinedPayload{
		RoomID:  roomID.String(),
		Members: members,
	})
}

func (s *Session) handleLeaveRoom(data json.RawMessage) {
	roomID, ok := s.parseRoom(data)
	if !ok {
		return
	}
	s.hub.Leave(roomID, s)
	s.mu.Lock()
	delete(s.joined, roomID)
	s.mu.Unlock()
	s.sendEvent(EventRoomLeft, RoomPayload{RoomID: roomID.String()})
}

// handleCreateTask acknowledges to the originator and broadcasts the new
// task to every other viewer of the room.
func (s *Session) handleCreateTask(ctx context.Context, data json.RawMessage) {
	var payload CreateTaskPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("Invalid createTask payload")
		return
	}
	roomID, err := uuid.Parse(payload.RoomID)
	if err != nil {
		s.sendError("Invalid room ID format")
		return
	}
	task, err := s.processor.Create(ctx, s.userID, roomID, payload.CreateRequest)
	if err != nil {
		s.sendEvent(EventCreateTaskAck, CreateTaskAck{Success: false, Error: userMessage(err)})
		return
	}
	s.sendEvent(EventCreateTaskAck, CreateTaskAck{Success: true, Task: task})
	msg, err := NewMessage(EventTaskCreated, TaskCreatedPayload{Task: task})
	if err != nil {
		return
	}
	s.hub.Broadcast(roomID, msg, s)
}

// handleUpdateTask is fire-and-forget: success is observed through the
// taskUpdated broadcast, not a synchronous ack. A no-op update broadcasts
// nothing.
func (s *Session) handleUpdateTask(ctx context.Context, data json.RawMessage) {
	var payload UpdateTaskPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("Invalid updateTask payload")
		return
	}
	roomID, err := uuid.Parse(payload.RoomID)
	if err != nil {
		s.sendError("Invalid room ID format")
		return
	}
	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		s.sendError("Invalid task ID format")
		return
	}
	task, transition, changes, err := s.processor.Update(ctx, s.userID, roomID, taskID, payload.UpdateRequest)
	if err != nil {
		s.sendMutationError(err)
		return
	}
	if task == nil {
		return
	}
	updated := TaskUpdatedPayload{Task: task, Changes: changes}
	if transition != nil {
		updated.FromStatus = transition.From
		updated.ToStatus = transition.To
	}
	msg, err := NewMessage(EventTaskUpdated, updated)
	if err != nil {
		return
	}
	s.hub.Broadcast(roomID, msg, s)
}

// handleDeleteTask acknowledges to the originator and tells the whole room,
// since the task must disappear from every board regardless of assignment.
func (s *Session) handleDeleteTask(ctx context.Context, data json.RawMessage) {
	var payload DeleteTaskPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("Invalid deleteTask payload")
		return
	}
	roomID, err := uuid.Parse(payload.RoomID)
	if err != nil {
		s.sendError("Invalid room ID format")
		return
	}
	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		s.sendError("Invalid task ID format")
		return
	}
	if err := s.processor.Delete(ctx, s.userID, roomID, taskID); err != nil {
		s.sendEvent(EventDeleteTaskAck, DeleteTaskAck{Success: false, Error: userMessage(err)})
		return
	}
	s.sendEvent(EventDeleteTaskAck, DeleteTaskAck{Success: true, TaskID: taskID.String()})
	msg, err := NewMessage(EventTaskDeleted, TaskDeletedPayload{TaskID: taskID.String()})
	if err != nil {
		return
	}
	s.hub.Broadcast(roomID, msg, s)
}

// handleGetAllTasks serves the full-state pull a client performs on join or
// reconnect; broadcasts supplement this, they never replace it.
func (s *Session) handleGetAllTasks(ctx context.Context, data json.RawMessage) {
	roomID, ok := s.parseRoom(data)
	if !ok {
		return
	}
	tasks, err := s.processor.TasksForViewer(ctx, s.userID, roomID)
	if err != nil {
		s.sendMutationError(err)
		return
	}
	s.sendEvent(EventTaskList, TaskListPayload{
		RoomID: roomID.String(),
		Tasks:  tasks,
	})
}

func (s *Session) handleGetEnums(ctx context.Context, data json.RawMessage) {
	roomID, ok := s.parseRoom(data)
	if !ok {
		return
	}
	enums, err := s.processor.Enums(ctx, s.userID, roomID)
	if err != nil {
		s.sendMutationError(err)
		return
	}
	s.sendEvent(EventEnums, enums)
}

func (s *Session) parseRoom(data json.RawMessage) (uuid.UUID, bool) {
	var payload RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.sendError("Invalid payload")
		return uuid.Nil, false
	}
	roomID, err := uuid.Parse(payload.RoomID)
	if err != nil {
		s.sendError("Invalid room ID format")
		return uuid.Nil, false
	}
	return roomID, true
}

func (s *Session) sendEvent(event string, payload interface{}) {
	msg, err := NewMessage(event, payload)
	if err != nil {
		log.Printf("ws: failed to marshal %s: %v", event, err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case s.send <- data:
	default:
		log.Printf("ws: dropping %s for slow session %s", event, s.userID)
	}
}

func (s *Session) sendError(message string) {
	s.sendEvent(EventError, ErrorPayload{Message: message})
}

func (s *Session) sendMutationError(err error) {
	s.sendError(userMessage(err))
}

// userMessage maps domain errors to client-facing strings without leaking
// store internals.
func userMessage(err error) string {
	switch {
	case errors.Is(err, mutation.ErrNotMember):
		return "You are not a member of this project"
	case errors.Is(err, mutation.ErrAdminOnly):
		return "Only the project admin can do that"
	case errors.Is(err, mutation.ErrTitleRequired):
		return "Task title is required"
	case errors.Is(err, repository.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, repository.ErrProjectNotFound):
		return "Project not found"
	default:
		return "Internal error"
	}
}
