package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/mutation"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/repository"
)

func TestHandleLeaveRoom_UnsubscribesAndConfirms(t *testing.T) {
	// Arrange
	hub := NewHub()
	s := testSession(4)
	s.hub = hub
	roomID := uuid.New()
	hub.Join(roomID, s)
	s.joined[roomID] = struct{}{}

	payload, _ := json.Marshal(RoomPayload{RoomID: roomID.String()})

	// Act
	s.handleLeaveRoom(payload)

	// Assert
	assert.Equal(t, 0, hub.RoomSize(roomID))
	messages := drain(t, s)
	assert.Len(t, messages, 1)
	assert.Equal(t, EventRoomLeft, messages[0].Event)
	_, stillJoined := s.joined[roomID]
	assert.False(t, stillJoined)
}

func TestParseRoom_InvalidID(t *testing.T) {
	// Arrange
	s := testSession(4)
	payload, _ := json.Marshal(RoomPayload{RoomID: "not-a-uuid"})

	// Act
	_, ok := s.parseRoom(payload)

	// Assert: the client gets an error event, not a dropped connection
	assert.False(t, ok)
	messages := drain(t, s)
	assert.Len(t, messages, 1)
	assert.Equal(t, EventError, messages[0].Event)
}

func TestHandleMessage_UnknownEvent(t *testing.T) {
	// Arrange
	s := testSession(4)

	// Act
	s.handleMessage(context.Background(), Message{Event: "reticulateSplines"})

	// Assert
	messages := drain(t, s)
	assert.Len(t, messages, 1)
	assert.Equal(t, EventError, messages[0].Event)

	var errPayload ErrorPayload
	assert.NoError(t, json.Unmarshal(messages[0].Data, &errPayload))
	assert.Contains(t, errPayload.Message, "reticulateSplines")
}

func TestSendEvent_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	// Arrange: zero-capacity buffer, nothing can ever be queued
	s := testSession(0)

	// Act: must return immediately
	s.sendEvent(EventRoomLeft, RoomPayload{RoomID: uuid.New().String()})

	// Assert
	assert.Empty(t, drain(t, s))
}

func TestUserMessage_MapsDomainErrors(t *testing.T) {
	assert.Equal(t, "You are not a member of this project", userMessage(mutation.ErrNotMember))
	assert.Equal(t, "Only the project admin can do that", userMessage(mutation.ErrAdminOnly))
	assert.Equal(t, "Task title is required", userMessage(mutation.ErrTitleRequired))
	assert.Equal(t, "Task not found", userMessage(repository.ErrTaskNotFound))
	assert.Equal(t, "Project not found", userMessage(repository.ErrProjectNotFound))

	// Store internals never leak to the client
	assert.Equal(t, "Internal error", userMessage(errors.New("pq: connection reset")))
}
