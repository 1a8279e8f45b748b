package ws

import (
	"encoding/json"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/history"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/mutation"
)

// Inbound events emitted by clients
const (
	EventJoinRoom    = "joinRoom"
	EventLeaveRoom   = "leaveRoom"
	EventCreateTask  = "createTask"
	EventUpdateTask  = "updateTask"
	EventDeleteTask  = "deleteTask"
	EventGetAllTasks = "getAllTasks"
	EventGetEnums    = "getEnumDefinitions"
)

// Outbound events pushed by the server. taskCreated, taskUpdated and
// taskDeleted are room broadcasts; the rest are connection-scoped.
const (
	EventRoomJoined    = "roomJoined"
	EventRoomLeft      = "roomLeft"
	EventTaskCreated   = "taskCreated"
	EventTaskUpdated   = "taskUpdated"
	EventTaskDeleted   = "taskDeleted"
	EventTaskList      = "taskList"
	EventEnums         = "enumDefinitions"
	EventCreateTaskAck = "createTaskAck"
	EventDeleteTaskAck = "deleteTaskAck"
	EventError         = "errorMessage"
)

// Message is the wire envelope for every event in both directions
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func NewMessage(event string, payload interface{}) (Message, error) {
	if payload == nil {
		return Message{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: event, Data: data}, nil
}

type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type CreateTaskPayload struct {
	RoomID string `json:"roomId"`
	mutation.CreateRequest
}

type UpdateTaskPayload struct {
	RoomID string `json:"roomId"`
	TaskID string `json:"taskId"`
	mutation.UpdateRequest
}

type DeleteTaskPayload struct {
	RoomID string `json:"roomId"`
	TaskID string `json:"taskId"`
}

type RoomJoinedPayload struct {
	RoomID  string                `json:"roomId"`
	Members []mutation.MemberView `json:"members"`
}

type TaskCreatedPayload struct {
	Task *mutation.TaskView `json:"task"`
}

type TaskUpdatedPayload struct {
	Task       *mutation.TaskView    `json:"task"`
	FromStatus string                `json:"fromStatus,omitempty"`
	ToStatus   string                `json:"toStatus,omitempty"`
	Changes    []history.FieldChange `json:"changes"`
}

type TaskDeletedPayload struct {
	TaskID string `json:"taskId"`
}

type TaskListPayload struct {
	RoomID string               `json:"roomId"`
	Tasks  []*mutation.TaskView `json:"tasks"`
}

type CreateTaskAck struct {
	Success bool               `json:"success"`
	Task    *mutation.TaskView `json:"task,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type DeleteTaskAck struct {
	Success bool   `json:"success"`
	TaskID  string `json:"taskId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
