package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskHistory is one immutable audit record describing a single field change.
// Entries are never updated or deleted except cascading with the task.
type TaskHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Seq       int64     `gorm:"autoIncrement;uniqueIndex"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null"`
	Action    string    `gorm:"not null"`
	OldValue  string
	NewValue  string
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Task  Task `gorm:"foreignKey:TaskID"`
	Actor User `gorm:"foreignKey:ActorID"`
}
