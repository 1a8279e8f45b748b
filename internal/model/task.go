package model

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StringList stores an ordered list of labels as comma-joined text.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return errors.New("unsupported type for StringList")
	}
	if raw == "" {
		*l = nil
		return nil
	}
	*l = strings.Split(raw, ",")
	return nil
}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	IssueType   string
	Priority    string
	Status      string `gorm:"not null;default:'toDo'"`
	Category    string
	StoryPoints int        `gorm:"not null;default:0;check:story_points >= 0"`
	Labels      StringList `gorm:"type:text"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Project   Project       `gorm:"foreignKey:ProjectID"`
	Creator   User          `gorm:"foreignKey:CreatedBy"`
	Assignees []User        `gorm:"many2many:task_assignees"`
	History   []TaskHistory `gorm:"foreignKey:TaskID"`
}
