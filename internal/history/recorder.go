package history

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/repository"
)

// FieldChange describes one accepted change to a task field. Old and New are
// display strings; the structured delta travels on the broadcast payload.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

type Store interface {
	Append(ctx context.Context, entries []*model.TaskHistory) error
}

var _ Store = (*repository.HistoryRepository)(nil)

// Recorder appends one immutable history entry per accepted field change,
// preserving the order the changes were detected.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, taskID, actorID uuid.UUID, changes []FieldChange) error {
	if len(changes) == 0 {
		return nil
	}
	entries := make([]*model.TaskHistory, len(changes))
	for i, change := range changes {
		entries[i] = &model.TaskHistory{
			TaskID:   taskID,
			ActorID:  actorID,
			Action:   ActionLabel(change.Field),
			OldValue: change.Old,
			NewValue: change.New,
		}
	}
	return r.store.Append(ctx, entries)
}

// ActionLabel turns a field name into the human-readable audit action.
func ActionLabel(field string) string {
	switch field {
	case "title":
		return "Updated Title"
	case "description":
		return "Updated Description"
	case "status":
		return "Updated Status"
	case "priority":
		return "Updated Priority"
	case "category":
		return "Updated Category"
	case "issueType":
		return "Updated Issue Type"
	case "assignees":
		return "Updated Assignees"
	case "storyPoints":
		return "Updated Story Points"
	case "labels":
		return "Updated Labels"
	case "dueDate":
		return "Updated Due Date"
	default:
		return "Updated " + field
	}
}

// Stringify renders a scalar value for the audit trail. Empty values read as
// "none" so the trail stays readable.
func Stringify(value string) string {
	if value == "" {
		return "none"
	}
	return value
}

// StringifyInt renders a numeric value for the audit trail
func StringifyInt(value int) string {
	return strconv.Itoa(value)
}

// StringifyIDs renders a set of user ids as a sorted comma-joined string, so
// two equal sets always stringify identically.
func StringifyIDs(ids []uuid.UUID) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// StringifyList renders an ordered label list for the audit trail
func StringifyList(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ",")
}
