package reconcile

import (
	"sync"
	"time"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/mutation"
)

// Board is the client-side columnar view of a room's tasks, keyed by status.
// Local edits are applied optimistically before the server confirms; when
// the authoritative task arrives it replaces the local copy wholesale.
// Server truth always wins over any still-pending optimistic edit.
//
// The mutex covers the socket-reader goroutine racing the UI goroutine.
type Board struct {
	mu      sync.RWMutex
	columns map[string][]*mutation.TaskView
}

func NewBoard() *Board {
	board := &Board{
		columns: make(map[string][]*mutation.TaskView),
	}
	for _, status := range model.TaskStatuses() {
		board.columns[status] = nil
	}
	return board
}

// Load replaces the whole board with the given task list. Used for the
// full-state pull on join and reconnect.
func (b *Board) Load(tasks []*mutation.TaskView) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for status := range b.columns {
		b.columns[status] = nil
	}
	for _, task := range tasks {
		b.columns[task.Status] = append(b.columns[task.Status], task)
	}
}

// ApplyOptimistic mutates the local copy of a task in place, wherever it
// currently sits, before the server has confirmed anything. Invalid enum
// values are ignored the same way the server ignores them, so the local
// board never shows a state the server would refuse.
func (b *Board) ApplyOptimistic(taskID string, patch mutation.UpdateRequest) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	status, index := b.locate(taskID)
	if index < 0 {
		return false
	}
	task := b.columns[status][index]

	if patch.Title != nil && *patch.Title != "" {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil && model.ValidPriority(*patch.Priority) {
		task.Priority = *patch.Priority
	}
	if patch.Category != nil && model.ValidCategory(*patch.Category) {
		task.Category = *patch.Category
	}
	if patch.IssueType != nil && model.ValidIssueType(*patch.IssueType) {
		task.IssueType = *patch.IssueType
	}
	if patch.StoryPoints != nil && *patch.StoryPoints >= 0 {
		task.StoryPoints = *patch.StoryPoints
	}
	if patch.Labels != nil {
		task.Labels = *patch.Labels
	}
	if patch.Assignees != nil {
		// Names resolve when the authoritative task arrives.
		assignees := make([]mutation.UserView, 0, len(*patch.Assignees))
		for _, id := range *patch.Assignees {
			assignees = append(assignees, mutation.UserView{ID: id})
		}
		task.Assignees = assignees
	}
	if patch.DueDate != nil {
		dueDate := patch.DueDate.Format(time.RFC3339)
		task.DueDate = &dueDate
	}
	if patch.Status != nil && model.ValidStatus(*patch.Status) && *patch.Status != task.Status {
		b.columns[status] = removeAt(b.columns[status], index)
		task.Status = *patch.Status
		b.columns[task.Status] = append(b.columns[task.Status], task)
	}
	return true
}

// ApplyAuthoritative reconciles a server-pushed task: the local copy is
// located by id across all columns, removed, and the authoritative object
// is inserted into the column matching its status. Replace, not merge.
func (b *Board) ApplyAuthoritative(task *mutation.TaskView) {
	b.mu.Lock()
	defer b.mu.Unlock()

	status, index := b.locate(task.ID)
	if index >= 0 {
		if status == task.Status {
			// Same column: keep the position, swap the object.
			b.columns[status][index] = task
			return
		}
		b.columns[status] = removeAt(b.columns[status], index)
	}
	b.columns[task.Status] = append(b.columns[task.Status], task)
}

// Remove drops a task from wherever it sits. Used for taskDeleted events.
func (b *Board) Remove(taskID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	status, index := b.locate(taskID)
	if index < 0 {
		return false
	}
	b.columns[status] = removeAt(b.columns[status], index)
	return true
}

// Column returns the ordered tasks of one status column
func (b *Board) Column(status string) []*mutation.TaskView {
	b.mu.RLock()
	defer b.mu.RUnlock()
	column := b.columns[status]
	out := make([]*mutation.TaskView, len(column))
	copy(out, column)
	return out
}

// Find locates a task by id across all columns
func (b *Board) Find(taskID string) (*mutation.TaskView, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	status, index := b.locate(taskID)
	if index < 0 {
		return nil, false
	}
	return b.columns[status][index], true
}

// Size returns the total number of tasks on the board
func (b *Board) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	for _, column := range b.columns {
		total += len(column)
	}
	return total
}

func (b *Board) locate(taskID string) (string, int) {
	for status, column := range b.columns {
		for i, task := range column {
			if task.ID == taskID {
				return status, i
			}
		}
	}
	return "", -1
}

func removeAt(column []*mutation.TaskView, index int) []*mutation.TaskView {
	return append(column[:index], column[index+1:]...)
}
