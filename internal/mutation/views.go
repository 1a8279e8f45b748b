package mutation

import (
	"time"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
)

// UserView is the resolved identity attached to broadcast payloads
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MemberView is a UserView plus the project role
type MemberView struct {
	UserView
	Role string `json:"role"`
}

// HistoryView is one audit entry with the actor name resolved
type HistoryView struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	OldValue  string `json:"oldValue"`
	NewValue  string `json:"newValue"`
	ActorID   string `json:"actorId"`
	ActorName string `json:"actorName"`
	CreatedAt string `json:"createdAt"`
}

// TaskView is the canonical task payload broadcast after every mutation.
// It is fully populated: creator, assignees and history with actor names.
type TaskView struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"projectId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	IssueType   string        `json:"issueType"`
	Priority    string        `json:"priority"`
	Status      string        `json:"status"`
	Category    string        `json:"category"`
	StoryPoints int           `json:"storyPoints"`
	Labels      []string      `json:"labels"`
	CreatedBy   string        `json:"createdBy"`
	CreatorName string        `json:"creatorName"`
	Assignees   []UserView    `json:"assignees"`
	History     []HistoryView `json:"history"`
	DueDate     *string       `json:"dueDate,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

// StatusTransition summarizes a status change for listeners that need the
// transition, not just the resulting state.
type StatusTransition struct {
	From string `json:"fromStatus"`
	To   string `json:"toStatus"`
}

func toUserView(user model.User) UserView {
	return UserView{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}
}

func toTaskView(task *model.Task) *TaskView {
	view := &TaskView{
		ID:          task.ID.String(),
		ProjectID:   task.ProjectID.String(),
		Title:       task.Title,
		Description: task.Description,
		IssueType:   task.IssueType,
		Priority:    task.Priority,
		Status:      task.Status,
		Category:    task.Category,
		StoryPoints: task.StoryPoints,
		Labels:      task.Labels,
		CreatedBy:   task.CreatedBy.String(),
		CreatorName: task.Creator.Name,
		Assignees:   make([]UserView, 0, len(task.Assignees)),
		History:     make([]HistoryView, 0, len(task.History)),
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.Labels == nil {
		view.Labels = []string{}
	}
	if task.DueDate != nil {
		dueDate := task.DueDate.Format(time.RFC3339)
		view.DueDate = &dueDate
	}
	for _, assignee := range task.Assignees {
		view.Assignees = append(view.Assignees, toUserView(assignee))
	}
	for _, entry := range task.History {
		view.History = append(view.History, HistoryView{
			ID:        entry.ID.String(),
			Action:    entry.Action,
			OldValue:  entry.OldValue,
			NewValue:  entry.NewValue,
			ActorID:   entry.ActorID.String(),
			ActorName: entry.Actor.Name,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return view
}
