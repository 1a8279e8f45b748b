package mutation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/guard"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/history"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/repository"
)

var (
	// ErrNotMember is returned when the caller is not a member of the project
	ErrNotMember = errors.New("caller is not a member of this project")

	// ErrAdminOnly is returned when a non-admin attempts task deletion
	ErrAdminOnly = errors.New("only the project admin can delete tasks")

	// ErrTitleRequired is returned when a task is created without a title
	ErrTitleRequired = errors.New("task title is required")
)

// TaskStore is the durable store contract the processor persists through
type TaskStore interface {
	Create(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetByIDFull(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
	GetAssignedInProject(ctx context.Context, projectID, userID uuid.UUID) ([]model.Task, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ReplaceAssignees(ctx context.Context, taskID uuid.UUID, added, removed []uuid.UUID) error
	ListAssigneeIDs(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemberChecker is the authorization gate consulted before every mutation
type MemberChecker interface {
	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, string)
}

// MemberLister resolves the current member list of a project
type MemberLister interface {
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error)
}

// ChangeRecorder appends one immutable audit entry per accepted change
type ChangeRecorder interface {
	Record(ctx context.Context, taskID, actorID uuid.UUID, changes []history.FieldChange) error
}

var (
	_ TaskStore      = (*repository.TaskRepository)(nil)
	_ MemberChecker  = (*guard.Guard)(nil)
	_ MemberLister   = (*repository.ProjectRepository)(nil)
	_ ChangeRecorder = (*history.Recorder)(nil)
)

// UpdateRequest carries a partial set of task fields. Nil means the field is
// absent from the request, not cleared.
type UpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	IssueType   *string    `json:"issueType"`
	StoryPoints *int       `json:"storyPoints"`
	Labels      *[]string  `json:"labels"`
	Assignees   *[]string  `json:"assignees"`
	DueDate     *time.Time `json:"dueDate"`
}

// CreateRequest carries the fields of a new task
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	IssueType   string     `json:"issueType"`
	StoryPoints int        `json:"storyPoints"`
	Labels      []string   `json:"labels"`
	Assignees   []string   `json:"assignees"`
	DueDate     *time.Time `json:"dueDate"`
}

// EnumDefinitions feeds the UI selectors: the fixed enum sets plus the
// current member list.
type EnumDefinitions struct {
	Statuses   []string     `json:"statuses"`
	Priorities []string     `json:"priorities"`
	Categories []string     `json:"categories"`
	IssueTypes []string     `json:"issueTypes"`
	Members    []MemberView `json:"members"`
}

// Processor validates task mutations, applies only the fields that actually
// changed, records history and produces the canonical broadcast payload.
type Processor struct {
	tasks    TaskStore
	members  MemberChecker
	roster   MemberLister
	recorder ChangeRecorder
}

func NewProcessor(tasks TaskStore, members MemberChecker, roster MemberLister, recorder ChangeRecorder) *Processor {
	return &Processor{
		tasks:    tasks,
		members:  members,
		roster:   roster,
		recorder: recorder,
	}
}

// Update applies a partial task change. Invalid enum values and non-member
// assignees are dropped silently so one malformed field does not block the
// rest of the request. A request that changes nothing is a no-op: no write,
// no history, nil view.
func (p *Processor) Update(ctx context.Context, actorID, projectID, taskID uuid.UUID, req UpdateRequest) (*TaskView, *StatusTransition, []history.FieldChange, error) {
	ok, _ := p.members.IsMember(ctx, projectID, actorID)
	if !ok {
		return nil, nil, nil, ErrNotMember
	}

	task, err := p.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, nil, err
	}
	if task.ProjectID != projectID {
		return nil, nil, nil, repository.ErrTaskNotFound
	}

	var changes []history.FieldChange
	fields := make(map[string]interface{})
	var transition *StatusTransition

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		// An empty title is invalid and dropped like a bad enum value.
		if title != "" && title != task.Title {
			changes = append(changes, history.FieldChange{Field: "title", Old: task.Title, New: title})
			fields["title"] = title
		}
	}
	if req.Description != nil && *req.Description != task.Description {
		changes = append(changes, history.FieldChange{
			Field: "description",
			Old:   history.Stringify(task.Description),
			New:   history.Stringify(*req.Description),
		})
		fields["description"] = *req.Description
	}
	if req.Status != nil && model.ValidStatus(*req.Status) && *req.Status != task.Status {
		changes = append(changes, history.FieldChange{Field: "status", Old: task.Status, New: *req.Status})
		fields["status"] = *req.Status
		transition = &StatusTransition{From: task.Status, To: *req.Status}
	}
	if req.Priority != nil && model.ValidPriority(*req.Priority) && *req.Priority != task.Priority {
		changes = append(changes, history.FieldChange{
			Field: "priority",
			Old:   history.Stringify(task.Priority),
			New:   history.Stringify(*req.Priority),
		})
		fields["priority"] = *req.Priority
	}
	if req.Category != nil && model.ValidCategory(*req.Category) && *req.Category != task.Category {
		changes = append(changes, history.FieldChange{
			Field: "category",
			Old:   history.Stringify(task.Category),
			New:   history.Stringify(*req.Category),
		})
		fields["category"] = *req.Category
	}
	if req.IssueType != nil && model.ValidIssueType(*req.IssueType) && *req.IssueType != task.IssueType {
		changes = append(changes, history.FieldChange{
			Field: "issueType",
			Old:   history.Stringify(task.IssueType),
			New:   history.Stringify(*req.IssueType),
		})
		fields["issue_type"] = *req.IssueType
	}
	if req.StoryPoints != nil && *req.StoryPoints >= 0 && *req.StoryPoints != task.StoryPoints {
		changes = append(changes, history.FieldChange{
			Field: "storyPoints",
			Old:   history.StringifyInt(task.StoryPoints),
			New:   history.StringifyInt(*req.StoryPoints),
		})
		fields["story_points"] = *req.StoryPoints
	}
	if req.Labels != nil && strings.Join(*req.Labels, ",") != strings.Join(task.Labels, ",") {
		changes = append(changes, history.FieldChange{
			Field: "labels",
			Old:   history.StringifyList(task.Labels),
			New:   history.StringifyList(*req.Labels),
		})
		fields["labels"] = model.StringList(*req.Labels)
	}
	if req.DueDate != nil && (task.DueDate == nil || !req.DueDate.Equal(*task.DueDate)) {
		oldValue := "none"
		if task.DueDate != nil {
			oldValue = task.DueDate.Format(time.RFC3339)
		}
		changes = append(changes, history.FieldChange{
			Field: "dueDate",
			Old:   oldValue,
			New:   req.DueDate.Format(time.RFC3339),
		})
		fields["due_date"] = *req.DueDate
	}

	var added, removed []uuid.UUID
	if req.Assignees != nil {
		current, err := p.tasks.ListAssigneeIDs(ctx, taskID)
		if err != nil {
			return nil, nil, nil, err
		}
		requested := p.resolveAssignees(ctx, projectID, *req.Assignees)
		added, removed = diffIDs(current, requested)
		if len(added) > 0 || len(removed) > 0 {
			changes = append(changes, history.FieldChange{
				Field: "assignees",
				Old:   history.StringifyIDs(current),
				New:   history.StringifyIDs(requested),
			})
		}
	}

	// Idempotent no-op: nothing changed, nothing is written or broadcast.
	if len(changes) == 0 {
		return nil, nil, nil, nil
	}

	if len(fields) > 0 {
		if err := p.tasks.UpdateFields(ctx, taskID, fields); err != nil {
			return nil, nil, nil, err
		}
	}
	if len(added) > 0 || len(removed) > 0 {
		if err := p.tasks.ReplaceAssignees(ctx, taskID, added, removed); err != nil {
			return nil, nil, nil, err
		}
	}
	if err := p.recorder.Record(ctx, taskID, actorID, changes); err != nil {
		return nil, nil, nil, err
	}

	updated, err := p.tasks.GetByIDFull(ctx, taskID)
	if err != nil {
		return nil, nil, nil, err
	}
	return toTaskView(updated), transition, changes, nil
}

// Create validates and persists a new task. An invalid status silently
// defaults to toDo; other invalid enum values are cleared.
func (p *Processor) Create(ctx context.Context, actorID, projectID uuid.UUID, req CreateRequest) (*TaskView, error) {
	ok, _ := p.members.IsMember(ctx, projectID, actorID)
	if !ok {
		return nil, ErrNotMember
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := req.Status
	if !model.ValidStatus(status) {
		status = model.StatusToDo
	}
	priority := req.Priority
	if !model.ValidPriority(priority) {
		priority = ""
	}
	category := req.Category
	if !model.ValidCategory(category) {
		category = ""
	}
	issueType := req.IssueType
	if !model.ValidIssueType(issueType) {
		issueType = ""
	}
	storyPoints := req.StoryPoints
	if storyPoints < 0 {
		storyPoints = 0
	}

	task := &model.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		Category:    category,
		IssueType:   issueType,
		StoryPoints: storyPoints,
		Labels:      req.Labels,
		CreatedBy:   actorID,
		DueDate:     req.DueDate,
	}

	assigneeIDs := p.resolveAssignees(ctx, projectID, req.Assignees)
	if err := p.tasks.Create(ctx, task, assigneeIDs); err != nil {
		return nil, err
	}

	created, err := p.tasks.GetByIDFull(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return toTaskView(created), nil
}

// Delete removes a task. Admin-only: the task must disappear from every
// viewer's board, so the whole room is broadcast to, not just assignees.
func (p *Processor) Delete(ctx context.Context, actorID, projectID, taskID uuid.UUID) error {
	ok, role := p.members.IsMember(ctx, projectID, actorID)
	if !ok {
		return ErrNotMember
	}
	if role != model.RoleAdmin {
		return ErrAdminOnly
	}

	task, err := p.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.ProjectID != projectID {
		return repository.ErrTaskNotFound
	}
	return p.tasks.Delete(ctx, taskID)
}

// TasksForViewer returns the full task list for admins and coAdmins, and
// only the assigned tasks for plain members.
func (p *Processor) TasksForViewer(ctx context.Context, viewerID, projectID uuid.UUID) ([]*TaskView, error) {
	ok, role := p.members.IsMember(ctx, projectID, viewerID)
	if !ok {
		return nil, ErrNotMember
	}

	var tasks []model.Task
	var err error
	if role == model.RoleAdmin || role == model.RoleCoAdmin {
		tasks, err = p.tasks.GetByProjectID(ctx, projectID)
	} else {
		tasks, err = p.tasks.GetAssignedInProject(ctx, projectID, viewerID)
	}
	if err != nil {
		return nil, err
	}

	views := make([]*TaskView, len(tasks))
	for i := range tasks {
		views[i] = toTaskView(&tasks[i])
	}
	return views, nil
}

// Members returns the current member list, gated on the viewer's own
// membership.
func (p *Processor) Members(ctx context.Context, viewerID, projectID uuid.UUID) ([]MemberView, error) {
	ok, _ := p.members.IsMember(ctx, projectID, viewerID)
	if !ok {
		return nil, ErrNotMember
	}

	members, err := p.roster.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	memberViews := make([]MemberView, len(members))
	for i, member := range members {
		memberViews[i] = MemberView{
			UserView: toUserView(member.User),
			Role:     member.Role,
		}
	}
	return memberViews, nil
}

// Enums returns the valid enum sets plus the current member list
func (p *Processor) Enums(ctx context.Context, viewerID, projectID uuid.UUID) (*EnumDefinitions, error) {
	memberViews, err := p.Members(ctx, viewerID, projectID)
	if err != nil {
		return nil, err
	}
	return &EnumDefinitions{
		Statuses:   model.TaskStatuses(),
		Priorities: model.TaskPriorities(),
		Categories: model.TaskCategories(),
		IssueTypes: model.TaskIssueTypes(),
		Members:    memberViews,
	}, nil
}

// resolveAssignees parses the incoming id strings and keeps only current
// project members. Unparseable ids and non-members are dropped, mirroring
// the silent-drop policy for invalid enum values.
func (p *Processor) resolveAssignees(ctx context.Context, projectID uuid.UUID, raw []string) []uuid.UUID {
	var resolved []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if ok, _ := p.members.IsMember(ctx, projectID, id); !ok {
			continue
		}
		seen[id] = struct{}{}
		resolved = append(resolved, id)
	}
	return resolved
}

// diffIDs computes added = next − current and removed = current − next with
// set semantics over string ids.
func diffIDs(current, next []uuid.UUID) (added, removed []uuid.UUID) {
	currentSet := make(map[string]uuid.UUID, len(current))
	for _, id := range current {
		currentSet[id.String()] = id
	}
	nextSet := make(map[string]uuid.UUID, len(next))
	for _, id := range next {
		nextSet[id.String()] = id
	}
	for key, id := range nextSet {
		if _, ok := currentSet[key]; !ok {
			added = append(added, id)
		}
	}
	for key, id := range currentSet {
		if _, ok := nextSet[key]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
