package model

// Canonical task statuses. The set is fixed; there are no custom statuses and
// no transition graph, any status can move to any other.
const (
	StatusToDo       = "toDo"
	StatusInProgress = "inProgress"
	StatusInReview   = "inReview"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// Task priorities. Empty means unset.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
	PriorityHighest  = "highest"
)

// Task categories. Empty means unset.
const (
	CategoryFrontend  = "frontend"
	CategoryBackend   = "backend"
	CategoryDevOps    = "devops"
	CategoryDebugging = "debugging"
	CategoryOther     = "other"
)

// Issue types. Empty means unset.
const (
	IssueTypeTask  = "task"
	IssueTypeBug   = "bug"
	IssueTypeStory = "story"
	IssueTypeEpic  = "epic"
)

// TaskStatuses lists the valid statuses in board-column order.
func TaskStatuses() []string {
	return []string{StatusToDo, StatusInProgress, StatusInReview, StatusDone, StatusFailed}
}

// TaskPriorities lists the valid priorities.
func TaskPriorities() []string {
	return []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical, PriorityHighest}
}

// TaskCategories lists the valid categories.
func TaskCategories() []string {
	return []string{CategoryFrontend, CategoryBackend, CategoryDevOps, CategoryDebugging, CategoryOther}
}

// TaskIssueTypes lists the valid issue types.
func TaskIssueTypes() []string {
	return []string{IssueTypeTask, IssueTypeBug, IssueTypeStory, IssueTypeEpic}
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	return contains(TaskStatuses(), s)
}

// ValidPriority accepts the empty string: optional enum fields may be cleared.
func ValidPriority(s string) bool {
	return s == "" || contains(TaskPriorities(), s)
}

func ValidCategory(s string) bool {
	return s == "" || contains(TaskCategories(), s)
}

func ValidIssueType(s string) bool {
	return s == "" || contains(TaskIssueTypes(), s)
}
