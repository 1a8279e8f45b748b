package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task and its assignee index rows in one transaction.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignees", "History", "Project", "Creator").Create(task).Error; err != nil {
			return err
		}
		for _, userID := range assigneeIDs {
			if err := tx.Exec(
				"INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
				task.ID, userID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a task by its ID without associations
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetByIDFull retrieves a task with creator, assignees and ordered history
func (r *TaskRepository) GetByIDFull(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignees").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq")
		}).
		Preload("History.Actor").
		First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetByProjectID retrieves every task in a project
func (r *TaskRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignees").
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// GetAssignedInProject retrieves the project tasks assigned to one user
func (r *TaskRepository) GetAssignedInProject(ctx context.Context, projectID, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignees").
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("tasks.project_id = ? AND task_assignees.user_id = ?", projectID, userID).
		Order("tasks.created_at").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// GetByAssignee retrieves the personal task index of a user across projects
func (r *TaskRepository) GetByAssignee(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID).
		Order("tasks.created_at").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// UpdateFields patches only the given columns instead of saving the whole
// row, so concurrent edits to unrelated fields do not clobber each other.
func (r *TaskRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ReplaceAssignees applies an assignee set diff and keeps the per-user task
// index consistent in the same transaction.
func (r *TaskRepository) ReplaceAssignees(ctx context.Context, taskID uuid.UUID, added, removed []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, userID := range removed {
			if err := tx.Exec(
				"DELETE FROM task_assignees WHERE task_id = ? AND user_id = ?",
				taskID, userID,
			).Error; err != nil {
				return err
			}
		}
		for _, userID := range added {
			if err := tx.Exec(
				"INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
				taskID, userID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListAssigneeIDs returns the current assignee ids of a task
func (r *TaskRepository) ListAssigneeIDs(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("task_assignees").
		Where("task_id = ?", taskID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// Delete removes the task, its assignee index rows and its history. History
// is immutable otherwise; cascading with task deletion is the one exception.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_assignees WHERE task_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskHistory{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Task{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}
