package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append inserts the entries one by one inside a transaction so their seq
// order matches the order the changes were accepted.
func (r *HistoryRepository) Append(ctx context.Context, entries []*model.TaskHistory) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByTaskID returns the audit trail of a task in chronological order
func (r *HistoryRepository) ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]model.TaskHistory, error) {
	var entries []model.TaskHistory
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("task_id = ?", taskID).
		Order("seq").
		Find(&entries).Error
	return entries, err
}
