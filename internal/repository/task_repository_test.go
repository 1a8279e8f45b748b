package repository_test

import (
	"context"
	"testing"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskRepository_UpdateFields(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)
	taskID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.UpdateFields(context.Background(), taskID, map[string]interface{}{
		"status":   model.StatusInProgress,
		"priority": model.PriorityHigh,
	})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateFields_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)
	taskID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := taskRepo.UpdateFields(context.Background(), taskID, map[string]interface{}{
		"status": model.StatusDone,
	})

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateFields_EmptyMapIsNoOp(t *testing.T) {
	// Arrange: никаких SQL запросов не ожидается
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Act
	err := taskRepo.UpdateFields(context.Background(), uuid.New(), map[string]interface{}{})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ReplaceAssignees(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)
	taskID := uuid.New()
	added := uuid.New()
	removed := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM task_assignees WHERE task_id = (.+) AND user_id = (.+)`).
		WithArgs(taskID, removed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO task_assignees`).
		WithArgs(taskID, added).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.ReplaceAssignees(context.Background(), taskID, []uuid.UUID{added}, []uuid.UUID{removed})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListAssigneeIDs(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)
	taskID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	rows := sqlmock.NewRows([]string{"user_id"}).
		AddRow(first.String()).
		AddRow(second.String())
	mock.ExpectQuery(`SELECT "user_id" FROM "task_assignees" WHERE task_id = (.+)`).
		WithArgs(taskID).
		WillReturnRows(rows)

	// Act
	ids, err := taskRepo.ListAssigneeIDs(context.Background(), taskID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete(t *testing.T) {
	// Arrange: задача, её назначения и история удаляются одной транзакцией
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)
	taskID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM task_assignees WHERE task_id = (.+)`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "task_histories" WHERE task_id = (.+)`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = (.+)`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Delete(context.Background(), taskID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)
	taskID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM task_assignees WHERE task_id = (.+)`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "task_histories" WHERE task_id = (.+)`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = (.+)`).
		WithArgs(taskID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// Act
	err := taskRepo.Delete(context.Background(), taskID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
