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

func TestProjectRepository_GetMember_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	projectRepo := repository.NewProjectRepository(gormDB)
	projectID, userID := uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{"id", "project_id", "user_id", "role"}).
		AddRow(uuid.New().String(), projectID.String(), userID.String(), model.RoleCoAdmin)
	mock.ExpectQuery(`SELECT (.+) FROM "project_members" WHERE project_id = (.+) AND user_id = (.+)`).
		WithArgs(projectID, userID, 1).
		WillReturnRows(rows)

	// Act
	member, err := projectRepo.GetMember(context.Background(), projectID, userID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, member)
	assert.Equal(t, model.RoleCoAdmin, member.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_GetMember_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	projectRepo := repository.NewProjectRepository(gormDB)
	projectID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "project_members" WHERE project_id = (.+) AND user_id = (.+)`).
		WithArgs(projectID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "user_id", "role"}))

	// Act
	member, err := projectRepo.GetMember(context.Background(), projectID, userID)

	// Assert: отсутствие членства не является ошибкой
	assert.NoError(t, err)
	assert.Nil(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_UpdateMemberRole_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	projectRepo := repository.NewProjectRepository(gormDB)
	projectID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "project_members" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := projectRepo.UpdateMemberRole(context.Background(), projectID, userID, model.RoleCoAdmin)

	// Assert
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create_RegistersOwnerAsAdmin(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	projectRepo := repository.NewProjectRepository(gormDB)

	project := &model.Project{
		ID:      uuid.New(),
		Title:   "Payments revamp",
		OwnerID: uuid.New(),
	}

	// Проект и членство владельца создаются одной транзакцией
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(project.ID.String()))
	mock.ExpectQuery(`INSERT INTO "project_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	err := projectRepo.Create(context.Background(), project)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
