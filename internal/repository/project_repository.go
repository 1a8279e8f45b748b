package repository

import (
	"context"
	"errors"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists the project and registers the owner as its admin in the
// same transaction.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		member := model.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			Role:      model.RoleAdmin,
		}
		return tx.Create(&member).Error
	})
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetMemberProjects returns the projects where the user is an active member.
func (r *ProjectRepository) GetMemberProjects(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Find(&projects).Error
	return projects, err
}

// GetMember returns the membership row for the user, or nil if the user is
// not an active member.
func (r *ProjectRepository) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *ProjectRepository) ListMembers(ctx context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&members).Error
	return members, err
}

func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	member := model.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *ProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	result := r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}

// Invite adds the user to the project's invited set.
func (r *ProjectRepository) Invite(ctx context.Context, projectID, userID uuid.UUID) error {
	invite := model.ProjectInvite{
		ProjectID: projectID,
		UserID:    userID,
	}
	return r.db.WithContext(ctx).Create(&invite).Error
}

func (r *ProjectRepository) IsInvited(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProjectInvite{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepository) RemoveInvite(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectInvite{}).Error
}

// Ban removes the member and records the ban in one transaction so the next
// membership check observes both.
func (r *ProjectRepository) Ban(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		ban := model.ProjectBan{
			ProjectID: projectID,
			UserID:    userID,
		}
		return tx.Create(&ban).Error
	})
}

func (r *ProjectRepository) IsBanned(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProjectBan{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// Unban lifts the ban and re-adds the user as a plain member.
func (r *ProjectRepository) Unban(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&model.ProjectBan{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		member := model.ProjectMember{
			ProjectID: projectID,
			UserID:    userID,
			Role:      model.RoleMember,
		}
		return tx.Create(&member).Error
	})
}
