package guard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/guard"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
)

type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) GetMember(ctx context.Context, projectID, userID uuid.UUID) (*model.ProjectMember, error) {
	args := m.Called(ctx, projectID, userID)
	member := args.Get(0)
	if member == nil {
		return nil, args.Error(1)
	}
	return member.(*model.ProjectMember), args.Error(1)
}

func (m *MockProjectStore) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	args := m.Called(ctx, projectID, userID, role)
	return args.Error(0)
}

func (m *MockProjectStore) AddMember(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	args := m.Called(ctx, projectID, userID, role)
	return args.Error(0)
}

func (m *MockProjectStore) Invite(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectStore) IsInvited(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectStore) RemoveInvite(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectStore) Ban(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectStore) IsBanned(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectStore) Unban(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func memberRow(projectID, userID uuid.UUID, role string) *model.ProjectMember {
	return &model.ProjectMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
}

func TestIsMember_FailsClosedOnError(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, userID := uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, userID).Return(nil, errors.New("connection refused"))

	// Act
	ok, role := g.IsMember(context.Background(), projectID, userID)

	// Assert: an unreachable store never grants access
	assert.False(t, ok)
	assert.Equal(t, "", role)
}

func TestIsMember_ReturnsRole(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, userID := uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, userID).Return(memberRow(projectID, userID, model.RoleCoAdmin), nil)

	// Act
	ok, role := g.IsMember(context.Background(), projectID, userID)

	// Assert
	assert.True(t, ok)
	assert.Equal(t, model.RoleCoAdmin, role)
}

func TestPromote_RequiresAdmin(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, coAdmin, target := uuid.New(), uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, coAdmin).Return(memberRow(projectID, coAdmin, model.RoleCoAdmin), nil)

	// Act
	err := g.Promote(context.Background(), projectID, coAdmin, target)

	// Assert
	assert.ErrorIs(t, err, guard.ErrNotAdmin)
	store.AssertNotCalled(t, "UpdateMemberRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPromote_AdminIsNeverATarget(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, admin := uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, admin).Return(memberRow(projectID, admin, model.RoleAdmin), nil)

	// Act: the admin promoting itself
	err := g.Promote(context.Background(), projectID, admin, admin)

	// Assert
	assert.ErrorIs(t, err, guard.ErrTargetAdmin)
}

func TestPromote_Success(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, admin, target := uuid.New(), uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, admin).Return(memberRow(projectID, admin, model.RoleAdmin), nil)
	store.On("GetMember", mock.Anything, projectID, target).Return(memberRow(projectID, target, model.RoleMember), nil)
	store.On("UpdateMemberRole", mock.Anything, projectID, target, model.RoleCoAdmin).Return(nil)

	// Act
	err := g.Promote(context.Background(), projectID, admin, target)

	// Assert
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestDemote_TargetMustBeMember(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, admin, target := uuid.New(), uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, admin).Return(memberRow(projectID, admin, model.RoleAdmin), nil)
	store.On("GetMember", mock.Anything, projectID, target).Return(nil, nil)

	// Act
	err := g.Demote(context.Background(), projectID, admin, target)

	// Assert
	assert.ErrorIs(t, err, guard.ErrTargetNotMember)
}

func TestBan_AdminCannotBeBanned(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, admin := uuid.New(), uuid.New()
	actingAdmin := uuid.New()
	store.On("GetMember", mock.Anything, projectID, actingAdmin).Return(memberRow(projectID, actingAdmin, model.RoleAdmin), nil)
	store.On("GetMember", mock.Anything, projectID, admin).Return(memberRow(projectID, admin, model.RoleAdmin), nil)

	// Act
	err := g.Ban(context.Background(), projectID, actingAdmin, admin)

	// Assert
	assert.ErrorIs(t, err, guard.ErrTargetAdmin)
	store.AssertNotCalled(t, "Ban", mock.Anything, mock.Anything, mock.Anything)
}

func TestBan_Success(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, admin, target := uuid.New(), uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, admin).Return(memberRow(projectID, admin, model.RoleAdmin), nil)
	store.On("GetMember", mock.Anything, projectID, target).Return(memberRow(projectID, target, model.RoleCoAdmin), nil)
	store.On("Ban", mock.Anything, projectID, target).Return(nil)

	// Act
	err := g.Ban(context.Background(), projectID, admin, target)

	// Assert
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestUnban_NotBanned(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, admin, target := uuid.New(), uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, admin).Return(memberRow(projectID, admin, model.RoleAdmin), nil)
	store.On("IsBanned", mock.Anything, projectID, target).Return(false, nil)

	// Act
	err := g.Unban(context.Background(), projectID, admin, target)

	// Assert
	assert.ErrorIs(t, err, guard.ErrNotBanned)
}

func TestInvite_CoAdminAllowed(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, coAdmin, target := uuid.New(), uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, coAdmin).Return(memberRow(projectID, coAdmin, model.RoleCoAdmin), nil)
	store.On("GetMember", mock.Anything, projectID, target).Return(nil, nil)
	store.On("IsInvited", mock.Anything, projectID, target).Return(false, nil)
	store.On("IsBanned", mock.Anything, projectID, target).Return(false, nil)
	store.On("Invite", mock.Anything, projectID, target).Return(nil)

	// Act
	err := g.Invite(context.Background(), projectID, coAdmin, target)

	// Assert
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestInvite_PlainMemberRejected(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, member, target := uuid.New(), uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, member).Return(memberRow(projectID, member, model.RoleMember), nil)

	// Act
	err := g.Invite(context.Background(), projectID, member, target)

	// Assert
	assert.ErrorIs(t, err, guard.ErrNotAllowed)
}

func TestInvite_BannedUserRejected(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, admin, target := uuid.New(), uuid.New(), uuid.New()
	store.On("GetMember", mock.Anything, projectID, admin).Return(memberRow(projectID, admin, model.RoleAdmin), nil)
	store.On("GetMember", mock.Anything, projectID, target).Return(nil, nil)
	store.On("IsInvited", mock.Anything, projectID, target).Return(false, nil)
	store.On("IsBanned", mock.Anything, projectID, target).Return(true, nil)

	// Act
	err := g.Invite(context.Background(), projectID, admin, target)

	// Assert
	assert.ErrorIs(t, err, guard.ErrBanned)
	store.AssertNotCalled(t, "Invite", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptInvite_JoinsAsPlainMember(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, userID := uuid.New(), uuid.New()
	store.On("IsInvited", mock.Anything, projectID, userID).Return(true, nil)
	store.On("RemoveInvite", mock.Anything, projectID, userID).Return(nil)
	store.On("AddMember", mock.Anything, projectID, userID, model.RoleMember).Return(nil)

	// Act
	err := g.AcceptInvite(context.Background(), projectID, userID)

	// Assert
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestAcceptInvite_NotInvited(t *testing.T) {
	// Arrange
	store := new(MockProjectStore)
	g := guard.New(store)
	projectID, userID := uuid.New(), uuid.New()
	store.On("IsInvited", mock.Anything, projectID, userID).Return(false, nil)

	// Act
	err := g.AcceptInvite(context.Background(), projectID, userID)

	// Assert
	assert.ErrorIs(t, err, guard.ErrNotInvited)
	store.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
