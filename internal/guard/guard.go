package guard

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/repository"
)

var (
	// ErrNotAdmin is returned when an admin-only action is attempted by a
	// non-admin caller
	ErrNotAdmin = errors.New("caller is not the project admin")

	// ErrNotAllowed is returned when the caller lacks the role an action needs
	ErrNotAllowed = errors.New("caller is not allowed to perform this action")

	// ErrTargetAdmin is returned when a role transition targets the admin.
	// The admin is never promotable, demotable or bannable.
	ErrTargetAdmin = errors.New("the project admin cannot be changed")

	// ErrTargetNotMember is returned when the target of a role transition is
	// not an active member
	ErrTargetNotMember = errors.New("target user is not a project member")

	// ErrAlreadyMember is returned when inviting a user who already belongs
	// to the project
	ErrAlreadyMember = errors.New("user is already a project member")

	// ErrAlreadyInvited is returned when inviting a user twice
	ErrAlreadyInvited = errors.New("user is already invited")

	// ErrBanned is returned when a banned user is invited or tries to join
	ErrBanned = errors.New("user is banned from this project")

	// ErrNotInvited is returned when accepting an invite that does not exist
	ErrNotInvited = errors.New("user has not been invited to this project")

	// ErrNotBanned is returned when unbanning a user who is not banned
	ErrNotBanned = errors.New("user is not banned from this project")
)

type ProjectStore interface {
	GetMember(ctx context.Context, projectID, userID uuid.UUID) (*model.ProjectMember, error)
	UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) error
	AddMember(ctx context.Context, projectID, userID uuid.UUID, role string) error
	Invite(ctx context.Context, projectID, userID uuid.UUID) error
	IsInvited(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	RemoveInvite(ctx context.Context, projectID, userID uuid.UUID) error
	Ban(ctx context.Context, projectID, userID uuid.UUID) error
	IsBanned(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	Unban(ctx context.Context, projectID, userID uuid.UUID) error
}

var _ ProjectStore = (*repository.ProjectRepository)(nil)

// Guard answers membership questions and applies role transitions. Every
// other component checks with the guard before acting on a project.
type Guard struct {
	projects ProjectStore
}

func New(projects ProjectStore) *Guard {
	return &Guard{projects: projects}
}

// IsMember reports whether the user is an active member of the project and
// with which role. It fails closed: any lookup error or missing project
// answers not-a-member.
func (g *Guard) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, string) {
	member, err := g.projects.GetMember(ctx, projectID, userID)
	if err != nil || member == nil {
		return false, ""
	}
	return true, member.Role
}

// requireAdmin loads the caller's membership and rejects unless it is admin.
func (g *Guard) requireAdmin(ctx context.Context, projectID, actorID uuid.UUID) error {
	ok, role := g.IsMember(ctx, projectID, actorID)
	if !ok || role != model.RoleAdmin {
		return ErrNotAdmin
	}
	return nil
}

// Promote raises a plain member to coAdmin. Admin-only; the admin itself is
// never a valid target.
func (g *Guard) Promote(ctx context.Context, projectID, actorID, targetID uuid.UUID) error {
	if err := g.requireAdmin(ctx, projectID, actorID); err != nil {
		return err
	}
	target, err := g.projects.GetMember(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrTargetNotMember
	}
	if target.Role == model.RoleAdmin {
		return ErrTargetAdmin
	}
	return g.projects.UpdateMemberRole(ctx, projectID, targetID, model.RoleCoAdmin)
}

// Demote lowers a coAdmin back to member. Admin-only; rejects admin targets.
func (g *Guard) Demote(ctx context.Context, projectID, actorID, targetID uuid.UUID) error {
	if err := g.requireAdmin(ctx, projectID, actorID); err != nil {
		return err
	}
	target, err := g.projects.GetMember(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrTargetNotMember
	}
	if target.Role == model.RoleAdmin {
		return ErrTargetAdmin
	}
	return g.projects.UpdateMemberRole(ctx, projectID, targetID, model.RoleMember)
}

// Ban removes a member from the active list and records the ban. Admin-only;
// rejects admin targets.
func (g *Guard) Ban(ctx context.Context, projectID, actorID, targetID uuid.UUID) error {
	if err := g.requireAdmin(ctx, projectID, actorID); err != nil {
		return err
	}
	target, err := g.projects.GetMember(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrTargetNotMember
	}
	if target.Role == model.RoleAdmin {
		return ErrTargetAdmin
	}
	return g.projects.Ban(ctx, projectID, targetID)
}

// Unban lifts a ban and re-adds the user as a plain member. Admin-only.
func (g *Guard) Unban(ctx context.Context, projectID, actorID, targetID uuid.UUID) error {
	if err := g.requireAdmin(ctx, projectID, actorID); err != nil {
		return err
	}
	banned, err := g.projects.IsBanned(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if !banned {
		return ErrNotBanned
	}
	return g.projects.Unban(ctx, projectID, targetID)
}

// Invite marks a user as invited. Allowed for admin and coAdmin; rejected if
// the target already belongs, is already invited, or is banned.
func (g *Guard) Invite(ctx context.Context, projectID, actorID, targetID uuid.UUID) error {
	ok, role := g.IsMember(ctx, projectID, actorID)
	if !ok || (role != model.RoleAdmin && role != model.RoleCoAdmin) {
		return ErrNotAllowed
	}
	existing, err := g.projects.GetMember(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyMember
	}
	invited, err := g.projects.IsInvited(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if invited {
		return ErrAlreadyInvited
	}
	banned, err := g.projects.IsBanned(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if banned {
		return ErrBanned
	}
	return g.projects.Invite(ctx, projectID, targetID)
}

// AcceptInvite turns a pending invite into a plain membership.
func (g *Guard) AcceptInvite(ctx context.Context, projectID, userID uuid.UUID) error {
	invited, err := g.projects.IsInvited(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !invited {
		return ErrNotInvited
	}
	if err := g.projects.RemoveInvite(ctx, projectID, userID); err != nil {
		return err
	}
	return g.projects.AddMember(ctx, projectID, userID, model.RoleMember)
}
