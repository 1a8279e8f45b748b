package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/guard"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/middleware"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/model"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/repository"
)

type ProjectHandler struct {
	projectRepo *repository.ProjectRepository
	userRepo    repository.UserRepositoryInterface
	guard       *guard.Guard
}

func NewProjectHandler(projectRepo *repository.ProjectRepository, userRepo repository.UserRepositoryInterface, g *guard.Guard) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		guard:       g,
	}
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type ProjectResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type MemberResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// getUserID extracts the authenticated user id set by the auth middleware.
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

func parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return uuid.Nil, false
	}
	return projectID, true
}

func toProjectResponse(p *model.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		OwnerID:     p.OwnerID.String(),
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create creates a project with the caller as its admin
// @Summary      Create a project
// @Tags         Projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateProjectRequest true "Project data"
// @Success      201 {object} ProjectResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	ownerID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project := &model.Project{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := h.projectRepo.Create(c.Request.Context(), project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

// GetAll lists the projects the caller is a member of
// @Summary      List my projects
// @Tags         Projects
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} ProjectResponse
// @Router       /projects [get]
func (h *ProjectHandler) GetAll(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectRepo.GetMemberProjects(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		response = append(response, toProjectResponse(&projects[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns a single project. Members only.
// @Summary      Get a project
// @Tags         Projects
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} ProjectResponse
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if member, _ := h.guard.IsMember(c.Request.Context(), projectID, userID); !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this project"})
		return
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Members lists the active members with their roles. Members only.
// @Summary      List project members
// @Tags         Projects
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {array} MemberResponse
// @Router       /projects/{id}/members [get]
func (h *ProjectHandler) Members(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if member, _ := h.guard.IsMember(c.Request.Context(), projectID, userID); !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this project"})
		return
	}

	members, err := h.projectRepo.ListMembers(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	response := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		response = append(response, MemberResponse{
			ID:    m.UserID.String(),
			Email: m.User.Email,
			Name:  m.User.Name,
			Role:  m.Role,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Invite invites a user by email. Admin and coAdmin only.
// @Summary      Invite a user to a project
// @Tags         Projects
// @Security     BearerAuth
// @Accept       json
// @Param        id path string true "Project ID"
// @Param        request body InviteRequest true "Invitee"
// @Success      204
// @Router       /projects/{id}/invite [post]
func (h *ProjectHandler) Invite(c *gin.Context) {
	actorID, ok := getUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	target, err := h.userRepo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.guard.Invite(c.Request.Context(), projectID, actorID, target.ID); err != nil {
		respondGuardError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AcceptInvite turns the caller's pending invite into a membership.
// @Summary      Accept a project invite
// @Tags         Projects
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Success      204
// @Router       /projects/{id}/invite/accept [post]
func (h *ProjectHandler) AcceptInvite(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if err := h.guard.AcceptInvite(c.Request.Context(), projectID, userID); err != nil {
		respondGuardError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Promote raises a member to coAdmin. Admin only.
// @Summary      Promote a member to coAdmin
// @Tags         Projects
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Param        user_id path string true "Target user ID"
// @Success      204
// @Router       /projects/{id}/members/{user_id}/promote [post]
func (h *ProjectHandler) Promote(c *gin.Context) {
	h.roleTransition(c, h.guard.Promote)
}

// Demote lowers a coAdmin back to member. Admin only.
// @Summary      Demote a coAdmin to member
// @Tags         Projects
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Param        user_id path string true "Target user ID"
// @Success      204
// @Router       /projects/{id}/members/{user_id}/demote [post]
func (h *ProjectHandler) Demote(c *gin.Context) {
	h.roleTransition(c, h.guard.Demote)
}

// Ban removes a member and blocks re-entry. Admin only.
// @Summary      Ban a member
// @Tags         Projects
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Param        user_id path string true "Target user ID"
// @Success      204
// @Router       /projects/{id}/members/{user_id}/ban [post]
func (h *ProjectHandler) Ban(c *gin.Context) {
	h.roleTransition(c, h.guard.Ban)
}

// Unban lifts a ban and restores plain membership. Admin only.
// @Summary      Unban a user
// @Tags         Projects
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Param        user_id path string true "Target user ID"
// @Success      204
// @Router       /projects/{id}/members/{user_id}/unban [post]
func (h *ProjectHandler) Unban(c *gin.Context) {
	h.roleTransition(c, h.guard.Unban)
}

func (h *ProjectHandler) roleTransition(c *gin.Context, apply func(ctx context.Context, projectID, actorID, targetID uuid.UUID) error) {
	actorID, ok := getUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := apply(c.Request.Context(), projectID, actorID, targetID); err != nil {
		respondGuardError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondGuardError maps guard errors onto HTTP statuses.
func respondGuardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, guard.ErrNotAdmin), errors.Is(err, guard.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to perform this action"})
	case errors.Is(err, guard.ErrTargetAdmin):
		c.JSON(http.StatusForbidden, gin.H{"error": "The project admin cannot be changed"})
	case errors.Is(err, guard.ErrTargetNotMember):
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user is not a project member"})
	case errors.Is(err, guard.ErrAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a project member"})
	case errors.Is(err, guard.ErrAlreadyInvited):
		c.JSON(http.StatusConflict, gin.H{"error": "User is already invited"})
	case errors.Is(err, guard.ErrBanned):
		c.JSON(http.StatusForbidden, gin.H{"error": "User is banned from this project"})
	case errors.Is(err, guard.ErrNotInvited):
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending invite for this project"})
	case errors.Is(err, guard.ErrNotBanned):
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not banned from this project"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}
