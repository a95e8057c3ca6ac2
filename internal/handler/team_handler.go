package handler

import (
	"errors"
	"net/http"
	"strconv"

	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamRepo repository.TeamRepositoryInterface
	userRepo repository.UserRepositoryInterface
}

func NewTeamHandler(teamRepo repository.TeamRepositoryInterface, userRepo repository.UserRepositoryInterface) *TeamHandler {
	return &TeamHandler{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

type AddMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type SetRoleRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// TeamResponse представляет команду с её участниками
type TeamResponse struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	AdminID uint           `json:"admin_id"`
	Members []UserResponse `json:"members"`
}

// Create создает команду и делает создателя её администратором
func (h *TeamHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if user.TeamID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already in a team"})
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	existing, err := h.teamRepo.FindByName(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Team name already exists"})
		return
	}

	team := &model.Team{
		Name:    req.Name,
		AdminID: user.ID,
	}
	if err := h.teamRepo.CreateWithAdmin(c.Request.Context(), team); err != nil {
		if errors.Is(err, repository.ErrTeamNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Team name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	user.TeamID = &team.ID
	user.Role = model.RoleAdmin

	c.JSON(http.StatusCreated, TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		AdminID: team.AdminID,
		Members: []UserResponse{toUserResponse(user)},
	})
}

// GetMine возвращает команду текущего пользователя и её участников
func (h *TeamHandler) GetMine(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if user.TeamID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not in a team"})
		return
	}

	team, err := h.teamRepo.GetByID(c.Request.Context(), *user.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team"})
		return
	}

	members, err := h.userRepo.GetByTeamID(c.Request.Context(), team.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		AdminID: team.AdminID,
		Members: make([]UserResponse, len(members)),
	}
	for i := range members {
		response.Members[i] = toUserResponse(&members[i])
	}

	c.JSON(http.StatusOK, response)
}

// adminOfTeam checks that the caller administers the team in the path.
func (h *TeamHandler) adminOfTeam(c *gin.Context, user *model.User) (uint, bool) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return 0, false
	}

	if user.Role != model.RoleAdmin || user.TeamID == nil || *user.TeamID != uint(teamID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the team admin can manage members"})
		return 0, false
	}
	return uint(teamID), true
}

// AddMember добавляет пользователя без команды в команду администратора
func (h *TeamHandler) AddMember(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	teamID, ok := h.adminOfTeam(c, user)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	target, err := h.userRepo.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	// Silent reassignment between teams is refused on purpose; the member
	// must be removed from the old team first.
	if target.TeamID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already belongs to a team"})
		return
	}

	if err := h.teamRepo.AddMember(c.Request.Context(), req.UserID, teamID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member added"})
}

// SetRole меняет роль участника (admin назначать нельзя)
func (h *TeamHandler) SetRole(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	teamID, ok := h.adminOfTeam(c, user)
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	role := model.Role(req.Role)
	if role != model.RoleManager && role != model.RoleMember {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	if err := h.teamRepo.SetMemberRole(c.Request.Context(), req.UserID, teamID, role); err != nil {
		if errors.Is(err, repository.ErrUserNotInTeam) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not in team or not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role set to " + req.Role})
}

// RemoveMember исключает участника; роль сбрасывается на member
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	teamID, ok := h.adminOfTeam(c, user)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if uint(targetID) == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Admin cannot remove themselves"})
		return
	}

	if err := h.teamRepo.RemoveMember(c.Request.Context(), uint(targetID), teamID); err != nil {
		if errors.Is(err, repository.ErrUserNotInTeam) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not in team or not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
