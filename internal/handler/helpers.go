package handler

import (
	"net/http"

	"teamtrack/internal/middleware"
	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/gin-gonic/gin"
)

// UserResponse представляет публичные данные пользователя
type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
	TeamID   *uint  `json:"team_id,omitempty"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
		TeamID:   u.TeamID,
	}
}

// currentUser resolves the authenticated caller from the gin context and the
// user store. It writes the error response itself; callers just bail out on
// ok == false.
func currentUser(c *gin.Context, users repository.UserRepositoryInterface) (*model.User, bool) {
	rawID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	userID, ok := rawID.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return nil, false
	}

	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return nil, false
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}
	return user, true
}

// requireTeamRole is the single authorization predicate for role-gated
// operations: the caller must belong to a team and hold one of the given
// roles. Writes 400/403 and returns false when the check fails.
func requireTeamRole(c *gin.Context, user *model.User, roles ...model.Role) bool {
	for _, role := range roles {
		if user.Role == role {
			if user.TeamID == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "You must be in a team"})
				return false
			}
			return true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this operation"})
	return false
}
