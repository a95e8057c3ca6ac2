package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"teamtrack/internal/handler"
	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTeamTest(callerID uint) (*gin.Engine, *MockTeamRepository, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockTeams := new(MockTeamRepository)
	mockUsers := new(MockUserRepository)
	teamHandler := handler.NewTeamHandler(mockTeams, mockUsers)

	authorized := r.Group("/", authAs(callerID))
	authorized.POST("/teams", teamHandler.Create)
	authorized.GET("/teams/me", teamHandler.GetMine)
	authorized.POST("/teams/:id/members", teamHandler.AddMember)
	authorized.POST("/teams/:id/roles", teamHandler.SetRole)
	authorized.DELETE("/teams/:id/members/:user_id", teamHandler.RemoveMember)

	return r, mockTeams, mockUsers
}

func TestCreateTeam_Success(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	creator := &model.User{ID: 1, Email: "a@x.com", Role: model.RoleMember}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(creator, nil)
	mockTeams.On("FindByName", mock.Anything, "T1").Return(nil, nil)
	mockTeams.On("CreateWithAdmin", mock.Anything, mock.AnythingOfType("*model.Team")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Team).ID = 10
		}).Return(nil)

	jsonBody, _ := json.Marshal(handler.CreateTeamRequest{Name: "T1"})
	req, _ := http.NewRequest("POST", "/teams", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.TeamResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, uint(10), response.ID)
	assert.Equal(t, "T1", response.Name)
	assert.Equal(t, uint(1), response.AdminID)
	// Создатель становится администратором и единственным участником
	assert.Len(t, response.Members, 1)
	assert.Equal(t, string(model.RoleAdmin), response.Members[0].Role)

	mockTeams.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestCreateTeam_AlreadyInTeam(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	caller := &model.User{ID: 1, Role: model.RoleAdmin, TeamID: uintPtr(10)}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(caller, nil)

	jsonBody, _ := json.Marshal(handler.CreateTeamRequest{Name: "T2"})
	req, _ := http.NewRequest("POST", "/teams", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: повторное создание — конфликт, а не успех
	assert.Equal(t, http.StatusConflict, resp.Code)
	mockTeams.AssertNotCalled(t, "CreateWithAdmin", mock.Anything, mock.Anything)
}

func TestCreateTeam_NameTaken(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	caller := &model.User{ID: 1, Role: model.RoleMember}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(caller, nil)
	mockTeams.On("FindByName", mock.Anything, "T1").Return(&model.Team{ID: 5, Name: "T1"}, nil)

	jsonBody, _ := json.Marshal(handler.CreateTeamRequest{Name: "T1"})
	req, _ := http.NewRequest("POST", "/teams", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestGetMyTeam_NotInTeam(t *testing.T) {
	// Arrange
	router, _, mockUsers := setupTeamTest(1)

	caller := &model.User{ID: 1, Role: model.RoleMember}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(caller, nil)

	req, _ := http.NewRequest("GET", "/teams/me", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddMember_Success(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	admin := &model.User{ID: 1, Role: model.RoleAdmin, TeamID: uintPtr(10)}
	target := &model.User{ID: 2, Role: model.RoleMember}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(admin, nil)
	mockUsers.On("GetByID", mock.Anything, uint(2)).Return(target, nil)
	mockTeams.On("AddMember", mock.Anything, uint(2), uint(10)).Return(nil)

	jsonBody, _ := json.Marshal(handler.AddMemberRequest{UserID: 2})
	req, _ := http.NewRequest("POST", "/teams/10/members", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	mockTeams.AssertExpectations(t)
}

func TestAddMember_NotAdmin(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	caller := &model.User{ID: 1, Role: model.RoleManager, TeamID: uintPtr(10)}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(caller, nil)

	jsonBody, _ := json.Marshal(handler.AddMemberRequest{UserID: 2})
	req, _ := http.NewRequest("POST", "/teams/10/members", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockTeams.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMember_TargetAlreadyInTeam(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	admin := &model.User{ID: 1, Role: model.RoleAdmin, TeamID: uintPtr(10)}
	target := &model.User{ID: 2, Role: model.RoleMember, TeamID: uintPtr(20)}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(admin, nil)
	mockUsers.On("GetByID", mock.Anything, uint(2)).Return(target, nil)

	jsonBody, _ := json.Marshal(handler.AddMemberRequest{UserID: 2})
	req, _ := http.NewRequest("POST", "/teams/10/members", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: тихий перевод между командами запрещен
	assert.Equal(t, http.StatusConflict, resp.Code)
	mockTeams.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetRole_AdminRoleRejected(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	admin := &model.User{ID: 1, Role: model.RoleAdmin, TeamID: uintPtr(10)}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(admin, nil)

	jsonBody, _ := json.Marshal(handler.SetRoleRequest{UserID: 2, Role: "admin"})
	req, _ := http.NewRequest("POST", "/teams/10/roles", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: роль admin так назначить нельзя
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTeams.AssertNotCalled(t, "SetMemberRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetRole_Success(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	admin := &model.User{ID: 1, Role: model.RoleAdmin, TeamID: uintPtr(10)}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(admin, nil)
	// Обновление идет строго в рамках команды администратора
	mockTeams.On("SetMemberRole", mock.Anything, uint(2), uint(10), model.RoleManager).Return(nil)

	jsonBody, _ := json.Marshal(handler.SetRoleRequest{UserID: 2, Role: "manager"})
	req, _ := http.NewRequest("POST", "/teams/10/roles", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	mockTeams.AssertExpectations(t)
}

func TestSetRole_TargetInAnotherTeam(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	admin := &model.User{ID: 1, Role: model.RoleAdmin, TeamID: uintPtr(10)}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(admin, nil)
	// Участник чужой команды не попадает под обновление, хранилище
	// сообщает, что строк не затронуто
	mockTeams.On("SetMemberRole", mock.Anything, uint(3), uint(10), model.RoleManager).
		Return(repository.ErrUserNotInTeam)

	jsonBody, _ := json.Marshal(handler.SetRoleRequest{UserID: 3, Role: "manager"})
	req, _ := http.NewRequest("POST", "/teams/10/roles", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockTeams.AssertExpectations(t)
}

func TestRemoveMember_SelfRejected(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	admin := &model.User{ID: 1, Role: model.RoleAdmin, TeamID: uintPtr(10)}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(admin, nil)

	req, _ := http.NewRequest("DELETE", "/teams/10/members/1", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: администратор не может исключить сам себя
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTeams.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveMember_Success(t *testing.T) {
	// Arrange
	router, mockTeams, mockUsers := setupTeamTest(1)

	admin := &model.User{ID: 1, Role: model.RoleAdmin, TeamID: uintPtr(10)}
	mockUsers.On("GetByID", mock.Anything, uint(1)).Return(admin, nil)
	mockTeams.On("RemoveMember", mock.Anything, uint(2), uint(10)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/teams/10/members/2", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	mockTeams.AssertExpectations(t)
}
