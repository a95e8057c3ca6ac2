package handler_test

import (
	"context"
	"time"

	"teamtrack/internal/middleware"
	"teamtrack/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// authAs подменяет middleware аутентификации в тестах
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
	}
}

func uintPtr(id uint) *uint { return &id }

// Мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByTeamID(ctx context.Context, teamID uint) ([]model.User, error) {
	args := m.Called(ctx, teamID)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.User), args.Error(1)
}

// Мок репозитория команд
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) CreateWithAdmin(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id uint) (*model.Team, error) {
	args := m.Called(ctx, id)
	team := args.Get(0)
	if team == nil {
		return nil, args.Error(1)
	}
	return team.(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) FindByName(ctx context.Context, name string) (*model.Team, error) {
	args := m.Called(ctx, name)
	team := args.Get(0)
	if team == nil {
		return nil, args.Error(1)
	}
	return team.(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) AddMember(ctx context.Context, userID, teamID uint) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

func (m *MockTeamRepository) SetMemberRole(ctx context.Context, userID, teamID uint, role model.Role) error {
	args := m.Called(ctx, userID, teamID, role)
	return args.Error(0)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, userID, teamID uint) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

// Мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetForUser(ctx context.Context, userID, teamID uint) ([]model.Task, error) {
	args := m.Called(ctx, userID, teamID)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Task, error) {
	args := m.Called(ctx, id, updates)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockTaskRepository) GetComments(ctx context.Context, taskID uint) ([]model.Comment, error) {
	args := m.Called(ctx, taskID)
	comments := args.Get(0)
	if comments == nil {
		return nil, args.Error(1)
	}
	return comments.([]model.Comment), args.Error(1)
}

func (m *MockTaskRepository) GetWithDeadlineBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Task, error) {
	args := m.Called(ctx, userID, from, to)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

// Мок репозитория встреч
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) CreateWithParticipants(ctx context.Context, meeting *model.Meeting, participantIDs []uint) error {
	args := m.Called(ctx, meeting, participantIDs)
	return args.Error(0)
}

func (m *MockMeetingRepository) GetByID(ctx context.Context, id uint) (*model.Meeting, error) {
	args := m.Called(ctx, id)
	meeting := args.Get(0)
	if meeting == nil {
		return nil, args.Error(1)
	}
	return meeting.(*model.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetForUser(ctx context.Context, userID uint) ([]model.Meeting, error) {
	args := m.Called(ctx, userID)
	meetings := args.Get(0)
	if meetings == nil {
		return nil, args.Error(1)
	}
	return meetings.([]model.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMeetingRepository) GetStartingBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Meeting, error) {
	args := m.Called(ctx, userID, from, to)
	meetings := args.Get(0)
	if meetings == nil {
		return nil, args.Error(1)
	}
	return meetings.([]model.Meeting), args.Error(1)
}

// Мок репозитория оценок
type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) Create(ctx context.Context, evaluation *model.Evaluation) error {
	args := m.Called(ctx, evaluation)
	return args.Error(0)
}

func (m *MockEvaluationRepository) GetForUser(ctx context.Context, userID, teamID uint) ([]model.Evaluation, error) {
	args := m.Called(ctx, userID, teamID)
	evaluations := args.Get(0)
	if evaluations == nil {
		return nil, args.Error(1)
	}
	return evaluations.([]model.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) AverageForUser(ctx context.Context, userID, teamID uint, since time.Time) (float64, int64, error) {
	args := m.Called(ctx, userID, teamID, since)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}
