package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskRepo repository.TaskRepositoryInterface
	userRepo repository.UserRepositoryInterface
}

func NewTaskHandler(taskRepo repository.TaskRepositoryInterface, userRepo repository.UserRepositoryInterface) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	AssigneeID  uint       `json:"assignee_id" binding:"required"`
}

// UpdateTaskRequest представляет частичное обновление: меняются только
// присланные поля
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Status      *string    `json:"status"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID        uint         `json:"id"`
	Content   string       `json:"content"`
	Author    UserResponse `json:"author"`
	CreatedAt time.Time    `json:"created_at"`
}

type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Deadline    *time.Time        `json:"deadline,omitempty"`
	Status      string            `json:"status"`
	Creator     UserResponse      `json:"creator"`
	Assignee    UserResponse      `json:"assignee"`
	Comments    []CommentResponse `json:"comments"`
}

func toCommentResponse(comment *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		Author:    toUserResponse(&comment.Author),
		CreatedAt: comment.CreatedAt,
	}
}

func toTaskResponse(task *model.Task, comments []model.Comment) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		Status:      string(task.Status),
		Creator:     toUserResponse(&task.Creator),
		Assignee:    toUserResponse(&task.Assignee),
		Comments:    make([]CommentResponse, len(comments)),
	}
	for i := range comments {
		response.Comments[i] = toCommentResponse(&comments[i])
	}
	return response
}

// Create создает задачу; доступно менеджерам и администраторам
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if !requireTeamRole(c, user, model.RoleManager, model.RoleAdmin) {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	assignee, err := h.userRepo.GetByID(c.Request.Context(), req.AssigneeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if assignee == nil || assignee.TeamID == nil || *assignee.TeamID != *user.TeamID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee must be in your team"})
		return
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      model.StatusOpen,
		TeamID:      *user.TeamID,
		CreatorID:   user.ID,
		AssigneeID:  req.AssigneeID,
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task, nil))
}

// List возвращает задачи команды, где пользователь создатель или исполнитель
func (h *TaskHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if user.TeamID == nil {
		c.JSON(http.StatusOK, []TaskResponse{})
		return
	}

	tasks, err := h.taskRepo.GetForUser(c.Request.Context(), user.ID, *user.TeamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		comments, err := h.taskRepo.GetComments(c.Request.Context(), tasks[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
			return
		}
		response[i] = toTaskResponse(&tasks[i], comments)
	}

	c.JSON(http.StatusOK, response)
}

// visibleTask loads the task and hides it from other teams: a task outside
// the caller's team is reported as not found, never as forbidden.
func (h *TaskHandler) visibleTask(c *gin.Context, user *model.User) (*model.Task, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return nil, false
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), uint(taskID))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return nil, false
	}

	if user.TeamID == nil || task.TeamID != *user.TeamID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return nil, false
	}
	return task, true
}

// GetByID возвращает задачу с комментариями
func (h *TaskHandler) GetByID(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	task, ok := h.visibleTask(c, user)
	if !ok {
		return
	}

	comments, err := h.taskRepo.GetComments(c.Request.Context(), task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task, comments))
}

// Update частично обновляет задачу; доступно менеджерам и администраторам
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if !requireTeamRole(c, user, model.RoleManager, model.RoleAdmin) {
		return
	}

	task, ok := h.visibleTask(c, user)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		updates["status"] = status
	}

	task, err := h.taskRepo.Update(c.Request.Context(), task.ID, updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	comments, err := h.taskRepo.GetComments(c.Request.Context(), task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task, comments))
}

// Delete удаляет задачу; разрешено только её создателю
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	task, ok := h.visibleTask(c, user)
	if !ok {
		return
	}

	if task.CreatorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only task creator can delete it"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), task.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// AddComment добавляет комментарий; комментарии не редактируются
func (h *TaskHandler) AddComment(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	task, ok := h.visibleTask(c, user)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	comment := &model.Comment{
		Content:  req.Content,
		TaskID:   task.ID,
		AuthorID: user.ID,
	}
	if err := h.taskRepo.CreateComment(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// GetComments возвращает комментарии задачи
func (h *TaskHandler) GetComments(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	task, ok := h.visibleTask(c, user)
	if !ok {
		return
	}

	comments, err := h.taskRepo.GetComments(c.Request.Context(), task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	response := make([]CommentResponse, len(comments))
	for i := range comments {
		response[i] = toCommentResponse(&comments[i])
	}
	c.JSON(http.StatusOK, response)
}
