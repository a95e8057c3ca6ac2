package handler

import (
	"errors"
	"net/http"
	"time"

	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type EvaluationHandler struct {
	evaluationRepo repository.EvaluationRepositoryInterface
	taskRepo       repository.TaskRepositoryInterface
	userRepo       repository.UserRepositoryInterface
}

func NewEvaluationHandler(
	evaluationRepo repository.EvaluationRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationRepo: evaluationRepo,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
	}
}

// CreateEvaluationRequest представляет запрос на оценку задачи
type CreateEvaluationRequest struct {
	TaskID uint `json:"task_id" binding:"required"`
	Score  int  `json:"score" binding:"required,gte=1,lte=5"`
}

type EvaluationResponse struct {
	ID              uint      `json:"id"`
	TaskID          uint      `json:"task_id"`
	Score           int       `json:"score"`
	EvaluatorID     uint      `json:"evaluator_id"`
	EvaluatedUserID uint      `json:"evaluated_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type AverageRatingResponse struct {
	AverageScore     float64 `json:"average_score"`
	TotalEvaluations int64   `json:"total_evaluations"`
}

type averageQuery struct {
	Days int `form:"days,default=30" binding:"gte=1,lte=365"`
}

func toEvaluationResponse(e *model.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:              e.ID,
		TaskID:          e.TaskID,
		Score:           e.Score,
		EvaluatorID:     e.EvaluatorID,
		EvaluatedUserID: e.EvaluatedUserID,
		CreatedAt:       e.CreatedAt,
	}
}

// Create выставляет оценку завершенной задаче; не более одной оценки на задачу
func (h *EvaluationHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	var req CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), req.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	if task.Status != model.StatusDone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Can only evaluate completed tasks"})
		return
	}

	if user.TeamID == nil || *user.TeamID != task.TeamID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Evaluator not in the same team"})
		return
	}

	if !user.Role.CanManageTasks() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only managers or admins can evaluate"})
		return
	}

	if user.ID == task.AssigneeID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot evaluate yourself"})
		return
	}

	// Оцениваемый фиксируется на момент выставления оценки
	evaluation := &model.Evaluation{
		Score:           req.Score,
		TaskID:          task.ID,
		EvaluatorID:     user.ID,
		EvaluatedUserID: task.AssigneeID,
	}

	if err := h.evaluationRepo.Create(c.Request.Context(), evaluation); err != nil {
		if errors.Is(err, repository.ErrTaskAlreadyEvaluated) {
			c.JSON(http.StatusConflict, gin.H{"error": "Task already evaluated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create evaluation"})
		return
	}

	c.JSON(http.StatusCreated, toEvaluationResponse(evaluation))
}

// ListMine возвращает оценки текущего пользователя в его команде
func (h *EvaluationHandler) ListMine(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if user.TeamID == nil {
		c.JSON(http.StatusOK, []EvaluationResponse{})
		return
	}

	evaluations, err := h.evaluationRepo.GetForUser(c.Request.Context(), user.ID, *user.TeamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve evaluations"})
		return
	}

	response := make([]EvaluationResponse, len(evaluations))
	for i := range evaluations {
		response[i] = toEvaluationResponse(&evaluations[i])
	}
	c.JSON(http.StatusOK, response)
}

// AverageMine возвращает средний балл за последние N дней; пустое окно — нули
func (h *EvaluationHandler) AverageMine(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	var query averageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Days must be between 1 and 365"})
		return
	}

	if user.TeamID == nil {
		c.JSON(http.StatusOK, AverageRatingResponse{AverageScore: 0.0, TotalEvaluations: 0})
		return
	}

	since := time.Now().AddDate(0, 0, -query.Days)
	avg, count, err := h.evaluationRepo.AverageForUser(c.Request.Context(), user.ID, *user.TeamID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rating"})
		return
	}

	c.JSON(http.StatusOK, AverageRatingResponse{
		AverageScore:     avg,
		TotalEvaluations: count,
	})
}
