package repository

import (
	"context"
	"errors"
	"time"

	"teamtrack/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	GetForUser(ctx context.Context, userID, teamID uint) ([]model.Task, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, id uint) error
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComments(ctx context.Context, taskID uint) ([]model.Comment, error)
	GetWithDeadlineBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Task, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		First(task, "id = ?", task.ID).Error
}

// GetByID retrieves a task with its creator and assignee
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetForUser retrieves team tasks where the user is creator or assignee
func (r *TaskRepository) GetForUser(ctx context.Context, userID, teamID uint) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		Where("team_id = ? AND (creator_id = ? OR assignee_id = ?)", teamID, userID, userID).
		Order("id").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update applies a partial update and returns the refreshed task
func (r *TaskRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Task, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.Task{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrTaskNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// CreateComment appends a comment to a task
func (r *TaskRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Author").
		First(comment, "id = ?", comment.ID).Error
}

// GetComments retrieves the comments of a task, oldest first
func (r *TaskRepository) GetComments(ctx context.Context, taskID uint) ([]model.Comment, error) {
	var comments []model.Comment
	result := r.db.WithContext(ctx).
		Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

// GetWithDeadlineBetween retrieves the user's tasks (created or assigned)
// whose deadline falls within [from, to). Used by the calendar view.
func (r *TaskRepository) GetWithDeadlineBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Where("(creator_id = ? OR assignee_id = ?) AND deadline >= ? AND deadline < ?",
			userID, userID, from, to).
		Order("deadline").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}
