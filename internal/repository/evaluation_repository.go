package repository

import (
	"context"
	"errors"
	"time"

	"teamtrack/internal/model"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	db *gorm.DB
}

type EvaluationRepositoryInterface interface {
	Create(ctx context.Context, evaluation *model.Evaluation) error
	GetForUser(ctx context.Context, userID, teamID uint) ([]model.Evaluation, error)
	AverageForUser(ctx context.Context, userID, teamID uint, since time.Time) (float64, int64, error)
}

var _ EvaluationRepositoryInterface = (*EvaluationRepository)(nil)

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create inserts an evaluation, enforcing at most one per task. The existence
// check and the insert share a transaction, and the unique index on task_id
// backstops any race the check cannot see.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Evaluation{}).
			Where("task_id = ?", evaluation.TaskID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrTaskAlreadyEvaluated
		}

		if err := tx.Create(evaluation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTaskAlreadyEvaluated
			}
			return err
		}
		return nil
	})
}

// GetForUser retrieves evaluations of the user for tasks in their team
func (r *EvaluationRepository) GetForUser(ctx context.Context, userID, teamID uint) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	result := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = evaluations.task_id").
		Where("evaluations.evaluated_user_id = ? AND tasks.team_id = ?", userID, teamID).
		Order("evaluations.created_at").
		Find(&evaluations)
	if result.Error != nil {
		return nil, result.Error
	}
	return evaluations, nil
}

// AverageForUser computes the average score and evaluation count for the user
// within their team since the given instant. An empty window yields (0, 0).
func (r *EvaluationRepository) AverageForUser(ctx context.Context, userID, teamID uint, since time.Time) (float64, int64, error) {
	row := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Select("COALESCE(AVG(evaluations.score), 0), COUNT(evaluations.id)").
		Joins("JOIN tasks ON tasks.id = evaluations.task_id").
		Where("evaluations.evaluated_user_id = ? AND tasks.team_id = ? AND evaluations.created_at >= ?",
			userID, teamID, since).
		Row()

	var avg float64
	var count int64
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
