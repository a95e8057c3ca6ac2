package model

import (
	"time"
)

// Evaluation holds a single score for a completed task. The unique index
// on TaskID enforces the one-evaluation-per-task invariant at the schema
// level; repository code still pre-checks inside a transaction so callers
// get a domain error instead of a raw constraint violation.
type Evaluation struct {
	ID              uint `gorm:"primaryKey"`
	Score           int  `gorm:"not null;check:score >= 1 AND score <= 5"`
	TaskID          uint `gorm:"not null;uniqueIndex"`
	EvaluatorID     uint `gorm:"not null"`
	EvaluatedUserID uint `gorm:"not null"`
	CreatedAt       time.Time

	Evaluator     User `gorm:"foreignKey:EvaluatorID"`
	EvaluatedUser User `gorm:"foreignKey:EvaluatedUserID"`
}
