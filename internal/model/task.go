package model

import (
	"time"
)

// TaskStatus — закрытое множество статусов задачи
type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the three task states.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	Deadline    *time.Time
	Status      TaskStatus `gorm:"type:varchar(16);not null;default:'open'"`
	TeamID      uint       `gorm:"not null;index"`
	CreatorID   uint       `gorm:"not null"`
	AssigneeID  uint       `gorm:"not null"`

	Creator  User `gorm:"foreignKey:CreatorID"`
	Assignee User `gorm:"foreignKey:AssigneeID"`
}
