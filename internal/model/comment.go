package model

import (
	"time"
)

// Comment — append-only: комментарии не редактируются и не удаляются
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	Content   string `gorm:"not null"`
	TaskID    uint   `gorm:"not null;index"`
	AuthorID  uint   `gorm:"not null"`
	CreatedAt time.Time

	Author User `gorm:"foreignKey:AuthorID"`
}
