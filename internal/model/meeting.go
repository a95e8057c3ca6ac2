package model

import (
	"time"
)

type Meeting struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	StartTime time.Time `gorm:"not null;index"`
	EndTime   time.Time `gorm:"not null"`
	CreatorID uint      `gorm:"not null"`

	Creator      User   `gorm:"foreignKey:CreatorID"`
	Participants []User `gorm:"many2many:meeting_participants"`
}
