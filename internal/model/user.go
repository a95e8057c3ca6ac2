package model

import (
	"time"
)

// Role определяет уровень прав пользователя внутри команды
type Role string

const (
	RoleMember  Role = "member"  // рядовой участник
	RoleManager Role = "manager" // может управлять задачами
	RoleAdmin   Role = "admin"   // администратор команды
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanManageTasks reports whether the role may create, update or evaluate tasks.
func (r Role) CanManageTasks() bool {
	return r == RoleManager || r == RoleAdmin
}

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex;not null"`
	HashedPassword string `gorm:"not null"`
	FullName       string
	Role           Role  `gorm:"type:varchar(16);not null;default:'member'"`
	TeamID         *uint `gorm:"index"`
	CreatedAt      time.Time
}
