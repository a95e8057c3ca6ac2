package model

type Team struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"uniqueIndex;not null"`
	AdminID uint   `gorm:"not null"`

	Admin User `gorm:"foreignKey:AdminID"`
}
