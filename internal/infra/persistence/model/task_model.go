package model

import "time"

// TaskModel is the persistence representation of a todo item.
type TaskModel struct {
	ID          string    `gorm:"primaryKey;size:64"`
	UserID      string    `gorm:"index;size:64;not null"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"size:1000"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the default table name.
func (TaskModel) TableName() string {
	return "tasks"
}
