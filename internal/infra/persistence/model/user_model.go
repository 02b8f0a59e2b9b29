// Package model defines the GORM persistence models, kept separate from the
// pure domain entities.
package model

import "time"

// UserModel is the persistence representation of a user account. Email is a
// pointer so that auto-provisioned identities without an email claim store
// NULL instead of colliding on the unique index.
type UserModel struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Email        *string   `gorm:"uniqueIndex;size:255"`
	Name         string    `gorm:"size:255"`
	PasswordHash string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the default table name.
func (UserModel) TableName() string {
	return "users"
}
