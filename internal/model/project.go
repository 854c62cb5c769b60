package model

import "time"

// Project is the root of a subtree of categories and tasks and is owned
// directly by a user.
type Project struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Color       string `gorm:"not null"`
	IsFavourite bool   `gorm:"default:false"`
	OwnerID     string `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
