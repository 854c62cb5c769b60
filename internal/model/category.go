package model

import "time"

// Category groups tasks inside exactly one project. It has no owner of its
// own; ownership is resolved through ProjectID, which never changes.
type Category struct {
	ID        string `gorm:"primaryKey"`
	ProjectID string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
