package model

import "time"

type AccountType string

const (
	AccountLocal  AccountType = "LOCAL"
	AccountGoogle AccountType = "GOOGLE"
)

// User stores account identity and credentials.
type User struct {
	ID             string `gorm:"primaryKey"`
	FirstName      string `gorm:"not null"`
	LastName       string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	IsVerified     bool   `gorm:"default:false"`
	AccountType    AccountType
	GoogleID       *string
	TelegramChatID *int64 `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserSummary is the public projection of a User: no credential material.
type UserSummary struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}
