package model

import "time"

type HashPurpose string

const (
	PurposeEmailVerification HashPurpose = "EMAIL_VERIFICATION"
	PurposePasswordReset     HashPurpose = "PASSWORD_RESET"
)

// VerificationHash is a one-shot secret referenced by an emailed token.
type VerificationHash struct {
	Hash      string      `gorm:"primaryKey"`
	UserID    string      `gorm:"index;not null"`
	Purpose   HashPurpose `gorm:"not null"`
	ExpiresAt time.Time   `gorm:"index"`
	CreatedAt time.Time
}
