package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"todotrek/internal/model"
)

// VerificationRepository stores one-shot hashes for email verification and
// password reset.
type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, hash *model.VerificationHash) error {
	return translate(r.db.WithContext(ctx).Create(hash).Error, "verification hash")
}

// Consume deletes the hash and returns it. Expired or missing hashes yield
// NOT_FOUND.
func (r *VerificationRepository) Consume(ctx context.Context, hash string, purpose model.HashPurpose, now time.Time) (*model.VerificationHash, error) {
	var found model.VerificationHash
	err := r.db.WithContext(ctx).
		Where("hash = ? AND purpose = ? AND expires_at > ?", hash, purpose, now).
		First(&found).Error
	if err != nil {
		return nil, translate(err, "verification hash")
	}
	res := r.db.WithContext(ctx).Where("hash = ?", hash).Delete(&model.VerificationHash{})
	if err := mustAffect(res, "verification hash"); err != nil {
		return nil, err
	}
	return &found, nil
}

// PurgeExpired removes hashes that expired before now.
func (r *VerificationRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.VerificationHash{})
	return res.RowsAffected, translate(res.Error, "verification hash")
}
