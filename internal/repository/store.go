package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories of the entity store. A Store built inside
// Transaction routes every repository through the same transaction.
type Store struct {
	db *gorm.DB

	Users      *UserRepository
	Projects   *ProjectRepository
	Categories *CategoryRepository
	Tasks      *TaskRepository
	Links      *LinkRepository
	Hashes     *VerificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Projects:   NewProjectRepository(db),
		Categories: NewCategoryRepository(db),
		Tasks:      NewTaskRepository(db),
		Links:      NewLinkRepository(db),
		Hashes:     NewVerificationRepository(db),
	}
}

// Transaction runs fn in a single database transaction. Any error returned by
// fn rolls back every write fn made.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return translate(err, "transaction")
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
