package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todotrek/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	return translate(r.db.WithContext(ctx).Create(category).Error, "category")
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

// GetByIDs returns the categories in ids order, skipping ids with no row.
func (r *CategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []model.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, translate(err, "category")
	}
	byID := make(map[string]model.Category, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	categories := make([]model.Category, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func (r *CategoryRepository) ListByProject(ctx context.Context, projectID string) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, translate(err, "category")
	}
	return categories, nil
}

func (r *CategoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, translate(err, "category")
	}
	return categories, nil
}

// Rename is the only update a category accepts; project_id never changes.
func (r *CategoryRepository) Rename(ctx context.Context, id, name string) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Update("name", name)
	return mustAffect(res, "category")
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{})
	return mustAffect(res, "category")
}
