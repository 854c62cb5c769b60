package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
)

// TaskFilter selects tasks by at most one of its fields.
type TaskFilter struct {
	OwnerID    string
	ProjectID  string
	CategoryID string
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Version = 1
	return translate(r.db.WithContext(ctx).Create(task).Error, "task")
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err, "task")
	}
	return &task, nil
}

// GetByIDs returns the tasks in ids order, skipping ids with no row.
func (r *TaskRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []model.Task
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, translate(err, "task")
	}
	byID := make(map[string]model.Task, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	tasks := make([]model.Task, 0, len(found))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx)
	switch {
	case filter.ProjectID != "":
		q = q.Where("project_id = ?", filter.ProjectID)
	case filter.CategoryID != "":
		q = q.Where("category_id = ?", filter.CategoryID)
	case filter.OwnerID != "":
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	var tasks []model.Task
	if err := q.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, translate(err, "task")
	}
	return tasks, nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	return r.List(ctx, TaskFilter{})
}

// Update saves every mutable column of task if its version still matches,
// then bumps task.Version. A stale version yields CONFLICT.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]any{
			"body":         task.Body,
			"due_date":     task.DueDate,
			"priority":     task.Priority,
			"is_completed": task.IsCompleted,
			"project_id":   task.ProjectID,
			"category_id":  task.CategoryID,
			"version":      task.Version + 1,
			"updated_at":   now,
		})
	if res.Error != nil {
		return translate(res.Error, "task")
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, task.ID); err != nil {
			return err
		}
		return apperr.New(apperr.KindConflict, "task was modified concurrently")
	}
	task.Version++
	task.UpdatedAt = now
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{})
	return mustAffect(res, "task")
}

// DeleteByIDs removes every listed task and reports how many rows went away.
func (r *TaskRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Task{})
	return res.RowsAffected, translate(res.Error, "task")
}
