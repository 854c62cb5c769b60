package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todotrek/internal/model"
)

// childList describes one parent -> children link table.
type childList struct {
	model     any
	parentCol string
	childCol  string
	entity    string
}

var (
	projectCategoryList = childList{model: &model.ProjectCategory{}, parentCol: "project_id", childCol: "category_id", entity: "project category link"}
	projectTaskList     = childList{model: &model.ProjectTask{}, parentCol: "project_id", childCol: "task_id", entity: "project task link"}
	categoryTaskList    = childList{model: &model.CategoryTask{}, parentCol: "category_id", childCol: "task_id", entity: "category task link"}
)

// LinkRepository maintains the ordered child lists (backlinks) of projects
// and categories. Add and Remove are single-row statements, so concurrent
// writers to the same list never overwrite each other.
type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) add(ctx context.Context, l childList, parentID, childID string) error {
	err := r.db.WithContext(ctx).Model(l.model).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{l.parentCol: parentID, l.childCol: childID}).Error
	return translate(err, l.entity)
}

func (r *LinkRepository) remove(ctx context.Context, l childList, parentID, childID string) error {
	err := r.db.WithContext(ctx).
		Where(l.parentCol+" = ? AND "+l.childCol+" = ?", parentID, childID).
		Delete(l.model).Error
	return translate(err, l.entity)
}

func (r *LinkRepository) children(ctx context.Context, l childList, parentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(l.model).
		Where(l.parentCol+" = ?", parentID).
		Order("seq ASC").
		Pluck(l.childCol, &ids).Error
	return ids, translate(err, l.entity)
}

func (r *LinkRepository) parents(ctx context.Context, l childList, childID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(l.model).
		Where(l.childCol+" = ?", childID).
		Pluck(l.parentCol, &ids).Error
	return ids, translate(err, l.entity)
}

func (r *LinkRepository) clear(ctx context.Context, l childList, parentID string) error {
	err := r.db.WithContext(ctx).Where(l.parentCol+" = ?", parentID).Delete(l.model).Error
	return translate(err, l.entity)
}

func (r *LinkRepository) AddProjectCategory(ctx context.Context, projectID, categoryID string) error {
	return r.add(ctx, projectCategoryList, projectID, categoryID)
}

func (r *LinkRepository) RemoveProjectCategory(ctx context.Context, projectID, categoryID string) error {
	return r.remove(ctx, projectCategoryList, projectID, categoryID)
}

func (r *LinkRepository) ProjectCategoryIDs(ctx context.Context, projectID string) ([]string, error) {
	return r.children(ctx, projectCategoryList, projectID)
}

func (r *LinkRepository) AddProjectTask(ctx context.Context, projectID, taskID string) error {
	return r.add(ctx, projectTaskList, projectID, taskID)
}

func (r *LinkRepository) RemoveProjectTask(ctx context.Context, projectID, taskID string) error {
	return r.remove(ctx, projectTaskList, projectID, taskID)
}

func (r *LinkRepository) ProjectTaskIDs(ctx context.Context, projectID string) ([]string, error) {
	return r.children(ctx, projectTaskList, projectID)
}

func (r *LinkRepository) ClearProjectTasks(ctx context.Context, projectID string) error {
	return r.clear(ctx, projectTaskList, projectID)
}

func (r *LinkRepository) AddCategoryTask(ctx context.Context, categoryID, taskID string) error {
	return r.add(ctx, categoryTaskList, categoryID, taskID)
}

func (r *LinkRepository) RemoveCategoryTask(ctx context.Context, categoryID, taskID string) error {
	return r.remove(ctx, categoryTaskList, categoryID, taskID)
}

func (r *LinkRepository) CategoryTaskIDs(ctx context.Context, categoryID string) ([]string, error) {
	return r.children(ctx, categoryTaskList, categoryID)
}

func (r *LinkRepository) ClearCategoryTasks(ctx context.Context, categoryID string) error {
	return r.clear(ctx, categoryTaskList, categoryID)
}

// TaskBacklinks returns every project and category list holding taskID.
func (r *LinkRepository) TaskBacklinks(ctx context.Context, taskID string) (projectIDs, categoryIDs []string, err error) {
	if projectIDs, err = r.parents(ctx, projectTaskList, taskID); err != nil {
		return nil, nil, err
	}
	if categoryIDs, err = r.parents(ctx, categoryTaskList, taskID); err != nil {
		return nil, nil, err
	}
	return projectIDs, categoryIDs, nil
}

func (r *LinkRepository) AllProjectCategories(ctx context.Context) ([]model.ProjectCategory, error) {
	var links []model.ProjectCategory
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&links).Error
	return links, translate(err, projectCategoryList.entity)
}

func (r *LinkRepository) AllProjectTasks(ctx context.Context) ([]model.ProjectTask, error) {
	var links []model.ProjectTask
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&links).Error
	return links, translate(err, projectTaskList.entity)
}

func (r *LinkRepository) AllCategoryTasks(ctx context.Context) ([]model.CategoryTask, error) {
	var links []model.CategoryTask
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&links).Error
	return links, translate(err, categoryTaskList.entity)
}
