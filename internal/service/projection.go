package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
	"todotrek/internal/repository"
)

// SortKey orders task lists inside projections.
type SortKey string

const (
	SortDefault         SortKey = "DEFAULT"
	SortPriorityDesc    SortKey = "PRIORITY_DESC"
	SortPriorityAsc     SortKey = "PRIORITY_ASC"
	SortIncompleteFirst SortKey = "INCOMPLETE_FIRST"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortDefault, SortPriorityDesc, SortPriorityAsc, SortIncompleteFirst:
		return true
	}
	return false
}

// ParseSortKey accepts the enum names case-insensitively. An empty value is
// DEFAULT and the legacy "priority" means PRIORITY_DESC.
func ParseSortKey(raw string) (SortKey, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return SortDefault, nil
	case "priority":
		return SortPriorityDesc, nil
	}
	key := SortKey(strings.ToUpper(raw))
	if !key.Valid() {
		return "", apperr.Newf(apperr.KindInvalidArgument, "unknown sort key %q", raw)
	}
	return key, nil
}

// SortTasks orders tasks in place. Ties keep their original order.
func SortTasks(tasks []model.TaskSummary, key SortKey) {
	if less := taskLess(key); less != nil {
		sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
	}
}

// taskLess returns nil for DEFAULT, which keeps list order.
func taskLess(key SortKey) func(a, b model.TaskSummary) bool {
	switch key {
	case SortPriorityDesc:
		return func(a, b model.TaskSummary) bool { return a.Priority > b.Priority }
	case SortPriorityAsc:
		return func(a, b model.TaskSummary) bool { return a.Priority < b.Priority }
	case SortIncompleteFirst:
		return func(a, b model.TaskSummary) bool {
			if a.IsCompleted != b.IsCompleted {
				return !a.IsCompleted
			}
			return a.Priority > b.Priority
		}
	}
	return nil
}

type CategoryView struct {
	ID        string              `json:"_id"`
	Name      string              `json:"name"`
	ProjectID string              `json:"project"`
	Tasks     []model.TaskSummary `json:"tasks"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type ProjectView struct {
	ID          string              `json:"_id"`
	Name        string              `json:"name"`
	Color       string              `json:"color"`
	IsFavourite bool                `json:"favourites"`
	Owner       model.UserSummary   `json:"owner"`
	Categories  []CategoryView      `json:"categories"`
	Tasks       []model.TaskSummary `json:"tasks"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type ProjectLink struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CategoryLink struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type TaskView struct {
	model.TaskSummary
	Owner    model.UserSummary `json:"owner"`
	Project  *ProjectLink      `json:"projectId,omitempty"`
	Category *CategoryLink     `json:"categoryId,omitempty"`
}

// taskViewOf describes a task that was just written, using only what the
// write already knows. The owner carries its id alone.
func taskViewOf(task *model.Task) *TaskView {
	view := &TaskView{TaskSummary: task.Summary(), Owner: model.UserSummary{ID: task.OwnerID}}
	switch parent := task.Parent(); parent.Kind() {
	case model.ParentProject:
		view.Project = &ProjectLink{ID: parent.ID()}
	case model.ParentCategory:
		view.Category = &CategoryLink{ID: parent.ID()}
	}
	return view
}

func projectViewOf(project *model.Project) *ProjectView {
	return &ProjectView{
		ID:          project.ID,
		Name:        project.Name,
		Color:       project.Color,
		IsFavourite: project.IsFavourite,
		Owner:       model.UserSummary{ID: project.OwnerID},
		Categories:  []CategoryView{},
		Tasks:       []model.TaskSummary{},
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func categoryViewOf(category *model.Category) *CategoryView {
	return &CategoryView{
		ID:        category.ID,
		Name:      category.Name,
		ProjectID: category.ProjectID,
		Tasks:     []model.TaskSummary{},
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// Projector assembles hydrated read views. Each view is read inside one
// transaction so it never mixes states from before and after a cascade.
type Projector struct {
	store *repository.Store
}

func NewProjector(store *repository.Store) *Projector {
	return &Projector{store: store}
}

func (p *Projector) Project(ctx context.Context, projectID string, key SortKey) (*ProjectView, error) {
	if !key.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown sort key %q", key)
	}
	var view *ProjectView
	err := p.store.Transaction(ctx, func(tx *repository.Store) error {
		project, err := tx.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		view, err = projectView(ctx, tx, project, key)
		return err
	})
	return view, err
}

func (p *Projector) ProjectsByOwner(ctx context.Context, ownerID string, key SortKey) ([]ProjectView, error) {
	if !key.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown sort key %q", key)
	}
	views := []ProjectView{}
	err := p.store.Transaction(ctx, func(tx *repository.Store) error {
		projects, err := tx.Projects.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		for i := range projects {
			view, err := projectView(ctx, tx, &projects[i], key)
			if err != nil {
				return err
			}
			views = append(views, *view)
		}
		return nil
	})
	return views, err
}

func (p *Projector) Category(ctx context.Context, categoryID string, key SortKey) (*CategoryView, error) {
	if !key.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown sort key %q", key)
	}
	var view *CategoryView
	err := p.store.Transaction(ctx, func(tx *repository.Store) error {
		category, err := tx.Categories.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		view, err = categoryView(ctx, tx, category, key)
		return err
	})
	return view, err
}

// CategoriesByProject lists the project's categories in list order.
func (p *Projector) CategoriesByProject(ctx context.Context, projectID string, key SortKey) ([]CategoryView, error) {
	if !key.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown sort key %q", key)
	}
	var views []CategoryView
	err := p.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		views, err = categoryViews(ctx, tx, projectID, key)
		return err
	})
	return views, err
}

func (p *Projector) Task(ctx context.Context, taskID string) (*TaskView, error) {
	var view *TaskView
	err := p.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		view, err = taskView(ctx, tx, task)
		return err
	})
	return view, err
}

func (p *Projector) Tasks(ctx context.Context, filter repository.TaskFilter, key SortKey) ([]TaskView, error) {
	if !key.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "unknown sort key %q", key)
	}
	views := []TaskView{}
	err := p.store.Transaction(ctx, func(tx *repository.Store) error {
		tasks, err := tx.Tasks.List(ctx, filter)
		if err != nil {
			return err
		}
		for i := range tasks {
			view, err := taskView(ctx, tx, &tasks[i])
			if err != nil {
				return err
			}
			views = append(views, *view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if less := taskLess(key); less != nil {
		sort.SliceStable(views, func(i, j int) bool { return less(views[i].TaskSummary, views[j].TaskSummary) })
	}
	return views, nil
}

func projectView(ctx context.Context, tx *repository.Store, project *model.Project, key SortKey) (*ProjectView, error) {
	owner, err := tx.Users.GetByID(ctx, project.OwnerID)
	if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	categories, err := categoryViews(ctx, tx, project.ID, key)
	if err != nil {
		return nil, err
	}
	taskIDs, err := tx.Links.ProjectTaskIDs(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	tasks, err := taskSummaries(ctx, tx, taskIDs, key)
	if err != nil {
		return nil, err
	}

	view := &ProjectView{
		ID:          project.ID,
		Name:        project.Name,
		Color:       project.Color,
		IsFavourite: project.IsFavourite,
		Owner:       model.UserSummary{ID: project.OwnerID},
		Categories:  categories,
		Tasks:       tasks,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if owner != nil {
		view.Owner = owner.Summary()
	}
	return view, nil
}

func categoryViews(ctx context.Context, tx *repository.Store, projectID string, key SortKey) ([]CategoryView, error) {
	ids, err := tx.Links.ProjectCategoryIDs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	categories, err := tx.Categories.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		view, err := categoryView(ctx, tx, &categories[i], key)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func categoryView(ctx context.Context, tx *repository.Store, category *model.Category, key SortKey) (*CategoryView, error) {
	ids, err := tx.Links.CategoryTaskIDs(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	tasks, err := taskSummaries(ctx, tx, ids, key)
	if err != nil {
		return nil, err
	}
	return &CategoryView{
		ID:        category.ID,
		Name:      category.Name,
		ProjectID: category.ProjectID,
		Tasks:     tasks,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}, nil
}

func taskSummaries(ctx context.Context, tx *repository.Store, ids []string, key SortKey) ([]model.TaskSummary, error) {
	tasks, err := tx.Tasks.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		summaries = append(summaries, t.Summary())
	}
	SortTasks(summaries, key)
	return summaries, nil
}

func taskView(ctx context.Context, tx *repository.Store, task *model.Task) (*TaskView, error) {
	view := &TaskView{
		TaskSummary: task.Summary(),
		Owner:       model.UserSummary{ID: task.OwnerID},
	}
	owner, err := tx.Users.GetByID(ctx, task.OwnerID)
	switch {
	case err == nil:
		view.Owner = owner.Summary()
	case !apperr.IsKind(err, apperr.KindNotFound):
		return nil, err
	}

	parent := task.Parent()
	switch parent.Kind() {
	case model.ParentProject:
		project, err := tx.Projects.GetByID(ctx, parent.ID())
		if err != nil {
			return nil, err
		}
		view.Project = &ProjectLink{ID: project.ID, Name: project.Name, Color: project.Color}
	case model.ParentCategory:
		category, err := tx.Categories.GetByID(ctx, parent.ID())
		if err != nil {
			return nil, err
		}
		view.Category = &CategoryLink{ID: category.ID, Name: category.Name}
	}
	return view, nil
}
