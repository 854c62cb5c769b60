package service

import (
	"context"
	"strings"
	"time"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
	"todotrek/internal/repository"
)

// TaskInput represents data required to create a task. ParentID may name a
// project or a category; empty creates a standalone task.
type TaskInput struct {
	Body     string
	DueDate  *time.Time
	Priority *int
	ParentID string
}

// TaskPatch is a partial task update. When both ProjectID and CategoryID
// are non-empty the category wins and the project link is dropped. Both
// present and empty detaches the task from any parent.
type TaskPatch struct {
	Body         *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *int
	ProjectID    *string
	CategoryID   *string
}

// TaskListFilter narrows a task listing; at most one field may be set.
type TaskListFilter struct {
	ProjectID  string
	CategoryID string
	OwnerID    string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	deps Deps
	deadlines
}

func NewTaskService(deps Deps) *TaskService {
	return &TaskService{deps: deps, deadlines: deadlines{timeout: deps.Timeout}}
}

func (s *TaskService) Create(ctx context.Context, actorID string, input TaskInput) (*TaskView, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "task body is required")
	}
	priority, err := parsePriority(input.Priority)
	if err != nil {
		return nil, err
	}
	var parentID string
	if input.ParentID != "" {
		if parentID, err = ParseID("parent", input.ParentID); err != nil {
			return nil, err
		}
	}

	wctx, cancel := s.write(ctx)
	defer cancel()

	parent := model.NoParent()
	if parentID != "" {
		if parent, err = s.resolveParent(wctx, parentID); err != nil {
			return nil, err
		}
		if err := s.deps.Owners.Authorize(wctx, actorID, parentTarget(parent)); err != nil {
			return nil, err
		}
	}

	task := model.Task{
		Body:     body,
		DueDate:  input.DueDate,
		OwnerID:  actorID,
		Priority: model.PriorityNone,
	}
	if priority != nil {
		task.Priority = *priority
	}
	if err := s.deps.Graph.CreateTask(wctx, &task, parent); err != nil {
		return nil, err
	}
	view, err := s.deps.Views.Task(wctx, task.ID)
	if err != nil {
		// The task is committed; report it even when hydration fails.
		s.deps.Log.WithError(err).WithField("task_id", task.ID).Warn("created task not hydrated")
		return taskViewOf(&task), nil
	}
	return view, nil
}

// List returns tasks matching filter; with no filter, the actor's own tasks.
func (s *TaskService) List(ctx context.Context, actorID string, filter TaskListFilter, sortBy string) ([]TaskView, error) {
	key, err := ParseSortKey(sortBy)
	if err != nil {
		return nil, err
	}
	set := 0
	for _, v := range []string{filter.ProjectID, filter.CategoryID, filter.OwnerID} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return nil, apperr.New(apperr.KindInvalidArgument, "Invalid query parameters")
	}

	var query repository.TaskFilter
	switch {
	case filter.ProjectID != "":
		query.ProjectID, err = ParseID("project", filter.ProjectID)
	case filter.CategoryID != "":
		query.CategoryID, err = ParseID("category", filter.CategoryID)
	case filter.OwnerID != "":
		query.OwnerID, err = ParseID("user", filter.OwnerID)
	default:
		query.OwnerID = actorID
	}
	if err != nil {
		return nil, err
	}

	rctx, cancel := s.read(ctx)
	defer cancel()
	return s.deps.Views.Tasks(rctx, query, key)
}

func (s *TaskService) Get(ctx context.Context, id string) (*TaskView, error) {
	id, err := ParseID("task", id)
	if err != nil {
		return nil, err
	}
	rctx, cancel := s.read(ctx)
	defer cancel()
	return s.deps.Views.Task(rctx, id)
}

func (s *TaskService) Update(ctx context.Context, actorID, id string, patch TaskPatch) (*TaskView, error) {
	id, err := ParseID("task", id)
	if err != nil {
		return nil, err
	}
	change := TaskChange{
		Body:         patch.Body,
		DueDate:      patch.DueDate,
		ClearDueDate: patch.ClearDueDate,
	}
	if patch.Body != nil {
		body := strings.TrimSpace(*patch.Body)
		if body == "" {
			return nil, apperr.New(apperr.KindInvalidArgument, "task body cannot be empty")
		}
		change.Body = &body
	}
	if change.Priority, err = parsePriority(patch.Priority); err != nil {
		return nil, err
	}
	if change.Parent, err = parentFromPatch(patch); err != nil {
		return nil, err
	}

	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Owners.Authorize(wctx, actorID, TaskTarget(id)); err != nil {
		return nil, err
	}
	// UpdateTask checks the destination parent against the task owner,
	// after the completed-task check.
	if _, err := s.deps.Graph.UpdateTask(wctx, id, change); err != nil {
		return nil, err
	}
	return s.deps.Views.Task(wctx, id)
}

// SetCompletion opens or closes the task.
func (s *TaskService) SetCompletion(ctx context.Context, actorID, id string, completed bool) (*TaskView, error) {
	id, err := ParseID("task", id)
	if err != nil {
		return nil, err
	}
	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Owners.Authorize(wctx, actorID, TaskTarget(id)); err != nil {
		return nil, err
	}
	if _, err := s.deps.Graph.SetCompletion(wctx, id, completed); err != nil {
		return nil, err
	}
	return s.deps.Views.Task(wctx, id)
}

// Delete removes the task. Deleting a task that is already gone succeeds.
func (s *TaskService) Delete(ctx context.Context, actorID, id string) error {
	id, err := ParseID("task", id)
	if err != nil {
		return err
	}
	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Owners.Authorize(wctx, actorID, TaskTarget(id)); err != nil {
		return ignoreNotFound(err)
	}
	return ignoreNotFound(s.deps.Graph.DeleteTask(wctx, id))
}

// resolveParent finds whether id names a project or a category.
func (s *TaskService) resolveParent(ctx context.Context, id string) (model.ParentRef, error) {
	if _, err := s.deps.Store.Projects.GetByID(ctx, id); err == nil {
		return model.ProjectParent(id), nil
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return model.ParentRef{}, err
	}
	if _, err := s.deps.Store.Categories.GetByID(ctx, id); err == nil {
		return model.CategoryParent(id), nil
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return model.ParentRef{}, err
	}
	return model.ParentRef{}, apperr.New(apperr.KindNotFound, "Provided id does not exist for any project or category")
}

func parentFromPatch(patch TaskPatch) (*model.ParentRef, error) {
	hasCategory := patch.CategoryID != nil && *patch.CategoryID != ""
	hasProject := patch.ProjectID != nil && *patch.ProjectID != ""
	var parent model.ParentRef
	switch {
	case hasCategory:
		id, err := ParseID("category", *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		if hasProject {
			if _, err := ParseID("project", *patch.ProjectID); err != nil {
				return nil, err
			}
		}
		parent = model.CategoryParent(id)
	case hasProject:
		id, err := ParseID("project", *patch.ProjectID)
		if err != nil {
			return nil, err
		}
		parent = model.ProjectParent(id)
	case patch.CategoryID != nil && patch.ProjectID != nil:
		parent = model.NoParent()
	default:
		return nil, nil
	}
	return &parent, nil
}

func parentTarget(p model.ParentRef) Target {
	if p.Kind() == model.ParentCategory {
		return CategoryTarget(p.ID())
	}
	return ProjectTarget(p.ID())
}

func parsePriority(raw *int) (*model.Priority, error) {
	if raw == nil {
		return nil, nil
	}
	p := model.Priority(*raw)
	if !p.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "priority must be between 0 and 3, got %d", *raw)
	}
	return &p, nil
}
