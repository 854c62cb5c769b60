package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
	"todotrek/internal/repository"
)

// TaskChange is a partial task update. Nil fields are left unchanged.
type TaskChange struct {
	Body         *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *model.Priority
	Parent       *model.ParentRef
}

func (c TaskChange) touchesContent() bool {
	return c.Body != nil || c.DueDate != nil || c.ClearDueDate || c.Priority != nil || c.Parent != nil
}

// RelationshipManager keeps task parent references and the parents' child
// lists in step. Every exported method runs in one store transaction.
type RelationshipManager struct {
	store *repository.Store
	log   *logrus.Entry
}

func NewRelationshipManager(store *repository.Store, log *logrus.Entry) *RelationshipManager {
	return &RelationshipManager{store: store, log: log.WithField("component", "graph")}
}

// CreateCategory persists category under its project and appends it to the
// project's category list.
func (m *RelationshipManager) CreateCategory(ctx context.Context, category *model.Category) error {
	return m.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Projects.GetByID(ctx, category.ProjectID); err != nil {
			return err
		}
		if err := tx.Categories.Create(ctx, category); err != nil {
			return err
		}
		return tx.Links.AddProjectCategory(ctx, category.ProjectID, category.ID)
	})
}

// CreateTask persists task under parent and appends it to the parent's task
// list. task.OwnerID must be set and must match the owner of the parent's
// project.
func (m *RelationshipManager) CreateTask(ctx context.Context, task *model.Task, parent model.ParentRef) error {
	return m.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkParent(ctx, tx, parent, task.OwnerID); err != nil {
			return err
		}
		task.SetParent(parent)
		if err := tx.Tasks.Create(ctx, task); err != nil {
			return err
		}
		return attach(ctx, tx, parent, task.ID)
	})
}

// UpdateTask applies change to the task, moving it between parent lists when
// change.Parent differs from the current parent. Completed tasks reject every
// content change with CONFLICT.
func (m *RelationshipManager) UpdateTask(ctx context.Context, taskID string, change TaskChange) (*model.Task, error) {
	var updated *model.Task
	err := m.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task.IsCompleted && change.touchesContent() {
			return apperr.New(apperr.KindConflict, "completed task cannot be updated")
		}

		if change.Body != nil {
			task.Body = *change.Body
		}
		if change.ClearDueDate {
			task.DueDate = nil
		} else if change.DueDate != nil {
			due := *change.DueDate
			task.DueDate = &due
		}
		if change.Priority != nil {
			task.Priority = *change.Priority
		}

		if change.Parent != nil && *change.Parent != task.Parent() {
			next := *change.Parent
			if err := checkParent(ctx, tx, next, task.OwnerID); err != nil {
				return err
			}
			if err := detach(ctx, tx, task.ID); err != nil {
				return err
			}
			task.SetParent(next)
			if err := attach(ctx, tx, next, task.ID); err != nil {
				return err
			}
		}

		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Reparent moves the task to parent. Moving to the current parent is a no-op,
// so a retried move converges on a single list entry.
func (m *RelationshipManager) Reparent(ctx context.Context, taskID string, parent model.ParentRef) (*model.Task, error) {
	return m.UpdateTask(ctx, taskID, TaskChange{Parent: &parent})
}

// SetCompletion opens or closes a task. It is the one mutation a completed
// task accepts.
func (m *RelationshipManager) SetCompletion(ctx context.Context, taskID string, completed bool) (*model.Task, error) {
	var updated *model.Task
	err := m.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		task.IsCompleted = completed
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes the task and every backlink to it.
func (m *RelationshipManager) DeleteTask(ctx context.Context, taskID string) error {
	return m.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Tasks.GetByID(ctx, taskID); err != nil {
			return err
		}
		if err := detach(ctx, tx, taskID); err != nil {
			return err
		}
		return tx.Tasks.Delete(ctx, taskID)
	})
}

// DeleteCategory removes the category with all of its tasks and drops it
// from its project's category list. The project itself is untouched.
func (m *RelationshipManager) DeleteCategory(ctx context.Context, categoryID string) error {
	var removed int64
	err := m.store.Transaction(ctx, func(tx *repository.Store) error {
		n, err := deleteCategory(ctx, tx, categoryID)
		removed = n
		return err
	})
	if err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{"category_id": categoryID, "tasks": removed}).Info("category deleted")
	return nil
}

// DeleteProject removes the project, its categories with their tasks, and
// the tasks parented directly to it, in that order.
func (m *RelationshipManager) DeleteProject(ctx context.Context, projectID string) error {
	var categories, tasks int64
	err := m.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Projects.GetByID(ctx, projectID); err != nil {
			return err
		}

		categoryIDs, err := tx.Links.ProjectCategoryIDs(ctx, projectID)
		if err != nil {
			return err
		}
		stray, err := tx.Categories.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, c := range stray {
			categoryIDs = appendMissing(categoryIDs, c.ID)
		}
		for _, id := range categoryIDs {
			n, err := deleteCategory(ctx, tx, id)
			if err != nil {
				return err
			}
			categories++
			tasks += n
		}

		taskIDs, err := tx.Links.ProjectTaskIDs(ctx, projectID)
		if err != nil {
			return err
		}
		direct, err := tx.Tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
		if err != nil {
			return err
		}
		for _, t := range direct {
			taskIDs = appendMissing(taskIDs, t.ID)
		}
		n, err := tx.Tasks.DeleteByIDs(ctx, taskIDs)
		if err != nil {
			return err
		}
		tasks += n
		if err := tx.Links.ClearProjectTasks(ctx, projectID); err != nil {
			return err
		}

		return tx.Projects.Delete(ctx, projectID)
	})
	if err != nil {
		return err
	}
	m.log.WithFields(logrus.Fields{
		"project_id": projectID,
		"categories": categories,
		"tasks":      tasks,
	}).Info("project deleted")
	return nil
}

func deleteCategory(ctx context.Context, tx *repository.Store, categoryID string) (int64, error) {
	category, err := tx.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return 0, err
	}

	taskIDs, err := tx.Links.CategoryTaskIDs(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	listed, err := tx.Tasks.List(ctx, repository.TaskFilter{CategoryID: categoryID})
	if err != nil {
		return 0, err
	}
	for _, t := range listed {
		taskIDs = appendMissing(taskIDs, t.ID)
	}

	removed, err := tx.Tasks.DeleteByIDs(ctx, taskIDs)
	if err != nil {
		return 0, err
	}
	if err := tx.Links.ClearCategoryTasks(ctx, categoryID); err != nil {
		return 0, err
	}
	if err := tx.Links.RemoveProjectCategory(ctx, category.ProjectID, categoryID); err != nil {
		return 0, err
	}
	if err := tx.Categories.Delete(ctx, categoryID); err != nil {
		return 0, err
	}
	return removed, nil
}

// checkParent verifies the parent exists and that its project belongs to
// ownerID.
func checkParent(ctx context.Context, tx *repository.Store, parent model.ParentRef, ownerID string) error {
	var projectID string
	switch parent.Kind() {
	case model.ParentNone:
		return nil
	case model.ParentProject:
		projectID = parent.ID()
	case model.ParentCategory:
		category, err := tx.Categories.GetByID(ctx, parent.ID())
		if err != nil {
			return err
		}
		projectID = category.ProjectID
	}

	project, err := tx.Projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != ownerID {
		return apperr.New(apperr.KindForbidden, "task owner does not own the target project")
	}
	return nil
}

func attach(ctx context.Context, tx *repository.Store, parent model.ParentRef, taskID string) error {
	switch parent.Kind() {
	case model.ParentProject:
		return tx.Links.AddProjectTask(ctx, parent.ID(), taskID)
	case model.ParentCategory:
		return tx.Links.AddCategoryTask(ctx, parent.ID(), taskID)
	default:
		return nil
	}
}

// detach removes taskID from every child list that holds it.
func detach(ctx context.Context, tx *repository.Store, taskID string) error {
	projectIDs, categoryIDs, err := tx.Links.TaskBacklinks(ctx, taskID)
	if err != nil {
		return err
	}
	for _, id := range projectIDs {
		if err := tx.Links.RemoveProjectTask(ctx, id, taskID); err != nil {
			return err
		}
	}
	for _, id := range categoryIDs {
		if err := tx.Links.RemoveCategoryTask(ctx, id, taskID); err != nil {
			return err
		}
	}
	return nil
}

func appendMissing(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
