package service

import (
	"context"
	"strings"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
)

// CategoryPatch renames a category. ProjectID is accepted only when it names
// the category's current project.
type CategoryPatch struct {
	Name      *string
	ProjectID *string
}

// CategoryService provides helpers around categories.
type CategoryService struct {
	deps Deps
	deadlines
}

func NewCategoryService(deps Deps) *CategoryService {
	return &CategoryService{deps: deps, deadlines: deadlines{timeout: deps.Timeout}}
}

func (s *CategoryService) Create(ctx context.Context, actorID, projectID, name string) (*CategoryView, error) {
	projectID, err := ParseID("project", projectID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "category name is required")
	}

	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Owners.Authorize(wctx, actorID, ProjectTarget(projectID)); err != nil {
		return nil, err
	}
	category := model.Category{ProjectID: projectID, Name: name}
	if err := s.deps.Graph.CreateCategory(wctx, &category); err != nil {
		return nil, err
	}
	view, err := s.deps.Views.Category(wctx, category.ID, SortDefault)
	if err != nil {
		s.deps.Log.WithError(err).WithField("category_id", category.ID).Warn("created category not hydrated")
		return categoryViewOf(&category), nil
	}
	return view, nil
}

func (s *CategoryService) ListByProject(ctx context.Context, projectID, sortBy string) ([]CategoryView, error) {
	key, err := ParseSortKey(sortBy)
	if err != nil {
		return nil, err
	}
	if projectID, err = ParseID("project", projectID); err != nil {
		return nil, err
	}
	rctx, cancel := s.read(ctx)
	defer cancel()
	return s.deps.Views.CategoriesByProject(rctx, projectID, key)
}

func (s *CategoryService) Get(ctx context.Context, id, sortBy string) (*CategoryView, error) {
	key, err := ParseSortKey(sortBy)
	if err != nil {
		return nil, err
	}
	if id, err = ParseID("category", id); err != nil {
		return nil, err
	}
	rctx, cancel := s.read(ctx)
	defer cancel()
	return s.deps.Views.Category(rctx, id, key)
}

func (s *CategoryService) Update(ctx context.Context, actorID, id string, patch CategoryPatch) (*CategoryView, error) {
	id, err := ParseID("category", id)
	if err != nil {
		return nil, err
	}
	var name string
	if patch.Name != nil {
		if name = strings.TrimSpace(*patch.Name); name == "" {
			return nil, apperr.New(apperr.KindInvalidArgument, "category name cannot be empty")
		}
	}
	var projectID string
	if patch.ProjectID != nil {
		if projectID, err = ParseID("project", *patch.ProjectID); err != nil {
			return nil, err
		}
	}

	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Owners.Authorize(wctx, actorID, CategoryTarget(id)); err != nil {
		return nil, err
	}
	if projectID != "" {
		current, err := s.deps.Store.Categories.GetByID(wctx, id)
		if err != nil {
			return nil, err
		}
		if current.ProjectID != projectID {
			return nil, apperr.New(apperr.KindInvalidArgument, "category cannot be moved to another project")
		}
	}
	if name != "" {
		if err := s.deps.Store.Categories.Rename(wctx, id, name); err != nil {
			return nil, err
		}
	}
	return s.deps.Views.Category(wctx, id, SortDefault)
}

// Delete removes the category and its tasks. Deleting a category that is
// already gone succeeds.
func (s *CategoryService) Delete(ctx context.Context, actorID, id string) error {
	id, err := ParseID("category", id)
	if err != nil {
		return err
	}
	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Owners.Authorize(wctx, actorID, CategoryTarget(id)); err != nil {
		return ignoreNotFound(err)
	}
	return ignoreNotFound(s.deps.Graph.DeleteCategory(wctx, id))
}
