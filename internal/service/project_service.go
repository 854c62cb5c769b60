package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"todotrek/internal/apperr"
	"todotrek/internal/model"
)

type ProjectInput struct {
	Name        string
	Color       string
	IsFavourite bool
}

// ProjectPatch updates project attributes. Child lists are not writable here.
type ProjectPatch struct {
	Name        *string
	Color       *string
	IsFavourite *bool
}

// ProjectService wraps project-related business logic.
type ProjectService struct {
	deps Deps
	deadlines
}

func NewProjectService(deps Deps) *ProjectService {
	return &ProjectService{deps: deps, deadlines: deadlines{timeout: deps.Timeout}}
}

func (s *ProjectService) Create(ctx context.Context, actorID string, input ProjectInput) (*ProjectView, error) {
	name := strings.TrimSpace(input.Name)
	color := strings.TrimSpace(input.Color)
	if name == "" || color == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "project name and color are required")
	}

	project := model.Project{
		Name:        name,
		Color:       color,
		IsFavourite: input.IsFavourite,
		OwnerID:     actorID,
	}
	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Store.Projects.Create(wctx, &project); err != nil {
		return nil, err
	}
	view, err := s.deps.Views.Project(wctx, project.ID, SortDefault)
	if err != nil {
		s.deps.Log.WithError(err).WithField("project_id", project.ID).Warn("created project not hydrated")
		return projectViewOf(&project), nil
	}
	return view, nil
}

// ListByOwner returns the hydrated projects of ownerID.
func (s *ProjectService) ListByOwner(ctx context.Context, ownerID, sortBy string) ([]ProjectView, error) {
	key, err := ParseSortKey(sortBy)
	if err != nil {
		return nil, err
	}
	if ownerID, err = ParseID("user", ownerID); err != nil {
		return nil, err
	}
	rctx, cancel := s.read(ctx)
	defer cancel()
	return s.deps.Views.ProjectsByOwner(rctx, ownerID, key)
}

func (s *ProjectService) Get(ctx context.Context, id, sortBy string) (*ProjectView, error) {
	key, err := ParseSortKey(sortBy)
	if err != nil {
		return nil, err
	}
	if id, err = ParseID("project", id); err != nil {
		return nil, err
	}
	rctx, cancel := s.read(ctx)
	defer cancel()
	return s.deps.Views.Project(rctx, id, key)
}

func (s *ProjectService) Update(ctx context.Context, actorID, id string, patch ProjectPatch) (*ProjectView, error) {
	id, err := ParseID("project", id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.New(apperr.KindInvalidArgument, "project name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.Color != nil {
		color := strings.TrimSpace(*patch.Color)
		if color == "" {
			return nil, apperr.New(apperr.KindInvalidArgument, "project color cannot be empty")
		}
		updates["color"] = color
	}
	if patch.IsFavourite != nil {
		updates["is_favourite"] = *patch.IsFavourite
	}

	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Owners.Authorize(wctx, actorID, ProjectTarget(id)); err != nil {
		return nil, err
	}
	if err := s.deps.Store.Projects.Update(wctx, id, updates); err != nil {
		return nil, err
	}
	return s.deps.Views.Project(wctx, id, SortDefault)
}

// Delete removes the project and everything under it. Deleting a project that
// is already gone succeeds.
func (s *ProjectService) Delete(ctx context.Context, actorID, id string) error {
	id, err := ParseID("project", id)
	if err != nil {
		return err
	}
	wctx, cancel := s.write(ctx)
	defer cancel()
	if err := s.deps.Owners.Authorize(wctx, actorID, ProjectTarget(id)); err != nil {
		return ignoreNotFound(err)
	}
	return ignoreNotFound(s.deps.Graph.DeleteProject(wctx, id))
}

func ignoreNotFound(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}
