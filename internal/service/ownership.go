package service

import (
	"context"

	"todotrek/internal/apperr"
	"todotrek/internal/repository"
)

type TargetKind int

const (
	TargetProject TargetKind = iota + 1
	TargetCategory
	TargetTask
)

func (k TargetKind) String() string {
	switch k {
	case TargetProject:
		return "project"
	case TargetCategory:
		return "category"
	case TargetTask:
		return "task"
	default:
		return "resource"
	}
}

// Target names the entity a request wants to act on.
type Target struct {
	Kind TargetKind
	ID   string
}

func ProjectTarget(id string) Target  { return Target{Kind: TargetProject, ID: id} }
func CategoryTarget(id string) Target { return Target{Kind: TargetCategory, ID: id} }
func TaskTarget(id string) Target     { return Target{Kind: TargetTask, ID: id} }

// OwnershipResolver decides whether a user may mutate an entity. Projects and
// tasks are owned directly; categories are owned through their project.
type OwnershipResolver struct {
	store *repository.Store
}

func NewOwnershipResolver(store *repository.Store) *OwnershipResolver {
	return &OwnershipResolver{store: store}
}

// Authorize returns nil when actorID owns target. A target without an ID
// passes through unchecked. A category whose project is gone is NOT_FOUND,
// not FORBIDDEN.
func (r *OwnershipResolver) Authorize(ctx context.Context, actorID string, target Target) error {
	if target.ID == "" {
		return nil
	}
	owner, err := r.EffectiveOwner(ctx, target)
	if err != nil {
		return err
	}
	if owner != actorID {
		return apperr.New(apperr.KindForbidden, "User not authorized to perform this action")
	}
	return nil
}

// EffectiveOwner resolves the user accountable for target.
func (r *OwnershipResolver) EffectiveOwner(ctx context.Context, target Target) (string, error) {
	id, err := ParseID(target.Kind.String(), target.ID)
	if err != nil {
		return "", err
	}

	switch target.Kind {
	case TargetProject:
		project, err := r.store.Projects.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return project.OwnerID, nil
	case TargetTask:
		task, err := r.store.Tasks.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return task.OwnerID, nil
	case TargetCategory:
		category, err := r.store.Categories.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		project, err := r.store.Projects.GetByID(ctx, category.ProjectID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return "", apperr.Wrap(apperr.KindNotFound, "category project not found", err)
			}
			return "", err
		}
		return project.OwnerID, nil
	default:
		return "", apperr.New(apperr.KindInvalidArgument, "unknown resource kind")
	}
}
