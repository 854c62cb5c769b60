package handlers

import (
	"context"

	"todotrek/internal/auth"
	"todotrek/internal/model"
	"todotrek/internal/service"
)

// AuthService is the account surface used by Auth and RequireToken.
type AuthService interface {
	SignUp(ctx context.Context, input auth.SignUpInput) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	RegisterGoogle(ctx context.Context, input auth.GoogleInput) (*auth.Session, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	CurrentUser(ctx context.Context, userID string) (*model.UserSummary, error)
	LinkTelegram(ctx context.Context, userID string, chatID int64) error
	Authenticate(ctx context.Context, token string) (string, error)
}

type ProjectService interface {
	Create(ctx context.Context, actorID string, input service.ProjectInput) (*service.ProjectView, error)
	ListByOwner(ctx context.Context, ownerID, sortBy string) ([]service.ProjectView, error)
	Get(ctx context.Context, id, sortBy string) (*service.ProjectView, error)
	Update(ctx context.Context, actorID, id string, patch service.ProjectPatch) (*service.ProjectView, error)
	Delete(ctx context.Context, actorID, id string) error
}

type CategoryService interface {
	Create(ctx context.Context, actorID, projectID, name string) (*service.CategoryView, error)
	ListByProject(ctx context.Context, projectID, sortBy string) ([]service.CategoryView, error)
	Get(ctx context.Context, id, sortBy string) (*service.CategoryView, error)
	Update(ctx context.Context, actorID, id string, patch service.CategoryPatch) (*service.CategoryView, error)
	Delete(ctx context.Context, actorID, id string) error
}

type TaskService interface {
	Create(ctx context.Context, actorID string, input service.TaskInput) (*service.TaskView, error)
	List(ctx context.Context, actorID string, filter service.TaskListFilter, sortBy string) ([]service.TaskView, error)
	Get(ctx context.Context, id string) (*service.TaskView, error)
	Update(ctx context.Context, actorID, id string, patch service.TaskPatch) (*service.TaskView, error)
	SetCompletion(ctx context.Context, actorID, id string, completed bool) (*service.TaskView, error)
	Delete(ctx context.Context, actorID, id string) error
}

type message struct {
	Message string `json:"message"`
}
