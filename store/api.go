package store

import (
	"context"

	"github.com/taskpilot/client/domain"
)

// AuthAPI abstracts the remote auth endpoints so stores stay transport-agnostic.
type AuthAPI interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// TaskAPI abstracts the remote task endpoints.
type TaskAPI interface {
	FetchTasks(ctx context.Context, token string) ([]domain.Task, error)
	CreateTask(ctx context.Context, draft domain.TaskDraft, token string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, draft domain.TaskDraft, token string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string, token string) error
}
