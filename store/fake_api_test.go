package store_test

import (
	"context"
	"sync"

	"github.com/taskpilot/client/domain"
)

// fakeTaskAPI scripts the remote task endpoints per call.
type fakeTaskAPI struct {
	mu sync.Mutex

	fetchResult  []domain.Task
	fetchErr     error
	createResult *domain.Task
	createErr    error
	updateResult *domain.Task
	updateErr    error
	deleteErr    error

	deleted []string
	calls   int
}

func (f *fakeTaskAPI) FetchTasks(ctx context.Context, token string) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]domain.Task(nil), f.fetchResult...), nil
}

func (f *fakeTaskAPI) CreateTask(ctx context.Context, draft domain.TaskDraft, token string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeTaskAPI) UpdateTask(ctx context.Context, id string, draft domain.TaskDraft, token string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateResult != nil {
		return f.updateResult, nil
	}
	echoed := domain.Task{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Priority:    draft.Priority,
		Status:      draft.Status,
	}
	return &echoed, nil
}

func (f *fakeTaskAPI) DeleteTask(ctx context.Context, id string, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeAuthAPI scripts the remote auth endpoints.
type fakeAuthAPI struct {
	signupResult *domain.User
	signupErr    error
	loginUser    *domain.User
	loginToken   string
	loginErr     error
}

func (f *fakeAuthAPI) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return f.signupResult, nil
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.loginUser, f.loginToken, nil
}
