package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskpilot/client/api/transport"
	"github.com/taskpilot/client/domain"
	"github.com/taskpilot/client/pkg/logger"
)

// Client wraps every remote operation as a single fallible call. There is no
// retry and no caching; a request without a configured timeout waits for as
// long as the server does.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Config carries the gateway settings.
type Config struct {
	BaseURL string
	// Timeout of zero means no deadline is applied.
	Timeout time.Duration
}

// New builds a gateway client against the given API base URL.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &fasthttp.Client{},
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Signup registers a new account and returns the created profile. A session
// is not established; the caller must log in separately.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	body := transport.SignupRequest{Name: name, Email: email, Password: password}

	var out transport.SignupResponse
	if err := c.call(ctx, fasthttp.MethodPost, "/api/auth/signup", "", body, &out); err != nil {
		return nil, c.fail("failed to sign up", err)
	}
	return &domain.User{ID: out.ID, Email: out.Email, Name: out.Name, Role: out.Role}, nil
}

// Login exchanges credentials for a bearer token and the user profile. The
// server omits the email from its response, so the submitted one is echoed
// back into the profile.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	body := transport.LoginRequest{Email: email, Password: password}

	var out transport.LoginResponse
	if err := c.call(ctx, fasthttp.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, "", c.fail("failed to log in", err)
	}
	user := &domain.User{ID: out.UserID, Email: email, Name: out.Name, Role: out.Role}
	return user, out.Token, nil
}

// FetchTasks returns the server's current task set in server order.
func (c *Client) FetchTasks(ctx context.Context, token string) ([]domain.Task, error) {
	var out transport.TaskListResponse
	if err := c.call(ctx, fasthttp.MethodGet, "/api/tasks", token, nil, &out); err != nil {
		return nil, c.fail("failed to fetch tasks", err)
	}
	tasks := make([]domain.Task, 0, len(out.Tasks))
	for _, payload := range out.Tasks {
		tasks = append(tasks, payload.ToDomain())
	}
	return tasks, nil
}

// CreateTask submits a draft and returns the canonical task the server built
// from it.
func (c *Client) CreateTask(ctx context.Context, draft domain.TaskDraft, token string) (*domain.Task, error) {
	body := transport.TaskCreateRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    string(draft.Priority),
	}
	if draft.DueDate != nil {
		body.DueDate = transport.FormatDate(*draft.DueDate)
	}

	var out transport.TaskResponse
	if err := c.call(ctx, fasthttp.MethodPost, "/api/tasks", token, body, &out); err != nil {
		return nil, c.fail("failed to create task", err)
	}
	task := out.Task.ToDomain()
	return &task, nil
}

// UpdateTask sends a full replacement of the task's fields and returns the
// server's resulting task.
func (c *Client) UpdateTask(ctx context.Context, id string, draft domain.TaskDraft, token string) (*domain.Task, error) {
	body := transport.TaskUpdateRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    string(draft.Priority),
		Status:      string(draft.Status),
	}
	if draft.DueDate != nil {
		body.DueDate = transport.FormatDate(*draft.DueDate)
	}

	var out transport.TaskResponse
	if err := c.call(ctx, fasthttp.MethodPut, "/api/tasks/"+id, token, body, &out); err != nil {
		return nil, c.fail("failed to update task", err)
	}
	task := out.Task.ToDomain()
	return &task, nil
}

// DeleteTask removes a task by id. The response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id string, token string) error {
	if err := c.call(ctx, fasthttp.MethodDelete, "/api/tasks/"+id, token, nil, nil); err != nil {
		return c.fail("failed to delete task", err)
	}
	return nil
}

// call performs one HTTP round trip. ctx deadlines are honoured when set;
// otherwise the configured timeout (possibly none) applies.
func (c *Client) call(ctx context.Context, method, path, token string, body, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	reqID := logger.RequestIDFrom(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	var err error
	if deadline, ok := deadlineOf(ctx); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else if c.timeout > 0 {
		err = c.http.DoTimeout(req, resp, c.timeout)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		return err
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return fmt.Errorf("%s %s: status %d", method, path, status)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}

// fail logs the underlying cause and returns the generic operation-scoped
// error: server detail never reaches callers.
func (c *Client) fail(message string, err error) error {
	c.logger.Warn("gateway call failed", zap.String("op", message), zap.Error(err))
	return domain.NewError(domain.ErrCodeUnavailable, message)
}

func deadlineOf(ctx context.Context) (time.Time, bool) {
	if ctx == nil {
		return time.Time{}, false
	}
	return ctx.Deadline()
}
