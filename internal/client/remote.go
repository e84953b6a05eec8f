package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/domain"
)

// Remote is the task collection on the server. Calls are made once; nothing
// is retried.
type Remote interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	// Update returns only the fields the server echoed back.
	Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.TaskPatch, error)
	Delete(ctx context.Context, id string) error
}

// Default resource paths.
const (
	DefaultListPath  = "/api/tasks"
	DefaultTasksPath = "/tasks"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// HTTPRemote talks to the REST API over HTTP.
type HTTPRemote struct {
	baseURL    string
	listPath   string
	tasksPath  string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Remote = (*HTTPRemote)(nil)

// RemoteOption configures an HTTPRemote.
type RemoteOption func(*HTTPRemote)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *HTTPRemote) { r.httpClient = c }
}

// WithPaths overrides the list and task resource paths.
func WithPaths(listPath, tasksPath string) RemoteOption {
	return func(r *HTTPRemote) {
		if listPath != "" {
			r.listPath = listPath
		}
		if tasksPath != "" {
			r.tasksPath = tasksPath
		}
	}
}

// WithToken sends token as a bearer credential on every task request. An
// empty token sends no Authorization header.
func WithToken(token string) RemoteOption {
	return func(r *HTTPRemote) { r.token = strings.TrimSpace(token) }
}

// WithRemoteLogger sets the logger used for per-request debug lines.
func WithRemoteLogger(l *slog.Logger) RemoteOption {
	return func(r *HTTPRemote) { r.logger = l }
}

// NewHTTPRemote creates a client for the API rooted at baseURL.
func NewHTTPRemote(baseURL string, opts ...RemoteOption) *HTTPRemote {
	r := &HTTPRemote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		listPath:   DefaultListPath,
		tasksPath:  DefaultTasksPath,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "remote_client")
	return r
}

// NewHTTPRemoteFromConfig builds an HTTPRemote from the client section of the
// configuration.
func NewHTTPRemoteFromConfig(cfg config.ClientConfig, logger *slog.Logger) *HTTPRemote {
	opts := []RemoteOption{
		WithPaths(cfg.ListPath, cfg.TasksPath),
		WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}),
		WithToken(cfg.Token),
	}
	if logger != nil {
		opts = append(opts, WithRemoteLogger(logger))
	}
	return NewHTTPRemote(cfg.BaseURL, opts...)
}

// List fetches every task in server order.
func (r *HTTPRemote) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.do(ctx, http.MethodGet, r.listPath, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Create posts a new task. Any ID on the draft is dropped; the server assigns it.
func (r *HTTPRemote) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	task.ID = ""
	var created domain.Task
	if err := r.do(ctx, http.MethodPost, r.tasksPath, task, &created); err != nil {
		return domain.Task{}, err
	}
	return created, nil
}

// Update sends a partial task to PUT {tasks}/{id}. An empty id fails with
// domain.ErrEmptyTaskID.
func (r *HTTPRemote) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.TaskPatch, error) {
	if id == "" {
		return domain.TaskPatch{}, domain.ErrEmptyTaskID
	}
	patch.ID = nil
	var updated domain.TaskPatch
	if err := r.do(ctx, http.MethodPut, r.taskPath(id), patch, &updated); err != nil {
		return domain.TaskPatch{}, err
	}
	return updated, nil
}

// Delete removes a task. Any 2xx counts as success and the body is ignored.
// An empty id fails with domain.ErrEmptyTaskID before any request is sent,
// since it would address the collection rather than a task.
func (r *HTTPRemote) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrEmptyTaskID
	}
	return r.do(ctx, http.MethodDelete, r.taskPath(id), nil, nil)
}

func (r *HTTPRemote) taskPath(id string) string {
	return r.tasksPath + "/" + url.PathEscape(id)
}

// do sends one request. body is JSON-encoded when non-nil and a 2xx response
// is decoded into out when out is non-nil and the body is not empty.
func (r *HTTPRemote) do(ctx context.Context, method, path string, body, out any) error {
	return doJSON(ctx, r.httpClient, r.logger, method, r.baseURL+path, r.token, body, out)
}

func doJSON(
	ctx context.Context,
	hc *http.Client,
	logger *slog.Logger,
	method, target, token string,
	body, out any,
) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		logger.DebugContext(ctx, "request failed",
			"method", method,
			"url", target,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return &NetworkError{Method: method, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	logger.DebugContext(ctx, "request completed",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, URL: target, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, target, err)
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body. The API
// uses "error" for task routes, "message" for login and "msg" for register.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	switch {
	case body.Error != "":
		return body.Error
	case body.Message != "":
		return body.Message
	default:
		return body.Msg
	}
}
