package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"voice-todoist-be/pkg/match"
)

var (
	ErrUnauthorized = errors.New("todoist: invalid or expired API token")
	ErrUpstream     = errors.New("todoist: request failed")
)

const DefaultBaseURL = "https://api.todoist.com/rest/v2"

type Client struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Wire structs (internal to this package) ---

type projectResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	ParentID   string `json:"parent_id"`
	IsFavorite bool   `json:"is_favorite"`
}

type createProjectRequest struct {
	Name string `json:"name"`
}

type createTaskRequest struct {
	Content   string   `json:"content"`
	ProjectID string   `json:"project_id,omitempty"`
	ParentID  string   `json:"parent_id,omitempty"`
	DueDate   string   `json:"due_date,omitempty"`
	Priority  int      `json:"priority,omitempty"`
	Labels    []string `json:"labels,omitempty"`
}

type taskResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	ProjectID string `json:"project_id"`
}

// Task is one created Todoist task.
type Task struct {
	ID        string
	Content   string
	ProjectID string
}

// TaskInput describes a task to create. Priority uses this module's scale
// (1 highest, 4 lowest); the wire value is converted on send.
type TaskInput struct {
	Content   string
	ProjectID string
	ParentID  string
	DueDate   string
	Priority  int
	Labels    []string
}

// ValidateToken checks the configured token by listing projects.
func (c *Client) ValidateToken(ctx context.Context) error {
	_, err := c.ListProjects(ctx)
	return err
}

// ListProjects fetches all projects visible to the token.
func (c *Client) ListProjects(ctx context.Context) ([]match.Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}

	var wire []projectResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: unmarshal projects: %v", ErrUpstream, err)
	}

	projects := make([]match.Project, len(wire))
	for i, p := range wire {
		projects[i] = match.Project{
			ID:       p.ID,
			Name:     p.Name,
			Color:    p.Color,
			ParentID: p.ParentID,
			Favorite: p.IsFavorite,
		}
	}
	return projects, nil
}

// CreateProject creates a project with the given name.
func (c *Client) CreateProject(ctx context.Context, name string) (match.Project, error) {
	payload, err := json.Marshal(createProjectRequest{Name: name})
	if err != nil {
		return match.Project{}, fmt.Errorf("marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/projects", payload)
	if err != nil {
		return match.Project{}, err
	}

	var wire projectResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return match.Project{}, fmt.Errorf("%w: unmarshal project: %v", ErrUpstream, err)
	}
	return match.Project{
		ID:       wire.ID,
		Name:     wire.Name,
		Color:    wire.Color,
		ParentID: wire.ParentID,
		Favorite: wire.IsFavorite,
	}, nil
}

// CreateTask creates a single task.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (Task, error) {
	payload, err := json.Marshal(createTaskRequest{
		Content:   in.Content,
		ProjectID: in.ProjectID,
		ParentID:  in.ParentID,
		DueDate:   in.DueDate,
		Priority:  wirePriority(in.Priority),
		Labels:    in.Labels,
	})
	if err != nil {
		return Task{}, fmt.Errorf("marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/tasks", payload)
	if err != nil {
		return Task{}, err
	}

	var wire taskResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return Task{}, fmt.Errorf("%w: unmarshal task: %v", ErrUpstream, err)
	}
	return Task{ID: wire.ID, Content: wire.Content, ProjectID: wire.ProjectID}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	return body, nil
}

// wirePriority converts this module's priority (1 highest, 4 lowest) to the
// REST API's inverted scale (4 highest, 1 lowest).
func wirePriority(p int) int {
	if p < 1 || p > 4 {
		p = 4
	}
	return 5 - p
}
