package assemble

import (
	"errors"
	"fmt"
	"time"
)

// Priority runs 1 (highest) to 4 (lowest). Unspecified means lowest.
const (
	PriorityHighest = 1
	PriorityLowest  = 4
	DefaultPriority = PriorityLowest
)

var ErrNoActions = errors.New("nothing to assemble: no actions")
var ErrNoProject = errors.New("nothing to assemble: no project selected")

// Input is the fully resolved conversation outcome the assembler works from.
type Input struct {
	Title     string    `json:"title,omitempty"`
	Actions   []string  `json:"actions"`
	ProjectID string    `json:"project_id"`
	DueDate   string    `json:"due_date,omitempty"` // ISO calendar date, "" for none
	Priority  int       `json:"priority"`
	Labels    []string  `json:"labels,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Request is one task-creation request: a main task plus its subtasks.
// Purely structural; the Todoist client executes it.
type Request struct {
	MainTask  string   `json:"main_task"`
	Subtasks  []string `json:"subtasks,omitempty"`
	ProjectID string   `json:"project_id"`
	DueDate   string   `json:"due_date,omitempty"`
	Priority  int      `json:"priority"`
	Labels    []string `json:"labels,omitempty"`
}

// Failure records one subtask the sink could not create.
type Failure struct {
	Content string `json:"content"`
	Error   string `json:"error"`
}

// Receipt reports what the sink actually created.
type Receipt struct {
	MainTaskID string    `json:"main_task_id"`
	Created    int       `json:"created"`
	Failed     []Failure `json:"failed,omitempty"`
	Total      int       `json:"total"`
}

// Build maps a resolved conversation to a creation request. The main task
// comes from the inferred title, falling back to the first action; every
// remaining action becomes a subtask.
func Build(in Input) (Request, error) {
	if len(in.Actions) == 0 {
		return Request{}, ErrNoActions
	}
	if in.ProjectID == "" {
		return Request{}, ErrNoProject
	}

	main := in.Title
	subtasks := in.Actions
	if main == "" || in.Actions[0] == main {
		// A title inferred from the first action must not reappear as
		// a subtask.
		main = in.Actions[0]
		subtasks = in.Actions[1:]
	}
	if len(subtasks) == 0 {
		subtasks = nil
	}

	if main == "" {
		created := in.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		main = fmt.Sprintf("Voice Tasks - %s", created.Format("2006-01-02"))
	}

	return Request{
		MainTask:  main,
		Subtasks:  subtasks,
		ProjectID: in.ProjectID,
		DueDate:   in.DueDate,
		Priority:  NormalizePriority(in.Priority),
		Labels:    in.Labels,
	}, nil
}

// NormalizePriority clamps into [1,4]; zero means "never specified" and
// maps to the lowest priority.
func NormalizePriority(p int) int {
	if p == 0 {
		return DefaultPriority
	}
	if p < PriorityHighest {
		return PriorityHighest
	}
	if p > PriorityLowest {
		return PriorityLowest
	}
	return p
}
