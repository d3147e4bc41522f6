package conversation

import (
	"time"

	"voice-todoist-be/pkg/match"
)

// DefaultTimeoutSeconds bounds a session's inactivity window unless the
// caller asks for something else.
const DefaultTimeoutSeconds = 300

// Session is one in-progress multi-turn task-creation dialogue, keyed by
// conversation id. It lives in the process-wide session store and is
// evicted on terminal transition or inactivity timeout.
type Session struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	// RawInput is the original utterance, immutable once captured.
	RawInput string `json:"raw_input"`

	Actions []string `json:"actions"`
	Title   string   `json:"title,omitempty"`

	// ProjectCandidates is refreshed on every project-resolution attempt.
	ProjectCandidates []match.Candidate `json:"project_candidates,omitempty"`
	SelectedProject   *match.Project    `json:"selected_project,omitempty"`

	// PendingProjectName holds the name awaiting a creation confirm.
	PendingProjectName string `json:"pending_project_name,omitempty"`

	PendingDateExpression string `json:"pending_date_expression,omitempty"`
	ResolvedDueDate       string `json:"resolved_due_date,omitempty"` // ISO calendar date
	NoDueDate             bool   `json:"no_due_date,omitempty"`

	Priority int                    `json:"priority"`
	Labels   []string               `json:"labels,omitempty"`
	Context  map[string]interface{} `json:"context,omitempty"`

	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	TimeoutSeconds int       `json:"timeout_seconds"`

	// Retries counts consecutive failed attempts at the current step.
	Retries int `json:"retries,omitempty"`
}

// Expired reports whether the session passed its inactivity window at the
// given instant. The store's janitor usually evicts first; this is the
// on-access check.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.LastActivityAt) > time.Duration(s.TimeoutSeconds)*time.Second
}

// Touch refreshes the inactivity window.
func (s *Session) Touch(now time.Time) {
	s.LastActivityAt = now
}

// DueDateForExport returns the ISO due date, or "" when the user chose no
// due date or none was resolved.
func (s *Session) DueDateForExport() string {
	if s.NoDueDate {
		return ""
	}
	return s.ResolvedDueDate
}

// Snapshot is the read-only public view served by the status operation.
type Snapshot struct {
	ConversationID  string    `json:"conversation_id"`
	State           State     `json:"state"`
	RawInput        string    `json:"raw_input"`
	ActionCount     int       `json:"action_count"`
	CandidateCount  int       `json:"candidate_count"`
	SelectedProject string    `json:"selected_project,omitempty"`
	ResolvedDueDate string    `json:"resolved_due_date,omitempty"`
	Priority        int       `json:"priority"`
	Labels          []string  `json:"labels,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ConversationID:  s.ID,
		State:           s.State,
		RawInput:        s.RawInput,
		ActionCount:     len(s.Actions),
		CandidateCount:  len(s.ProjectCandidates),
		ResolvedDueDate: s.DueDateForExport(),
		Priority:        s.Priority,
		Labels:          s.Labels,
		CreatedAt:       s.CreatedAt,
		ExpiresAt:       s.LastActivityAt.Add(time.Duration(s.TimeoutSeconds) * time.Second),
	}
	if s.SelectedProject != nil {
		snap.SelectedProject = s.SelectedProject.Name
	}
	return snap
}
