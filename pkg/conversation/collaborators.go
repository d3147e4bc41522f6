package conversation

import (
	"context"

	"voice-todoist-be/pkg/assemble"
	"voice-todoist-be/pkg/match"
)

// SessionStore is the process-wide session table. Implementations must be
// safe for concurrent use; the engine serializes read-modify-write per
// conversation id on top of it.
type SessionStore interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
	Active() []*Session
}

// ProjectSource supplies the current project snapshot. The snapshot is
// treated as immutable for the duration of one matching call.
type ProjectSource interface {
	Snapshot(ctx context.Context) ([]match.Project, error)
}

// ProjectCreator performs the real project-creation call.
type ProjectCreator interface {
	CreateProject(ctx context.Context, name string) (match.Project, error)
}

// TaskSink executes an assembled creation request against the real API.
type TaskSink interface {
	ExportTasks(ctx context.Context, req assemble.Request) (assemble.Receipt, error)
}
