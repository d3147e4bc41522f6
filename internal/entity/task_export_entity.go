package entity

import (
	"time"

	"github.com/google/uuid"
)

// TaskExport records one task creation batch pushed to Todoist, whether it
// came from a conversation or the direct export endpoint.
type TaskExport struct {
	Id             uuid.UUID
	ConversationId string // empty for direct exports
	ProjectId      string
	ProjectName    string
	MainTask       string
	MainTaskId     string
	Subtasks       []string
	DueDate        string
	Priority       int
	Labels         []string
	CreatedCount   int
	FailedCount    int
	CreatedAt      time.Time
}
