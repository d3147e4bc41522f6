package dto

import (
	"time"

	"voice-todoist-be/internal/entity"
	"voice-todoist-be/pkg/assemble"
)

type ExportTasksRequest struct {
	MainTask  string   `json:"main_task" validate:"required"`
	Subtasks  []string `json:"subtasks,omitempty" validate:"omitempty,dive,required"`
	ProjectId string   `json:"project_id" validate:"required"`
	DueDate   string   `json:"due_date,omitempty"`
	Priority  int      `json:"priority,omitempty" validate:"omitempty,min=1,max=4"`
	Labels    []string `json:"labels,omitempty"`
}

type ParseInputRequest struct {
	Text string `json:"text" validate:"required"`
}

// ParseInputResponse previews what a conversation would extract from an
// utterance without opening one.
type ParseInputResponse struct {
	Actions     []string `json:"actions"`
	Title       string   `json:"title,omitempty"`
	ProjectHint string   `json:"project_hint,omitempty"`
	DateHint    string   `json:"date_hint,omitempty"`
}

type ValidateDateRequest struct {
	Expression string `json:"expression" validate:"required"`
}

type ValidateDateResponse struct {
	Expression string `json:"expression"`
	Resolved   bool   `json:"resolved"`
	Date       string `json:"date,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

type HistoryQuery struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	State  string `query:"state"`
}

type ConversationRecordResponse struct {
	ConversationId string    `json:"conversation_id"`
	State          string    `json:"state"`
	RawInput       string    `json:"raw_input"`
	Actions        []string  `json:"actions,omitempty"`
	Title          string    `json:"title,omitempty"`
	ProjectName    string    `json:"project_name,omitempty"`
	DueDate        string    `json:"due_date,omitempty"`
	Priority       int       `json:"priority"`
	Labels         []string  `json:"labels,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

type TaskExportResponse struct {
	ConversationId string    `json:"conversation_id,omitempty"`
	ProjectId      string    `json:"project_id"`
	ProjectName    string    `json:"project_name,omitempty"`
	MainTask       string    `json:"main_task"`
	MainTaskId     string    `json:"main_task_id,omitempty"`
	Subtasks       []string  `json:"subtasks,omitempty"`
	DueDate        string    `json:"due_date,omitempty"`
	Priority       int       `json:"priority"`
	CreatedCount   int       `json:"created_count"`
	FailedCount    int       `json:"failed_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationArchiveMessage is the watermill payload carrying a finished
// conversation to the persistence consumer. Sessions are evicted on
// completion, so this message holds everything worth archiving.
type ConversationArchiveMessage struct {
	ConversationId string            `json:"conversation_id"`
	State          string            `json:"state"`
	RawInput       string            `json:"raw_input"`
	Actions        []string          `json:"actions"`
	Title          string            `json:"title,omitempty"`
	ProjectId      string            `json:"project_id,omitempty"`
	ProjectName    string            `json:"project_name,omitempty"`
	DueDate        string            `json:"due_date,omitempty"`
	Priority       int               `json:"priority"`
	Labels         []string          `json:"labels,omitempty"`
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
	Receipt        *assemble.Receipt `json:"receipt,omitempty"`
	MainTask       string            `json:"main_task,omitempty"`
	Subtasks       []string          `json:"subtasks,omitempty"`
}

func RecordToResponse(r *entity.ConversationRecord) *ConversationRecordResponse {
	if r == nil {
		return nil
	}
	return &ConversationRecordResponse{
		ConversationId: r.ConversationId,
		State:          r.State,
		RawInput:       r.RawInput,
		Actions:        r.Actions,
		Title:          r.Title,
		ProjectName:    r.ProjectName,
		DueDate:        r.DueDate,
		Priority:       r.Priority,
		Labels:         r.Labels,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}

func ExportToResponse(e *entity.TaskExport) *TaskExportResponse {
	if e == nil {
		return nil
	}
	return &TaskExportResponse{
		ConversationId: e.ConversationId,
		ProjectId:      e.ProjectId,
		ProjectName:    e.ProjectName,
		MainTask:       e.MainTask,
		MainTaskId:     e.MainTaskId,
		Subtasks:       e.Subtasks,
		DueDate:        e.DueDate,
		Priority:       e.Priority,
		CreatedCount:   e.CreatedCount,
		FailedCount:    e.FailedCount,
		CreatedAt:      e.CreatedAt,
	}
}
