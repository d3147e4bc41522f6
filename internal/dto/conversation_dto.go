package dto

import (
	"time"

	"voice-todoist-be/pkg/assemble"
	"voice-todoist-be/pkg/conversation"
	"voice-todoist-be/pkg/match"
)

type StartConversationRequest struct {
	Text           string                 `json:"text" validate:"required"`
	ConversationId string                 `json:"conversation_id,omitempty"`
	TimeoutSeconds int                    `json:"timeout_seconds,omitempty" validate:"omitempty,min=10,max=3600"`
	Priority       int                    `json:"priority,omitempty" validate:"omitempty,min=1,max=4"`
	Labels         []string               `json:"labels,omitempty"`
	Context        map[string]interface{} `json:"context,omitempty"`
}

type ContinueConversationRequest struct {
	Text string `json:"text" validate:"required"`
}

// TurnResponse mirrors one engine turn for the API.
type TurnResponse struct {
	ConversationId    string            `json:"conversation_id"`
	State             string            `json:"state"`
	Message           string            `json:"message"`
	Actions           []string          `json:"actions,omitempty"`
	Candidates        []CandidateDTO    `json:"candidates,omitempty"`
	AvailableProjects []string          `json:"available_projects,omitempty"`
	Summary           *SummaryDTO       `json:"summary,omitempty"`
	Receipt           *assemble.Receipt `json:"receipt,omitempty"`
	Done              bool              `json:"done"`
}

type CandidateDTO struct {
	ProjectId string  `json:"project_id"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

type SummaryDTO struct {
	Project     string   `json:"project"`
	DueDate     string   `json:"due_date"`
	Priority    int      `json:"priority"`
	Labels      []string `json:"labels,omitempty"`
	Actions     []string `json:"actions"`
	ActionCount int      `json:"action_count"`
}

type ConversationStatusResponse struct {
	ConversationId string    `json:"conversation_id"`
	State          string    `json:"state"`
	RawInput       string    `json:"raw_input"`
	ActionCount    int       `json:"action_count"`
	CandidateCount int       `json:"candidate_count"`
	Project        string    `json:"project,omitempty"`
	DueDate        string    `json:"due_date,omitempty"`
	Priority       int       `json:"priority"`
	Labels         []string  `json:"labels,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Mapping helpers

func TurnToResponse(turn *conversation.Turn) *TurnResponse {
	if turn == nil {
		return nil
	}

	res := &TurnResponse{
		ConversationId:    turn.ConversationID,
		State:             string(turn.State),
		Message:           turn.Message,
		Actions:           turn.Actions,
		AvailableProjects: turn.AvailableProjects,
		Receipt:           turn.Receipt,
		Done:              turn.Done,
	}
	for _, c := range turn.Candidates {
		res.Candidates = append(res.Candidates, CandidateToDTO(c))
	}
	if turn.Summary != nil {
		due := turn.Summary.DueDate
		if due == "" {
			due = "No due date"
		}
		res.Summary = &SummaryDTO{
			Project:     turn.Summary.Project,
			DueDate:     due,
			Priority:    turn.Summary.Priority,
			Labels:      turn.Summary.Labels,
			Actions:     turn.Summary.Actions,
			ActionCount: turn.Summary.ActionCount,
		}
	}
	return res
}

func CandidateToDTO(c match.Candidate) CandidateDTO {
	return CandidateDTO{
		ProjectId: c.Project.ID,
		Name:      c.Project.Name,
		Score:     c.Score,
		Reason:    c.Reason,
	}
}

func SnapshotToResponse(snap conversation.Snapshot) ConversationStatusResponse {
	return ConversationStatusResponse{
		ConversationId: snap.ConversationID,
		State:          string(snap.State),
		RawInput:       snap.RawInput,
		ActionCount:    snap.ActionCount,
		CandidateCount: snap.CandidateCount,
		Project:        snap.SelectedProject,
		DueDate:        snap.ResolvedDueDate,
		Priority:       snap.Priority,
		Labels:         snap.Labels,
		CreatedAt:      snap.CreatedAt,
		ExpiresAt:      snap.ExpiresAt,
	}
}
