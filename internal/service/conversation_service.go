package service

import (
	"context"
	"encoding/json"
	"time"

	"voice-todoist-be/internal/dto"
	"voice-todoist-be/internal/pkg/logger"
	"voice-todoist-be/pkg/assemble"
	"voice-todoist-be/pkg/conversation"
	"voice-todoist-be/pkg/events"
)

type IConversationService interface {
	Start(ctx context.Context, req *dto.StartConversationRequest) (*dto.TurnResponse, error)
	Continue(ctx context.Context, id string, req *dto.ContinueConversationRequest) (*dto.TurnResponse, error)
	Status(ctx context.Context, id string) (*dto.ConversationStatusResponse, error)
	Cancel(ctx context.Context, id string) (*dto.TurnResponse, error)
	Active(ctx context.Context) ([]dto.ConversationStatusResponse, error)
	SweepTimedOut(ctx context.Context) int
}

type conversationService struct {
	engine    *conversation.Engine
	publisher IPublisherService
	natsPub   EventPublisher
	sysLogger logger.ILogger
}

func NewConversationService(
	engine *conversation.Engine,
	publisher IPublisherService,
	natsPub EventPublisher,
	sysLogger logger.ILogger,
) IConversationService {
	return &conversationService{
		engine:    engine,
		publisher: publisher,
		natsPub:   natsPub,
		sysLogger: sysLogger,
	}
}

func (s *conversationService) Start(ctx context.Context, req *dto.StartConversationRequest) (*dto.TurnResponse, error) {
	turn, err := s.engine.Start(ctx, conversation.StartInput{
		Text:           req.Text,
		ConversationID: req.ConversationId,
		TimeoutSeconds: req.TimeoutSeconds,
		Priority:       req.Priority,
		Labels:         req.Labels,
		Context:        req.Context,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.ConversationStarted(turn.ConversationID, len(turn.Actions)))
	s.sysLogger.Info("conversation_service", "conversation started", map[string]interface{}{
		"conversation_id": turn.ConversationID,
		"state":           string(turn.State),
		"actions":         len(turn.Actions),
	})

	// A unique project hint plus a date hint can finish in one turn.
	if turn.Done {
		s.archive(ctx, turn)
	}
	return dto.TurnToResponse(turn), nil
}

func (s *conversationService) Continue(ctx context.Context, id string, req *dto.ContinueConversationRequest) (*dto.TurnResponse, error) {
	turn, err := s.engine.Continue(ctx, id, req.Text)
	if err != nil {
		return nil, err
	}

	if turn.Done {
		s.archive(ctx, turn)
	}
	return dto.TurnToResponse(turn), nil
}

func (s *conversationService) Status(_ context.Context, id string) (*dto.ConversationStatusResponse, error) {
	snap, err := s.engine.Status(id)
	if err != nil {
		return nil, err
	}
	res := dto.SnapshotToResponse(snap)
	return &res, nil
}

func (s *conversationService) Cancel(ctx context.Context, id string) (*dto.TurnResponse, error) {
	turn, err := s.engine.Cancel(id)
	if err != nil {
		return nil, err
	}
	s.archive(ctx, turn)
	return dto.TurnToResponse(turn), nil
}

func (s *conversationService) Active(_ context.Context) ([]dto.ConversationStatusResponse, error) {
	snaps := s.engine.Active()
	out := make([]dto.ConversationStatusResponse, len(snaps))
	for i, snap := range snaps {
		out[i] = dto.SnapshotToResponse(snap)
	}
	return out, nil
}

// SweepTimedOut evicts expired conversations and archives each one with
// state TIMED_OUT, so abandoned conversations reach history like any other
// terminal outcome.
func (s *conversationService) SweepTimedOut(ctx context.Context) int {
	turns := s.engine.SweepExpired()
	for _, turn := range turns {
		s.archive(ctx, turn)
	}
	return len(turns)
}

// archive hands a finished conversation to the persistence consumer and
// fans the terminal event out to NATS.
func (s *conversationService) archive(ctx context.Context, turn *conversation.Turn) {
	msg := dto.ConversationArchiveMessage{
		ConversationId: turn.ConversationID,
		State:          string(turn.State),
		RawInput:       turn.RawInput,
		Actions:        turn.Actions,
		Title:          turn.Title,
		Priority:       assemble.DefaultPriority,
		StartedAt:      turn.StartedAt,
		FinishedAt:     time.Now(),
		Receipt:        turn.Receipt,
	}
	if turn.Summary != nil {
		msg.ProjectId = turn.Summary.ProjectID
		msg.ProjectName = turn.Summary.Project
		msg.DueDate = turn.Summary.DueDate
		msg.Priority = turn.Summary.Priority
		msg.Labels = turn.Summary.Labels
	}

	if turn.Receipt != nil && turn.Summary != nil {
		// Rebuild the task layout that was exported so the archive can
		// record it without holding the evicted session.
		if req, err := assemble.Build(assemble.Input{
			Title:     turn.Title,
			Actions:   turn.Actions,
			ProjectID: turn.Summary.ProjectID,
			DueDate:   msg.DueDate,
			Priority:  msg.Priority,
			Labels:    msg.Labels,
			CreatedAt: turn.StartedAt,
		}); err == nil {
			msg.MainTask = req.MainTask
			msg.Subtasks = req.Subtasks
		}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		s.sysLogger.Error("conversation_service", "failed to marshal archive", map[string]interface{}{
			"conversation_id": turn.ConversationID,
			"error":           err.Error(),
		})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.sysLogger.Error("conversation_service", "failed to publish archive", map[string]interface{}{
			"conversation_id": turn.ConversationID,
			"error":           err.Error(),
		})
	}

	switch turn.State {
	case conversation.StateCompleted:
		projectID := ""
		if turn.Summary != nil {
			projectID = turn.Summary.ProjectID
		}
		created, total := 0, 0
		if turn.Receipt != nil {
			created, total = turn.Receipt.Created, turn.Receipt.Total
			s.publishEvent(ctx, events.TasksExported(projectID, turn.Receipt.MainTaskID, created, len(turn.Receipt.Failed)))
		}
		s.publishEvent(ctx, events.ConversationCompleted(turn.ConversationID, projectID, created, total))
	case conversation.StateTimedOut:
		s.publishEvent(ctx, events.ConversationTimedOut(turn.ConversationID))
	default:
		s.publishEvent(ctx, events.ConversationCancelled(turn.ConversationID, turn.Message))
	}
}

func (s *conversationService) publishEvent(ctx context.Context, event events.Event) {
	if s.natsPub == nil {
		return
	}
	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.sysLogger.Warn("conversation_service", "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
