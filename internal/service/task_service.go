package service

import (
	"context"
	"time"

	"voice-todoist-be/internal/dto"
	"voice-todoist-be/internal/entity"
	"voice-todoist-be/internal/pkg/logger"
	"voice-todoist-be/internal/repository/specification"
	"voice-todoist-be/internal/repository/unitofwork"
	"voice-todoist-be/pkg/assemble"
	"voice-todoist-be/pkg/dates"
	"voice-todoist-be/pkg/events"
	"voice-todoist-be/pkg/extract"

	"github.com/google/uuid"
)

const defaultHistoryLimit = 50

type ITaskService interface {
	Export(ctx context.Context, req *dto.ExportTasksRequest) (*assemble.Receipt, error)
	Parse(ctx context.Context, req *dto.ParseInputRequest) (*dto.ParseInputResponse, error)
	ValidateDate(ctx context.Context, req *dto.ValidateDateRequest) (*dto.ValidateDateResponse, error)
	ConversationHistory(ctx context.Context, q *dto.HistoryQuery) ([]*dto.ConversationRecordResponse, error)
	ExportHistory(ctx context.Context, q *dto.HistoryQuery) ([]*dto.TaskExportResponse, error)
}

// TaskExporter pushes one assembled batch to Todoist.
type TaskExporter interface {
	ExportTasks(ctx context.Context, req assemble.Request) (assemble.Receipt, error)
}

type taskService struct {
	exporter   TaskExporter
	uowFactory unitofwork.RepositoryFactory
	natsPub    EventPublisher
	sysLogger  logger.ILogger
}

func NewTaskService(
	exporter TaskExporter,
	uowFactory unitofwork.RepositoryFactory,
	natsPub EventPublisher,
	sysLogger logger.ILogger,
) ITaskService {
	return &taskService{
		exporter:   exporter,
		uowFactory: uowFactory,
		natsPub:    natsPub,
		sysLogger:  sysLogger,
	}
}

// Export creates a task batch directly, bypassing the conversation flow.
// The batch is archived synchronously since there is no consumer in the
// path.
func (s *taskService) Export(ctx context.Context, req *dto.ExportTasksRequest) (*assemble.Receipt, error) {
	request := assemble.Request{
		MainTask:  req.MainTask,
		Subtasks:  req.Subtasks,
		ProjectID: req.ProjectId,
		DueDate:   req.DueDate,
		Priority:  assemble.NormalizePriority(req.Priority),
		Labels:    req.Labels,
	}

	receipt, err := s.exporter.ExportTasks(ctx, request)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	export := &entity.TaskExport{
		Id:           uuid.New(),
		ProjectId:    request.ProjectID,
		MainTask:     request.MainTask,
		MainTaskId:   receipt.MainTaskID,
		Subtasks:     request.Subtasks,
		DueDate:      request.DueDate,
		Priority:     request.Priority,
		Labels:       request.Labels,
		CreatedCount: receipt.Created,
		FailedCount:  len(receipt.Failed),
		CreatedAt:    time.Now(),
	}
	if err := uow.TaskExportRepository().Create(ctx, export); err != nil {
		s.sysLogger.Error("task_service", "failed to record export", map[string]interface{}{
			"project_id": request.ProjectID,
			"error":      err.Error(),
		})
	}

	if s.natsPub != nil {
		if err := s.natsPub.Publish(ctx, events.TasksExported(
			request.ProjectID, receipt.MainTaskID, receipt.Created, len(receipt.Failed),
		)); err != nil {
			s.sysLogger.Warn("task_service", "failed to publish export event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &receipt, nil
}

// Parse previews extraction for an utterance without opening a
// conversation.
func (s *taskService) Parse(_ context.Context, req *dto.ParseInputRequest) (*dto.ParseInputResponse, error) {
	result := extract.Actions(req.Text)
	return &dto.ParseInputResponse{
		Actions:     result.Actions,
		Title:       result.Title,
		ProjectHint: extract.ProjectHint(req.Text),
		DateHint:    extract.DateHint(req.Text),
	}, nil
}

func (s *taskService) ValidateDate(_ context.Context, req *dto.ValidateDateRequest) (*dto.ValidateDateResponse, error) {
	res, err := dates.Resolve(req.Expression, time.Now())
	if err != nil {
		return nil, err
	}
	return &dto.ValidateDateResponse{
		Expression: req.Expression,
		Resolved:   res.Resolved,
		Date:       res.ISO(),
		Reason:     res.Reason,
	}, nil
}

func (s *taskService) ConversationHistory(ctx context.Context, q *dto.HistoryQuery) ([]*dto.ConversationRecordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := historySpecs(q, "finished_at")
	if q.State != "" {
		specs = append(specs, specification.ByState{State: q.State})
	}

	records, err := uow.ConversationRecordRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ConversationRecordResponse, len(records))
	for i, r := range records {
		out[i] = dto.RecordToResponse(r)
	}
	return out, nil
}

func (s *taskService) ExportHistory(ctx context.Context, q *dto.HistoryQuery) ([]*dto.TaskExportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	exports, err := uow.TaskExportRepository().FindAll(ctx, historySpecs(q, "created_at")...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TaskExportResponse, len(exports))
	for i, e := range exports {
		out[i] = dto.ExportToResponse(e)
	}
	return out, nil
}

func historySpecs(q *dto.HistoryQuery, orderField string) []specification.Specification {
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	return []specification.Specification{
		specification.OrderBy{Field: orderField, Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
}
