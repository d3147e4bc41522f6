package mapper

import (
	"encoding/json"

	"voice-todoist-be/internal/entity"
	"voice-todoist-be/internal/model"

	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

// Record Mappers

func (m *ConversationMapper) RecordToEntity(r *model.ConversationRecord) *entity.ConversationRecord {
	if r == nil {
		return nil
	}

	return &entity.ConversationRecord{
		Id:             r.Id,
		ConversationId: r.ConversationId,
		State:          r.State,
		RawInput:       r.RawInput,
		Actions:        jsonToStrings(r.Actions),
		Title:          r.Title,
		ProjectId:      r.ProjectId,
		ProjectName:    r.ProjectName,
		DueDate:        r.DueDate,
		Priority:       r.Priority,
		Labels:         jsonToStrings(r.Labels),
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}

func (m *ConversationMapper) RecordToModel(r *entity.ConversationRecord) *model.ConversationRecord {
	if r == nil {
		return nil
	}

	return &model.ConversationRecord{
		Id:             r.Id,
		ConversationId: r.ConversationId,
		State:          r.State,
		RawInput:       r.RawInput,
		Actions:        stringsToJSON(r.Actions),
		Title:          r.Title,
		ProjectId:      r.ProjectId,
		ProjectName:    r.ProjectName,
		DueDate:        r.DueDate,
		Priority:       r.Priority,
		Labels:         stringsToJSON(r.Labels),
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}

// Export Mappers

func (m *ConversationMapper) ExportToEntity(e *model.TaskExport) *entity.TaskExport {
	if e == nil {
		return nil
	}

	return &entity.TaskExport{
		Id:             e.Id,
		ConversationId: e.ConversationId,
		ProjectId:      e.ProjectId,
		ProjectName:    e.ProjectName,
		MainTask:       e.MainTask,
		MainTaskId:     e.MainTaskId,
		Subtasks:       jsonToStrings(e.Subtasks),
		DueDate:        e.DueDate,
		Priority:       e.Priority,
		Labels:         jsonToStrings(e.Labels),
		CreatedCount:   e.CreatedCount,
		FailedCount:    e.FailedCount,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ConversationMapper) ExportToModel(e *entity.TaskExport) *model.TaskExport {
	if e == nil {
		return nil
	}

	return &model.TaskExport{
		Id:             e.Id,
		ConversationId: e.ConversationId,
		ProjectId:      e.ProjectId,
		ProjectName:    e.ProjectName,
		MainTask:       e.MainTask,
		MainTaskId:     e.MainTaskId,
		Subtasks:       stringsToJSON(e.Subtasks),
		DueDate:        e.DueDate,
		Priority:       e.Priority,
		Labels:         stringsToJSON(e.Labels),
		CreatedCount:   e.CreatedCount,
		FailedCount:    e.FailedCount,
		CreatedAt:      e.CreatedAt,
	}
}

func stringsToJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

func jsonToStrings(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var values []string
	_ = json.Unmarshal(data, &values)
	return values
}
