package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByConversationId filters by the public conversation id (not the row id).
type ByConversationId struct {
	ConversationId string
}

func (s ByConversationId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationId)
}

// ByState filters archived conversations by terminal state.
type ByState struct {
	State string
}

func (s ByState) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", s.State)
}

// ByProjectId filters exports routed to one project.
type ByProjectId struct {
	ProjectId string
}

func (s ByProjectId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectId)
}

// FinishedAfter bounds archives to conversations that ended after the
// given instant.
type FinishedAfter struct {
	After time.Time
}

func (s FinishedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("finished_at > ?", s.After)
}
