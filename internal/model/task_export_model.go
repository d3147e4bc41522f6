package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TaskExport struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId string         `gorm:"type:text;index"`
	ProjectId      string         `gorm:"type:text;not null;index"`
	ProjectName    string         `gorm:"type:text"`
	MainTask       string         `gorm:"type:text;not null"`
	MainTaskId     string         `gorm:"type:text"`
	Subtasks       datatypes.JSON `gorm:"type:jsonb"`
	DueDate        string         `gorm:"type:text"`
	Priority       int            `gorm:"not null;default:4"`
	Labels         datatypes.JSON `gorm:"type:jsonb"`
	CreatedCount   int            `gorm:"not null"`
	FailedCount    int            `gorm:"not null"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
}

func (TaskExport) TableName() string {
	return "task_exports"
}
