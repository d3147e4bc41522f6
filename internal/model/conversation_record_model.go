package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConversationRecord struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId string         `gorm:"type:text;not null;uniqueIndex"`
	State          string         `gorm:"type:text;not null;index"`
	RawInput       string         `gorm:"type:text;not null"`
	Actions        datatypes.JSON `gorm:"type:jsonb"`
	Title          string         `gorm:"type:text"`
	ProjectId      string         `gorm:"type:text;index"`
	ProjectName    string         `gorm:"type:text"`
	DueDate        string         `gorm:"type:text"`
	Priority       int            `gorm:"not null;default:4"`
	Labels         datatypes.JSON `gorm:"type:jsonb"`
	StartedAt      time.Time      `gorm:"not null"`
	FinishedAt     time.Time      `gorm:"not null;index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (ConversationRecord) TableName() string {
	return "conversation_records"
}
