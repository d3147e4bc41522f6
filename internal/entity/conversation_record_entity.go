package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversationRecord is the archived outcome of one finished conversation.
// Live sessions stay in memory; only terminal conversations reach the
// database.
type ConversationRecord struct {
	Id             uuid.UUID
	ConversationId string
	State          string
	RawInput       string
	Actions        []string
	Title          string
	ProjectId      string
	ProjectName    string
	DueDate        string
	Priority       int
	Labels         []string
	StartedAt      time.Time
	FinishedAt     time.Time
}
