package unitofwork

import (
	"context"

	"voice-todoist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRecordRepository() contract.ConversationRecordRepository
	TaskExportRepository() contract.TaskExportRepository
}
