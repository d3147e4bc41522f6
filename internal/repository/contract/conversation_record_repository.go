package contract

import (
	"context"

	"voice-todoist-be/internal/entity"
	"voice-todoist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRecordRepository interface {
	Create(ctx context.Context, record *entity.ConversationRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
