package contract

import (
	"context"

	"voice-todoist-be/internal/entity"
	"voice-todoist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TaskExportRepository interface {
	Create(ctx context.Context, export *entity.TaskExport) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TaskExport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TaskExport, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
