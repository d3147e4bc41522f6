package implementation

import (
	"context"
	"errors"

	"voice-todoist-be/internal/entity"
	"voice-todoist-be/internal/mapper"
	"voice-todoist-be/internal/model"
	"voice-todoist-be/internal/repository/contract"
	"voice-todoist-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskExportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewTaskExportRepository(db *gorm.DB) contract.TaskExportRepository {
	return &TaskExportRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *TaskExportRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TaskExportRepositoryImpl) Create(ctx context.Context, export *entity.TaskExport) error {
	m := r.mapper.ExportToModel(export)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*export = *r.mapper.ExportToEntity(m)
	return nil
}

func (r *TaskExportRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TaskExport{}, id).Error
}

func (r *TaskExportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TaskExport, error) {
	var m model.TaskExport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ExportToEntity(&m), nil
}

func (r *TaskExportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TaskExport, error) {
	var models []*model.TaskExport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.TaskExport, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ExportToEntity(m)
	}
	return entities, nil
}

func (r *TaskExportRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TaskExport{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
