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

type ConversationRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationRecordRepository(db *gorm.DB) contract.ConversationRecordRepository {
	return &ConversationRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationRecordRepositoryImpl) Create(ctx context.Context, record *entity.ConversationRecord) error {
	m := r.mapper.RecordToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.RecordToEntity(m)
	return nil
}

func (r *ConversationRecordRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ConversationRecord{}, id).Error
}

func (r *ConversationRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationRecord, error) {
	var m model.ConversationRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RecordToEntity(&m), nil
}

func (r *ConversationRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationRecord, error) {
	var models []*model.ConversationRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConversationRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.RecordToEntity(m)
	}
	return entities, nil
}

func (r *ConversationRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ConversationRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
