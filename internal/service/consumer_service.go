package service

import (
	"context"
	"encoding/json"
	"log"

	"voice-todoist-be/internal/dto"
	"voice-todoist-be/internal/entity"
	"voice-todoist-be/internal/repository/specification"
	"voice-todoist-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ConversationArchiveMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal archive message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Archiving conversation %s (state: %s)", payload.ConversationId, payload.State)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// conversation_id carries a unique index; a redelivered message would
	// fail on insert, so check first and Ack duplicates.
	existing, err := uow.ConversationRecordRepository().FindOne(ctx,
		specification.ByConversationId{ConversationId: payload.ConversationId})
	if err != nil {
		log.Printf("[ERROR] Failed to check for existing archive %s: %v", payload.ConversationId, err)
		msg.Nack()
		return
	}
	if existing != nil {
		log.Printf("[WARN] Conversation %s already archived, skipping", payload.ConversationId)
		msg.Ack()
		return
	}

	record := &entity.ConversationRecord{
		Id:             uuid.New(),
		ConversationId: payload.ConversationId,
		State:          payload.State,
		RawInput:       payload.RawInput,
		Actions:        payload.Actions,
		Title:          payload.Title,
		ProjectId:      payload.ProjectId,
		ProjectName:    payload.ProjectName,
		DueDate:        payload.DueDate,
		Priority:       payload.Priority,
		Labels:         payload.Labels,
		StartedAt:      payload.StartedAt,
		FinishedAt:     payload.FinishedAt,
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ConversationRecordRepository().Create(ctx, record); err != nil {
		log.Printf("[ERROR] Failed to create conversation record %s: %v", payload.ConversationId, err)
		msg.Nack()
		return
	}

	// Cancelled and timed out conversations carry no receipt; only
	// completed ones produced tasks worth a row of their own.
	if payload.Receipt != nil {
		export := &entity.TaskExport{
			Id:             uuid.New(),
			ConversationId: payload.ConversationId,
			ProjectId:      payload.ProjectId,
			ProjectName:    payload.ProjectName,
			MainTask:       payload.MainTask,
			MainTaskId:     payload.Receipt.MainTaskID,
			Subtasks:       payload.Subtasks,
			DueDate:        payload.DueDate,
			Priority:       payload.Priority,
			Labels:         payload.Labels,
			CreatedCount:   payload.Receipt.Created,
			FailedCount:    len(payload.Receipt.Failed),
			CreatedAt:      payload.FinishedAt,
		}
		if err := uow.TaskExportRepository().Create(ctx, export); err != nil {
			log.Printf("[ERROR] Failed to create task export for %s: %v", payload.ConversationId, err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit archive transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Conversation archived: %s", payload.ConversationId)
	msg.Ack()
}
