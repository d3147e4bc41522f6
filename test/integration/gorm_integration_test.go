package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"voice-todoist-be/internal/entity"
	"voice-todoist-be/internal/repository/specification"
	"voice-todoist-be/internal/repository/unitofwork"
	"voice-todoist-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ConversationRecordRepository())
	assert.NotNil(t, uow.TaskExportRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Conversation Record Repository", func(t *testing.T) {
		count, err := uow.ConversationRecordRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ConversationRecord count: %d", count)
	})

	t.Run("Check Task Export Repository", func(t *testing.T) {
		count, err := uow.TaskExportRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("TaskExport count: %d", count)
	})

	t.Run("Check Transactional Archive Write", func(t *testing.T) {
		ctx := context.Background()
		conversationId := "it-" + uuid.New().String()

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		started := time.Now().Add(-2 * time.Minute)
		finished := time.Now()

		record := &entity.ConversationRecord{
			Id:             uuid.New(),
			ConversationId: conversationId,
			State:          "COMPLETED",
			RawInput:       "I need to buy milk and buy bread",
			Actions:        []string{"buy milk", "buy bread"},
			Title:          "buy milk",
			ProjectId:      "2203306141",
			ProjectName:    "Groceries",
			DueDate:        "2026-09-02",
			Priority:       4,
			Labels:         []string{"voice"},
			StartedAt:      started,
			FinishedAt:     finished,
		}
		err = uow.ConversationRecordRepository().Create(ctx, record)
		assert.NoError(t, err)

		export := &entity.TaskExport{
			Id:             uuid.New(),
			ConversationId: conversationId,
			ProjectId:      "2203306141",
			ProjectName:    "Groceries",
			MainTask:       "buy milk",
			MainTaskId:     "7491103722",
			Subtasks:       []string{"buy bread"},
			DueDate:        "2026-09-02",
			Priority:       4,
			Labels:         []string{"voice"},
			CreatedCount:   2,
			CreatedAt:      finished,
		}
		err = uow.TaskExportRepository().Create(ctx, export)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Verify round trip including the jsonb columns
		found, err := uow.ConversationRecordRepository().FindOne(ctx,
			specification.ByConversationId{ConversationId: conversationId})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, []string{"buy milk", "buy bread"}, found.Actions)
			assert.Equal(t, "Groceries", found.ProjectName)
		}

		exports, err := uow.TaskExportRepository().FindAll(ctx,
			specification.ByConversationId{ConversationId: conversationId})
		assert.NoError(t, err)
		if assert.Len(t, exports, 1) {
			assert.Equal(t, 2, exports[0].CreatedCount)
			assert.Equal(t, []string{"buy bread"}, exports[0].Subtasks)
		}

		t.Log("Successfully archived conversation with export in transaction")
	})
}
