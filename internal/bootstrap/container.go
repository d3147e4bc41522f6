package bootstrap

import (
	"log"
	"os"
	"time"

	"voice-todoist-be/internal/config"
	"voice-todoist-be/internal/constant"
	"voice-todoist-be/internal/controller"
	"voice-todoist-be/internal/pkg/logger"
	"voice-todoist-be/internal/repository/memory"
	"voice-todoist-be/internal/repository/unitofwork"
	"voice-todoist-be/internal/service"
	"voice-todoist-be/pkg/conversation"
	"voice-todoist-be/pkg/natsbus"
	"voice-todoist-be/pkg/todoist"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ConversationController controller.IConversationController
	ProjectController      controller.IProjectController
	TaskController         controller.ITaskController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for the periodic timeout sweep in main.go
	ConversationService service.IConversationService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional; the engine and services run fine without fanout.
	var natsPub service.EventPublisher
	if cfg.App.NatsURL != "" {
		pub, err := natsbus.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// 3. Todoist Upstream
	todoistClient := todoist.NewClient(
		cfg.Todoist.BaseURL,
		cfg.Todoist.APIToken,
		time.Duration(cfg.Todoist.TimeoutSeconds)*time.Second,
	)
	exporter := todoist.NewExporter(todoistClient)

	// 4. In-Memory Storage
	sessionRepo := memory.NewSessionRepository(
		time.Duration(cfg.Conversation.TimeoutSeconds) * time.Second,
	)
	projectCache := memory.NewProjectCache(
		constant.DefaultProjectCacheTTLSeconds * time.Second,
	)

	// 5. Services
	publisherService := service.NewPublisherService(constant.ConversationArchiveTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.ConversationArchiveTopic,
		uowFactory,
	)

	projectService := service.NewProjectService(
		todoistClient,
		projectCache,
		natsPub,
		sysLogger,
		cfg.Conversation.MaxMatchResults,
	)

	engine := conversation.NewEngine(
		sessionRepo,
		projectService,
		projectService,
		exporter,
		log.New(os.Stdout, "[conversation] ", log.LstdFlags),
		conversation.Config{
			MaxResults:            cfg.Conversation.MaxMatchResults,
			MaxRetries:            cfg.Conversation.MaxRetries,
			DefaultTimeoutSeconds: cfg.Conversation.TimeoutSeconds,
			DefaultPriority:       cfg.Conversation.DefaultPriority,
			DefaultLabels:         cfg.Conversation.DefaultLabels,
		},
	)

	conversationService := service.NewConversationService(
		engine,
		publisherService,
		natsPub,
		sysLogger,
	)
	taskService := service.NewTaskService(
		exporter,
		uowFactory,
		natsPub,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		ConversationController: controller.NewConversationController(conversationService),
		ProjectController:      controller.NewProjectController(projectService),
		TaskController:         controller.NewTaskController(taskService),

		ConsumerService:     consumerService,
		ConversationService: conversationService,
	}
}
