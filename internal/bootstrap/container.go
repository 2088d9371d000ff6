package bootstrap

import (
	"context"
	"log"

	"deal-intake-be/internal/config"
	"deal-intake-be/internal/controller"
	"deal-intake-be/internal/pkg/logger"
	"deal-intake-be/internal/pkg/mailer"
	"deal-intake-be/internal/repository/memory"
	"deal-intake-be/internal/repository/unitofwork"
	"deal-intake-be/internal/service"
	"deal-intake-be/internal/websocket"
	"deal-intake-be/pkg/cms"
	"deal-intake-be/pkg/llm/factory"
	"deal-intake-be/pkg/parser"
	"deal-intake-be/pkg/pipeline"
	"deal-intake-be/pkg/tools"

	pktNats "deal-intake-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IntakeController interface {
	RegisterRoutes(router fiber.Router)
}

type Container struct {
	// Controllers
	IntakeController IntakeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Exposed for health reporting
	IntakeService service.IIntakeService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLogger := logger.NewIsolatedLogger(cfg.App.PipelineLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.BaseURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/watchers.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Pipeline Collaborators
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	if llmProvider != nil {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	} else {
		log.Printf("[INFO] No LLM provider configured; summaries fall back to rules")
	}

	snapshotPublisher := service.NewSnapshotPublisherService(pubSub, cfg.Intake.SnapshotTopic, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Intake.SnapshotTopic, uowFactory)
	pauseNotifier := service.NewPauseNotifierService(emailService, cfg.SMTP.AnalystEmail, sysLogger)
	dealWriter := service.NewDealWriterService(uowFactory)

	collab := pipeline.Collaborators{
		Texts:      parser.NewPlainTextExtractor(),
		Classifier: parser.NewKeywordClassifier(),
		Contents:   parser.NewContentExtractor(llmProvider),
		Matcher:    cms.NewClient(cfg.Intake.CMSRegistryURL),
		Tools:      tools.NewCalculatorRunner(),
		Summarizer: llmProvider,
		Writer:     dealWriter,
		Snapshots:  snapshotPublisher,
		Notifier:   pauseNotifier,
	}

	// In-memory registry of live runs
	registry := memory.NewSessionRegistry()

	intakeService := service.NewIntakeService(
		registry,
		collab,
		uowFactory,
		natsPub,
		wsHub,
		pipelineLogger,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		IntakeController: controller.NewIntakeController(intakeService, wsHub, sysLogger),
		ConsumerService:  consumerService,
		WebSocketHub:     wsHub,
		IntakeService:    intakeService,
	}
}
