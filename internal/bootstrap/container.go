package bootstrap

import (
	"context"
	"log"

	"lecture-qa-be/internal/config"
	"lecture-qa-be/internal/controller"
	"lecture-qa-be/internal/handler"
	"lecture-qa-be/internal/pkg/logger"
	"lecture-qa-be/internal/repository/memory"
	"lecture-qa-be/internal/repository/unitofwork"
	"lecture-qa-be/internal/service"
	"lecture-qa-be/internal/websocket"
	"lecture-qa-be/pkg/embedding"
	"lecture-qa-be/pkg/llm/factory"

	pktNats "lecture-qa-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ConversationController controller.IConversationController
	LectureController      controller.ILectureController

	// Background Services (Exposed for main.go to run)
	IngestConsumerService service.IIngestConsumerService
	PostProcessService    service.IPostProcessService

	// WebSockets & Notification
	QAStreamHandler     *handler.QAStreamHandler
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
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

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub)

	ingestConsumerService := service.NewIngestConsumerService(
		pubSub,
		uowFactory,
		embeddingProvider,
	)
	postProcessService := service.NewPostProcessService(
		pubSub,
		uowFactory,
		llmProvider,
		cfg.Rag.KeepCitedAnswers,
	)

	lectureService := service.NewLectureService(uowFactory, publisherService)
	conversationService := service.NewConversationService(uowFactory)

	qaService := service.NewQAService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		sessionRepo,
		publisherService,
		natsPub,
		cfg.Rag,
	)

	// 3.5 Notification System Infrastructure
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handlers
	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)
	qaStreamHandler := handler.NewQAStreamHandler(qaService, sysLogger)

	// 4. Controllers
	return &Container{
		QAStreamHandler:     qaStreamHandler,
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		ConversationController: controller.NewConversationController(conversationService, qaService),
		LectureController:      controller.NewLectureController(lectureService),

		IngestConsumerService: ingestConsumerService,
		PostProcessService:    postProcessService,
	}
}
