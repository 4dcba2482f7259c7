package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-model-advisor-be/internal/config"
	"ai-model-advisor-be/internal/controller"
	"ai-model-advisor-be/internal/pkg/logger"
	"ai-model-advisor-be/internal/repository/memory"
	"ai-model-advisor-be/internal/repository/unitofwork"
	"ai-model-advisor-be/internal/service"
	"ai-model-advisor-be/pkg/advisor/classifier"
	"ai-model-advisor-be/pkg/advisor/content"
	"ai-model-advisor-be/pkg/advisor/permit"
	"ai-model-advisor-be/pkg/advisor/pipeline"
	"ai-model-advisor-be/pkg/advisor/session"
	"ai-model-advisor-be/pkg/llm/factory"

	pktNats "ai-model-advisor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	AdvisorController controller.IAdvisorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure
	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceToken,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Audit trail: a durable consumer mirrors every bus event into the
	// structured log. Skipped when the broker is unreachable, like the
	// publisher above.
	if natsPub != nil {
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			auditService := service.NewAuditService(sysLogger)
			if err := natsSub.Subscribe(pktNats.AllEventsSubject, "advisor-audit", auditService.HandleEvent); err != nil {
				log.Printf("[WARN] Failed to start event audit consumer: %v", err)
			}
		}
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
		log.Printf("[WARN] Failed to connect to Redis: %v (pricing cache disabled)", err)
		rdb = nil
	}

	// 5. Advisor components
	catalog := service.NewCatalogSource(uowFactory)
	runner := pipeline.NewRunner(
		pipeline.NewRecommender(llmProvider, catalog, stdLogger),
		pipeline.NewPricing(llmProvider, rdb, stdLogger),
		pipeline.NewReport(llmProvider, stdLogger),
		stdLogger,
	)

	permits := permit.NewCoordinator()
	sessions := session.NewManager(sessionRepo)
	turnClassifier := classifier.NewClassifier(llmProvider, stdLogger)
	normalizer := content.NewNormalizer(cfg.Advisor.UploadsDir, stdLogger)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Advisor.TurnCompletedTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.Advisor.TurnCompletedTopic, uowFactory)

	authService := service.NewAuthService(uowFactory, natsPub)
	advisorService := service.NewAdvisorService(
		permits,
		sessions,
		turnClassifier,
		runner,
		normalizer,
		uowFactory,
		publisherService,
		natsPub,
		cfg.Advisor.HistoryPageSize,
		stdLogger,
	)

	// 7. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		AdvisorController: controller.NewAdvisorController(advisorService, cfg.Advisor.UploadsDir),

		ConsumerService: consumerService,
		SysLogger:       sysLogger,
	}
}
