package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rispar0529/De-Sign/internal/config"
	"github.com/rispar0529/De-Sign/internal/controller"
	"github.com/rispar0529/De-Sign/internal/pkg/logger"
	"github.com/rispar0529/De-Sign/internal/pkg/mailer"
	"github.com/rispar0529/De-Sign/internal/repository/contract"
	"github.com/rispar0529/De-Sign/internal/repository/implementation"
	"github.com/rispar0529/De-Sign/internal/repository/memory"
	"github.com/rispar0529/De-Sign/internal/repository/redisstore"
	"github.com/rispar0529/De-Sign/internal/service"
	"github.com/rispar0529/De-Sign/internal/workflow"
	"github.com/rispar0529/De-Sign/pkg/embedding"
	"github.com/rispar0529/De-Sign/pkg/llm/gemini"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	llmProvider := gemini.NewProvider(cfg.Keys.GoogleGemini, "")

	// 4. Session Store
	var sessionRepo workflow.SessionRepository
	if cfg.Store.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Store.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionRepo = redisstore.NewSessionRepository(rdb)
		log.Println("[INFO] Using session store: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository()
		log.Println("[INFO] Using session store: MEMORY")
	}

	// 5. Reference corpus (optional, needs Postgres + pgvector)
	var corpusRepo contract.ReferenceClauseRepository
	if db != nil {
		corpusRepo = implementation.NewReferenceClauseRepository(db)
	} else {
		log.Println("[WARN] No database configured, risk assessment runs without reference corpus")
	}

	// 6. Workflow Engine
	publisherService := service.NewPublisherService(cfg.Keys.AuditTopic, pubSub)
	auditPublisher := service.NewAuditPublisher(publisherService)
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.AuditTopic, auditLogger)

	analysisGateway := service.NewAnalysisGateway(
		cfg.App.UploadsDir,
		llmProvider,
		embeddingProvider,
		corpusRepo,
		sysLogger,
	)

	engine := workflow.NewEngine(
		sessionRepo,
		analysisGateway,
		emailService,
		auditPublisher,
		sysLogger,
	)

	// 7. Services & Controllers
	documentService := service.NewDocumentService(engine)
	documentController := controller.NewDocumentController(documentService)

	return &Container{
		DocumentController: documentController,
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
