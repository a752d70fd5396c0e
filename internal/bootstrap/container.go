package bootstrap

import (
	"context"
	"log"
	"time"

	"studyroom-be/internal/config"
	"studyroom-be/internal/controller"
	"studyroom-be/internal/metrics"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/repository/implementation"
	"studyroom-be/internal/repository/knowledge"
	"studyroom-be/internal/repository/memory"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/internal/service"
	"studyroom-be/pkg/events"
	pktNats "studyroom-be/pkg/nats"
	"studyroom-be/pkg/rag/gate"
	"studyroom-be/pkg/rag/synthesis"
	"studyroom-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ContextController       controller.IContextController
	RoomController          controller.IRoomController
	KnowledgeBaseController controller.IKnowledgeBaseController

	MetricsHandler fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	contextLogger := logger.NewIsolatedLogger(cfg.App.ContextLogFilePath)

	c := &Container{}
	c.closers = append(c.closers, sysLogger.Sync, contextLogger.Sync)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	// 2.5 Infrastructure
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
	}

	var rdb *redis.Client
	if cfg.KnowledgeBase.GateSource == config.GateSourceRedis {
		rdb = NewRedisClient(cfg.App.RedisURL)
		c.closers = append(c.closers, rdb.Close)
	}

	// 3. Knowledge base engine
	kbGate := NewGate(cfg.KnowledgeBase, implementation.NewAiConfigRepository(db), rdb, sysLogger)
	chunkStore, err := NewChunkStore(cfg.KnowledgeBase, uowFactory)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize chunk store: %v", err)
	}
	engine, err := synthesis.New(chunkStore, kbGate, cfg.KnowledgeBase.Engine)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize synthesis engine: %v", err)
	}
	log.Printf("[INFO] Knowledge base: store=%s gate=%s", cfg.KnowledgeBase.Store, cfg.KnowledgeBase.GateSource)

	// 4. Services
	buildMetrics := metrics.New()
	c.MetricsHandler = buildMetrics.Handler()

	publisherService := service.NewPublisherService(cfg.App.TelemetryTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.App.TelemetryTopic,
		uowFactory,
		eventPublisher,
		buildMetrics,
		sysLogger,
	)

	contextService := service.NewContextService(uowFactory, engine, publisherService, contextLogger)

	var indexer service.DocumentIndexer
	if mem, ok := chunkStore.(*memory.DocumentStore); ok {
		indexer = mem
	}
	roomService := service.NewRoomService(
		uowFactory,
		service.ChunkingConfig{
			ChunkSize: cfg.KnowledgeBase.IngestChunkSize,
			Overlap:   cfg.KnowledgeBase.IngestChunkOverlap,
		},
		indexer,
		eventPublisher,
		sysLogger,
	)

	var redisSetter service.RedisSetter
	if rdb != nil {
		redisSetter = rdb
	}
	knowledgeBaseService := service.NewKnowledgeBaseService(
		uowFactory,
		kbGate,
		cfg.KnowledgeBase,
		redisSetter,
		eventPublisher,
		contextLogger,
		sysLogger,
	)

	// 5. Controllers
	c.ContextController = controller.NewContextController(contextService)
	c.RoomController = controller.NewRoomController(roomService)
	c.KnowledgeBaseController = controller.NewKnowledgeBaseController(knowledgeBaseService)

	return c
}

// Close releases infrastructure in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("[WARN] Shutdown step failed: %v", err)
		}
	}
}

func NewRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		// the gate closes on read errors until redis is reachable
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}

// NewGate picks the switch the engine reads on every request.
func NewGate(kb config.KnowledgeBaseConfig, reader gate.ConfigReader, rdb *redis.Client, log logger.ILogger) gate.Gate {
	switch kb.GateSource {
	case config.GateSourceDatabase:
		return gate.NewConfigGate(reader, kb.Enabled, log)
	case config.GateSourceRedis:
		fallback := gate.NewConfigGate(reader, kb.Enabled, log)
		if rdb == nil {
			return fallback
		}
		return gate.NewRedisGate(rdb, kb.GateKey, fallback, log)
	}
	return gate.Static(kb.Enabled)
}

// NewChunkStore returns the Postgres store, or an in-memory one loaded from
// KB_FIXTURE_PATH.
func NewChunkStore(kb config.KnowledgeBaseConfig, uowFactory unitofwork.RepositoryFactory) (store.ChunkStore, error) {
	if kb.Store != config.StoreMemory {
		return knowledge.NewChunkStore(uowFactory), nil
	}

	mem := memory.NewDocumentStore(0)
	if kb.FixturePath == "" {
		return mem, nil
	}
	docs, err := memory.LoadFixture(kb.FixturePath)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		mem.Put(d)
	}
	log.Printf("[INFO] Loaded %d documents into the memory store", len(docs))
	return mem, nil
}
