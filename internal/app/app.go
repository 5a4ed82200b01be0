package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/aulahub/aulahub-backend/internal/cache"
	"github.com/aulahub/aulahub-backend/internal/db"
	"github.com/aulahub/aulahub-backend/internal/graph"
	"github.com/aulahub/aulahub-backend/internal/http/middleware"
	"github.com/aulahub/aulahub-backend/internal/platform/localmedia"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/platform/neo4jdb"
	"github.com/aulahub/aulahub-backend/internal/realtime/bus"
	"github.com/aulahub/aulahub-backend/internal/server"
	"github.com/aulahub/aulahub-backend/internal/services"
	"github.com/aulahub/aulahub-backend/internal/sse"
)

// App owns every client handle explicitly. Nothing here is a package-level
// singleton: stores, bus, and hub are constructed once and injected down.
type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *sse.Hub

	neo4jClient *neo4jdb.Client
	redisClient *goredis.Client
	eventBus    bus.Bus
	cancel      context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	neo4jClient, err := neo4jdb.New(neo4jdb.Config{
		URI:      cfg.Neo4jURI,
		User:     cfg.Neo4jUser,
		Password: cfg.Neo4jPassword,
		Database: cfg.Neo4jDatabase,
	}, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init neo4j: %w", err)
	}
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = graph.EnsureSchema(ctx, neo4jClient)
		cancel()
		if err != nil {
			log.Warn("Graph schema init failed (continuing)", "error", err)
		}
	}
	graphStore := graph.NewNeo4jStore(neo4jClient, log)

	// Redis is optional: without it the snapshot and the bus stay
	// in-process.
	var redisClient *goredis.Client
	var snapshotStore cache.SnapshotStore
	var eventBus bus.Bus
	if cfg.RedisAddr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:        cfg.RedisAddr,
			DialTimeout: 5 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr := redisClient.Ping(ctx).Err()
		cancel()
		if pingErr != nil {
			log.Sync()
			return nil, fmt.Errorf("redis ping: %w", pingErr)
		}
		snapshotStore = cache.NewRedisSnapshotStore(redisClient)
		eventBus, err = bus.NewRedisBus(redisClient, cfg.RedisChannel, log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init redis bus: %w", err)
		}
	} else {
		log.Warn("REDIS_ADDR not set; using in-process snapshot store and bus")
		snapshotStore = cache.NewMemorySnapshotStore()
		eventBus = bus.NewLocalBus()
	}

	uploader, err := localmedia.New(cfg.MediaDir, cfg.MediaBaseURL, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init media store: %w", err)
	}

	hub := sse.NewHub(log)
	reposet := wireRepos(theDB, log)

	published := cache.NewPublishedCache(
		snapshotStore,
		services.PublishedSource(reposet.User, reposet.Course, log),
		cfg.CacheTTL,
		log,
	)

	serviceset := wireServices(log, cfg, reposet, graphStore, published, eventBus, uploader)
	handlerset := wireHandlers(log, cfg, serviceset, hub)
	authMiddleware := middleware.NewAuthMiddleware(log, serviceset.Auth)

	router := server.NewRouter(server.RouterConfig{
		Log:               log,
		AuthMiddleware:    authMiddleware,
		CORSOrigins:       cfg.CORSOrigins,
		MediaDir:          cfg.MediaDir,
		AuthHandler:       handlerset.Auth,
		UserHandler:       handlerset.User,
		CourseHandler:     handlerset.Course,
		EnrollmentHandler: handlerset.Enrollment,
		ConsultaHandler:   handlerset.Consulta,
		SocialHandler:     handlerset.Social,
		RealtimeHandler:   handlerset.Realtime,
	})

	return &App{
		Log:         log,
		DB:          theDB,
		Router:      router,
		Cfg:         cfg,
		Repos:       reposet,
		Services:    serviceset,
		Hub:         hub,
		neo4jClient: neo4jClient,
		redisClient: redisClient,
		eventBus:    eventBus,
	}, nil
}

// Start launches the bus forwarder feeding the local SSE hub.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	return a.eventBus.StartForwarder(ctx, a.Hub.Broadcast)
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.eventBus != nil {
		_ = a.eventBus.Close()
	}
	if a.neo4jClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.neo4jClient.Close(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
