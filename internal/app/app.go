package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	fileadapter "github.com/kishkisupermarket/khs/internal/adapter/file"
	"github.com/kishkisupermarket/khs/internal/adapter/memory"
	mongoadapter "github.com/kishkisupermarket/khs/internal/adapter/mongo"
	natsadapter "github.com/kishkisupermarket/khs/internal/adapter/nats"
	redisadapter "github.com/kishkisupermarket/khs/internal/adapter/redis"
	webadapter "github.com/kishkisupermarket/khs/internal/adapter/web"
	"github.com/kishkisupermarket/khs/internal/app/config"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/platform/metrics"
	"github.com/kishkisupermarket/khs/internal/platform/tracer"
	"github.com/kishkisupermarket/khs/internal/port/rest"
	"github.com/kishkisupermarket/khs/internal/repository"
	"github.com/kishkisupermarket/khs/internal/service"
	"github.com/kishkisupermarket/khs/internal/storefront"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	cfg            *config.Config
	log            logger.Logger
	server         *rest.Server
	session        *storefront.Session
	tracerProvider *sdktrace.TracerProvider
	publisher      *natsadapter.Publisher
	mongoClient    *mongo.Client
	redisClient    *redis.Client
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s, Catalog Source: %s", cfg.Env, cfg.HTTPServer.Port, cfg.Catalog.Source)

	application := &App{
		cfg: cfg,
		log: appLogger,
	}

	application.tracerProvider = tracer.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint, appLogger)
	metricsManager := metrics.NewMetricsManager(cfg.Metrics.Namespace)
	appLogger.Info("Metrics and tracing initialized")

	var store repository.KeyValueStore
	if cfg.Redis.Addr != "" {
		appLogger.Info("Initializing Redis client...")
		application.redisClient, err = redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Errorf("Failed to initialize Redis client: %v", err)
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		store = redisadapter.NewKeyValueStore(application.redisClient, cfg.Cart.TTL)
		appLogger.Info("Redis client initialized successfully")
	} else {
		store = memory.NewKeyValueStore()
		appLogger.Warn("Redis address not set, cart is kept in process memory")
	}

	source, err := application.newProductSource(ctx)
	if err != nil {
		application.close(ctx)
		return nil, err
	}
	if application.redisClient != nil {
		source = redisadapter.NewCachingProductSource(application.redisClient, source, cfg.Catalog.CacheTTL, appLogger)
		appLogger.Info("Product list cache enabled")
	}

	var publisher repository.EventPublisher = repository.NewNoopPublisher()
	if cfg.NATS.URL != "" {
		appLogger.Info("Connecting to NATS...")
		conn, err := natsadapter.NewConnection(cfg.NATS, appLogger)
		if err != nil {
			appLogger.Errorf("Failed to connect to NATS: %v", err)
			application.close(ctx)
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		application.publisher, err = natsadapter.NewPublisher(conn, appLogger)
		if err != nil {
			conn.Close()
			application.close(ctx)
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		publisher = application.publisher
		appLogger.Info("NATS publisher initialized")
	}

	cartStore := service.NewCartStore(store, publisher, metricsManager, appLogger, service.CartStoreConfig{
		StorageKey:     cfg.Cart.StorageKey,
		CurrencySymbol: cfg.Cart.CurrencySymbol,
		SubjectPrefix:  cfg.NATS.SubjectPrefix,
	})
	catalog := service.NewCatalog(metricsManager, appLogger, service.CatalogConfig{
		PageSize: cfg.Catalog.PageSize,
	})
	application.session = storefront.NewSession(cartStore, catalog, source, cfg.Catalog.SearchDebounce, appLogger)
	application.session.Start(ctx)

	handler := rest.NewHandler(application.session, appLogger)
	application.server = rest.NewServer(
		appLogger,
		cfg.HTTPServer.Port,
		cfg.HTTPServer.ReadTimeout,
		cfg.HTTPServer.WriteTimeout,
		rest.NewRouter(handler, metricsManager, appLogger),
	)
	appLogger.Info("HTTP server instance created")

	return application, nil
}

func (a *App) newProductSource(ctx context.Context) (repository.ProductSource, error) {
	switch a.cfg.Catalog.Source {
	case "", "file":
		a.log.Infof("Products will be read from file %s", a.cfg.Catalog.FilePath)
		return fileadapter.NewProductSource(a.cfg.Catalog.FilePath), nil
	case "http":
		if a.cfg.Catalog.URL == "" {
			return nil, fmt.Errorf("catalog source http requires CATALOG_URL")
		}
		a.log.Infof("Products will be fetched from %s", a.cfg.Catalog.URL)
		return webadapter.NewProductSource(a.cfg.Catalog.URL, nil), nil
	case "mongo":
		a.log.Info("Initializing MongoDB client...")
		client, err := mongoadapter.NewClient(ctx, a.cfg.MongoDB)
		if err != nil {
			a.log.Errorf("Failed to initialize MongoDB client: %v", err)
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		a.mongoClient = client
		a.log.Info("MongoDB client initialized successfully")
		return mongoadapter.NewProductSource(client.Database(a.cfg.MongoDB.Database), a.cfg.MongoDB.Collection, a.log), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", a.cfg.Catalog.Source)
	}
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.session.Close()
	a.close(shutdownCtx)
	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}

func (a *App) close(ctx context.Context) {
	if a.publisher != nil {
		a.publisher.Close()
		a.log.Info("NATS publisher closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}
}
