package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Danii44/PRIMEHODDIE/auth"
	"github.com/Danii44/PRIMEHODDIE/config"
	"github.com/Danii44/PRIMEHODDIE/controllers"
	"github.com/Danii44/PRIMEHODDIE/database"
	"github.com/Danii44/PRIMEHODDIE/logger"
	"github.com/Danii44/PRIMEHODDIE/middleware"
	"github.com/Danii44/PRIMEHODDIE/persistence"
	aws_pkg "github.com/Danii44/PRIMEHODDIE/pkg/aws"
	"github.com/Danii44/PRIMEHODDIE/repository"
	"github.com/Danii44/PRIMEHODDIE/routes"
	"github.com/Danii44/PRIMEHODDIE/sessions"
	"github.com/Danii44/PRIMEHODDIE/store"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var awsCfg sdkaws.Config
	if cfg.AWSUseSecrets || cfg.CloudWatchEnabled || cfg.CatalogBackend == config.CatalogBackendDynamo {
		awsCfg, err = aws_pkg.LoadAWSConfig(rootCtx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			log.Fatalf("failed to load AWS config: %v", err)
		}
	}
	if cfg.AWSUseSecrets {
		cfg.ApplySecrets(rootCtx, aws_pkg.NewSecretsClient(awsCfg))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	var sink io.Writer
	var metrics *aws_pkg.MetricsClient
	if cfg.CloudWatchEnabled {
		cw, err := aws_pkg.NewCloudWatchLogsClient(rootCtx, awsCfg, cfg.CloudWatchLogGroup, serviceName)
		if err != nil {
			log.Printf("CloudWatch Logs disabled: %v", err)
		} else {
			sink = cw
		}
		metrics = aws_pkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace)
	}

	logr, err := logger.New(cfg.Env, sink)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logr.Sync() }()
	zap.ReplaceGlobals(logr)

	kv := openStateBackend(rootCtx, cfg, logr)

	var (
		reader   store.ProductReader
		profiles auth.ProfileLookup
		admin    *controllers.AdminController
		mongo    *database.Mongo
	)
	switch cfg.CatalogBackend {
	case config.CatalogBackendMongo:
		mongo, err = database.ConnectMongo(rootCtx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			logr.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			if err := mongo.Close(); err != nil {
				logr.Warn("MongoDB disconnect failed", zap.Error(err))
			}
		}()
		products := repository.NewProductRepository(mongo.DB)
		reader = products
		profiles = repository.NewProfileRepository(mongo.DB)
	case config.CatalogBackendDynamo:
		reader = repository.NewDynamoAdapter(dynamodb.NewFromConfig(awsCfg), cfg.DDBProductsTable)
		logr.Info("Catalog served from DynamoDB; admin routes disabled", zap.String("table", cfg.DDBProductsTable))
	}

	catalog := store.NewCatalog(reader, logr.Named("catalog"))
	fetchCtx, fetchCancel := context.WithTimeout(rootCtx, cfg.FetchTimeout)
	if err := catalog.Fetch(fetchCtx); err != nil {
		logr.Warn("Initial catalog fetch failed; serving an empty catalog until refresh", zap.Error(err))
	}
	fetchCancel()

	if mongo != nil {
		admin = controllers.NewAdminController(
			repository.NewProductRepository(mongo.DB),
			repository.NewOrderRepository(mongo.DB),
			catalog,
			logr.Named("admin"),
		)
	}

	registry := sessions.NewRegistry(catalog, kv, sessions.Config{
		KeyPrefix:      cfg.StateKeyPrefix,
		IdleTTL:        cfg.SessionIdleTTL,
		PersistTimeout: cfg.PersistTimeout,
		OnSaveFailure: func(key string, err error) {
			metrics.CountAsync(aws_pkg.MetricStateSaveFailures, map[string]string{"Service": serviceName})
		},
	}, logr.Named("sessions"))
	go registry.Run(rootCtx)
	if metrics != nil {
		go reportActiveSessions(rootCtx, registry, metrics)
	}

	limiter := middleware.NewRateLimiter(rate.Every(time.Minute/100), 50, 5*time.Minute)
	go limiter.Run(rootCtx)

	var (
		httpMetrics middleware.MetricsRecorder
		counts      controllers.CountRecorder
	)
	if metrics != nil {
		httpMetrics, counts = metrics, metrics
	}

	authenticator := auth.NewAuthenticator(auth.NewTokenVerifier(cfg.JWTSecret), profiles, logr.Named("auth"))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.Recovery(logr),
		middleware.Timeout(cfg.FetchTimeout),
		middleware.RequestLogger(logr),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(limiter),
		middleware.Metrics(httpMetrics, serviceName),
		middleware.ErrorMiddleware(logr),
	)
	routes.RegisterRoutes(router, routes.Deps{
		Storefront:   controllers.NewStorefrontController(catalog, authenticator, counts, logr.Named("storefront")),
		Admin:        admin,
		Sessions:     registry,
		SecureCookie: cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("Storefront service is running",
			zap.String("port", cfg.Port),
			zap.String("state_backend", cfg.StateBackend),
			zap.String("catalog_backend", cfg.CatalogBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logr.Info("Shutting down gracefully...")
	cancel()
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("Shutdown error", zap.Error(err))
	}
	logr.Info("Server shutdown complete.")
}

func openStateBackend(ctx context.Context, cfg *config.Config, logr *zap.Logger) persistence.KV {
	if cfg.StateBackend == config.StateBackendMemory {
		logr.Warn("Using in-memory state backend; carts are lost on restart")
		return persistence.NewMemoryKV()
	}

	client, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logr.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	logr.Info("Connected to Redis")
	return persistence.NewRedisKV(client, cfg.StateTTL)
}

func reportActiveSessions(ctx context.Context, registry *sessions.Registry, metrics *aws_pkg.MetricsClient) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = metrics.RecordValue(ctx, aws_pkg.MetricActiveSessions, float64(registry.Len()), map[string]string{"Service": serviceName})
		}
	}
}
