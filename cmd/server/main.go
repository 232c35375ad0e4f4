package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fantasy-trends/internal/bot"
	"fantasy-trends/internal/cache"
	"fantasy-trends/internal/config"
	"fantasy-trends/internal/db"
	"fantasy-trends/internal/handler"
	"fantasy-trends/internal/insight"
	"fantasy-trends/internal/job"
	"fantasy-trends/internal/mcpserver"
	"fantasy-trends/internal/provider"
	"fantasy-trends/internal/repository"
	"fantasy-trends/internal/service"
	"fantasy-trends/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "fantasy-trends/docs"
)

const mcpVersion = "1.0.0"

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newSourceFunc    = func(cfg *config.Config, tracer trace.Tracer) (provider.Source, error) {
		return provider.ForConfig(cfg, tracer, db.Pool)
	}
	newTrendServiceFunc    = service.NewTrendService
	newPollerFunc          = job.NewSnapshotPoller
	startPollerFunc        = func(p *job.SnapshotPoller, ctx context.Context) { go p.Start(ctx) }
	newOpenAIClientFunc    = insight.NewOpenAIClient
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Fantasy Trends API
// @version         1.0
// @description     Weekly NFL fantasy roster and start trends: alerts, sleepers, favorites and team comparisons.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres and Redis are both optional.
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	if err := initPostgresFunc(ctx); err != nil {
		log.Printf("postgres unavailable: %v", err)
	}
	if err := initRedisFunc(ctx); err != nil {
		log.Printf("redis unavailable, snapshot cache disabled: %v", err)
	}
	defer db.Close()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	source, err := newSourceFunc(cfg, tracer)
	if err != nil {
		log.Fatalf("failed to select trend source: %v", err)
	}

	mirror, err := newMirror(ctx, cfg, tracer)
	if err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	var redisClient cache.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}

	trendService := newTrendServiceFunc(tracer, source, mirror, redisClient,
		time.Duration(cfg.SnapshotCacheTTLSecs)*time.Second)
	if ok, err := trendService.LoadCached(ctx); err != nil {
		log.Printf("snapshot cache read failed: %v", err)
	} else if ok {
		log.Println("serving cached snapshot until the first refresh completes")
	}

	// Refresh and history warming run in the background, stopped by ctx cancel.
	poller := newPollerFunc(tracer, trendService, cfg.RefreshPollSecs, cfg.HistoryWarmCount)
	startPollerFunc(poller, ctx)

	var llm insight.LLMClient
	if cfg.OpenAIAPIKey != "" {
		llm = newOpenAIClientFunc(cfg.OpenAIAPIKey)
		log.Println("insight narration enabled")
	}
	insightService := insight.NewInsightService(tracer, trendService, llm, cfg.OpenAIModel)

	startTelegramBotFunc(cfg.TelegramBotToken, bot.NewCommands(trendService, insightService))

	r := newRouter(cfg, tracer, trendService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		log.Printf("HTTP server listening on %s (source=%s)", srv.Addr, source.Name())
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// newRouter mounts the REST API, swagger, and the MCP endpoint when enabled.
func newRouter(cfg *config.Config, tracer trace.Tracer, trendService *service.TrendService) *gin.Engine {
	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.ServiceName))

	handler.New(tracer, trendService, cfg.RefreshRatePerMin).RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.MCPHTTPEnabled {
		mcp := mcpserver.New(tracer, trendService, mcpVersion)
		r.Any(cfg.MCPHTTPPath, handler.APIKeyAuth(cfg.APIKey), gin.WrapH(mcp.HTTPHandler()))
		log.Printf("MCP endpoint mounted at %s (%d tools)", cfg.MCPHTTPPath, len(mcp.Tools()))
	}
	return r
}

// newMirror returns the Postgres write-through for refreshed snapshots, or
// nil when mirroring is off or no database is connected.
func newMirror(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (service.TrendMirror, error) {
	if !cfg.MirrorToPostgres || db.Pool == nil {
		return nil, nil
	}
	repo := repository.NewTrendRepository(db.Pool, tracer)
	if err := repo.RunMigrations(ctx); err != nil {
		return nil, err
	}
	log.Println("mirroring refreshed snapshots to postgres")
	return repo, nil
}
