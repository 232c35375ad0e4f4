package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"fantasy-trends/internal/bot"
	"fantasy-trends/internal/config"
	"fantasy-trends/internal/job"
	"fantasy-trends/internal/provider"
	"fantasy-trends/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(&config.Config{TrendSource: config.SourceDemo, HTTPPort: 8080, RefreshPollSecs: 1})
	defer restore()

	var telegramToken string
	startTelegramBotFunc = func(token string, cmds *bot.Commands) { telegramToken = token }

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	assert.Empty(t, telegramToken)
}

func TestNewRouterServesAPIAndMCP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orig := newRouterFunc
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	defer func() { newRouterFunc = orig }()

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	svc := service.NewTrendService(tracer, provider.NewDemoProvider(tracer), nil, nil, time.Minute)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	cfg := &config.Config{APIKey: "secret", RefreshRatePerMin: 6, MCPHTTPEnabled: true, MCPHTTPPath: "/mcp"}
	r := newRouter(cfg, tracer, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"demo"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "MCP endpoint shares the API key")
}

func TestNewRouterWithoutMCP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	svc := service.NewTrendService(tracer, provider.NewDemoProvider(tracer), nil, nil, time.Minute)

	r := newRouter(&config.Config{MCPHTTPPath: "/mcp"}, tracer, svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewMirrorDisabledWithoutPool(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	mirror, err := newMirror(context.Background(), &config.Config{MirrorToPostgres: true}, tracer)
	require.NoError(t, err)
	assert.Nil(t, mirror)
}

func stubServerDeps(cfg *config.Config) func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origStartPoller := startPollerFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config { return cfg }
	initPostgresFunc = func(context.Context) error { return nil }
	initRedisFunc = func(context.Context) error { return nil }
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	startPollerFunc = func(*job.SnapshotPoller, context.Context) {}
	startTelegramBotFunc = func(string, *bot.Commands) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		startPollerFunc = origStartPoller
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
