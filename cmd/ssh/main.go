package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"fantasy-trends/internal/cache"
	"fantasy-trends/internal/config"
	"fantasy-trends/internal/db"
	"fantasy-trends/internal/job"
	"fantasy-trends/internal/provider"
	"fantasy-trends/internal/service"
	"fantasy-trends/internal/tui"
	"fantasy-trends/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

const serviceName = tracing.ServiceName + "-ssh"

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitNamedTracer
	newSourceFunc    = func(cfg *config.Config, tracer trace.Tracer) (provider.Source, error) {
		return provider.ForConfig(cfg, tracer, db.Pool)
	}
	startPollerFunc   = func(p *job.SnapshotPoller, ctx context.Context) { go p.Start(ctx) }
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	if err := initPostgresFunc(ctx); err != nil {
		log.Printf("postgres unavailable: %v", err)
	}
	if err := initRedisFunc(ctx); err != nil {
		log.Printf("redis unavailable, snapshot cache disabled: %v", err)
	}
	defer db.Close()

	tp, tracer, err := initTracerFunc(ctx, serviceName)
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

	var redisClient cache.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}

	// The board reads the same snapshot the API serves: restore it from Redis
	// and keep it current with its own refresh loop.
	trendService := service.NewTrendService(tracer, source, nil, redisClient,
		time.Duration(cfg.SnapshotCacheTTLSecs)*time.Second)
	if _, err := trendService.LoadCached(ctx); err != nil {
		log.Printf("snapshot cache read failed: %v", err)
	}
	startPollerFunc(job.NewSnapshotPoller(tracer, trendService, cfg.RefreshPollSecs, 0), ctx)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)
	allowKey := fingerprintAllowlist(cfg.SSHAllowedFingerprints)
	if len(cfg.SSHAllowedFingerprints) == 0 {
		log.Println("Warning: SSH_ALLOWED_FINGERPRINTS is empty, every key will be rejected")
	}

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			return allowKey(ctx.User(), key)
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewModel(trendService, s.User())
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}

// fingerprintAllowlist accepts a public key only when its SHA256 fingerprint
// is in the allowlist. An empty allowlist rejects everything.
func fingerprintAllowlist(allowed []string) func(user string, key gossh.PublicKey) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, fp := range allowed {
		set[strings.TrimSpace(fp)] = struct{}{}
	}
	return func(user string, key gossh.PublicKey) bool {
		fingerprint := gossh.FingerprintSHA256(key)
		if _, ok := set[fingerprint]; !ok {
			log.Printf("SSH auth denied: user=%s fingerprint=%s", user, fingerprint)
			return false
		}
		log.Printf("SSH auth accepted: user=%s fingerprint=%s", user, fingerprint)
		return true
	}
}
