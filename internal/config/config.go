package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	SourceSupabase = "supabase"
	SourcePostgres = "postgres"
	SourceDemo     = "demo"
)

type Config struct {
	TrendSource      string
	SupabaseURL      string
	SupabaseKey      string
	SupabaseTable    string
	SupabasePageSize int

	DatabaseURL      string
	RedisURL         string
	MirrorToPostgres bool

	RefreshPollSecs      int
	SnapshotCacheTTLSecs int
	HistoryWarmCount     int

	HTTPPort          int
	APIKey            string
	RefreshRatePerMin int

	MCPHTTPEnabled bool
	MCPHTTPPath    string

	TelegramBotToken string
	OpenAIAPIKey     string
	OpenAIModel      string

	SSHPort                int
	SSHHostKeyPath         string
	SSHAllowedFingerprints []string
}

func Load() *Config {
	cfg := &Config{
		SupabaseURL:      strings.TrimSpace(os.Getenv("SUPABASE_URL")),
		SupabaseKey:      os.Getenv("SUPABASE_KEY"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           os.Getenv("API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		SSHHostKeyPath:   strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH")),
	}

	cfg.TrendSource = strings.ToLower(strings.TrimSpace(os.Getenv("TREND_SOURCE")))
	switch cfg.TrendSource {
	case SourceSupabase, SourcePostgres, SourceDemo:
	case "":
		cfg.TrendSource = SourceSupabase
	default:
		log.Printf("Warning: unsupported TREND_SOURCE=%q, defaulting to %s", cfg.TrendSource, SourceSupabase)
		cfg.TrendSource = SourceSupabase
	}
	if cfg.TrendSource == SourceSupabase && (cfg.SupabaseURL == "" || cfg.SupabaseKey == "") {
		log.Println("Warning: SUPABASE_URL or SUPABASE_KEY not set, refreshes will fail")
	}

	cfg.SupabaseTable = strings.TrimSpace(os.Getenv("SUPABASE_TABLE"))
	if cfg.SupabaseTable == "" {
		cfg.SupabaseTable = "nfl_fantasy_trends"
	}
	cfg.SupabasePageSize = positiveInt("SUPABASE_PAGE_SIZE", 1000)

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	cfg.MirrorToPostgres = boolEnv("MIRROR_TO_POSTGRES")
	if cfg.TrendSource == SourcePostgres && cfg.MirrorToPostgres {
		log.Println("Warning: MIRROR_TO_POSTGRES ignored when reading from postgres")
		cfg.MirrorToPostgres = false
	}

	cfg.RefreshPollSecs = positiveInt("REFRESH_POLL_SECS", 300)
	cfg.SnapshotCacheTTLSecs = positiveInt("SNAPSHOT_CACHE_TTL_SECS", 600)
	cfg.HistoryWarmCount = 10
	if v := strings.TrimSpace(os.Getenv("HISTORY_WARM_COUNT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.HistoryWarmCount = n
		}
	}

	cfg.HTTPPort = positiveInt("HTTP_PORT", 8080)
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, API routes are unauthenticated")
	}
	cfg.RefreshRatePerMin = positiveInt("REFRESH_RATE_PER_MIN", 6)

	cfg.MCPHTTPEnabled = boolEnv("MCP_HTTP_ENABLED")
	cfg.MCPHTTPPath = strings.TrimSpace(os.Getenv("MCP_HTTP_PATH"))
	if cfg.MCPHTTPPath == "" {
		cfg.MCPHTTPPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.MCPHTTPPath, "/") {
		cfg.MCPHTTPPath = "/" + cfg.MCPHTTPPath
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, insights will not be narrated")
	}
	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.SSHPort = positiveInt("SSH_PORT", 2222)
	for _, fp := range strings.Split(os.Getenv("SSH_ALLOWED_FINGERPRINTS"), ",") {
		if fp = strings.TrimSpace(fp); fp != "" {
			cfg.SSHAllowedFingerprints = append(cfg.SSHAllowedFingerprints, fp)
		}
	}

	return cfg
}

func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, defaulting to %d", key, v, def)
		return def
	}
	return n
}

func boolEnv(key string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), "true")
}
