package config

import (
	"reflect"
	"testing"
)

var configKeys = []string{
	"TREND_SOURCE", "SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_TABLE", "SUPABASE_PAGE_SIZE",
	"DATABASE_URL", "REDIS_URL", "MIRROR_TO_POSTGRES", "REFRESH_POLL_SECS", "SNAPSHOT_CACHE_TTL_SECS",
	"HISTORY_WARM_COUNT", "HTTP_PORT", "API_KEY", "REFRESH_RATE_PER_MIN", "MCP_HTTP_ENABLED", "MCP_HTTP_PATH",
	"TELEGRAM_BOT_TOKEN", "OPENAI_API_KEY", "OPENAI_MODEL", "SSH_PORT", "SSH_HOST_KEY_PATH",
	"SSH_ALLOWED_FINGERPRINTS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.TrendSource != SourceSupabase {
		t.Fatalf("expected supabase source, got %s", cfg.TrendSource)
	}
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.SupabaseTable != "nfl_fantasy_trends" || cfg.SupabasePageSize != 1000 {
		t.Fatalf("unexpected supabase defaults: %+v", cfg)
	}
	if cfg.RefreshPollSecs != 300 || cfg.SnapshotCacheTTLSecs != 600 || cfg.HistoryWarmCount != 10 {
		t.Fatalf("unexpected refresh defaults: %+v", cfg)
	}
	if cfg.HTTPPort != 8080 || cfg.SSHPort != 2222 || cfg.MCPHTTPPath != "/mcp" || cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("unexpected surface defaults: %+v", cfg)
	}
	if cfg.MirrorToPostgres || cfg.MCPHTTPEnabled || len(cfg.SSHAllowedFingerprints) != 0 {
		t.Fatalf("flags should default off: %+v", cfg)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TREND_SOURCE", "Demo")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("MIRROR_TO_POSTGRES", "TRUE")
	t.Setenv("REFRESH_POLL_SECS", "60")
	t.Setenv("HISTORY_WARM_COUNT", "0")
	t.Setenv("MCP_HTTP_ENABLED", "true")
	t.Setenv("MCP_HTTP_PATH", "tools")
	t.Setenv("SSH_ALLOWED_FINGERPRINTS", "SHA256:abc, ,SHA256:def ")

	cfg := Load()
	if cfg.TrendSource != SourceDemo || !cfg.MirrorToPostgres {
		t.Fatalf("unexpected source config: %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected storage config: %+v", cfg)
	}
	if cfg.RefreshPollSecs != 60 || cfg.HistoryWarmCount != 0 {
		t.Fatalf("unexpected refresh config: %+v", cfg)
	}
	if !cfg.MCPHTTPEnabled || cfg.MCPHTTPPath != "/tools" {
		t.Fatalf("unexpected mcp config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.SSHAllowedFingerprints, []string{"SHA256:abc", "SHA256:def"}) {
		t.Fatalf("unexpected fingerprints: %v", cfg.SSHAllowedFingerprints)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TREND_SOURCE", "sheets")
	t.Setenv("REFRESH_POLL_SECS", "bad")
	t.Setenv("HTTP_PORT", "-1")
	t.Setenv("HISTORY_WARM_COUNT", "-3")

	cfg := Load()
	if cfg.TrendSource != SourceSupabase {
		t.Fatalf("invalid source should fall back, got %s", cfg.TrendSource)
	}
	if cfg.RefreshPollSecs != 300 || cfg.HTTPPort != 8080 || cfg.HistoryWarmCount != 10 {
		t.Fatalf("invalid numbers should fall back: %+v", cfg)
	}
}

func TestMirrorIgnoredForPostgresSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("TREND_SOURCE", "postgres")
	t.Setenv("MIRROR_TO_POSTGRES", "true")

	if cfg := Load(); cfg.MirrorToPostgres {
		t.Fatal("mirroring postgres into itself should be disabled")
	}
}
