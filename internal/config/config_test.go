package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/statlink/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "statlink" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("unexpected store driver: %q", cfg.StoreDriver)
	}
	if cfg.TeamMatchThreshold != 0.80 || cfg.PlayerMatchThreshold != 0.85 {
		t.Fatalf("unexpected thresholds: team=%v player=%v", cfg.TeamMatchThreshold, cfg.PlayerMatchThreshold)
	}
	if cfg.MatchScorer != "block" {
		t.Fatalf("unexpected scorer: %q", cfg.MatchScorer)
	}
	if cfg.IngestMaxWorkers != 4 || cfg.LinkMaxWorkers != 8 {
		t.Fatalf("unexpected worker defaults: ingest=%d link=%d", cfg.IngestMaxWorkers, cfg.LinkMaxWorkers)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.RedisEnabled {
		t.Fatalf("expected redis disabled by default")
	}
	if !cfg.RedisCircuit.Enabled || cfg.RedisCircuit.TripAfter != 5 {
		t.Fatalf("unexpected redis circuit defaults: %+v", cfg.RedisCircuit)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `x-other=1, uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_StoreDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("memory accepted", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", " Memory ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StoreDriver != StoreDriverMemory {
			t.Fatalf("unexpected store driver: %q", cfg.StoreDriver)
		}
	})

	t.Run("unknown rejected", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORE_DRIVER")
		}
	})
}

func TestLoad_MatchThresholdBounds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cases := []struct {
		name  string
		key   string
		value string
		ok    bool
	}{
		{name: "team one is allowed", key: "TEAM_MATCH_THRESHOLD", value: "1", ok: true},
		{name: "player custom", key: "PLAYER_MATCH_THRESHOLD", value: "0.9", ok: true},
		{name: "team zero rejected", key: "TEAM_MATCH_THRESHOLD", value: "0", ok: false},
		{name: "player above one rejected", key: "PLAYER_MATCH_THRESHOLD", value: "1.2", ok: false},
		{name: "not a number", key: "PLAYER_MATCH_THRESHOLD", value: "high", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			if tc.ok && err != nil {
				t.Fatalf("load config: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_MatchScorerValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("MATCH_SCORER", "soundex")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown MATCH_SCORER")
	}
}

func TestLoad_WorkerCountsMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("LINK_MAX_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for LINK_MAX_WORKERS=0")
	}
}

func TestLoad_LogLevelValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("warn", func(t *testing.T) {
		t.Setenv("APP_LOG_LEVEL", "warn")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LogLevel != logging.LevelWarn {
			t.Fatalf("unexpected log level: %s", cfg.LogLevel)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("APP_LOG_LEVEL", "loud")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid APP_LOG_LEVEL")
		}
	})
}

func TestLoad_ProdRequiresInternalJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InternalJobToken != "job-token" {
		t.Fatalf("unexpected internal job token: %q", cfg.InternalJobToken)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "statlink-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "statlink-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_RedisConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("enabled requires url", func(t *testing.T) {
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when REDIS_ENABLED=true without REDIS_URL")
		}
	})

	t.Run("enabled with values", func(t *testing.T) {
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("REDIS_LINK_STREAM", "links")
		t.Setenv("REDIS_STREAM_MAXLEN", "500")
		t.Setenv("REDIS_TIMEOUT", "1s")
		t.Setenv("REDIS_CIRCUIT_ENABLED", "false")
		t.Setenv("REDIS_CIRCUIT_FAILURE_COUNT", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RedisLinkStream != "links" || cfg.RedisStreamMaxLen != 500 {
			t.Fatalf("unexpected redis stream config: %q %d", cfg.RedisLinkStream, cfg.RedisStreamMaxLen)
		}
		if cfg.RedisTimeout != time.Second {
			t.Fatalf("unexpected redis timeout: %s", cfg.RedisTimeout)
		}
		if cfg.RedisCircuit.Enabled || cfg.RedisCircuit.TripAfter != 3 {
			t.Fatalf("unexpected redis circuit: %+v", cfg.RedisCircuit)
		}
	})

	t.Run("invalid half open", func(t *testing.T) {
		t.Setenv("REDIS_CIRCUIT_HALF_OPEN_MAX_REQ", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for REDIS_CIRCUIT_HALF_OPEN_MAX_REQ=0")
		}
	})
}

func TestLoad_FeedConfigParsing(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FeedTimeout != 30*time.Second || cfg.FeedRetries != 2 || !cfg.FeedCircuit.Enabled {
		t.Fatalf("unexpected feed defaults: %s %d %+v", cfg.FeedTimeout, cfg.FeedRetries, cfg.FeedCircuit)
	}

	t.Setenv("FEED_TIMEOUT", "5s")
	t.Setenv("FEED_RETRIES", "0")
	t.Setenv("FEED_TOKEN", " secret ")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FeedTimeout != 5*time.Second || cfg.FeedRetries != 0 || cfg.FeedToken != "secret" {
		t.Fatalf("unexpected feed config: %s %d %q", cfg.FeedTimeout, cfg.FeedRetries, cfg.FeedToken)
	}

	t.Setenv("FEED_RETRIES", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for FEED_RETRIES=-1")
	}
}
