package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.DefaultQuarter != "q3-2024" {
		t.Fatalf("expected default quarter q3-2024, got %q", cfg.DefaultQuarter)
	}
	if cfg.UnitFanout != 8 {
		t.Fatalf("expected fanout 8, got %d", cfg.UnitFanout)
	}
	if cfg.WarehouseEnabled || cfg.RedisEnabled {
		t.Fatalf("optional connectors must default off")
	}
	if cfg.ViewStorePath != "" {
		t.Fatalf("view store must default off, got %q", cfg.ViewStorePath)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_LISTEN_ADDR", ":9090")
	t.Setenv("APP_CACHE_TTL_SEC", "60")
	t.Setenv("APP_DEFAULT_QUARTER", "q1-2024")
	t.Setenv("APP_REDIS_ENABLED", "true")
	t.Setenv("APP_UNIT_FANOUT", "not-a-number")

	cfg := FromEnv()

	if cfg.ListenAddr != ":9090" {
		t.Fatalf("listen addr override not applied: %q", cfg.ListenAddr)
	}
	if cfg.CacheTTL != time.Minute {
		t.Fatalf("TTL override not applied: %v", cfg.CacheTTL)
	}
	if cfg.DefaultQuarter != "q1-2024" {
		t.Fatalf("quarter override not applied: %q", cfg.DefaultQuarter)
	}
	if !cfg.RedisEnabled {
		t.Fatalf("redis enable not applied")
	}
	if cfg.UnitFanout != 8 {
		t.Fatalf("unparseable int must keep the default, got %d", cfg.UnitFanout)
	}
}

func TestApplyEnvDefaultsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.env")
	body := strings.Join([]string{
		"# comment",
		"",
		`APP_TEST_QUOTED="quoted value"`,
		"APP_TEST_PLAIN=plain",
		"not a key value line",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("APP_TEST_QUOTED", "")
	t.Setenv("APP_TEST_PLAIN", "preset")
	os.Unsetenv("APP_TEST_QUOTED")

	if err := applyEnvDefaultsFromFile(path); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got := os.Getenv("APP_TEST_QUOTED"); got != "quoted value" {
		t.Fatalf("quotes must strip, got %q", got)
	}
	if got := os.Getenv("APP_TEST_PLAIN"); got != "preset" {
		t.Fatalf("existing env must win over file default, got %q", got)
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := Config{
		DBUser: "audit", DBPassword: "secret", DBHost: "db.internal", DBPort: 3306,
		DBName: "audit_metrics", DBConnTimeout: 5 * time.Second, DBQueryTimeout: 10 * time.Second,
	}
	dsn := cfg.MySQLDSN()
	if !strings.HasPrefix(dsn, "audit:secret@tcp(db.internal:3306)/audit_metrics?") {
		t.Fatalf("unexpected DSN prefix: %s", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("DSN must request parseTime: %s", dsn)
	}
}
