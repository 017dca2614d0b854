package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/scenegraph/pkg/cache"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Server.Addr != defaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, defaultAddr)
	}
	if cfg.Server.MongoDatabase != appName {
		t.Errorf("MongoDatabase = %q", cfg.Server.MongoDatabase)
	}
	if cfg.Cache.TTL.Duration != cache.DefaultTTL {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, appName, "config.toml")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	content := `
[server]
addr = ":9090"
mongo_uri = "mongodb://db:27017"

[cache]
redis_addr = "redis:6379"
ttl = "1h"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.MongoURI != "mongodb://db:27017" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.MongoDatabase != appName {
		t.Errorf("unset database should keep default, got %q", cfg.Server.MongoDatabase)
	}
	if cfg.Cache.RedisAddr != "redis:6379" || cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("explicit missing config should fail")
	}

	unknown := filepath.Join(dir, "unknown.toml")
	_ = os.WriteFile(unknown, []byte("[server]\nport = 1\n"), 0o644)
	if _, err := loadConfig(unknown); err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Errorf("unknown key error = %v", err)
	}

	badTTL := filepath.Join(dir, "ttl.toml")
	_ = os.WriteFile(badTTL, []byte("[cache]\nttl = \"soon\"\n"), 0o644)
	if _, err := loadConfig(badTTL); err == nil {
		t.Error("invalid duration should fail")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := defaultConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/xdg", appName, "config.toml") {
		t.Errorf("defaultConfigPath() = %q", p)
	}
}
