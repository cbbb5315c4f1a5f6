package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://override:27017")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "30")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "8080"
logLevel: "info"
mongoURI: "mongodb://localhost:27017"
mongoDatabase: "lecturehub"
redisAddr: "localhost:6379"
sessionStrategy: "redis"
sessionTTL: "24h"
authRateLimitPerMinute: 10
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MongoURI != "mongodb://override:27017" {
		t.Fatalf("mongoURI = %q, want env override", cfg.MongoURI)
	}
	if cfg.SessionTTL != "12h" {
		t.Fatalf("sessionTTL = %q, want 12h", cfg.SessionTTL)
	}
	if cfg.AuthRatePerMin != 30 {
		t.Fatalf("authRateLimitPerMinute = %d, want 30", cfg.AuthRatePerMin)
	}

	ttl, err := ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		t.Fatalf("ParseSessionTTL: %v", err)
	}
	if ttl.Hours() != 12 {
		t.Fatalf("ttl = %v, want 12h", ttl)
	}
}

func TestValidateConfigRejectsJWTWithoutSecret(t *testing.T) {
	cfg := FileConfig{
		Port:            "8080",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "lecturehub",
		SessionStrategy: "jwt",
	}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for jwt strategy without secret")
	}
}

func TestValidateConfigRejectsUnknownStrategy(t *testing.T) {
	cfg := FileConfig{
		Port:            "8080",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "lecturehub",
		SessionStrategy: "cookies",
	}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for unknown strategy")
	}
}

func TestValidateConfigRejectsRedisWithoutAddr(t *testing.T) {
	cfg := FileConfig{
		Port:            "8080",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "lecturehub",
		SessionStrategy: "redis",
	}
	if err := validateConfig(cfg); err == nil {
		t.Fatalf("validateConfig() expected error for redis strategy without addr")
	}
}
