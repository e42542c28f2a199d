package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(dbPathEnv, "")
	t.Setenv(httpHostEnv, "")
	t.Setenv(httpPortEnv, "")
	t.Setenv(logLevelEnv, "")

	cfg := Load()
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8080 {
		t.Fatalf("server defaults: %+v", cfg.Server)
	}
	if cfg.Scoring.HighAt != 0.7 || cfg.Scoring.CriticalAt != 0.9 {
		t.Fatalf("scoring defaults: %+v", cfg.Scoring)
	}
	if cfg.Synthesis.ContradictionGap != 2 {
		t.Fatalf("synthesis default: %+v", cfg.Synthesis)
	}
	if cfg.Decision.RiskCeilings.Low != 0.5 || cfg.Decision.RiskCeilings.High != 0 {
		t.Fatalf("risk ceiling defaults: %+v", cfg.Decision.RiskCeilings)
	}
	if cfg.Decision.RiskAttribute != "risk" {
		t.Fatalf("risk attribute default: %q", cfg.Decision.RiskAttribute)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9090
scoring:
  criticalAt: 0.95
  highAt: 0.75
  mediumAt: 0.45
  lowAt: 0.2
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(httpPortEnv, "")

	cfg := Load()
	if cfg.Server.Port != 9090 {
		t.Fatalf("port not overridden: %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Fatalf("unset host must keep default: %s", cfg.Server.Host)
	}
	if cfg.Scoring.HighAt != 0.75 {
		t.Fatalf("scoring not overridden: %+v", cfg.Scoring)
	}
	if cfg.Decision.RiskAttribute != "risk" {
		t.Fatalf("untouched section must keep defaults: %q", cfg.Decision.RiskAttribute)
	}
}

func TestLoadEnvBeatsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(httpPortEnv, "7070")
	t.Setenv(dbPathEnv, "/tmp/other.db")

	cfg := Load()
	if cfg.Server.Port != 7070 {
		t.Fatalf("env must beat yaml: %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/other.db" {
		t.Fatalf("db path override: %s", cfg.Database.Path)
	}
}

func TestLoadIgnoresInvalidPort(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(httpPortEnv, "not-a-port")

	cfg := Load()
	if cfg.Server.Port != 8080 {
		t.Fatalf("invalid port must keep default, got %d", cfg.Server.Port)
	}
}

func TestLoadMissingConfigFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv(httpPortEnv, "")

	cfg := Load()
	if cfg.Server.Port != 8080 {
		t.Fatalf("missing file must fall back to defaults, got %d", cfg.Server.Port)
	}
}
