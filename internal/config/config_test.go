package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Game.Difficulty != nil || cfg.Game.Seed != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[game]
difficulty = "hard"
player = "ada"
seed = 42
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Game.Difficulty == nil || *cfg.Game.Difficulty != "hard" {
		t.Fatalf("unexpected difficulty: %v", cfg.Game.Difficulty)
	}
	if cfg.Game.Player == nil || *cfg.Game.Player != "ada" {
		t.Fatalf("unexpected player: %v", cfg.Game.Player)
	}
	if cfg.Game.Seed == nil || *cfg.Game.Seed != 42 {
		t.Fatalf("unexpected seed: %v", cfg.Game.Seed)
	}
	if cfg.Game.StateFile != nil {
		t.Fatalf("expected unset state file")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\ndifficultly = \"hard\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "difficultly") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestApplyEnvAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("TUIGUESS_STATE_FILE=/tmp/from-dotenv.json\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvStateFile, "")
	os.Unsetenv(EnvStateFile)
	t.Setenv(EnvLogLevel, "debug")

	if err := LoadDotEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}

	var cfg FileConfig
	ApplyEnv(&cfg)
	if cfg.Game.StateFile == nil || *cfg.Game.StateFile != "/tmp/from-dotenv.json" {
		t.Fatalf("unexpected state file: %v", cfg.Game.StateFile)
	}
	if cfg.Game.LogLevel == nil || *cfg.Game.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Game.LogLevel)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultStatePath(); got != filepath.Join("/data", "tuiguess", "high-scores.json") {
		t.Fatalf("unexpected state path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tuiguess", "history.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tuiguess", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "tuiguess", "tuiguess.log") {
		t.Fatalf("unexpected log path %s", got)
	}
}
