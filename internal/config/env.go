package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment overrides, applied after the TOML file and before CLI flags.
const (
	EnvStateFile = "TUIGUESS_STATE_FILE"
	EnvHistoryDB = "TUIGUESS_HISTORY_DB"
	EnvLogLevel  = "TUIGUESS_LOG_LEVEL"
	EnvPlayer    = "TUIGUESS_PLAYER"
)

// LoadDotEnv loads variables from the given .env files without overriding
// variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv copies set environment overrides into cfg.
func ApplyEnv(cfg *FileConfig) {
	for env, target := range map[string]**string{
		EnvStateFile: &cfg.Game.StateFile,
		EnvHistoryDB: &cfg.Game.HistoryDB,
		EnvLogLevel:  &cfg.Game.LogLevel,
		EnvPlayer:    &cfg.Game.Player,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			value := v
			*target = &value
		}
	}
}
