package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/tuiguess/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, env := range []string{config.EnvStateFile, config.EnvHistoryDB, config.EnvLogLevel, config.EnvPlayer} {
		t.Setenv(env, "")
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDifficultiesCmd(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "difficulties")
	if err != nil {
		t.Fatalf("difficulties: %v", err)
	}
	for _, want := range []string{"easy", "* medium", "Expert (1-500, 6 attempts, 5x multiplier)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPlainThenHistory(t *testing.T) {
	isolate(t)
	// Ten guesses always end a medium game; the trailing line declines a replay.
	input := "\n" + strings.Repeat("50\n", 10) + "n\n"
	out, err := execute(t, input, "plain", "--player", "ada", "--seed", "7")
	if err != nil {
		t.Fatalf("plain: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Thank you for playing!") {
		t.Fatalf("expected farewell:\n%s", out)
	}
	if _, err := os.Stat(config.DefaultStatePath()); err != nil {
		t.Fatalf("expected state file: %v", err)
	}

	out, err = execute(t, "", "history", "--player", "ADA")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "ada") || !strings.Contains(out, "Medium") {
		t.Fatalf("expected archived game:\n%s", out)
	}

	out, err = execute(t, "", "history", "--guesses")
	if err != nil {
		t.Fatalf("history --guesses: %v", err)
	}
	if !strings.Contains(out, "ada, Medium") || !strings.Contains(out, "  1. 50 ") {
		t.Fatalf("expected archived guess log:\n%s", out)
	}

	out, err = execute(t, "", "scores", "--top", "5")
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if !strings.Contains(out, "Games: 1") {
		t.Fatalf("expected one game in summary:\n%s", out)
	}
}

func TestFlagsOverrideStateFile(t *testing.T) {
	dir := isolate(t)
	custom := filepath.Join(dir, "custom", "scores.json")
	if _, err := execute(t, "\nq\n", "plain", "--player", "bob", "--state-file", custom); err != nil {
		t.Fatalf("plain: %v", err)
	}
	out, err := execute(t, "", "reset", "--yes", "--state-file", custom)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, custom) {
		t.Fatalf("expected reset of custom path:\n%s", out)
	}
	if _, err := os.Stat(custom); err != nil {
		t.Fatalf("expected reset to write custom path: %v", err)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "", "reset"); err == nil {
		t.Fatalf("expected reset without --yes to fail")
	}
}

func TestInvalidInputs(t *testing.T) {
	isolate(t)
	cases := [][]string{
		{"plain", "--difficulty", "impossible"},
		{"history", "--since", "yesterday"},
		{"history", "--last", "-1"},
		{"scores", "--top", "0"},
		{"scores", "--log-level", "loud"},
	}
	for _, args := range cases {
		if _, err := execute(t, "", args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestConfigFileSetsDefaults(t *testing.T) {
	isolate(t)
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template must parse: %v", err)
	}
	if err := os.WriteFile(path, []byte("[game]\ndifficulty = \"easy\"\nplayer = \"cfg\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := execute(t, "\nq\n", "plain")
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	if !strings.Contains(out, "between 1 and 50") {
		t.Fatalf("expected easy range from config:\n%s", out)
	}
	if strings.Contains(out, "Enter your name") {
		t.Fatalf("player from config should skip the name prompt:\n%s", out)
	}
}
