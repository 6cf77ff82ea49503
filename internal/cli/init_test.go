package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/examguard/internal/config"
)

func TestInitCommandWritesStarterConfig(t *testing.T) {
	loader := testLoader(t)
	cmd := newInitCmd(loader)

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--interval", "3s", "--detectors", "remote-tools,vpn"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("init command failed: %v\nOutput: %s", err, buf.String())
	}

	if !strings.Contains(buf.String(), loader.ConfigPath) {
		t.Fatalf("expected config path in message, got: %s", buf.String())
	}

	cfg, err := loader.Load(config.Overrides{})
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Interval != 3*time.Second {
		t.Fatalf("expected interval 3s, got %s", cfg.Interval)
	}
	if len(cfg.Detectors) != 2 {
		t.Fatalf("expected 2 detectors, got %v", cfg.Detectors)
	}

	data, err := os.ReadFile(loader.ConfigPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "TeamViewer.exe") {
		t.Fatalf("starter config should carry the default process lists:\n%s", data)
	}
}

func TestInitCommandRefusesToOverwrite(t *testing.T) {
	loader := testLoader(t)
	if err := os.WriteFile(loader.ConfigPath, []byte("interval: 9s\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newInitCmd(loader)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}

	data, _ := os.ReadFile(loader.ConfigPath)
	if string(data) != "interval: 9s\n" {
		t.Fatalf("existing config must be untouched, got %s", data)
	}
}

func TestInitCommandForceOverwrites(t *testing.T) {
	loader := testLoader(t)
	if err := os.WriteFile(loader.ConfigPath, []byte("interval: 9s\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newInitCmd(loader)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--force"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	cfg, err := loader.Load(config.Overrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Interval != config.DefaultInterval {
		t.Fatalf("expected default interval after overwrite, got %s", cfg.Interval)
	}
}

func TestInitCommandRejectsInvalidValues(t *testing.T) {
	loader := testLoader(t)
	cmd := newInitCmd(loader)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--interval", "1s", "--poll-interval", "2s"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(loader.ConfigPath); !os.IsNotExist(err) {
		t.Fatalf("no file should be written for an invalid config, stat err=%v", err)
	}
}

func TestInitCommandCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "examguard", "examguard.config.yml")
	cmd := newInitCmd(&config.Loader{ConfigPath: path})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not created: %v", err)
	}
}
