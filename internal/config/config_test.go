package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/examguard/internal/detector"
)

func TestLoaderLoadWithFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "examguard.config.yml")
	configBody := []byte(`interval: 3s
pollInterval: 50ms
idleThreshold: 45s
detectors: remote-tools, vpn
parallel: true
detectorTimeout: 2s
processLists:
  vpn:
    - wg-quick
    - openvpn
`)
	if err := os.WriteFile(configPath, configBody, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(envInterval, "4s")
	t.Setenv(envFormat, "json")

	loader := Loader{ConfigPath: configPath}
	cfg, err := loader.Load(Overrides{})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}

	if cfg.Interval != 4*time.Second {
		t.Fatalf("env override should set interval to 4s, got %s", cfg.Interval)
	}
	if cfg.PollInterval != 50*time.Millisecond {
		t.Fatalf("expected poll interval from file, got %s", cfg.PollInterval)
	}
	if cfg.IdleThreshold != 45*time.Second {
		t.Fatalf("expected idle threshold 45s, got %s", cfg.IdleThreshold)
	}
	if len(cfg.Detectors) != 2 || cfg.Detectors[1] != detector.IDVPN {
		t.Fatalf("unexpected detectors: %#v", cfg.Detectors)
	}
	if !cfg.Parallel || cfg.DetectorTimeout != 2*time.Second {
		t.Fatalf("expected parallel with a 2s timeout from file, got %v/%s", cfg.Parallel, cfg.DetectorTimeout)
	}
	if cfg.Format != "json" {
		t.Fatalf("expected format json from env, got %s", cfg.Format)
	}
	if got := cfg.ProcessLists[detector.IDVPN]; len(got) != 2 || got[0] != "wg-quick" {
		t.Fatalf("file list should replace the default vpn list, got %#v", got)
	}
	if len(cfg.ProcessLists[detector.IDRemoteTools]) == 0 {
		t.Fatal("lists not mentioned in the file should keep their defaults")
	}
}

func TestOverridesReplaceFileValues(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "examguard.config.yml")
	if err := os.WriteFile(configPath, []byte("detectors:\n  - vpn\ndetectorTimeout: 2s\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	noTimeout := time.Duration(0)
	loader := Loader{ConfigPath: configPath}
	cfg, err := loader.Load(Overrides{Detectors: []string{"idle-input"}, DetectorTimeout: &noTimeout})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if len(cfg.Detectors) != 1 || cfg.Detectors[0] != detector.IDIdleInput {
		t.Fatalf("expected overrides to replace detectors, got %#v", cfg.Detectors)
	}
	if cfg.DetectorTimeout != 0 {
		t.Fatalf("explicit zero timeout should win, got %s", cfg.DetectorTimeout)
	}
}

func TestLoaderRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "examguard.config.yml")
	if err := os.WriteFile(configPath, []byte("interval: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := (Loader{ConfigPath: configPath}).Load(Overrides{}); err == nil {
		t.Fatal("expected an error for an unparsable duration")
	}
}

func TestLoaderRejectsBadEnv(t *testing.T) {
	t.Setenv(envParallel, "sometimes")
	if _, err := (Loader{ConfigPath: filepath.Join(t.TempDir(), "none.yml")}).Load(Overrides{}); err == nil {
		t.Fatal("expected an error for an unparsable boolean")
	}
}

func TestDefaultRuntimeConfigIsValid(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Interval != 5*time.Second || cfg.PollInterval != 100*time.Millisecond || cfg.IdleThreshold != 20*time.Second {
		t.Fatalf("unexpected default timing: %+v", cfg)
	}
	if cfg.CaptureInterval != time.Second {
		t.Fatalf("unexpected capture interval %s", cfg.CaptureInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RuntimeConfig)
		wantErr string
	}{
		{name: "zero interval", mutate: func(c *RuntimeConfig) { c.Interval = 0 }, wantErr: "Interval"},
		{name: "poll slower than refresh", mutate: func(c *RuntimeConfig) { c.PollInterval = 10 * time.Second }, wantErr: "poll interval"},
		{name: "no detectors", mutate: func(c *RuntimeConfig) { c.Detectors = nil }, wantErr: "Detectors"},
		{name: "unknown format", mutate: func(c *RuntimeConfig) { c.Format = "xml" }, wantErr: "Format"},
		{name: "bad metrics addr", mutate: func(c *RuntimeConfig) { c.MetricsAddr = "not an address" }, wantErr: "MetricsAddr"},
		{name: "unknown detector", mutate: func(c *RuntimeConfig) { c.Detectors = []string{"keylogger"} }, wantErr: "unknown detector"},
		{name: "empty list", mutate: func(c *RuntimeConfig) { c.ProcessLists[detector.ListVMTools] = nil }, wantErr: "vm-tools"},
		{name: "negative display", mutate: func(c *RuntimeConfig) { c.CaptureDisplay = -1 }, wantErr: "CaptureDisplay"},
		{name: "parallel without timeout", mutate: func(c *RuntimeConfig) { c.Parallel = true }, wantErr: "DetectorTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRuntimeConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParallelWithTimeoutIsValid(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.Parallel = true
	cfg.DetectorTimeout = 500 * time.Millisecond
	if err := cfg.Validate(); err != nil {
		t.Fatalf("parallel with a timeout should validate, got %v", err)
	}

	cfg.Parallel = false
	cfg.DetectorTimeout = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sequential evaluation needs no timeout, got %v", err)
	}
}

func TestUnknownDetectorWrapsSentinel(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.Detectors = []string{"keylogger"}
	if err := cfg.Validate(); !errors.Is(err, detector.ErrUnknownDetector) {
		t.Fatalf("expected ErrUnknownDetector, got %v", err)
	}
}

func TestParseList(t *testing.T) {
	input := "remote-tools,vpn\nidle-input  macro-tools"
	ids := ParseList(input)
	if len(ids) != 4 {
		t.Fatalf("expected 4 ids, got %d (%v)", len(ids), ids)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "examguard.config.yml")
	cfg := DefaultRuntimeConfig()
	cfg.Interval = 7 * time.Second
	cfg.Parallel = true
	cfg.DetectorTimeout = time.Second

	if err := cfg.WriteFile(path, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := cfg.WriteFile(path, false); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}

	loaded, err := (Loader{ConfigPath: path}).Load(Overrides{})
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if loaded.Interval != 7*time.Second || !loaded.Parallel {
		t.Fatalf("written config not read back: %+v", loaded)
	}
	if len(loaded.ProcessLists[detector.IDMacroTools]) != len(DefaultProcessLists()[detector.IDMacroTools]) {
		t.Fatal("process lists should survive the round trip")
	}
}

func TestStarterIgnoresEnvironment(t *testing.T) {
	t.Setenv(envFormat, "json")

	cfg := Starter(Overrides{Interval: 9 * time.Second})
	if cfg.Format != "text" {
		t.Fatalf("starter config must not read the environment, got format %s", cfg.Format)
	}
	if cfg.Interval != 9*time.Second {
		t.Fatalf("expected override interval, got %s", cfg.Interval)
	}
}
