package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteFile when the target exists and
// overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// Encode renders the configuration in the on-disk format read by Loader.
func (c RuntimeConfig) Encode() ([]byte, error) {
	parallel, clearScreen, display := c.Parallel, c.Clear, c.CaptureDisplay
	raw := fileConfig{
		Interval:        c.Interval.String(),
		PollInterval:    c.PollInterval.String(),
		CaptureInterval: c.CaptureInterval.String(),
		IdleThreshold:   c.IdleThreshold.String(),
		DetectorTimeout: c.DetectorTimeout.String(),
		Detectors:       c.Detectors,
		Parallel:        &parallel,
		Format:          c.Format,
		Clear:           &clearScreen,
		MetricsAddr:     c.MetricsAddr,
		LogLevel:        c.LogLevel,
		LogFormat:       c.LogFormat,
		CaptureDisplay:  &display,
		DisplayMarkers:  c.DisplayMarkers,
		ProcessLists:    c.ProcessLists,
	}
	return yaml.Marshal(raw)
}

// WriteFile stores the configuration at path.
func (c RuntimeConfig) WriteFile(path string, overwrite bool) error {
	if !overwrite && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Starter returns the defaults with override applied, ignoring any existing
// file and the environment. It is the content written by "examguard init".
func Starter(override Overrides) RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.apply(override)
	return cfg
}
