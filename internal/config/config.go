package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/example/examguard/internal/detector"
)

const (
	DefaultConfigPath = "examguard.config.yml"

	envInterval        = "EXAMGUARD_INTERVAL"
	envPollInterval    = "EXAMGUARD_POLL_INTERVAL"
	envCaptureInterval = "EXAMGUARD_CAPTURE_INTERVAL"
	envIdleThreshold   = "EXAMGUARD_IDLE_THRESHOLD"
	envDetectors       = "EXAMGUARD_DETECTORS"
	envParallel        = "EXAMGUARD_PARALLEL"
	envDetectorTimeout = "EXAMGUARD_DETECTOR_TIMEOUT"
	envFormat          = "EXAMGUARD_FORMAT"
	envMetricsAddr     = "EXAMGUARD_METRICS_ADDR"
	envLogLevel        = "EXAMGUARD_LOG_LEVEL"
	envLogFormat       = "EXAMGUARD_LOG_FORMAT"
)

// Loader merges configuration coming from files, environment variables, and CLI flags.
type Loader struct {
	ConfigPath string
}

// RuntimeConfig contains the fully merged settings of one monitor run.
type RuntimeConfig struct {
	Interval        time.Duration `validate:"gt=0"`
	PollInterval    time.Duration `validate:"gt=0"`
	CaptureInterval time.Duration `validate:"gt=0"`
	IdleThreshold   time.Duration `validate:"gt=0"`
	// DetectorTimeout must be set whenever Parallel is, so a stalled
	// detector cannot hold the whole concurrent cycle.
	DetectorTimeout time.Duration `validate:"required_if=Parallel true,gte=0"`

	Detectors []string `validate:"min=1,dive,required"`
	Parallel  bool

	Format      string `validate:"oneof=text json"`
	Clear       bool
	MetricsAddr string `validate:"omitempty,hostname_port"`
	LogLevel    string `validate:"oneof=trace debug info warn error disabled"`
	LogFormat   string `validate:"oneof=console json"`

	ProcessLists   map[string][]string
	DisplayMarkers []string `validate:"min=1,dive,required"`
	CaptureDisplay int      `validate:"gte=0"`
}

// Overrides captures values coming from a file, env vars or CLI flags. Zero
// values mean "not set".
type Overrides struct {
	Interval        time.Duration
	PollInterval    time.Duration
	CaptureInterval time.Duration
	IdleThreshold   time.Duration
	DetectorTimeout *time.Duration
	Detectors       []string
	Parallel        *bool
	Format          string
	Clear           *bool
	MetricsAddr     string
	LogLevel        string
	LogFormat       string
	ProcessLists    map[string][]string
	DisplayMarkers  []string
	CaptureDisplay  *int
}

// listKeys maps detectors to the process list they consult.
var listKeys = map[string]string{
	detector.IDRemoteTools:     detector.IDRemoteTools,
	detector.IDVirtualMachine:  detector.ListVMTools,
	detector.IDScreenRecorders: detector.IDScreenRecorders,
	detector.IDMacroTools:      detector.IDMacroTools,
	detector.IDVPN:             detector.IDVPN,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultRuntimeConfig returns the baseline configuration when no overrides are provided.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Interval:        DefaultInterval,
		PollInterval:    DefaultPollInterval,
		CaptureInterval: DefaultCaptureInterval,
		IdleThreshold:   DefaultIdleThreshold,
		Detectors:       append([]string(nil), detector.DefaultOrder...),
		Format:          "text",
		Clear:           true,
		LogLevel:        "info",
		LogFormat:       "console",
		ProcessLists:    DefaultProcessLists(),
		DisplayMarkers:  DefaultDisplayMarkers(),
	}
}

// Load resolves the final runtime configuration.
func (l Loader) Load(override Overrides) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	path := l.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	if fileExists(path) {
		fileOv, err := loadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		cfg.apply(fileOv)
	}

	envOv, err := overridesFromEnv()
	if err != nil {
		return cfg, err
	}
	cfg.apply(envOv)
	cfg.apply(override)

	return cfg, nil
}

// Validate ensures the config can drive a monitor run.
func (c RuntimeConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if c.PollInterval > c.Interval {
		return fmt.Errorf("poll interval %s must not exceed refresh interval %s", c.PollInterval, c.Interval)
	}

	for _, id := range c.Detectors {
		if _, ok := detector.DefaultRegistry[id]; !ok {
			return fmt.Errorf("%w: %s (known: %s)", detector.ErrUnknownDetector, id, strings.Join(detector.DefaultRegistry.IDs(), ", "))
		}
		if key, ok := listKeys[id]; ok && len(cleanList(c.ProcessLists[key])) == 0 {
			return fmt.Errorf("detector %s needs a non-empty process list %q", id, key)
		}
	}

	return nil
}

func (c *RuntimeConfig) apply(src Overrides) {
	if src.Interval > 0 {
		c.Interval = src.Interval
	}
	if src.PollInterval > 0 {
		c.PollInterval = src.PollInterval
	}
	if src.CaptureInterval > 0 {
		c.CaptureInterval = src.CaptureInterval
	}
	if src.IdleThreshold > 0 {
		c.IdleThreshold = src.IdleThreshold
	}
	if src.DetectorTimeout != nil {
		c.DetectorTimeout = *src.DetectorTimeout
	}
	if len(src.Detectors) > 0 {
		c.Detectors = cleanList(src.Detectors)
	}
	if src.Parallel != nil {
		c.Parallel = *src.Parallel
	}
	if src.Format != "" {
		c.Format = strings.ToLower(src.Format)
	}
	if src.Clear != nil {
		c.Clear = *src.Clear
	}
	if src.MetricsAddr != "" {
		c.MetricsAddr = src.MetricsAddr
	}
	if src.LogLevel != "" {
		c.LogLevel = strings.ToLower(src.LogLevel)
	}
	if src.LogFormat != "" {
		c.LogFormat = strings.ToLower(src.LogFormat)
	}
	for key, names := range src.ProcessLists {
		if c.ProcessLists == nil {
			c.ProcessLists = map[string][]string{}
		}
		c.ProcessLists[key] = cleanList(names)
	}
	if len(src.DisplayMarkers) > 0 {
		c.DisplayMarkers = cleanList(src.DisplayMarkers)
	}
	if src.CaptureDisplay != nil {
		c.CaptureDisplay = *src.CaptureDisplay
	}
}

// fileConfig is the on-disk YAML shape. Durations are Go duration strings.
type fileConfig struct {
	Interval        string              `yaml:"interval,omitempty"`
	PollInterval    string              `yaml:"pollInterval,omitempty"`
	CaptureInterval string              `yaml:"captureInterval,omitempty"`
	IdleThreshold   string              `yaml:"idleThreshold,omitempty"`
	DetectorTimeout string              `yaml:"detectorTimeout,omitempty"`
	Detectors       idList              `yaml:"detectors,omitempty"`
	Parallel        *bool               `yaml:"parallel,omitempty"`
	Format          string              `yaml:"format,omitempty"`
	Clear           *bool               `yaml:"clear,omitempty"`
	MetricsAddr     string              `yaml:"metricsAddr,omitempty"`
	LogLevel        string              `yaml:"logLevel,omitempty"`
	LogFormat       string              `yaml:"logFormat,omitempty"`
	CaptureDisplay  *int                `yaml:"captureDisplay,omitempty"`
	DisplayMarkers  []string            `yaml:"displayMarkers,omitempty"`
	ProcessLists    map[string][]string `yaml:"processLists,omitempty"`
}

func loadFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Overrides{}, err
	}

	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Overrides{}, err
	}

	over := Overrides{
		Detectors:      raw.Detectors,
		Parallel:       raw.Parallel,
		Format:         raw.Format,
		Clear:          raw.Clear,
		MetricsAddr:    raw.MetricsAddr,
		LogLevel:       raw.LogLevel,
		LogFormat:      raw.LogFormat,
		CaptureDisplay: raw.CaptureDisplay,
		DisplayMarkers: raw.DisplayMarkers,
		ProcessLists:   raw.ProcessLists,
	}

	durations := []struct {
		field string
		value string
		dst   *time.Duration
	}{
		{"interval", raw.Interval, &over.Interval},
		{"pollInterval", raw.PollInterval, &over.PollInterval},
		{"captureInterval", raw.CaptureInterval, &over.CaptureInterval},
		{"idleThreshold", raw.IdleThreshold, &over.IdleThreshold},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return Overrides{}, fmt.Errorf("%s: %w", d.field, err)
		}
		*d.dst = parsed
	}

	if raw.DetectorTimeout != "" {
		parsed, err := time.ParseDuration(raw.DetectorTimeout)
		if err != nil {
			return Overrides{}, fmt.Errorf("detectorTimeout: %w", err)
		}
		over.DetectorTimeout = &parsed
	}

	return over, nil
}

func overridesFromEnv() (Overrides, error) {
	ov := Overrides{}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{envInterval, &ov.Interval},
		{envPollInterval, &ov.PollInterval},
		{envCaptureInterval, &ov.CaptureInterval},
		{envIdleThreshold, &ov.IdleThreshold},
	}
	for _, d := range durations {
		if value := os.Getenv(d.key); value != "" {
			parsed, err := time.ParseDuration(value)
			if err != nil {
				return ov, fmt.Errorf("%s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	if value := os.Getenv(envDetectorTimeout); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return ov, fmt.Errorf("%s: %w", envDetectorTimeout, err)
		}
		ov.DetectorTimeout = &parsed
	}

	if value := os.Getenv(envDetectors); value != "" {
		ov.Detectors = ParseList(value)
	}

	if value := os.Getenv(envParallel); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return ov, fmt.Errorf("%s: %w", envParallel, err)
		}
		ov.Parallel = &parsed
	}

	ov.Format = os.Getenv(envFormat)
	ov.MetricsAddr = os.Getenv(envMetricsAddr)
	ov.LogLevel = os.Getenv(envLogLevel)
	ov.LogFormat = os.Getenv(envLogFormat)

	return ov, nil
}

// ParseList splits comma, space or newline separated ids.
func ParseList(input string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' '
	})
	return cleanList(parts)
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		candidate := strings.TrimSpace(v)
		if candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// idList enables YAML fields that can be specified as a scalar or sequence.
type idList []string

func (l *idList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var out []string
		for _, node := range value.Content {
			out = append(out, strings.TrimSpace(node.Value))
		}
		*l = cleanList(out)
	case yaml.ScalarNode:
		*l = ParseList(value.Value)
	default:
		return fmt.Errorf("unsupported YAML type for detectors")
	}
	return nil
}
