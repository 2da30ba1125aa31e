// Package config reads engine settings from the environment and turns them
// into engine options.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"

	"koi/internal/core"
)

// Metrics backends.
const (
	MetricsNone       = "none"
	MetricsExpvar     = "expvar"
	MetricsPrometheus = "prometheus"
)

// ErrInvalidConfig is returned when a setting has an unsupported value.
var ErrInvalidConfig = errors.New("config: invalid value")

// Config holds the engine's ambient settings.
type Config struct {
	LogLevel         string `env:"KOI_LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"KOI_LOG_FORMAT" envDefault:"text"`
	Metrics          string `env:"KOI_METRICS" envDefault:"none"`
	MetricsNamespace string `env:"KOI_METRICS_NAMESPACE" envDefault:"koi"`
	Trace            bool   `env:"KOI_TRACE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: KOI_LOG_FORMAT=%q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(c.Metrics) {
	case MetricsNone, MetricsExpvar, MetricsPrometheus, "":
	default:
		return fmt.Errorf("%w: KOI_METRICS=%q", ErrInvalidConfig, c.Metrics)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: KOI_LOG_LEVEL=%q", ErrInvalidConfig, s)
	}
}

// Runtime is the result of Build: engine options plus the exporters behind
// them, so callers can read metrics back.
type Runtime struct {
	Options    []core.Option
	Logger     *slog.Logger
	Expvar     *core.ExpvarMetricsRecorder
	Prometheus *prometheus.Registry
	Tracer     *core.JSONTraceTracer
}

// Build wires logging, metrics and tracing for cfg. Logs and trace spans are
// written to w.
func Build(cfg Config, w io.Writer) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = io.Discard
	}
	level, _ := parseLevel(cfg.LogLevel)
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(w, handlerOpts)
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}

	rt := &Runtime{Logger: slog.New(handler)}
	rt.Options = append(rt.Options, core.WithLogger(core.NewSlogLogger(rt.Logger)))

	switch strings.ToLower(cfg.Metrics) {
	case MetricsExpvar:
		rt.Expvar = core.NewExpvarMetricsRecorder("")
		rt.Options = append(rt.Options, core.WithMetricsRecorder(rt.Expvar))
	case MetricsPrometheus:
		rt.Prometheus = prometheus.NewRegistry()
		rec, err := core.NewPrometheusMetricsRecorder(rt.Prometheus, cfg.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("prometheus metrics: %w", err)
		}
		rt.Options = append(rt.Options, core.WithMetricsRecorder(rec))
	}

	if cfg.Trace {
		rt.Tracer = core.NewJSONTracer(w)
		rt.Options = append(rt.Options, core.WithTracer(rt.Tracer))
	}
	return rt, nil
}

// Options is Build without the exporters.
func Options(cfg Config, w io.Writer) ([]core.Option, error) {
	rt, err := Build(cfg, w)
	if err != nil {
		return nil, err
	}
	return rt.Options, nil
}
