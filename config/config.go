// SPDX-License-Identifier: MIT

// Package config loads spectrank settings. It uses koanf to read an optional
// YAML file, then applies SPECTRANK_* environment overrides, then defaults.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/katalvlaran/spectrank/table"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPECTRANK_"

// Defaults.
const (
	DefaultDirection      = "higher"
	DefaultBootstrapCount = 2000
	DefaultSeed           = 42
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultSamplingRate   = 1.0
)

// DefaultFormats are the renderings written when none are configured.
var DefaultFormats = []string{"json", "csv"}

// ErrInvalidNumber is returned when an environment override does not parse.
var ErrInvalidNumber = errors.New("config: invalid numeric value")

// Tracing configures the OTLP exporter.
type Tracing struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"`
	Insecure     bool    `koanf:"insecure"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"gte=0,lte=1"`
}

// Config holds every setting of one spectrank run.
type Config struct {
	// Direction is "higher" or "lower".
	Direction      string   `koanf:"direction" validate:"oneof=higher lower"`
	BootstrapCount int      `koanf:"bootstrap_count" validate:"gt=0"`
	Seed           int64    `koanf:"seed" validate:"gte=0"`
	Workers        int      `koanf:"workers" validate:"gte=0"`
	Formats        []string `koanf:"formats" validate:"min=1,dive,oneof=json csv yaml cbor"`
	DropColumns    []string `koanf:"drop_columns"`

	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `koanf:"log_format" validate:"oneof=text json"`
	MetricsFile string `koanf:"metrics_file"`

	Tracing Tracing `koanf:"tracing"`
}

var validate = validator.New()

// Load reads configuration from an optional YAML file and SPECTRANK_*
// environment variables; environment values take precedence over the file.
// It returns the config and every problem found (empty when valid). A file
// that cannot be loaded is reported alone with a nil config.
func Load(path string) (*Config, []error) {
	cfg, errs := Read(path)
	if cfg == nil {
		return nil, errs
	}

	return cfg, append(errs, cfg.Validate()...)
}

// Read is Load without the range validation, for callers that apply further
// overrides (command-line flags) before calling Validate.
func Read(path string) (*Config, []error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("config: load %s: %w", path, err)}
		}
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := &Config{
		Direction:   stringOr(k, "direction", "DIRECTION", DefaultDirection),
		LogLevel:    strings.ToLower(stringOr(k, "log_level", "LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(stringOr(k, "log_format", "LOG_FORMAT", DefaultLogFormat)),
		MetricsFile: stringOr(k, "metrics_file", "METRICS_FILE", ""),
		Formats:     lower(listOr(k, "formats", "FORMATS", DefaultFormats)),
		DropColumns: listOr(k, "drop_columns", "DROP_COLUMNS", table.DefaultDropColumns),
	}
	var (
		b, w int
		seed int64
		err  error
	)
	b, err = intOr(k, "bootstrap_count", "BOOTSTRAP_COUNT", DefaultBootstrapCount)
	collect(err)
	cfg.BootstrapCount = b
	seed, err = int64Or(k, "seed", "SEED", DefaultSeed)
	collect(err)
	cfg.Seed = seed
	w, err = intOr(k, "workers", "WORKERS", 0)
	collect(err)
	cfg.Workers = w

	cfg.Tracing.Enabled, err = boolOr(k, "tracing.enabled", "TRACING_ENABLED", false)
	collect(err)
	cfg.Tracing.Insecure, err = boolOr(k, "tracing.insecure", "TRACING_INSECURE", false)
	collect(err)
	cfg.Tracing.Endpoint = stringOr(k, "tracing.endpoint", "OTLP_ENDPOINT", "")
	cfg.Tracing.SamplingRate, err = floatOr(k, "tracing.sampling_rate", "TRACING_SAMPLING_RATE", DefaultSamplingRate)
	collect(err)

	return cfg, errs
}

// Validate checks value ranges; it returns one error per offending field.
func (c *Config) Validate() []error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Errorf("config: %s fails %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}

	return out
}

func lower(xs []string) []string {
	for i, x := range xs {
		xs[i] = strings.ToLower(x)
	}

	return xs
}

func env(name string) string { return os.Getenv(EnvPrefix + name) }

func stringOr(k *koanf.Koanf, key, envKey, def string) string {
	if v := env(envKey); v != "" {
		return v
	}
	if k.Exists(key) {
		return k.String(key)
	}

	return def
}

func listOr(k *koanf.Koanf, key, envKey string, def []string) []string {
	if v := env(envKey); v != "" {
		return SplitList(v)
	}
	if k.Exists(key) {
		return k.Strings(key)
	}

	return append([]string(nil), def...)
}

func intOr(k *koanf.Koanf, key, envKey string, def int) (int, error) {
	if v := env(envKey); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return def, fmt.Errorf("%w: %s%s=%q", ErrInvalidNumber, EnvPrefix, envKey, v)
		}
		return i, nil
	}
	if k.Exists(key) {
		return k.Int(key), nil
	}

	return def, nil
}

func int64Or(k *koanf.Koanf, key, envKey string, def int64) (int64, error) {
	if v := env(envKey); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return def, fmt.Errorf("%w: %s%s=%q", ErrInvalidNumber, EnvPrefix, envKey, v)
		}
		return i, nil
	}
	if k.Exists(key) {
		return k.Int64(key), nil
	}

	return def, nil
}

func floatOr(k *koanf.Koanf, key, envKey string, def float64) (float64, error) {
	if v := env(envKey); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return def, fmt.Errorf("%w: %s%s=%q", ErrInvalidNumber, EnvPrefix, envKey, v)
		}
		return f, nil
	}
	if k.Exists(key) {
		return k.Float64(key), nil
	}

	return def, nil
}

func boolOr(k *koanf.Koanf, key, envKey string, def bool) (bool, error) {
	if v := env(envKey); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		default:
			return def, fmt.Errorf("config: %s%s must be a boolean (got %q)", EnvPrefix, envKey, v)
		}
	}
	if k.Exists(key) {
		return k.Bool(key), nil
	}

	return def, nil
}

// SplitList splits a comma-separated list, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
