// Package config provides the matcher's configuration: thresholds, the
// default auto-match level and concurrency knobs. Modeled on the teacher's
// internal/config/config.go (a unified, yaml-backed config struct) and
// loader.go (environment-variable overrides via reflection), trimmed to
// the settings this core actually exposes.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Thresholds mirrors spec §6's default table; one absolute/relative pair
// per entity kind.
type Thresholds struct {
	AbsClass  float64 `yaml:"absClass" env:"ABS_CLASS"`
	RelClass  float64 `yaml:"relClass" env:"REL_CLASS"`
	AbsMethod float64 `yaml:"absMethod" env:"ABS_METHOD"`
	RelMethod float64 `yaml:"relMethod" env:"REL_METHOD"`
	AbsField  float64 `yaml:"absField" env:"ABS_FIELD"`
	RelField  float64 `yaml:"relField" env:"REL_FIELD"`
	AbsVar    float64 `yaml:"absVar" env:"ABS_VAR"`
	RelVar    float64 `yaml:"relVar" env:"REL_VAR"`
}

// Config is the complete matcher configuration.
type Config struct {
	Thresholds Thresholds `yaml:"thresholds"`

	// DefaultLevel is the classifier level used when a caller does not
	// pick one explicitly.
	DefaultLevel string `yaml:"defaultLevel" env:"DEFAULT_LEVEL"`

	// MaxWorkers bounds the concurrency substrate's fan-out (spec §4.8);
	// 0 means "let the runtime pick" (GOMAXPROCS).
	MaxWorkers int `yaml:"maxWorkers" env:"MAX_WORKERS"`

	// ProgressStride overrides the default max(1, n/200) progress-report
	// stride of spec §4.8 when non-zero.
	ProgressStride int `yaml:"progressStride" env:"PROGRESS_STRIDE"`

	// LogLevel is one of "warn", "debug", "trace".
	LogLevel string `yaml:"logLevel" env:"LOG_LEVEL"`
}

// Default returns the spec §6 default configuration.
func Default() *Config {
	return &Config{
		Thresholds: Thresholds{
			AbsClass: 0.85, RelClass: 0.085,
			AbsMethod: 0.85, RelMethod: 0.085,
			AbsField: 0.85, RelField: 0.085,
			AbsVar: 0.85, RelVar: 0.085,
		},
		DefaultLevel: "Full",
		MaxWorkers:   0,
		LogLevel:     "warn",
	}
}

// Loader loads a Config from a YAML file and/or environment overrides, the
// way the teacher's internal/config.Loader layers env vars over a parsed
// file.
type Loader struct {
	envPrefix string
}

func NewLoader() *Loader {
	return &Loader{envPrefix: "MATCHER_"}
}

// LoadFile parses a YAML file on top of the defaults.
func (l *Loader) LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg's fields (and its Thresholds sub-struct) from
// MATCHER_-prefixed environment variables named by each field's `env` tag,
// the same reflection-driven walk as the teacher's applyEnvOverrides.
func (l *Loader) ApplyEnv(cfg *Config) error {
	return l.applyEnvOverrides(reflect.ValueOf(cfg).Elem())
}

func (l *Loader) applyEnvOverrides(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := l.applyEnvOverrides(field); err != nil {
				return err
			}
			continue
		}
		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}
		raw, ok := os.LookupEnv(l.envPrefix + envTag)
		if !ok {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("config: %s%s: %w", l.envPrefix, envTag, err)
		}
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
