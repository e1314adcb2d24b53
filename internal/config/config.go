// Package config loads dhost settings from a TOML file and the environment
// and validates them.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ozonewl/dhost/internal/env"
	"github.com/ozonewl/dhost/internal/message"
	"github.com/spf13/viper"
)

const (
	localConfigFileName = "dhost.toml"
	userConfigFileName  = "config.toml"
	appDirName          = "dhost"
)

type Config struct {
	Worker    WorkerConfig    `mapstructure:"worker"`
	Output    OutputConfig    `mapstructure:"output"`
	Windows   []WindowConfig  `mapstructure:"windows" validate:"dive"`
	Log       LogConfig       `mapstructure:"log"`
	Status    StatusConfig    `mapstructure:"status"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// WorkerConfig selects how the display worker is run.
type WorkerConfig struct {
	Runtime    string        `mapstructure:"runtime" validate:"oneof=exec docker"`
	Type       string        `mapstructure:"type" validate:"required"`
	Name       string        `mapstructure:"name"`
	Binary     string        `mapstructure:"binary"`
	Args       []string      `mapstructure:"args"`
	Image      string        `mapstructure:"image" validate:"required_if=Runtime docker"`
	Port       string        `mapstructure:"port" validate:"omitempty,numeric"`
	Env        []string      `mapstructure:"env"`
	Restart    bool          `mapstructure:"restart"`
	MaxBackoff time.Duration `mapstructure:"max_backoff" validate:"gte=0"`
}

// OutputConfig is the display size the reference worker reports.
type OutputConfig struct {
	Width  uint32 `mapstructure:"width" validate:"gt=0"`
	Height uint32 `mapstructure:"height" validate:"gt=0"`
}

// WindowConfig is a widget opened at startup.
type WindowConfig struct {
	Title      string `mapstructure:"title"`
	Type       string `mapstructure:"type" validate:"omitempty,oneof=window frameless popup tooltip"`
	Width      uint32 `mapstructure:"width"`
	Height     uint32 `mapstructure:"height"`
	Fullscreen bool   `mapstructure:"fullscreen"`
}

// WidgetType returns the configured type, defaulting to a plain window.
func (w WindowConfig) WidgetType() message.WidgetType {
	if t, ok := message.ParseWidgetType(w.Type); ok {
		return t
	}
	return message.TypeWindow
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type StatusConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

type TelemetryConfig struct {
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("worker.runtime", "exec")
	v.SetDefault("worker.type", "display")
	v.SetDefault("worker.name", "dhost-worker")
	v.SetDefault("worker.binary", "")
	v.SetDefault("worker.args", []string{"worker"})
	v.SetDefault("worker.image", "")
	v.SetDefault("worker.port", "7420")
	v.SetDefault("worker.env", []string{})
	v.SetDefault("worker.restart", true)
	v.SetDefault("worker.max_backoff", "30s")
	v.SetDefault("output.width", 1280)
	v.SetDefault("output.height", 720)
	v.SetDefault("log.level", "info")
	v.SetDefault("status.addr", "")
	v.SetDefault("telemetry.endpoint", "")
}

// Init sets defaults and reads the first config file found, if any. An
// explicit DHOST_CONFIG wins over the search path.
func Init() error {
	return initViper(viper.GetViper(), env.Vars.ConfigFile)
}

func initViper(v *viper.Viper, explicit string) error {
	setDefaults(v)

	path := explicit
	if path == "" {
		existing, found, err := firstExistingConfigPath()
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		path = existing
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Get returns the current configuration, validated.
func Get() (*Config, error) {
	return load(viper.GetViper())
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fmt.Errorf("invalid config: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func resolvedConfigPath() string {
	return viper.ConfigFileUsed()
}
