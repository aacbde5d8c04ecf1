package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	ServerPort      int           `mapstructure:"port" json:"server_port" validate:"gte=1,lte=65535"`
	LogLevel        string        `mapstructure:"log_level" json:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" validate:"gt=0,lte=5m"`
	Version         string        `mapstructure:"version" json:"version" validate:"required"`

	Events EventsConfig `mapstructure:"events" json:"events"`
}

// EventsConfig controls the task activity pipeline
type EventsConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	Backend     string `mapstructure:"backend" json:"backend" validate:"oneof=memory redis"`
	RedisURL    string `mapstructure:"redis_url" json:"redis_url"`
	QueueName   string `mapstructure:"queue_name" json:"queue_name"`
	WorkerCount int    `mapstructure:"worker_count" json:"worker_count"`
	BufferSize  int    `mapstructure:"buffer_size" json:"buffer_size"`
	HistorySize int    `mapstructure:"history_size" json:"history_size"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// environment variable bindings, kept flat for compatibility with existing deployments
var envBindings = map[string]string{
	"port":                "PORT",
	"log_level":           "LOG_LEVEL",
	"shutdown_timeout":    "SHUTDOWN_TIMEOUT",
	"version":             "VERSION",
	"events.enabled":      "EVENTS_ENABLED",
	"events.backend":      "EVENTS_BACKEND",
	"events.redis_url":    "REDIS_URL",
	"events.queue_name":   "QUEUE_NAME",
	"events.worker_count": "WORKER_COUNT",
	"events.buffer_size":  "EVENT_BUFFER_SIZE",
	"events.history_size": "EVENT_HISTORY_SIZE",
}

var fieldLabels = map[string]string{
	"ServerPort":      "server port",
	"LogLevel":        "log level",
	"ShutdownTimeout": "shutdown timeout",
	"Version":         "version",
	"Backend":         "events backend",
}

var validate = validator.New()

// Load reads configuration through v. Flags already bound to v take precedence
// over environment variables, which take precedence over the optional config
// file and then the defaults.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind environment variable %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("version", "1.0.0")
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.backend", BackendMemory)
	v.SetDefault("events.redis_url", "redis://localhost:6379")
	v.SetDefault("events.queue_name", "task-events")
	v.SetDefault("events.worker_count", 1)
	v.SetDefault("events.buffer_size", 256)
	v.SetDefault("events.history_size", 100)
}

// Address returns the server address in host:port format
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// validate normalizes free-form values and checks the configuration
func (c *Config) validate() error {
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))
	c.Version = strings.TrimSpace(c.Version)
	c.Events.Backend = strings.ToLower(strings.TrimSpace(c.Events.Backend))

	if err := validate.Struct(c); err != nil {
		return describe(err)
	}

	if c.Events.Enabled {
		if c.Events.WorkerCount < 1 {
			return fmt.Errorf("worker count must be at least 1 when events are enabled")
		}
		if c.Events.BufferSize < 1 {
			return fmt.Errorf("event buffer size must be at least 1 when events are enabled")
		}
		if c.Events.HistorySize < 1 {
			return fmt.Errorf("event history size must be at least 1 when events are enabled")
		}
		if c.Events.Backend == BackendRedis {
			if strings.TrimSpace(c.Events.RedisURL) == "" {
				return fmt.Errorf("redis URL cannot be empty when the redis events backend is selected")
			}
			if strings.TrimSpace(c.Events.QueueName) == "" {
				return fmt.Errorf("queue name cannot be empty when the redis events backend is selected")
			}
		}
	}

	return nil
}

// describe turns the first validator failure into a readable message
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fe := fieldErrs[0]
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s cannot be empty", label)
	case "oneof":
		return fmt.Errorf("invalid %s '%v': must be one of %s", label, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Errorf("invalid %s %v: must be positive", label, fe.Value())
	case "gte", "lte":
		return fmt.Errorf("invalid %s %v: out of range (%s=%s)", label, fe.Value(), fe.Tag(), fe.Param())
	default:
		return fmt.Errorf("invalid %s %v: failed %s", label, fe.Value(), fe.Tag())
	}
}
