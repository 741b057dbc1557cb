// Package config loads the YAML application file: logging, server, tracker,
// destinations and declarative module functions and routes.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aretw0/hodr"
	"github.com/aretw0/hodr/internal/logging"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

type (
	// Config is the decoded application file.
	Config struct {
		App          AppConfig                       `mapstructure:"app"`
		Log          LogConfig                       `mapstructure:"log"`
		Server       ServerConfig                    `mapstructure:"server"`
		Tracker      TrackerConfig                   `mapstructure:"tracker"`
		OpenAPI      string                          `mapstructure:"openapi"`
		Destinations map[string]DestinationConfig    `mapstructure:"destinations"`
		Modules      map[string]map[string]LaneSteps `mapstructure:"modules"`
		Routers      map[string][]RouteConfig        `mapstructure:"routers"`
	}

	AppConfig struct {
		ID   string `mapstructure:"id"`
		Name string `mapstructure:"name"`
	}

	LogConfig struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	}

	ServerConfig struct {
		Addr            string        `mapstructure:"addr"`
		Inspector       bool          `mapstructure:"inspector"`
		Metrics         bool          `mapstructure:"metrics"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}

	// TrackerConfig selects the execution tracker: "memory" or "redis".
	TrackerConfig struct {
		Type     string `mapstructure:"type"`
		Limit    int    `mapstructure:"limit"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Key      string `mapstructure:"key"`
		// Redact lists key patterns masked when executions are read back.
		Redact []string `mapstructure:"redact"`
	}

	// DestinationConfig declares a destination of type "http", "fs" or
	// "blob".
	DestinationConfig struct {
		Type    string                  `mapstructure:"type"`
		BaseURL string                  `mapstructure:"base_url"`
		Timeout time.Duration           `mapstructure:"timeout"`
		Headers map[string]string       `mapstructure:"headers"`
		Root    string                  `mapstructure:"root"`
		URL     string                  `mapstructure:"url"`
		Prefix  string                  `mapstructure:"prefix"`
		Targets map[string]TargetConfig `mapstructure:"targets"`
	}

	TargetConfig struct {
		Path   string                `mapstructure:"path"`
		Params *domain.RequestParams `mapstructure:"params"`
	}

	// LaneSteps is the ordered step list of a function or route.
	LaneSteps []StepConfig

	RouteConfig struct {
		Method string    `mapstructure:"method"`
		Path   string    `mapstructure:"path"`
		Steps  LaneSteps `mapstructure:"steps"`
	}

	// StepConfig declares one step. Kind selects which fields apply.
	StepConfig struct {
		Kind        string                `mapstructure:"kind"`
		Expr        string                `mapstructure:"expr"`
		Map         map[string]string     `mapstructure:"map"`
		Code        string                `mapstructure:"code"`
		Destination string                `mapstructure:"destination"`
		Path        string                `mapstructure:"path"`
		Target      string                `mapstructure:"target"`
		Method      string                `mapstructure:"method"`
		Params      *domain.RequestParams `mapstructure:"params"`
		Status      []string              `mapstructure:"status"`
		StatusMap   []StatusClause        `mapstructure:"status_map"`
		Value       any                   `mapstructure:"value"`
		Schema      map[string]any        `mapstructure:"schema"`
		Component   string                `mapstructure:"component"`
		At          string                `mapstructure:"at"`
	}

	// StatusClause rewrites statuses matching Match ("404" or "500-599")
	// to Status.
	StatusClause struct {
		Match  string `mapstructure:"match"`
		Status int    `mapstructure:"status"`
	}
)

const (
	DefaultAddr            = ":8080"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultTrackerType     = "memory"
	DefaultTrackerLimit    = 100
	DefaultRedisAddr       = "localhost:6379"
	DefaultRedisKey        = "hodr:executions"
	DefaultShutdownTimeout = 5 * time.Second

	MaxTrackerLimit = 100_000
)

// Destination types.
const (
	DestinationHTTP = "http"
	DestinationFS   = "fs"
	DestinationBlob = "blob"
)

// Step kinds.
const (
	StepExtract             = "extract"
	StepExtractMap          = "extract_map"
	StepExpect              = "expect"
	StepExpectValue         = "expect_value"
	StepValidate            = "validate"
	StepCall                = "call"
	StepCallTarget          = "call_target"
	StepExpectHTTPStatus    = "expect_http_status"
	StepExpectHTTPOk        = "expect_http_ok"
	StepExpectHTTPSuccess   = "expect_http_success"
	StepExtractResponseBody = "extract_response_body"
	StepMapStatusCode       = "map_status_code"
	StepLiteral             = "literal"
)

var (
	ErrInvalidAppID           = errors.New("app id must not be empty")
	ErrInvalidLogFormat       = errors.New("invalid log format")
	ErrInvalidTrackerType     = errors.New("invalid tracker type")
	ErrInvalidTrackerLimit    = errors.New("invalid tracker limit")
	ErrInvalidRedactPattern   = errors.New("invalid redact pattern")
	ErrInvalidDestinationType = errors.New("invalid destination type")
	ErrMissingDestinationURL  = errors.New("destination requires a location")
	ErrUnknownDestination     = errors.New("unknown destination")
	ErrUnknownTarget          = errors.New("unknown target")
	ErrInvalidStepKind        = errors.New("invalid step kind")
	ErrInvalidStep            = errors.New("invalid step")
	ErrInvalidRoute           = errors.New("invalid route")
)

// NewDefaultConfig creates a configuration with an in-memory tracker and no
// origins.
func NewDefaultConfig() *Config {
	return &Config{
		App: AppConfig{ID: hodr.DefaultAppID, Name: hodr.DefaultAppName},
		Log: LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Tracker: TrackerConfig{
			Type:  DefaultTrackerType,
			Limit: DefaultTrackerLimit,
			Addr:  DefaultRedisAddr,
			Key:   DefaultRedisKey,
		},
		Destinations: map[string]DestinationConfig{},
		Modules:      map[string]map[string]LaneSteps{},
		Routers:      map[string][]RouteConfig{},
	}
}

// Load reads and decodes the file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := NewDefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      cfg,
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv overrides values from HODR_* environment variables.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("HODR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HODR_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("HODR_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("HODR_REDIS_ADDR"); v != "" {
		c.Tracker.Type = "redis"
		c.Tracker.Addr = v
	}
	if v := os.Getenv("HODR_TRACKER_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HODR_TRACKER_LIMIT: %w", err)
		}
		c.Tracker.Limit = n
	}
	return nil
}

// Logger builds the logger the file asks for, writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(w, level, logging.Format(c.Log.Format)), nil
}
