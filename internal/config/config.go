// Package config provides client configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/broady/ejabberd/transport"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. EJABBERD_URL.
const Prefix = "ejabberd"

var validate = validator.New()

// Config holds the connection settings of an ejabberd client.
type Config struct {
	// URL of the ejabberd_xmlrpc listener.
	URL string `envconfig:"URL" default:"http://127.0.0.1:4560" validate:"required,url"`

	// Credentials sent with every call. Leave User empty for listeners
	// without authentication.
	User     string `envconfig:"USER"`
	Server   string `envconfig:"SERVER" validate:"required_with=User"`
	Password string `envconfig:"PASSWORD" validate:"required_with=User"`
	Admin    bool   `envconfig:"ADMIN" default:"true"`

	Timeout    time.Duration `envconfig:"TIMEOUT" default:"10s" validate:"gt=0"`
	MaxRetries uint64        `envconfig:"MAX_RETRIES" default:"0"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Load reads the configuration from EJABBERD_* environment variables.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

// Validate checks the configuration once flags and environment are merged.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := strings.ToUpper(Prefix + "_" + fieldVar(fe.Field()))
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "required_with":
		return name + " is required when EJABBERD_USER is set"
	case "url":
		return name + " must be a valid URL"
	case "gt":
		return name + " must be positive"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func fieldVar(field string) string {
	switch field {
	case "MaxRetries":
		return "max_retries"
	case "LogLevel":
		return "log_level"
	default:
		return field
	}
}

// TransportConfig returns the settings of the XML-RPC transport.
func (c *Config) TransportConfig() transport.Config {
	tc := transport.Config{
		URL:     c.URL,
		Timeout: c.Timeout,
	}
	if c.User != "" {
		tc.Auth = &transport.Auth{
			User:     c.User,
			Server:   c.Server,
			Password: c.Password,
			Admin:    c.Admin,
		}
	}
	return tc
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
