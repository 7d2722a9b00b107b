package config

import (
	"context"
	"strings"

	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/idrisls/pkg/diagnostic"
	"github.com/walteh/idrisls/pkg/dialect"
	"github.com/walteh/idrisls/pkg/hover"
)

// AutosaveBehaviour controls saving before a command talks to Idris.
type AutosaveBehaviour string

const (
	AutosaveAlways AutosaveBehaviour = "always"
	AutosavePrompt AutosaveBehaviour = "prompt"
	AutosaveNever  AutosaveBehaviour = "never"
)

// Config is the session configuration.
type Config struct {
	IdrisPath   string `mapstructure:"idris_path"`
	Idris2Mode  bool   `mapstructure:"idris2_mode"`
	WorkingDir  string `mapstructure:"working_dir"`
	HoverAction string `mapstructure:"hover_action"`
	Autosave    string `mapstructure:"autosave"`
}

func Defaults() Config {
	return Config{
		IdrisPath:   "idris2",
		Idris2Mode:  false,
		WorkingDir:  "",
		HoverAction: hover.ActionTypeOf.String(),
		Autosave:    string(AutosaveAlways),
	}
}

// New creates a viper instance with defaults and IDRISLS_* environment
// bindings.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("idris_path", d.IdrisPath)
	v.SetDefault("idris2_mode", d.Idris2Mode)
	v.SetDefault("working_dir", d.WorkingDir)
	v.SetDefault("hover_action", d.HoverAction)
	v.SetDefault("autosave", d.Autosave)

	v.SetEnvPrefix("idrisls")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Hover(); err != nil {
		return err
	}
	if _, err := c.AutosaveBehaviour(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Mode() diagnostic.Mode {
	return diagnostic.ModeFor(c.Idris2Mode)
}

func (c *Config) Hover() (hover.Action, error) {
	switch c.HoverAction {
	case hover.ActionTypeOf.String():
		return hover.ActionTypeOf, nil
	case hover.ActionTypeAt.String():
		return hover.ActionTypeAt, nil
	case hover.ActionNothing.String():
		return hover.ActionNothing, nil
	default:
		return hover.ActionNothing, errors.Errorf("invalid hover_action %q", c.HoverAction)
	}
}

func (c *Config) AutosaveBehaviour() (AutosaveBehaviour, error) {
	switch b := AutosaveBehaviour(c.Autosave); b {
	case AutosaveAlways, AutosavePrompt, AutosaveNever:
		return b, nil
	default:
		return AutosaveNever, errors.Errorf("invalid autosave %q", c.Autosave)
	}
}

// SupportedDialects lists the document dialects the session handles. Only
// Idris 2 understands markdown.
func (c *Config) SupportedDialects() []dialect.Dialect {
	if c.Idris2Mode {
		return []dialect.Dialect{dialect.Plain, dialect.Literate, dialect.Fenced}
	}
	return []dialect.Dialect{dialect.Plain, dialect.Literate}
}

func (c *Config) Supports(d dialect.Dialect) bool {
	for _, s := range c.SupportedDialects() {
		if s == d {
			return true
		}
	}
	return false
}

type contextKey struct{}

// WithContext stores cfg in ctx.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the config stored in ctx, or the defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok && cfg != nil {
		return cfg
	}
	d := Defaults()
	return &d
}
