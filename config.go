package allocman

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/allocman/internal/env"
	"github.com/viant/allocman/service/compiler"
	"github.com/viant/allocman/service/event"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the manager configuration.
// Values of the form ${env.NAME} are expanded when loaded with LoadConfig.
type Config struct {
	Store    StoreConfig     `json:"store" yaml:"store"`
	Compiler compiler.Config `json:"compiler" yaml:"compiler"`
	Events   event.Config    `json:"events" yaml:"events"`
	Tracing  TracingConfig   `json:"tracing" yaml:"tracing"`
	Log      LogConfig       `json:"log" yaml:"log"`
}

// StoreConfig represents allocator source namespace
type StoreConfig struct {
	URL string `json:"url" yaml:"url"`
}

type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"` //stdout when empty
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// DefaultConfig returns a Config populated with default values
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return &Config{
		Store:    StoreConfig{URL: filepath.Join(home, ".allocman", "allocators")},
		Compiler: compiler.DefaultConfig(),
		Events:   event.DefaultConfig(),
		Log:      LogConfig{Level: zerolog.InfoLevel.String()},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	if c.Store.URL == "" {
		return fmt.Errorf("store.url was empty")
	}
	if err := c.Compiler.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	return nil
}

// LoadConfig loads YAML config from any afs location, unspecified values keep their defaults
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	URL = url.Normalize(URL, file.Scheme)
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(env.Expand(string(data))), ret); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
