// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mpievolbio-scicomp/tripser-go/internal/vocab"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig governs the wave loop.
type CrawlerConfig struct {
	// ContentNamespace restricts which object IRIs become new tasks.
	ContentNamespace string `mapstructure:"content_namespace"`

	// ChunkSize bounds the number of tasks dispatched per wave.
	ChunkSize int `mapstructure:"chunk_size"`

	// PageSize is the upstream collection page size.
	PageSize int `mapstructure:"page_size"`

	// Dispatcher selects "serial" or "pool" wave dispatch.
	Dispatcher string `mapstructure:"dispatcher"`
}

// FetchConfig configures the HTTP fetch boundary.
type FetchConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	QuirkHost      string `mapstructure:"quirk_host"`
}

// OutputConfig sets serialization targets.
type OutputConfig struct {
	Path           string `mapstructure:"path"`
	SerializeNodes bool   `mapstructure:"serialize_nodes"`
	NodeDir        string `mapstructure:"node_dir"`
}

// MetricsConfig controls the optional exposition listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRIPSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.content_namespace", vocab.DefaultContentNamespace)
	v.SetDefault("crawler.chunk_size", 8)
	v.SetDefault("crawler.page_size", 25)
	v.SetDefault("crawler.dispatcher", "pool")
	v.SetDefault("fetch.timeout_seconds", 600)
	v.SetDefault("fetch.user_agent", "tripser/0.1")
	v.SetDefault("fetch.quirk_host", vocab.QuirkHost)
	v.SetDefault("output.path", "graph.ttl")
	v.SetDefault("output.serialize_nodes", false)
	v.SetDefault("output.node_dir", "nodes")
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawler.ContentNamespace == "" {
		return fmt.Errorf("crawler.content_namespace must be set")
	}
	if c.Crawler.ChunkSize <= 0 {
		return fmt.Errorf("crawler.chunk_size must be > 0")
	}
	if c.Crawler.PageSize <= 0 {
		return fmt.Errorf("crawler.page_size must be > 0")
	}
	if c.Crawler.Dispatcher != "serial" && c.Crawler.Dispatcher != "pool" {
		return fmt.Errorf("crawler.dispatcher must be \"serial\" or \"pool\", got %q", c.Crawler.Dispatcher)
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must be set")
	}
	if c.Output.SerializeNodes && c.Output.NodeDir == "" {
		return fmt.Errorf("output.node_dir must be set when output.serialize_nodes is enabled")
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
