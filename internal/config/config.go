// Package config provides configuration management for the document
// analysis service. It keeps the teacher's struct-per-section,
// Validate()-fills-in-defaults pattern, retargeted at this core's own
// chunking/hierarchy/sync/service sections.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Common configuration errors.
var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ServiceConfig holds the connection settings for an external HTTP
// service client (embedding or LLM).
type ServiceConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
	Model   string `mapstructure:"model" validate:"required"`
}

// ChunkingConfig configures internal/chunking.Options.
type ChunkingConfig struct {
	MaxChunkSize int `mapstructure:"max_chunk_size" validate:"min=100"`
	Overlap      int `mapstructure:"overlap" validate:"min=0"`
}

// Validate fills in zero values with the documented defaults and enforces
// that overlap stays smaller than the chunk size it applies to.
func (c *ChunkingConfig) Validate() error {
	if c.MaxChunkSize == 0 {
		c.MaxChunkSize = 1000
	}
	if c.Overlap == 0 {
		c.Overlap = 200
	}
	if c.Overlap >= c.MaxChunkSize {
		return fmt.Errorf("%w: overlap must be less than max_chunk_size", ErrInvalidConfig)
	}
	return nil
}

// HierarchyConfig configures internal/hierarchy.Options.
type HierarchyConfig struct {
	SimilarityThreshold        float64 `mapstructure:"similarity_threshold" validate:"min=0"`
	MinSectionSize             int     `mapstructure:"min_section_size" validate:"min=0"`
	DocSummaryMaxSentences     int     `mapstructure:"doc_summary_max_sentences" validate:"min=0"`
	SectionSummaryMaxSentences int     `mapstructure:"section_summary_max_sentences" validate:"min=0"`
	MaxOutlineDepth            int     `mapstructure:"max_outline_depth" validate:"min=0"`
}

// Validate fills in zero values with the documented defaults.
func (c *HierarchyConfig) Validate() error {
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = 0.5
	}
	if c.MinSectionSize == 0 {
		c.MinSectionSize = 200
	}
	if c.DocSummaryMaxSentences == 0 {
		c.DocSummaryMaxSentences = 3
	}
	if c.SectionSummaryMaxSentences == 0 {
		c.SectionSummaryMaxSentences = 1
	}
	if c.MaxOutlineDepth == 0 {
		c.MaxOutlineDepth = 6
	}
	return nil
}

// SyncConfig configures internal/docsync's query result limit.
type SyncConfig struct {
	QueryLimit int `mapstructure:"query_limit" validate:"min=1"`
}

// Validate fills in the default query result limit.
func (c *SyncConfig) Validate() error {
	if c.QueryLimit == 0 {
		c.QueryLimit = 10
	}
	return nil
}

// Config is the complete application configuration.
type Config struct {
	Server struct {
		Host string `mapstructure:"host" validate:"required"`
		Port string `mapstructure:"port" validate:"required,numeric"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host" validate:"required,hostname"`
		Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
		User     string `mapstructure:"user" validate:"required"`
		Password string `mapstructure:"password" validate:"required"`
		DBName   string `mapstructure:"dbname" validate:"required"`
	} `mapstructure:"database"`

	Redis struct {
		Host     string `mapstructure:"host" validate:"required,hostname"`
		Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db" validate:"min=0,max=15"`
	} `mapstructure:"redis"`

	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Hierarchy HierarchyConfig `mapstructure:"hierarchy"`
	Sync      SyncConfig      `mapstructure:"sync"`

	Services struct {
		Embedding ServiceConfig `mapstructure:"embedding"`
		LLM       ServiceConfig `mapstructure:"llm"`
	} `mapstructure:"services"`
}

// Validate runs every section's own Validate method.
func (c *Config) Validate() error {
	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}
	if err := c.Hierarchy.Validate(); err != nil {
		return fmt.Errorf("hierarchy config: %w", err)
	}
	if err := c.Sync.Validate(); err != nil {
		return fmt.Errorf("sync config: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from configPath and the environment.
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")

	viper.SetDefault("chunking.max_chunk_size", 1000)
	viper.SetDefault("chunking.overlap", 200)

	viper.SetDefault("hierarchy.similarity_threshold", 0.5)
	viper.SetDefault("hierarchy.min_section_size", 200)
	viper.SetDefault("hierarchy.doc_summary_max_sentences", 3)
	viper.SetDefault("hierarchy.section_summary_max_sentences", 1)
	viper.SetDefault("hierarchy.max_outline_depth", 6)

	viper.SetDefault("sync.query_limit", 10)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
}

// MustLoadConfig loads configuration and panics on failure. Use this only
// in main() where a failure to configure should be fatal.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
