package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables recognised on top of the config file. Secrets
// are env-only so they never end up in a committed config file.
const (
	EnvAPIKey        = "OPENAI_API_KEY"
	EnvVectorStoreID = "VECTOR_STORE_ID"
	EnvBaseURL       = "HELPSYNC_SOURCE_URL"
	EnvDataDir       = "HELPSYNC_DATA_DIR"
	EnvLimit         = "HELPSYNC_ARTICLE_LIMIT"
)

// Config is the full application configuration.
type Config struct {
	Source  SourceConfig  `toml:"source"`
	Index   IndexConfig   `toml:"index"`
	Storage StorageConfig `toml:"storage"`
	Sync    SyncConfig    `toml:"sync"`
}

// SourceConfig configures the help-center connector.
type SourceConfig struct {
	// BaseURL is the help-center root, e.g. https://support.example.com.
	BaseURL string `toml:"base_url"`

	// Locale selects the article locale (default: en-us).
	Locale string `toml:"locale"`

	// PerPage is the listing page size (default: 100).
	PerPage int `toml:"per_page"`

	// Limit caps the number of fetched articles, 0 for no cap.
	Limit int `toml:"limit"`

	// TimeoutSeconds is the per-request timeout, 0 for the connector
	// default.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// MaxRetries bounds retries per listing page, 0 for the connector
	// default.
	MaxRetries int `toml:"max_retries"`
}

// IndexConfig configures the remote index.
type IndexConfig struct {
	// APIKey comes from the environment only.
	APIKey string `toml:"-"`

	// VectorStoreID is the target vector store.
	VectorStoreID string `toml:"vector_store_id"`

	// BaseURL overrides the API base URL for compatible services.
	BaseURL string `toml:"base_url"`

	// ChunkSizeTokens and ChunkOverlapTokens override the remote
	// service's chunking defaults. Zero leaves chunking to the service.
	ChunkSizeTokens    int `toml:"chunk_size_tokens"`
	ChunkOverlapTokens int `toml:"chunk_overlap_tokens"`
}

// StorageConfig configures local persistence.
type StorageConfig struct {
	// DataDir holds the document directory and ledger file
	// (default: ~/.helpsync).
	DataDir string `toml:"data_dir"`
}

// SyncConfig tunes the sync pass.
type SyncConfig struct {
	// Workers is the number of concurrent uploads (default: 4).
	Workers int `toml:"workers"`

	// PollTimeoutSeconds bounds remote processing waits per document
	// (default: 120).
	PollTimeoutSeconds int `toml:"poll_timeout_seconds"`
}

// DocumentDir returns the directory normalised documents are stored in.
func (c *Config) DocumentDir() string {
	return filepath.Join(c.Storage.DataDir, "articles")
}

// LedgerPath returns the ledger file path.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Storage.DataDir, "ledger.json")
}

// Validate checks that everything a sync run needs is present.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source base URL is required (set source.base_url or %s)", EnvBaseURL)
	}
	if c.Index.APIKey == "" {
		return fmt.Errorf("API key is required (set %s)", EnvAPIKey)
	}
	if c.Index.VectorStoreID == "" {
		return fmt.Errorf("vector store id is required (set index.vector_store_id or %s)", EnvVectorStoreID)
	}
	return nil
}

// Load reads configuration from the TOML file at path, then applies
// environment overrides. A missing file is not an error; env vars alone
// can carry a full configuration. A .env file in the working directory
// is loaded first if present.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env just means the environment is
	// already set up.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// DefaultPath returns the default config file location,
// ~/.helpsync/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".helpsync", "config.toml")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Index.APIKey = v
	}
	if v := os.Getenv(EnvVectorStoreID); v != "" {
		cfg.Index.VectorStoreID = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv(EnvLimit); v != "" {
		if n := atoi(v); n > 0 {
			cfg.Source.Limit = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			cfg.Storage.DataDir = ".helpsync"
		} else {
			cfg.Storage.DataDir = filepath.Join(home, ".helpsync")
		}
	}
	if cfg.Source.Locale == "" {
		cfg.Source.Locale = "en-us"
	}
	if cfg.Source.PerPage <= 0 {
		cfg.Source.PerPage = 100
	}
	if cfg.Sync.Workers <= 0 {
		cfg.Sync.Workers = 4
	}
	if cfg.Sync.PollTimeoutSeconds <= 0 {
		cfg.Sync.PollTimeoutSeconds = 120
	}
}

// atoi is a forgiving integer parse for env values, zero on failure.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
