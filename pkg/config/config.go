package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar-date format accepted for start/end boundaries.
// Dates are always interpreted in UTC so runs are comparable across hosts.
const DateLayout = "2006-01-02"

// Config holds all configuration options for the comment scraper
type Config struct {
	// Archive API settings
	Archive ArchiveConfig `yaml:"archive" json:"archive"`

	// Scrape window and checkpointing
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Rate limiting and retry configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Storage settings
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ArchiveConfig holds Arctic Shift API settings
type ArchiveConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Subreddit string `yaml:"subreddit" json:"subreddit"`
	PageSize  int    `yaml:"page_size" json:"page_size"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// ScrapeConfig holds the ingestion window and checkpoint cadence
type ScrapeConfig struct {
	StartDate string `yaml:"start_date" json:"start_date"`
	EndDate   string `yaml:"end_date" json:"end_date"`
	// CheckpointInterval is the number of batches between commits and progress reports
	CheckpointInterval int `yaml:"checkpoint_interval" json:"checkpoint_interval"`
}

// RateLimitConfig holds request pacing and retry configuration
type RateLimitConfig struct {
	// RequestDelay is the fixed pause between successful API calls
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"`
	// MaxRetries bounds retries for transport errors; throttling retries are uncapped
	MaxRetries     int           `yaml:"max_retries" json:"max_retries"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// StorageConfig holds SQLite storage settings
type StorageConfig struct {
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			BaseURL:   "https://arctic-shift.photon-reddit.com",
			Subreddit: "wallstreetbets",
			PageSize:  100,
			UserAgent: "wsbscraper/1.0 (academic research)",
		},
		Scrape: ScrapeConfig{
			StartDate:          "2020-12-01",
			EndDate:            "2021-03-31",
			CheckpointInterval: 10,
		},
		RateLimit: RateLimitConfig{
			RequestDelay:   time.Second,
			MaxRetries:     5,
			RequestTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Path: filepath.Join("data", "wsb_data.sqlite"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration overrides from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("WSBSCRAPER_BASE_URL"); baseURL != "" {
		c.Archive.BaseURL = baseURL
	}
	if subreddit := os.Getenv("WSBSCRAPER_SUBREDDIT"); subreddit != "" {
		c.Archive.Subreddit = subreddit
	}
	if userAgent := os.Getenv("WSBSCRAPER_USER_AGENT"); userAgent != "" {
		c.Archive.UserAgent = userAgent
	}
	if start := os.Getenv("WSBSCRAPER_START_DATE"); start != "" {
		c.Scrape.StartDate = start
	}
	if end := os.Getenv("WSBSCRAPER_END_DATE"); end != "" {
		c.Scrape.EndDate = end
	}
	if path := os.Getenv("WSBSCRAPER_DB_PATH"); path != "" {
		c.Storage.Path = path
	}
	if delay := os.Getenv("WSBSCRAPER_REQUEST_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid WSBSCRAPER_REQUEST_DELAY: %w", err)
		}
		c.RateLimit.RequestDelay = d
	}
	if retries := os.Getenv("WSBSCRAPER_MAX_RETRIES"); retries != "" {
		var val int
		fmt.Sscanf(retries, "%d", &val)
		if val > 0 {
			c.RateLimit.MaxRetries = val
		}
	}
	if logLevel := os.Getenv("WSBSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // no config file, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".wsbscraper.yaml",
		".wsbscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "wsbscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "wsbscraper", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks that the configuration is usable. It is called before any
// network activity so a bad run fails at startup rather than mid-ingestion.
func (c *Config) Validate() error {
	var errs []error

	if c.Archive.BaseURL == "" {
		errs = append(errs, errors.New("archive base URL is required"))
	}
	if c.Archive.Subreddit == "" {
		errs = append(errs, errors.New("subreddit is required"))
	}
	if c.Archive.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}

	start, err := c.StartTime()
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid start date %q: expected %s", c.Scrape.StartDate, DateLayout))
	}
	end, err := c.EndTime()
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid end date %q: expected %s", c.Scrape.EndDate, DateLayout))
	}
	if err == nil && !start.IsZero() && !end.After(start) {
		errs = append(errs, errors.New("end date must be after start date"))
	}

	if c.Scrape.CheckpointInterval <= 0 {
		errs = append(errs, errors.New("checkpoint interval must be positive"))
	}
	if c.RateLimit.RequestDelay < 0 {
		errs = append(errs, errors.New("request delay cannot be negative"))
	}
	if c.RateLimit.MaxRetries < 1 {
		errs = append(errs, errors.New("max retries must be at least 1"))
	}
	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage path is required"))
	}

	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed: %s", strings.Join(msgs, "; "))
	}

	return nil
}

// StartTime parses the configured start date in UTC
func (c *Config) StartTime() (time.Time, error) {
	return time.ParseInLocation(DateLayout, c.Scrape.StartDate, time.UTC)
}

// EndTime parses the configured end date in UTC
func (c *Config) EndTime() (time.Time, error) {
	return time.ParseInLocation(DateLayout, c.Scrape.EndDate, time.UTC)
}

// MergeCommandLineFlags applies command-line flag values on top of the config
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	for key, value := range flags {
		switch key {
		case "start":
			if v, ok := value.(string); ok {
				c.Scrape.StartDate = v
			}
		case "end":
			if v, ok := value.(string); ok {
				c.Scrape.EndDate = v
			}
		case "db":
			if v, ok := value.(string); ok {
				c.Storage.Path = v
			}
		case "subreddit":
			if v, ok := value.(string); ok {
				c.Archive.Subreddit = v
			}
		case "base-url":
			if v, ok := value.(string); ok {
				c.Archive.BaseURL = v
			}
		case "page-size":
			if v, ok := value.(int); ok {
				c.Archive.PageSize = v
			}
		case "request-delay":
			if v, ok := value.(time.Duration); ok {
				c.RateLimit.RequestDelay = v
			}
		case "max-retries":
			if v, ok := value.(int); ok {
				c.RateLimit.MaxRetries = v
			}
		case "checkpoint-interval":
			if v, ok := value.(int); ok {
				c.Scrape.CheckpointInterval = v
			}
		case "log-level":
			if v, ok := value.(string); ok {
				c.Logging.Level = v
			}
		}
	}
}

// Load creates a configuration by merging defaults, config file,
// environment variables, and command-line flags, in that order
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Load .env file if present (ignore errors, it's optional)
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, err
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	cfg.MergeCommandLineFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
