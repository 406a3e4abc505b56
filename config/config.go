package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds every tunable of the agent. A single value is built at
// process start and threaded into each component; nothing reads
// configuration ambiently after that.
type Config struct {
	BaseSiteURL    string
	BrandToken     string
	DatabaseFile   string
	CategoriesFile string

	Headless  bool
	UserAgent string

	MaxScrolls    int
	PlateauRounds int
	ScrollPause   time.Duration
	WaitTimeout   time.Duration
	NavTimeout    time.Duration
	GlobalTimeout time.Duration

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	LLMTimeout    time.Duration

	MetricsAddr string
	Environment string
	LogLevel    string
}

// DefaultConfig returns the documented defaults for the target site.
func DefaultConfig() *Config {
	return &Config{
		BaseSiteURL:    "https://chaldal.com",
		BrandToken:     "chaldal",
		DatabaseFile:   "chaldal_products.db",
		CategoriesFile: "chaldal_verified_categories.json",
		Headless:       true,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		MaxScrolls:     20,
		PlateauRounds:  3,
		ScrollPause:    2 * time.Second,
		WaitTimeout:    15 * time.Second,
		NavTimeout:     30 * time.Second,
		GlobalTimeout:  30 * time.Minute,
		OpenAIBaseURL:  "https://api.openai.com/v1/chat/completions",
		OpenAIModel:    "gpt-4o-mini",
		LLMTimeout:     60 * time.Second,
		MetricsAddr:    "",
		Environment:    "development",
		LogLevel:       "info",
	}
}

// Load builds a config from defaults plus environment overrides.
func Load() *Config {
	cfg := DefaultConfig()

	if v, ok := EnvString("SITE_BASE_URL"); ok {
		cfg.BaseSiteURL = v
	}
	if v, ok := EnvString("DATABASE_FILE"); ok {
		cfg.DatabaseFile = v
	}
	if v, ok := EnvString("CATEGORIES_FILE"); ok {
		cfg.CategoriesFile = v
	}
	if v, ok := EnvString("USER_AGENT"); ok {
		cfg.UserAgent = v
	}
	if v, ok := EnvBool("HEADLESS"); ok {
		cfg.Headless = v
	}
	if v, ok, err := EnvInt("MAX_SCROLLS"); err == nil && ok {
		cfg.MaxScrolls = v
	}
	if v, ok, err := EnvInt("PLATEAU_ROUNDS"); err == nil && ok {
		cfg.PlateauRounds = v
	}
	if v, ok, err := EnvInt("SCROLL_PAUSE_SECONDS"); err == nil && ok {
		cfg.ScrollPause = time.Duration(v) * time.Second
	}
	if v, ok, err := EnvInt("WAIT_TIMEOUT_SECONDS"); err == nil && ok {
		cfg.WaitTimeout = time.Duration(v) * time.Second
	}
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	if v, ok := EnvString("OPENAI_BASE_URL"); ok {
		cfg.OpenAIBaseURL = v
	}
	if v, ok := EnvString("OPENAI_MODEL"); ok {
		cfg.OpenAIModel = v
	}
	if v, ok := EnvString("METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := EnvString("APP_ENV"); ok {
		cfg.Environment = v
	}
	if v, ok := EnvString("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}

	return cfg
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseSiteURL == "" {
		return fmt.Errorf("site base URL cannot be empty")
	}
	parsed, err := url.Parse(c.BaseSiteURL)
	if err != nil {
		return fmt.Errorf("invalid site base URL: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("site base URL must include a host")
	}
	if c.DatabaseFile == "" {
		return fmt.Errorf("database file cannot be empty")
	}
	if c.CategoriesFile == "" {
		return fmt.Errorf("categories file cannot be empty")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.MaxScrolls <= 0 {
		return fmt.Errorf("max scrolls must be positive")
	}
	if c.PlateauRounds <= 0 {
		return fmt.Errorf("plateau rounds must be positive")
	}
	if c.PlateauRounds > c.MaxScrolls {
		return fmt.Errorf("plateau rounds (%d) cannot exceed max scrolls (%d)", c.PlateauRounds, c.MaxScrolls)
	}
	if c.ScrollPause < 0 {
		return fmt.Errorf("scroll pause cannot be negative")
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive")
	}
	if c.NavTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}
	if c.GlobalTimeout <= 0 {
		return fmt.Errorf("global timeout must be positive")
	}
	if c.OpenAIModel == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("model call timeout must be positive")
	}
	return nil
}

// EnvString returns the value of an environment variable and whether it
// was set to something non-empty.
func EnvString(key string) (string, bool) {
	v := os.Getenv(key)
	if v == "" {
		return "", false
	}
	return v, true
}

// EnvInt parses an integer environment variable.
func EnvInt(key string) (int, bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvBool parses a boolean environment variable.
func EnvBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return parsed, true
}
