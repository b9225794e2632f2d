package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Storage StorageConfig `toml:"storage"`
	Browser BrowserConfig `toml:"browser"`
	Export  ExportConfig  `toml:"export"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"`  // "stdout", "file"
}

type StorageConfig struct {
	Type   string       `toml:"type" validate:"oneof=badger"`
	Badger BadgerConfig `toml:"badger"`
	Seed   SeedConfig   `toml:"seed"`
	Output OutputConfig `toml:"output"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean runs
}

// SeedConfig points at JSON files loaded into the quotation store at startup
type SeedConfig struct {
	Dir string `toml:"dir"` // Empty disables seeding
}

// OutputConfig is where the filesystem saver writes PDFs
type OutputConfig struct {
	Dir string `toml:"dir" validate:"required"`
}

// BrowserConfig configures the headless Chrome pool
type BrowserConfig struct {
	MaxInstances   int    `toml:"max_instances" validate:"min=1,max=20"`
	Headless       bool   `toml:"headless"`
	DisableGPU     bool   `toml:"disable_gpu"`
	NoSandbox      bool   `toml:"no_sandbox"`
	UserAgent      string `toml:"user_agent"`
	RequestTimeout string `toml:"request_timeout" validate:"duration"` // e.g. "30s"
}

// ExportConfig controls rasterization, page layout and export throttling
type ExportConfig struct {
	Scale            float64 `toml:"scale" validate:"gt=0,lte=4"`
	JPEGQuality      int     `toml:"jpeg_quality" validate:"min=1,max=99"`
	PageMarginMM     float64 `toml:"page_margin_mm" validate:"gte=0,lt=50"`
	RenderTimeout    string  `toml:"render_timeout" validate:"duration"` // e.g. "60s"
	RateLimit        float64 `toml:"rate_limit" validate:"gte=0"`        // exports per second over HTTP, 0 disables
	RateBurst        int     `toml:"rate_burst" validate:"gte=0"`
	FailOnImageError bool    `toml:"fail_on_image_error"`
	Timezone         string  `toml:"timezone"` // IANA name for document dates, empty keeps the record's offset
	Concurrency      int     `toml:"concurrency" validate:"gte=0"` // batch export workers, 0 uses browser.max_instances
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8086,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data/quotedoc",
			},
			Seed: SeedConfig{
				Dir: "./seed",
			},
			Output: OutputConfig{
				Dir: "./output",
			},
		},
		Browser: BrowserConfig{
			MaxInstances:   2,
			Headless:       true,
			DisableGPU:     true,
			NoSandbox:      false,
			UserAgent:      "quotedoc/1.0",
			RequestTimeout: "30s",
		},
		Export: ExportConfig{
			Scale:            2,
			JPEGQuality:      98,
			PageMarginMM:     5,
			RenderTimeout:    "60s",
			RateLimit:        2,
			RateBurst:        4,
			FailOnImageError: true,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies QUOTEDOC_* environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Server configuration
	if port := os.Getenv("QUOTEDOC_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("QUOTEDOC_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("QUOTEDOC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("QUOTEDOC_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("QUOTEDOC_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if seedDir := os.Getenv("QUOTEDOC_SEED_DIR"); seedDir != "" {
		config.Storage.Seed.Dir = seedDir
	}
	if outputDir := os.Getenv("QUOTEDOC_OUTPUT_DIR"); outputDir != "" {
		config.Storage.Output.Dir = outputDir
	}

	// Browser configuration
	if maxInstances := os.Getenv("QUOTEDOC_BROWSER_MAX_INSTANCES"); maxInstances != "" {
		if n, err := strconv.Atoi(maxInstances); err == nil {
			config.Browser.MaxInstances = n
		}
	}
	if noSandbox := os.Getenv("QUOTEDOC_BROWSER_NO_SANDBOX"); noSandbox != "" {
		if b, err := strconv.ParseBool(noSandbox); err == nil {
			config.Browser.NoSandbox = b
		}
	}

	// Export configuration
	if timeout := os.Getenv("QUOTEDOC_EXPORT_RENDER_TIMEOUT"); timeout != "" {
		config.Export.RenderTimeout = timeout
	}
	if failOnImage := os.Getenv("QUOTEDOC_EXPORT_FAIL_ON_IMAGE_ERROR"); failOnImage != "" {
		if b, err := strconv.ParseBool(failOnImage); err == nil {
			config.Export.FailOnImageError = b
		}
	}
	if tz := os.Getenv("QUOTEDOC_EXPORT_TIMEZONE"); tz != "" {
		config.Export.Timezone = tz
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string, outputDir string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if outputDir != "" {
		config.Storage.Output.Dir = outputDir
	}
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("duration", validateDuration); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Export.Timezone != "" {
		if _, err := time.LoadLocation(c.Export.Timezone); err != nil {
			return fmt.Errorf("invalid configuration: export.timezone: %w", err)
		}
	}
	return nil
}

// validateDuration accepts empty strings and anything time.ParseDuration accepts
func validateDuration(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.ParseDuration(value)
	return err == nil
}

// RequestTimeoutDuration returns the browser request timeout, 0 when unset
func (b BrowserConfig) RequestTimeoutDuration() time.Duration {
	return parseDuration(b.RequestTimeout)
}

// RenderTimeoutDuration returns the per-export render deadline, 0 when unset
func (e ExportConfig) RenderTimeoutDuration() time.Duration {
	return parseDuration(e.RenderTimeout)
}

// Location returns the configured document timezone, nil when unset or unknown
func (e ExportConfig) Location() *time.Location {
	if e.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil
	}
	return loc
}

func parseDuration(value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}
