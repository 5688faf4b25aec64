package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/deppmann/biocards/internal/forms"
	"github.com/deppmann/biocards/pkg/constants"
	"github.com/deppmann/biocards/pkg/errors"
)

// envPrefix namespaces environment overrides, e.g. BIOCARDS_DRIVE_FOLDER_ID.
const envPrefix = "BIOCARDS"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Catalog
	CatalogPath string
	ImagesDir   string

	// Google Drive
	DriveFolderID        string
	DriveCredentialsFile string
	DriveTokenFile       string

	// Event publishing, disabled when NATSURL is empty
	NATSURL   string
	NATSToken string

	// Gallery server
	ServerAddr           string
	ServerRateLimit      int
	ServerAllowedOrigins []string
	ServerCacheTTL       time.Duration

	// Form response layouts
	OnTimeColumns forms.Columns
	LateColumns   forms.Columns

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.biocards.yaml or ./.biocards.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".biocards")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config must exist; the search locations are optional.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		CatalogPath: v.GetString("catalog_path"),
		ImagesDir:   v.GetString("images_dir"),

		DriveFolderID:        v.GetString("drive.folder_id"),
		DriveCredentialsFile: v.GetString("drive.credentials_file"),
		DriveTokenFile:       v.GetString("drive.token_file"),

		NATSURL:   v.GetString("nats.url"),
		NATSToken: v.GetString("nats.token"),

		ServerAddr:           v.GetString("server.addr"),
		ServerRateLimit:      v.GetInt("server.rate_limit"),
		ServerAllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		ServerCacheTTL:       v.GetDuration("server.cache_ttl"),

		OnTimeColumns: forms.OnTimeColumns(),
		LateColumns:   forms.LateColumns(),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := v.UnmarshalKey("forms.columns.on_time", &config.OnTimeColumns); err != nil {
		return nil, errors.NewConfigError("config", "forms.columns.on_time", err)
	}
	if err := v.UnmarshalKey("forms.columns.late", &config.LateColumns); err != nil {
		return nil, errors.NewConfigError("config", "forms.columns.late", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return errors.NewValidationError("catalog_path", c.CatalogPath, "must not be empty")
	}
	if c.ImagesDir == "" {
		return errors.NewValidationError("images_dir", c.ImagesDir, "must not be empty")
	}
	if c.ServerRateLimit < 0 {
		return errors.NewValidationError("server.rate_limit", c.ServerRateLimit, "must not be negative")
	}
	if err := c.OnTimeColumns.Validate(); err != nil {
		return err
	}
	return c.LateColumns.Validate()
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// setDefaults registers defaults so every key is also reachable through
// the environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog_path", constants.DefaultCatalogPath)
	v.SetDefault("images_dir", constants.DefaultImagesDir)
	v.SetDefault("drive.folder_id", "")
	v.SetDefault("drive.credentials_file", constants.DefaultCredentialsFile)
	v.SetDefault("drive.token_file", constants.DefaultTokenFile)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.token", "")
	v.SetDefault("server.addr", constants.DefaultServerAddr)
	v.SetDefault("server.rate_limit", constants.DefaultRateLimit)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.cache_ttl", constants.CatalogCacheTTL)
}

// loadEnvFiles loads environment variables from .env files.
// godotenv never overrides variables that are already set, so .env only
// fills what .env.local left out.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
