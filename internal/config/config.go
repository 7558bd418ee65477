package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys shared by viper, environment variables (TALLY_ prefix) and flags.
const (
	KeyAPIURL       = "api_url"
	KeyWebURL       = "web_url"
	KeyDataDir      = "data_dir"
	KeyStorage      = "storage"
	KeyTimeout      = "timeout"
	KeyLogLevel     = "log_level"
	KeyLogFile      = "log_file"
	KeyOutputFormat = "output_format"
	KeySendUserID   = "send_user_id"
)

const (
	EnvPrefix       = "TALLY"
	DefaultAPIURL   = "https://expensetrackerbe-rkgb.onrender.com/api"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
	LogFileName     = "tally.log"
	// LogToStderr as log_file sends logs to stderr instead of a file.
	LogToStderr = "-"
)

var (
	StorageBackends = []string{"file", "sqlite", "memory"}
	OutputFormats   = []string{"table", "json", "yaml"}
	LogLevels       = []string{"debug", "info", "warn", "error"}
)

// Config is the resolved client configuration.
type Config struct {
	APIURL       string        `mapstructure:"api_url"`
	WebURL       string        `mapstructure:"web_url"`
	DataDir      string        `mapstructure:"data_dir"`
	Storage      string        `mapstructure:"storage"`
	Timeout      time.Duration `mapstructure:"timeout"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
	OutputFormat string        `mapstructure:"output_format"`
	SendUserID   bool          `mapstructure:"send_user_id"`
}

// DefaultDataDir is ~/.tally, or .tally in the working directory when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tally"
	}
	return filepath.Join(home, ".tally")
}

// SetDefaults registers default values on viper.
func SetDefaults() {
	viper.SetDefault(KeyAPIURL, DefaultAPIURL)
	viper.SetDefault(KeyWebURL, "")
	viper.SetDefault(KeyDataDir, DefaultDataDir())
	viper.SetDefault(KeyStorage, "file")
	viper.SetDefault(KeyTimeout, DefaultTimeout)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
	viper.SetDefault(KeyLogFile, "")
	viper.SetDefault(KeyOutputFormat, "table")
	viper.SetDefault(KeySendUserID, false)
}

// Init loads .env, binds TALLY_* environment variables and reads the optional
// config file. An explicit configFile must exist; otherwise config.yaml in the
// data directory is used when present.
func Init(configFile string) error {
	_ = godotenv.Load()

	SetDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("config.Init: read %s: %w", configFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(viper.GetString(KeyDataDir))
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config.Init: %w", err)
		}
	}
	return nil
}

// Get returns the configuration viper currently holds.
func Get() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Get: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.APIURL); err != nil || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid api_url %q: must be an absolute URL", c.APIURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid api_url scheme %q: must be http or https", u.Scheme))
	}

	if c.WebURL != "" {
		if u, err := url.Parse(c.WebURL); err != nil || u.Host == "" {
			problems = append(problems, fmt.Sprintf("invalid web_url %q: must be an absolute URL", c.WebURL))
		}
	}

	if c.DataDir == "" {
		problems = append(problems, "data_dir cannot be empty")
	}

	if !slices.Contains(StorageBackends, c.Storage) {
		problems = append(problems, fmt.Sprintf("invalid storage %q: must be one of %v", c.Storage, StorageBackends))
	}

	if c.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid timeout %v: must be positive", c.Timeout))
	} else if c.Timeout > 5*time.Minute {
		problems = append(problems, fmt.Sprintf("invalid timeout %v: must be at most 5 minutes", c.Timeout))
	}

	if !slices.Contains(LogLevels, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("invalid log_level %q: must be one of %v", c.LogLevel, LogLevels))
	}

	if !slices.Contains(OutputFormats, c.OutputFormat) {
		problems = append(problems, fmt.Sprintf("invalid output_format %q: must be one of %v", c.OutputFormat, OutputFormats))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// LogPath returns where logs are written, or LogToStderr.
func (c *Config) LogPath() string {
	switch c.LogFile {
	case "":
		return filepath.Join(c.DataDir, LogFileName)
	case LogToStderr:
		return LogToStderr
	default:
		return c.LogFile
	}
}
