package config

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

// Default endpoints of the NRK services used to resolve and describe programs.
const (
	DefaultProgramAPIURL    = "https://tvapi.nrk.no/v1/programs"
	DefaultMediaLookupURL   = "https://mimir.nrk.no/plugin/1.0/static"
	DefaultAPIClientVersion = "999"
)

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ProgramAPIURL         string `mapstructure:"program_api_url"`
	MediaLookupURL        string `mapstructure:"media_lookup_url"`
	APIClientVersion      string `mapstructure:"api_client_version"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent             string `mapstructure:"user_agent"`
	OutputDir             string `mapstructure:"output_dir"`
	Subtitles             bool   `mapstructure:"subtitles"`
	LogLevel              string `mapstructure:"log_level"`
	SentryDSN             string `mapstructure:"sentry_dsn"`
	Cache                 struct {
		Provider string `mapstructure:"provider"` // "memory", "redis" or empty to disable
		Size     int    `mapstructure:"size"`     // Maximum number of entries in the LRU cache
		TTL      string `mapstructure:"ttl"`      // Go duration string like "1h", "24h", etc.
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: !isatty.IsTerminal(os.Stdout.Fd()),
	}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Load reads the configuration (optionally from an explicit file), stores it
// as the global configuration and applies the configured log level.
func Load(configFile string) (*Config, error) {
	config, err := LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	SetLogLevel(config.LogLevel)
	globalConfig = config
	logger.Debug().Str("file", configFile).Msg("Configuration loaded successfully")
	return config, nil
}

// SetLogLevel parses and applies a zerolog level, keeping "info" when the value is invalid.
func SetLogLevel(value string) {
	level := zerolog.InfoLevel // default
	if value != "" {
		if parsedLevel, err := zerolog.ParseLevel(value); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", value).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)
}

func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Add specific environment variable for log level
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("program_api_url", DefaultProgramAPIURL)
	v.SetDefault("media_lookup_url", DefaultMediaLookupURL)
	v.SetDefault("api_client_version", DefaultAPIClientVersion)
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("output_dir", ".")
	v.SetDefault("subtitles", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("cache.provider", "")
	v.SetDefault("cache.size", 256)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", "localhost")
	v.SetDefault("metrics.port", 9090)
}

// GetConfig returns the loaded configuration, or the defaults when Load was never called.
func GetConfig() *Config {
	if globalConfig == nil {
		config, err := LoadConfig("")
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to load config")
		}
		globalConfig = config
	}
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
