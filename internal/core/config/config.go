package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Platform holds the e-commerce platform API configuration.
	Platform PlatformConfig `mapstructure:",squash"`

	// Contacts holds the contact directory configuration.
	Contacts ContactsConfig `mapstructure:",squash"`

	// Redis holds the snapshot store configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Search holds the search engine tuning knobs.
	Search SearchConfig `mapstructure:",squash"`
}

// PlatformConfig holds the credentials for the e-commerce platform API.
type PlatformConfig struct {
	// URL is the base URL of the platform's REST API.
	URL string `mapstructure:"PLATFORM_URL" required:"true"`
	// APIKey authenticates dashboard calls against the platform.
	APIKey string `mapstructure:"PLATFORM_API_KEY" required:"true"`
}

// ContactsConfig holds the contact directory endpoint. When URL is empty
// the platform URL is used.
type ContactsConfig struct {
	// URL is the base URL of the contact directory API.
	URL string `mapstructure:"CONTACTS_URL"`
}

// RedisConfig holds the optional order snapshot store connection. An empty
// URL disables snapshotting.
type RedisConfig struct {
	// URL is the Redis connection string (redis://[:password@]host[:port][/db]).
	URL string `mapstructure:"REDIS_URL"`
}

// SearchConfig tunes the search orchestrator.
type SearchConfig struct {
	// CacheTTLMS is the result cache freshness window in milliseconds.
	CacheTTLMS int `mapstructure:"SEARCH_CACHE_TTL_MS" default:"30000"`
	// CacheMaxEntries bounds the result cache size.
	CacheMaxEntries int `mapstructure:"SEARCH_CACHE_MAX_ENTRIES" default:"10"`
	// DebounceMS is the debounce quiet period in milliseconds.
	DebounceMS int `mapstructure:"SEARCH_DEBOUNCE_MS" default:"300"`
	// RemoteLimit bounds one remote query page.
	RemoteLimit int `mapstructure:"SEARCH_REMOTE_LIMIT" default:"100"`
	// RefreshLimit is how many recent orders a collection refresh loads.
	RefreshLimit int `mapstructure:"ORDERS_REFRESH_LIMIT" default:"100"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.Contacts.URL == "" {
		config.Contacts.URL = config.Platform.URL
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
