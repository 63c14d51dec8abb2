package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

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

	// Storage selects and configures the key-value store.
	Storage StorageConfig `mapstructure:",squash"`

	// Tracking holds the order store and tracking view settings.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Admin holds the seeded admin account.
	Admin AdminConfig `mapstructure:",squash"`

	// Auth holds the session token settings.
	Auth AuthConfig `mapstructure:",squash"`
}

// Storage drivers.
const (
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// StorageConfig holds the key-value store connection details.
type StorageConfig struct {
	// Driver is either "redis" or "memory".
	Driver string `mapstructure:"STORAGE_DRIVER" default:"redis"`
	// RedisURL is the connection string, e.g. redis://localhost:6379/0.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// TrackingConfig holds order store and tracking view settings.
type TrackingConfig struct {
	// SeedOrderCount is the number of sample orders written when the orders collection is absent.
	SeedOrderCount int `mapstructure:"SEED_ORDER_COUNT" default:"5"`
	// PollInterval is how often tracking streams re-read the order store.
	PollInterval time.Duration `mapstructure:"TRACKING_POLL_INTERVAL" default:"10s"`
	// HeartbeatInterval is how often an idle tracking stream writes a keep-alive comment.
	HeartbeatInterval time.Duration `mapstructure:"TRACKING_HEARTBEAT_INTERVAL" default:"15s"`
}

// AdminConfig describes the admin credential seeded on first run.
type AdminConfig struct {
	Username string `mapstructure:"ADMIN_USERNAME" default:"admin"`
	// Password is hashed before it is stored.
	Password string `mapstructure:"ADMIN_PASSWORD" default:"apex2025"`
	Name     string `mapstructure:"ADMIN_NAME" default:"Admin User"`
	Email    string `mapstructure:"ADMIN_EMAIL" default:"admin@apexshipping.com"`
}

// AuthConfig holds the signing settings for admin session tokens.
type AuthConfig struct {
	// JWTSecret is the HMAC key used to sign session tokens.
	JWTSecret string `mapstructure:"AUTH_JWT_SECRET" required:"true"`
	// TokenTTL is how long an issued session token stays valid.
	TokenTTL time.Duration `mapstructure:"AUTH_TOKEN_TTL" default:"12h"`
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

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate checks cross-field constraints that tags cannot express.
func (c *AppConfig) validate() error {
	switch c.Storage.Driver {
	case StorageDriverRedis, StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: must be %q or %q", c.Storage.Driver, StorageDriverRedis, StorageDriverMemory)
	}

	if c.Tracking.PollInterval <= 0 {
		return fmt.Errorf("TRACKING_POLL_INTERVAL must be positive, got %s", c.Tracking.PollInterval)
	}
	if c.Tracking.HeartbeatInterval <= 0 {
		return fmt.Errorf("TRACKING_HEARTBEAT_INTERVAL must be positive, got %s", c.Tracking.HeartbeatInterval)
	}

	if c.Tracking.SeedOrderCount < 0 {
		return fmt.Errorf("SEED_ORDER_COUNT must not be negative, got %d", c.Tracking.SeedOrderCount)
	}

	return nil
}

// processTags walks the struct fields, binds each key to the environment
// and registers default values in Viper.
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
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
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

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
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
