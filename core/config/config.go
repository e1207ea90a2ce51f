package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"warehouse-sync/core/database"
	"warehouse-sync/core/logger"
	"warehouse-sync/core/reconcile"
	"warehouse-sync/core/relay"
	"warehouse-sync/core/server"
	"warehouse-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the snapshot archive bucket (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the snapshot database.
	Database database.Config `mapstructure:"database"`
	// Sync holds propagation and health tuning for the engine.
	Sync reconcile.Config `mapstructure:"sync"`
	// Relay holds configuration for the Redis event relay.
	Relay relay.Config `mapstructure:"relay"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing .env is normal in production
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate rejects settings the engine and its sinks cannot run with.
// Zero values fall back to package defaults; negative ones are errors.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver))
	}

	if c.Sync.PropagationTimeoutMs < 0 {
		errs = append(errs, errors.New("sync.propagation_timeout_ms must not be negative"))
	}
	if c.Sync.MaxParallel < 0 {
		errs = append(errs, errors.New("sync.max_parallel must not be negative"))
	}
	if c.Sync.HealthyLagThreshold < 0 {
		errs = append(errs, errors.New("sync.healthy_lag_threshold must not be negative"))
	}
	if c.Sync.SnapshotIntervalSeconds < 0 {
		errs = append(errs, errors.New("sync.snapshot_interval_seconds must not be negative"))
	}

	if c.Storage.Retention < 0 {
		errs = append(errs, errors.New("storage.retention must not be negative"))
	}

	if c.Relay.Enabled {
		if c.Relay.Address == "" {
			errs = append(errs, errors.New("relay.address is required when the relay is enabled"))
		}
		if c.Relay.BufferSize <= 0 {
			errs = append(errs, errors.New("relay.buffer_size must be positive"))
		}
	}

	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
