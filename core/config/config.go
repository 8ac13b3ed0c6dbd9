package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"subdaap-sync/core/database"
	"subdaap-sync/core/logger"
	"subdaap-sync/core/server"
	"subdaap-sync/core/storage"
	"subdaap-sync/feature/subsonic"
	"subdaap-sync/feature/synchronizer"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the local store.
	Database database.Config `mapstructure:"database"`
	// Sync holds configuration for the synchronizer.
	Sync synchronizer.Config `mapstructure:"sync"`
	// Remotes lists the remote catalogs to mirror, one local database each.
	Remotes []subsonic.Config `mapstructure:"remotes"`
}

// LoadConfig loads configuration from environment variables, an optional
// .env file and an optional config.yaml in path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_INTERVAL -> sync.interval)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Lists (remotes) can only be expressed in the config file.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	for i := range config.Remotes {
		config.Remotes[i] = config.Remotes[i].WithDefaults()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if !c.Server.IsValidPort() {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}
	if err := c.Sync.Validate(); err != nil {
		return err
	}

	seen := make(map[int]string, len(c.Remotes))
	for _, r := range c.Remotes {
		if err := r.Validate(); err != nil {
			return err
		}
		if other, ok := seen[r.Index]; ok {
			return fmt.Errorf("remotes %q and %q share index %d", other, r.Name, r.Index)
		}
		seen[r.Index] = r.Name
	}
	return nil
}

// Remote returns the remote with the given index.
func (c *Config) Remote(index int) (subsonic.Config, bool) {
	for _, r := range c.Remotes {
		if r.Index == index {
			return r, true
		}
	}
	return subsonic.Config{}, false
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

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// Slices have no scalar default and would shadow the config file.
		if field.Type.Kind() == reflect.Slice {
			continue
		}

		// Nested structs recurse, except durations and other leaf types.
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
