package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tracker/internal/constants"
	"github.com/julianstephens/tracker/internal/utils"
)

type Config struct {
	// Store is a sqlite file path, a *.json snapshot path, or a postgres URL
	// without embedded credentials.
	Store       string    `yaml:"store"`
	Timezone    string    `yaml:"timezone"`
	DefaultMode string    `yaml:"default_mode"`
	Log         LogConfig `yaml:"log"`

	// DBConnection is the full postgres connection string. It is only read
	// from the environment, never from the config file.
	DBConnection string `yaml:"-"`
}

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Store:       constants.DefaultConfigPath,
		Timezone:    constants.DefaultTimezone,
		DefaultMode: constants.DefaultFilter,
	}
}

// LogDir returns the directory log files are written to. Without an explicit
// directory, logs sit in a "logs" folder next to a sqlite or JSON store, and
// next to the default store path when the store is a postgres URL.
func (c *Config) LogDir() string {
	if c.Log.Dir != "" {
		return ExpandPath(c.Log.Dir)
	}
	base := constants.DefaultConfigPath
	if c.Store != "" && !c.IsPostgres() {
		base = c.Store
	}
	return filepath.Join(filepath.Dir(ExpandPath(base)), "logs")
}

// Load builds the configuration from defaults, then the YAML file at
// configFile (if it exists), then environment variables. A .env file in the
// working directory is loaded into the environment first.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	c := Default()

	if configFile != "" {
		data, err := os.ReadFile(ExpandPath(configFile))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	envOverride(&c.Store, constants.EnvStore)
	envOverride(&c.Timezone, constants.EnvTimezone)
	envOverride(&c.Log.Dir, constants.EnvLogDir)
	envOverride(&c.DBConnection, constants.EnvDBConnection)
	envOverrideBool(&c.Log.Debug, constants.EnvDebug)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.Store = ExpandPath(c.Store)
	c.Log.Dir = ExpandPath(c.Log.Dir)

	return c, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return fmt.Errorf("store cannot be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone: %s", c.Timezone)
	}
	switch c.DefaultMode {
	case constants.FilterAll, constants.FilterToday, constants.FilterCompleted, constants.FilterUncompleted:
	default:
		return fmt.Errorf("invalid default_mode: %s", c.DefaultMode)
	}
	return nil
}

// IsPostgres reports whether Store names a postgres database.
func (c *Config) IsPostgres() bool {
	return IsPostgresURL(c.Store)
}

func IsPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// ExpandPath replaces a leading "~" with the user's home directory.
// Postgres URLs and paths without a tilde are returned unchanged.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
