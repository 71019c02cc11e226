package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PublishedDoonk/notes-so/database"
	"github.com/PublishedDoonk/notes-so/search"
	"github.com/pelletier/go-toml/v2"
)

// ConfigEnv names the environment variable pointing at the config file.
const ConfigEnv = "NOTES_SO_CONFIG"

// DefaultConfigFile is read from the working directory when ConfigEnv is unset.
const DefaultConfigFile = "notes.toml"

// Config holds the configuration for the CLI.
type Config struct {
	// Directory scanned for PDFs, one level of subdirectories deep.
	Directory string `toml:"directory"`

	// Directory holding the persisted index.
	DataDir string `toml:"data_dir"`

	// Markdown document overwritten with each query's results.
	Output string `toml:"output"`

	// Maximum results per query. 0 writes all of them.
	Top int `toml:"top"`

	// Max documents extracted at a time.
	// Large values will increase CPU and memory usage.
	Workers int `toml:"workers"`

	// Store backend: json or sqlite.
	Backend string `toml:"backend"`

	// Query for the one-shot search subcommand.
	Pattern string `toml:"-"`

	// server port. default is 8080
	Port int `toml:"port"`
}

var DefaultConfig = Config{
	Directory: "PDF Resources",
	DataDir:   "data",
	Output:    "results.md",
	Workers:   search.DefaultWorkers,
	Backend:   database.BackendJSON,
	Port:      8080,
}

// ConfigPath returns the config file location: $NOTES_SO_CONFIG or notes.toml.
func ConfigPath() string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return path
	}
	return DefaultConfigFile
}

// LoadFile overlays the TOML file at path onto config. A missing file is not
// an error; keys absent from the file keep their current values.
func LoadFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if c.Directory == "" {
		return errors.New("directory must not be empty")
	}
	if c.DataDir == "" {
		return errors.New("data directory must not be empty")
	}
	if c.Output == "" {
		return errors.New("output must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", c.Top)
	}
	switch c.Backend {
	case database.BackendJSON, database.BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// StoreConfig returns the store location derived from the data directory.
func (c *Config) StoreConfig() database.StoreConfig {
	return database.StoreConfig{BasePath: c.DataDir}
}
