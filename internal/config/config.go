package config

import (
	"errors"
	"fmt"
	"github.com/goccy/go-yaml"
	"github.com/litetable/litetable-hut/internal/merge"
	"github.com/litetable/litetable-hut/internal/reducers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"path/filepath"
	"time"
)

const (
	homeDirName    = ".litetable"
	configFileName = "hut.yaml"
	dbFileName     = "hut.db"
)

// Dir returns the LiteTable directory of the current user, where the default database and
// configuration file live.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, homeDirName), nil
}

type Config struct {
	LogLevel string `yaml:"log_level"`
	// WriteBack compacts merged groups on every read.
	WriteBack  bool             `yaml:"write_back"`
	Store      StoreConfig      `yaml:"store"`
	Reducer    ReducerConfig    `yaml:"reducer"`
	Compaction CompactionConfig `yaml:"compaction"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type StoreConfig struct {
	Path      string `yaml:"path"`
	Bucket    string `yaml:"bucket"`
	BatchSize int    `yaml:"batch_size"`
}

type ReducerConfig struct {
	Kind string `yaml:"kind"`
	// SkipPrefixes lists original key prefixes the compaction leaves alone. Reads still merge them.
	SkipPrefixes []string `yaml:"skip_prefixes"`
}

type CompactionConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type MetricsConfig struct {
	Address string `yaml:"address"`
}

// Default returns the configuration used when no file is found. The database lives in the
// LiteTable directory of the current user.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel: zerolog.LevelInfoValue,
		Store: StoreConfig{
			Path:      filepath.Join(dir, dbFileName),
			Bucket:    "rows",
			BatchSize: 256,
		},
		Reducer: ReducerConfig{
			Kind: reducers.KindLatest,
		},
		Compaction: CompactionConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Address: "127.0.0.1:9464",
		},
	}, nil
}

// DefaultPath returns the location of the configuration file inside the LiteTable directory.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the YAML file at path on top of Default. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("config file not found, using default config")
			return cfg, cfg.validate()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errGrp []error
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errGrp = append(errGrp, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	if c.Store.Path == "" {
		errGrp = append(errGrp, errors.New("store.path cannot be empty"))
	}
	if c.Store.BatchSize < 0 {
		errGrp = append(errGrp, errors.New("store.batch_size cannot be negative"))
	}
	if _, err := reducers.ByName(c.Reducer.Kind); err != nil {
		errGrp = append(errGrp, fmt.Errorf("reducer.kind: %w", err))
	}
	if c.Compaction.Enabled && c.Compaction.Interval <= 0 {
		errGrp = append(errGrp, errors.New("compaction.interval must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewReducer builds the reducer used by reads.
func (c *Config) NewReducer() (merge.Reducer, error) {
	return reducers.ByName(c.Reducer.Kind)
}

// NewCompactionReducer builds the reducer used by compaction scans, which skips the configured
// prefixes.
func (c *Config) NewCompactionReducer() (merge.Reducer, error) {
	r, err := c.NewReducer()
	if err != nil {
		return nil, err
	}
	return reducers.Except(r, c.Reducer.SkipPrefixes...), nil
}
